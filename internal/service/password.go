package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher хеширует пароли сотрудников через bcrypt.
// Пароль предварительно смешивается с pepper через HMAC-SHA256,
// поэтому ограничение bcrypt в 72 байта на длину пароля не действует.
type PasswordHasher struct {
	pepper []byte
	cost   int
}

// NewPasswordHasher создаёт PasswordHasher. cost вне диапазона bcrypt заменяется на DefaultCost.
func NewPasswordHasher(pepper string, cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{pepper: []byte(pepper), cost: cost}
}

// Hash возвращает bcrypt-хеш пароля.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(h.peppered(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hash), nil
}

// Verify проверяет пароль по хешу.
func (h *PasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), h.peppered(password)) == nil
}

func (h *PasswordHasher) peppered(password string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(password))
	sum := mac.Sum(nil)
	out := make([]byte, base64.RawStdEncoding.EncodedLen(len(sum)))
	base64.RawStdEncoding.Encode(out, sum)
	return out
}
