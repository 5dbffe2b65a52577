// Пакет auth — идентификация сессий браузера.
// Cookie содержит только зашифрованный (AES-256-GCM) идентификатор сессии,
// сами атрибуты сессии хранятся на сервере (см. scope.SessionStore).
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Имя cookie с зашифрованной сессией.
const SessionCookieName = "em_session"

// SessionData — данные сессии, хранящиеся в зашифрованном cookie.
type SessionData struct {
	// ID — идентификатор сессии (UUID), ключ серверной корзины атрибутов.
	ID string `json:"id"`
	// CreatedAt — время создания сессии (Unix timestamp).
	CreatedAt int64 `json:"created_at"`
	// ExpiresAt — время окончания сессии (Unix timestamp).
	ExpiresAt int64 `json:"expires_at"`
}

// IsExpired проверяет, закончилась ли сессия.
func (s *SessionData) IsExpired() bool {
	return time.Now().Unix() >= s.ExpiresAt
}

// SessionManager — менеджер сессий.
// Шифрует/дешифрует SessionData в HTTP cookies через AES-256-GCM.
type SessionManager struct {
	// gcm — AEAD cipher для шифрования/дешифрования.
	gcm cipher.AEAD
	// secure — использовать Secure flag для cookie (true для HTTPS).
	secure bool
	// maxAge — время жизни сессии.
	maxAge time.Duration
}

// NewSessionManager создаёт новый менеджер сессий.
// key — 32-байтовый ключ для AES-256-GCM (base64) или произвольная строка.
// Если key пустой — генерируется случайный ключ (непостоянный между рестартами).
func NewSessionManager(key string, secure bool, maxAge time.Duration) (*SessionManager, error) {
	var keyBytes []byte

	if key == "" {
		// Автогенерация ключа (32 bytes = AES-256)
		keyBytes = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, keyBytes); err != nil {
			return nil, fmt.Errorf("ошибка генерации ключа сессии: %w", err)
		}
	} else {
		var err error
		keyBytes, err = base64.StdEncoding.DecodeString(key)
		if err != nil || len(keyBytes) != 32 {
			// Если не base64 — хешируем строку до 32 bytes через SHA-256
			keyBytes = sha256Key(key)
		}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания GCM: %w", err)
	}

	return &SessionManager{
		gcm:    gcm,
		secure: secure,
		maxAge: maxAge,
	}, nil
}

// NewSession создаёт новую сессию со свежим UUID.
func (sm *SessionManager) NewSession() *SessionData {
	now := time.Now()
	return &SessionData{
		ID:        uuid.NewString(),
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(sm.maxAge).Unix(),
	}
}

// Encrypt шифрует SessionData и возвращает base64-строку.
func (sm *SessionManager) Encrypt(data *SessionData) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации сессии: %w", err)
	}

	// Уникальный nonce для каждого шифрования
	nonce := make([]byte, sm.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("ошибка генерации nonce: %w", err)
	}

	ciphertext := sm.gcm.Seal(nonce, nonce, plaintext, nil)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// Decrypt дешифрует base64-строку обратно в SessionData.
func (sm *SessionManager) Decrypt(encrypted string) (*SessionData, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования base64: %w", err)
	}

	nonceSize := sm.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("зашифрованные данные слишком короткие")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := sm.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка дешифрования сессии: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("ошибка десериализации сессии: %w", err)
	}
	if data.ID == "" {
		return nil, errors.New("в сессии нет идентификатора")
	}

	return &data, nil
}

// SetSessionCookie устанавливает зашифрованный session cookie в ответ.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, data *SessionData) error {
	encrypted, err := sm.Encrypt(data)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encrypted,
		Path:     "/",
		MaxAge:   int(sm.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetSessionFromRequest извлекает и дешифрует SessionData из cookie запроса.
// Возвращает nil, nil если cookie отсутствует.
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) (*SessionData, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	return sm.Decrypt(cookie.Value)
}

// EnsureSessionID возвращает идентификатор сессии запроса.
// Отсутствующая, повреждённая или истёкшая сессия заменяется новой,
// cookie новой сессии записывается в ответ.
func (sm *SessionManager) EnsureSessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := sm.GetSessionFromRequest(r)
	if err == nil && session != nil && !session.IsExpired() {
		return session.ID, nil
	}

	session = sm.NewSession()
	if err := sm.SetSessionCookie(w, session); err != nil {
		return "", err
	}
	return session.ID, nil
}

// sha256Key хеширует строковый ключ в 32 bytes через SHA-256.
func sha256Key(key string) []byte {
	h := sha256.Sum256([]byte(key))
	return h[:]
}
