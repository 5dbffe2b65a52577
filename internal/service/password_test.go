package service

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher("pepper", bcrypt.MinCost)

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash() ошибка: %v", err)
	}
	if !h.Verify(hash, "secret") {
		t.Error("Verify() не принял верный пароль")
	}
	if h.Verify(hash, "wrong") {
		t.Error("Verify() принял неверный пароль")
	}

	// Другой pepper — другой результат проверки
	if NewPasswordHasher("other", bcrypt.MinCost).Verify(hash, "secret") {
		t.Error("хеш не должен проверяться с другим pepper")
	}
}

func TestPasswordHasherLongPassword(t *testing.T) {
	h := NewPasswordHasher("", bcrypt.MinCost)
	long := strings.Repeat("x", 200)

	hash, err := h.Hash(long)
	if err != nil {
		t.Fatalf("Hash() длинного пароля: %v", err)
	}
	if !h.Verify(hash, long) {
		t.Error("Verify() не принял длинный пароль")
	}
	if h.Verify(hash, long[:199]) {
		t.Error("пароли, различающиеся после 72 байт, должны различаться")
	}
}

func TestPasswordHasherCostFallback(t *testing.T) {
	if h := NewPasswordHasher("", 1); h.cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, ожидается %d", h.cost, bcrypt.DefaultCost)
	}
}
