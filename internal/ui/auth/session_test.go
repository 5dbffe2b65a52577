package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestSessionEncryptDecryptRoundTrip проверяет шифрование и дешифрование SessionData.
func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("", false, time.Hour)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := sm.NewSession()

	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.ID != original.ID {
		t.Errorf("ID: want %q, got %q", original.ID, decrypted.ID)
	}
	if decrypted.ExpiresAt != original.ExpiresAt {
		t.Errorf("ExpiresAt: want %d, got %d", original.ExpiresAt, decrypted.ExpiresAt)
	}
}

// TestSessionDecryptWithWrongKey проверяет, что дешифрование чужим ключом не работает.
func TestSessionDecryptWithWrongKey(t *testing.T) {
	sm1, _ := NewSessionManager("key-one", false, time.Hour)
	sm2, _ := NewSessionManager("key-two", false, time.Hour)

	encrypted, err := sm1.Encrypt(sm1.NewSession())
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	if _, err = sm2.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestSessionDecryptWithoutID проверяет, что сессия без идентификатора отвергается.
func TestSessionDecryptWithoutID(t *testing.T) {
	sm, _ := NewSessionManager("key", false, time.Hour)

	encrypted, err := sm.Encrypt(&SessionData{ExpiresAt: time.Now().Add(time.Hour).Unix()})
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}
	if _, err := sm.Decrypt(encrypted); err == nil {
		t.Error("Ожидалась ошибка для сессии без ID")
	}
}

// TestEnsureSessionIDReusesCookie проверяет, что существующая сессия сохраняется между запросами.
func TestEnsureSessionIDReusesCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, time.Hour)

	// Первый запрос — новая сессия и cookie
	w := httptest.NewRecorder()
	id1, err := sm.EnsureSessionID(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("EnsureSessionID() ошибка: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie новой сессии не установлен")
	}

	cookie := cookies[0]
	if cookie.Name != SessionCookieName {
		t.Errorf("Cookie name: want %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Path != "/" {
		t.Errorf("Cookie path: want /, got %q", cookie.Path)
	}
	if !cookie.HttpOnly {
		t.Error("Cookie должен быть HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть SameSite=Lax")
	}

	// Второй запрос с cookie — та же сессия, cookie не переустанавливается
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	id2, err := sm.EnsureSessionID(w2, req)
	if err != nil {
		t.Fatalf("EnsureSessionID() ошибка: %v", err)
	}
	if id2 != id1 {
		t.Errorf("ID сессии изменился: %q → %q", id1, id2)
	}
	if len(w2.Result().Cookies()) != 0 {
		t.Error("Cookie не должен переустанавливаться для живой сессии")
	}
}

// TestEnsureSessionIDReplacesBrokenCookie проверяет замену повреждённого cookie.
func TestEnsureSessionIDReplacesBrokenCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	w := httptest.NewRecorder()

	id, err := sm.EnsureSessionID(w, req)
	if err != nil {
		t.Fatalf("EnsureSessionID() ошибка: %v", err)
	}
	if id == "" {
		t.Error("Ожидался новый ID сессии")
	}
	if len(w.Result().Cookies()) == 0 {
		t.Error("Ожидался новый cookie сессии")
	}
}

// TestEnsureSessionIDReplacesExpired проверяет замену истёкшей сессии.
func TestEnsureSessionIDReplacesExpired(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, time.Hour)

	expired := &SessionData{ID: "old", ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	w := httptest.NewRecorder()
	if err := sm.SetSessionCookie(w, expired); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(w.Result().Cookies()[0])

	id, err := sm.EnsureSessionID(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("EnsureSessionID() ошибка: %v", err)
	}
	if id == "old" {
		t.Error("Истёкшая сессия не должна переиспользоваться")
	}
}

// TestSessionCookieMissing проверяет, что отсутствие cookie возвращает nil, nil.
func TestSessionCookieMissing(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false, time.Hour)

	data, err := sm.GetSessionFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("Ожидалось nil error, получено: %v", err)
	}
	if data != nil {
		t.Error("Ожидалось nil data при отсутствии cookie")
	}
}
