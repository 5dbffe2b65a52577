// language.go — обработчик переключения языка UI.
package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/bigkaa/goartstore/employee-module/internal/ui/i18n"
)

// langCookieMaxAge — срок хранения выбранного языка.
const langCookieMaxAge = 365 * 24 * time.Hour

// HandleSetLanguage обрабатывает POST /set-language.
// Устанавливает cookie "lang" и перенаправляет обратно.
// Параметр lang: "en" или "ja" (из формы или query).
func HandleSetLanguage(w http.ResponseWriter, r *http.Request) {
	lang := r.FormValue("lang")
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LangCookieName,
		Value:    lang,
		Path:     "/",
		MaxAge:   int(langCookieMaxAge.Seconds()),
		HttpOnly: false, // JS может читать для UI-логики
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(langCookieMaxAge),
	})

	http.Redirect(w, r, backTarget(r.Header.Get("Referer")), http.StatusSeeOther)
}

// backTarget — путь страницы из Referer без схемы и хоста;
// пустой или нераспознанный Referer ведёт на стартовую страницу.
func backTarget(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	back := url.URL{Path: u.Path, RawQuery: u.RawQuery}
	return back.String()
}
