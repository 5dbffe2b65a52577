package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/employee-module/internal/ui/i18n"
)

// html — запись разметки с накоплением первой ошибки.
type html struct {
	w   io.Writer
	err error
}

// raw пишет разметку без экранирования.
func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text пишет экранированный текст.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// component пишет вложенный компонент.
func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// Layout — общий макет: шапка, навигация, flash-сообщение, ошибки ввода и тело.
func Layout(a Attrs, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		lang := i18n.LangFromContext(ctx)

		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(lang)
		h.raw(`"><head><meta charset="utf-8"><title>`)
		h.text(i18n.T(ctx, "app.title"))
		h.raw(`</title><link rel="stylesheet" href="/static/css/app.css"></head><body>`)

		h.raw(`<header><nav><a href="/top">`)
		h.text(i18n.T(ctx, "nav.top"))
		h.raw(`</a> <a href="/employee">`)
		h.text(i18n.T(ctx, "nav.employees"))
		h.raw(`</a></nav>`)
		h.component(ctx, languageSwitch(lang))
		h.raw(`</header><main>`)

		if flush := a.String(AttrFlush); flush != "" {
			h.raw(`<p class="flash">`)
			h.text(i18n.T(ctx, flush))
			h.raw(`</p>`)
		}
		if errs := a.Errors(); len(errs) > 0 {
			h.raw(`<ul class="errors">`)
			for _, msg := range errs {
				h.raw(`<li>`)
				h.text(msg)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}

		h.component(ctx, body)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// languageSwitch — форма выбора языка интерфейса.
func languageSwitch(current string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<form class="lang" method="post" action="/set-language">`)
		for _, lang := range []string{i18n.LangEnglish, i18n.LangJapanese} {
			h.raw(`<button type="submit" name="lang" value="`)
			h.text(lang)
			h.raw(`"`)
			if lang == current {
				h.raw(` disabled`)
			}
			h.raw(`>`)
			h.text(lang)
			h.raw(`</button>`)
		}
		h.raw(`</form>`)
		return h.err
	})
}
