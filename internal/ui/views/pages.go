package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/bigkaa/goartstore/employee-module/internal/ui/i18n"
)

// TopPage — стартовая страница.
func TopPage(_ Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(i18n.T(ctx, "top.heading"))
		h.raw(`</h1><p>`)
		h.text(i18n.T(ctx, "top.body"))
		h.raw(`</p><p><a href="/employee">`)
		h.text(i18n.T(ctx, "nav.employees"))
		h.raw(`</a></p>`)
		return h.err
	})
}

// ErrorPage — страница неизвестной операции или ошибки обработки.
func ErrorPage(a Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(i18n.T(ctx, "error.unknown"))
		h.raw(`</h1>`)
		if status := a.Int(AttrStatus); status != 0 {
			h.raw(`<p class="status">`)
			h.text(i18n.Tf(ctx, "error.status", status))
			h.raw(`</p>`)
		}
		h.raw(`<p><a href="/top">`)
		h.text(i18n.T(ctx, "nav.top"))
		h.raw(`</a></p>`)
		return h.err
	})
}

// UnavailablePage — страница временной недоступности хранилища.
func UnavailablePage(_ Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>`)
		h.text(i18n.T(ctx, "error.unavailable"))
		h.raw(`</h1>`)
		return h.err
	})
}
