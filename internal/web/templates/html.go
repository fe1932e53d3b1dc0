// Package templates renders the HTML pages of the cleaning UI as templ
// components.
package templates

import (
	"context"
	"io"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/a-h/templ"
)

// htmlWriter stops writing after the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err == nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		fn(ctx, h)
		return h.err
	})
}

// page wraps body in the shared document layout.
func page(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>` + stylesheet + `</style></head><body>`)
		h.raw(`<header><a href="/">sheetclean</a></header><main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

const stylesheet = `body{font-family:system-ui,sans-serif;margin:0;color:#1f2933}` +
	`header{padding:12px 24px;background:#1f2933}header a{color:#fff;text-decoration:none;font-weight:600}` +
	`main{padding:24px;max-width:1200px}` +
	`table{border-collapse:collapse;margin:8px 0 24px;font-size:13px}` +
	`th,td{border:1px solid #cbd2d9;padding:4px 8px;text-align:left}th{background:#f5f7fa}` +
	`td.missing{color:#9aa5b1;font-style:italic}` +
	`.alert{border:1px solid #e12d39;background:#ffe3e3;padding:12px;margin:12px 0}` +
	`.stats span{display:inline-block;margin-right:16px}`

// DataTable renders the first rows of t. Missing cells show as "null".
func DataTable(t *core.Table) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if t == nil || t.NumCols() == 0 {
			h.raw(`<p>No columns.</p>`)
			return
		}
		h.raw(`<table><thead><tr>`)
		for _, name := range t.Names() {
			h.raw(`<th>`)
			h.text(name)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for i := 0; i < t.NumRows(); i++ {
			h.raw(`<tr>`)
			for _, c := range t.Row(i) {
				if c.IsMissing() {
					h.raw(`<td class="missing">null</td>`)
					continue
				}
				h.raw(`<td>`)
				h.text(c.String())
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

// ErrorAlert renders an error fragment with an optional suggested action.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<div class="alert" role="alert"><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<small>`)
		h.text(code)
		h.raw(`</small></div>`)
	})
}

// ErrorPage renders ErrorAlert inside the page layout.
func ErrorPage(message, action, code string) templ.Component {
	return page("Error", ErrorAlert(message, action, code))
}
