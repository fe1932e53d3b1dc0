package templates

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/a-h/templ"
)

// IndexParams configures the upload form.
type IndexParams struct {
	Threshold   float64
	Extensions  []string
	MaxFileSize int64
}

// Index renders the upload form.
func Index(p IndexParams) templ.Component {
	return page("Clean a spreadsheet", component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<h1>Clean a spreadsheet</h1>`)
		h.raw(`<form method="post" action="/clean" enctype="multipart/form-data">`)
		h.raw(`<p><label>File <input type="file" name="file" required accept="`)
		h.text(strings.Join(p.Extensions, ","))
		h.raw(`"></label></p>`)
		h.raw(`<p><label>Sheet (workbooks only) <input type="text" name="sheet" placeholder="first sheet"></label></p>`)
		h.raw(`<p><label>Threshold <input type="number" name="threshold" min="0" max="1" step="0.01" value="`)
		h.text(strconv.FormatFloat(p.Threshold, 'f', -1, 64))
		h.raw(`"></label></p>`)
		h.raw(`<p><button type="submit">Clean</button></p></form>`)
		h.raw(`<p><small>Accepted: `)
		h.text(strings.Join(p.Extensions, " "))
		h.raw(`. Max size `)
		h.text(strconv.FormatInt(p.MaxFileSize>>20, 10))
		h.raw(` MB.</small></p>`)
	}))
}

// JobParams is the data behind the result page.
type JobParams struct {
	Summary     core.JobSummary
	Artifacts   []string
	LoadEnabled bool
	Comparison  *core.Table
	LoadReady   *core.Table
	Quarantine  *core.Table
}

// JobPage renders a finished clean job with previews and download links.
func JobPage(p JobParams) templ.Component {
	s := p.Summary
	return page("Results: "+s.FileName, component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<h1>`)
		h.text(s.FileName)
		h.raw(`</h1><div class="stats">`)
		stat(h, "rows", s.Rows)
		stat(h, "columns", s.Columns)
		stat(h, "dropped rows", s.DroppedRows)
		stat(h, "dropped columns", s.DroppedColumns)
		stat(h, "quarantined rows", s.QuarantinedRows)
		h.raw(`<span>threshold `)
		h.text(strconv.FormatFloat(s.Threshold, 'f', -1, 64))
		h.raw(`</span></div>`)

		h.raw(`<h2>Types</h2><table><thead><tr><th>column</th><th>type</th></tr></thead><tbody>`)
		for _, ct := range s.Types {
			h.raw(`<tr><td>`)
			h.text(ct.Name)
			h.raw(`</td><td>`)
			h.text(string(ct.Type))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<h2>Downloads</h2><ul>`)
		for _, a := range p.Artifacts {
			h.raw(`<li><a href="`)
			h.text(fmt.Sprintf("/api/jobs/%s/download/%s", s.ID, a))
			h.raw(`">`)
			h.text(a)
			h.raw(`</a></li>`)
		}
		h.raw(`</ul>`)

		if p.LoadEnabled {
			h.raw(`<h2>Load into database</h2><form method="post" action="`)
			h.text("/jobs/" + s.ID + "/load")
			h.raw(`"><input type="text" name="table" required placeholder="table name"> <button type="submit">Load</button></form>`)
		}

		h.raw(`<h2>Comparison</h2>`)
		h.render(ctx, DataTable(p.Comparison))
		h.raw(`<h2>Load-ready</h2>`)
		h.render(ctx, DataTable(p.LoadReady))
		h.raw(`<h2>Quarantine</h2>`)
		if p.Quarantine == nil || p.Quarantine.NumRows() == 0 {
			h.raw(`<p>No rows quarantined.</p>`)
		} else {
			h.render(ctx, DataTable(p.Quarantine))
		}
	}))
}

// LoadDone renders the outcome of a database load.
func LoadDone(jobID string, res core.LoadResult) templ.Component {
	return page("Loaded", component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<h1>Loaded</h1><p>`)
		h.text(fmt.Sprintf("%d rows into %s.%s.", res.Rows, res.Schema, res.Table))
		h.raw(`</p><p><a href="`)
		h.text("/jobs/" + jobID)
		h.raw(`">Back to results</a></p>`)
	}))
}

func stat(h *htmlWriter, label string, n int) {
	h.raw(`<span>`)
	h.text(strconv.Itoa(n))
	h.raw(` `)
	h.text(label)
	h.raw(`</span>`)
}
