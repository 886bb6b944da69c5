package format

import (
	"bytes"
	"html/template"
	"io"
	"strings"

	"ticketdesk/internal/model"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Raw HTML in descriptions is dropped (no html.WithUnsafe).
		html.WithHardWraps(),
	),
)

// MarkdownHTML renders a ticket description to HTML.
func MarkdownHTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	// Safe only because raw HTML passthrough is disabled above.
	return template.HTML(b.String())
}

var htmlTemplates = template.Must(template.New("html").Funcs(template.FuncMap{
	"markdown": MarkdownHTML,
}).Parse(`
{{- define "rows" -}}
<table class="tickets">
<thead><tr><th>#</th><th>ID</th><th>Subject</th><th>Status</th><th>Created</th><th>Updated</th></tr></thead>
<tbody>
{{- range . }}
<tr><td>{{ .Seq }}</td><td>{{ .ID }}</td><td>{{ .Subject }}</td><td>{{ .Status }}</td><td>{{ .Created }}</td><td>{{ .Updated }}</td></tr>
{{- end }}
</tbody>
</table>
{{ end -}}
{{- define "detail" -}}
<article class="ticket" id="ticket-{{ .ID }}">
<h1>{{ .Subject }}</h1>
<dl>
<dt>Status</dt><dd>{{ .Status }}</dd>
<dt>Created</dt><dd>{{ .Created }}</dd>
<dt>Updated</dt><dd>{{ .Updated }}</dd>
</dl>
<section class="description">
{{ markdown .Description }}</section>
</article>
{{ end -}}
`))

// WriteHTML renders rows as an HTML table and single tickets as an article with
// the description rendered from markdown. Other values fall back to JSON.
func WriteHTML(w io.Writer, v any, pretty bool) error {
	switch t := v.(type) {
	case []model.Row:
		return htmlTemplates.ExecuteTemplate(w, "rows", t)
	case model.Row:
		return htmlTemplates.ExecuteTemplate(w, "detail", t)
	case model.RawTicket:
		return htmlTemplates.ExecuteTemplate(w, "detail", model.RowFromRaw(t, 0))
	default:
		return WriteJSON(w, v, pretty)
	}
}
