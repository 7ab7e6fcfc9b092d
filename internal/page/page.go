// Package page renders the single HTML document served for every non-POST
// request. The embedded script posts the textarea contents back to the same
// path as {"query": ...} and prints the JSON answer.
package page

import (
	"bytes"
	"embed"
	"html/template"
)

const (
	ContentType  = "text/html;charset=UTF-8"
	DefaultQuery = "SELECT * FROM comments LIMIT 3"
	Placeholder  = "Submit a query to see results."
)

//go:embed templates/index.html
var files embed.FS

var indexTemplate = template.Must(template.ParseFS(files, "templates/index.html"))

type data struct {
	InitialQuery   string
	InitialContent string
	Placeholder    string
}

// Render builds the page. A nil or empty initialContent shows the
// placeholder. The textarea body starts with a newline because HTML parsers
// drop the first one, which keeps a query that itself starts with a newline
// intact.
func Render(initialContent *string, initialQuery string) ([]byte, error) {
	d := data{InitialQuery: initialQuery, Placeholder: Placeholder}
	if initialContent != nil {
		d.InitialContent = *initialContent
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
