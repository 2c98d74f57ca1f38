package cli

import (
	"bytes"
	"fmt"
	"html/template"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/Flyrell/checkin/internal/report"
)

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; color: #323232; }
table { border-collapse: collapse; margin-bottom: 1rem; }
th, td { padding: 0.25rem 0.75rem; border-bottom: 1px solid #c8c8c8; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>
`))

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// renderExportHTML renders the markdown export into a standalone HTML page.
// A non-empty raw document is appended as a highlighted JSON block.
func renderExportHTML(data report.ExportData, raw []byte) ([]byte, error) {
	source := report.Markdown(data)
	if len(raw) > 0 {
		source += "## Ledger data\n\n```json\n" + string(bytes.TrimSpace(raw)) + "\n```\n"
	}

	var content bytes.Buffer
	if err := markdown.Convert([]byte(source), &content); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	var page bytes.Buffer
	err := htmlPage.Execute(&page, struct {
		Title   string
		Content template.HTML
	}{
		Title:   data.Title,
		Content: template.HTML(content.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return page.Bytes(), nil
}
