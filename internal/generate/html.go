package generate

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Meta.Name}} - C4 Model</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 1200px; margin: 0 auto; padding: 2rem; line-height: 1.6; }
        h1, h2, h3, h4 { color: #1e293b; }
        table { width: 100%; border-collapse: collapse; margin: 1rem 0; }
        th, td { border: 1px solid #e2e8f0; padding: 0.75rem; text-align: left; }
        th { background-color: #f1f5f9; font-weight: 600; }
        pre { background-color: #f8fafc; border: 1px solid #e2e8f0; border-radius: 0.5rem; padding: 1rem; overflow-x: auto; }
        code { font-family: 'Monaco', 'Courier New', monospace; font-size: 0.875rem; }
        .metadata { background-color: #eff6ff; border-left: 4px solid #3b82f6; padding: 1rem; margin: 1rem 0; }
    </style>
</head>
<body>
    <div class="metadata">
        <h1>{{.Meta.Name}}</h1>
        <p><strong>Version:</strong> {{.Meta.Version}}</p>
        <p><strong>Author:</strong> {{.Meta.Author}}</p>
    </div>

    {{.Body}}

    <h2>PlantUML Diagram Code</h2>
    <pre><code>{{.PlantUML}}</code></pre>

    <h2>JSON Model</h2>
    <pre><code>{{.JSON}}</code></pre>
</body>
</html>
`))

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.Table))
	sanitize = bluemonday.UGCPolicy()
)

// HTML renders a standalone page with the Markdown documentation, the
// PlantUML source and the native JSON of s.
func HTML(s diagram.Snapshot) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(s)), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	model, err := codec.Serialize(s)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	err = htmlPage.Execute(&out, struct {
		Meta     diagram.Metadata
		Body     template.HTML
		PlantUML string
		JSON     string
	}{
		Meta:     s.Metadata,
		Body:     template.HTML(sanitize.SanitizeBytes(body.Bytes())),
		PlantUML: PlantUML(s),
		JSON:     string(model),
	})
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return out.Bytes(), nil
}
