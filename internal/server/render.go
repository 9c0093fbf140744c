// internal/server/render.go
package server

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	htmlSanitizer = bluemonday.UGCPolicy()

	pageTemplate = template.Must(template.New("preview").Parse(previewPage))
)

// renderPreview turns the README markdown into a sanitized HTML page with
// the live-reload script attached.
func renderPreview(title string, source []byte) ([]byte, error) {
	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert(source, &htmlBuffer); err != nil {
		return nil, fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}
	body := htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes())

	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Title   string
		Content template.HTML
		Script  template.HTML
	}{
		Title:   title,
		Content: template.HTML(body),
		Script:  template.HTML(liveReloadScript),
	})
	if err != nil {
		return nil, err
	}
	return page.Bytes(), nil
}

// previewHandler serves the rendered README at "/". The file is read on
// every request so the page always shows the last written version.
func previewHandler(readme string, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		source, err := os.ReadFile(readme)
		if err != nil {
			logger.Error("failed to read document", zap.String("path", readme), zap.Error(err))
			http.Error(w, "could not read "+readme, http.StatusInternalServerError)
			return
		}
		page, err := renderPreview(readme, source)
		if err != nil {
			logger.Error("failed to render preview", zap.Error(err))
			http.Error(w, "could not render "+readme, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})
}

const previewPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
  <style>
    body { font-family: sans-serif; max-width: 760px; margin: 2em auto; padding: 0 1em; line-height: 1.6; color: #222; }
    a { color: #0366d6; }
  </style>
</head>
<body>
{{ .Content }}
{{ .Script }}
</body>
</html>
`

// liveReloadScript reconnects after the server restarts and reloads the
// page when the hub says so.
const liveReloadScript = `
<script>
(() => {
  const connect = () => {
    const ws = new WebSocket("ws://" + location.host + "/ws");
    ws.addEventListener("message", (e) => {
      if (e.data === "reload") location.reload();
    });
    ws.addEventListener("close", () => setTimeout(connect, 1000));
  };
  connect();
})();
</script>
`
