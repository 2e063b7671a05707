package apidoc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Gobd/apidoc/openapi"
	"github.com/getkin/kin-openapi/openapi3"
)

// SpecLoader returns the document to serve.
type SpecLoader func(ctx context.Context) (*openapi3.T, error)

// SpecHandler serves the document returned by load as JSON, YAML or an API
// reference page depending on the extension of the request path. The page
// loads the document from specURL.
func SpecHandler(specURL string, load SpecLoader, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	page := ReferencePage(specURL)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".html") {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
			return
		}

		doc, err := load(r.Context())
		if err != nil {
			logger.ErrorContext(r.Context(), "serve document", "path", r.URL.Path, "error", err)
			Abort(w, http.StatusInternalServerError, nil, Object{"message": err.Error()})
			return
		}

		var b []byte
		contentType := "application/json"
		if strings.HasSuffix(r.URL.Path, ".yaml") {
			contentType = "application/yaml"
			b, err = openapi.MarshalYAML(doc)
		} else {
			b, err = openapi.MarshalJSON(doc)
		}
		if err != nil {
			logger.ErrorContext(r.Context(), "encode document", "error", err)
			Abort(w, http.StatusInternalServerError, nil, nil)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	})
}

func (a *API) specHandler() http.Handler {
	return SpecHandler(a.SpecURL(), a.Spec, a.logger)
}

// ReferencePage returns an HTML page rendering the document at url with the
// Scalar API reference.
func ReferencePage(url string) string {
	return fmt.Sprintf(`<!doctype html>
<html>
  <head>
    <title>API Reference</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>
      body {
        margin: 0;
      }
    </style>
  </head>
  <body>
    <script id="api-reference" data-url="%s"></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>`, url)
}
