package apidoc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/Gobd/apidoc/openapi"
	"github.com/Gobd/apidoc/reqparse"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/cors"
)

// DefaultSpecURL is where the document is served unless [WithSpecURL] says
// otherwise.
const DefaultSpecURL = "/api/swagger"

// API documents the routes of a router. Handlers wrapped with [Doc] carry
// their operation; the document is assembled from them on every request to
// the document endpoints:
//
//	r := chi.NewRouter()
//	r.Method(http.MethodGet, "/users/{id}", apidoc.Doc(getUserOp, http.HandlerFunc(getUser)))
//	api, err := apidoc.New(apidoc.Chi(r), apidoc.WithTitle("Users"))
//	http.ListenAndServe(":8080", api)
type API struct {
	router  Router
	base    Object
	specURL string
	addSpec bool
	prefix  string
	auth    AuthFunc
	logger  *slog.Logger
	docs    *CommentParser
	cors    *cors.Cors

	mu     sync.RWMutex
	cached *openapi3.T
}

// New returns an API documenting the routes of r and registers the
// document endpoints {prefix}{spec url}.json, .yaml and .html on it.
func New(r Router, opts ...Option) (*API, error) {
	a := &API{
		router:  r,
		base:    Object(openapi.DocBase("", "", "0.0")),
		specURL: DefaultSpecURL,
		addSpec: true,
		logger:  slog.New(slog.DiscardHandler),
		cors:    cors.AllowAll(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.prefix != "" {
		if !strings.HasPrefix(a.prefix, "/") {
			return nil, validationErrorf("prefix", "url_prefix must start with a /")
		}
		if strings.HasSuffix(a.prefix, "/") {
			return nil, validationErrorf("prefix", "url_prefix must not end with a /")
		}
	}
	if title, _ := getNested(a.base, "info.title"); title == nil || title == "" {
		SetNested(a.base, "info.title", filepath.Base(os.Args[0]))
	}
	if version, _ := getNested(a.base, "info.version"); version == nil || version == "" {
		SetNested(a.base, "info.version", "0.0")
	}

	if a.addSpec {
		h := a.cors.Handler(a.specHandler())
		for _, ext := range []string{".json", ".yaml", ".html"} {
			a.router.Handle(http.MethodGet, a.prefix+a.specURL+ext, h)
		}
	}
	return a, nil
}

// ServeHTTP dispatches to the router.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// SpecURL returns the path of the JSON document.
func (a *API) SpecURL() string {
	return a.prefix + a.specURL + ".json"
}

// Parser returns an empty request parser resolving path arguments through
// the router.
func (a *API) Parser() *reqparse.Parser {
	p := reqparse.New()
	p.PathValue = a.router.PathValue
	return p
}

// Build assembles the map form of the document from the documented routes.
func (a *API) Build(ctx context.Context) (Object, error) {
	doc := a.base.Copy()
	paths, ok := asObject(doc["paths"])
	if !ok {
		paths = Object{}
	}
	components, ok := asObject(doc["components"])
	if !ok {
		components = Object{}
	}
	schemas, ok := asObject(components["schemas"])
	if !ok {
		schemas = Object{}
	}

	err := a.router.Walk(func(method, pattern string, h http.Handler) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		oh, ok := h.(OperationHandler)
		if !ok {
			return nil
		}
		method = strings.ToLower(method)
		if !slices.Contains(pathItemMethods, method) {
			a.logger.DebugContext(ctx, "skipped undocumentable method", "method", method, "pattern", pattern)
			return nil
		}
		path := ExtractPath(pattern)
		op := oh.Operation()
		a.applyDocs(op, oh.HandlerName())
		addPathParameters(path, op)

		item, ok := asObject(paths[path])
		if !ok {
			item = Object{}
		}
		item[method] = op
		paths[path] = item
		for name, def := range oh.Schemas() {
			a.applySchemaDocs(name, def)
			schemas[name] = def
		}
		a.logger.DebugContext(ctx, "documented route", "method", method, "path", path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk routes: %w", err)
	}

	if len(schemas) > 0 {
		components["schemas"] = schemas
	}
	doc["paths"] = paths
	doc["components"] = components
	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Spec builds and validates the typed document and caches it.
func (a *API) Spec(ctx context.Context) (*openapi3.T, error) {
	tree, err := a.Build(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "build document", "error", err)
		return nil, err
	}
	doc, err := openapi.Decode(ctx, tree)
	if err != nil {
		a.logger.ErrorContext(ctx, "decode document", "error", err)
		return nil, err
	}
	a.mu.Lock()
	a.cached = doc
	a.mu.Unlock()
	return doc, nil
}

// Cached returns the last document built by [API.Spec], or nil.
func (a *API) Cached() *openapi3.T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cached
}

// applyDocs fills summary and description from the handler's doc comment.
func (a *API) applyDocs(op Object, handler string) {
	if a.docs == nil || handler == "" {
		return
	}
	doc, ok := a.docs.FuncDocs[handler]
	if !ok || doc == "" {
		return
	}
	if _, ok := op["description"]; !ok {
		if note := ParseMethodDoc(doc, op); note != "" {
			op["description"] = note
		}
	}
	if _, ok := op["summary"]; !ok {
		if summary := firstLine(doc); summary != "" {
			op["summary"] = summary
		}
	}
}

// applySchemaDocs fills the description of a model from its type's doc
// comment.
func (a *API) applySchemaDocs(name string, def any) {
	obj, ok := asObject(def)
	if a.docs == nil || !ok {
		return
	}
	if desc := ParseSchemaDoc(a.docs.TypeDocs[name], obj); desc != "" {
		obj["description"] = desc
	}
}

var templateParam = regexp.MustCompile(`\{([^{}]+)\}`)

// addPathParameters declares the template variables of path the operation
// leaves undocumented as string path parameters.
func addPathParameters(path string, op Object) {
	declared := map[string]bool{}
	params, _ := asList(op["parameters"])
	for _, p := range params {
		if obj, ok := asObject(p); ok && stringValue(obj, "in") == "path" {
			declared[stringValue(obj, "name")] = true
		}
	}
	var missing []string
	for _, m := range templateParam.FindAllStringSubmatch(path, -1) {
		if !declared[m[1]] {
			missing = append(missing, m[1])
			declared[m[1]] = true
		}
	}
	if len(missing) == 0 {
		return
	}
	for _, name := range missing {
		params = append(params, Object{
			"name":     name,
			"in":       "path",
			"required": true,
			"schema":   Object{"type": "string"},
		})
	}
	op["parameters"] = params
}
