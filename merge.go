package apidoc

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Gobd/apidoc/openapi"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// Merge combines documents. Paths and the sections of components are
// merged entry by entry, every other top-level field is taken from the last
// document setting it. The inputs are not modified.
func Merge(docs ...Object) Object {
	out := Object{}
	paths := Object{}
	components := Object{}
	for _, doc := range docs {
		for k, v := range doc {
			switch k {
			case "paths":
				if p, ok := asObject(v); ok {
					for path, item := range p {
						paths[path] = deepCopy(item)
					}
				}
			case "components":
				c, ok := asObject(v)
				if !ok {
					continue
				}
				for section, entries := range c {
					e, ok := asObject(entries)
					if !ok {
						continue
					}
					dst, ok := asObject(components[section])
					if !ok {
						dst = Object{}
					}
					for name, def := range e {
						dst[name] = deepCopy(def)
					}
					components[section] = dst
				}
			default:
				out[k] = deepCopy(v)
			}
		}
	}
	out["paths"] = paths
	out["components"] = components
	return out
}

// MergeHandler merges docs, validates the result and serves it under
// {prefix}{specURL} with the .json, .yaml and .html extensions. Document
// options such as [WithTitle] or [WithServers] are applied to the merged
// document; [WithPrefix], [WithLogger] and [WithCORS] configure the
// endpoints. CORS is allowed for every origin by default.
func MergeHandler(ctx context.Context, specURL string, docs []Object, opts ...Option) (http.Handler, error) {
	a := &API{
		base:   Merge(docs...),
		logger: slog.New(slog.DiscardHandler),
		cors:   cors.AllowAll(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	doc, err := openapi.Decode(ctx, a.base)
	if err != nil {
		return nil, err
	}
	load := func(context.Context) (*openapi3.T, error) { return doc, nil }
	url := a.prefix + specURL
	spec := a.cors.Handler(SpecHandler(url+".json", load, a.logger))

	r := chi.NewRouter()
	for _, ext := range []string{".json", ".yaml", ".html"} {
		r.Method(http.MethodGet, url+ext, spec)
	}
	return r, nil
}
