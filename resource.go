package apidoc

import (
	"fmt"
	"net/http"
	"strings"
)

// A resource is any value with one or more of these methods.
type (
	getter interface {
		Get(http.ResponseWriter, *http.Request)
	}
	poster interface {
		Post(http.ResponseWriter, *http.Request)
	}
	putter interface {
		Put(http.ResponseWriter, *http.Request)
	}
	patcher interface {
		Patch(http.ResponseWriter, *http.Request)
	}
	deleter interface {
		Delete(http.ResponseWriter, *http.Request)
	}
	header interface {
		Head(http.ResponseWriter, *http.Request)
	}
	optioner interface {
		Options(http.ResponseWriter, *http.Request)
	}
)

// Operations is implemented by resources documenting their methods. Keys
// are HTTP methods in any case.
type Operations interface {
	Operations() map[string]Object
}

// resourceMethods returns the handler functions res implements, in a fixed
// method order.
func resourceMethods(res any) ([]string, map[string]http.HandlerFunc) {
	funcs := map[string]http.HandlerFunc{}
	if r, ok := res.(getter); ok {
		funcs[http.MethodGet] = r.Get
	}
	if r, ok := res.(poster); ok {
		funcs[http.MethodPost] = r.Post
	}
	if r, ok := res.(putter); ok {
		funcs[http.MethodPut] = r.Put
	}
	if r, ok := res.(patcher); ok {
		funcs[http.MethodPatch] = r.Patch
	}
	if r, ok := res.(deleter); ok {
		funcs[http.MethodDelete] = r.Delete
	}
	if r, ok := res.(header); ok {
		funcs[http.MethodHead] = r.Head
	}
	if r, ok := res.(optioner); ok {
		funcs[http.MethodOptions] = r.Options
	}

	var methods []string
	for _, m := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions,
	} {
		if _, ok := funcs[m]; ok {
			methods = append(methods, m)
		}
	}
	return methods, funcs
}

// AddResource registers the methods of res under each of urls, behind the
// API prefix. Every method passes through [API.AuthRequired]; methods with
// an operation in res.Operations() are documented.
func (a *API) AddResource(res any, urls ...string) error {
	if len(urls) == 0 {
		return fmt.Errorf("resource %T has no urls", res)
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "/") {
			return validationErrorf("paths", "paths must start with a /, got %q", u)
		}
	}
	methods, funcs := resourceMethods(res)
	if len(methods) == 0 {
		return fmt.Errorf("resource %T has no HTTP methods", res)
	}

	ops := map[string]Object{}
	if o, ok := res.(Operations); ok {
		for m, op := range o.Operations() {
			ops[strings.ToUpper(m)] = op
		}
	}

	handlers := make(map[string]http.Handler, len(methods))
	for _, m := range methods {
		h := a.AuthRequired(funcs[m])
		if op, ok := ops[m]; ok {
			d, err := Document(op, h)
			if err != nil {
				return fmt.Errorf("%T %s: %w", res, m, err)
			}
			// Doc comments belong to the resource method, not the wrapper.
			d.name = handlerName(funcs[m])
			h = d
		}
		handlers[m] = h
	}

	for _, u := range urls {
		for _, m := range methods {
			a.router.Handle(m, a.prefix+u, handlers[m])
			a.logger.Debug("registered resource", "method", m, "path", a.prefix+u)
		}
	}
	return nil
}

// AuthRequired answers 401 to requests the [WithAuth] function rejects.
// The api_key query parameter is passed to it with the route's OpenAPI path.
func (a *API) AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.auth != nil {
			path := ExtractPath(a.router.RoutePattern(r))
			if !a.auth(r.URL.Query().Get("api_key"), path, r.Method) {
				Abort(w, http.StatusUnauthorized, nil, nil)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
