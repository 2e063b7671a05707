package apidoc

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
)

// WalkFunc is called for every method and pattern registered on a router.
type WalkFunc func(method, pattern string, h http.Handler) error

// Router adapts a host router so routes can be walked and registered.
type Router interface {
	http.Handler
	// Walk calls fn for each registered route.
	Walk(fn WalkFunc) error
	// Handle registers h for method and pattern.
	Handle(method, pattern string, h http.Handler)
	// RoutePattern returns the pattern matched by r.
	RoutePattern(r *http.Request) string
	// PathValue returns the path variable called name.
	PathValue(r *http.Request, name string) string
}

type chiRouter struct {
	chi.Router
}

// Chi adapts a chi router.
func Chi(r chi.Router) Router {
	return chiRouter{r}
}

// chiMethods are the methods chi registers a route for when it is added
// with Handle or HandleFunc.
var chiMethods = []string{
	http.MethodConnect, http.MethodDelete, http.MethodGet, http.MethodHead,
	http.MethodOptions, http.MethodPatch, http.MethodPost, http.MethodPut, http.MethodTrace,
}

// Walk reports a route registered for every method (chi's Handle) once, as
// GET.
func (c chiRouter) Walk(fn WalkFunc) error {
	type route struct {
		pattern  string
		handlers map[string]http.Handler
	}
	var routes []*route
	byPattern := map[string]*route{}
	err := chi.Walk(c.Router, func(method, pattern string, h http.Handler, _ ...func(http.Handler) http.Handler) error {
		// Routes added through With are wrapped in their middleware chain.
		if ch, ok := h.(*chi.ChainHandler); ok {
			h = ch.Endpoint
		}
		rt, ok := byPattern[pattern]
		if !ok {
			rt = &route{pattern: pattern, handlers: map[string]http.Handler{}}
			byPattern[pattern] = rt
			routes = append(routes, rt)
		}
		rt.handlers[method] = h
		return nil
	})
	if err != nil {
		return err
	}

	for _, rt := range routes {
		if len(rt.handlers) == len(chiMethods) {
			if err := fn(http.MethodGet, rt.pattern, rt.handlers[http.MethodGet]); err != nil {
				return err
			}
			continue
		}
		for _, method := range chiMethods {
			h, ok := rt.handlers[method]
			if !ok {
				continue
			}
			if err := fn(method, rt.pattern, h); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c chiRouter) Handle(method, pattern string, h http.Handler) {
	c.Method(method, pattern, h)
}

func (chiRouter) RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return r.URL.Path
}

func (chiRouter) PathValue(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

type muxRouter struct {
	*mux.Router
}

// Mux adapts a gorilla/mux router. Routes registered without methods are
// skipped when walking.
func Mux(r *mux.Router) Router {
	return muxRouter{r}
}

func (m muxRouter) Walk(fn WalkFunc) error {
	return m.Router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		h := route.GetHandler()
		if h == nil {
			return nil
		}
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		for _, method := range methods {
			if err := fn(method, tpl, h); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m muxRouter) Handle(method, pattern string, h http.Handler) {
	m.Router.Handle(pattern, h).Methods(method)
}

func (muxRouter) RoutePattern(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

func (muxRouter) PathValue(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
