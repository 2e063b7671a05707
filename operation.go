package apidoc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/Gobd/apidoc/reqparse"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// OperationHandler is a handler carrying its OpenAPI operation.
type OperationHandler interface {
	http.Handler
	// Operation returns the extracted operation object.
	Operation() Object
	// Schemas returns the definitions of the models the operation uses.
	Schemas() Object
	// HandlerName identifies the wrapped function for doc comment lookup,
	// e.g. "Users.Get".
	HandlerName() string
}

type contextKey int

const (
	parserKey contextKey = iota
	bodyKey
)

// DocumentedHandler is the [OperationHandler] returned by [Document].
type DocumentedHandler struct {
	next    http.Handler
	op      Object
	schemas Object
	name    string
	parser  *reqparse.Parser
	body    reflect.Type
}

// Document attaches the operation object op to h. The operation is
// extracted right away so a malformed object is reported at registration.
func Document(op Object, h http.Handler) (*DocumentedHandler, error) {
	extracted, schemas, err := Extract(op)
	if err != nil {
		return nil, err
	}
	d := &DocumentedHandler{
		next:    h,
		op:      extracted,
		schemas: schemas,
		name:    handlerName(h),
		body:    bodyType(op),
	}
	if params := parameterObjects(extracted); len(params) > 0 {
		if args := ParserArgs(params); len(args) > 0 {
			d.parser = NewParser(params)
		}
	}
	return d, nil
}

// Doc is like [Document] but panics on error. It is meant for route tables.
// Register the result as a handler, not a handler func, so the router can
// still hand it back when walked:
//
//	r.Method(http.MethodGet, "/users/{id}", apidoc.Doc(apidoc.Object{
//	    "responses": apidoc.Object{"200": apidoc.Object{"description": "User", ...}},
//	}, http.HandlerFunc(getUser)))
func Doc(op Object, h http.Handler) http.Handler {
	d, err := Document(op, h)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *DocumentedHandler) Operation() Object {
	return d.op.Copy()
}

func (d *DocumentedHandler) Schemas() Object {
	return d.schemas.Copy()
}

func (d *DocumentedHandler) HandlerName() string {
	return d.name
}

// ServeHTTP hands the request to the wrapped handler. Operations declaring
// query parameters put a request parser for them in the context, see
// [ParserFrom]. Operations whose JSON request body is a [StructModel] decode
// and validate the body first and answer 400 when it is invalid, see
// [BodyFrom].
func (d *DocumentedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if d.parser != nil {
		ctx = context.WithValue(ctx, parserKey, d.parser.Copy())
	}
	if d.body != nil && r.Body != nil && r.Body != http.NoBody {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			Abort(w, http.StatusBadRequest, nil, Object{"message": "the request body could not be read"})
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(b))
		dst := reflect.New(d.body).Interface()
		if err := DecodeAndValidate(bytes.NewReader(b), dst); err != nil {
			extra := Object{"message": "the request body is invalid"}
			var errs validation.Errors
			if errors.As(err, &errs) {
				extra["errors"] = errs
			}
			Abort(w, http.StatusBadRequest, nil, extra)
			return
		}
		ctx = context.WithValue(ctx, bodyKey, dst)
	}
	d.next.ServeHTTP(w, r.WithContext(ctx))
}

// ParserFrom returns the request parser of the documented operation
// serving r, or nil.
func ParserFrom(r *http.Request) *reqparse.Parser {
	p, _ := r.Context().Value(parserKey).(*reqparse.Parser)
	return p
}

// BodyFrom returns the decoded request body of the documented operation
// serving r, a pointer to a value of the model's struct type, or nil.
func BodyFrom(r *http.Request) any {
	return r.Context().Value(bodyKey)
}

// bodyType returns the struct type of the JSON request body model of op.
func bodyType(op Object) reflect.Type {
	body, ok := asObject(op["requestBody"])
	if !ok {
		return nil
	}
	content, ok := asObject(body["content"])
	if !ok {
		return nil
	}
	media, ok := asObject(content["application/json"])
	if !ok {
		return nil
	}
	m, ok := media["schema"].(*StructModel)
	if !ok {
		return nil
	}
	if rv := indirect(m.value); rv.IsValid() && rv.Kind() == reflect.Struct {
		return rv.Type()
	}
	return nil
}

func parameterObjects(op Object) []Object {
	list, _ := asList(op["parameters"])
	params := make([]Object, 0, len(list))
	for _, p := range list {
		if obj, ok := asObject(p); ok {
			params = append(params, obj)
		}
	}
	return params
}

func handlerName(h http.Handler) string {
	if h == nil {
		return ""
	}
	rv := reflect.ValueOf(h)
	if rv.Kind() == reflect.Func {
		return funcName(rv.Pointer())
	}
	return reflect.Indirect(rv).Type().Name()
}
