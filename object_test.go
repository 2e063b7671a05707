package apidoc_test

import (
	"net/http"
	"testing"

	v "github.com/Gobd/apidoc"
	"github.com/stretchr/testify/assert"
)

func TestSetNested(t *testing.T) {
	doc := v.Object{"openapi": "3.0.0"}
	v.SetNested(doc, "info.title", "API")
	v.SetNested(doc, "info.version", "1.0")
	assert.Equal(t, v.Object{
		"openapi": "3.0.0",
		"info":    v.Object{"title": "API", "version": "1.0"},
	}, doc)

	doc = v.Object{"info": map[string]any{"title": "Old"}}
	v.SetNested(doc, "info.title", "New")
	assert.Equal(t, v.Object{"title": "New"}, doc["info"])
}

func TestObject_Copy(t *testing.T) {
	orig := v.Object{
		"tags":   []any{"a"},
		"nested": map[string]any{"x": 1},
		"model":  userModel,
	}
	cp := orig.Copy()
	cp["tags"].([]any)[0] = "b"
	cp["nested"].(v.Object)["x"] = 2

	assert.Equal(t, []any{"a"}, orig["tags"])
	assert.Equal(t, map[string]any{"x": 1}, orig["nested"])
	assert.Same(t, userModel, cp["model"])
	assert.Nil(t, v.Object(nil).Copy())
}

func TestAbort(t *testing.T) {
	rec := get(t, abortHandler(404, nil, nil), "/")
	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"message": "Not Found"}, decodeBody(t, rec))

	errModel := userModel.MustNew(v.Object{"id": 1, "name": "no such user"})
	rec = get(t, abortHandler(400, errModel, v.Object{"message": "bad"}), "/")
	assert.Equal(t, map[string]any{"id": float64(1), "name": "no such user", "message": "bad"}, decodeBody(t, rec))
}

func abortHandler(code int, schema, extra v.Object) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		v.Abort(w, code, schema, extra)
	})
}
