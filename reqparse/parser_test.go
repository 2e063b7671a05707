package reqparse_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Gobd/apidoc/reqparse"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.Error(t, err)
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "got %T: %v", err, err)
	return errs
}

func TestParse_Query(t *testing.T) {
	p := reqparse.New().
		AddArgument(reqparse.Argument{Name: "page", Type: reqparse.Integer, Default: 1}).
		AddArgument(reqparse.Argument{Name: "q", Trim: true}).
		AddArgument(reqparse.Argument{Name: "tag", Action: reqparse.Append}).
		AddArgument(reqparse.Argument{Name: "since", Type: reqparse.Date}).
		AddArgument(reqparse.Argument{Name: "exact", Type: reqparse.Boolean, Dest: "exact_match"})

	r := httptest.NewRequest(http.MethodGet, "/?q=+cats+&tag=a&tag=b&since=2024-01-02&exact=yes", nil)
	ns, err := p.Parse(r)
	require.NoError(t, err)

	assert.Equal(t, 1, ns.Int("page"))
	assert.Equal(t, "cats", ns.String("q"))
	assert.Equal(t, []any{"a", "b"}, ns.List("tag"))
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ns.Time("since"))
	assert.True(t, ns.Bool("exact_match"))
	_, ok := ns.Get("exact")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	p := reqparse.New().
		AddArgument(reqparse.Argument{Name: "page", Type: reqparse.Integer}).
		AddArgument(reqparse.Argument{Name: "id", Required: true}).
		AddArgument(reqparse.Argument{Name: "sort", Choices: []any{"asc", "desc"}})

	ns, err := p.Parse(httptest.NewRequest(http.MethodGet, "/?page=two&sort=up", nil))
	errs := parseErrors(t, err)
	assert.Equal(t, "must be an integer", errs["page"].Error())
	assert.Equal(t, "missing required parameter in the query string", errs["id"].Error())
	assert.Equal(t, "must be one of 'asc', 'desc', got 'up'", errs["sort"].Error())
	assert.Empty(t, ns)
}

func TestParse_JSONBody(t *testing.T) {
	p := reqparse.New().
		AddArgument(reqparse.Argument{Name: "name", Location: reqparse.JSON, Required: true}).
		AddArgument(reqparse.Argument{Name: "count", Type: reqparse.Integer, Location: reqparse.JSON}).
		AddArgument(reqparse.Argument{Name: "price", Type: reqparse.Float, Location: reqparse.JSON}).
		AddArgument(reqparse.Argument{Name: "ids", Type: reqparse.Integer, Location: reqparse.JSON, Action: reqparse.Append})

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"box","count":3,"price":1.5,"ids":[1,2]}`))
	ns, err := p.Parse(r)
	require.NoError(t, err)
	assert.Equal(t, "box", ns.String("name"))
	assert.Equal(t, 3, ns.Int("count"))
	assert.InDelta(t, 1.5, ns.Float("price"), 1e-9)
	assert.Equal(t, []any{1, 2}, ns.List("ids"))

	// The body stays readable for the handler.
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"box"`)
}

func TestParse_JSONNumbersAndObjects(t *testing.T) {
	p := reqparse.New().
		AddArgument(reqparse.Argument{Name: "count", Type: reqparse.Integer, Location: reqparse.JSON}).
		AddArgument(reqparse.Argument{Name: "big", Type: reqparse.Integer, Location: reqparse.JSON, Action: reqparse.Append}).
		AddArgument(reqparse.Argument{Name: "ratio", Type: reqparse.Float, Location: reqparse.JSON}).
		AddArgument(reqparse.Argument{Name: "on", Type: reqparse.Boolean, Location: reqparse.JSON}).
		AddArgument(reqparse.Argument{Name: "meta", Location: reqparse.JSON})

	body := `{"count":1000000,"big":[9007199254740993,2],"ratio":0.000001,"on":false,"meta":{"a":1}}`
	ns, err := p.Parse(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.NoError(t, err)
	assert.Equal(t, 1000000, ns.Int("count"))
	assert.Equal(t, []any{9007199254740993, 2}, ns.List("big"))
	assert.InDelta(t, 0.000001, ns.Float("ratio"), 1e-12)
	assert.Equal(t, false, ns["on"])
	assert.JSONEq(t, `{"a":1}`, ns.String("meta"))
}

func TestParse_BadJSON(t *testing.T) {
	p := reqparse.New().AddArgument(reqparse.Argument{Name: "name", Location: reqparse.JSON})
	_, err := p.Parse(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`)))
	errs := parseErrors(t, err)
	assert.Equal(t, "the JSON body could not be decoded", errs["name"].Error())

	ns, err := p.Parse(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, ns["name"])
}

func TestParse_FormHeadersCookies(t *testing.T) {
	p := reqparse.New().
		AddArgument(reqparse.Argument{Name: "title", Location: reqparse.Form}).
		AddArgument(reqparse.Argument{Name: "X-Request-Id", Location: reqparse.Headers}).
		AddArgument(reqparse.Argument{Name: "session", Location: reqparse.Cookies}).
		AddArgument(reqparse.Argument{Name: "lang", Location: reqparse.Cookies, Default: "en"})

	form := url.Values{"title": {"Hello"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Request-Id", "abc")
	r.AddCookie(&http.Cookie{Name: "session", Value: "s1"})

	ns, err := p.Parse(r)
	require.NoError(t, err)
	assert.Equal(t, "Hello", ns.String("title"))
	assert.Equal(t, "abc", ns.String("X-Request-Id"))
	assert.Equal(t, "s1", ns.String("session"))
	assert.Equal(t, "en", ns.String("lang"))
}

func TestParse_Path(t *testing.T) {
	p := reqparse.New().AddArgument(reqparse.Argument{Name: "id", Type: reqparse.Integer, Location: reqparse.Path, Required: true})

	mux := http.NewServeMux()
	var got reqparse.Namespace
	mux.HandleFunc("GET /items/{id}", func(_ http.ResponseWriter, r *http.Request) {
		got, _ = p.Parse(r)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, 42, got.Int("id"))

	p.PathValue = func(*http.Request, string) string { return "7" }
	ns, err := p.Parse(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 7, ns.Int("id"))
}

func TestParser_CopyAndRemove(t *testing.T) {
	p := reqparse.New().
		AddArgument(reqparse.Argument{Name: "a"}).
		AddArgument(reqparse.Argument{Name: "b"})

	cp := p.Copy()
	cp.Args()[0].Required = true
	cp.RemoveArgument("b")

	require.Len(t, p.Args(), 2)
	assert.False(t, p.Args()[0].Required)
	require.Len(t, cp.Args(), 1)
	assert.Equal(t, "a", cp.Args()[0].Name)
}

func TestTypes(t *testing.T) {
	tests := []struct {
		typ     reqparse.Type
		raw     string
		want    any
		wantErr bool
	}{
		{reqparse.String, " x ", " x ", false},
		{reqparse.Integer, "12", 12, false},
		{reqparse.Integer, "1.5", nil, true},
		{reqparse.Float, "1.5", 1.5, false},
		{reqparse.Float, "x", nil, true},
		{reqparse.Boolean, "ON", true, false},
		{reqparse.Boolean, "0", false, false},
		{reqparse.Boolean, "maybe", nil, true},
		{reqparse.Date, "2024-13-01", nil, true},
		{reqparse.DateTime, "2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), false},
	}
	for _, tt := range tests {
		got, err := tt.typ.Parse(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}

	assert.Equal(t, "string", reqparse.Date.OpenAPIType())
	assert.Equal(t, "date-time", reqparse.DateTime.Format())
	assert.Equal(t, "integer", reqparse.Integer.OpenAPIType())

	password := reqparse.NewType("string", "password", func(s string) (any, error) { return s, nil })
	assert.Equal(t, "password", password.Format())
}

func TestArgument_TypeOrDefault(t *testing.T) {
	a := reqparse.Argument{Name: "x"}
	assert.Same(t, reqparse.String, a.TypeOrDefault())
}
