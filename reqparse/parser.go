package reqparse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Location is where an argument is read from.
type Location string

const (
	Args    Location = "args" // query string
	JSON    Location = "json"
	Form    Location = "form"
	Headers Location = "headers"
	Cookies Location = "cookies"
	Path    Location = "path"
)

func (l Location) describe() string {
	switch l {
	case Args:
		return "the query string"
	case JSON:
		return "the JSON body"
	case Form:
		return "the post body"
	case Headers:
		return "the HTTP headers"
	case Cookies:
		return "the request's cookies"
	case Path:
		return "the request path"
	}
	return string(l)
}

// Action selects how repeated values are stored.
type Action string

const (
	// Store keeps the first value.
	Store Action = "store"
	// Append keeps every value as a []any.
	Append Action = "append"
)

// Argument declares one request argument.
type Argument struct {
	Name     string
	Dest     string // key in the Namespace, defaults to Name
	Type     Type   // defaults to String
	Location Location
	Help     string
	Required bool
	Default  any
	Action   Action
	Choices  []any
	Trim     bool
}

// TypeOrDefault returns the argument type, String when unset.
func (a *Argument) TypeOrDefault() Type {
	if a.Type == nil {
		return String
	}
	return a.Type
}

func (a *Argument) dest() string {
	if a.Dest != "" {
		return a.Dest
	}
	return a.Name
}

func (a *Argument) location() Location {
	if a.Location == "" {
		return Args
	}
	return a.Location
}

// Parser is an ordered set of arguments.
type Parser struct {
	args []*Argument

	// PathValue resolves path arguments. Defaults to [http.Request.PathValue];
	// router adapters install their own lookup.
	PathValue func(r *http.Request, name string) string
}

// New returns an empty parser.
func New() *Parser {
	return &Parser{}
}

// AddArgument appends arg and returns p for chaining.
func (p *Parser) AddArgument(arg Argument) *Parser {
	p.args = append(p.args, &arg)
	return p
}

// RemoveArgument drops the argument called name.
func (p *Parser) RemoveArgument(name string) *Parser {
	for i, a := range p.args {
		if a.Name == name {
			p.args = append(p.args[:i], p.args[i+1:]...)
			break
		}
	}
	return p
}

// Args returns the declared arguments in order.
func (p *Parser) Args() []*Argument {
	return p.args
}

// Copy returns a parser with copies of every argument.
func (p *Parser) Copy() *Parser {
	cp := &Parser{PathValue: p.PathValue, args: make([]*Argument, len(p.args))}
	for i, a := range p.args {
		arg := *a
		cp.args[i] = &arg
	}
	return cp
}

// Parse reads every argument from r. All failures are collected into a
// validation.Errors keyed by argument name.
func (p *Parser) Parse(r *http.Request) (Namespace, error) {
	src := &source{r: r, pathValue: p.PathValue}
	ns := Namespace{}
	errs := validation.Errors{}
	for _, a := range p.args {
		v, err := a.parse(src)
		if err != nil {
			errs[a.Name] = err
			continue
		}
		ns[a.dest()] = v
	}
	if err := errs.Filter(); err != nil {
		return ns, err
	}
	return ns, nil
}

func (a *Argument) parse(src *source) (any, error) {
	raw, err := src.values(a.Name, a.location())
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		if a.Required {
			return nil, fmt.Errorf("missing required parameter in %s", a.location().describe())
		}
		return a.Default, nil
	}

	typ := a.TypeOrDefault()
	values := make([]any, 0, len(raw))
	for _, s := range raw {
		if a.Trim {
			s = strings.TrimSpace(s)
		}
		v, err := typ.Parse(s)
		if err != nil {
			return nil, err
		}
		if len(a.Choices) > 0 {
			if err := validation.Validate(v, validation.In(a.Choices...).Error(choicesMessage(a.Choices))); err != nil {
				return nil, fmt.Errorf("%w, got '%v'", err, v)
			}
		}
		values = append(values, v)
	}
	if a.Action == Append {
		return values, nil
	}
	return values[0], nil
}

func choicesMessage(choices []any) string {
	want := make([]string, len(choices))
	for i := range choices {
		want[i] = fmt.Sprintf("'%v'", choices[i])
	}
	return "must be one of " + strings.Join(want, ", ")
}

// source reads raw values from a request, decoding the JSON body once.
type source struct {
	r         *http.Request
	pathValue func(*http.Request, string) string
	body      map[string]any
	bodyErr   error
	bodyRead  bool
}

var errBody = errors.New("the JSON body could not be decoded")

func (s *source) values(name string, loc Location) ([]string, error) {
	r := s.r
	switch loc {
	case Args:
		return r.URL.Query()[name], nil
	case Form:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return r.PostForm[name], nil
	case Headers:
		return r.Header.Values(name), nil
	case Cookies:
		c, err := r.Cookie(name)
		if err != nil {
			return nil, nil
		}
		return []string{c.Value}, nil
	case Path:
		var v string
		if s.pathValue != nil {
			v = s.pathValue(r, name)
		} else {
			v = r.PathValue(name)
		}
		if v == "" {
			return nil, nil
		}
		return []string{v}, nil
	case JSON:
		body, err := s.json()
		if err != nil {
			return nil, err
		}
		return jsonValues(body[name]), nil
	}
	return nil, fmt.Errorf("unsupported location %q", loc)
}

// json decodes the request body and puts a fresh reader back so handlers can
// read it again.
func (s *source) json() (map[string]any, error) {
	if s.bodyRead {
		return s.body, s.bodyErr
	}
	s.bodyRead = true
	if s.r.Body == nil || s.r.Body == http.NoBody {
		return nil, nil
	}
	b, err := io.ReadAll(s.r.Body)
	if err != nil {
		s.bodyErr = err
		return nil, err
	}
	s.r.Body = io.NopCloser(bytes.NewReader(b))
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&s.body); err != nil {
		s.bodyErr = errBody
	}
	return s.body, s.bodyErr
}

// jsonValues turns a decoded body value into the raw strings the argument
// types parse. Top-level arrays give one value per element; objects and
// nested arrays are kept as JSON text.
func jsonValues(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			out = append(out, jsonText(e))
		}
		return out
	}
	return []string{jsonText(v)}
}

func jsonText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
