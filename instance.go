package apidoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const instanceResource = "openapi.json"

// InstanceValidator checks values against the component schemas of a
// document. OpenAPI 3.0 schemas are compiled as draft 4 JSON Schema with
// nullable turned into a null type.
type InstanceValidator struct {
	compiler *jsonschema.Compiler
	names    map[string]bool

	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewInstanceValidator prepares the component schemas of doc.
func NewInstanceValidator(doc Object) (*InstanceValidator, error) {
	var schemas any
	if v, ok := getNested(doc, "components.schemas"); ok {
		schemas = v
	}
	return newInstanceValidator(schemas, nil)
}

func newInstanceValidator(schemas any, inline map[string]any) (*InstanceValidator, error) {
	defs, err := toJSONValue(schemas)
	if err != nil {
		return nil, err
	}
	definitions, _ := defs.(map[string]any)
	if definitions == nil {
		definitions = map[string]any{}
	}
	for name, s := range inline {
		v, err := toJSONValue(s)
		if err != nil {
			return nil, err
		}
		definitions[name] = v
	}
	names := make(map[string]bool, len(definitions))
	for name, def := range definitions {
		definitions[name] = draft4(def)
		names[name] = true
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft4)
	if err := c.AddResource(instanceResource, map[string]any{"definitions": definitions}); err != nil {
		return nil, err
	}
	return &InstanceValidator{
		compiler: c,
		names:    names,
		compiled: map[string]*jsonschema.Schema{},
	}, nil
}

// Validate checks instance against the component schema called name.
func (v *InstanceValidator) Validate(name string, instance any) error {
	sch, err := v.schema(name)
	if err != nil {
		return err
	}
	value, err := toJSONValue(instance)
	if err != nil {
		return err
	}
	return sch.Validate(value)
}

func (v *InstanceValidator) schema(name string) (*jsonschema.Schema, error) {
	if !v.names[name] {
		return nil, fmt.Errorf("no schema %q", name)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.compiled[name]; ok {
		return s, nil
	}
	s, err := v.compiler.Compile(instanceResource + "#/definitions/" + escapePointer(name))
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", name, err)
	}
	v.compiled[name] = s
	return s, nil
}

// CheckExamples validates the examples of a document against their
// schemas: component schemas with an example and media types with both an
// example and a schema.
func CheckExamples(doc Object) error {
	type check struct {
		path, schema string
		example      any
	}
	var checks []check
	inline := map[string]any{}

	if schemas, ok := getNested(doc, "components.schemas"); ok {
		defs, _ := asObject(schemas)
		for name, def := range defs {
			obj, ok := asObject(def)
			if !ok {
				continue
			}
			if ex, ok := obj["example"]; ok {
				checks = append(checks, check{join("components.schemas", name), name, ex})
			}
		}
	}

	paths, _ := asObject(doc["paths"])
	for p, item := range paths {
		itemObj, _ := asObject(item)
		for _, m := range pathItemMethods {
			op, ok := asObject(itemObj[m])
			if !ok {
				continue
			}
			base := join(join("paths", p), m)
			for _, mt := range mediaTypes(op) {
				ex, hasEx := mt.obj["example"]
				schema, hasSchema := mt.obj["schema"]
				if !hasEx || !hasSchema {
					continue
				}
				name := fmt.Sprintf("x-inline-%d", len(inline))
				inline[name] = schema
				checks = append(checks, check{join(base, mt.path), name, ex})
			}
		}
	}
	if len(checks) == 0 {
		return nil
	}

	var schemas any
	if v, ok := getNested(doc, "components.schemas"); ok {
		schemas = v
	}
	iv, err := newInstanceValidator(schemas, inline)
	if err != nil {
		return err
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].path < checks[j].path })
	var errs []error
	for _, c := range checks {
		if err := iv.Validate(c.schema, c.example); err != nil {
			errs = append(errs, validationErrorf(join(c.path, "example"), "%v", err))
		}
	}
	return errors.Join(errs...)
}

type mediaType struct {
	path string
	obj  Object
}

func mediaTypes(op Object) []mediaType {
	var out []mediaType
	collect := func(prefix string, content any) {
		c, _ := asObject(content)
		for mime, mt := range c {
			if obj, ok := asObject(mt); ok {
				out = append(out, mediaType{join(join(prefix, "content"), mime), obj})
			}
		}
	}
	if rb, ok := asObject(op["requestBody"]); ok {
		collect("requestBody", rb["content"])
	}
	responses, _ := asObject(op["responses"])
	for code, r := range responses {
		if resp, ok := asObject(r); ok {
			collect(join("responses", code), resp["content"])
		}
	}
	return out
}

// toJSONValue converts v into the generic form produced by encoding/json.
func toJSONValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// draft4 rewrites component references and nullable for JSON Schema.
func draft4(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = draft4(val)
		}
		if ref, ok := t["$ref"].(string); ok {
			if name, ok := strings.CutPrefix(ref, "#/components/schemas/"); ok {
				t["$ref"] = "#/definitions/" + name
			}
		}
		if nullable, _ := t["nullable"].(bool); nullable {
			if typ, ok := t["type"].(string); ok {
				t["type"] = []any{typ, "null"}
			}
			delete(t, "nullable")
		}
		return t
	case []any:
		for i := range t {
			t[i] = draft4(t[i])
		}
		return t
	}
	return v
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}
