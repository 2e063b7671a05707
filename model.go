package apidoc

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// StructModel documents a Go struct. Its schema is generated from the
// struct's fields and the rules it declares through [Ruler].
type StructModel struct {
	name  string
	value any
}

// Struct returns a model for v named after its type.
func Struct(v any) *StructModel {
	return NamedStruct(indirect(v).Type().Name(), v)
}

// NamedStruct returns a model for v registered under name.
func NamedStruct(name string, v any) *StructModel {
	return &StructModel{name: name, value: v}
}

// ModelName implements [Model].
func (m *StructModel) ModelName() string {
	return m.name
}

// Definition implements [Model].
func (m *StructModel) Definition() (Object, error) {
	if m.name == "" {
		return nil, fmt.Errorf("struct model %T has no name", m.value)
	}
	ref, err := NewSchemaRef(m.value)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.name, err)
	}
	b, err := json.Marshal(ref.Value)
	if err != nil {
		return nil, err
	}
	var def Object
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, err
	}
	return def, nil
}

// Reference returns the reference object pointing at m.
func (m *StructModel) Reference() Object {
	return Ref(m.name)
}

// Array returns an array schema whose items are m.
func (m *StructModel) Array() Object {
	return Object{"type": "array", "items": m}
}

// Validate checks v against m's field rules.
func (m *StructModel) Validate(v any) error {
	if err := Validate(v); err != nil {
		return &ModelError{Model: m.name, Err: err}
	}
	return nil
}

// NewSchemaRef generates the schema of value, applying the rules of types
// implementing [Ruler] or [ValueRuler].
func NewSchemaRef(value any) (*openapi3.SchemaRef, error) {
	d := describer{value: indirect(value)}
	g := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(d.customize))
	return g.NewSchemaRefForValue(value, nil)
}

func indirect(v any) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = reflect.Indirect(rv)
	}
	return rv
}

// describer documents declared rules on the schemas openapi3gen generates
// for value and the types reachable from it.
type describer struct {
	value reflect.Value
}

func (d describer) customize(name string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	// Interface fields are documented by their concrete value.
	if concrete, ok := d.concreteField(name); ok {
		ref, err := NewSchemaRef(concrete)
		if err != nil {
			return err
		}
		*schema = *ref.Value
		return nil
	}
	if t.Kind() != reflect.Struct {
		return describeValue(t, name, schema)
	}

	for _, p := range hiddenProperties(t) {
		delete(schema.Properties, p)
	}
	r, ok := reflect.New(t).Interface().(Ruler)
	if !ok {
		return describeValue(t, name, schema)
	}
	bound, err := bindRules(r)
	if err != nil {
		return err
	}
	for _, b := range bound {
		prop, ok := schema.Properties[b.name]
		if b.name == "" || !ok {
			continue
		}
		for _, rule := range b.rules {
			if err := rule.Describe(b.name, schema, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d describer) concreteField(name string) (any, bool) {
	if !d.value.IsValid() || d.value.Kind() != reflect.Struct {
		return nil, false
	}
	fv := d.value.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	if !fv.IsValid() || fv.Kind() != reflect.Interface || !fv.Elem().IsValid() {
		return nil, false
	}
	return fv.Elem().Interface(), true
}

func describeValue(t reflect.Type, name string, schema *openapi3.Schema) error {
	vr, ok := reflect.New(t).Interface().(ValueRuler)
	if !ok {
		vr, ok = reflect.Zero(t).Interface().(ValueRuler)
	}
	if !ok {
		return nil
	}
	ref := &openapi3.SchemaRef{Value: schema}
	for _, rule := range vr.ValueRules() {
		if err := rule.Describe(name, schema, ref); err != nil {
			return err
		}
	}
	return nil
}
