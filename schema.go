package apidoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Model is a named schema. Models found anywhere in an operation object are
// moved to components.schemas and replaced by a reference.
type Model interface {
	ModelName() string
	Definition() (Object, error)
}

// Ref returns the reference object for the component schema called name.
func Ref(name string) Object {
	return Object{"$ref": "#/components/schemas/" + name}
}

// Schema declares a model as a JSON-Schema-like property map:
//
//	var User = &apidoc.Schema{
//	    Name: "User",
//	    Properties: apidoc.Object{
//	        "id":   apidoc.Object{"type": "integer", "format": "int64"},
//	        "name": apidoc.Object{"type": "string"},
//	    },
//	    Required: []string{"name"},
//	}
//
// Property values are schema objects or other models.
type Schema struct {
	Name        string
	Description string
	Type        string // "object" when empty
	Properties  Object
	Required    []string
	// Extra holds further schema keywords such as example or
	// additionalProperties.
	Extra Object
}

// ModelName implements [Model].
func (s *Schema) ModelName() string {
	return s.Name
}

// Definition implements [Model].
func (s *Schema) Definition() (Object, error) {
	if s.Name == "" {
		return nil, errors.New("schema has no name")
	}
	return s.Definitions(), nil
}

// Definitions returns the schema object describing s. Nested models are
// left in place.
func (s *Schema) Definitions() Object {
	def := Object{}
	for k, v := range s.Extra {
		def[k] = deepCopy(v)
	}
	def["type"] = s.Type
	if s.Type == "" {
		def["type"] = "object"
	}
	if len(s.Properties) > 0 {
		def["properties"] = s.Properties.Copy()
	}
	if len(s.Required) > 0 {
		def["required"] = append([]string(nil), s.Required...)
	}
	if s.Description != "" {
		def["description"] = s.Description
	}
	return def
}

// Reference returns the reference object pointing at s.
func (s *Schema) Reference() Object {
	return Ref(s.Name)
}

// Array returns an array schema whose items are s.
func (s *Schema) Array() Object {
	return Object{"type": "array", "items": s}
}

// IsRequired reports whether s has required properties.
func (s *Schema) IsRequired() bool {
	return len(s.Required) > 0
}

// MustNew is like [Schema.New] but panics on error.
func (s *Schema) MustNew(values Object) Object {
	o, err := s.New(values)
	if err != nil {
		panic(err)
	}
	return o
}

// New returns a model instance holding values after checking them against
// the declared properties: unknown attributes, primitive types, enum,
// format, length and range constraints and required attributes. Nested
// [*Schema] properties are checked recursively.
func (s *Schema) New(values Object) (Object, error) {
	errs := validation.Errors{}
	for k, v := range values {
		if len(s.Properties) == 0 {
			break
		}
		prop, ok := s.Properties[k]
		if !ok {
			errs[k] = fmt.Errorf("the model %q does not have an attribute %q", s.Name, k)
			continue
		}
		if err := validation.Validate(v, propertyRules(prop)...); err != nil {
			errs[k] = err
		}
	}
	for _, k := range s.Required {
		if _, ok := values[k]; !ok {
			errs[k] = fmt.Errorf("the attribute %q is required", k)
		}
	}
	if err := errs.Filter(); err != nil {
		return nil, &ModelError{Model: s.Name, Err: err}
	}
	return values.Copy(), nil
}

func propertyRules(prop any) []validation.Rule {
	if nested, ok := prop.(*Schema); ok {
		return []validation.Rule{validation.By(func(v any) error {
			obj, ok := asObject(v)
			if !ok {
				return fmt.Errorf("must be an object matching %q, but was %T", nested.Name, v)
			}
			_, err := nested.New(obj)
			return err
		})}
	}
	desc, ok := asObject(prop)
	if !ok {
		return nil
	}
	nullable, _ := desc["nullable"].(bool)
	typ := stringValue(desc, "type")

	rules := []validation.Rule{validation.By(func(v any) error {
		if v == nil {
			if nullable || typ == "" {
				return nil
			}
			return errors.New("must not be null")
		}
		return checkType(typ, v)
	})}
	if enum, ok := asList(desc["enum"]); ok {
		rules = append(rules, enumCheck(enum))
	}
	if r := stringFormatRule(stringValue(desc, "format")); r != nil {
		rules = append(rules, stringOnly(r))
	}
	if r := lengthCheck(desc); r != nil {
		rules = append(rules, r)
	}
	if r := rangeCheck(desc); r != nil {
		rules = append(rules, r)
	}
	return rules
}

// checkType reports whether v is compatible with the JSON-Schema type.
// Unknown types accept anything.
func checkType(typ string, v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch typ {
	case "integer":
		if !isInteger(v, rv) {
			return fmt.Errorf("must be an int, but was %T", v)
		}
	case "number":
		if _, ok := floatValue(v); !ok {
			return fmt.Errorf("must be an int or float, but was %T", v)
		}
	case "string":
		if rv.Kind() != reflect.String {
			return fmt.Errorf("must be a string, but was %T", v)
		}
	case "boolean":
		if rv.Kind() != reflect.Bool {
			return fmt.Errorf("must be a bool, but was %T", v)
		}
	case "array":
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return fmt.Errorf("must be a list, but was %T", v)
		}
	case "object":
		if rv.Kind() != reflect.Map && rv.Kind() != reflect.Struct {
			return fmt.Errorf("must be an object, but was %T", v)
		}
	}
	return nil
}

func isInteger(v any, rv reflect.Value) bool {
	if n, ok := v.(json.Number); ok {
		_, err := n.Int64()
		return err == nil
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == math.Trunc(f) && !math.IsInf(f, 0)
	}
	return false
}

func floatValue(v any) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func intValue(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	f, ok := floatValue(v)
	return int(f), ok
}

func stringFormatRule(format string) validation.Rule {
	switch format {
	case "email":
		return is.Email
	case "uuid":
		return is.UUID
	case "uri", "url":
		return is.URL
	case "ipv4":
		return is.IPv4
	case "ipv6":
		return is.IPv6
	case "date":
		return validation.Date("2006-01-02")
	case "date-time":
		return validation.Date(time.RFC3339)
	}
	return nil
}

// stringOnly applies r to string values and skips everything else; type
// mismatches are reported by the type rule.
func stringOnly(r validation.Rule) validation.Rule {
	return validation.By(func(v any) error {
		if _, ok := v.(string); !ok {
			return nil
		}
		return r.Validate(v)
	})
}

// enumCheck, lengthCheck and rangeCheck check 0 and "" as well; ozzo's In,
// RuneLength, Min and Max skip empty values.
func enumCheck(enum []any) validation.Rule {
	msg := fmt.Sprintf("must be one of %v", enum)
	return validation.By(func(v any) error {
		if v == nil {
			return nil
		}
		for _, e := range enum {
			if sameValue(e, v) {
				return nil
			}
		}
		return validation.NewError("validation_in_invalid", msg)
	})
}

func sameValue(a, b any) bool {
	fa, okA := floatValue(a)
	fb, okB := floatValue(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func lengthCheck(desc Object) validation.Rule {
	lo, hasLo := intValue(desc["minLength"])
	hi, hasHi := intValue(desc["maxLength"])
	if !hasLo && !hasHi {
		return nil
	}
	return validation.By(func(v any) error {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		n := utf8.RuneCountInString(s)
		switch {
		case hasLo && hasHi && (n < lo || n > hi):
			if lo == hi {
				return validation.NewError("validation_length_invalid", fmt.Sprintf("the length must be exactly %d", lo))
			}
			return validation.NewError("validation_length_out_of_range", fmt.Sprintf("the length must be between %d and %d", lo, hi))
		case hasLo && !hasHi && n < lo:
			return validation.NewError("validation_length_too_short", fmt.Sprintf("the length must be no less than %d", lo))
		case hasHi && !hasLo && n > hi:
			return validation.NewError("validation_length_too_long", fmt.Sprintf("the length must be no more than %d", hi))
		}
		return nil
	})
}

func rangeCheck(desc Object) validation.Rule {
	lo, hasLo := floatValue(desc["minimum"])
	hi, hasHi := floatValue(desc["maximum"])
	if desc["minimum"] == nil {
		hasLo = false
	}
	if desc["maximum"] == nil {
		hasHi = false
	}
	if !hasLo && !hasHi {
		return nil
	}
	return validation.By(func(v any) error {
		f, ok := floatValue(v)
		if !ok {
			return nil
		}
		if hasLo && f < lo {
			return validation.NewError("validation_min_greater_equal_than_required", fmt.Sprintf("must be no less than %v", lo))
		}
		if hasHi && f > hi {
			return validation.NewError("validation_max_less_equal_than_required", fmt.Sprintf("must be no greater than %v", hi))
		}
		return nil
	})
}
