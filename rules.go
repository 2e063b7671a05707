package apidoc

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type (
	// Rule validates a value and documents itself on the generated schema.
	// parent is the enclosing object schema, prop the field's own schema.
	Rule interface {
		Validate(value any) error
		Describe(name string, parent *openapi3.Schema, prop *openapi3.SchemaRef) error
	}

	// FieldRules binds a struct field pointer to its rules.
	FieldRules struct {
		fieldPtr any
		rules    []Rule
	}

	// Ruler is implemented by struct models declaring field rules:
	//
	//	func (u *User) Rules() []*apidoc.FieldRules {
	//	    return []*apidoc.FieldRules{
	//	        apidoc.Field(&u.Name, apidoc.Required, apidoc.Length(1, 64)),
	//	    }
	//	}
	Ruler interface {
		Rules() []*FieldRules
	}

	// ValueRuler is implemented by non-struct types (type Role string) that
	// carry their own rules wherever they appear as a field.
	ValueRuler interface {
		ValueRules() []Rule
	}
)

// Field creates a FieldRules binding a struct field pointer to rules.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// appendDescription is idempotent: embedded structs are described once for
// their own schema and again when inlined into the parent.
func appendDescription(ref *openapi3.SchemaRef, desc string) {
	if desc == "" || strings.Contains(ref.Value.Description, desc) {
		return
	}
	if ref.Value.Description != "" && !strings.HasSuffix(ref.Value.Description, " ") {
		ref.Value.Description += " "
	}
	ref.Value.Description += desc
}

type requiredRule struct {
	validation.RequiredRule
}

// Required checks that a value is not empty and lists the field in the
// parent's required properties.
var Required = requiredRule{validation.Required}

func (requiredRule) Describe(name string, parent *openapi3.Schema, _ *openapi3.SchemaRef) error {
	parent.Required = append(parent.Required, name)
	return nil
}

type inRule struct {
	validation.InRule
	values []any
}

// In checks that a value is one of values and documents them as the enum.
func In(values ...any) Rule {
	return inRule{validation.In(values...).Error(choicesMessage(values)), values}
}

func choicesMessage(values []any) string {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	return "must be one of " + strings.Join(want, ", ")
}

func (r inRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	prop.Value.Enum = r.values
	return nil
}

type thresholdRule struct {
	validation.ThresholdRule
	threshold any
	min       bool
}

// Min checks value >= threshold.
func Min(threshold any) Rule {
	return thresholdRule{validation.Min(threshold), threshold, true}
}

// Max checks value <= threshold.
func Max(threshold any) Rule {
	return thresholdRule{validation.Max(threshold), threshold, false}
}

func (r thresholdRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	f, ok := floatValue(r.threshold)
	if !ok {
		return fmt.Errorf("cannot convert %T to float64", r.threshold)
	}
	if r.min {
		prop.Value.Min = &f
	} else {
		prop.Value.Max = &f
	}
	return nil
}

type lengthRule struct {
	validation.LengthRule
	min, max int
}

// Length checks the rune length of a string. max 0 means unbounded.
func Length(lo, hi int) Rule {
	return lengthRule{validation.RuneLength(lo, hi), lo, hi}
}

func (r lengthRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	prop.Value.MinLength = uint64(r.min)
	if r.max > 0 {
		hi := uint64(r.max)
		prop.Value.MaxLength = &hi
	}
	return nil
}

type formatRule struct {
	rule   validation.Rule
	format string
}

// Format checks a string against a known OpenAPI format (email, uuid, uri,
// ipv4, ipv6, date, date-time) and documents it.
func Format(format string) Rule {
	return formatRule{rule: stringFormatRule(format), format: format}
}

func (r formatRule) Validate(value any) error {
	if r.rule == nil {
		return nil
	}
	return r.rule.Validate(value)
}

func (r formatRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	prop.Value.Format = r.format
	return nil
}

// docRule only documents.
type docRule func(prop *openapi3.SchemaRef)

func (docRule) Validate(any) error { return nil }

func (r docRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	r(prop)
	return nil
}

// Describe appends desc to the field description.
func Describe(desc string) Rule {
	return docRule(func(prop *openapi3.SchemaRef) { appendDescription(prop, desc) })
}

// Example sets the field example.
func Example(ex any) Rule {
	return docRule(func(prop *openapi3.SchemaRef) { prop.Value.Example = ex })
}

// Default sets the field default.
func Default(v any) Rule {
	return docRule(func(prop *openapi3.SchemaRef) { prop.Value.Default = v })
}

// Deprecate marks the field deprecated.
func Deprecate() Rule {
	return docRule(func(prop *openapi3.SchemaRef) { prop.Value.Deprecated = true })
}

type customRule struct {
	f    func(any) error
	desc string
}

// Custom validates with f and appends desc to the field description.
func Custom(f func(any) error, desc string) Rule {
	return customRule{f: f, desc: desc}
}

func (r customRule) Validate(value any) error {
	return r.f(value)
}

func (r customRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	appendDescription(prop, r.desc)
	return nil
}

type eachRule struct {
	validation.EachRule
	rules []Rule
}

// Each applies rules to every element of a slice or map. They are
// documented on the items schema.
func Each(rules ...Rule) Rule {
	inner := make([]validation.Rule, len(rules))
	for i, r := range rules {
		inner[i] = r
	}
	return eachRule{validation.Each(inner...), rules}
}

func (r eachRule) Describe(name string, parent *openapi3.Schema, prop *openapi3.SchemaRef) error {
	target := prop
	if prop.Value.Items != nil && prop.Value.Items.Value != nil {
		target = prop.Value.Items
	}
	for _, rule := range r.rules {
		if err := rule.Describe(name, parent, target); err != nil {
			return err
		}
	}
	return nil
}

type notNilRule struct {
	validation.Rule
}

// NotNil rejects nil pointers and documents the field as not nullable.
var NotNil = notNilRule{validation.NotNil}

func (notNilRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	prop.Value.Nullable = false
	return nil
}

type uniqueRule struct{}

// Unique checks that the elements of a slice are distinct and documents
// uniqueItems. Elements must be comparable.
var Unique Rule = uniqueRule{}

func (uniqueRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}
	rv = reflect.Indirect(rv)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return errors.New("must be a list")
	}
	if !rv.Type().Elem().Comparable() {
		return fmt.Errorf("elements of %s are not comparable", rv.Type())
	}
	seen := make(map[any]struct{}, rv.Len())
	for i := range rv.Len() {
		v := rv.Index(i).Interface()
		if _, ok := seen[v]; ok {
			return errors.New("must not contain duplicates")
		}
		seen[v] = struct{}{}
	}
	return nil
}

func (uniqueRule) Describe(_ string, _ *openapi3.Schema, prop *openapi3.SchemaRef) error {
	prop.Value.UniqueItems = true
	return nil
}
