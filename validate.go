package apidoc

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks a struct model against the rules it declares.
// Ruler structs are checked field by field, ValueRuler values against their
// own rules and slices or maps of Ruler structs element by element. Values
// implementing neither are accepted.
func Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return nil
	}

	// ozzo needs a pointer to check struct fields.
	if rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if r, ok := ptr.Interface().(Ruler); ok {
			return validateStruct(r)
		}
	}
	if r, ok := value.(Ruler); ok && rv.Kind() == reflect.Ptr {
		return validateStruct(r)
	}
	if vr, ok := value.(ValueRuler); ok {
		for _, rule := range vr.ValueRules() {
			if err := rule.Validate(value); err != nil {
				return err
			}
		}
		return nil
	}

	rv = reflect.Indirect(rv)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if !hasRules(rv.Type().Elem()) {
			return nil
		}
		errs := validation.Errors{}
		for i := range rv.Len() {
			if err := Validate(elemPointer(rv.Index(i))); err != nil {
				errs[strconv.Itoa(i)] = err
			}
		}
		return errs.Filter()
	case reflect.Map:
		if !hasRules(rv.Type().Elem()) {
			return nil
		}
		errs := validation.Errors{}
		iter := rv.MapRange()
		for iter.Next() {
			if err := Validate(elemPointer(iter.Value())); err != nil {
				errs[fmt.Sprint(iter.Key().Interface())] = err
			}
		}
		return errs.Filter()
	}
	return nil
}

// DecodeAndValidate decodes JSON from r into dst, then validates it.
func DecodeAndValidate(r io.Reader, dst any) error {
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return err
	}
	return Validate(dst)
}

func hasRules(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		_, ok := reflect.New(t).Interface().(Ruler)
		return ok
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		return hasRules(t.Elem())
	}
	return false
}

func elemPointer(v reflect.Value) any {
	if v.Kind() == reflect.Struct && v.CanAddr() {
		return v.Addr().Interface()
	}
	return v.Interface()
}

// nestedRule hands field values back to Validate so Ruler children are
// checked too.
type nestedRule struct{}

func (nestedRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	return Validate(value)
}

func validateStruct(r Ruler) error {
	bound, err := bindRules(r)
	if err != nil {
		return err
	}
	fields := make([]*validation.FieldRules, len(bound))
	for i, b := range bound {
		rules := make([]validation.Rule, 0, len(b.rules)+1)
		for _, rule := range b.rules {
			rules = append(rules, rule)
		}
		fields[i] = validation.Field(b.ptr, append(rules, nestedRule{})...)
	}
	return validation.ValidateStruct(r, fields...)
}
