package apidoc

import (
	"fmt"
	"reflect"
	"strings"
)

// boundRule is a rule list attached to a resolved struct field. name is the
// property and error key; it is empty for embedded fields.
type boundRule struct {
	ptr   any
	name  string
	rules []Rule
}

// fieldKey identifies a field by address and type. An embedded struct and
// its first field share an address but never a type.
type fieldKey struct {
	addr uintptr
	typ  reflect.Type
}

// bindRules resolves the field pointers declared by a [Ruler] struct.
// Embedded Ruler fields are inlined so properties and error keys stay flat.
func bindRules(structPtr Ruler) ([]boundRule, error) {
	sv := reflect.ValueOf(structPtr)
	if sv.Kind() != reflect.Ptr || sv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("rules of %T: want a pointer to a struct", structPtr)
	}
	sv = sv.Elem()
	fields := indexFields(sv, map[fieldKey]reflect.StructField{})

	var bound []boundRule
	for i, fr := range structPtr.Rules() {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr || fv.IsNil() {
			return nil, fmt.Errorf("rule %d of %s: target must be a field pointer, got %T", i, sv.Type(), fr.fieldPtr)
		}
		sf, ok := fields[fieldKey{fv.Pointer(), fv.Type().Elem()}]
		if !ok {
			return nil, fmt.Errorf("rule %d of %s: target is not a field", i, sv.Type())
		}
		if !sf.Anonymous {
			bound = append(bound, boundRule{ptr: fr.fieldPtr, name: jsonName(sf), rules: fr.rules})
			continue
		}
		if inner, ok := fr.fieldPtr.(Ruler); ok {
			rules, err := bindRules(inner)
			if err != nil {
				return nil, err
			}
			bound = append(bound, rules...)
			continue
		}
		bound = append(bound, boundRule{ptr: fr.fieldPtr, rules: fr.rules})
	}
	return bound, nil
}

func indexFields(sv reflect.Value, index map[fieldKey]reflect.StructField) map[fieldKey]reflect.StructField {
	for i := range sv.NumField() {
		sf := sv.Type().Field(i)
		fv := sv.Field(i)
		if fv.CanAddr() {
			index[fieldKey{fv.UnsafeAddr(), sf.Type}] = sf
		}
		if sf.Anonymous && fv.Kind() == reflect.Struct {
			indexFields(fv, index)
		}
	}
	return index
}

// hiddenProperties lists the properties of t tagged docs:"skip", including
// those of embedded structs.
func hiddenProperties(t reflect.Type) []string {
	var hidden []string
	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				hidden = append(hidden, hiddenProperties(ft)...)
			}
			continue
		}
		if docs, _, _ := strings.Cut(sf.Tag.Get("docs"), ","); docs == "skip" {
			hidden = append(hidden, jsonName(sf))
		}
	}
	return hidden
}

func jsonName(sf reflect.StructField) string {
	if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return sf.Name
}
