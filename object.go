package apidoc

import (
	"reflect"
	"strings"
)

// Object is the dictionary form of an OpenAPI fragment. Values may be other
// objects, plain maps, slices, scalars or a [Model] that is replaced by a
// reference when the fragment is extracted.
type Object map[string]any

// asObject returns v as an Object when v is any map keyed by strings.
func asObject(v any) (Object, bool) {
	switch o := v.(type) {
	case Object:
		return o, true
	case map[string]any:
		return Object(o), true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(Object, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList returns v as a slice of values when v is any slice or array.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// deepCopy copies maps and slices recursively. Models, parsers and scalars
// are shared.
func deepCopy(v any) any {
	if _, ok := v.(Model); ok {
		return v
	}
	switch v.(type) {
	case ReqParser, *ReqParser:
		return v
	}
	if o, ok := asObject(v); ok {
		out := make(Object, len(o))
		for k, val := range o {
			out[k] = deepCopy(val)
		}
		return out
	}
	if _, ok := v.([]byte); ok {
		return v
	}
	if l, ok := asList(v); ok {
		out := make([]any, len(l))
		for i := range l {
			out[i] = deepCopy(l[i])
		}
		return out
	}
	return v
}

// Copy returns a deep copy of o.
func (o Object) Copy() Object {
	if o == nil {
		return nil
	}
	return deepCopy(o).(Object)
}

// SetNested sets value at the dotted key path, creating intermediate objects
// as needed:
//
//	SetNested(doc, "info.title", "API")
func SetNested(o Object, path string, value any) {
	keys := strings.Split(path, ".")
	cur := o
	for _, k := range keys[:len(keys)-1] {
		next, ok := asObject(cur[k])
		if !ok {
			next = Object{}
		}
		cur[k] = next
		cur = next
	}
	cur[keys[len(keys)-1]] = value
}

// getNested returns the value at the dotted key path.
func getNested(o Object, path string) (any, bool) {
	keys := strings.Split(path, ".")
	cur := o
	for i, k := range keys {
		v, ok := cur[k]
		if !ok {
			return nil, false
		}
		if i == len(keys)-1 {
			return v, true
		}
		if cur, ok = asObject(v); !ok {
			return nil, false
		}
	}
	return nil, false
}

func stringValue(o Object, key string) string {
	s, _ := o[key].(string)
	return s
}
