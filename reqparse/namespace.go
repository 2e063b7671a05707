package reqparse

import "time"

// Namespace holds parsed values keyed by argument destination.
type Namespace map[string]any

// Get returns the value stored under key.
func (n Namespace) Get(key string) (any, bool) {
	v, ok := n[key]
	return v, ok
}

// String returns the string stored under key, or "".
func (n Namespace) String(key string) string {
	s, _ := n[key].(string)
	return s
}

// Int returns the int stored under key, or 0.
func (n Namespace) Int(key string) int {
	i, _ := n[key].(int)
	return i
}

// Float returns the number stored under key, or 0.
func (n Namespace) Float(key string) float64 {
	switch v := n[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns the bool stored under key, or false.
func (n Namespace) Bool(key string) bool {
	b, _ := n[key].(bool)
	return b
}

// Time returns the time stored under key, or the zero time.
func (n Namespace) Time(key string) time.Time {
	t, _ := n[key].(time.Time)
	return t
}

// List returns the values stored under key by an [Append] argument.
func (n Namespace) List(key string) []any {
	l, _ := n[key].([]any)
	return l
}
