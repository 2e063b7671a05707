package reqparse

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Type converts a raw argument value and names the OpenAPI type it is
// documented as.
type Type interface {
	// OpenAPIType is the schema type, e.g. "integer".
	OpenAPIType() string
	// Format is the schema format, e.g. "date", or "".
	Format() string
	Parse(raw string) (any, error)
}

type typeFunc struct {
	typ, format string
	parse       func(string) (any, error)
}

func (t typeFunc) OpenAPIType() string           { return t.typ }
func (t typeFunc) Format() string                { return t.format }
func (t typeFunc) Parse(raw string) (any, error) { return t.parse(raw) }

// NewType returns a Type documented as openapiType/format that converts raw
// values with parse. Use it for custom inputs:
//
//	Password := reqparse.NewType("string", "password", func(s string) (any, error) { return s, nil })
func NewType(openapiType, format string, parse func(string) (any, error)) Type {
	return &typeFunc{typ: openapiType, format: format, parse: parse}
}

// DateLayout is the layout accepted by [Date].
const DateLayout = "2006-01-02"

var (
	// String keeps the raw value.
	String = NewType("string", "", func(s string) (any, error) { return s, nil })

	// Integer parses a base 10 int.
	Integer = NewType("integer", "", func(s string) (any, error) {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, errors.New("must be an integer")
		}
		return i, nil
	})

	// Float parses a float64.
	Float = NewType("number", "", func(s string) (any, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return f, nil
	})

	// Boolean accepts true/false, 1/0, on/off and yes/no in any case.
	Boolean = NewType("boolean", "", parseBoolean)

	// Date parses a calendar date (2006-01-02) into a time.Time.
	Date = NewType("string", "date", func(s string) (any, error) {
		t, err := time.Parse(DateLayout, strings.TrimSpace(s))
		if err != nil {
			return nil, errors.New("must be a date (YYYY-MM-DD)")
		}
		return t, nil
	})

	// DateTime parses an ISO 8601 / RFC 3339 timestamp into a time.Time.
	DateTime = NewType("string", "date-time", func(s string) (any, error) {
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
		if err != nil {
			return nil, errors.New("must be an RFC 3339 date-time")
		}
		return t, nil
	})
)

func parseBoolean(s string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true, nil
	case "false", "0", "off", "no":
		return false, nil
	}
	return nil, errors.New("must be a boolean")
}
