package apidoc

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationError reports a spec fragment that does not match the expected
// OpenAPI object shape. Path locates the offending node, e.g.
// "paths./users.get.responses".
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return e.Path + ": " + e.Msg
}

func validationErrorf(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// ModelError is returned when model values do not satisfy the declared
// properties. Err is a [validation.Errors] keyed by attribute name.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %q: %s", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Fields returns the per-attribute errors, or nil.
func (e *ModelError) Fields() validation.Errors {
	errs, _ := e.Err.(validation.Errors)
	return errs
}
