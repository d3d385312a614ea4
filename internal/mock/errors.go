package mock

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSchema is returned when a Server or NetworkInterface is
	// constructed without a schema.
	ErrMissingSchema = errors.New("cannot create mock server without a schema")
	// ErrMissingQuery is returned for adapter requests without a document.
	ErrMissingQuery = errors.New("request has no query document")
)

// UnresolvableTypeError reports a field whose type has neither an override
// nor a built-in generator, such as a custom scalar without a rule.
type UnresolvableTypeError struct {
	Type string
}

func (e *UnresolvableTypeError) Error() string {
	return fmt.Sprintf("No mock defined for type %q", e.Type)
}

func (e *UnresolvableTypeError) ErrorCode() string { return "UNRESOLVABLE_TYPE" }

// GeneratorError wraps a failure of a user supplied generator.
type GeneratorError struct {
	Selector Selector
	Err      error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("mock %s: %v", e.Selector, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

func (e *GeneratorError) ErrorCode() string { return "GENERATOR_ERROR" }
