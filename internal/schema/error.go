package schema

import (
	"errors"
	"strings"
)

// FieldError is one violated rule. Field is a JSON path such as
// "products[0].quantity"; it is empty for whole-document problems.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated rule, in declaration order.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error returns the first message only; that is what gets shown to users.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid data"
	}
	return e.Fields[0].Message
}

func (e *ValidationError) First() FieldError {
	if e == nil || len(e.Fields) == 0 {
		return FieldError{}
	}
	return e.Fields[0]
}

// Messages lists every message, joined with "; ".
func (e *ValidationError) Messages() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func newValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidationError unwraps err into a *ValidationError when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
