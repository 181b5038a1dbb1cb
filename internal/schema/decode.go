package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// decodeObject unmarshals raw into out after checking that every key in
// required is present and not null.
func decodeObject(raw []byte, out interface{}, required ...string) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return decodeFailure("", err)
	}
	if obj == nil {
		return newValidationError(FieldError{Message: "expected an object"})
	}

	var missing []FieldError
	for _, key := range required {
		v, ok := obj[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			missing = append(missing, FieldError{Field: key, Message: key + " is required"})
		}
	}
	if len(missing) > 0 {
		return newValidationError(missing...)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return decodeFailure("", err)
	}
	return nil
}

// decodeList splits a JSON array and parses each element with parse,
// prefixing field paths with the element index.
func decodeList[T any](raw []byte, parse func([]byte) (T, error)) ([]T, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, decodeFailure("", err)
	}
	if elems == nil {
		return nil, newValidationError(FieldError{Message: "expected an array"})
	}

	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		v, err := parse(elem)
		if err != nil {
			return nil, prefixed(fmt.Sprintf("[%d]", i), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeFailure(field string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		name := typeErr.Field
		if name == "" {
			name = field
		}
		if name == "" {
			return newValidationError(FieldError{Message: "expected " + typeErr.Type.String() + ", got " + typeErr.Value})
		}
		return newValidationError(FieldError{
			Field:   name,
			Message: fmt.Sprintf("%s must be %s, got %s", name, typeErr.Type.String(), typeErr.Value),
		})
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return newValidationError(FieldError{Field: field, Message: "malformed JSON"})
	}

	return newValidationError(FieldError{Field: field, Message: err.Error()})
}

func prefixed(prefix string, err error) error {
	ve, ok := AsValidationError(err)
	if !ok {
		return err
	}

	fields := make([]FieldError, len(ve.Fields))
	for i, f := range ve.Fields {
		path := prefix
		if f.Field != "" {
			path += "." + f.Field
		}
		fields[i] = FieldError{Field: path, Message: f.Message}
	}
	return newValidationError(fields...)
}
