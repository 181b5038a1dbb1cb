package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	searchCharsRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-]+$`)
	postalCodeRegex  = regexp.MustCompile(`^[0-9]{5}$`)
	phoneRegex       = regexp.MustCompile(`^[0-9\s\-\+\.]{10,}$`)
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// report fields by their JSON names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})

		// decimals are compared as floats by gt/min/max
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})

		mustRegister(v, "searchchars", func(fl validator.FieldLevel) bool {
			return searchCharsRegex.MatchString(fl.Field().String())
		})
		mustRegister(v, "postalcode", func(fl validator.FieldLevel) bool {
			return postalCodeRegex.MatchString(fl.Field().String())
		})
		mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
			return phoneRegex.MatchString(fl.Field().String())
		})
		mustRegister(v, "trimmin", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len([]rune(strings.TrimSpace(fl.Field().String()))) >= n
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("schema: register %s: %v", tag, err))
	}
}

// messages maps "field.tag" (field is the JSON name, not the path) to the
// text shown for that violation.
type messages map[string]string

// check runs the struct rules and converts failures into a ValidationError
// using msgs, falling back to generic wording.
func check(s interface{}, msgs messages) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newValidationError(FieldError{Message: err.Error()})
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe, msgs),
		})
	}
	return newValidationError(fields...)
}

// fieldPath drops the root struct name: "CreateOrder.products[0].quantity"
// becomes "products[0].quantity".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError, msgs messages) string {
	if m, ok := msgs[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "please enter a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "min", "trimmin":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "datetime":
		return field + " must be an ISO 8601 date"
	default:
		return field + " is invalid"
	}
}
