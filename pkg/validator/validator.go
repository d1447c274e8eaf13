// Package validator wraps go-playground/validator for request DTOs. Field
// names in messages are the JSON names; decimal fields validate as numbers.
package validator

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(rv reflect.Value) any {
		d, ok := rv.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
	return v
}

// Validate checks s against its validate tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors maps each failing field path, such as
// "items[0].quantity", to a readable message. Other errors yield an empty map.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		path := fe.Field()
		if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
			path = rest
		}
		out[path] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s item(s)", p)
		}
		return fmt.Sprintf("Minimum length is %s", p)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at most %s item(s)", p)
		}
		return fmt.Sprintf("Maximum length is %s", p)
	case "gt":
		return "Must be greater than " + p
	case "gte":
		return "Must be greater than or equal to " + p
	case "lte":
		return "Must be less than or equal to " + p
	case "oneof":
		return "Must be one of: " + p
	}
	return fmt.Sprintf("Failed the %q rule", fe.Tag())
}

// ValidateRequest decodes the JSON body into a T and validates it. On
// failure it writes the error response and returns false.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	req := new(T)
	if err := httpx.DecodeJSON(r, req); err != nil {
		httpx.WriteBodyError(w, err)
		return nil, false
	}
	if !ValidateStruct(w, req) {
		return nil, false
	}
	return req, true
}

// ValidateStruct validates an already decoded request, such as one built
// from a multipart form, and writes 422 with per-field messages on failure.
func ValidateStruct(w http.ResponseWriter, req any) bool {
	err := Validate(req)
	if err == nil {
		return true
	}
	httpx.JSONErrorKind(w, http.StatusUnprocessableEntity, "invalid", "validation failed", FormatValidationErrors(err))
	return false
}
