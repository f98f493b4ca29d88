package helpers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator builds a validator.Validate that reports struct fields by
// their json tag name (falling back to the Go field name) instead of the
// Go field name, so validation errors read the same as the wire format.
func NewValidator() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate, nil
}

// CheckSimple validates s against its struct tags (see model.Cfg), wrapping
// any failure in the package's uniform Error envelope.
func CheckSimple(s any) error {
	validate, err := NewValidator()
	if err != nil {
		return err
	}
	if err := validate.Struct(s); err != nil {
		return NewErrorFromError(err)
	}
	return nil
}
