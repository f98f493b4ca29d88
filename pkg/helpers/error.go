// Package helpers adapts go-playground/validator failures into the
// library's uniform model.Error envelope. It has no knowledge of HTTP,
// storage, or any particular transport; it exists purely so
// CheckSimple's caller gets a structured, Kind-comparable error instead of
// a raw validator.ValidationErrors.
package helpers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/evannetwork/vade-evan-cl/pkg/model"
)

// NewErrorFromError translates a validator.ValidationErrors (or any other
// error) into *model.Error, defaulting to ErrMalformed for anything it does
// not specifically recognize.
func NewErrorFromError(err error) error {
	if err == nil {
		return nil
	}
	if modelErr, ok := err.(*model.Error); ok {
		return modelErr
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		return model.ErrMalformed.With("%s", formatValidationErrors(validationErrors))
	}
	return model.ErrMalformed.With("%v", err)
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: failed %q (got %v)", e.Namespace(), e.Tag(), e.Value()))
	}
	return strings.Join(parts, "; ")
}
