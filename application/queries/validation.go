// Package queries defines the read-side queries and their result shapes.
package queries

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"srm-backend/domain/core/valueobjects"
	domainservices "srm-backend/domain/services"
	pkgerrors "srm-backend/pkg/errors"
)

var validate = validator.New()

// validateStruct runs tag validation and reports the failures as one validation error
func validateStruct(q interface{}) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewValidationError(err.Error()).WithCode(pkgerrors.CodeInvalidQuery)
	}

	fields := make(map[string]interface{}, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s failed on '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
		}
		fields[fe.Field()] = msg
		messages = append(messages, msg)
	}

	return pkgerrors.NewValidationError(strings.Join(messages, "; ")).
		WithCode(pkgerrors.CodeInvalidQuery).
		WithDetails(fields)
}

// GroupFilter selects which groups a view shows
type GroupFilter struct {
	MinNumbers int   `json:"min_numbers,omitempty" validate:"gte=0"`
	MaxNumbers int   `json:"max_numbers,omitempty" validate:"gte=0"`
	Numbers    []int `json:"numbers,omitempty" validate:"dive,gte=1"`
}

func (f GroupFilter) validate() error {
	if err := validateStruct(f); err != nil {
		return err
	}
	if f.MaxNumbers > 0 && f.MaxNumbers < f.MinNumbers {
		return pkgerrors.NewValidationError("max_numbers must not be less than min_numbers").
			WithCode(pkgerrors.CodeInvalidQuery)
	}
	return nil
}

// Visibility converts the filter to its domain form
func (f GroupFilter) Visibility() domainservices.VisibilityFilter {
	return domainservices.VisibilityFilter{
		MinNumbers: f.MinNumbers,
		MaxNumbers: f.MaxNumbers,
		Selected:   valueobjects.NewNumberSet(f.Numbers...),
	}
}
