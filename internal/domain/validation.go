// catalog-service/internal/domain/validation.go
package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldViolation describes one failed constraint on an input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found in one input.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the offending fields in report order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Field)
	}
	return out
}

// Messages keyed by "<json field>.<validator tag>".
var violationMessages = map[string]string{
	"title.notblank":       "Title is required",
	"title.max":            "Title must be at most 255 characters",
	"description.notblank": "Description is required",
	"description.max":      "Description must be at most 1000 characters",
	"contentType.required": "Content type is required",
	"contentType.oneof":    "Content type must be one of MOVIE, SERIES, DOCUMENTARY",
	"genre.notblank":       "Genre is required",
	"genre.max":            "Genre must be at most 100 characters",
	"releaseYear.required": "Release year is required",
	"releaseYear.gte":      "Release year must be at least 1900",
	"releaseYear.lte":      "Release year must be at most 2100",
	"rating.gte":           "Rating must be at least 0.0",
	"rating.lte":           "Rating must be at most 10.0",
	"durationMinutes.gte":  "Duration must be positive",
	"totalEpisodes.gte":    "Total episodes must be positive",
}

// Validator checks inbound request shapes before they reach the service.
type Validator struct {
	validate *validator.Validate
}

// NewValidator configures a validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// notblank also rejects whitespace-only strings.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return &Validator{validate: v}
}

// ValidateCreate checks a create or update payload.
func (v *Validator) ValidateCreate(ctx context.Context, req CreateContentRequest) error {
	return v.check(ctx, req)
}

// ValidateSearch checks a search filter. Only a present contentType is constrained.
func (v *Validator) ValidateSearch(ctx context.Context, filter SearchFilter) error {
	return v.check(ctx, filter)
}

func (v *Validator) check(ctx context.Context, s interface{}) error {
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %T: %w", s, err)
	}
	out := &ValidationError{Violations: make([]FieldViolation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := violationMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s constraint", fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("failed %s constraint", fe.Tag())
}
