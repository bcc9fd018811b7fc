package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/reeljournal/reeljournal/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return Genre(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		return Kind(fl.Field().String()).IsValid()
	})

	return v
}

// ValidateInput checks in against its struct tags and reports the first
// violation as an InvalidArgument error naming the field.
func ValidateInput(in ReviewInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return pkgerrors.Wrap(pkgerrors.ErrorTypeInvalidArgument, "invalid review", err)
	}

	fe := verrs[0]
	return pkgerrors.InvalidField(fieldPath(fe), describe(fe))
}

// ValidateScore checks that score is on the 1..5 star scale.
func ValidateScore(score int) error {
	if score < MinScore || score > MaxScore {
		return pkgerrors.InvalidField("score", fmt.Sprintf("must be between %d and %d", MinScore, MaxScore))
	}
	return nil
}

func errSlugless() error {
	return pkgerrors.InvalidField("title", "must contain at least one letter or digit")
}

// fieldPath strips the struct name: "ReviewInput.genres[1]" -> "genres[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a valid URL"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "genre":
		return fmt.Sprintf("unknown genre %q", fe.Value())
	case "kind":
		return fmt.Sprintf("must be %q or %q", KindMovie, KindSeries)
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
