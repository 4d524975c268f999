package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator wraps go-playground/validator with English messages keyed by the
// json field name. It satisfies echo.Validator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// FieldErrors maps json field names to human readable messages.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for _, msg := range f {
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}

// First returns one message, preferring the order of the given fields.
func (f FieldErrors) First(fields ...string) string {
	for _, field := range fields {
		if msg, ok := f[field]; ok {
			return msg
		}
	}
	for _, msg := range f {
		return msg
	}
	return ""
}

func New() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// registration only fails on a duplicate tag
	_ = entranslations.RegisterDefaultTranslations(validate, translator)

	return &Validator{validate: validate, translator: translator}
}

// Validate checks a struct and returns FieldErrors on failure.
func (v *Validator) Validate(i any) error {
	return v.translate(v.validate.Struct(i))
}

// Var checks a single value against a tag, e.g. Var(email, "required,email").
func (v *Validator) Var(field any, tag string) error {
	return v.translate(v.validate.Var(field, tag))
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fields := make(FieldErrors, len(validationErrs))
	for _, fe := range validationErrs {
		key := fe.Field()
		if key == "" {
			key = fe.Tag()
		}
		fields[key] = fe.Translate(v.translator)
	}
	return fields
}
