// Package forms decodes urlencoded form posts into structs and validates
// them, producing per-field localization keys for inline rendering.
package forms

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// FallbackKey is used when no message key matches a failed rule.
const FallbackKey = "core.error.invalid_input"

var (
	looseEmailPattern = regexp.MustCompile(`^\S+@\S+$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

// Errors maps a form field name to the localization key of its first
// failing rule.
type Errors map[string]string

// Has reports whether field failed validation.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Messages maps "field.rule" or "field" to a localization key.
type Messages map[string]string

func (m Messages) lookup(field, rule string) string {
	if key, ok := m[field+"."+rule]; ok {
		return key
	}
	if key, ok := m[field]; ok {
		return key
	}
	return FallbackKey
}

// Binder decodes and validates forms.
type Binder struct {
	decoder  *schema.Decoder
	validate *validator.Validate
}

// NewBinder builds a binder that reads `schema` tags for field names and
// registers the storefront-specific rules `loose_email` and `card_expiry`.
func NewBinder() *Binder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = validate.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return looseEmailPattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("card_expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return &Binder{decoder: decoder, validate: validate}
}

// Decode parses r's form body into dst, trimming string fields.
func (b *Binder) Decode(r *http.Request, dst any) error {
	if r == nil {
		return errors.New("forms: nil request")
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", err)
	}
	trimmed := make(map[string][]string, len(r.PostForm))
	for key, values := range r.PostForm {
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = strings.TrimSpace(v)
		}
		trimmed[key] = out
	}
	if err := b.decoder.Decode(dst, trimmed); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

// Validate checks dst against its `validate` tags. A nil result means the
// struct is valid.
func (b *Binder) Validate(dst any, messages Messages) (Errors, error) {
	err := b.validate.Struct(dst)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("validate form: %w", err)
	}
	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if out.Has(field) {
			continue
		}
		out[field] = messages.lookup(field, fe.Tag())
	}
	return out, nil
}

// Bind decodes then validates.
func (b *Binder) Bind(r *http.Request, dst any, messages Messages) (Errors, error) {
	if err := b.Decode(r, dst); err != nil {
		return nil, err
	}
	return b.Validate(dst, messages)
}
