package auth

import "github.com/louisbranch/storefront/internal/services/storefront/platform/forms"

type loginForm struct {
	Email    string `schema:"email" validate:"required,loose_email"`
	Password string `schema:"password" validate:"required,min=6"`
	Next     string `schema:"next"`
}

var loginMessages = forms.Messages{
	"email.required":    "auth.error.email_required",
	"email.loose_email": "auth.error.email_invalid",
	"password.required": "auth.error.password_required",
	"password.min":      "auth.error.password_min",
}

type registerForm struct {
	Name            string `schema:"name" validate:"required,min=2"`
	Email           string `schema:"email" validate:"required,loose_email"`
	Password        string `schema:"password" validate:"required,min=6"`
	ConfirmPassword string `schema:"confirm_password" validate:"required,eqfield=Password"`
}

var registerMessages = forms.Messages{
	"name.required":             "auth.error.name_required",
	"name.min":                  "auth.error.name_min",
	"email.required":            "auth.error.email_required",
	"email.loose_email":         "auth.error.email_invalid",
	"password.required":         "auth.error.password_required",
	"password.min":              "auth.error.password_min",
	"confirm_password.required": "auth.error.confirm_required",
	"confirm_password.eqfield":  "auth.error.passwords_mismatch",
}
