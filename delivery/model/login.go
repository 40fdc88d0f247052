package model

import (
	"html/template"

	"waterwise-login/login"
)

// LoginPage is the data the login template renders. The password is never
// echoed back into the page.
type LoginPage struct {
	Email             string
	Pending           bool
	ErrorMessage      string
	SignupLink        string
	RedirectTarget    string
	MinPasswordLength int
	FieldErrors       map[string]string
	CSRFField         template.HTML
}

// NewLoginPage projects a controller view into page data.
func NewLoginPage(v login.View) LoginPage {
	return LoginPage{
		Email:             v.Email,
		Pending:           v.Pending,
		ErrorMessage:      v.ErrorMessage,
		SignupLink:        v.SignupLink,
		RedirectTarget:    v.RedirectTarget,
		MinPasswordLength: login.MinPasswordLength,
	}
}
