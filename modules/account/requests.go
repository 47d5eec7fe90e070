package account

import (
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/sanitizer"
	"github.com/dmitrymomot/tmplstore/pkg/validator"
)

// minPasswordLength is the registration password policy. The auth service
// itself accepts any non-empty password.
const minPasswordLength = 6

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r *credentialsRequest) normalize() {
	r.Email = sanitizer.NormalizeEmail(r.Email)
	r.Name = sanitizer.DisplayName(r.Name)
}

func requiredCredentials(email, password string) validator.Rule {
	return validator.Rule{
		Check: func() bool { return email != "" && password != "" },
		Error: validator.ValidationError{Field: "email", Message: auth.ErrInvalidInput.Message},
	}
}

func (r credentialsRequest) validateRegister() error {
	if err := validator.Apply(requiredCredentials(r.Email, r.Password)); err != nil {
		return err
	}
	return validator.Apply(
		validator.Rule{
			Check: func() bool { return len(r.Password) >= minPasswordLength },
			Error: validator.ValidationError{Field: "password", Message: "Password must be at least 6 characters long"},
		},
		validator.ValidEmail("email", r.Email),
	)
}

func (r credentialsRequest) validateLogin() error {
	return validator.Apply(requiredCredentials(r.Email, r.Password))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

func (r refreshRequest) validate() error {
	return validator.Apply(validator.Rule{
		Check: func() bool { return r.RefreshToken != "" },
		Error: validator.ValidationError{Field: "refreshToken", Message: "Refresh token is required"},
	})
}

type callbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

type profileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
