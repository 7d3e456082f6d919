// Package validation holds the advisory checks run on form input before
// anything is sent to the server. The server remains the authority.
package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/models"
)

var simpleEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Deliberately looser than the built-in "email" rule
	_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
		return simpleEmail.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("habittag", func(fl validator.FieldLevel) bool {
		return models.Tag(fl.Field().String()).Valid()
	})
	return v
}

// Error is a failed check. Field names the offending input, Message is shown
// to the user as is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type rule struct {
	field   string
	value   any
	tag     string
	message string
}

// ValidateRegister runs the registration checks in order and reports the
// first failure: matching passwords, all fields present, password length,
// email shape, then username charset and length.
func ValidateRegister(f RegisterForm) error {
	if err := validate.VarWithValue(f.ConfirmPassword, f.Password, "eqfield"); err != nil {
		return &Error{Field: "confirm_password", Message: constants.MsgPasswordsMismatch}
	}

	rules := []rule{
		{"username", f.Username, "required", constants.MsgAllFieldsRequired},
		{"email", f.Email, "required", constants.MsgAllFieldsRequired},
		{"password", f.Password, "required", constants.MsgAllFieldsRequired},
		{"confirm_password", f.ConfirmPassword, "required", constants.MsgAllFieldsRequired},
		{"password", f.Password, "min=6", constants.MsgPasswordTooShort},
		{"email", f.Email, "simpleemail", constants.MsgInvalidEmail},
		{"username", f.Username, "alphanum", constants.MsgUsernameAlphanum},
		{"username", f.Username, "min=3,max=20", constants.MsgUsernameLength},
	}
	return check(rules)
}

// ValidateLogin only requires both fields.
func ValidateLogin(username, password string) error {
	return check([]rule{
		{"username", username, "required", constants.MsgAllFieldsRequired},
		{"password", password, "required", constants.MsgAllFieldsRequired},
	})
}

// ValidateDraft gates the create-habit form: a non-blank name and one of the
// known tags.
func ValidateDraft(d models.HabitDraft) error {
	return check([]rule{
		{"name", strings.TrimSpace(d.Name), "required", constants.MsgHabitRequired},
		{"tag", string(d.Tag), "required,habittag", constants.MsgHabitRequired},
	})
}

func check(rules []rule) error {
	for _, r := range rules {
		if err := validate.Var(r.value, r.tag); err != nil {
			return &Error{Field: r.field, Message: r.message}
		}
	}
	return nil
}
