package validation

import (
	"errors"
	"testing"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/models"
)

func TestValidateRegister(t *testing.T) {
	valid := RegisterForm{Username: "ada1815", Email: "ada@example.com", Password: "secret", ConfirmPassword: "secret"}

	tests := []struct {
		name    string
		mutate  func(f *RegisterForm)
		wantMsg string
	}{
		{"valid", func(f *RegisterForm) {}, ""},
		{"passwords differ", func(f *RegisterForm) { f.ConfirmPassword = "secreT" }, constants.MsgPasswordsMismatch},
		{"mismatch checked before required", func(f *RegisterForm) { f.Username = ""; f.ConfirmPassword = "x" }, constants.MsgPasswordsMismatch},
		{"missing username", func(f *RegisterForm) { f.Username = "" }, constants.MsgAllFieldsRequired},
		{"missing email", func(f *RegisterForm) { f.Email = "" }, constants.MsgAllFieldsRequired},
		{"missing both passwords", func(f *RegisterForm) { f.Password = ""; f.ConfirmPassword = "" }, constants.MsgAllFieldsRequired},
		{"short password", func(f *RegisterForm) { f.Password = "abc12"; f.ConfirmPassword = "abc12" }, constants.MsgPasswordTooShort},
		{"email without at", func(f *RegisterForm) { f.Email = "ada.example.com" }, constants.MsgInvalidEmail},
		{"email without dot", func(f *RegisterForm) { f.Email = "ada@example" }, constants.MsgInvalidEmail},
		{"loose email accepted", func(f *RegisterForm) { f.Email = "a@b.c" }, ""},
		{"short password before bad email", func(f *RegisterForm) { f.Password = "x"; f.ConfirmPassword = "x"; f.Email = "bad" }, constants.MsgPasswordTooShort},
		{"username with symbol", func(f *RegisterForm) { f.Username = "ada_l" }, constants.MsgUsernameAlphanum},
		{"username with space", func(f *RegisterForm) { f.Username = "ada l" }, constants.MsgUsernameAlphanum},
		{"username too short", func(f *RegisterForm) { f.Username = "ad" }, constants.MsgUsernameLength},
		{"username too long", func(f *RegisterForm) { f.Username = "abcdefghijklmnopqrstu" }, constants.MsgUsernameLength},
		{"username at max", func(f *RegisterForm) { f.Username = "abcdefghijklmnopqrst" }, ""},
		{"username at min", func(f *RegisterForm) { f.Username = "abc" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := ValidateRegister(f)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("ValidateRegister() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateRegister() = nil, want %q", tt.wantMsg)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("ValidateRegister() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateRegisterReportsField(t *testing.T) {
	err := ValidateRegister(RegisterForm{Username: "ok1", Email: "nope", Password: "secret", ConfirmPassword: "secret"})
	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if vErr.Field != "email" {
		t.Errorf("Field = %q, want email", vErr.Field)
	}
}

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("ada", "pw"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateLogin("", "pw"); err == nil {
		t.Error("expected error for empty username")
	}
	if err := ValidateLogin("ada", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name  string
		draft models.HabitDraft
		ok    bool
	}{
		{"complete", models.HabitDraft{Name: "Read", Tag: models.TagLearning}, true},
		{"description optional", models.HabitDraft{Name: "Read", Tag: models.TagLearning, Description: ""}, true},
		{"empty name", models.HabitDraft{Name: "", Tag: models.TagLearning}, false},
		{"blank name", models.HabitDraft{Name: "   ", Tag: models.TagLearning}, false},
		{"no tag", models.HabitDraft{Name: "Read"}, false},
		{"filter pseudo tag", models.HabitDraft{Name: "Read", Tag: models.TagAll}, false},
		{"unknown tag", models.HabitDraft{Name: "Read", Tag: "Chores"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			if tt.ok && err != nil {
				t.Errorf("ValidateDraft() = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("ValidateDraft() = nil, want error")
				}
				if err.Error() != constants.MsgHabitRequired {
					t.Errorf("ValidateDraft() = %q, want %q", err.Error(), constants.MsgHabitRequired)
				}
			}
		})
	}
}
