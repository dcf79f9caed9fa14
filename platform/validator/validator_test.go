package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type contactForm struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Level string `json:"level" validate:"required,level"`
}

func TestFieldErrorsUsesJSONNames(t *testing.T) {
	val := New()
	if err := val.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "Parcial"
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := val.Struct(contactForm{Name: "", Email: "not-an-email", Level: "Total"})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	fields := FieldErrors(err)
	if fields["name"] != "required" {
		t.Fatalf("expected name=required, got %v", fields)
	}
	if fields["email"] != "email" {
		t.Fatalf("expected email=email, got %v", fields)
	}
	if fields["level"] != "level" {
		t.Fatalf("expected level=level, got %v", fields)
	}
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	if FieldErrors(nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
