package validation_test

import (
	"testing"

	"github.com/msomdec/taskflow/internal/validation"
)

type sampleRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestCheck_Valid(t *testing.T) {
	v := validation.New()

	errs := v.Check(sampleRequest{
		Name:     "Ann Lee",
		Email:    "ann@example.com",
		Password: "secret1",
	})
	if errs != nil {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestCheck_ReportsAllViolations(t *testing.T) {
	v := validation.New()

	errs := v.Check(sampleRequest{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
	})
	if len(errs) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(errs), errs)
	}
}

func TestCheck_UsesJSONFieldNames(t *testing.T) {
	v := validation.New()

	errs := v.Check(sampleRequest{Name: "Ann", Email: "ann@example.com"})
	if len(errs) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "password" {
		t.Fatalf("expected field name from json tag, got %q", errs[0].Field)
	}
	if errs[0].Message == "" {
		t.Fatal("expected a human-readable message")
	}
}
