package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/apiclient/errors"
)

type sample struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,base_url"`
	Driver  string        `mapstructure:"driver" validate:"oneof=memory file redis"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Nested  nested        `mapstructure:"nested"`
}

type nested struct {
	Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
}

func TestValidate_Valid(t *testing.T) {
	cases := []string{"/api", "http://api.example.com", "https://10.0.0.1:8443/v1"}
	for _, base := range cases {
		s := sample{BaseURL: base, Driver: "file", Timeout: time.Second}
		if err := Validate(s); err != nil {
			t.Errorf("base %q: unexpected error: %v", base, err)
		}
	}
}

func TestValidate_InvalidBaseURL(t *testing.T) {
	s := sample{BaseURL: "api.example.com", Driver: "file", Timeout: time.Second}
	err := Validate(s)
	if err == nil {
		t.Fatal("expected error for scheme-less base URL")
	}
	if !strings.Contains(err.Error(), "base_url") {
		t.Errorf("expected field name base_url in %q", err.Error())
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestValidate_CollectsAllFields(t *testing.T) {
	s := sample{Driver: "disk", Nested: nested{Addr: "no-port"}}
	err := Validate(s)
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields, _ := appErr.Details["fields"].([]FieldError)
	if len(fields) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(fields), fields)
	}
	if !strings.Contains(err.Error(), "nested.addr") {
		t.Errorf("expected nested field path, got %q", err.Error())
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("WithCredentials"); got != "with_credentials" {
		t.Errorf("got %q", got)
	}
}

func TestMustRegister_PanicsOnRejectedTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for an empty tag")
		}
	}()
	mustRegister(validator.New(), "", isBaseURL)
}

func TestMustRegister(t *testing.T) {
	v := validator.New()
	mustRegister(v, "base_url", isBaseURL)
	if err := v.Var("/api", "base_url"); err != nil {
		t.Errorf("expected registered tag to validate, got %v", err)
	}
}
