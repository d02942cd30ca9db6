package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type innerConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Mode    string        `mapstructure:"mode" validate:"omitempty,oneof=fast slow"`
}

type outerConfig struct {
	Name    string      `mapstructure:"name" validate:"required"`
	BaseURL string      `mapstructure:"base_url" validate:"required,url"`
	Inner   innerConfig `mapstructure:"inner"`
	Plain   string      `validate:"omitempty,min=3"`
}

func validOuter() outerConfig {
	return outerConfig{Name: "svc", BaseURL: "https://api.example.com"}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validOuter()
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := Validate(&cfg); err != nil {
		t.Errorf("expected no error for pointer, got %v", err)
	}
}

func TestValidate_NilAccepted(t *testing.T) {
	var cfg *outerConfig
	if err := Validate(cfg); err != nil {
		t.Errorf("expected nil pointer to pass, got %v", err)
	}
	if err := Validate(nil); err != nil {
		t.Errorf("expected nil to pass, got %v", err)
	}
}

func TestValidate_FieldNames(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*outerConfig)
		wantField string
		wantTag   string
	}{
		{"missing name", func(c *outerConfig) { c.Name = "" }, "name", "required"},
		{"bad url", func(c *outerConfig) { c.BaseURL = "not a url" }, "base_url", "url"},
		{"nested", func(c *outerConfig) { c.Inner.Mode = "medium" }, "inner.mode", "oneof"},
		{"negative duration", func(c *outerConfig) { c.Inner.Timeout = -time.Second }, "inner.timeout", "gte"},
		{"snake case fallback", func(c *outerConfig) { c.Plain = "ab" }, "plain", "min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validOuter()
			tt.mutate(&cfg)

			err := Validate(cfg)
			ve, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if len(ve.Fields) != 1 {
				t.Fatalf("expected 1 field error, got %+v", ve.Fields)
			}
			if got := ve.Fields[0]; got.Field != tt.wantField || got.Tag != tt.wantTag {
				t.Errorf("got %s/%s, want %s/%s", got.Field, got.Tag, tt.wantField, tt.wantTag)
			}
			if !ve.Has(tt.wantField) {
				t.Errorf("Has(%q) = false", tt.wantField)
			}
		})
	}
}

func TestValidate_MultipleFields(t *testing.T) {
	err := Validate(outerConfig{})
	ve, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if !ve.Has("name") || !ve.Has("base_url") {
		t.Errorf("expected name and base_url in %+v", ve.Fields)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "validation: ") || !strings.Contains(msg, "name: is required") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate(42)
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if _, ok := AsError(err); ok {
		t.Error("non-struct input should not produce field errors")
	}
}

func TestAsError_Wrapped(t *testing.T) {
	inner := &Error{Fields: []FieldError{{Field: "x", Tag: "required", Message: "is required"}}}
	wrapped := errors.Join(errors.New("config"), inner)
	ve, ok := AsError(wrapped)
	if !ok || ve != inner {
		t.Errorf("AsError() = %v, %v", ve, ok)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":      "name",
		"BaseURL":   "base_u_r_l",
		"MaxCalls":  "max_calls",
		"lowercase": "lowercase",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
