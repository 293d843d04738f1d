package httpclient

import (
	"testing"
	"time"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"production", ProductionBaseURL},
		{"test", TestBaseURL},
		{"development", "/api"},
		{"", "/api"},
		{"staging", "/api"},
		{"Production", "/api"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := ResolveBaseURL(tt.mode); got != tt.want {
				t.Errorf("ResolveBaseURL(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestBaseURLs_Resolve_Overrides(t *testing.T) {
	urls := BaseURLs{Production: "https://prod.example", Test: "https://qa.example", Default: "/v2"}
	if got := urls.Resolve(ModeProduction); got != "https://prod.example" {
		t.Errorf("production = %q", got)
	}
	if got := urls.Resolve(Mode("anything")); got != "/v2" {
		t.Errorf("default = %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(ModeTest)
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected 10s timeout, got %v", cfg.Timeout)
	}
	if !cfg.WithCredentials {
		t.Error("expected WithCredentials=true")
	}
	if cfg.ContentType != ContentTypeForm {
		t.Errorf("expected form content type, got %q", cfg.ContentType)
	}
	if cfg.TokenKey != "token" {
		t.Errorf("expected token key 'token', got %q", cfg.TokenKey)
	}
	if got := cfg.ResolvedBaseURL(); got != TestBaseURL {
		t.Errorf("expected %q, got %q", TestBaseURL, got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_ExplicitBaseURLWins(t *testing.T) {
	cfg := Config{Mode: ModeProduction, BaseURL: "http://localhost:9999"}
	cfg.ApplyDefaults()
	if got := cfg.ResolvedBaseURL(); got != "http://localhost:9999" {
		t.Errorf("expected explicit base URL, got %q", got)
	}
}

func TestConfig_Validate_Rejects(t *testing.T) {
	cfg := Config{BaseURL: "not a url"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad base URL")
	}

	cfg = Config{Origin: "localhost"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for origin without scheme")
	}
}
