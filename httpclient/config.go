package httpclient

import (
	"time"

	"github.com/kbukum/apiclient/validation"
)

// Mode is the deployment mode that selects the base URL.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeTest        Mode = "test"
	ModeDevelopment Mode = "development"
)

const (
	// DefaultTimeout is the per-call timeout applied by the transport.
	DefaultTimeout = 10 * time.Second
	// ContentTypeForm is the content type of every encoded request body.
	ContentTypeForm = "application/x-www-form-urlencoded"
	// DefaultTokenKey is the token store key read by TokenAuth.
	DefaultTokenKey = "token"
	// DefaultOrigin resolves relative base URLs.
	DefaultOrigin = "http://localhost:8080"

	ProductionBaseURL = "http://api.baidu.com"
	TestBaseURL       = "http://192.168.20.12:8080"
	LocalBaseURL      = "/api"
)

// ParseMode maps a free-form environment name onto a Mode. Anything other
// than production or test is development.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeProduction:
		return ModeProduction
	case ModeTest:
		return ModeTest
	default:
		return ModeDevelopment
	}
}

// BaseURLs is the fixed mode to base URL mapping.
type BaseURLs struct {
	Production string `yaml:"production" mapstructure:"production" validate:"required,base_url"`
	Test       string `yaml:"test" mapstructure:"test" validate:"required,base_url"`
	Default    string `yaml:"default" mapstructure:"default" validate:"required,base_url"`
}

// DefaultBaseURLs returns the built-in mapping.
func DefaultBaseURLs() BaseURLs {
	return BaseURLs{
		Production: ProductionBaseURL,
		Test:       TestBaseURL,
		Default:    LocalBaseURL,
	}
}

// Resolve selects exactly one base URL for mode. It never fails: unknown
// modes take the default branch.
func (b BaseURLs) Resolve(mode Mode) string {
	switch mode {
	case ModeProduction:
		return b.Production
	case ModeTest:
		return b.Test
	default:
		return b.Default
	}
}

// ResolveBaseURL selects the base URL for a raw mode string using the
// built-in mapping.
func ResolveBaseURL(mode string) string {
	return DefaultBaseURLs().Resolve(ParseMode(mode))
}

// Config configures the HTTP client. It is copied into the Client on New and
// never mutated afterwards.
type Config struct {
	// Mode selects the base URL from BaseURLs.
	Mode Mode `yaml:"mode" mapstructure:"mode"`

	// BaseURLs is the mode mapping. Zero fields take the built-in values.
	BaseURLs BaseURLs `yaml:"base_urls" mapstructure:"base_urls"`

	// BaseURL, when set, bypasses the mode mapping.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,base_url"`

	// Origin resolves a relative base URL such as "/api".
	Origin string `yaml:"origin" mapstructure:"origin" validate:"required,http_url"`

	// Timeout is the default request timeout. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// WithCredentials keeps a cookie jar so cookies are forwarded on
	// cross-origin calls.
	WithCredentials bool `yaml:"with_credentials" mapstructure:"with_credentials"`

	// ContentType is sent with every request body.
	ContentType string `yaml:"content_type" mapstructure:"content_type" validate:"required"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TokenKey is the token store key read before each call.
	TokenKey string `yaml:"token_key" mapstructure:"token_key" validate:"required"`

	// RequestIDHeader, when set, receives a fresh UUID on calls that lack one.
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header"`

	// RejectOnStatus rejects calls answered with a failure status instead of
	// silently resolving them.
	RejectOnStatus bool `yaml:"reject_on_status" mapstructure:"reject_on_status"`
}

// DefaultConfig returns the standard configuration for mode.
func DefaultConfig(mode Mode) Config {
	cfg := Config{
		Mode:            mode,
		WithCredentials: true,
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-value fields with the standard values.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeDevelopment
	}
	defaults := DefaultBaseURLs()
	if c.BaseURLs.Production == "" {
		c.BaseURLs.Production = defaults.Production
	}
	if c.BaseURLs.Test == "" {
		c.BaseURLs.Test = defaults.Test
	}
	if c.BaseURLs.Default == "" {
		c.BaseURLs.Default = defaults.Default
	}
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ContentType == "" {
		c.ContentType = ContentTypeForm
	}
	if c.TokenKey == "" {
		c.TokenKey = DefaultTokenKey
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// ResolvedBaseURL returns the explicit BaseURL or the one selected by Mode.
func (c *Config) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.BaseURLs.Resolve(ParseMode(string(c.Mode)))
}
