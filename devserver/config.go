package devserver

import "fmt"

// Config holds dev server configuration.
type Config struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
	// SessionCookie is the name of the cookie set by /api/login.
	SessionCookie string `yaml:"session_cookie" mapstructure:"session_cookie"`
	// TokenSecret signs session tokens. A random key is used when empty.
	TokenSecret string `yaml:"token_secret" mapstructure:"token_secret"`
	TokenTTL    int    `yaml:"token_ttl" mapstructure:"token_ttl"` // seconds
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.SessionCookie == "" {
		c.SessionCookie = "session"
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 3600
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("devserver.port must be between 0 and 65535 (got: %d)", c.Port)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("devserver.read_timeout must be non-negative (got: %d)", c.ReadTimeout)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("devserver.write_timeout must be non-negative (got: %d)", c.WriteTimeout)
	}
	if c.IdleTimeout < 0 {
		return fmt.Errorf("devserver.idle_timeout must be non-negative (got: %d)", c.IdleTimeout)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("devserver.token_ttl must be non-negative (got: %d)", c.TokenTTL)
	}
	return nil
}
