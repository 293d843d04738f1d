package cli

import (
	"fmt"
	"net/http"

	"github.com/kbukum/apiclient/config"
	"github.com/kbukum/apiclient/connectivity"
	"github.com/kbukum/apiclient/devserver"
	"github.com/kbukum/apiclient/httpclient"
	"github.com/kbukum/apiclient/observability"
	"github.com/kbukum/apiclient/tokenstore"
	"github.com/kbukum/apiclient/version"
)

// ServiceName names the binary, its config directory and its .env file.
const ServiceName = "apiclient"

// AppConfig is the full configuration of the apiclient binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP          httpclient.Config    `yaml:"http" mapstructure:"http"`
	TokenStore    tokenstore.Config    `yaml:"token_store" mapstructure:"token_store"`
	Connectivity  connectivity.Config  `yaml:"connectivity" mapstructure:"connectivity"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	DevServer     devserver.Config     `yaml:"devserver" mapstructure:"devserver"`
}

// ApplyDefaults fills every section. The HTTP mode follows the deployment
// environment unless set explicitly.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()

	if c.HTTP.Mode == "" {
		c.HTTP.Mode = httpclient.ParseMode(c.Environment)
	}
	// viper lowercases map keys, so header names are canonicalized here.
	headers := make(map[string]string, len(c.HTTP.Headers)+1)
	for k, v := range c.HTTP.Headers {
		headers[http.CanonicalHeaderKey(k)] = v
	}
	if _, ok := headers["User-Agent"]; !ok {
		headers["User-Agent"] = version.UserAgent()
	}
	c.HTTP.Headers = headers
	c.HTTP.ApplyDefaults()
	c.TokenStore.ApplyDefaults()
	c.Connectivity.ApplyDefaults()
	c.Observability.ApplyDefaults(c.Name, c.Version, c.Environment)
	c.DevServer.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	if err := c.TokenStore.Validate(); err != nil {
		return fmt.Errorf("config.token_store: %w", err)
	}
	if err := c.Connectivity.Validate(); err != nil {
		return fmt.Errorf("config.connectivity: %w", err)
	}
	if err := c.DevServer.Validate(); err != nil {
		return fmt.Errorf("config.devserver: %w", err)
	}
	return nil
}

// LoadAppConfig reads config.yml, .env and APICLIENT_* variables. Empty
// paths use the standard search locations.
func LoadAppConfig(configFile, envFile string) (*AppConfig, error) {
	var cfg AppConfig
	opts := []config.LoaderOption{config.WithDefault("name", ServiceName)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if err := config.LoadConfig(ServiceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
