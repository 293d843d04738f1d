// Package validation validates configuration structs using struct tags
// (go-playground/validator). Field names in error messages follow the
// mapstructure keys so they match what users write in config.yml.
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,base_url"`
//	}
//	err := validation.Validate(cfg)
//
// Besides the built-in tags, the "base_url" tag accepts an absolute http(s)
// URL or a path starting with "/".
package validation
