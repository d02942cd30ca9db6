// Package validation checks configuration structs against their
// `validate` struct tags.
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
//
// Failures are reported as *Error, which lists every offending field by its
// mapstructure (or json) name.
package validation
