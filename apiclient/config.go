package apiclient

import (
	"fmt"

	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/params"
	"github.com/kbukum/apikit/validation"
)

// Config describes an API client.
//
//	name: github
//	base_url: https://api.github.com
//	headers:
//	  Accept: application/vnd.github+json
//	auth:
//	  type: bearer
//	  token: ghp_example
//	transport:
//	  timeout: 10s
type Config struct {
	Name    string            `yaml:"name" mapstructure:"name"`
	BaseURL string            `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	Params  params.Set        `yaml:"params" mapstructure:"params"`

	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`

	// StrictDecoding rejects response bodies with fields the target type
	// does not declare.
	StrictDecoding bool `yaml:"strict_decoding" mapstructure:"strict_decoding"`

	// RequestIDHeader enables the RequestID modifier on this header when set.
	RequestIDHeader string `yaml:"request_id_header" mapstructure:"request_id_header"`

	Transport httpclient.Config `yaml:"transport" mapstructure:"transport"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "api"
	}
	if c.Transport.Name == "" {
		c.Transport.Name = c.Name
	}
	c.Transport.ApplyDefaults()
	if c.Auth != nil && c.Auth.JWT != nil {
		jwt := *c.Auth.JWT
		jwt.ApplyDefaults()
		auth := *c.Auth
		auth.JWT = &jwt
		c.Auth = &auth
	}
}

// Validate checks the configuration, including the transport section.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("apiclient: %s: %w", c.Name, err)
	}
	if c.Transport.TLS != nil {
		if err := c.Transport.TLS.Validate(); err != nil {
			return fmt.Errorf("apiclient: %s: %w", c.Name, err)
		}
	}
	return nil
}
