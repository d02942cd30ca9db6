package cli

import (
	"fmt"
	"sort"

	"github.com/kbukum/apikit/apiclient"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/observability"
)

// Config is the apikit command configuration.
//
//	logging:
//	  level: info
//	clients:
//	  github:
//	    base_url: https://api.github.com
//	    auth:
//	      type: bearer
//	      # token from APIKIT_CLIENTS_GITHUB_AUTH_TOKEN
type Config struct {
	Logging       logger.Config               `yaml:"logging" mapstructure:"logging"`
	Observability *observability.Config       `yaml:"observability" mapstructure:"observability"`
	Clients       map[string]apiclient.Config `yaml:"clients" mapstructure:"clients"`
}

// ApplyDefaults fills in zero-value fields. Logs go to stderr so command
// output stays parseable.
func (c *Config) ApplyDefaults() {
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	c.Logging.ApplyDefaults()

	for name, client := range c.Clients {
		if client.Name == "" {
			client.Name = name
		}
		client.ApplyDefaults()
		c.Clients[name] = client
	}
	if c.Observability != nil {
		c.Observability.ApplyDefaults()
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	for _, name := range c.ClientNames() {
		client := c.Clients[name]
		if err := client.Validate(); err != nil {
			return err
		}
	}
	if c.Observability != nil {
		return c.Observability.Validate()
	}
	return nil
}

// ClientNames returns the configured client names in order.
func (c *Config) ClientNames() []string {
	names := make([]string, 0, len(c.Clients))
	for name := range c.Clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Client returns the named client configuration. An empty name selects the
// only configured client.
func (c *Config) Client(name string) (apiclient.Config, error) {
	if name == "" {
		if len(c.Clients) != 1 {
			return apiclient.Config{}, fmt.Errorf("cli: %d clients configured, select one with --client", len(c.Clients))
		}
		name = c.ClientNames()[0]
	}
	client, ok := c.Clients[name]
	if !ok {
		return apiclient.Config{}, fmt.Errorf("cli: unknown client %q", name)
	}
	return client, nil
}
