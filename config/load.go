package config

import "fmt"

// Defaulter is implemented by config structs that fill in unset fields.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by config structs that check themselves.
type Validator interface {
	Validate() error
}

// Load reads configuration for serviceName into a new T, then applies
// defaults and validates when *T implements Defaulter or Validator.
func Load[T any](serviceName string, opts ...LoaderOption) (*T, error) {
	cfg := new(T)
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if d, ok := any(cfg).(Defaulter); ok {
		d.ApplyDefaults()
	}
	if v, ok := any(cfg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: %w", serviceName, err)
		}
	}
	return cfg, nil
}
