package apiclient

import "fmt"

// Auth types accepted by AuthConfig.
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthBasic  = "basic"
	AuthAPIKey = "api_key"
	AuthJWT    = "jwt"
)

// AuthConfig selects one of the built-in auth modifiers from configuration.
type AuthConfig struct {
	Type string `yaml:"type" mapstructure:"type" validate:"omitempty,oneof=none bearer basic api_key jwt"`

	// Token is the bearer token.
	Token string `yaml:"token" mapstructure:"token"`

	// Username and Password are the basic auth credentials.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// Key is the API key, sent in the header or query parameter Name.
	Key  string `yaml:"key" mapstructure:"key"`
	Name string `yaml:"name" mapstructure:"name"`
	In   string `yaml:"in" mapstructure:"in" validate:"omitempty,oneof=header query"`

	JWT *JWTConfig `yaml:"jwt" mapstructure:"jwt"`
}

// Modifier builds the configured auth modifier. A nil config or type
// "none" yields a nil modifier.
func (a *AuthConfig) Modifier() (Modifier, error) {
	if a == nil {
		return nil, nil
	}
	switch a.Type {
	case "", AuthNone:
		return nil, nil
	case AuthBearer:
		return BearerAuth(a.Token), nil
	case AuthBasic:
		return BasicAuth(a.Username, a.Password), nil
	case AuthAPIKey:
		if a.In == "query" {
			return APIKeyQuery(a.Name, a.Key), nil
		}
		return APIKeyHeader(a.Name, a.Key), nil
	case AuthJWT:
		if a.JWT == nil {
			return nil, fmt.Errorf("apiclient: auth type jwt requires a jwt section")
		}
		return JWTAuth(*a.JWT), nil
	default:
		return nil, fmt.Errorf("apiclient: unknown auth type %q", a.Type)
	}
}
