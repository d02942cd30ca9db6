package apiclient

import (
	"context"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod is an HMAC JWT algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

const defaultJWTTTL = 5 * time.Minute

// JWTConfig configures JWTAuth. A fresh token is signed for every request.
type JWTConfig struct {
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Method   SigningMethod `yaml:"method" mapstructure:"method" validate:"omitempty,oneof=HS256 HS384 HS512"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Subject  string        `yaml:"subject" mapstructure:"subject"`
	Audience []string      `yaml:"audience" mapstructure:"audience"`
	// TTL is the token lifetime. Defaults to 5m.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gte=0"`
	// Claims are added to the registered claims. Registered names win.
	Claims map[string]any `yaml:"claims" mapstructure:"claims"`
	// Header defaults to Authorization, which gets a "Bearer " prefix.
	Header string `yaml:"header" mapstructure:"header"`
}

// ApplyDefaults fills in zero-value fields.
func (c *JWTConfig) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = defaultJWTTTL
	}
	if c.Header == "" {
		c.Header = "Authorization"
	}
}

func (c *JWTConfig) signingMethod() (gojwt.SigningMethod, error) {
	switch c.Method {
	case HS256:
		return gojwt.SigningMethodHS256, nil
	case HS384:
		return gojwt.SigningMethodHS384, nil
	case HS512:
		return gojwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("apiclient: unsupported jwt signing method %q", c.Method)
	}
}

// JWTAuth signs a short-lived HMAC token per request.
func JWTAuth(cfg JWTConfig) Modifier {
	cfg.ApplyDefaults()
	return ModifierFunc(func(_ context.Context, d *Descriptor) error {
		if cfg.Secret == "" {
			return fmt.Errorf("%w: jwt secret", ErrMissingCredential)
		}
		method, err := cfg.signingMethod()
		if err != nil {
			return err
		}
		token, err := signJWT(cfg, method, time.Now())
		if err != nil {
			return err
		}
		if isAuthorizationHeader(cfg.Header) {
			token = "Bearer " + token
		}
		d.SetHeader(cfg.Header, token)
		return nil
	})
}

func signJWT(cfg JWTConfig, method gojwt.SigningMethod, now time.Time) (string, error) {
	claims := gojwt.MapClaims{}
	for k, v := range cfg.Claims {
		claims[k] = v
	}
	claims["iat"] = gojwt.NewNumericDate(now)
	claims["nbf"] = gojwt.NewNumericDate(now)
	claims["exp"] = gojwt.NewNumericDate(now.Add(cfg.TTL))
	claims["jti"] = uuid.NewString()
	if cfg.Issuer != "" {
		claims["iss"] = cfg.Issuer
	}
	if cfg.Subject != "" {
		claims["sub"] = cfg.Subject
	}
	if len(cfg.Audience) > 0 {
		claims["aud"] = cfg.Audience
	}

	signed, err := gojwt.NewWithClaims(method, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("apiclient: sign jwt: %w", err)
	}
	return signed, nil
}
