package apiclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kbukum/apikit/logger"
)

// ErrMissingCredential is returned by auth modifiers configured with an
// empty credential.
var ErrMissingCredential = errors.New("apiclient: missing credential")

const (
	// DefaultAPIKeyHeader is used by APIKeyHeader when no name is given.
	DefaultAPIKeyHeader = "X-API-Key"
	// DefaultAPIKeyParam is used by APIKeyQuery when no name is given.
	DefaultAPIKeyParam = "api_key"
	// DefaultRequestIDHeader is used by RequestID when no header is given.
	DefaultRequestIDHeader = "X-Request-ID"
)

// BearerAuth sets "Authorization: Bearer <token>".
func BearerAuth(token string) Modifier {
	return ModifierFunc(func(_ context.Context, d *Descriptor) error {
		if token == "" {
			return fmt.Errorf("%w: bearer token", ErrMissingCredential)
		}
		d.SetHeader("Authorization", "Bearer "+token)
		return nil
	})
}

// BearerFunc fetches a bearer token per request, e.g. from a token cache.
func BearerFunc(fn func(ctx context.Context) (string, error)) Modifier {
	return ModifierFunc(func(ctx context.Context, d *Descriptor) error {
		token, err := fn(ctx)
		if err != nil {
			return fmt.Errorf("apiclient: bearer token: %w", err)
		}
		if token == "" {
			return fmt.Errorf("%w: bearer token", ErrMissingCredential)
		}
		d.SetHeader("Authorization", "Bearer "+token)
		return nil
	})
}

// BasicAuth sets HTTP basic credentials. The password may be empty.
func BasicAuth(username, password string) Modifier {
	return ModifierFunc(func(_ context.Context, d *Descriptor) error {
		if username == "" {
			return fmt.Errorf("%w: basic auth username", ErrMissingCredential)
		}
		creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		d.SetHeader("Authorization", "Basic "+creds)
		return nil
	})
}

// APIKeyHeader sends key in the named header (X-API-Key when name is empty).
func APIKeyHeader(name, key string) Modifier {
	if name == "" {
		name = DefaultAPIKeyHeader
	}
	return ModifierFunc(func(_ context.Context, d *Descriptor) error {
		if key == "" {
			return fmt.Errorf("%w: api key", ErrMissingCredential)
		}
		d.SetHeader(name, key)
		return nil
	})
}

// APIKeyQuery sends key as the named query parameter (api_key when name is empty).
func APIKeyQuery(name, key string) Modifier {
	if name == "" {
		name = DefaultAPIKeyParam
	}
	return ModifierFunc(func(_ context.Context, d *Descriptor) error {
		if key == "" {
			return fmt.Errorf("%w: api key", ErrMissingCredential)
		}
		d.SetParam(name, key)
		return nil
	})
}

// StaticHeaders sets fixed headers, overriding any previous value.
func StaticHeaders(headers map[string]string) Modifier {
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}
	return ModifierFunc(func(_ context.Context, d *Descriptor) error {
		for k, v := range copied {
			d.SetHeader(k, v)
		}
		return nil
	})
}

// RequestID sets a request ID header unless one is already present. The ID
// comes from logger.ContextWithRequestID when available, else a new UUID.
func RequestID(header string) Modifier {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	return ModifierFunc(func(ctx context.Context, d *Descriptor) error {
		if d.Header(header) != "" {
			return nil
		}
		id, ok := logger.RequestIDFromContext(ctx)
		if !ok {
			id = uuid.NewString()
		}
		d.SetHeader(header, id)
		return nil
	})
}
