package httpclient

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/security"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	rl := resilience.RateLimiterConfig{Rate: 4}
	cfg := Config{Name: "api", RateLimiter: &rl}
	cfg.ApplyDefaults()

	if cfg.Timeout != defaultTimeout {
		t.Errorf("got timeout %v, want %v", cfg.Timeout, defaultTimeout)
	}
	if cfg.MaxIdleConns != defaultMaxIdleConns {
		t.Errorf("got max idle conns %d", cfg.MaxIdleConns)
	}
	if cfg.RateLimiter.Name != "api" || cfg.RateLimiter.Burst != 4 {
		t.Errorf("rate limiter defaults not applied: %+v", cfg.RateLimiter)
	}
	if rl.Name != "" || rl.Burst != 0 {
		t.Error("caller's rate limiter config should not be modified")
	}
}

func TestConfig_ApplyDefaultsName(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Name != "http" {
		t.Errorf("got name %q, want http", cfg.Name)
	}
}

func TestConfig_DefaultsKeepNegatives(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"timeout", Config{Timeout: -time.Second}, "timeout"},
		{"idle conns", Config{MaxIdleConns: -1}, "max_idle_conns"},
		{"idle conn timeout", Config{IdleConnTimeout: -time.Second}, "idle_conn_timeout"},
		{"breaker failures", Config{CircuitBreaker: &resilience.CircuitBreakerConfig{MaxFailures: -1}}, "max_failures"},
		{"limiter rate", Config{RateLimiter: &resilience.RateLimiterConfig{Rate: -1}}, "rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Timeout: time.Second}, ""},
		{"negative timeout", Config{Timeout: -time.Second}, "timeout"},
		{"negative idle conns", Config{MaxIdleConns: -1}, "max_idle_conns"},
		{"bad tls version", Config{TLS: &security.TLSConfig{MinVersion: "1.0"}}, "min_version"},
		{"cert without key", Config{TLS: &security.TLSConfig{CertFile: "c.pem"}}, "cert_file"},
		{"negative breaker failures", Config{CircuitBreaker: &resilience.CircuitBreakerConfig{MaxFailures: -1}}, "max_failures"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) || !strings.HasPrefix(err.Error(), "httpclient: ") {
				t.Errorf("got %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Timeout: -time.Second}); err == nil {
		t.Fatal("expected error for invalid config")
	}
	if _, err := New(Config{TLS: &security.TLSConfig{CAFile: "/does/not/exist.pem"}}); err == nil {
		t.Fatal("expected error for missing CA file")
	}
}
