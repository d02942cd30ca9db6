// Package security builds the TLS client configuration used by the
// httpclient transport.
//
//	cfg := security.TLSConfig{
//	    CAFile:     "/etc/ssl/internal-ca.pem",
//	    CertFile:   "/etc/ssl/client.pem",
//	    KeyFile:    "/etc/ssl/client-key.pem",
//	    MinVersion: "1.3",
//	}
//
//	tlsConfig, err := cfg.Build()
package security
