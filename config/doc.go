// Package config loads client configuration from files and the environment.
//
// It uses Viper to read a YAML, JSON or TOML file (explicit or discovered in
// standard locations), overlays environment variables and an optional .env
// file, and unmarshals the result using mapstructure tags.
//
// # Usage
//
//	cfg, err := config.Load[apiclient.Config]("github", config.WithEnvPrefix("GITHUB"))
//
// Environment variables map onto nested keys by splitting on underscores,
// so GITHUB_TRANSPORT_TIMEOUT sets transport.timeout.
package config
