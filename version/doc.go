// Package version reports the build version of apikit binaries and the
// User-Agent sent by API clients.
//
// Values are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/apikit/version.Version=1.2.0"
//
// Unset values are filled from the module build info when available.
package version
