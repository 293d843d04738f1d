// Package version reports the build of the apiclient binary.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/apiclient/version.Version=1.0.0" ./cmd/apiclient
//
// When they are not set, VCS data embedded by the Go toolchain is used.
package version
