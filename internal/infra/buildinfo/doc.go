// Package buildinfo exposes the version of ipadmin-cli, injected via
// ldflags, along with the Go runtime and platform it was built for.
package buildinfo
