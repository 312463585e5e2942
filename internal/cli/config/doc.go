// Package config provides CLI configuration for ipadmin-cli.
//
//   - spec.go: CLIConfig, defaults, validation and `config set` parsing
//   - loader.go: layered loading through confloader, and YAML save
//
// The file lives at ~/.ipadmin/cli.yaml. It never holds credentials.
package config
