// Package config loads and validates nexa.json, the project
// configuration consumed by the CLI and the dev server.
package config
