package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/krishpranav/nexa/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "nexa.json"

	// DefaultPort is the default development server port.
	DefaultPort = 3000

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"
)

// Config represents the complete nexa.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains production build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Deploy contains deployment target configuration.
	Deploy DeployConfig `json:"deploy,omitempty"`
}

// DevConfig configures the development server.
type DevConfig struct {
	// Port is the dev server port.
	Port int `json:"port,omitempty"`

	// Host is the dev server bind host.
	Host string `json:"host,omitempty"`

	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string `json:"metricsPath,omitempty"`
}

// BuildConfig configures production builds.
type BuildConfig struct {
	// Output is the build output directory.
	Output string `json:"output,omitempty"`

	// Minify is read from and saved to nexa.json; no command acts on it.
	Minify bool `json:"minify,omitempty"`
}

// DeployConfig configures `nexa deploy`.
type DeployConfig struct {
	// Bucket is the S3 bucket receiving the build output.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	return &Config{
		Dev: DevConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Build: BuildConfig{
			Output: DefaultOutput,
		},
	}
}

// Load reads nexa.json from dir. A missing file yields the defaults; a
// malformed file is an E200 error.
func Load(dir string) (*Config, error) {
	cfg := Default()
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.New("E200").Wrap(err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E200").Wrap(err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to dir, indented.
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ConfigFileName), append(data, '\n'), 0o644)
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E201").WithDetailf("dev.port %d out of range", c.Dev.Port)
	}
	return nil
}

// Addr returns the dev server listen address.
func (c *Config) Addr() string {
	host := c.Dev.Host
	if host == "" {
		host = DefaultHost
	}
	port := c.Dev.Port
	if port == 0 {
		port = DefaultPort
	}
	return host + ":" + strconv.Itoa(port)
}

func (c *Config) applyDefaults() {
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
}

