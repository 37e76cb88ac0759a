// Package zetaconfig loads the YAML configuration consumed by
// cmd/zeta-stream.
package zetaconfig

import (
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/VictorVanWeyenberg/zeta/internal/lmfdb"
)

// defaultHTTPTimeout is used when HTTPTimeout is unset.
const defaultHTTPTimeout = 30 * time.Second

// indexDBEnv is the environment variable zeta.DefaultConfig() itself
// honors; IndexDB falls back to it so the CLI respects ZETA_DB even when
// index-db-path is left unset in the YAML config.
const indexDBEnv = "ZETA_DB"

// Config is the CLI's on-disk configuration.
type Config struct {
	BaseURL     string `yaml:"base-url"`      // default https://beta.lmfdb.org
	IndexDBPath string `yaml:"index-db-path"` // overrides ZETA_DB
	MetricsAddr string `yaml:"metrics-addr"`  // default empty: disabled
	HTTPTimeout string `yaml:"http-timeout"`  // parsed with time.ParseDuration, default 30s
}

// FromFile reads and strictly parses the YAML config at path.
func FromFile(path string) (*Config, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed := &Config{}
	if err := yaml.UnmarshalStrict(raw, parsed); err != nil {
		return nil, fmt.Errorf("zetaconfig: %w", err)
	}
	return parsed, nil
}

// Timeout parses HTTPTimeout, falling back to defaultHTTPTimeout when unset.
func (c *Config) Timeout() (time.Duration, error) {
	if c.HTTPTimeout == "" {
		return defaultHTTPTimeout, nil
	}
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 0, fmt.Errorf("zetaconfig: bad http-timeout %q: %w", c.HTTPTimeout, err)
	}
	return d, nil
}

// Base returns BaseURL, defaulting to the public LMFDB archive.
func (c *Config) Base() string {
	if c.BaseURL == "" {
		return lmfdb.DefaultBase
	}
	return c.BaseURL
}

// IndexDB returns IndexDBPath, falling back to the ZETA_DB environment
// variable when unset, matching zeta.DefaultConfig()'s own precedence.
func (c *Config) IndexDB() string {
	if c.IndexDBPath == "" {
		return os.Getenv(indexDBEnv)
	}
	return c.IndexDBPath
}
