// Package config loads the optional .prosescan.yaml file and the
// environment secrets that go with it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/pthm/prosescan/internal/rules"
)

// FileName is the config file looked up from the working directory.
const FileName = ".prosescan.yaml"

// Config is the top-level configuration. Command-line flags override it.
type Config struct {
	Rules      string       `yaml:"rules"`
	Categories []string     `yaml:"categories" validate:"dive,oneof=Content Language Style Communication"`
	Disable    []string     `yaml:"disable"`
	Format     string       `yaml:"format" validate:"omitempty,oneof=terminal json"`
	FailOn     int          `yaml:"fail_on" validate:"gte=0"`
	Workers    int          `yaml:"workers" validate:"gte=0"`
	Sentences  bool         `yaml:"sentences"`
	Review     ReviewConfig `yaml:"review"`
	Jira       JiraConfig   `yaml:"jira"`
}

// ReviewConfig configures the optional model review.
type ReviewConfig struct {
	Model string `yaml:"model"`
}

// JiraConfig holds the Jira site and account. The token is never read
// from the file.
type JiraConfig struct {
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`
	Email   string `yaml:"email" validate:"omitempty,email"`
	Token   string `yaml:"-"`
}

// Defaults returns the configuration used when no file is present
func Defaults() *Config {
	return &Config{
		Rules:  rules.DefaultTable,
		Format: "terminal",
	}
}

// Load reads and validates the config file at path. Unset keys keep their
// defaults and unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Discover walks up the directory tree from startDir looking for a
// config file. It stops at a .git directory or the filesystem root and
// returns "" if none was found.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ApplyEnv fills secrets and overrides from the environment. getenv is
// usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("JIRA_BASE_URL"); v != "" {
		c.Jira.BaseURL = v
	}
	if v := getenv("JIRA_EMAIL"); v != "" {
		c.Jira.Email = v
	}
	c.Jira.Token = getenv("JIRA_API_TOKEN")
	if v := getenv("PROSESCAN_REVIEW_MODEL"); v != "" {
		c.Review.Model = v
	}
}

// Resolve loads the config named by explicit, or the discovered one from
// startDir, or the defaults, then applies the environment. It returns the
// path that was loaded, if any.
func Resolve(explicit, startDir string) (*Config, string, error) {
	path := explicit
	if path == "" {
		found, err := Discover(startDir)
		if err != nil {
			return nil, "", err
		}
		path = found
	}

	cfg := Defaults()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, path, nil
}
