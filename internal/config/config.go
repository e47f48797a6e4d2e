package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/carlosnayan/prisma-go-inputs/schema"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "prisma.conf"

// Config is the content of prisma.conf.
type Config struct {
	Schema     string            `toml:"schema"`     // path to schema.prisma, relative to the config file
	Validation *ValidationConfig `toml:"validation"` // input validation settings
	Log        []string          `toml:"log,omitempty"`

	// dir is the directory of the loaded file; relative paths resolve against it.
	dir string
}

// ValidationConfig configures how inputs are checked.
type ValidationConfig struct {
	Mode     string `toml:"mode"`      // strict, strip or passthrough
	MaxDepth int    `toml:"max_depth"` // 0 is unbounded
	// Production hides received values from issue messages.
	Production bool `toml:"production,omitempty"`
}

// Load reads prisma.conf. An empty path searches the working directory and
// its parents. A .env file found the same way is loaded first, so the file
// may refer to its variables.
func Load(configPath string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot get working directory: %w", err)
	}
	loadDotEnv(wd)

	if configPath == "" {
		configPath, err = Find(wd)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", FileName, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(configPath)
	return cfg, nil
}

// Parse decodes, expands and validates the content of a config file.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", FileName, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("invalid configuration: unknown keys %s", strings.Join(keys, ", "))
	}

	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Find returns the first prisma.conf in dir or one of its parents.
func Find(dir string) (string, error) {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", FileName)
		}
		dir = parent
	}
}

// loadDotEnv loads the nearest .env walking up from dir. Variables already
// set in the environment win.
func loadDotEnv(dir string) {
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func (c *Config) expandEnvVars() {
	c.Schema = expandString(c.Schema)
	if c.Validation != nil {
		c.Validation.Mode = expandString(c.Validation.Mode)
	}
}

// expandString expands ${VAR}, $VAR, env("VAR") and env('VAR').
func expandString(s string) string {
	for _, open := range []string{`env("`, `env('`} {
		closing := string(open[4]) + ")"
		for {
			start := strings.Index(s, open)
			if start == -1 {
				break
			}
			end := strings.Index(s[start+len(open):], closing)
			if end == -1 {
				break
			}
			end += start + len(open)
			s = s[:start] + os.Getenv(s[start+len(open):end]) + s[end+len(closing):]
		}
	}
	return os.ExpandEnv(s)
}

// Validate applies defaults and checks values.
func (c *Config) Validate() error {
	if c.Schema == "" {
		c.Schema = "prisma/schema.prisma"
	}
	if c.Validation == nil {
		c.Validation = &ValidationConfig{}
	}
	if _, ok := schema.ParseMode(c.Validation.Mode); !ok {
		return fmt.Errorf("validation.mode must be strict, strip or passthrough, got %q", c.Validation.Mode)
	}
	if c.Validation.MaxDepth < 0 {
		return fmt.Errorf("validation.max_depth must not be negative, got %d", c.Validation.MaxDepth)
	}
	for _, level := range c.Log {
		switch level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log level %q is not one of debug, info, warn, error", level)
		}
	}
	return nil
}

// GetSchemaPath returns the schema path, resolved against the directory of
// the config file when relative.
func (c *Config) GetSchemaPath() string {
	if filepath.IsAbs(c.Schema) || c.dir == "" {
		return c.Schema
	}
	return filepath.Join(c.dir, c.Schema)
}

// Mode returns the configured object mode.
func (c *Config) Mode() schema.Mode {
	if c.Validation == nil {
		return schema.Strict
	}
	mode, _ := schema.ParseMode(c.Validation.Mode)
	return mode
}

// MaxDepth returns the configured depth bound; 0 is unbounded.
func (c *Config) MaxDepth() int {
	if c.Validation == nil {
		return 0
	}
	return c.Validation.MaxDepth
}
