// Package config loads the picker configuration: embedded defaults, an
// optional user YAML file on top, then environment overrides.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/iterminator/internal/errs"
	"github.com/oakwood-commons/iterminator/internal/ui"
	"github.com/oakwood-commons/iterminator/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// SchemesDirEnv overrides schemes.dir when no flag is given.
const SchemesDirEnv = "ITERMINATOR_SCHEMES_DIR"

// Config is the merged configuration.
type Config struct {
	Schemes   SchemesConfig   `yaml:"schemes"`
	Applier   ApplierConfig   `yaml:"applier"`
	Animation AnimationConfig `yaml:"animation"`
	UI        UIConfig        `yaml:"ui"`
}

type SchemesConfig struct {
	Dir     string `yaml:"dir"`
	Suffix  string `yaml:"suffix"`
	Pattern string `yaml:"pattern"`
}

type ApplierConfig struct {
	Command []string      `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

type AnimationConfig struct {
	Speed        float64       `yaml:"speed"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type UIConfig struct {
	Quiet   bool           `yaml:"quiet"`
	NoColor bool           `yaml:"no_color"`
	Colors  ui.ThemeColors `yaml:"colors"`
}

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := decode(bytes.NewReader(embeddedDefaultConfig), &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// Load merges the user file at path over the defaults. An empty path means
// DefaultPath; a missing default file is not an error, a missing explicit
// one is.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return cfg, cfg.Validate()
	case err != nil:
		return cfg, errs.Wrap(errs.NotFound, "config.Load", path, err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		// decoding onto the defaults keeps every key the file leaves out
		if err := decode(bytes.NewReader(data), &cfg); err != nil {
			return cfg, errs.Wrap(errs.InvalidInput, "config.Load", path, err)
		}
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/iterminator/config.yaml, falling back to
// ~/.config. It is empty when neither can be determined.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, settings.CliBinaryName, "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
}

// ApplyEnv applies environment overrides using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if dir := strings.TrimSpace(getenv(SchemesDirEnv)); dir != "" {
		c.Schemes.Dir = dir
	}
}

// Validate rejects values no run can use.
func (c Config) Validate() error {
	const op = "config.Validate"
	switch {
	case strings.TrimSpace(c.Schemes.Dir) == "":
		return errs.New(errs.InvalidInput, op, "schemes.dir must not be empty")
	case c.Schemes.Pattern == "" && c.Schemes.Suffix == "":
		return errs.New(errs.InvalidInput, op, "one of schemes.suffix or schemes.pattern is required")
	case c.Applier.Timeout < 0:
		return errs.New(errs.InvalidInput, op, "applier.timeout must not be negative")
	case c.Animation.Speed <= 0:
		return errs.Newf(errs.InvalidInput, op, "animation.speed must be positive, got %g", c.Animation.Speed)
	case c.Animation.PollInterval <= 0:
		return errs.New(errs.InvalidInput, op, "animation.poll_interval must be positive")
	}
	return nil
}

// ApplierCommand is the configured applier argv, or tools/preview.rb in the
// repository that holds the schemes directory.
func (c Config) ApplierCommand() []string {
	if len(c.Applier.Command) > 0 {
		return append([]string(nil), c.Applier.Command...)
	}
	root := filepath.Dir(filepath.Clean(c.Schemes.Dir))
	return []string{filepath.Join(root, "tools", "preview.rb")}
}

// YAML renders the config as it would be written to a file.
func (c Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
