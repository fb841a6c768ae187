package cmd

import (
	"strings"

	"github.com/oakwood-commons/iterminator/internal/config"
	"github.com/oakwood-commons/iterminator/internal/errs"
)

// configLoader resolves the effective configuration: embedded defaults, the
// user file, the environment, then flags.
type configLoader struct {
	load   func(path string) (config.Config, error)
	getenv func(string) string
}

var cfgLoader = configLoader{load: config.Load, getenv: func(key string) string { return lookupEnv(key) }}

// flagOverrides are the flags that shadow config keys.
type flagOverrides struct {
	configFile string
	schemesDir string
	quiet      bool
	noColor    bool
}

func loadEffectiveConfig(fo flagOverrides) (config.Config, error) {
	return cfgLoader.loadEffective(fo)
}

func (l configLoader) loadEffective(fo flagOverrides) (config.Config, error) {
	cfg, err := l.load(fo.configFile)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(l.getenv)

	if dir := strings.TrimSpace(fo.schemesDir); dir != "" {
		cfg.Schemes.Dir = dir
	}
	if fo.quiet {
		cfg.UI.Quiet = true
	}
	if fo.noColor {
		cfg.UI.NoColor = true
	}
	return cfg, cfg.Validate()
}

// checkTmux refuses to run inside tmux, which intercepts the escape
// sequences that recolor the terminal.
func checkTmux(getenv func(string) string, allow bool) error {
	if allow || getenv("TMUX") == "" {
		return nil
	}
	return errs.New(errs.TerminalMode, "cmd.checkTmux", "refusing to run inside tmux; pass --allow-tmux to override")
}
