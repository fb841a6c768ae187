package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/iterminator/internal/applier"
	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/config"
	"github.com/oakwood-commons/iterminator/internal/errs"
	"github.com/oakwood-commons/iterminator/internal/ring"
	"github.com/oakwood-commons/iterminator/internal/selector"
	"github.com/oakwood-commons/iterminator/internal/terminal"
	"github.com/oakwood-commons/iterminator/internal/ui"
	"github.com/oakwood-commons/iterminator/pkg/logger"
	"github.com/oakwood-commons/iterminator/pkg/settings"
)

var (
	animationSpeed speedFlag
	interactive    bool
	listSchemes    bool
	randomScheme   bool
	schemeQuery    string
	showVersion    bool
	quiet          bool
	verbose        bool
	lightOnly      bool
	darkOnly       bool
	allowTmux      bool
	watch          bool
	whereExpr      string
	schemesDir     string
	configFile     string
	debug          bool
	noColor        bool
)

var (
	rootCtx = context.Background()

	lookupEnv  = os.Getenv
	stdoutFile = os.Stdout
	termWidth  = terminal.Width
	classifier catalog.Classifier = catalog.PlistClassifier{}
	openInput                     = openRawInput
	newApplier                    = func(cfg config.Config, log logr.Logger) applier.Applier {
		return applier.New(cfg.ApplierCommand(), cfg.Applier.Timeout, log)
	}
)

// openRawInput puts stdin in raw mode. The returned function restores it.
func openRawInput() (io.Reader, func(), error) {
	sess, err := terminal.Raw(os.Stdin)
	if err != nil {
		return nil, nil, err
	}
	return os.Stdin, func() { _ = sess.Restore() }, nil
}

type runMode int

const (
	modeSession runMode = iota
	modeAnimate
	modeInteractive
	modeList
	modeRandom
	modeScheme
	modeVersion
)

var modeNames = map[runMode]string{
	modeSession:     "session",
	modeAnimate:     "animate",
	modeInteractive: "interactive",
	modeList:        "list",
	modeRandom:      "random",
	modeScheme:      "scheme",
	modeVersion:     "version",
}

func (m runMode) String() string {
	return modeNames[m]
}

// selectMode picks one mode when several flags are given.
func selectMode() runMode {
	switch {
	case animationSpeed.set:
		return modeAnimate
	case interactive:
		return modeInteractive
	case listSchemes:
		return modeList
	case randomScheme:
		return modeRandom
	case schemeQuery != "":
		return modeScheme
	case showVersion:
		return modeVersion
	}
	return modeSession
}

func currentFilters() filterOptions {
	return filterOptions{light: lightOnly, dark: darkOnly, where: whereExpr}
}

func currentOverrides() flagOverrides {
	return flagOverrides{configFile: configFile, schemesDir: schemesDir, quiet: quiet, noColor: noColor}
}

func runSettings() *settings.Run {
	if run, ok := settings.FromContext(rootCtx); ok {
		return run
	}
	return settings.NewCliParams()
}

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Preview and pick terminal color schemes",
	Long: `Step through a directory of terminal color schemes, applying each one
as it is selected.

Keys while running:
  left/right, j/k, n/p   previous / next scheme
  /                      jump to the next scheme whose name contains the text
  :                      jump to a scheme by index
  tab                    complete a scheme name (a unique match is applied)
  space                  pause or resume the animation
  s                      shuffle
  y                      copy the current scheme name
  q, return              quit (any other key quits too)`,
	Example: "\n  iterminator\n  iterminator --dark -a 2\n  iterminator -s 'solarized dark'\n  iterminator -l --where 'name.startsWith(\"Base16\") && light'\n",
	Args:    cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		run := settings.NewCliParams()
		if debug {
			run.MinLogLevel = -1
		}
		run.Quiet = quiet
		run.NoColor = noColor
		run.Verbose = verbose
		run.AllowTmux = allowTmux
		run.Watch = watch

		lgr := logger.Get(run.MinLogLevel)
		lgr = logger.WithValues(lgr, logger.CommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), run)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func runRoot(cmd *cobra.Command, _ []string) error {
	const op = "cmd.run"
	out := cmd.OutOrStdout()
	mode := selectMode()
	run := runSettings()
	log := logger.FromContext(rootCtx).WithValues(logger.ModeKey, mode.String())

	if mode == modeVersion {
		fmt.Fprintln(out, settings.VersionInformation.String())
		return nil
	}
	if lightOnly && darkOnly {
		return errs.New(errs.InvalidInput, op, "--light and --dark are mutually exclusive")
	}

	cfg, err := loadEffectiveConfig(currentOverrides())
	if err != nil {
		return err
	}
	log = log.WithValues(logger.SchemesDirKey, cfg.Schemes.Dir)

	cat, err := buildCatalog(cfg, currentFilters(), log)
	if err != nil {
		return err
	}
	if mode == modeList {
		return printList(out, cat, run.Verbose)
	}
	if err := checkTmux(lookupEnv, run.AllowTmux); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := ring.FromCatalog(cat)
	if err != nil {
		return err
	}

	switch mode {
	case modeScheme, modeRandom:
		sel := selector.New(r, selector.Options{Applier: newApplier(cfg, log), Log: log})
		var e catalog.Entry
		if mode == modeRandom {
			e, err = sel.SelectRandom(ctx)
		} else {
			e, err = sel.SelectQuery(ctx, schemeQuery)
		}
		if err != nil {
			return err
		}
		log.V(1).Info("scheme applied", logger.SchemeKey, e.Name)
		fmt.Fprintln(out, e.Name)
		return nil
	}
	return runSession(ctx, out, cfg, r, mode, run, log)
}

// runSession owns the raw terminal for the interactive modes.
func runSession(ctx context.Context, out io.Writer, cfg config.Config, r *ring.Ring, mode runMode, run *settings.Run, log logr.Logger) error {
	input, restore, err := openInput()
	if err != nil {
		return err
	}
	defer restore()

	status := ui.NewStatusLine(out, ui.StatusOptions{
		Theme:   ui.ThemeFromColors(cfg.UI.Colors),
		NoColor: cfg.UI.NoColor,
		Quiet:   cfg.UI.Quiet,
		Width:   termWidth(stdoutFile),
	})
	sel := selector.New(r, selector.Options{
		Applier:      newApplier(cfg, log),
		Status:       status,
		Log:          log,
		PollInterval: cfg.Animation.PollInterval,
	})

	if run.Watch {
		stopWatch, err := startWatcher(ctx, cfg, currentFilters(), sel, log)
		if err != nil {
			return err
		}
		defer stopWatch()
	}

	opts := selector.SessionOptions{Input: input, Prompt: mode == modeInteractive}
	if mode == modeAnimate {
		opts.Speed = animationSpeed.resolve(cfg.Animation.Speed)
		opts.Shuffle = randomScheme
	}
	log.V(1).Info("session started", "schemes", r.Len(), "speed", opts.Speed)
	return selector.RunSession(ctx, sel, opts)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the iterminator version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), settings.VersionInformation.String())
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available color schemes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if lightOnly && darkOnly {
			return errs.New(errs.InvalidInput, "cmd.list", "--light and --dark are mutually exclusive")
		}
		cfg, err := loadEffectiveConfig(currentOverrides())
		if err != nil {
			return err
		}
		cat, err := buildCatalog(cfg, currentFilters(), logger.FromContext(rootCtx).WithValues(logger.ModeKey, modeList.String()))
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), cat, runSettings().Verbose)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadEffectiveConfig(currentOverrides())
		if err != nil {
			return err
		}
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the default config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
		return nil
	},
}

func init() { //nolint:gochecknoinits
	flags := rootCmd.Flags()
	speed := flags.VarPF(&animationSpeed, "animation-speed", "a", "cycle through schemes at this many per second (default from config)")
	speed.NoOptDefVal = speedDefaultToken
	flags.BoolVarP(&interactive, "interactive", "i", false, "pick a scheme with tab completion")
	flags.BoolVarP(&listSchemes, "list", "l", false, "list scheme names and exit")
	flags.BoolVarP(&randomScheme, "random", "r", false, "apply a random scheme (shuffle first when animating)")
	flags.StringVarP(&schemeQuery, "scheme", "s", "", "apply the scheme matching this name and exit")
	flags.BoolVarP(&showVersion, "version", "v", false, "print the version and exit")
	flags.BoolVar(&allowTmux, "allow-tmux", false, "run even when inside tmux")
	flags.BoolVar(&watch, "watch", false, "reload the schemes when the directory changes")

	persistent := rootCmd.PersistentFlags()
	persistent.BoolVarP(&quiet, "quiet", "q", false, "do not show the key binding help")
	persistent.BoolVar(&verbose, "verbose", false, "prefix listed schemes with their index")
	persistent.BoolVar(&lightOnly, "light", false, "only schemes with a light background")
	persistent.BoolVar(&darkOnly, "dark", false, "only schemes with a dark background")
	persistent.StringVar(&whereExpr, "where", "", "CEL filter over name, path, index and light, e.g. 'light && index < 20'")
	persistent.StringVar(&schemesDir, "schemes-dir", "", "directory holding the scheme files (default from config or $"+config.SchemesDirEnv+")")
	persistent.StringVar(&configFile, "config-file", "", "path to a YAML config file")
	persistent.BoolVar(&debug, "debug", false, "log debug events to stderr")
	persistent.BoolVar(&noColor, "no-color", false, "disable colored output")

	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(versionCmd, listCmd, configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
