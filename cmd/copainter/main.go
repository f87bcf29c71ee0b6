package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/copainter/internal/config"
	"github.com/example/copainter/internal/logging"
	"github.com/example/copainter/internal/notify"
	"github.com/example/copainter/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs              *flag.FlagSet
	program         string
	config          *config.Config
	notifier        *notify.Notifier
	logger          *zap.Logger
	stdout          io.Writer
	generatedAlerts bool
	failedAlerts    bool
	copyAlerts      bool
	themeName       string
	activeTheme     *theme.Theme
	backendName     string
	stylesPath      string
	logLevel        string
	logFile         string
	debug           bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	cp := *r
	cp.fs = nil
	cp.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &cp
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func (r *root) out() io.Writer {
	if r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func configPath() string {
	if p := os.Getenv("COPAINTER_CONFIG"); p != "" {
		return p
	}
	return configPathOverride
}

func newRoot() *root {
	loader := config.NewLoader(version, configPath())
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootWith(cfg)
}

func newRootWith(cfg *config.Config) *root {
	r := &root{
		fs:      flag.NewFlagSet("copainter", flag.ContinueOnError),
		program: "copainter",
		config:  cfg,
		logger:  logging.Nop(),
	}
	r.fs.BoolVar(&r.generatedAlerts, "notify-generated", cfg.Notify.Generated, "show a desktop notification when an image is generated")
	r.fs.BoolVar(&r.failedAlerts, "notify-failed", cfg.Notify.Failed, "show a desktop notification when a generation fails")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use ("+strings.Join(theme.Builtin(), ", ")+" or a .theme file)")
	r.fs.StringVar(&r.backendName, "backend", cfg.Generate.Backend, "image backend (solid, openai)")
	r.fs.StringVar(&r.stylesPath, "styles", cfg.Generate.Styles, "path of a styles.yaml catalog")
	r.fs.StringVar(&r.logLevel, "log-level", cfg.Log.Level, "minimum log level (debug, info, warn, error)")
	r.fs.StringVar(&r.logFile, "log-file", cfg.Log.File, "also write JSON logs to this rotated file")
	r.fs.BoolVar(&r.debug, "debug", false, "development logging with caller information")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return &UsageError{of: r}
		}
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}

	r.logger = logging.New(logging.Options{
		Level:       logging.ParseLevel(r.logLevel, zapcore.InfoLevel),
		File:        r.logFile,
		Development: r.debug,
	})
	defer func() { _ = r.logger.Sync() }()

	r.notifier = notify.New(notify.LoadPreferences(), notify.WithLogger(r.logger.Named("notify")))
	r.notifier.Enable(notify.EventGenerated, r.generatedAlerts)
	r.notifier.Enable(notify.EventFailed, r.failedAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	defer r.notifier.Close()

	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "draw":
		cmd, err = parseDrawCmd(subArgs, r)
	case "generate":
		cmd, err = parseGenerateCmd(subArgs, r)
	case "styles":
		cmd, err = parseStylesCmd(subArgs, r)
	case "prompt":
		cmd, err = parsePromptCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{root: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme picks the theme named by the flag, COPAINTER_THEME or the
// config, in that order. Themes defined in the config win over files.
func (r *root) resolveTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("COPAINTER_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			r.logger.Warn("theme not loaded, using default", zap.String("theme", name), zap.Error(err))
		}
		return theme.Default()
	}
	return t
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		color.New(color.FgRed).Fprintln(os.Stderr, logging.Redact(err.Error()))
		os.Exit(1)
	}
}
