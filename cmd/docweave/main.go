package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docweave/internal/build"
	"git.home.luguber.info/inful/docweave/internal/config"
	"git.home.luguber.info/inful/docweave/internal/lang"
	_ "git.home.luguber.info/inful/docweave/internal/lang/minilang"
	"git.home.luguber.info/inful/docweave/internal/logfields"
	"git.home.luguber.info/inful/docweave/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docweave.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Source string `short:"s" help:"Source directory (overrides config)"`
		Output string `short:"o" help:"Output directory (overrides config)"`
		Clean  bool   `help:"Remove the output directory before building"`
	} `cmd:"" help:"Build the documentation site"`

	Check struct {
		Source string `short:"s" help:"Source directory (overrides config)"`
	} `cmd:"" help:"Verify cross-references and doctests without writing output"`

	Watch struct {
		Source string `short:"s" help:"Source directory (overrides config)"`
		Output string `short:"o" help:"Output directory (overrides config)"`
	} `cmd:"" help:"Rebuild the site whenever the source tree changes"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Write a starter configuration file"`
}

const starterConfig = `# docweave configuration
source: docs
build: site
# assets: static
clean: false
format: html
runtime: mini
`

func main() {
	kctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch kctx.Command() {
	case "build":
		err = runBuild(ctx, CLI.Build.Source, CLI.Build.Output, CLI.Build.Clean, false)
	case "check":
		err = runBuild(ctx, CLI.Check.Source, "", false, true)
	case "watch":
		err = runWatch(ctx, CLI.Watch.Source, CLI.Watch.Output)
	case "init":
		err = runInit(CLI.Init.Force)
	default:
		err = fmt.Errorf("unknown command %s", kctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", logfields.Error(err))
		os.Exit(1)
	}
}

// loadConfig reads the configured file when present, else falls back to
// defaults, then applies CLI overrides.
func loadConfig(source, output string, clean bool) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(CLI.Config); err == nil {
		loaded, err := config.Load(CLI.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if source != "" {
		cfg.Source = source
	}
	if output != "" {
		cfg.Build = output
	}
	if clean {
		cfg.Clean = true
	}
	if cfg.Source == "" {
		return nil, fmt.Errorf("no source directory configured (set source: in %s or pass --source)", CLI.Config)
	}
	return cfg, nil
}

func resolveRuntime(cfg *config.Config) (lang.Runtime, error) {
	rt := lang.Get(cfg.Runtime)
	if rt == nil {
		return nil, fmt.Errorf("runtime %q is not registered (available: %s)",
			cfg.Runtime, strings.Join(lang.Names(), ", "))
	}
	return rt, nil
}

func runBuild(ctx context.Context, source, output string, clean, dryRun bool) error {
	cfg, err := loadConfig(source, output, clean)
	if err != nil {
		return err
	}
	rt, err := resolveRuntime(cfg)
	if err != nil {
		return err
	}
	res, err := build.NewService().Run(ctx, build.Request{Config: cfg, Runtime: rt, DryRun: dryRun})
	if err != nil {
		return err
	}
	if dryRun {
		slog.Info("Check passed", logfields.Count(res.Pages))
	}
	return nil
}

func runWatch(ctx context.Context, source, output string) error {
	cfg, err := loadConfig(source, output, false)
	if err != nil {
		return err
	}
	rt, err := resolveRuntime(cfg)
	if err != nil {
		return err
	}
	return watch.New(cfg, rt).Run(ctx)
}

func runInit(force bool) error {
	if _, err := os.Stat(CLI.Config); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", CLI.Config)
	}
	if err := os.WriteFile(CLI.Config, []byte(starterConfig), 0o644); err != nil {
		return err
	}
	slog.Info("Wrote configuration", logfields.Path(CLI.Config))
	return nil
}
