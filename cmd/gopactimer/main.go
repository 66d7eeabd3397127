package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/ezchuang/GoPacTimer/internal/config"
	"github.com/ezchuang/GoPacTimer/internal/core"
	"github.com/ezchuang/GoPacTimer/internal/logging"
	"github.com/ezchuang/GoPacTimer/internal/notify"
	"github.com/ezchuang/GoPacTimer/internal/plain"
	"github.com/ezchuang/GoPacTimer/internal/ui"
)

// columns kept free for the plain bar's decorators
const plainDecorWidth = 24

func main() {
	if err := newApp(run).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(action func(config.Config) error) *cli.App {
	app := cli.NewApp()
	app.Name = "gopactimer"
	app.Usage = "count down in the terminal with a hungry marker"
	app.UsageText = "gopactimer [options] [minutes]"
	app.Version = "0.1.0"
	app.HideVersion = true
	app.Flags = flags
	app.Action = func(c *cli.Context) error {
		cfg, err := configFromContext(c)
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return action(cfg)
	}
	return app
}

func configFromContext(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	cfg.Pills = !c.Bool("no-pills")
	cfg.PillSpacing = c.Int("pill-spacing")
	cfg.Alert = !c.Bool("no-alert")
	cfg.Status = !c.Bool("no-status")
	cfg.Prompt = c.Bool("prompt")
	cfg.ExitOnFinish = c.Bool("exit-on-finish")
	cfg.LogFile = c.String("log-file")
	cfg.LogLevel = c.String("log-level")
	switch {
	case c.Bool("plain"):
		cfg.Mode = config.ModePlain
	case c.Bool("tui"):
		cfg.Mode = config.ModeTUI
	}

	switch c.NArg() {
	case 0:
		if cfg.Prompt && isTerminal(os.Stdin) {
			minutes, err := ui.RunPrompt(cfg.Minutes)
			if err != nil {
				return cfg, err
			}
			cfg.Minutes = minutes
		}
	case 1:
		minutes, err := config.ParseMinutes(c.Args().First())
		if err != nil {
			return cfg, err
		}
		cfg.Minutes = minutes
	default:
		return cfg, fmt.Errorf("expected at most one argument, got %d", c.NArg())
	}
	return cfg, cfg.Validate()
}

func run(cfg config.Config) error {
	logger, closer, err := logging.New(afero.NewOsFs(), cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	notifier := notify.Nop()
	if cfg.Alert {
		notifier = notify.New()
	}
	driver := core.NewDriver(core.NewPlan(cfg.Minutes))

	mode := cfg.Mode
	if mode == config.ModeAuto {
		mode = config.ModeTUI
		if !isTerminal(os.Stdout) {
			mode = config.ModePlain
		}
	}
	logger.Info("starting", "minutes", cfg.Minutes, "mode", mode, "pills", cfg.Pills)

	if mode == config.ModePlain {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := plain.Run(ctx, driver, plain.Options{
			Out:         os.Stdout,
			Width:       plainWidth(),
			Pills:       cfg.Pills,
			PillSpacing: cfg.PillSpacing,
			Notifier:    notifier,
			Logger:      logger,
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	m, err := ui.NewModel(driver, notifier, logger, ui.Options{
		Pills:        cfg.Pills,
		PillSpacing:  cfg.PillSpacing,
		Status:       cfg.Status,
		ExitOnFinish: cfg.ExitOnFinish,
		Theme:        ui.DefaultTheme(),
	})
	if err != nil {
		return err
	}
	return ui.Run(m)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func plainWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w-plainDecorWidth < 10 {
		return plain.DefaultWidth
	}
	return w - plainDecorWidth
}
