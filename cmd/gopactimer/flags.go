package main

import (
	"github.com/urfave/cli"

	"github.com/ezchuang/GoPacTimer/internal/config"
	"github.com/ezchuang/GoPacTimer/internal/pills"
)

var flags = []cli.Flag{
	cli.BoolFlag{
		Name:  "no-pills",
		Usage: "do not lay pills along the strip",
	},
	cli.IntFlag{
		Name:  "pill-spacing",
		Usage: "cells between two pills",
		Value: pills.DefaultSpacing,
	},
	cli.BoolFlag{
		Name:  "no-alert",
		Usage: "skip the desktop notification when time is up",
	},
	cli.BoolFlag{
		Name:  "no-status",
		Usage: "hide the status line under the strip",
	},
	cli.BoolFlag{
		Name:  "plain",
		Usage: "draw a single progress bar line instead of the full screen view",
	},
	cli.BoolFlag{
		Name:  "tui",
		Usage: "force the full screen view even when stdout is not a terminal",
	},
	cli.BoolFlag{
		Name:  "prompt",
		Usage: "ask for the duration when no argument is given",
	},
	cli.BoolFlag{
		Name:  "exit-on-finish",
		Usage: "quit as soon as the final animation is over",
	},
	cli.StringFlag{
		Name:   "log-file",
		Usage:  "append logs to this file",
		EnvVar: "GOPACTIMER_LOG_FILE",
	},
	cli.StringFlag{
		Name:   "log-level",
		Usage:  "debug, info, warn or error",
		Value:  config.Default().LogLevel,
		EnvVar: "GOPACTIMER_LOG_LEVEL",
	},
}
