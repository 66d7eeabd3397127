package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ezchuang/GoPacTimer/internal/core"
	"github.com/ezchuang/GoPacTimer/internal/logging"
	"github.com/ezchuang/GoPacTimer/internal/pills"
)

// DefaultMinutes is used when no duration is given and no prompt is shown.
const DefaultMinutes = 6.0

var ErrInvalidMinutes = errors.New("the argument must be a non-negative number")

type Mode int

const (
	ModeAuto Mode = iota
	ModeTUI
	ModePlain
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeTUI:
		return "tui"
	case ModePlain:
		return "plain"
	default:
		return "unknown"
	}
}

type Config struct {
	Minutes      float64
	Pills        bool
	PillSpacing  int
	Alert        bool
	Status       bool
	Prompt       bool
	ExitOnFinish bool
	Mode         Mode
	LogFile      string
	LogLevel     string
}

func Default() Config {
	return Config{
		Minutes:     DefaultMinutes,
		Pills:       true,
		PillSpacing: pills.DefaultSpacing,
		Alert:       true,
		Status:      true,
		LogLevel:    "info",
	}
}

// ParseMinutes accepts a plain decimal number of minutes, up to core.MaxMinutes.
func ParseMinutes(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinutes, s)
	}
	if !validMinutes(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMinutes, s)
	}
	return v, nil
}

func (c Config) Validate() error {
	if !validMinutes(c.Minutes) {
		return fmt.Errorf("%w: %v", ErrInvalidMinutes, c.Minutes)
	}
	if c.PillSpacing < 1 {
		return fmt.Errorf("invalid pill spacing %d: must be at least 1", c.PillSpacing)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// validMinutes bounds the countdown so it still fits in a time.Duration.
func validMinutes(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v < core.MaxMinutes
}

func (c Config) Duration() time.Duration {
	return time.Duration(c.Minutes * float64(time.Minute))
}
