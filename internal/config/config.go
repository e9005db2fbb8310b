// Package config reads server settings from flags, falling back to
// TRAINER_* environment variables.
package config

import (
	"flag"
	"fmt"
	"strconv"
	"time"
)

// Config holds the server settings.
type Config struct {
	Addr         string
	Debug        bool
	PuzzleSource string
	DSN          string
	EngineBin    string
	RevertDelay  time.Duration
	FetchTimeout time.Duration
	IdleTTL      time.Duration
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:         ":8080",
		RevertDelay:  80 * time.Millisecond,
		FetchTimeout: 10 * time.Second,
		IdleTTL:      24 * time.Hour,
	}
}

// Load parses args (without the program name). getenv supplies defaults for
// unset flags; pass os.Getenv in production.
func Load(args []string, getenv func(string) string) (Config, error) {
	c := Default()
	env := func(k, d string) string {
		if getenv == nil {
			return d
		}
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}

	debug, err := envBool(env("TRAINER_DEBUG", ""), false)
	if err != nil {
		return c, fmt.Errorf("TRAINER_DEBUG: %w", err)
	}
	revert, err := envDuration(env("TRAINER_REVERT_DELAY", ""), c.RevertDelay)
	if err != nil {
		return c, fmt.Errorf("TRAINER_REVERT_DELAY: %w", err)
	}

	fs := flag.NewFlagSet("puzzletrainer", flag.ContinueOnError)
	fs.StringVar(&c.Addr, "addr", env("TRAINER_ADDR", c.Addr), "listen address")
	fs.BoolVar(&c.Debug, "debug", debug, "enable debug logging")
	fs.StringVar(&c.PuzzleSource, "puzzles", env("TRAINER_PUZZLES", ""), "puzzle list: http(s) URL or file path; empty uses the built-in list")
	fs.StringVar(&c.DSN, "dsn", env("TRAINER_DSN", ""), "postgres DSN for the puzzle table (optional)")
	fs.StringVar(&c.EngineBin, "engine", env("TRAINER_ENGINE", ""), "path to a UCI engine binary (optional)")
	fs.DurationVar(&c.RevertDelay, "revert-delay", revert, "how long a wrong move stays on the board")
	fs.DurationVar(&c.FetchTimeout, "fetch-timeout", c.FetchTimeout, "timeout for loading the puzzle list")
	fs.DurationVar(&c.IdleTTL, "idle-ttl", c.IdleTTL, "drop sessions idle for this long")
	if err := fs.Parse(args); err != nil {
		return c, err
	}
	if c.RevertDelay < 0 {
		return c, fmt.Errorf("revert-delay must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return c, fmt.Errorf("fetch-timeout must be positive")
	}
	return c, nil
}

func envBool(v string, d bool) (bool, error) {
	if v == "" {
		return d, nil
	}
	return strconv.ParseBool(v)
}

func envDuration(v string, d time.Duration) (time.Duration, error) {
	if v == "" {
		return d, nil
	}
	return time.ParseDuration(v)
}
