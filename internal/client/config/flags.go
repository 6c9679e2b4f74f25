package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/userdesk/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the users REST API
//	-d int      filter debounce window (milliseconds)
//	-t int      request timeout (seconds)
//	-p int      concurrent requests for bulk delete
//	-s string   path to the local state database
//	-l string   log level: debug, info, warn, error
//
// args is filtered with flagx.FilterArgs first, so -c and -env do not
// reach this flag set.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-p", "-s", "-l"})

	fs := flag.NewFlagSet("userdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the users API")
	debounceMs := fs.Int("d", int(cfg.DebounceWindow.Milliseconds()), "filter debounce window (in milliseconds)")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.DeleteConcurrency, "p", cfg.DeleteConcurrency, "concurrent requests for bulk delete")
	fs.StringVar(&cfg.StateDBPath, "s", cfg.StateDBPath, "path to the local state database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only touch the durations when their flags were given, so sub-unit
	// values from earlier sources survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.DebounceWindow = time.Duration(*debounceMs) * time.Millisecond
		case "t":
			cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
		}
	})
	return nil
}
