package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/hirehub/internal/flagx"
)

// parseFlags populates Config from command-line flags.
//
//	-a string     API root URL
//	-t duration   per-request timeout
//	-d string     session store path
//	-i duration   notification poll interval (0 disables)
//	-r float      max requests per second (0 disables)
//	-l string     log level
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// loaders (-c) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-i", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API root URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.StorePath, "d", cfg.StorePath, "session store path")
	fs.DurationVar(&cfg.NotificationPollInterval, "i", cfg.NotificationPollInterval, "notification poll interval")
	fs.Float64Var(&cfg.RequestsPerSecond, "r", cfg.RequestsPerSecond, "max requests per second")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
