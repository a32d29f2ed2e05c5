package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config is the validated command line.
type Config struct {
	Patterns      []string
	ConfigDir     string
	GeneratorsDir string
	LogLevel      string
	LogFormat     string
	Interactive   bool
	AllowHTTP     bool
	HTTPTimeout   time.Duration
	NoHooks       bool
	Concurrency   int
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("ymlgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
ymlgen - generate source files from annotated YAML data files.

Usage:
  ymlgen [options] PATTERN [PATTERN...]

Arguments:
  PATTERN
    Glob for data files, e.g. "src/**.yml". Only files whose first line is a
    "# ymlgen:" directive are processed.

Options:
`)
		flagSet.PrintDefaults()
	}

	configDir := flagSet.String("config-dir", ".ymlgen", "Config directory.")
	generatorsDir := flagSet.String("generators", "", "Template generators directory. Defaults to <config-dir>/generators.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	interactive := flagSet.Bool("interactive", false, "Pick data files and confirm hooks interactively.")
	allowHTTP := flagSet.Bool("allow-http", false, "Allow merge directives to fetch http(s) URLs.")
	httpTimeout := flagSet.Duration("http-timeout", 10*time.Second, "Timeout for remote merge sources.")
	noHooks := flagSet.Bool("no-hooks", false, "Do not run success/fail/done hook commands.")
	concurrency := flagSet.Int("concurrency", 8, "Maximum number of data files processed at once.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	format := strings.ToLower(*logFormat)
	if format != "text" && format != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	level := strings.ToLower(*logLevel)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *concurrency < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid concurrency: must be at least 1"}
	}

	generators := *generatorsDir
	if generators == "" {
		generators = filepath.Join(*configDir, "generators")
	}

	cfg := &Config{
		Patterns:      flagSet.Args(),
		ConfigDir:     *configDir,
		GeneratorsDir: generators,
		LogLevel:      level,
		LogFormat:     format,
		Interactive:   *interactive,
		AllowHTTP:     *allowHTTP,
		HTTPTimeout:   *httpTimeout,
		NoHooks:       *noHooks,
		Concurrency:   *concurrency,
	}
	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

// NewLogger creates a logger for the configured level and format. It does not
// set the global logger.
func NewLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(outW, handlerOpts))
}
