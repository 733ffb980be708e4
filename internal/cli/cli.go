// Package cli parses the flux command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Options carries the parsed command-line configuration.
type Options struct {
	// ConfigPath is an optional HCL configuration file.
	ConfigPath string
	// Frames overrides the configured frame count when positive.
	Frames int
	// LogLevel and LogFormat override the configured logger settings
	// when non-empty.
	LogLevel  string
	LogFormat string
}

// ExitError signals main to exit with a specific code and message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse reads the command line. The second return value is true when the
// invocation was informational (e.g. -h) and the caller should exit
// successfully without running.
func Parse(args []string, outW io.Writer) (*Options, bool, error) {
	fs := flag.NewFlagSet("flux", flag.ContinueOnError)
	fs.SetOutput(outW)

	opts := &Options{}
	fs.StringVar(&opts.ConfigPath, "config", "", "path to an HCL configuration file")
	fs.IntVar(&opts.Frames, "frames", 0, "number of frames to play (overrides configuration)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&opts.LogFormat, "log-format", "", "log format: text or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument: %s", fs.Arg(0))}
	}
	return opts, false, nil
}
