package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vkm/heatlamp/internal/app"
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

// repeatable collects the values of a flag given more than once.
type repeatable []string

func (r *repeatable) String() string { return strings.Join(*r, ",") }

func (r *repeatable) Set(v string) error {
	*r = append(*r, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated app
// Config, a boolean indicating if the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("heatlamp", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
heatlamp - load, validate, and visualize explainability experiments.

Usage:
  heatlamp [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to an experiment document (.hcl or .json).

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the experiment document.")
	cFlag := flagSet.String("c", "", "Path to the experiment document (shorthand).")
	recordsFlag := flagSet.String("records", "", "Path to the attribution record file. Overrides discovery under dataset.root_dir.")
	var compareFlag repeatable
	flagSet.Var(&compareFlag, "compare", "Record file from another explainer over the same corpus. Repeatable; enables the disagreement report.")
	outFlag := flagSet.String("out", "", "Output directory. Overrides the document's 'path'.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent render workers.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	validateFlag := flagSet.Bool("validate-only", false, "Validate the document and exit.")
	statsFlag := flagSet.Bool("stats", false, "Print corpus attribution statistics.")
	servePortFlag := flagSet.Int("serve-port", 0, "Port for the HTML preview server. 0 is disabled.")
	listFlag := flagSet.Bool("list-configs", false, "List known experiment coordinates and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" && !*listFlag {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath:   path,
		RecordsPath:  *recordsFlag,
		Compare:      compareFlag,
		OutputDir:    *outFlag,
		Workers:      *workersFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		ValidateOnly: *validateFlag,
		Stats:        *statsFlag,
		ServePort:    *servePortFlag,
		ListConfigs:  *listFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
