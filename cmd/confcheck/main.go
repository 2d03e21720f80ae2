package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/matrix-bot-config/internal/application"
	"github.com/eugenenazirov/matrix-bot-config/internal/config"
	"github.com/eugenenazirov/matrix-bot-config/internal/logging"
)

type options struct {
	configFile    string
	printResolved bool
	strict        bool
	prepare       bool
}

func main() {
	app := kingpin.New("confcheck", "Validates a Matrix bot configuration file and reports every problem in one pass")
	configFile := app.Flag("config", "Path to the YAML configuration file").Default("config.yaml").String()
	printResolved := app.Flag("print", "Print the resolved configuration (secrets redacted) on success").Bool()
	strict := app.Flag("strict", "Treat unknown configuration keys as errors").Bool()
	prepare := app.Flag("prepare", "Create and write-probe the store path after validation").Bool()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	os.Exit(run(os.Stdout, os.Stderr, options{
		configFile:    *configFile,
		printResolved: *printResolved,
		strict:        *strict,
		prepare:       *prepare,
	}))
}

func run(stdout, stderr io.Writer, opts options) int {
	cfg, warnings, err := config.Load(opts.configFile)
	for _, warning := range warnings {
		fmt.Fprintf(stderr, "warning: %s\n", warning)
	}
	if err != nil {
		fmt.Fprintf(stderr, "confcheck: %v\n", err)
		return 1
	}
	if opts.strict && len(warnings) > 0 {
		fmt.Fprintf(stderr, "confcheck: %d unknown key(s) rejected in strict mode\n", len(warnings))
		return 1
	}

	if opts.prepare {
		logger, err := logging.New(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "confcheck: initialize logger: %v\n", err)
			return 1
		}
		_, appErr := application.New(cfg, logger)
		_ = logger.Sync()
		if appErr != nil {
			fmt.Fprintf(stderr, "confcheck: %v\n", appErr)
			return 1
		}
	}

	if opts.printResolved {
		rendered, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			fmt.Fprintf(stderr, "confcheck: render resolved configuration: %v\n", err)
			return 1
		}
		if _, err := stdout.Write(rendered); err != nil {
			return 1
		}
		return 0
	}

	fmt.Fprintln(stdout, "configuration OK")
	return 0
}
