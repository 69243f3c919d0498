package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abatilo/agenda/internal/config"
	"github.com/abatilo/agenda/internal/engine"
	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/output"
	"github.com/abatilo/agenda/internal/session"
	"github.com/abatilo/agenda/internal/storage"
)

//nolint:gochecknoglobals // CLI flags and shared state are package-level by design
var (
	jsonOutput  bool
	configPath  string
	dataDirFlag string
	backendFlag string
	logLevel    string
	noRoll      bool

	formatter output.Formatter
	cfg       *config.Config
	logger    *log.Logger
	persister storage.Persister
	eng       *engine.Engine
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agenda",
		Short: "A personal task planner",
		Long: "agenda - projects, dependencies, and a daily focus queue.\n\n" +
			"Stale scheduled and due dates roll forward to today on the first command of each day.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			formatter = output.New(jsonOutput)
			return setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if persister != nil {
				if err := persister.Close(); err != nil {
					logger.WithError(err).Warn("closing store failed")
				}
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	flags.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/agenda/config.yaml)")
	flags.StringVar(&dataDirFlag, "data-dir", "", "Data directory (overrides config)")
	flags.StringVar(&backendFlag, "backend", "", "Storage backend: yaml or sqlite (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.BoolVar(&noRoll, "no-roll", false, "Skip the daily roll-forward")

	rootCmd.AddCommand(
		initCmd(),
		addCmd(),
		subCmd(),
		showCmd(),
		editCmd(),
		doneCmd(),
		statusCmd(),
		moveCmd(),
		rmCmd(),
		depCmd(),
		undepCmd(),
		readyCmd(),
		graphCmd(),
		listCmd(),
		focusCmd(),
		rollCmd(),
		projectCmd(),
		tagCmd(),
		categoryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if formatter == nil {
			formatter = output.New(jsonOutput)
		}
		printError(err)
	}
}

// setup loads config, applies flag overrides, and builds the logger and
// persister. The engine itself is opened lazily by getEngine.
func setup() error {
	var err error
	if cfg, err = config.Load(configPath); err != nil {
		return err
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if backendFlag != "" {
		cfg.Backend = storage.Backend(backendFlag)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err = cfg.Validate(); err != nil {
		return err
	}

	logger = log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	persister, err = storage.New(cfg.Backend, cfg.DataDir)
	return err
}

// getEngine loads the store and runs the daily roll-forward once.
func getEngine() *engine.Engine {
	if eng != nil {
		return eng
	}
	if !persister.IsInitialized() {
		printError(agendaerrors.NotInitializedError{Path: persister.Path()})
	}

	loc, err := cfg.Location()
	if err != nil {
		printError(err)
	}
	e := engine.New(nil, persister, engine.WithLogger(logger), engine.WithLocation(loc))
	if err := e.Refresh(); err != nil {
		printError(err)
	}
	eng = e

	if cfg.AutoRoll && !noRoll {
		autoRoll(e)
	}
	return e
}

// autoRoll rolls stale dates forward if this is the first run today.
// Failures here never block the command the user asked for.
func autoRoll(e *engine.Engine) {
	today := e.Today()
	claimed, err := session.Claim(cfg.DataDir, today, time.Now())
	if err != nil {
		logger.WithError(err).Warn("could not read maintenance state")
		return
	}
	if !claimed {
		return
	}

	report, err := e.RollForward(today)
	if err != nil && !warnPersist(err) {
		logger.WithError(err).Warn("roll-forward failed")
	}
	if err := session.Record(cfg.DataDir, report, time.Now()); err != nil {
		logger.WithError(err).Warn("could not record roll-forward")
	}
}

func printOutput(s string) {
	os.Stdout.WriteString(s) //nolint:gosec // stdout write errors are unrecoverable
}

func printError(err error) {
	os.Stdout.WriteString(formatter.FormatError(err)) //nolint:gosec // stdout write errors are unrecoverable
	os.Exit(1)
}

// check exits on err unless it is a PersistError, which only warns: the
// change already applied in memory.
func check(err error) {
	if err == nil {
		return
	}
	if warnPersist(err) {
		return
	}
	printError(err)
}

// warnPersist reports a PersistError on stderr and returns true for one.
func warnPersist(err error) bool {
	var pe agendaerrors.PersistError
	if !errors.As(err, &pe) {
		return false
	}
	fmt.Fprintf(os.Stderr, "warning: %v\n", pe)
	return true
}
