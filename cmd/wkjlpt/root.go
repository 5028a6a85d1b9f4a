package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/wkjlpt/pkg/config"
	"github.com/japaniel/wkjlpt/pkg/db"
	"github.com/japaniel/wkjlpt/pkg/jlpt"
	"github.com/japaniel/wkjlpt/pkg/logging"
	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	dataDir    string
	dbPath     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger

	// httpClient overrides the client used for service and article requests.
	httpClient *http.Client
	in         io.Reader
	out        io.Writer
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{in: in, out: out}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "wkjlpt",
		Short: "Reconcile WaniKani vocabulary with the JLPT lists",
		Long: `wkjlpt cross-references your WaniKani subjects and assignments with the
JLPT vocabulary lists to promote lessons, list readable vocabulary, build a
study order and manage radical study materials.

The API token is read from WANIKANI_API_KEY.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file (default $WKJLPT_CONFIG)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory holding jlpt-n*.json and kanji.json")
	pf.StringVar(&a.dbPath, "db", "", "path to the promotion ledger database")

	root.AddCommand(
		newMoveCmd(a),
		newShowCmd(a),
		newVocabListCmd(a),
		newRadicalsExportCmd(a),
		newRadicalsSyncCmd(a),
		newSelectCmd(a),
		newStatsCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger. Flags win over the
// config file and environment.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Logging.Level, a.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = logger
	}
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("data_dir", cfg.Data.Dir),
		zap.String("db", cfg.Database.Path),
		zap.String("api", cfg.API.BaseURL))
	return nil
}

// client validates the credential and builds the service client.
func (a *app) client() (*wanikani.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	opts := []wanikani.Option{wanikani.WithLogger(a.logger)}
	if a.httpClient != nil {
		opts = append(opts, wanikani.WithHTTPClient(a.httpClient))
	}
	return wanikani.NewClient(a.cfg.WaniKani(), opts...)
}

// ledger opens the promotion database, or returns nil when it is disabled.
func (a *app) ledger() (*sql.DB, error) {
	if a.cfg.Database.Disabled || a.cfg.Database.Path == "" {
		return nil, nil
	}
	conn, err := db.Open(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", a.cfg.Database.Path, err)
	}
	return conn, nil
}

// intFlag returns the flag value if it was set, else the configured default.
func intFlag(cmd *cobra.Command, name string, v, fallback int) int {
	if cmd.Flags().Changed(name) {
		return v
	}
	return fallback
}

func checkLevel(level int) error {
	if !jlpt.ValidLevel(level) {
		return fmt.Errorf("invalid JLPT level %d: must be between 1 and 5", level)
	}
	return nil
}
