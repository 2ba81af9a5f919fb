// Package cli implements the sscs command line: the case record rules
// against local JSON files, the DWP office table, and the case-update
// workflow against the case store.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/sscs-case-core/internal/config"
	"github.com/turtacn/sscs-case-core/internal/domain/casedata"
	"github.com/turtacn/sscs-case-core/internal/domain/dwp"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sscs-case-core/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/sscs-case-core/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

const metricsPushTimeout = 5 * time.Second

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Timeout      time.Duration
}

// Dependencies replaces collaborators the root command would otherwise
// build from configuration. Nil fields are built as usual.
type Dependencies struct {
	Logger    logging.Logger
	Store     casedata.CaseStore
	Publisher casedata.EventPublisher
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Resolver     *dwp.Resolver
	Metrics      *prometheus.CaseMetrics
	OutputFormat string
	Timeout      time.Duration

	pusher *prometheus.Pusher
	deps   Dependencies
}

// NewRootCommand creates the sscs root command with its global flags and
// every subcommand. deps may be nil.
func NewRootCommand(deps *Dependencies) *cobra.Command {
	opts := &RootOptions{}
	if deps == nil {
		deps = &Dependencies{}
	}

	cmd := &cobra.Command{
		Use:     "sscs",
		Short:   "SSCS tribunal case record rules",
		Long:    "sscs applies the tribunal case record rules: collection ordering, latest\ndocument selection, the translation work flag and DWP office resolution.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, *deps)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPostRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./sscs.yaml, ~/.sscs/config.yaml, /etc/sscs/config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json, table)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "timeout for case store commands")

	cmd.AddCommand(
		newCaseCmd(),
		newOfficeCmd(),
		newCCDCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger, metrics and the office
// resolver, then stores the CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Dependencies) error {
	switch strings.ToLower(opts.OutputFormat) {
	case "text", "json", "table":
	default:
		return errors.New(errors.CodeInvalidParam, "invalid output format").
			WithDetail(fmt.Sprintf("%q; expected text|json|table", opts.OutputFormat))
	}
	if opts.Timeout <= 0 {
		return errors.New(errors.CodeInvalidParam, "timeout must be positive")
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := deps.Logger
	if logger == nil {
		logger, err = initLogger(cfg, opts)
		if err != nil {
			return fmt.Errorf("logger initialization failed: %w", err)
		}
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace: metricsNamespace(cfg),
	}, logger)
	if err != nil {
		return fmt.Errorf("metrics initialization failed: %w", err)
	}
	metrics := prometheus.NewCaseMetrics(collector)

	resolver, err := initResolver(cfg, logger, metrics)
	if err != nil {
		return fmt.Errorf("dwp office table initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		Resolver:     resolver,
		Metrics:      metrics,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Timeout:      opts.Timeout,
		pusher:       prometheus.NewPusher(cfg.Metrics, collector, logger),
		deps:         deps,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

// persistentPostRun pushes the run's metrics. A push failure is logged and
// does not fail the command.
func persistentPostRun(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), metricsPushTimeout)
	defer cancel()
	_ = cliCtx.pusher.Push(ctx)
	_ = cliCtx.Logger.Sync()
	return nil
}

// initConfig loads the explicit config file, else the first file found on
// the search path, else the SSCS_* environment alone.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}
	for _, p := range configSearchPaths() {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

func configSearchPaths() []string {
	paths := []string{"./sscs.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".sscs", "config.yaml"))
	}
	return append(paths, "/etc/sscs/config.yaml")
}

// initLogger builds the logger from the log section. Command output goes to
// stdout, so logs default to stderr.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	logCfg := cfg.Log.ToLogging()
	if opts.LogLevel != "" {
		switch strings.ToLower(opts.LogLevel) {
		case "debug", "info", "warn", "error":
		default:
			return nil, errors.New(errors.CodeInvalidParam, "invalid log level").WithDetail(opts.LogLevel)
		}
		logCfg.Level = logging.ParseLevel(opts.LogLevel)
	}
	if len(logCfg.OutputPaths) == 0 || (len(logCfg.OutputPaths) == 1 && logCfg.OutputPaths[0] == "stdout") {
		logCfg.OutputPaths = []string{"stderr"}
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, err
	}
	return logger.Named("sscs"), nil
}

func initResolver(cfg *config.Config, logger logging.Logger, observer dwp.LookupObserver) (*dwp.Resolver, error) {
	table, err := dwp.LoadTableOrBundled(cfg.Reference.DwpAddressesPath)
	if err != nil {
		return nil, err
	}
	return dwp.NewResolver(table, logger, dwp.WithObserver(observer))
}

func metricsNamespace(cfg *config.Config) string {
	if cfg.Metrics.Namespace != "" {
		return cfg.Metrics.Namespace
	}
	return config.DefaultMetricsNamespace
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand(nil)
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}
