package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/nbafuse/internal/config"
	"github.com/rewired-gh/nbafuse/internal/logger"
)

// Stages accepted by --stage.
const (
	stageCollect = "collect"
	stageTrain   = "train"
	stagePredict = "predict"
	stageAll     = "all"
)

var stageOrder = []string{stageCollect, stageTrain, stagePredict}

type options struct {
	configPath string
	stage      string
	sportsbook string
	kelly      bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "nbafuse",
		Short: "NBA statistics and odds pipeline",
		Long: `Collects daily team statistics and sportsbook odds, fuses them into a
feature table, trains the money-line and over/under models and predicts
today's games.

Examples:
  nbafuse --stage collect
  nbafuse --stage predict --sportsbook draftkings --kc`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "configs/config.toml", "Path to configuration file")
	flags.StringVar(&opts.stage, "stage", stageAll, "Pipeline stage to run: collect, train, predict or all")
	flags.StringVar(&opts.sportsbook, "sportsbook", "", "Sportsbook for predictions ("+strings.Join(config.Sportsbooks, ", ")+")")
	flags.BoolVar(&opts.kelly, "kc", false, "Show expected value and Kelly criterion stakes")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func (o *options) validate() error {
	if o.stage != stageAll && !slices.Contains(stageOrder, o.stage) {
		return fmt.Errorf("invalid --stage %q: must be one of collect, train, predict, all", o.stage)
	}
	if o.sportsbook != "" && !config.ValidSportsbook(o.sportsbook) {
		return fmt.Errorf("invalid --sportsbook %q: must be one of %s", o.sportsbook, strings.Join(config.Sportsbooks, ", "))
	}
	return nil
}

// stages expands --stage into the stages to run, in pipeline order.
func (o *options) stages() []string {
	if o.stage == stageAll {
		return stageOrder
	}
	return []string{o.stage}
}

func run(parent context.Context, opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return err
	}
	if opts.sportsbook != "" {
		cfg.Sportsbook.Predict = opts.sportsbook
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return err
	}

	initLogging(cfg)
	defer logger.Close() //nolint:errcheck
	logger.Info("Configuration loaded from %s", opts.configPath)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, opts.kelly)
	if err != nil {
		logger.Error("Startup failed: %v", err)
		return err
	}
	defer a.Close()

	for _, stage := range opts.stages() {
		logger.Info("Running stage %s", stage)
		if err := a.runStage(ctx, stage); err != nil {
			logger.Error("Stage %s failed: %v", stage, err)
			a.notifyError(stage, err)
			return err
		}
	}
	logger.Info("Pipeline finished")
	return nil
}

func initLogging(cfg *config.Config) {
	if cfg.Logging.File == "" {
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		return
	}
	logger.InitFile(cfg.Logging.Level, cfg.Logging.Format, logger.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
}
