// Package cmd provides the CLI commands for incidentctl.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashokkumar81090/Hackathon/internal/app"
	"github.com/ashokkumar81090/Hackathon/internal/config"
	logpkg "github.com/ashokkumar81090/Hackathon/internal/logger"
	"github.com/ashokkumar81090/Hackathon/internal/version"
)

// cli carries state shared by all subcommands.
type cli struct {
	env        string
	configPath string
	logLevel   string

	cfg     config.Config
	logger  *zap.Logger
	appOpts app.Options
}

// Option customizes the root command.
type Option func(*cli)

// WithAppOptions replaces external dependencies of every command.
func WithAppOptions(opts app.Options) Option {
	return func(c *cli) { c.appOpts = opts }
}

// NewRootCmd creates the root command for incidentctl.
func NewRootCmd(opts ...Option) *cobra.Command {
	c := &cli{}
	for _, opt := range opts {
		opt(c)
	}

	cmd := &cobra.Command{
		Use:   "incidentctl",
		Short: "Operate the incident retrieval engine",
		Long: `incidentctl manages the incident index and queries it with keyword,
vector or hybrid search, or asks questions answered from past incidents.

Configuration is read from config/<env>.yaml (see --env and --config).`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	cmd.SetVersionTemplate("incidentctl {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&c.env, "env", config.GetEnv(), "Environment: local, dev, prod")
	cmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Config file (default config/<env>.yaml)")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Override log level: debug, info, warn, error")

	cmd.AddCommand(newIndexCmd(c))
	cmd.AddCommand(newIngestCmd(c))
	cmd.AddCommand(newSearchCmd(c))
	cmd.AddCommand(newAskCmd(c))
	cmd.AddCommand(newStatsCmd(c))
	cmd.AddCommand(newWeightsCmd(c))
	cmd.AddCommand(newMCPCmd(c))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command with signal-aware context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	if c.configPath == "" {
		c.configPath = config.FindConfigPath(c.env)
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	var err error
	if c.cfg, err = config.LoadFile(c.configPath); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := c.logLevel
	if level == "" {
		level = c.cfg.Logging.Level
	}
	logEnv := c.env
	if !logpkg.IsJSONEnv(logEnv) {
		logEnv = "local"
	}
	if c.logger, err = logpkg.NewLogger(logEnv, level); err != nil {
		return err
	}
	return nil
}

// openApp wires the services for one command; the caller must Close it.
func (c *cli) openApp(ctx context.Context) (*app.App, error) {
	a, err := app.New(ctx, c.cfg, c.logger, c.appOpts)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return a, nil
}
