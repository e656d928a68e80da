// Package cmd provides the CLI for the forktend application.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forktend/forktend/config"
	"github.com/forktend/forktend/github"
	"github.com/forktend/forktend/logging"
	"github.com/forktend/forktend/menu"
	"github.com/forktend/forktend/sync"
	"github.com/forktend/forktend/telemetry"
)

var (
	v         = viper.New()
	appConfig config.Config
	logger    zerolog.Logger
)

// root is the root command for the CLI.
var root = &cobra.Command{
	Use:   "forktend",
	Short: "Forktend keeps your GitHub forks in sync with their upstream repositories",
	Long: `
Forktend manages the forks of a GitHub account. It lists your forks and their
branches, and syncs forks by opening one pull request per upstream branch that
proposes merging the upstream branch into the fork branch of the same name.

Run without a subcommand to get an interactive menu.

Configuration is read from CLI flags > environment variables > a .env file.
At minimum, set GITHUB_USERNAME and GITHUB_TOKEN.
`,
	Example: `
# Interactive menu
forktend
# List all forks
forktend forks
# List the branches of a fork
forktend branches myuser/myrepo
# Sync a single fork, or all of them
forktend sync myuser/myrepo
forktend sync --all
# Provide credentials via CLI flags
forktend --github-username myuser --github-token <github-token-value>
`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error

		appConfig, err = config.Load(config.WithViper(v))
		if err != nil {
			return err
		}

		if err := appConfig.Validate(); err != nil {
			return err
		}

		opts := []logging.Option{
			logging.WithLevel(appConfig.LogLevel),
			logging.WithFileName(appConfig.LogPath),
			logging.WithSecrets(appConfig.GetSecrets()),
		}

		logger, err = logging.New(opts...)
		if err != nil {
			return err
		}

		logger.Debug().Str("log_level", appConfig.LogLevel).Str("username", appConfig.GitHub.Username).Msg("Loaded config")
		marshaled, err := appConfig.MarshalJSON()
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to marshal config for logging.")
		}
		logger.Debug().Str("config", string(marshaled)).Msg("Configuration")

		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, engine, cleanup, err := setupEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		shell := menu.New(client, engine,
			menu.WithLogger(logger),
			menu.WithOutput(cmd.OutOrStdout()),
		)

		return shell.Run(cmd.Context())
	},
}

// setupEngine builds the GitHub client and sync engine shared by the
// subcommands, plus a cleanup function that flushes telemetry.
func setupEngine(cmd *cobra.Command) (*github.Client, *sync.Engine, func(), error) {
	var metrics *telemetry.Metrics
	cleanup := func() {}

	if appConfig.Telemetry.MetricsExporter != "" {
		var metricsShutdown func(context.Context) error
		var err error

		metrics, metricsShutdown, err = telemetry.NewMetrics(
			telemetry.WithContext(cmd.Context()),
			telemetry.WithExporter(appConfig.Telemetry.MetricsExporter),
			telemetry.WithOTLPEndpoint(appConfig.Telemetry.MetricsEndpoint),
		)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to initialize metrics, continuing without metrics")
		} else {
			logger.Info().
				Str("exporter", appConfig.Telemetry.MetricsExporter).
				Str("endpoint", appConfig.Telemetry.MetricsEndpoint).
				Msg("Metrics initialized")
			cleanup = func() {
				if shutdownErr := metricsShutdown(context.Background()); shutdownErr != nil {
					logger.Error().Err(shutdownErr).Msg("Failed to shutdown metrics")
				}
			}
		}
	}

	client, err := github.NewClient(
		github.WithConfig(appConfig),
		github.WithLogger(logger),
		github.WithMetrics(metrics),
	)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	engine := sync.NewEngine(client,
		sync.WithLogger(logger),
		sync.WithMetrics(metrics),
		sync.WithOutput(cmd.OutOrStdout()),
	)

	return client, engine, cleanup, nil
}

func init() {
	config.MustBindConfig(root, v)
}

// Execute is the entry point for the CLI.
func Execute() {
	if err := fang.Execute(context.Background(), root, fang.WithVersion(config.VersionString())); err != nil {
		os.Exit(1)
	}
}
