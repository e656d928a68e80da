package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forktend/forktend/config"
	"github.com/forktend/forktend/sync"
)

func TestRoot_Config(t *testing.T) {
	var (
		defaultLogLevel        string
		defaultLogPath         string
		defaultGitHubBaseURL   string
		defaultMetricsEndpoint string
		err                    error
	)
	defaultLogLevel, err = config.GetDefault[string]("log-level")
	require.NoError(t, err)
	defaultLogPath, err = config.GetDefault[string]("log-path")
	require.NoError(t, err)
	defaultGitHubBaseURL, err = config.GetDefault[string]("github-base-url")
	require.NoError(t, err)
	defaultMetricsEndpoint, err = config.GetDefault[string]("metrics-endpoint")
	require.NoError(t, err)

	testCases := []struct {
		name    string
		envVars map[string]string
		flags   []string

		expectedConfig config.Config
	}{
		{
			name: "default config",
			envVars: map[string]string{
				"GITHUB_USERNAME": "",
				"GITHUB_TOKEN":    "",
			},
			expectedConfig: config.Config{
				LogLevel: defaultLogLevel,
				LogPath:  defaultLogPath,
				GitHub: config.GitHub{
					BaseURL: defaultGitHubBaseURL,
				},
				Telemetry: config.Telemetry{
					MetricsEndpoint: defaultMetricsEndpoint,
				},
			},
		},
		{
			name: "env vars override default config",
			envVars: map[string]string{
				"LOG_LEVEL":       "error",
				"GITHUB_USERNAME": "octocat",
				"GITHUB_TOKEN":    "env-token",
				"GITHUB_BASE_URL": "https://api.github.com/test",
			},
			expectedConfig: config.Config{
				LogLevel: "error",
				LogPath:  defaultLogPath,
				GitHub: config.GitHub{
					BaseURL:  "https://api.github.com/test",
					Username: "octocat",
					Token:    "env-token",
				},
				Telemetry: config.Telemetry{
					MetricsEndpoint: defaultMetricsEndpoint,
				},
			},
		},
		{
			name: "flags override env vars",
			envVars: map[string]string{
				"LOG_LEVEL":       "error",
				"GITHUB_USERNAME": "octocat",
				"GITHUB_TOKEN":    "env-token",
			},
			flags: []string{
				"--log-level", "debug",
				"--github-username", "flag-user",
				"--github-token", "flag-token",
			},
			expectedConfig: config.Config{
				LogLevel: "debug",
				LogPath:  defaultLogPath,
				GitHub: config.GitHub{
					BaseURL:  defaultGitHubBaseURL,
					Username: "flag-user",
					Token:    "flag-token",
				},
				Telemetry: config.Telemetry{
					MetricsEndpoint: defaultMetricsEndpoint,
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for key, value := range tc.envVars {
				t.Setenv(key, value)
			}

			// Flags override env vars through the shared viper instance
			require.NoError(t, root.ParseFlags(tc.flags))

			cfg, err := config.Load(config.WithViper(v), config.WithConfigFile(""))
			require.NoError(t, err)

			assert.Equal(
				t,
				tc.expectedConfig,
				cfg,
				"config should be properly set with flags > env vars > .env file > default values",
			)
		})
	}
}

func TestFailedReportsError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, failedReportsError(nil))
	assert.NoError(t, failedReportsError([]sync.ForkReport{
		{Outcome: sync.OutcomeSynced},
		{Outcome: sync.OutcomeSkippedNoParent},
		{Outcome: sync.OutcomeNoBranches},
	}))

	err := failedReportsError([]sync.ForkReport{
		{Outcome: sync.OutcomeSynced},
		{Outcome: sync.OutcomeFailed},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 forks failed to sync")
}
