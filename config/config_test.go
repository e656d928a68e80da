package config

import (
	"encoding/json"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionString(t *testing.T) {
	t.Parallel()

	versionString := VersionString()
	require.NotEmpty(t, versionString)
}

func TestLoad(t *testing.T) {
	t.Setenv("GITHUB_USERNAME", "octocat")
	t.Setenv("GITHUB_TOKEN", "ghp_test_token")

	v := viper.New()
	setupViperDefaults(v)

	cfg, err := Load(WithViper(v), WithConfigFile(""))
	require.NoError(t, err)

	assert.Equal(t, "octocat", cfg.GitHub.Username)
	assert.Equal(t, "ghp_test_token", cfg.GitHub.Token)
	assert.Equal(t, DefaultGitHubBaseURL, cfg.GitHub.BaseURL)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogPath, cfg.LogPath)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "username and token",
			config: Config{
				GitHub: GitHub{Username: "octocat", Token: "ghp_token"},
			},
		},
		{
			name: "username and github app",
			config: Config{
				GitHub: GitHub{
					Username:       "octocat",
					AppID:          "123456",
					InstallationID: "654321",
					PrivateKeyFile: "/path/to/key.pem",
				},
			},
		},
		{
			name:        "missing everything",
			config:      Config{},
			expectError: true,
		},
		{
			name: "missing username",
			config: Config{
				GitHub: GitHub{Token: "ghp_token"},
			},
			expectError: true,
		},
		{
			name: "missing token and app",
			config: Config{
				GitHub: GitHub{Username: "octocat"},
			},
			expectError: true,
		},
		{
			name: "incomplete github app",
			config: Config{
				GitHub: GitHub{Username: "octocat", AppID: "123456"},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.expectError {
				require.ErrorIs(t, err, ErrMissingCredentials)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGetSecrets(t *testing.T) {
	t.Parallel()

	cfg := Config{
		GitHub: GitHub{
			Username:   "octocat",
			Token:      "ghp_secret",
			PrivateKey: "pem-content",
		},
	}

	secrets := cfg.GetSecrets()
	assert.Contains(t, secrets, "ghp_secret")
	assert.Contains(t, secrets, "pem-content")
	assert.NotContains(t, secrets, "octocat")
}

func TestMarshalJSONRedactsSecrets(t *testing.T) {
	t.Parallel()

	cfg := Config{
		LogLevel: "debug",
		GitHub: GitHub{
			Username: "octocat",
			Token:    "ghp_super_secret",
		},
	}

	marshaled, err := json.Marshal(cfg)
	require.NoError(t, err)

	assert.NotContains(t, string(marshaled), "ghp_super_secret")
	assert.Contains(t, string(marshaled), "octocat")
}
