// Package config provides the configuration for the application.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultLogLevel is the default log level for the application.
	DefaultLogLevel = "info"
	// DefaultLogPath is the default append-only log file.
	DefaultLogPath = "forktend.log"
	// DefaultGitHubBaseURL is the default base URL for the GitHub API.
	DefaultGitHubBaseURL = "https://api.github.com"

	// EnvVarLogLevel is the environment variable for the log level.
	EnvVarLogLevel = "LOG_LEVEL"
	// EnvVarLogPath is the environment variable for the log file path.
	EnvVarLogPath = "LOG_PATH"
)

// ErrMissingCredentials is returned when the required GitHub credentials are absent.
var ErrMissingCredentials = errors.New(
	"missing GitHub credentials: set GITHUB_USERNAME and GITHUB_TOKEN in your environment " +
		"(or configure a GitHub App via GITHUB_APP_ID, GITHUB_PRIVATE_KEY and GITHUB_INSTALLATION_ID)",
)

// These variables are set at build time and describe the version and build of the application
var (
	Version   string
	Commit    string
	BuildTime = time.Now().Format("2006-01-02T15:04:05.000")
	BuiltBy   = "local"
	BuiltWith = runtime.Version()
)

// VersionString gives a full string of the version of the application.
func VersionString() string {
	return fmt.Sprintf(
		"%s on commit %s, built at %s with %s by %s",
		Version,
		Commit,
		BuildTime,
		BuiltWith,
		BuiltBy,
	)
}

// Config is the application configuration, set by flags, then by environment variables.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogPath  string `mapstructure:"LOG_PATH"`

	GitHub    GitHub    `mapstructure:",squash"`
	Telemetry Telemetry `mapstructure:",squash"`
}

// GitHub configures authentication to the GitHub API.
type GitHub struct {
	BaseURL  string `mapstructure:"GITHUB_BASE_URL"`
	Username string `mapstructure:"GITHUB_USERNAME"`
	// Personal access token
	Token string `mapstructure:"GITHUB_TOKEN"`
	// Or use a GitHub App
	AppID          string `mapstructure:"GITHUB_APP_ID"`
	PrivateKey     string `mapstructure:"GITHUB_PRIVATE_KEY"`
	PrivateKeyFile string `mapstructure:"GITHUB_PRIVATE_KEY_FILE"`
	InstallationID string `mapstructure:"GITHUB_INSTALLATION_ID"`
}

// Telemetry configures the OpenTelemetry metrics exporter.
type Telemetry struct {
	MetricsExporter string `mapstructure:"TELEMETRY_METRICS_EXPORTER"`
	MetricsEndpoint string `mapstructure:"TELEMETRY_METRICS_ENDPOINT"`
}

// Validate checks that the credentials required to call the GitHub API are present.
// It runs before any API call is made; a failure here terminates the process.
func (c Config) Validate() error {
	if c.GitHub.Username == "" {
		return ErrMissingCredentials
	}

	hasToken := c.GitHub.Token != ""
	hasApp := c.GitHub.AppID != "" &&
		c.GitHub.InstallationID != "" &&
		(c.GitHub.PrivateKey != "" || c.GitHub.PrivateKeyFile != "")

	if !hasToken && !hasApp {
		return ErrMissingCredentials
	}

	return nil
}

// GetSecrets returns all secret values so that log sinks can redact them.
func (c Config) GetSecrets() []string {
	secrets := make([]string, 0, 2)
	if c.GitHub.Token != "" {
		secrets = append(secrets, c.GitHub.Token)
	}
	if c.GitHub.PrivateKey != "" {
		secrets = append(secrets, c.GitHub.PrivateKey)
	}

	return secrets
}

// MarshalJSON renders the config for debug logging with secret values masked.
func (c Config) MarshalJSON() ([]byte, error) {
	masked := c
	if masked.GitHub.Token != "" {
		masked.GitHub.Token = "***"
	}
	if masked.GitHub.PrivateKey != "" {
		masked.GitHub.PrivateKey = "***"
	}

	type alias Config // avoid recursing into MarshalJSON
	return json.Marshal(alias(masked))
}

// Option is a function that can be used to configure loading the config.
type Option func(*configOptions)

type configOptions struct {
	configFile string
	viper      *viper.Viper
}

// WithConfigFile sets the exact config file to load.
func WithConfigFile(configFile string) Option {
	return func(cfg *configOptions) {
		cfg.configFile = configFile
	}
}

// WithViper sets a custom viper instance to use. Useful for testing.
func WithViper(v *viper.Viper) Option {
	return func(cfg *configOptions) {
		cfg.viper = v
	}
}

// Load loads config from environment variables and flags.
func Load(options ...Option) (Config, error) {
	opts := &configOptions{
		configFile: ".env",
		viper:      viper.GetViper(), // Use the global viper instance by default
	}
	for _, opt := range options {
		opt(opts)
	}

	v := opts.viper
	if v == nil {
		v = viper.New()
		setupViperDefaults(v)
	}

	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		// Ignore config file not found error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// MustLoad is Load but panics if there is an error.
func MustLoad(options ...Option) Config {
	cfg, err := Load(options...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func init() {
	// Version setup
	buildInfo, ok := debug.ReadBuildInfo()
	if ok {
		if Version == "" {
			Version = buildInfo.Main.Version
		}
		if Commit == "" {
			Commit = buildInfo.Main.Sum
		}
		BuiltWith = buildInfo.GoVersion
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "dev"
	}

	setupViperDefaults(viper.GetViper())
}

// setupViperDefaults configures viper with defaults for all configuration fields
func setupViperDefaults(v *viper.Viper) {
	v.SetDefault(EnvVarLogLevel, DefaultLogLevel)
	v.SetDefault(EnvVarLogPath, DefaultLogPath)
	v.SetDefault("GITHUB_BASE_URL", DefaultGitHubBaseURL)

	// Handle dashes in CLI flags
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Automatically bind all environment variables based on struct tags
	if err := bindEnvsFromStruct(v, reflect.TypeOf(Config{})); err != nil {
		panic(err)
	}

	v.AutomaticEnv()
}

// bindEnvsFromStruct binds environment variables to viper based on struct tags.
// Avoids having to manually viper.BindEnv for each field.
func bindEnvsFromStruct(v *viper.Viper, t reflect.Type) error {
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("type %s is not a struct", t.Name())
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		// Skip fields without a mapstructure tag
		if tag == "" {
			continue
		}
		if strings.Contains(tag, ",squash") {
			// Handle embedded structs with squash
			if err := bindEnvsFromStruct(v, field.Type); err != nil {
				return err
			}
			continue
		}
		if tag == "-" {
			continue
		}
		if err := v.BindEnv(tag); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", tag, err)
		}
	}
	return nil
}
