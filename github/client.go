package github

import (
	"fmt"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_primary_ratelimit"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_secondary_ratelimit"
	"github.com/google/go-github/v73/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/forktend/forktend/base"
	"github.com/forktend/forktend/config"
	"github.com/forktend/forktend/telemetry"
)

// APIError provides enhanced error information for GitHub API operations,
// allowing callers to handle errors with appropriate business context and logging.
type APIError struct {
	Operation  string // The operation being performed (e.g., "list_forks", "create_pull_request")
	Repo       string // The repository full name ("owner/repo") if applicable
	Branch     string // The branch name if applicable
	StatusCode int    // HTTP status code if available
	Underlying error  // The underlying error that occurred
}

func (e *APIError) Error() string {
	context := ""
	if e.Repo != "" {
		context = fmt.Sprintf(" for %s", e.Repo)
		if e.Branch != "" {
			context += fmt.Sprintf(" (branch: %s)", e.Branch)
		}
	}

	if e.StatusCode != 0 {
		return fmt.Sprintf("github %s operation failed%s (status %d): %v", e.Operation, context, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("github %s operation failed%s: %v", e.Operation, context, e.Underlying)
}

func (e *APIError) Unwrap() error {
	return e.Underlying
}

// Client is the authenticated GitHub API client.
type Client struct {
	// Rest is the GitHub REST API client.
	Rest *github.Client
	// Username is the login of the user whose forks are managed.
	Username string

	// tokenSource is used to authenticate requests.
	tokenSource oauth2.TokenSource
	// metrics is the telemetry metrics instance, nil when telemetry is disabled.
	metrics *telemetry.Metrics
}

// ClientOption is a function that can be used to configure the GitHub client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	github  config.GitHub
	logger  zerolog.Logger
	metrics *telemetry.Metrics
}

// WithConfig uses the application config to set up authentication.
func WithConfig(cfg config.Config) ClientOption {
	return func(c *clientOptions) {
		c.github = cfg.GitHub
	}
}

// WithLogger sets the logger for the GitHub client.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *clientOptions) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics instance for the GitHub client.
func WithMetrics(metrics *telemetry.Metrics) ClientOption {
	return func(c *clientOptions) {
		c.metrics = metrics
	}
}

// NewClient creates a new GitHub REST API client with the provided configuration.
func NewClient(options ...ClientOption) (*Client, error) {
	opts := &clientOptions{
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(opts)
	}

	client := &Client{
		Username: opts.github.Username,
		metrics:  opts.metrics,
	}

	var err error
	client.tokenSource, err = setupAuth(opts.logger, opts.github)
	if err != nil {
		return nil, fmt.Errorf("failed to setup authentication: %w", err)
	}

	onPrimaryRateLimitHit := func(ctx *github_primary_ratelimit.CallbackContext) {
		l := opts.logger.Debug().Str("limit", "primary")
		if ctx.Request != nil {
			l = l.Str("request_url", ctx.Request.URL.String())
		}
		if ctx.Response != nil {
			l = l.Int("status", ctx.Response.StatusCode)
		}
		if ctx.Category != "" {
			l = l.Str("category", string(ctx.Category))
		}
		if ctx.ResetTime != nil {
			l = l.Str("reset_time", ctx.ResetTime.String())
		}
		l.Msg(base.RateLimitHitMsg)

		if ctx.Request != nil {
			client.metrics.IncGitHubRateLimitHit(ctx.Request.Context())
		}
	}

	onSecondaryRateLimitHit := func(ctx *github_secondary_ratelimit.CallbackContext) {
		l := opts.logger.Debug().Str("limit", "secondary")
		if ctx.Request != nil {
			l = l.Str("request_url", ctx.Request.URL.String())
		}
		if ctx.Response != nil {
			l = l.Int("status", ctx.Response.StatusCode)
		}
		if ctx.ResetTime != nil {
			l = l.Str("reset_time", ctx.ResetTime.String())
		}
		if ctx.TotalSleepTime != nil {
			l = l.Str("total_sleep_time", ctx.TotalSleepTime.String())
		}
		l.Msg(base.RateLimitHitMsg)

		if ctx.Request != nil {
			client.metrics.IncGitHubRateLimitHit(ctx.Request.Context())
		}
	}

	// Base HTTP transport with logging middleware
	baseTransport := base.NewTransport("github-rest", base.WithLogger(opts.logger))

	if client.tokenSource != nil {
		baseTransport = &oauth2.Transport{
			Source: client.tokenSource,
			Base:   baseTransport,
		}
	}

	rateLimiter := github_ratelimit.NewClient(
		baseTransport,
		github_primary_ratelimit.WithLimitDetectedCallback(onPrimaryRateLimitHit),
		github_secondary_ratelimit.WithLimitDetectedCallback(onSecondaryRateLimitHit),
	)

	client.Rest = github.NewClient(rateLimiter)

	if opts.github.BaseURL != "" && opts.github.BaseURL != config.DefaultGitHubBaseURL {
		client.Rest, err = client.Rest.WithEnterpriseURLs(opts.github.BaseURL, opts.github.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set GitHub base URL: %w", err)
		}
	}

	return client, nil
}

// ParseFullName splits a repository full name ("owner/repo") into its parts.
func ParseFullName(fullName string) (owner, repo string, err error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository full name %q, expected: owner/repo", fullName)
	}

	return parts[0], parts[1], nil
}
