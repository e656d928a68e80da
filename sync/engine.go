// Package sync opens pull requests that bring fork branches up to date with
// their upstream repositories.
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/forktend/forktend/github"
	"github.com/forktend/forktend/telemetry"
)

// Outcome classifies how processing a single fork ended.
type Outcome string

const (
	// OutcomeSynced means every upstream branch was processed and each pull
	// request was either created or already open.
	OutcomeSynced Outcome = "synced"
	// OutcomeSkippedNoParent means the fork has no resolvable upstream and
	// nothing was attempted.
	OutcomeSkippedNoParent Outcome = "skipped_no_parent"
	// OutcomeNoBranches means the upstream reported zero branches.
	OutcomeNoBranches Outcome = "no_branches"
	// OutcomeFailed means listing the upstream branches failed, or at least
	// one pull request could not be created.
	OutcomeFailed Outcome = "failure"
)

// BranchResult records the result of one pull request attempt.
type BranchResult struct {
	// Branch is the branch name on both sides of the pull request.
	Branch string
	// URL is the HTML URL of the created pull request, empty otherwise.
	URL string
	// AlreadyOpen is true when an identical pull request was already open.
	AlreadyOpen bool
	// Err is the failure for this branch, nil on success and when the pull
	// request was already open.
	Err error
}

// ForkReport summarizes the processing of one fork.
type ForkReport struct {
	Fork    github.Fork
	Outcome Outcome
	// Err is set when the upstream branches could not be listed.
	Err error
	// Branches holds one result per upstream branch, in upstream order.
	Branches []BranchResult
}

// GitHub is the subset of the GitHub client the engine depends on.
type GitHub interface {
	ListForks(ctx context.Context) ([]github.Fork, error)
	ListBranches(ctx context.Context, fullName string) ([]github.Branch, error)
	OpenSyncPullRequest(ctx context.Context, forkFullName, upstreamFullName, branch string) (github.PullRequest, error)
}

// Engine synchronizes forks with their upstream repositories by opening one
// pull request per upstream branch. Branches and forks are always processed
// sequentially in the order the API returned them, and a failure on one
// branch never stops the remaining ones.
type Engine struct {
	client   GitHub
	logger   zerolog.Logger
	metrics  *telemetry.Metrics
	reporter Reporter
}

// Option is a function that can be used to configure the engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics instance for the engine.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// WithOutput sets the writer that receives user-facing progress lines.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.reporter = NewReporter(w)
	}
}

// NewEngine creates a sync engine backed by the given GitHub client.
func NewEngine(client GitHub, options ...Option) *Engine {
	e := &Engine{
		client:   client,
		logger:   zerolog.Nop(),
		reporter: NewReporter(nil),
	}
	for _, opt := range options {
		opt(e)
	}

	return e
}

// SyncFork opens one pull request per upstream branch of the fork, proposing
// that the upstream branch be merged into the fork branch of the same name.
// Every branch is attempted even when earlier ones fail.
func (e *Engine) SyncFork(ctx context.Context, fork github.Fork) ForkReport {
	start := time.Now()
	report := ForkReport{Fork: fork}

	defer func() {
		e.metrics.IncForkProcessed(ctx, string(report.Outcome))
		e.metrics.RecordSyncDuration(ctx, time.Since(start))
	}()

	if !fork.HasParent() {
		e.logger.Warn().Str("fork", fork.FullName).Msg("Fork has no resolvable upstream repository")
		e.reporter.Warning("Original repository not found for %s", fork.FullName)
		report.Outcome = OutcomeSkippedNoParent
		return report
	}

	branches, err := e.client.ListBranches(ctx, fork.Parent)
	if err != nil {
		e.logger.Error().Err(err).Str("upstream", fork.Parent).Msg("Failed to list upstream branches")
		e.reporter.Error("Failed to list branches in original repo %s: %v", fork.Parent, err)
		report.Outcome = OutcomeFailed
		report.Err = fmt.Errorf("failed to list branches of %s: %w", fork.Parent, err)
		return report
	}

	if len(branches) == 0 {
		e.reporter.Warning("No branches found in original repo: %s", fork.Parent)
		report.Outcome = OutcomeNoBranches
		return report
	}

	report.Outcome = OutcomeSynced
	for _, branch := range branches {
		result := e.syncBranch(ctx, fork, branch.Name)
		if result.Err != nil {
			report.Outcome = OutcomeFailed
		}

		report.Branches = append(report.Branches, result)
	}

	return report
}

func (e *Engine) syncBranch(ctx context.Context, fork github.Fork, branch string) BranchResult {
	result := BranchResult{Branch: branch}

	pr, err := e.client.OpenSyncPullRequest(ctx, fork.FullName, fork.Parent, branch)
	switch {
	case errors.Is(err, github.ErrPullRequestExists):
		e.logger.Debug().Str("fork", fork.FullName).Str("branch", branch).Msg("Pull request already open")
		e.reporter.Warning("Pull request already exists for branch %s in %s", branch, fork.FullName)
		result.AlreadyOpen = true
	case err != nil:
		e.logger.Error().Err(err).Str("fork", fork.FullName).Str("branch", branch).Msg("Failed to create pull request")
		e.reporter.Error("Failed to create PR for branch %s", branch)
		result.Err = err
	default:
		e.logger.Info().Str("fork", fork.FullName).Str("branch", branch).Str("url", pr.URL).Msg("Created pull request")
		e.reporter.Success("Created PR for branch %s in %s", branch, fork.FullName)
		result.URL = pr.URL
	}

	return result
}

// SyncAll lists every fork of the authenticated user and synchronizes each
// one in turn, in the order the fork catalog returned them. A failure on one
// fork never stops the remaining ones; only a failure to list the forks
// themselves is returned as an error.
func (e *Engine) SyncAll(ctx context.Context) ([]ForkReport, error) {
	forks, err := e.client.ListForks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forks: %w", err)
	}

	reports := make([]ForkReport, 0, len(forks))
	for _, fork := range forks {
		if fork.HasParent() {
			e.reporter.Info("Syncing branches from %s to %s...", fork.Parent, fork.FullName)
		}

		reports = append(reports, e.SyncFork(ctx, fork))
	}

	return reports, nil
}
