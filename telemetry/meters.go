package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	githubMeter = otel.Meter("forktend/github")
	syncMeter   = otel.Meter("forktend/sync")
)

// GitHub API Metrics

// IncGitHubCall increments the GitHub API call counter by operation and outcome.
func (m *Metrics) IncGitHubCall(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	counter, _ := githubMeter.Int64Counter("github.api.calls",
		metric.WithDescription("Count of GitHub API calls"),
		metric.WithUnit("1"))
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome), // success, failure
	))
}

// RecordGitHubAPILatency records GitHub API call latency.
func (m *Metrics) RecordGitHubAPILatency(ctx context.Context, operation string, duration time.Duration) {
	if m == nil {
		return
	}
	histogram, _ := githubMeter.Float64Histogram("github.api.latency",
		metric.WithDescription("GitHub API call latency"),
		metric.WithUnit("ms"))
	histogram.Record(ctx, duration.Seconds()*1000, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// IncGitHubRateLimitHit increments GitHub rate limit hits.
func (m *Metrics) IncGitHubRateLimitHit(ctx context.Context) {
	if m == nil {
		return
	}
	counter, _ := githubMeter.Int64Counter("github.rate.limit.hits",
		metric.WithDescription("Count of GitHub rate limit hits"),
		metric.WithUnit("1"))
	counter.Add(ctx, 1)
}

// Sync Metrics

// IncPullRequestOpened increments the pull request counter by outcome.
func (m *Metrics) IncPullRequestOpened(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	counter, _ := syncMeter.Int64Counter("sync.pull.requests",
		metric.WithDescription("Count of sync pull requests attempted"),
		metric.WithUnit("1"))
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome), // opened, already_open, failure
	))
}

// IncForkProcessed increments the fork counter by result.
func (m *Metrics) IncForkProcessed(ctx context.Context, result string) {
	if m == nil {
		return
	}
	counter, _ := syncMeter.Int64Counter("sync.forks.processed",
		metric.WithDescription("Count of forks processed during sync"),
		metric.WithUnit("1"))
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result), // synced, skipped_no_parent, no_branches, failure
	))
}

// RecordSyncDuration records the time taken to sync one fork.
func (m *Metrics) RecordSyncDuration(ctx context.Context, duration time.Duration) {
	if m == nil {
		return
	}
	histogram, _ := syncMeter.Float64Histogram("sync.duration",
		metric.WithDescription("Duration of a fork sync"),
		metric.WithUnit("ms"))
	histogram.Record(ctx, duration.Seconds()*1000)
}
