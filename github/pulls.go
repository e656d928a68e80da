package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v73/github"
)

// ErrPullRequestExists is returned when GitHub rejects a pull request because
// an identical one is already open for the branch.
var ErrPullRequestExists = errors.New("pull request already exists")

// PullRequest describes a pull request opened on a fork.
type PullRequest struct {
	Number int
	URL    string
	Branch string
}

// OpenSyncPullRequest opens a pull request on the fork proposing that the
// upstream's branch be merged into the fork's branch of the same name:
// head is "upstream:branch", base is "branch".
func (c *Client) OpenSyncPullRequest(ctx context.Context, forkFullName, upstreamFullName, branch string) (PullRequest, error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordGitHubAPILatency(ctx, "create_pull_request", time.Since(start))
	}()

	owner, repo, err := ParseFullName(forkFullName)
	if err != nil {
		return PullRequest{}, &APIError{
			Operation:  "create_pull_request",
			Repo:       forkFullName,
			Branch:     branch,
			Underlying: err,
		}
	}

	pr, resp, err := c.Rest.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(fmt.Sprintf("Sync branch %s", branch)),
		Body:  github.Ptr(fmt.Sprintf("Syncing branch %s from %s.", branch, upstreamFullName)),
		Head:  github.Ptr(fmt.Sprintf("%s:%s", upstreamFullName, branch)),
		Base:  github.Ptr(branch),
	})
	if err != nil {
		if isAlreadyExists(resp, err) {
			c.metrics.IncPullRequestOpened(ctx, "already_open")
			return PullRequest{Branch: branch}, ErrPullRequestExists
		}

		c.metrics.IncGitHubCall(ctx, "create_pull_request", "failure")
		c.metrics.IncPullRequestOpened(ctx, "failure")
		return PullRequest{}, &APIError{
			Operation:  "create_pull_request",
			Repo:       forkFullName,
			Branch:     branch,
			StatusCode: statusCode(resp),
			Underlying: err,
		}
	}

	c.metrics.IncGitHubCall(ctx, "create_pull_request", "success")
	c.metrics.IncPullRequestOpened(ctx, "opened")

	return PullRequest{
		Number: pr.GetNumber(),
		URL:    pr.GetHTMLURL(),
		Branch: branch,
	}, nil
}

// isAlreadyExists reports whether GitHub rejected the pull request because an
// identical one is already open (422 with an "already exists" validation error).
func isAlreadyExists(resp *github.Response, err error) bool {
	if statusCode(resp) != http.StatusUnprocessableEntity {
		return false
	}

	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return false
	}

	for _, e := range ghErr.Errors {
		if strings.Contains(strings.ToLower(e.Message), "already exists") {
			return true
		}
	}

	return false
}
