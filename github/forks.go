package github

import (
	"context"
	"time"

	"github.com/google/go-github/v73/github"
)

// Fork is a repository owned by the authenticated user that was forked from
// another repository.
type Fork struct {
	// FullName is the "owner/repo" identifier of the fork.
	FullName string
	// Parent is the "owner/repo" identifier of the upstream repository,
	// empty when the API returned no parent reference.
	Parent string
}

// HasParent reports whether the upstream repository of the fork is known.
// A fork without a resolvable parent cannot be synchronized.
func (f Fork) HasParent() bool {
	return f.Parent != ""
}

// ListForks lists the repositories of the authenticated user that are forks.
// The catalog is fetched fresh on every call; nothing is cached.
func (c *Client) ListForks(ctx context.Context) ([]Fork, error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordGitHubAPILatency(ctx, "list_forks", time.Since(start))
	}()

	output := make([]Fork, 0)
	opt := &github.RepositoryListByAuthenticatedUserOptions{
		Type:        "fork",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		repos, resp, err := c.Rest.Repositories.ListByAuthenticatedUser(ctx, opt)
		if err != nil {
			c.metrics.IncGitHubCall(ctx, "list_forks", "failure")
			return nil, &APIError{
				Operation:  "list_forks",
				StatusCode: statusCode(resp),
				Underlying: err,
			}
		}

		for _, repo := range repos {
			fork := Fork{FullName: repo.GetFullName()}
			if repo.Parent != nil {
				fork.Parent = repo.Parent.GetFullName()
			}

			output = append(output, fork)
		}

		if resp.NextPage == 0 {
			break
		}

		opt.Page = resp.NextPage
	}

	c.metrics.IncGitHubCall(ctx, "list_forks", "success")
	return output, nil
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}

	return resp.StatusCode
}
