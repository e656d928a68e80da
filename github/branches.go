package github

import (
	"context"
	"time"

	"github.com/google/go-github/v73/github"
)

// Branch is a branch of a repository. Only the name is consumed.
type Branch struct {
	Name string
}

// ListBranches lists the branches of the named repository.
func (c *Client) ListBranches(ctx context.Context, fullName string) ([]Branch, error) {
	owner, repo, err := ParseFullName(fullName)
	if err != nil {
		return nil, &APIError{
			Operation:  "list_branches",
			Repo:       fullName,
			Underlying: err,
		}
	}

	start := time.Now()
	defer func() {
		c.metrics.RecordGitHubAPILatency(ctx, "list_branches", time.Since(start))
	}()

	output := make([]Branch, 0)
	opt := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		branches, resp, err := c.Rest.Repositories.ListBranches(ctx, owner, repo, opt)
		if err != nil {
			c.metrics.IncGitHubCall(ctx, "list_branches", "failure")
			return nil, &APIError{
				Operation:  "list_branches",
				Repo:       fullName,
				StatusCode: statusCode(resp),
				Underlying: err,
			}
		}

		for _, branch := range branches {
			output = append(output, Branch{Name: branch.GetName()})
		}

		if resp.NextPage == 0 {
			break
		}

		opt.Page = resp.NextPage
	}

	c.metrics.IncGitHubCall(ctx, "list_branches", "success")
	return output, nil
}
