package github

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSyncPullRequest(t *testing.T) {
	t.Parallel()

	var captured github.NewPullRequest
	client := createTestClient(
		mock.WithRequestMatchHandler(
			mock.PostReposPullsByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(github.PullRequest{
					Number:  github.Ptr(42),
					HTMLURL: github.Ptr("https://github.com/testuser/tool/pull/42"),
				})
			}),
		),
	)

	pr, err := client.OpenSyncPullRequest(context.Background(), "testuser/tool", "upstream-org/tool", "main")
	require.NoError(t, err)

	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "https://github.com/testuser/tool/pull/42", pr.URL)
	assert.Equal(t, "main", pr.Branch)

	assert.Equal(t, "Sync branch main", captured.GetTitle())
	assert.Equal(t, "Syncing branch main from upstream-org/tool.", captured.GetBody())
	assert.Equal(t, "upstream-org/tool:main", captured.GetHead())
	assert.Equal(t, "main", captured.GetBase())
}

func TestOpenSyncPullRequestAlreadyExists(t *testing.T) {
	t.Parallel()

	client := createTestClient(
		mock.WithRequestMatchHandler(
			mock.PostReposPullsByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{
					"message": "Validation Failed",
					"errors": [
						{
							"resource": "PullRequest",
							"code": "custom",
							"message": "A pull request already exists for upstream-org:main."
						}
					]
				}`))
			}),
		),
	)

	pr, err := client.OpenSyncPullRequest(context.Background(), "testuser/tool", "upstream-org/tool", "main")
	require.ErrorIs(t, err, ErrPullRequestExists)
	assert.Equal(t, "main", pr.Branch)
}

func TestOpenSyncPullRequestValidationError(t *testing.T) {
	t.Parallel()

	// A 422 without an "already exists" validation error is a real failure,
	// e.g. the branch does not exist on the upstream.
	client := createTestClient(
		mock.WithRequestMatchHandler(
			mock.PostReposPullsByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{
					"message": "Validation Failed",
					"errors": [
						{
							"resource": "PullRequest",
							"field": "head",
							"code": "invalid"
						}
					]
				}`))
			}),
		),
	)

	_, err := client.OpenSyncPullRequest(context.Background(), "testuser/tool", "upstream-org/tool", "gone")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPullRequestExists)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "create_pull_request", apiErr.Operation)
	assert.Equal(t, "testuser/tool", apiErr.Repo)
	assert.Equal(t, "gone", apiErr.Branch)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestOpenSyncPullRequestServerError(t *testing.T) {
	t.Parallel()

	client := createTestClient(
		mock.WithRequestMatchHandler(
			mock.PostReposPullsByOwnerByRepo,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mock.WriteError(w, http.StatusInternalServerError, "Server Error")
			}),
		),
	)

	_, err := client.OpenSyncPullRequest(context.Background(), "testuser/tool", "upstream-org/tool", "main")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestOpenSyncPullRequestInvalidName(t *testing.T) {
	t.Parallel()

	client := createTestClient()

	_, err := client.OpenSyncPullRequest(context.Background(), "bogus", "upstream-org/tool", "main")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "create_pull_request", apiErr.Operation)
}
