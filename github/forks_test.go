package github

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListForks(t *testing.T) {
	t.Parallel()

	client := createTestClient(
		mock.WithRequestMatch(
			mock.GetUserRepos,
			[]github.Repository{
				{
					FullName: github.Ptr("testuser/tool"),
					Parent:   &github.Repository{FullName: github.Ptr("upstream-org/tool")},
				},
				{
					FullName: github.Ptr("testuser/orphan"),
				},
			},
		),
	)

	forks, err := client.ListForks(context.Background())
	require.NoError(t, err)
	require.Len(t, forks, 2)

	assert.Equal(t, "testuser/tool", forks[0].FullName)
	assert.Equal(t, "upstream-org/tool", forks[0].Parent)
	assert.True(t, forks[0].HasParent())

	assert.Equal(t, "testuser/orphan", forks[1].FullName)
	assert.Empty(t, forks[1].Parent)
	assert.False(t, forks[1].HasParent())
}

func TestListForksEmpty(t *testing.T) {
	t.Parallel()

	client := createTestClient(
		mock.WithRequestMatch(
			mock.GetUserRepos,
			[]github.Repository{},
		),
	)

	forks, err := client.ListForks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forks)
	assert.NotNil(t, forks)
}

func TestListForksError(t *testing.T) {
	t.Parallel()

	client := createTestClient(
		mock.WithRequestMatchHandler(
			mock.GetUserRepos,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mock.WriteError(w, http.StatusUnauthorized, "Bad credentials")
			}),
		),
	)

	forks, err := client.ListForks(context.Background())
	require.Error(t, err)
	assert.Nil(t, forks)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "list_forks", apiErr.Operation)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
