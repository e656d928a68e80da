// Package github provides the authenticated GitHub API client used by forktend.
//
// This package includes:
//   - Token and GitHub App authentication via oauth2.TokenSource
//   - Fork catalog (repositories of the authenticated user marked as forks)
//   - Branch catalog for any repository
//   - Pull request creation for fork/upstream branch synchronization
//   - GitHub API client with rate limiting and error handling
package github
