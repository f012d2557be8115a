// Package github reads repository metadata, trees and file contents from the
// GitHub REST API.
package github

import "errors"

var (
	// ErrInvalidReference is returned when a string cannot be parsed as owner/repo.
	ErrInvalidReference = errors.New("invalid repository reference")
	// ErrNotFound is returned for absent or private repositories.
	ErrNotFound = errors.New("repository not found")
	// ErrRateLimited is returned when GitHub refuses the request for quota reasons.
	ErrRateLimited = errors.New("github API rate limit exceeded")
	// ErrAccessFailure covers any other non-2xx answer.
	ErrAccessFailure = errors.New("failed to access repository")
	// ErrEmptyRepository is returned when a tree listing has no entries.
	ErrEmptyRepository = errors.New("repository appears to be empty")
	// ErrNoAccessibleBranch is returned when no candidate branch yields a tree.
	ErrNoAccessibleBranch = errors.New("could not fetch repository structure: no accessible branch")
	// ErrNotAFile is returned when the contents API answers with a directory listing.
	ErrNotAFile = errors.New("path is not a file")
	// ErrContentTooLarge is returned when GitHub does not inline a file's content.
	ErrContentTooLarge = errors.New("file content is too large to be inlined")
)
