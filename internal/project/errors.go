// Package project keeps the imported projects of a session and resolves the
// content of their files.
package project

import (
	"errors"

	"github.com/chmouel/codemedic/internal/archive"
	"github.com/chmouel/codemedic/internal/github"
)

// Import and content errors. The remote ones are the github package sentinels
// so callers only need this package for errors.Is checks.
var (
	ErrInvalidReference   = github.ErrInvalidReference
	ErrNotFound           = github.ErrNotFound
	ErrRateLimited        = github.ErrRateLimited
	ErrAccessFailure      = github.ErrAccessFailure
	ErrEmptyRepository    = github.ErrEmptyRepository
	ErrNoAccessibleBranch = github.ErrNoAccessibleBranch
	ErrArchiveImport      = archive.ErrImport

	// ErrContentUnavailable is returned when a remote file cannot be fetched or decoded.
	ErrContentUnavailable = errors.New("file content unavailable")
	// ErrImportInProgress is returned when an import starts while another is loading.
	ErrImportInProgress = errors.New("another import is in progress")
	// ErrUnknownProject is returned by SetCurrent for ids that were never imported.
	ErrUnknownProject = errors.New("unknown project")
	// ErrNotInProject is returned by SelectFile for nodes outside the current project.
	ErrNotInProject = errors.New("file does not belong to the current project")
)
