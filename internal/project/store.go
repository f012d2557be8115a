package project

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chmouel/codemedic/internal/archive"
	"github.com/chmouel/codemedic/internal/github"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/chmouel/codemedic/internal/tree"
	"github.com/google/uuid"
)

// ArchiveIDPrefix prefixes the id of projects imported from an archive.
const ArchiveIDPrefix = "upload/"

// Remote is the part of the GitHub client the store and fetcher use.
type Remote interface {
	Repository(ctx context.Context, ref github.Reference) (*github.RepoInfo, error)
	FetchTree(ctx context.Context, ref github.Reference, defaultBranch string) (*github.TreeResult, error)
	ContentsAt(ctx context.Context, ref github.Reference, branch, path string) (string, error)
}

// ProgressFunc receives the import progress as a percentage.
type ProgressFunc func(percent int)

// Options configures a Store.
type Options struct {
	Remote Remote
	// MaxFileBytes and KeepRoot are passed to archive expansion.
	MaxFileBytes int64
	KeepRoot     bool
	Logf         func(string, ...any)
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store holds the projects imported during a session. Projects are only ever
// appended. It is safe for concurrent use.
type Store struct {
	remote  Remote
	archive archive.Options
	logf    func(string, ...any)
	now     func() time.Time

	mu       sync.RWMutex
	projects []*models.Project
	current  *models.Project
	active   *models.FileNode
	loading  bool
	progress int
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		remote:  opts.Remote,
		archive: archive.Options{MaxFileBytes: opts.MaxFileBytes, KeepRoot: opts.KeepRoot},
		logf:    opts.Logf,
		now:     now,
	}
}

func (s *Store) debugf(format string, args ...any) {
	if s.logf == nil {
		return
	}
	s.logf(format, args...)
}

// Import parses reference and imports the GitHub repository it names. An
// already imported repository is made current and returned without network
// access. On failure the store is left as it was.
func (s *Store) Import(ctx context.Context, reference string) (*models.Project, error) {
	ref, err := github.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	existing, err := s.begin(ref.ID())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.debugf("import %s: already loaded", ref)
		return existing, nil
	}
	committed := false
	defer func() { s.finish(committed) }()
	if s.remote == nil {
		return nil, fmt.Errorf("%s: %w: no GitHub client configured", ref, ErrAccessFailure)
	}

	importID := uuid.NewString()

	s.debugf("import %s [%s]: fetching metadata", ref, importID)
	info, err := s.remote.Repository(ctx, ref)
	if err != nil {
		return nil, err
	}
	s.advance(30, nil)

	result, err := s.remote.FetchTree(ctx, ref, info.DefaultBranch)
	if err != nil {
		return nil, err
	}
	s.advance(80, nil)
	s.debugf("import %s [%s]: %d entries from %s (truncated=%t)", ref, importID, len(result.Entries), result.Branch, result.Truncated)

	entries := make([]tree.Entry, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, tree.Entry{Path: e.Path, Folder: e.IsFolder()})
	}

	p := &models.Project{
		ID:        ref.ID(),
		ImportID:  importID,
		Name:      ref.Repo,
		Owner:     ref.Owner,
		Repo:      ref.Repo,
		Branch:    result.Branch,
		SourceURL: strings.TrimSpace(reference),
		Origin:    models.OriginGitHub,
		Truncated: result.Truncated,
		CreatedAt: s.now(),
		Files:     tree.Build(entries),
	}
	s.advance(100, nil)
	s.commit(p)
	committed = true
	return p, nil
}

// ImportArchive imports a ZIP archive read from r. progress, when set,
// receives non-decreasing percentages ending at exactly 100.
func (s *Store) ImportArchive(ctx context.Context, name string, r io.ReaderAt, size int64, progress ProgressFunc) (*models.Project, error) {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		name = "archive.zip"
	}
	id := ArchiveIDPrefix + name
	existing, err := s.begin(id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.debugf("import %s: already loaded", id)
		s.report(100, progress)
		return existing, nil
	}

	importID := uuid.NewString()
	committed := false
	defer func() { s.finish(committed) }()

	opts := s.archive
	opts.Progress = func(done, total int) {
		pct := 100
		if total > 0 {
			pct = done * 100 / total
		}
		s.advance(pct, progress)
	}

	s.debugf("import %s [%s]: expanding %d bytes", id, importID, size)
	entries, err := archive.Expand(r, size, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := &models.Project{
		ID:        id,
		ImportID:  importID,
		Name:      strings.TrimSuffix(name, path.Ext(name)),
		SourceURL: name,
		Origin:    models.OriginArchive,
		CreatedAt: s.now(),
		Files:     tree.Build(entries),
	}
	s.advance(100, progress)
	s.commit(p)
	committed = true
	s.debugf("import %s [%s]: %d entries", id, importID, len(entries))
	return p, nil
}

func (s *Store) find(id string) *models.Project {
	for _, p := range s.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// begin claims the store for an import of id. While another import is
// loading it fails with ErrImportInProgress, even for ids already imported.
// An imported id is made current and returned without claiming the store.
func (s *Store) begin(id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return nil, ErrImportInProgress
	}
	if p := s.find(id); p != nil {
		s.setCurrentLocked(p)
		return p, nil
	}
	s.loading = true
	s.progress = 0
	return nil, nil
}

func (s *Store) finish(committed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !committed {
		s.progress = 0
	}
}

// advance raises the progress to pct and reports the resulting value.
func (s *Store) advance(pct int, progress ProgressFunc) {
	pct = min(max(pct, 0), 100)
	s.mu.Lock()
	if pct > s.progress {
		s.progress = pct
	}
	current := s.progress
	s.mu.Unlock()
	s.report(current, progress)
}

func (s *Store) report(pct int, progress ProgressFunc) {
	if progress != nil {
		progress(pct)
	}
}

func (s *Store) commit(p *models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
	s.setCurrentLocked(p)
}

func (s *Store) setCurrentLocked(p *models.Project) {
	s.current = p
	if s.active != nil && !p.Contains(s.active) {
		s.active = nil
	}
}

// SetCurrent makes the project with id current. An active file from another
// project is cleared.
func (s *Store) SetCurrent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.find(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownProject, id)
	}
	s.setCurrentLocked(p)
	return nil
}

// SelectFile makes node the active file. A nil node clears the selection.
func (s *Store) SelectFile(node *models.FileNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if node == nil {
		s.active = nil
		return nil
	}
	if !s.current.Contains(node) {
		return fmt.Errorf("%w: %s", ErrNotInProject, node.Path)
	}
	s.active = node
	return nil
}

// Projects returns the imported projects in import order.
func (s *Store) Projects() []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Project(nil), s.projects...)
}

// Current returns the current project, or nil.
func (s *Store) Current() *models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Active returns the active file, or nil.
func (s *Store) Active() *models.FileNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Loading reports whether an import is running.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Progress returns the progress of the running or last import, 0 to 100.
func (s *Store) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// IsArchivePath reports whether input names an existing .zip file.
func IsArchivePath(input string) bool {
	if !strings.EqualFold(filepath.Ext(input), ".zip") {
		return false
	}
	info, err := os.Stat(input)
	return err == nil && info.Mode().IsRegular()
}

// Open imports input, which is either the path of a .zip archive or a GitHub
// reference.
func (s *Store) Open(ctx context.Context, input string, progress ProgressFunc) (*models.Project, error) {
	input = strings.TrimSpace(input)
	if !IsArchivePath(input) {
		p, err := s.Import(ctx, input)
		if err == nil {
			s.report(100, progress)
		}
		return p, err
	}

	f, err := os.Open(input) // #nosec G304 -- the user chose this archive
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveImport, err)
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveImport, err)
	}
	return s.ImportArchive(ctx, filepath.Base(input), f, info.Size(), progress)
}
