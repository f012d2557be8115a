package project

import (
	"context"
	"fmt"
	"sync"

	"github.com/chmouel/codemedic/internal/github"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/chmouel/codemedic/internal/tree"
)

// Fetcher resolves file content. Remote content is fetched at most once per
// project and path for the lifetime of the Fetcher; failures are not cached.
type Fetcher struct {
	remote Remote
	logf   func(string, ...any)

	mu       sync.Mutex
	cache    map[string]string
	inflight map[string]*fetchCall
}

type fetchCall struct {
	done    chan struct{}
	content string
	err     error
}

// NewFetcher creates a Fetcher. remote may be nil when only archives are used.
func NewFetcher(remote Remote, logf func(string, ...any)) *Fetcher {
	return &Fetcher{
		remote:   remote,
		logf:     logf,
		cache:    map[string]string{},
		inflight: map[string]*fetchCall{},
	}
}

func cacheKey(p *models.Project, path string) string {
	return p.ID + "\x00" + path
}

// Content returns the text of the file at path in p. Archive projects answer
// from their tree and yield "" for unknown paths. Remote failures wrap
// ErrContentUnavailable.
func (f *Fetcher) Content(ctx context.Context, p *models.Project, path string) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: no project", ErrContentUnavailable)
	}
	path = tree.NormalizePath(path)
	node := tree.Find(p.Files, path)

	if p.Origin == models.OriginArchive {
		if node == nil || !node.IsFile() {
			return "", nil
		}
		return node.Content, nil
	}

	if node.IsFolder() {
		return "", fmt.Errorf("%w: %s is a folder", ErrContentUnavailable, path)
	}
	if node != nil && node.HasContent {
		return node.Content, nil
	}
	return f.fetchRemote(ctx, p, path)
}

// Cached reports whether the content of path in p has already been fetched.
func (f *Fetcher) Cached(p *models.Project, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.cache[cacheKey(p, tree.NormalizePath(path))]
	return ok
}

func (f *Fetcher) fetchRemote(ctx context.Context, p *models.Project, path string) (string, error) {
	key := cacheKey(p, path)

	f.mu.Lock()
	if content, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return content, nil
	}
	if call, ok := f.inflight[key]; ok {
		f.mu.Unlock()
		select {
		case <-call.done:
			return call.content, call.err
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %s: %w", ErrContentUnavailable, path, ctx.Err())
		}
	}
	call := &fetchCall{done: make(chan struct{})}
	f.inflight[key] = call
	f.mu.Unlock()

	call.content, call.err = f.fetch(ctx, p, path)

	f.mu.Lock()
	delete(f.inflight, key)
	if call.err == nil {
		f.cache[key] = call.content
	}
	f.mu.Unlock()
	close(call.done)

	return call.content, call.err
}

func (f *Fetcher) fetch(ctx context.Context, p *models.Project, path string) (string, error) {
	if f.remote == nil {
		return "", fmt.Errorf("%w: %s: no GitHub client configured", ErrContentUnavailable, path)
	}
	ref := github.Reference{Owner: p.Owner, Repo: p.Repo}
	content, err := f.remote.ContentsAt(ctx, ref, p.Branch, path)
	if err != nil {
		if f.logf != nil {
			f.logf("content %s:%s failed: %v", ref, path, err)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrContentUnavailable, path, err)
	}
	return content, nil
}
