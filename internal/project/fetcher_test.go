package project

import (
	"context"
	"sync"
	"testing"

	"github.com/chmouel/codemedic/internal/github"
	"github.com/chmouel/codemedic/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importBar(t *testing.T, remote *fakeRemote) *models.Project {
	t.Helper()
	store := NewStore(Options{Remote: remote})
	p, err := store.Import(context.Background(), "foo/bar")
	require.NoError(t, err)
	return p
}

func TestFetcherRemoteCachesPerPath(t *testing.T) {
	remote := seededRemote()
	p := importBar(t, remote)
	fetcher := NewFetcher(remote, t.Logf)
	ctx := context.Background()

	assert.False(t, fetcher.Cached(p, "README.md"))
	text, err := fetcher.Content(ctx, p, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "# bar\n", text)
	assert.True(t, fetcher.Cached(p, "/README.md"))

	text, err = fetcher.Content(ctx, p, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "# bar\n", text)
	assert.Equal(t, 1, remote.count("contents"))
	assert.Equal(t, []string{"master"}, remote.branches, "content is read from the tree's branch")
}

func TestFetcherConcurrentRequestsShareOneFetch(t *testing.T) {
	remote := seededRemote()
	p := importBar(t, remote)
	fetcher := NewFetcher(remote, nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := fetcher.Content(context.Background(), p, "README.md")
			assert.NoError(t, err)
			assert.Equal(t, "# bar\n", text)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, remote.count("contents"))
	assert.True(t, fetcher.Cached(p, "README.md"))
}

func TestFetcherRemoteFailureIsNotCached(t *testing.T) {
	remote := seededRemote()
	p := importBar(t, remote)
	fetcher := NewFetcher(remote, nil)

	remote.contErr = github.ErrRateLimited
	_, err := fetcher.Content(context.Background(), p, "README.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentUnavailable)
	assert.ErrorIs(t, err, github.ErrRateLimited)
	assert.False(t, fetcher.Cached(p, "README.md"))

	remote.contErr = nil
	text, err := fetcher.Content(context.Background(), p, "README.md")
	require.NoError(t, err)
	assert.Equal(t, "# bar\n", text)
}

func TestFetcherRejectsRemoteFolders(t *testing.T) {
	remote := seededRemote()
	p := importBar(t, remote)
	fetcher := NewFetcher(remote, nil)

	_, err := fetcher.Content(context.Background(), p, "src")
	assert.ErrorIs(t, err, ErrContentUnavailable)
	assert.Zero(t, remote.count("contents"))
}

func TestFetcherWithoutRemote(t *testing.T) {
	p := importBar(t, seededRemote())
	_, err := NewFetcher(nil, nil).Content(context.Background(), p, "README.md")
	assert.ErrorIs(t, err, ErrContentUnavailable)

	_, err = NewFetcher(nil, nil).Content(context.Background(), nil, "README.md")
	assert.ErrorIs(t, err, ErrContentUnavailable)
}

func TestFetcherArchive(t *testing.T) {
	store := NewStore(Options{})
	data := zipBytes(t, map[string]string{"src/a.go": "package a\n", "empty.txt": ""}, "src/a.go", "empty.txt")
	p, err := store.ImportArchive(context.Background(), "a.zip", data, data.Size(), nil)
	require.NoError(t, err)

	fetcher := NewFetcher(nil, nil)
	ctx := context.Background()

	text, err := fetcher.Content(ctx, p, "src/a.go")
	require.NoError(t, err)
	assert.Equal(t, "package a\n", text)

	text, err = fetcher.Content(ctx, p, "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = fetcher.Content(ctx, p, "missing.go")
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = fetcher.Content(ctx, p, "src")
	require.NoError(t, err)
	assert.Empty(t, text)
}
