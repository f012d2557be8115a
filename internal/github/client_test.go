package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub serves a tiny subset of the REST API from in-memory fixtures.
type fakeGitHub struct {
	mu       sync.Mutex
	repos    map[string]RepoInfo
	trees    map[string][]TreeEntry // key: owner/repo@branch
	files    map[string]string      // key: owner/repo:path or owner/repo@ref:path
	status   map[string]int         // forced status per request path
	requests []string
	auth     []string
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		repos:  map[string]RepoInfo{},
		trees:  map[string][]TreeEntry{},
		files:  map[string]string{},
		status: map[string]int{},
	}
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	forced, hasForced := f.status[r.URL.Path]
	f.mu.Unlock()

	if hasForced {
		w.WriteHeader(forced)
		_, _ = w.Write([]byte(`{"message":"forced"}`))
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/repos/"), "/")
	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}
	key := parts[0] + "/" + parts[1]

	switch {
	case len(parts) == 2:
		info, ok := f.repos[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(info)
	case len(parts) >= 5 && parts[2] == "git" && parts[3] == "trees":
		branch := strings.Join(parts[4:], "/")
		entries, ok := f.trees[key+"@"+branch]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(treeResponse{Tree: entries})
	case len(parts) >= 4 && parts[2] == "contents":
		path := strings.Join(parts[3:], "/")
		lookup := key + ":" + path
		if ref := r.URL.Query().Get("ref"); ref != "" {
			lookup = key + "@" + ref + ":" + path
		}
		content, ok := f.files[lookup]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(contentResponse{Type: "file", Encoding: "base64", Content: content})
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeGitHub) treeRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, p := range f.requests {
		if strings.Contains(p, "/git/trees/") {
			out = append(out, p[strings.LastIndex(p, "/trees/")+len("/trees/"):])
		}
	}
	return out
}

func newTestClient(t *testing.T, fake *fakeGitHub, token string) *Client {
	t.Helper()
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	return NewClient(Options{BaseURL: ts.URL, Token: token})
}

// wrapBase64 mimics GitHub's 60-column wrapped base64 payload.
func wrapBase64(s string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	var b strings.Builder
	for i := 0; i < len(enc); i += 60 {
		end := min(i+60, len(enc))
		b.WriteString(enc[i:end])
		b.WriteString("\n")
	}
	return b.String()
}

func TestRepositoryStatusMapping(t *testing.T) {
	fake := newFakeGitHub()
	fake.repos["foo/bar"] = RepoInfo{FullName: "foo/bar", DefaultBranch: "trunk"}
	fake.status["/repos/foo/limited"] = http.StatusForbidden
	fake.status["/repos/foo/busy"] = http.StatusTooManyRequests
	fake.status["/repos/foo/broken"] = http.StatusInternalServerError
	client := newTestClient(t, fake, "")
	ctx := context.Background()

	info, err := client.Repository(ctx, Reference{Owner: "foo", Repo: "bar"})
	require.NoError(t, err)
	assert.Equal(t, "trunk", info.DefaultBranch)

	_, err = client.Repository(ctx, Reference{Owner: "foo", Repo: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.Repository(ctx, Reference{Owner: "foo", Repo: "limited"})
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = client.Repository(ctx, Reference{Owner: "foo", Repo: "busy"})
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = client.Repository(ctx, Reference{Owner: "foo", Repo: "broken"})
	assert.ErrorIs(t, err, ErrAccessFailure)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRepositoryDefaultsBranchToMain(t *testing.T) {
	fake := newFakeGitHub()
	fake.repos["foo/bar"] = RepoInfo{FullName: "foo/bar"}
	client := newTestClient(t, fake, "")

	info, err := client.Repository(context.Background(), Reference{Owner: "foo", Repo: "bar"})
	require.NoError(t, err)
	assert.Equal(t, "main", info.DefaultBranch)
}

func TestBearerTokenIsSent(t *testing.T) {
	fake := newFakeGitHub()
	fake.repos["foo/bar"] = RepoInfo{DefaultBranch: "main"}
	client := newTestClient(t, fake, "s3cret")

	_, err := client.Repository(context.Background(), Reference{Owner: "foo", Repo: "bar"})
	require.NoError(t, err)

	client.SetToken("")
	assert.False(t, client.HasToken())
	_, err = client.Repository(context.Background(), Reference{Owner: "foo", Repo: "bar"})
	require.NoError(t, err)

	require.Len(t, fake.auth, 2)
	assert.Equal(t, "Bearer s3cret", fake.auth[0])
	assert.Empty(t, fake.auth[1])
}

func TestFetchTreeUsesDefaultBranch(t *testing.T) {
	fake := newFakeGitHub()
	fake.trees["foo/bar@trunk"] = []TreeEntry{{Path: "README.md", Type: "blob"}}
	client := newTestClient(t, fake, "")

	result, err := client.FetchTree(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "trunk")
	require.NoError(t, err)
	assert.Equal(t, "trunk", result.Branch)
	assert.Equal(t, []string{"trunk"}, fake.treeRequests())
}

func TestFetchTreeFallsBackToMaster(t *testing.T) {
	master := []TreeEntry{
		{Path: "src", Type: "tree"},
		{Path: "src/main.go", Type: "blob"},
	}
	fake := newFakeGitHub()
	fake.trees["foo/bar@master"] = master
	client := newTestClient(t, fake, "")
	ref := Reference{Owner: "foo", Repo: "bar"}

	fallback, err := client.FetchTree(context.Background(), ref, "gone")
	require.NoError(t, err)
	assert.Equal(t, "master", fallback.Branch)
	assert.Equal(t, []string{"gone", "main", "master"}, fake.treeRequests())

	direct, err := client.Tree(context.Background(), ref, "master")
	require.NoError(t, err)
	assert.Equal(t, direct.Entries, fallback.Entries)
}

func TestFetchTreeSkipsAlreadyTriedBranch(t *testing.T) {
	fake := newFakeGitHub()
	client := newTestClient(t, fake, "")

	_, err := client.FetchTree(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "main")
	require.ErrorIs(t, err, ErrNoAccessibleBranch)
	assert.Equal(t, []string{"main", "master", "dev", "develop"}, fake.treeRequests())
}

func TestFetchTreeEmptyRepository(t *testing.T) {
	fake := newFakeGitHub()
	fake.trees["foo/bar@main"] = []TreeEntry{}
	client := newTestClient(t, fake, "")

	_, err := client.FetchTree(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "main")
	assert.ErrorIs(t, err, ErrEmptyRepository)
}

func TestFetchTreeAllRateLimited(t *testing.T) {
	fake := newFakeGitHub()
	for _, branch := range []string{"main", "master", "dev", "develop"} {
		fake.status["/repos/foo/bar/git/trees/"+branch] = http.StatusForbidden
	}
	client := newTestClient(t, fake, "")

	_, err := client.FetchTree(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "main")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestFetchTreeCustomFallbacks(t *testing.T) {
	fake := newFakeGitHub()
	fake.trees["foo/bar@release"] = []TreeEntry{{Path: "a", Type: "blob"}}
	ts := httptest.NewServer(fake)
	t.Cleanup(ts.Close)
	client := NewClient(Options{BaseURL: ts.URL, FallbackBranches: []string{"release"}})

	result, err := client.FetchTree(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "main")
	require.NoError(t, err)
	assert.Equal(t, "release", result.Branch)
	assert.Equal(t, []string{"main", "release"}, fake.treeRequests())
}

func TestContentsDecodesWrappedBase64(t *testing.T) {
	source := strings.Repeat("package main\n\nfunc main() {}\n", 10)
	fake := newFakeGitHub()
	fake.files["foo/bar:cmd/app/main.go"] = wrapBase64(source)
	client := newTestClient(t, fake, "")

	got, err := client.Contents(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "cmd/app/main.go")
	require.NoError(t, err)
	assert.Equal(t, source, got)
}

func TestContentsErrors(t *testing.T) {
	fake := newFakeGitHub()
	fake.files["foo/bar:bad.txt"] = "!!!not-base64!!!"
	client := newTestClient(t, fake, "")
	ref := Reference{Owner: "foo", Repo: "bar"}

	_, err := client.Contents(context.Background(), ref, "bad.txt")
	require.Error(t, err)

	_, err = client.Contents(context.Background(), ref, "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContentsRejectsDirectories(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"a.go","type":"file"}]`))
	}))
	t.Cleanup(ts.Close)
	client := NewClient(Options{BaseURL: ts.URL})

	_, err := client.Contents(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "src")
	assert.ErrorIs(t, err, ErrNotAFile)
}

func TestContentsTooLarge(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"file","encoding":"none","content":""}`))
	}))
	t.Cleanup(ts.Close)
	client := NewClient(Options{BaseURL: ts.URL})

	_, err := client.Contents(context.Background(), Reference{Owner: "foo", Repo: "bar"}, "big.bin")
	assert.ErrorIs(t, err, ErrContentTooLarge)
}

func TestDecodeContent(t *testing.T) {
	got, err := DecodeContent("aGVs\nbG8g\r\nd29y bGQ=\t")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "docs/a%20b.md", escapePath("/docs/a b.md"))
	assert.Equal(t, "feature/x", escapePath("feature/x"))
}

func TestContentsAtBranch(t *testing.T) {
	fake := newFakeGitHub()
	fake.files["foo/bar:README.md"] = wrapBase64("default")
	fake.files["foo/bar@master:README.md"] = wrapBase64("from master")
	client := newTestClient(t, fake, "")
	ref := Reference{Owner: "foo", Repo: "bar"}

	text, err := client.ContentsAt(context.Background(), ref, "master", "README.md")
	require.NoError(t, err)
	assert.Equal(t, "from master", text)

	text, err = client.ContentsAt(context.Background(), ref, "", "README.md")
	require.NoError(t, err)
	assert.Equal(t, "default", text)

	_, err = client.ContentsAt(context.Background(), ref, "dev", "README.md")
	assert.ErrorIs(t, err, ErrNotFound)
}
