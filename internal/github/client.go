package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"
	// DefaultTimeout bounds every single API call.
	DefaultTimeout = 30 * time.Second

	treeTypeFolder = "tree"
	maxErrorBody   = 4096
)

// DefaultFallbackBranches are tried, in order, when the default branch has no readable tree.
var DefaultFallbackBranches = []string{"main", "master", "dev", "develop"}

// RepoInfo is the subset of repository metadata codemedic uses.
type RepoInfo struct {
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
	Private       bool   `json:"private"`
}

// TreeEntry is one item of a recursive tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// IsFolder reports whether the entry is a directory.
func (e TreeEntry) IsFolder() bool {
	return e.Type == treeTypeFolder
}

// TreeResult is a fetched tree listing together with the branch it came from.
type TreeResult struct {
	Branch    string
	Entries   []TreeEntry
	Truncated bool
}

type treeResponse struct {
	SHA       string      `json:"sha"`
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	Path     string `json:"path"`
}

// Options configures a Client.
type Options struct {
	BaseURL          string
	Token            string
	UserAgent        string
	Timeout          time.Duration
	FallbackBranches []string
	HTTPClient       *http.Client
	Logf             func(string, ...any)
}

// Client talks to the GitHub REST API. It is safe for concurrent use.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	userAgent        string
	fallbackBranches []string
	logf             func(string, ...any)

	mu    sync.RWMutex
	token string
}

// NewClient creates a Client from opts, filling defaults for unset fields.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "codemedic"
	}
	fallback := DefaultFallbackBranches
	if len(opts.FallbackBranches) > 0 {
		fallback = append([]string{}, opts.FallbackBranches...)
	}

	return &Client{
		baseURL:          baseURL,
		httpClient:       httpClient,
		userAgent:        userAgent,
		fallbackBranches: fallback,
		logf:             opts.Logf,
		token:            strings.TrimSpace(opts.Token),
	}
}

// SetToken replaces the bearer token. An empty token means anonymous access.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) debugf(format string, args ...any) {
	if c.logf == nil {
		return
	}
	c.logf(format, args...)
}

func (c *Client) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// statusError maps an HTTP status to the error taxonomy.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(resp.Status)

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		detail = fmt.Sprintf("%s: %s", detail, payload.Message)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w (%s)", ErrNotFound, detail)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return fmt.Errorf("%w (%s)", ErrRateLimited, detail)
	default:
		return fmt.Errorf("%w: %s", ErrAccessFailure, detail)
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)
	c.applyAuth(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.debugf("GET %s failed: %v", endpoint, err)
		return fmt.Errorf("%w: %w", ErrAccessFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.debugf("GET %s -> %d (%s, remaining=%s)", endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond), resp.Header.Get("X-RateLimit-Remaining"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

// escapePath escapes every segment of a slash-separated path.
func escapePath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func repoEndpoint(ref Reference) string {
	return "/repos/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Repo)
}

// Repository checks that the repository exists and returns its metadata.
func (c *Client) Repository(ctx context.Context, ref Reference) (*RepoInfo, error) {
	var info RepoInfo
	if err := c.getJSON(ctx, repoEndpoint(ref), &info); err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	if info.DefaultBranch == "" {
		info.DefaultBranch = "main"
	}
	return &info, nil
}

// Tree returns the recursive tree listing of branch.
func (c *Client) Tree(ctx context.Context, ref Reference, branch string) (*TreeResult, error) {
	var payload treeResponse
	endpoint := repoEndpoint(ref) + "/git/trees/" + escapePath(branch) + "?recursive=1"
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Truncated {
		c.debugf("tree for %s@%s is truncated at %d entries", ref, branch, len(payload.Tree))
	}
	return &TreeResult{Branch: branch, Entries: payload.Tree, Truncated: payload.Truncated}, nil
}

// FetchTree reads the tree of defaultBranch, falling back to the configured
// branch names in order when it fails. The first success wins.
func (c *Client) FetchTree(ctx context.Context, ref Reference, defaultBranch string) (*TreeResult, error) {
	candidates := make([]string, 0, len(c.fallbackBranches)+1)
	if defaultBranch != "" {
		candidates = append(candidates, defaultBranch)
	}
	for _, branch := range c.fallbackBranches {
		if branch == defaultBranch {
			continue
		}
		candidates = append(candidates, branch)
	}

	rateLimited := 0
	for _, branch := range candidates {
		result, err := c.Tree(ctx, ref, branch)
		if err == nil {
			if len(result.Entries) == 0 {
				return nil, fmt.Errorf("%s: %w", ref, ErrEmptyRepository)
			}
			return result, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, ErrRateLimited) {
			rateLimited++
		}
		c.debugf("tree fetch for %s@%s failed: %v", ref, branch, err)
	}

	if len(candidates) > 0 && rateLimited == len(candidates) {
		return nil, fmt.Errorf("%s: %w", ref, ErrRateLimited)
	}
	return nil, fmt.Errorf("%s: %w", ref, ErrNoAccessibleBranch)
}

// Contents returns the decoded text of a single file on the default branch.
func (c *Client) Contents(ctx context.Context, ref Reference, path string) (string, error) {
	return c.ContentsAt(ctx, ref, "", path)
}

// ContentsAt is Contents read from branch. An empty branch means the default.
func (c *Client) ContentsAt(ctx context.Context, ref Reference, branch, path string) (string, error) {
	endpoint := repoEndpoint(ref) + "/contents/" + escapePath(path)
	if branch != "" {
		endpoint += "?ref=" + url.QueryEscape(branch)
	}

	var raw json.RawMessage
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		return "", fmt.Errorf("%s: %w", path, ErrNotAFile)
	}

	var payload contentResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode contents of %s: %w", path, err)
	}
	if payload.Type != "" && payload.Type != "file" {
		return "", fmt.Errorf("%s (%s): %w", path, payload.Type, ErrNotAFile)
	}
	if payload.Encoding == "none" {
		return "", fmt.Errorf("%s: %w", path, ErrContentTooLarge)
	}
	if payload.Content == "" {
		return "", nil
	}

	return DecodeContent(payload.Content)
}

// DecodeContent decodes a base64 payload after removing embedded whitespace,
// which GitHub inserts every 60 characters.
func DecodeContent(encoded string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, encoded)

	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", fmt.Errorf("decode base64 content: %w", err)
	}
	return string(data), nil
}
