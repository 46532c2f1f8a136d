package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
)

// Retry and transfer limits for the GitHub REST API.
const (
	initialRetryDelay = 500 * time.Millisecond
	maxRetryDelay     = 10 * time.Second
	maxContentBytes   = 10 << 20 // Files above this are rejected
	maxErrorBody      = 4 << 10
)

// Media types understood by the contents endpoint.
const (
	jsonMediaType = "application/vnd.github+json"
	rawMediaType  = "application/vnd.github.raw+json"
)

// GitHubProvider lists and fetches files through the GitHub contents API.
type GitHubProvider struct {
	apiURL     string
	token      string
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration
	cache      *expirable.LRU[string, string] // nil when caching is off
}

var _ contract.AccessProvider = &GitHubProvider{} // Compile-time check

// GitHubOption customizes a GitHubProvider.
type GitHubOption func(*GitHubProvider)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(p *GitHubProvider) { p.httpClient = c }
}

// WithRetries sets how many attempts are made for a retryable failure.
func WithRetries(n int) GitHubOption {
	return func(p *GitHubProvider) {
		if n > 0 {
			p.attempts = uint(n)
		}
	}
}

// WithRetryDelay sets the initial backoff delay.
func WithRetryDelay(d time.Duration) GitHubOption {
	return func(p *GitHubProvider) { p.retryDelay = d }
}

// WithContentCache keeps up to size fetched files in memory. A ttl of 0 keeps
// entries until they are evicted by size.
func WithContentCache(size int, ttl time.Duration) GitHubOption {
	return func(p *GitHubProvider) {
		if size <= 0 {
			p.cache = nil
			return
		}
		p.cache = expirable.NewLRU[string, string](size, nil, ttl)
	}
}

// NewGitHubProvider creates a provider for the API rooted at apiURL.
// An empty token makes unauthenticated requests.
func NewGitHubProvider(apiURL, token string, opts ...GitHubOption) *GitHubProvider {
	if apiURL == "" {
		apiURL = contract.DefaultAPIURL
	}
	p := &GitHubProvider{
		apiURL:     strings.TrimRight(apiURL, "/"),
		token:      token,
		httpClient: &http.Client{},
		attempts:   contract.DefaultRetries,
		retryDelay: initialRetryDelay,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// contentEntry is one element of a contents API directory listing.
type contentEntry struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// ListEntries returns the files directly under loc.Path in listing order.
// Subdirectories, symlinks and submodules are skipped.
func (p *GitHubProvider) ListEntries(ctx context.Context, loc schema.RepositoryLocator) ([]string, error) {
	body, err := p.get(ctx, "list", loc, loc.Path, jsonMediaType)
	if err != nil {
		return nil, err
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		var single contentEntry
		if json.Unmarshal(body, &single) == nil && single.Type != "" {
			return nil, contract.NewAccessError("list", loc.Path, fmt.Errorf("not a directory (type %s)", single.Type))
		}
		return nil, contract.NewAccessError("list", loc.Path, fmt.Errorf("failed to decode listing: %w", err))
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type != "file" {
			continue
		}
		entryPath := e.Path
		if entryPath == "" {
			entryPath = joinPath(loc.Path, e.Name)
		}
		paths = append(paths, entryPath)
	}
	return paths, nil
}

// FetchContent returns the raw text of the file at path.
func (p *GitHubProvider) FetchContent(ctx context.Context, loc schema.RepositoryLocator, path string) (string, error) {
	key := cacheKey(loc, path)
	if p.cache != nil {
		if content, ok := p.cache.Get(key); ok {
			return content, nil
		}
	}

	body, err := p.get(ctx, "fetch", loc, path, rawMediaType)
	if err != nil {
		return "", err
	}
	content := string(body)
	if p.cache != nil {
		p.cache.Add(key, content)
	}
	return content, nil
}

// retryableError marks failures worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// get performs a contents request with retries and returns the response body.
// Failures are reported as *contract.AccessError.
func (p *GitHubProvider) get(ctx context.Context, op string, loc schema.RepositoryLocator, path, accept string) ([]byte, error) {
	reqURL := p.contentsURL(loc, path)

	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = p.do(ctx, op, path, reqURL, accept)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.retryDelay),
		retry.MaxDelay(maxRetryDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(max(p.retryDelay/4, time.Millisecond)),
		retry.OnRetry(func(n uint, err error) {
			contract.LogWarn(fmt.Sprintf("Retrying %s (attempt %d/%d)", op, n+1, p.attempts), err)
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var re *retryableError
			return errors.As(err, &re)
		}),
	)
	if err != nil {
		var re *retryableError
		if errors.As(err, &re) {
			err = re.err
		}
		var accessErr *contract.AccessError
		if errors.As(err, &accessErr) {
			return nil, accessErr
		}
		return nil, contract.NewAccessError(op, path, err)
	}
	return body, nil
}

// do performs a single request attempt.
func (p *GitHubProvider) do(ctx context.Context, op, path, reqURL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, contract.NewAccessError(op, path, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		accessErr := contract.NewAccessError(op, path, fmt.Errorf("request failed: %w", err))
		if ctx.Err() != nil {
			return nil, accessErr
		}
		return nil, &retryableError{err: accessErr}
	}
	defer drainAndCloseBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		accessErr := &contract.AccessError{
			Op:         op,
			Path:       path,
			StatusCode: resp.StatusCode,
			Err:        errors.New(errorMessage(resp)),
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, &retryableError{err: accessErr}
		}
		return nil, accessErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes+1))
	if err != nil {
		return nil, &retryableError{err: contract.NewAccessError(op, path, fmt.Errorf("failed to read response: %w", err))}
	}
	if len(body) > maxContentBytes {
		return nil, contract.NewAccessError(op, path, fmt.Errorf("response exceeds %d bytes", maxContentBytes))
	}
	return body, nil
}

// contentsURL builds {api}/repos/{owner}/{repo}/contents/{path}[?ref=branch].
func (p *GitHubProvider) contentsURL(loc schema.RepositoryLocator, path string) string {
	var sb strings.Builder
	sb.WriteString(p.apiURL)
	sb.WriteString("/repos/")
	sb.WriteString(url.PathEscape(loc.Owner))
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(loc.Repo))
	sb.WriteString("/contents")
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(seg))
	}
	if loc.HasBranch() {
		sb.WriteString("?ref=")
		sb.WriteString(url.QueryEscape(loc.Branch))
	}
	return sb.String()
}

// errorMessage extracts the "message" field GitHub puts in error bodies.
func errorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func drainAndCloseBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}

func cacheKey(loc schema.RepositoryLocator, path string) string {
	return loc.Owner + "/" + loc.Repo + "@" + loc.Branch + ":" + path
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return strings.TrimSuffix(dir, "/") + "/" + name
}
