package importer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tfcanvas/canvas/internal/ctxlog"
	"github.com/tfcanvas/canvas/internal/parser"
)

// Extension is the suffix of the files an import collects.
const Extension = ".tf"

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// RawHost serves download_url links for public repositories.
const RawHost = "raw.githubusercontent.com"

// DefaultMaxBytes caps a single response body.
const DefaultMaxBytes = 5 << 20

// Fetcher returns the configuration files under a locator.
type Fetcher interface {
	Fetch(ctx context.Context, loc Locator) ([]parser.File, error)
}

// GitHub fetches files through the repository contents API. Requests are
// unauthenticated unless Token is set; the token is only sent to the API host
// and RawHost.
type GitHub struct {
	BaseURL string
	Token   string
	Client  *http.Client
	// MaxConcurrent bounds parallel file downloads.
	MaxConcurrent int
	// MaxBytes caps each response body (0 = DefaultMaxBytes).
	MaxBytes int64
}

// NewGitHub returns a fetcher for baseURL ("" means DefaultAPIURL).
func NewGitHub(baseURL, token string) *GitHub {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &GitHub{
		BaseURL:       strings.TrimSuffix(baseURL, "/"),
		Token:         token,
		Client:        &http.Client{Timeout: 30 * time.Second},
		MaxConcurrent: 4,
		MaxBytes:      DefaultMaxBytes,
	}
}

type contentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
	Content     string `json:"content"`
	Encoding    string `json:"encoding"`
}

// Fetch lists the locator's directory and downloads every file ending in
// Extension, in listing order. A listing that is a single object stands for
// exactly one file.
func (g *GitHub) Fetch(ctx context.Context, loc Locator) ([]parser.File, error) {
	log := ctxlog.FromContext(ctx).With("owner", loc.Owner, "repo", loc.Repo, "branch", loc.Branch, "path", loc.Path)

	entries, err := g.list(ctx, loc)
	if err != nil {
		return nil, err
	}
	var wanted []contentEntry
	for _, e := range entries {
		if e.Type == "file" && strings.HasSuffix(e.Name, Extension) {
			wanted = append(wanted, e)
		}
	}
	log.Debug("Listed repository contents.", "entries", len(entries), "files", len(wanted))

	files := make([]parser.File, len(wanted))
	eg, egCtx := errgroup.WithContext(ctx)
	limit := g.MaxConcurrent
	if limit <= 0 {
		limit = 4
	}
	eg.SetLimit(limit)
	for i, e := range wanted {
		eg.Go(func() error {
			content, err := g.content(egCtx, e)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", e.Path, err)
			}
			files[i] = parser.File{Name: e.Path, Content: content}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

func (g *GitHub) list(ctx context.Context, loc Locator) ([]contentEntry, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		g.BaseURL, url.PathEscape(loc.Owner), url.PathEscape(loc.Repo),
		escapePath(loc.Path), url.QueryEscape(loc.Branch))
	body, err := g.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", loc, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []contentEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("list %s: decode listing: %w", loc, err)
		}
		return entries, nil
	}
	var single contentEntry
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("list %s: decode listing: %w", loc, err)
	}
	return []contentEntry{single}, nil
}

func (g *GitHub) content(ctx context.Context, e contentEntry) ([]byte, error) {
	if e.Content != "" && e.Encoding == "base64" {
		clean := strings.NewReplacer("\n", "", "\r", "").Replace(e.Content)
		data, err := base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		return data, nil
	}
	if e.DownloadURL == "" {
		return nil, errors.New("no download url")
	}
	return g.get(ctx, e.DownloadURL, "")
}

func (g *GitHub) get(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if g.Token != "" && g.trusted(req.URL) {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}
	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}
	limit := g.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("GET %s: %w (limit %d bytes)", u, ErrTooLarge, limit)
	}
	return body, nil
}

// trusted reports whether credentials may be sent to u.
func (g *GitHub) trusted(u *url.URL) bool {
	if strings.EqualFold(u.Hostname(), RawHost) {
		return true
	}
	base, err := url.Parse(g.BaseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, base.Host)
}

// ErrTooLarge is returned when a response exceeds MaxBytes.
var ErrTooLarge = errors.New("response body too large")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func escapePath(p string) string {
	if p == "" {
		return ""
	}
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
