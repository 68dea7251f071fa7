// Package fetch downloads release packages and verifies their integrity
// while the bytes stream to disk.
package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/benchgen/benchgen/internal/manifest"
	"github.com/benchgen/benchgen/internal/platform"
)

const (
	// DefaultTimeout is the HTTP request timeout of the default client.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "benchgen/1.0"
)

// HTTPClient issues HTTP requests. *http.Client satisfies it, as does
// RetryingClient for callers that want transient failures retried.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProgressFunc receives download progress as bytes arrive. total is -1
// when the server did not announce a content length.
type ProgressFunc func(downloaded, total int64)

// Fetcher downloads release packages into a scratch directory, computing
// the MD5 digest of the payload as it streams to disk.
type Fetcher struct {
	client     HTTPClient
	scratchDir string
	userAgent  string
	progress   ProgressFunc
	signatures *SignatureVerifier
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for downloads. Retry and timeout
// policy live in the client, never in the fetcher.
func WithHTTPClient(client HTTPClient) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithProgress registers a callback invoked as payload bytes arrive.
func WithProgress(fn ProgressFunc) Option {
	return func(f *Fetcher) {
		f.progress = fn
	}
}

// WithSignatureVerifier enables detached-signature checking of verified
// downloads.
func WithSignatureVerifier(v *SignatureVerifier) Option {
	return func(f *Fetcher) {
		f.signatures = v
	}
}

// NewFetcher creates a fetcher that stores downloads under scratchDir.
func NewFetcher(scratchDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: DefaultTimeout},
		scratchDir: scratchDir,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchVerified downloads the package that rel publishes for target and
// verifies its MD5 digest, returning the path of the verified scratch
// file.
//
// The digest is computed incrementally while the payload streams to
// disk; the payload is never re-read for hashing and never held in
// memory. A mismatch removes the scratch file and returns
// *IntegrityError. Transport failures return *NetworkError, untouched by
// any retry. Cancelling ctx discards the partial download.
func (f *Fetcher) FetchVerified(ctx context.Context, rel *manifest.Item, target platform.Target) (string, error) {
	pkg, err := rel.PackageFor(target)
	if err != nil {
		return "", err
	}
	return f.fetchPackage(ctx, pkg)
}

func (f *Fetcher) fetchPackage(ctx context.Context, pkg manifest.Package) (string, error) {
	if err := os.MkdirAll(f.scratchDir, 0755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}

	// The scratch name derives from the expected digest, so concurrent
	// checks for different releases never collide on a filename.
	scratchPath := filepath.Join(f.scratchDir, scratchName(pkg))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pkg.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &NetworkError{URL: pkg.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &NetworkError{URL: pkg.URL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	out, err := os.Create(scratchPath)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		out.Close()
		if cleanupNeeded {
			os.Remove(scratchPath)
		}
	}()

	hasher := md5.New()
	dst := io.MultiWriter(out, hasher)

	var body io.Reader = resp.Body
	if f.progress != nil {
		body = &progressReader{r: resp.Body, total: resp.ContentLength, fn: f.progress}
	}

	if _, err := io.Copy(dst, body); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &NetworkError{URL: pkg.URL, Err: err}
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close scratch file: %w", err)
	}

	got := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(got, pkg.MD5) {
		return "", &IntegrityError{URL: pkg.URL, Want: strings.ToLower(pkg.MD5), Got: got}
	}

	if f.signatures != nil {
		if err := f.signatures.VerifyDetached(ctx, scratchPath, pkg.URL); err != nil {
			return "", err
		}
	}

	cleanupNeeded = false
	return scratchPath, nil
}

// scratchName builds the digest-derived scratch filename, keeping the
// payload's archive extension for readability.
func scratchName(pkg manifest.Package) string {
	return "codegen-" + strings.ToLower(pkg.MD5) + packageExt(pkg.URL)
}

func packageExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if strings.HasSuffix(base, ".tar.gz") {
		return ".tar.gz"
	}
	return path.Ext(base)
}

// progressReader reports bytes read to a callback as a download streams.
type progressReader struct {
	r          io.Reader
	total      int64
	downloaded int64
	fn         ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.downloaded += int64(n)
		p.fn(p.downloaded, p.total)
	}
	return n, err
}
