package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// FormatError reports a release document that could not be interpreted.
// Callers skip the upgrade and keep the existing installation when they
// see one.
type FormatError struct {
	URL    string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("release manifest %s: %s", e.URL, e.Reason)
}

// HTTPClient issues HTTP requests. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// maxDocumentSize bounds how much of a manifest response is read.
// Release listings are a few kilobytes; anything near this limit is junk.
const maxDocumentSize = 4 << 20

// Fetch downloads and decodes the release document at url.
//
// Transport failures are returned wrapped so the caller can distinguish
// them from a document that arrived but cannot be understood, which is
// reported as *FormatError.
func Fetch(ctx context.Context, client HTTPClient, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build manifest request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch release manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch release manifest %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read release manifest: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &FormatError{URL: url, Reason: fmt.Sprintf("decode failed: %v", err)}
	}

	// A document without the release list is a different shape entirely,
	// not an empty listing.
	if doc.Items == nil {
		return nil, &FormatError{URL: url, Reason: "missing codeGeneratorConfigItems"}
	}

	return &doc, nil
}
