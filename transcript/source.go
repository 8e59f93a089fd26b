package transcript

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"lukechampine.com/blake3"
)

// Source fetches a complete transcript blob exactly once per session.
type Source interface {
	Fetch(ctx context.Context) (blob string, err error)
}

// HTTPSource reads the line-delimited transcript resource over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch transcript: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: read body: %w", err)
	}
	return string(body), nil
}

// FileSource reads a transcript blob from disk, for replay of saved feeds.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("fetch transcript: %w", err)
	}
	return string(b), nil
}

// StringSource serves a blob held in memory, used by tests.
type StringSource string

func (s StringSource) Fetch(ctx context.Context) (string, error) {
	return string(s), nil
}

// BlobHash is the blake3 content hash identifying a fetched transcript.
func BlobHash(blob string) string {
	sum := blake3.Sum256([]byte(strings.TrimSpace(blob)))
	return hex.EncodeToString(sum[:])
}
