package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultFetchTimeout = 60 * time.Second

// Source yields the raw bytes of a dataset image.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// NewSource picks an HTTP or filesystem source based on the location's scheme.
// A nil client gets a default one with a 60s timeout.
func NewSource(location string, client *http.Client) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = &http.Client{Timeout: defaultFetchTimeout}
		}
		return &HTTPSource{URL: location, Client: client}
	}
	return &FileSource{Path: location}
}

// FileSource reads the dataset from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return data, nil
}

func (s *FileSource) Location() string {
	return s.Path
}

// HTTPSource downloads the dataset with a single GET.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", s.URL, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", s.URL, err)
	}
	return data, nil
}

func (s *HTTPSource) Location() string {
	return s.URL
}
