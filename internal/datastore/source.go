package datastore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const maxDocumentBytes = 8 << 20

// Source fetches the raw bytes of a named collection document.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads documents from a local directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource fetches documents relative to a base URL. Any non-2xx status is a failure.
type HTTPSource struct {
	BaseURL *url.URL
	Client  *http.Client
}

// NewHTTPSource parses base and applies the request timeout.
func NewHTTPSource(base string, timeout time.Duration) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("datastore: invalid base url %q", base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{BaseURL: u, Client: &http.Client{Timeout: timeout}}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := s.BaseURL.ResolveReference(&url.URL{Path: name})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch %s: unexpected status %d", target, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}

// GCSSource reads documents from a Cloud Storage bucket under an optional prefix.
type GCSSource struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSSource opens a storage client using application default credentials.
func NewGCSSource(ctx context.Context, bucket, prefix string) (*GCSSource, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("datastore: storage client: %w", err)
	}
	return &GCSSource{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

func (s *GCSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	object := path.Join(s.prefix, name)
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.bucket, object, err)
	}
	defer r.Close()
	return io.ReadAll(io.LimitReader(r, maxDocumentBytes))
}

// Close releases the storage client.
func (s *GCSSource) Close() error {
	return s.client.Close()
}

// OpenSource picks a Source from a location string: gs://bucket/prefix,
// an http(s) base URL, or a local directory. The returned closer is never nil.
func OpenSource(ctx context.Context, location string, timeout time.Duration) (Source, func() error, error) {
	location = strings.TrimSpace(location)
	noop := func() error { return nil }
	switch {
	case location == "":
		return nil, noop, ErrNotConfigured
	case strings.HasPrefix(location, "gs://"):
		rest := strings.TrimPrefix(location, "gs://")
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return nil, noop, fmt.Errorf("datastore: invalid gcs location %q", location)
		}
		src, err := NewGCSSource(ctx, bucket, prefix)
		if err != nil {
			return nil, noop, err
		}
		return src, src.Close, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		src, err := NewHTTPSource(location, timeout)
		if err != nil {
			return nil, noop, err
		}
		return src, noop, nil
	default:
		return DirSource{Dir: location}, noop, nil
	}
}
