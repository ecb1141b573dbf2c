package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/hupe1980/vnbgeo/resource"
)

// StatusError is returned by HTTPStore for non-2xx responses.
type StatusError struct {
	Name       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("blobstore: GET %s: %d %s", e.Name, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes 404 responses match ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// HTTPStore reads resources with plain GET requests below a base URL.
// No authentication or caching headers are sent.
type HTTPStore struct {
	base   *url.URL
	client *http.Client
	rc     *resource.Controller
}

// HTTPOption configures an HTTPStore.
type HTTPOption func(*HTTPStore)

// WithHTTPClient sets the HTTP client. Defaults to http.DefaultClient.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPStore) {
		s.client = c
	}
}

// WithResourceController limits concurrent and per-second requests.
func WithResourceController(rc *resource.Controller) HTTPOption {
	return func(s *HTTPStore) {
		s.rc = rc
	}
}

// NewHTTPStore creates an HTTPStore for the given base URL.
func NewHTTPStore(baseURL string, optFns ...HTTPOption) (*HTTPStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("blobstore: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("blobstore: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	s := &HTTPStore{
		base:   u,
		client: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s, nil
}

// URL returns the absolute URL of a resource.
func (s *HTTPStore) URL(name string) string {
	return s.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(name, "/")}).String()
}

// Open issues a GET request for name. The returned blob streams the response body;
// the fetch slot of the resource controller is held until it is closed.
func (s *HTTPStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := s.rc.AcquireFetch(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(name), nil)
	if err != nil {
		s.rc.ReleaseFetch()
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.rc.ReleaseFetch()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		s.rc.ReleaseFetch()
		return nil, &StatusError{Name: name, StatusCode: resp.StatusCode}
	}

	return &httpBlob{body: resp.Body, size: resp.ContentLength, release: s.rc.ReleaseFetch}, nil
}

type httpBlob struct {
	body    io.ReadCloser
	size    int64
	release func()
	once    sync.Once
}

func (b *httpBlob) Read(p []byte) (int, error) {
	return b.body.Read(p)
}

func (b *httpBlob) Close() error {
	err := b.body.Close()
	b.once.Do(b.release)
	return err
}

func (b *httpBlob) Size() int64 {
	return b.size
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
