package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// HTTP reads log files served over HTTP or HTTPS. Credentials are attached
// to each request; nothing is registered process-wide.
type HTTP struct {
	url         *url.URL
	compression model.Compression
	creds       model.Credentials
	client      *http.Client
}

// NewHTTP returns a strategy for path on the source's host. The scheme
// follows the source type.
func NewHTTP(src model.LogSource, path string, compression model.Compression, opts Options) (*HTTP, error) {
	scheme := "http"
	if src.Type == model.SourceHTTPS {
		scheme = "https"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	raw := scheme + "://" + src.Host + path
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &model.TransportError{Op: "resolve", Source: raw, Err: err}
	}
	if u.Host == "" {
		return nil, &model.TransportError{Op: "resolve", Source: raw, Err: fmt.Errorf("missing host")}
	}

	client := opts.HTTPClient
	if client == nil {
		client = newHTTPClient(opts.DialTimeout)
	}

	return &HTTP{
		url:         u,
		compression: compression,
		creds:       src.Credentials,
		client:      client,
	}, nil
}

// newHTTPClient builds a client that does not keep connections between
// calls.
func newHTTPClient(dialTimeout time.Duration) *http.Client {
	if dialTimeout <= 0 {
		dialTimeout = 30 * time.Second
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: dialTimeout}).DialContext,
			TLSHandshakeTimeout: dialTimeout,
			DisableKeepAlives:   true,
		},
	}
}

func (h *HTTP) Exists(ctx context.Context) (bool, error) {
	resp, err := h.get(ctx)
	if err != nil {
		return false, h.fail("exists", err)
	}
	defer drain(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	default:
		return false, h.fail("exists", statusError(resp))
	}
}

func (h *HTTP) ReadLines(ctx context.Context) ([]model.Line, error) {
	body, err := h.open(ctx)
	if err != nil {
		return nil, h.fail("read", err)
	}
	defer body.Close()

	lines, err := scanLines(body)
	if err != nil {
		return nil, h.fail("read", err)
	}
	return lines, nil
}

func (h *HTTP) CopyTo(ctx context.Context, dest string) error {
	body, err := h.open(ctx)
	if err != nil {
		return h.fail("copy", err)
	}
	defer body.Close()

	if err := writeFile(body, dest); err != nil {
		return h.fail("copy", err)
	}
	return nil
}

// Identity is the URL without user information.
func (h *HTTP) Identity() string {
	u := *h.url
	u.User = nil
	return u.String()
}

func (h *HTTP) Path() string { return h.url.Path }

func (h *HTTP) String() string { return h.Identity() }

// open issues a GET and returns the decompressed body.
func (h *HTTP) open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := h.get(ctx)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		drain(resp.Body)
		return nil, statusError(resp)
	}

	r, err := decompress(resp.Body, h.compression)
	if err != nil {
		drain(resp.Body)
		return nil, err
	}
	return &stackedCloser{Reader: r, closers: []io.Closer{r, resp.Body}}, nil
}

func (h *HTTP) get(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url.String(), nil)
	if err != nil {
		return nil, err
	}
	if !h.creds.Empty() {
		req.SetBasicAuth(h.creds.User, h.creds.Secret)
	}
	if h.compression != model.CompressionNone {
		// Keep the transport from decoding the archive on our behalf.
		req.Header.Set("Accept-Encoding", "identity")
	}
	return h.client.Do(req)
}

func (h *HTTP) fail(op string, err error) error {
	return &model.TransportError{Op: op, Source: h.Identity(), Err: err}
}

func statusError(resp *http.Response) error {
	return fmt.Errorf("unexpected status %s", resp.Status)
}

// drain discards a bounded amount of the body before closing it.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64*1024))
	body.Close()
}

// stackedCloser closes every closer in order, keeping the first error.
type stackedCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
