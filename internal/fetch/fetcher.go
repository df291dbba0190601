package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"

	"github.com/nao1215/corpuscrawl/internal/config"
	"github.com/nao1215/corpuscrawl/internal/model"
)

// maxRedirects is the number of redirects followed before giving up.
const maxRedirects = 10

// Fetcher issues GET requests with a fixed timeout.
// A Fetcher is safe for concurrent use.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	proxyAddr   string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithProxy routes every request through the SOCKS5 proxy at addr ("host:port").
func WithProxy(addr string) Option {
	return func(f *Fetcher) {
		f.proxyAddr = addr
	}
}

// WithHTTPClient replaces the HTTP client. The proxy option is ignored
// when a client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher. Unset options take the config package defaults.
func New(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     config.DefaultTimeout,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		client, err := newHTTPClient(f.timeout, f.proxyAddr)
		if err != nil {
			return nil, err
		}
		f.client = client
	}
	return f, nil
}

// newHTTPClient creates the default client, dialing through a SOCKS5 proxy
// when proxyAddr is set.
func newHTTPClient(timeout time.Duration, proxyAddr string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.MaxIdleConnsPerHost = 4
	transport.IdleConnTimeout = 30 * time.Second

	if proxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, errors.New("SOCKS5 dialer does not support contexts")
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer.DialContext
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// Timeout returns the per-fetch timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// Fetch performs one GET and classifies the outcome. The request is bounded
// by the fetcher's timeout in addition to ctx.
func (f *Fetcher) Fetch(ctx context.Context, url string) model.FetchOutcome {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.NetworkError(err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096) //nolint:errcheck // best effort
		return model.HTTPError(resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	body, err := f.readBody(resp.Body, contentType)
	if err != nil {
		return classify(ctx, err)
	}
	return model.Success(resp.StatusCode, body, contentType)
}

// readBody reads at most maxBodySize bytes and decodes them to UTF-8 using
// the declared or sniffed charset.
func (f *Fetcher) readBody(body io.Reader, contentType string) (string, error) {
	decoded, err := charset.NewReader(io.LimitReader(body, f.maxBodySize), contentType)
	if errors.Is(err, io.EOF) {
		// Empty body.
		return "", nil
	}
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// classify maps a transport error to Timeout or NetworkError.
func classify(ctx context.Context, err error) model.FetchOutcome {
	if isTimeout(ctx, err) {
		return model.Timeout(err)
	}
	return model.NetworkError(err)
}

// isTimeout reports whether err stems from a deadline.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
