package inline

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pagefuse/pagefuse/urlcheck"
)

// Fetcher retrieves remote documents and assets over HTTP. One timeout
// applies uniformly to the primary document fetch and to every asset
// fetch. With the private-host guard enabled, requests and redirects to
// localhost, private IPs, and local domains are refused.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxSize      int64
	blockPrivate bool
}

// NewFetcher creates a fetcher. maxSize caps the response body in bytes.
func NewFetcher(timeout time.Duration, userAgent string, maxSize int64, blockPrivate bool) *Fetcher {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}

	dialContext := dialer.DialContext
	if blockPrivate {
		// Re-validate resolved IPs at dial time so DNS rebinding cannot
		// route a vetted hostname to a private address.
		dialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, fmt.Errorf("invalid address: %w", err)
			}
			ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
			if err != nil {
				return nil, fmt.Errorf("DNS lookup failed: %w", err)
			}
			for _, ipAddr := range ips {
				if urlcheck.IsPrivateIP(ipAddr.IP) {
					return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
				}
			}
			for _, ipAddr := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ipAddr.IP.String(), port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, fmt.Errorf("failed to connect to any resolved IP")
		}
	}

	transport := &http.Transport{
		DialContext:           dialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (max 5)")
				}
				if err := urlcheck.ValidateURL(req.URL.String(), blockPrivate); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		userAgent:    userAgent,
		maxSize:      maxSize,
		blockPrivate: blockPrivate,
	}
}

// Fetch retrieves the resource at urlStr and returns its body as text.
// Any non-2xx status is an error.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	if err := urlcheck.ValidateURL(urlStr, f.blockPrivate); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,text/css,application/javascript;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxSize {
		return "", fmt.Errorf("content too large (exceeds %d bytes)", f.maxSize)
	}

	return string(body), nil
}
