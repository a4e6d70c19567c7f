package httpx

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client executes requests against a single node base URL. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Request describes a single outbound request. GET requests leave Body nil.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
}

// NewClient validates and normalizes the node base URL. Query and fragment
// components are dropped and a single trailing slash is removed. Reachability
// is not checked. A malformed URL yields a KindBadURL error.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, NewBadURL(baseURL)
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	parsed.RawPath = strings.TrimSuffix(parsed.RawPath, "/")

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    parsed,
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the normalized node base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) buildURL(req *Request) string {
	full := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		full.RawQuery = req.Query.Encode()
	}
	return full.String()
}

// Execute performs one HTTP round trip and decodes the 2xx response body via
// decode. Failures are classified into the closed Kind set: transport
// failures become KindTimeout or KindNetwork, a non-2xx status becomes
// KindBadStatus carrying the status code and body, and a decode error on a
// 2xx body becomes KindDecode. No retries are attempted and no timeout is
// imposed beyond the caller's context and http.Client.
func Execute[T any](ctx context.Context, client *Client, req *Request, decode func([]byte) (T, error)) (T, error) {
	var zero T

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, client.buildURL(req), req.Body)
	if err != nil {
		return zero, NewBadURL(client.buildURL(req))
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	resp, err := client.httpClient.Do(httpReq)
	if err != nil {
		return zero, classifyTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, NewBadStatus(resp.StatusCode, body)
	}

	result, err := decode(body)
	if err != nil {
		return zero, NewDecodeFailure(err)
	}

	return result, nil
}

// Text is the identity decoder: the response body is returned verbatim as a
// string, arbitrary content included.
func Text(body []byte) (string, error) {
	return string(body), nil
}
