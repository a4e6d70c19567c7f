package node

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/caslabs/ipfs-node-client/common"
	"github.com/caslabs/ipfs-node-client/common/httpx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ClientOption configures a storage node client.
type ClientOption struct {
	// HTTPClient overrides the transport. Defaults to http.DefaultClient,
	// which imposes no timeout; callers bound requests via context.
	HTTPClient *http.Client
	// LogOption configures request level diagnostics. Logs are discarded
	// by default.
	LogOption common.LogOption
}

// Client talks to a content-addressable storage node over its HTTP API.
// It is immutable and safe for concurrent use; each operation performs
// exactly one round trip with no retries and no caching.
type Client struct {
	url    string
	http   *httpx.Client
	logger *logrus.Logger
}

// MustNewClient creates a client for the node at url and fatals on failure.
func MustNewClient(url string, option ...ClientOption) *Client {
	client, err := NewClient(url, option...)
	if err != nil {
		logrus.WithError(err).WithField("url", url).Fatal("Failed to create storage node client")
	}

	return client
}

// NewClient creates a client for the node at url. The URL must be a
// well-formed absolute URL; its query and fragment are stripped and a single
// trailing slash is removed. Reachability is not checked.
func NewClient(url string, option ...ClientOption) (*Client, error) {
	var opt ClientOption
	if len(option) > 0 {
		opt = option[0]
	}

	httpClient, err := httpx.NewClient(url, opt.HTTPClient)
	if err != nil {
		return nil, err
	}

	var logOptions []common.LogOption
	if opt.LogOption != (common.LogOption{}) {
		logOptions = append(logOptions, opt.LogOption)
	}

	return &Client{
		url:    httpClient.BaseURL(),
		http:   httpClient,
		logger: common.NewLogger(logOptions...),
	}, nil
}

// MustNewClients creates a client per url and fatals on the first failure.
func MustNewClients(urls []string, option ...ClientOption) []*Client {
	var clients []*Client

	for _, url := range urls {
		client := MustNewClient(url, option...)
		clients = append(clients, client)
	}

	return clients
}

// URL returns the normalized node base URL.
func (c *Client) URL() string {
	return c.url
}

// Cat retrieves the content addressed by hash via api/v0/cat. The response
// body is returned verbatim, whatever its content; no format validation is
// performed.
func (c *Client) Cat(ctx context.Context, hash ContentHash) (string, error) {
	if hash.IsZero() {
		return "", httpx.NewNodeError("invalid content hash")
	}

	c.logger.WithFields(logrus.Fields{
		"url":  c.url,
		"hash": hash,
	}).Debug("Reading content from storage node")

	query := url.Values{}
	query.Set("arg", "/ipfs/"+hash.String())

	return httpx.Execute(ctx, c.http, &httpx.Request{
		Method: http.MethodGet,
		Path:   "api/v0/cat",
		Query:  query,
	}, httpx.Text)
}

// Add stores data on the node via api/v0/add, wrapped in a directory object
// with filename as the entry name. The node's JSON response is decoded into
// the LinkedFile describing the stored entry.
func (c *Client) Add(ctx context.Context, filename string, data string) (*LinkedFile, error) {
	if filename == "" {
		return nil, httpx.NewNodeError("invalid filename")
	}

	c.logger.WithFields(logrus.Fields{
		"url":      c.url,
		"filename": filename,
		"size":     len(data),
	}).Debug("Storing content on storage node")

	body, contentType, err := multipartBody(filename, data)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to build multipart body")
	}

	query := url.Values{}
	query.Set("wrap-with-directory", "true")
	query.Set("stdin-name", filename)
	query.Set("silent", "true")

	link, err := httpx.Execute(ctx, c.http, &httpx.Request{
		Method:      http.MethodPost,
		Path:        "api/v0/add",
		Query:       query,
		Body:        body,
		ContentType: contentType,
	}, decodeLinkedFile)
	if err != nil {
		return nil, err
	}

	return &link, nil
}

// Links lists the links of the directory object addressed by hash via
// api/v0/object/get.
func (c *Client) Links(ctx context.Context, hash ContentHash) ([]LinkedFile, error) {
	if hash.IsZero() {
		return nil, httpx.NewNodeError("invalid content hash")
	}

	c.logger.WithFields(logrus.Fields{
		"url":  c.url,
		"hash": hash,
	}).Debug("Listing links from storage node")

	query := url.Values{}
	query.Set("arg", "/ipfs/"+hash.String())

	return httpx.Execute(ctx, c.http, &httpx.Request{
		Method: http.MethodGet,
		Path:   "api/v0/object/get",
		Query:  query,
	}, decodeLinks)
}

// ResolveLink returns the first link under hash whose name equals name, in
// the order the node returns them. A missing name yields nil without error.
func (c *Client) ResolveLink(ctx context.Context, hash ContentHash, name string) (*LinkedFile, error) {
	links, err := c.Links(ctx, hash)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list links")
	}

	for i := range links {
		if links[i].Name == name {
			return &links[i], nil
		}
	}

	return nil, nil
}

// Version queries the node version via api/v0/version. The response is
// returned as opaque text.
func (c *Client) Version(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("number", "true")

	return httpx.Execute(ctx, c.http, &httpx.Request{
		Method: http.MethodGet,
		Path:   "api/v0/version",
		Query:  query,
	}, httpx.Text)
}

// multipartBody builds a multipart form with a single part named filename
// holding data.
func multipartBody(filename string, data string) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile(filename, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err = part.Write([]byte(data)); err != nil {
		return nil, "", err
	}
	if err = writer.Close(); err != nil {
		return nil, "", err
	}

	return buf, writer.FormDataContentType(), nil
}
