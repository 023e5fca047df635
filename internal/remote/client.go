// Package remote fetches ranked user pages from a /users endpoint.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dsjohal14/peoplepicker/internal/scope/record"
)

const msgpackType = "application/msgpack"

// Client implements record.DataSource over HTTP
type Client struct {
	// Endpoint is the full /users URL
	Endpoint string

	// MsgPack asks the server for MessagePack instead of JSON
	MsgPack bool

	// Client is used for requests; if nil, http.DefaultClient is used.
	Client *http.Client
}

// New creates a client for endpoint
func New(endpoint string) *Client {
	return &Client{Endpoint: endpoint}
}

// FetchPage requests one page. An empty search is omitted from the query string.
func (c *Client) FetchPage(ctx context.Context, req record.PageRequest) (page record.Page, err error) {
	target, err := c.pageURL(req)
	if err != nil {
		return record.Page{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return record.Page{}, fmt.Errorf("failed to build request: %w", err)
	}
	if c.MsgPack {
		httpReq.Header.Set("Accept", msgpackType)
	} else {
		httpReq.Header.Set("Accept", "application/json")
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return record.Page{}, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return record.Page{}, fmt.Errorf("server returned non-200 status: %d", resp.StatusCode)
	}

	if resp.Header.Get("Content-Type") == msgpackType {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return record.Page{}, fmt.Errorf("failed to read response body: %w", err)
		}
		if err := msgpack.Unmarshal(body, &page); err != nil {
			return record.Page{}, fmt.Errorf("failed to decode msgpack page: %w", err)
		}
	} else if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return record.Page{}, fmt.Errorf("failed to decode page: %w", err)
	}

	if page.Data == nil {
		page.Data = []record.Record{}
	}
	return page, nil
}

func (c *Client) pageURL(req record.PageRequest) (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}

	q := u.Query()
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	q.Set("offset", strconv.Itoa(req.Offset))
	q.Set("count", strconv.Itoa(req.Count))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

var _ record.DataSource = (*Client)(nil)
