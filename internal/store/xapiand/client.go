// Package xapiand backs the document store contract with a Xapiand
// server over its REST API. A 412 from the server is the schema
// precondition the caller provisions on.
package xapiand

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/docmap/internal/store"
	"github.com/kailas-cloud/docmap/internal/version"
)

const defaultTimeout = 30 * time.Second

// Config holds connection parameters for a Xapiand server.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client implements store.Client against a Xapiand REST endpoint.
type Client struct {
	base *url.URL
	hc   *http.Client
}

var _ store.Client = (*Client)(nil)

// New creates a Xapiand store client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{base: base, hc: hc}, nil
}

// Index writes a document: PUT with an explicit id, POST otherwise.
// The server assigns the id on POST and reports it back as "_id".
func (c *Client) Index(ctx context.Context, path, id string, doc store.Values) (string, error) {
	var (
		resp store.Values
		err  error
	)
	if id == "" {
		resp, err = c.send(ctx, http.MethodPost, c.endpoint(path, ""), nil, doc)
	} else {
		resp, err = c.send(ctx, http.MethodPut, c.endpoint(path, id), nil, doc)
	}
	if err != nil {
		return "", err
	}
	if v, ok := resp["_id"]; ok {
		return fmt.Sprint(v), nil
	}
	return id, nil
}

// ProvisionSchema registers the index schema. Repeating the call with the
// same definition is accepted by the server, so provisioning stays
// idempotent.
func (c *Client) ProvisionSchema(ctx context.Context, path string, definition store.Values) error {
	body := store.Values{"_schema": definition}
	_, err := c.send(ctx, http.MethodPut, c.endpoint(path, ""), nil, body)
	return err
}

// Fetch reads a document. A volatile fetch bypasses server caches and
// reads the freshest committed state.
func (c *Client) Fetch(ctx context.Context, path, id string, volatile bool) (store.Values, error) {
	var q url.Values
	if volatile {
		q = url.Values{"volatile": []string{"true"}}
	}
	doc, err := c.send(ctx, http.MethodGet, c.endpoint(path, id), q, nil)
	if err != nil {
		return nil, err
	}
	return stripMeta(doc), nil
}

// Update rewrites the document at its existing location.
func (c *Client) Update(ctx context.Context, path, id string, doc store.Values) error {
	_, err := c.send(ctx, http.MethodPut, c.endpoint(path, id), nil, doc)
	return err
}

type searchBody struct {
	Query        string `json:"_query"`
	Limit        int    `json:"_limit"`
	Offset       int    `json:"_offset,omitempty"`
	Sort         string `json:"_sort,omitempty"`
	CheckAtLeast int    `json:"_check_at_least,omitempty"`
}

// The server reports the page's hit count as "count" and the engine's
// matched-documents estimate as "total".
type searchResponse struct {
	Count        int            `json:"count"`
	Total        int            `json:"total"`
	Aggregations map[string]any `json:"aggregations"`
	Hits         []store.Values `json:"hits"`
}

// Search posts a query to the index's :search endpoint.
func (c *Client) Search(ctx context.Context, path string, req store.SearchRequest) (*store.SearchResult, error) {
	query := req.Query
	if query == "" {
		query = "*"
	}
	body := searchBody{
		Query:        query,
		Limit:        req.Limit,
		Offset:       req.Offset,
		Sort:         req.Sort,
		CheckAtLeast: req.CheckAtLeast,
	}

	raw, err := c.do(ctx, http.MethodPost, c.endpoint(path, ":search"), nil, body)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]store.Values, 0, len(sr.Hits))
	for _, hit := range sr.Hits {
		items = append(items, stripMeta(hit))
	}
	return &store.SearchResult{
		Items:            items,
		Total:            sr.Count,
		MatchesEstimated: sr.Total,
		Aggregations:     sr.Aggregations,
	}, nil
}

// Remove deletes the document.
func (c *Client) Remove(ctx context.Context, path, id string) error {
	_, err := c.send(ctx, http.MethodDelete, c.endpoint(path, id), nil, nil)
	return err
}

// endpoint joins the base URL with an index path and an optional leaf.
func (c *Client) endpoint(path, leaf string) string {
	u := *c.base
	segments := strings.Trim(path, "/")
	if leaf != "" {
		segments += "/" + leaf
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + segments
	return u.String()
}

// send performs a request and decodes the JSON response body, if any.
func (c *Client) send(ctx context.Context, method, rawURL string, q url.Values, body any) (store.Values, error) {
	raw, err := c.do(ctx, method, rawURL, q, body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return store.Values{}, nil
	}
	var out store.Values
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, q url.Values, body any) ([]byte, error) {
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "docmap/"+version.Version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, store.ErrNotFound
	case resp.StatusCode == http.StatusPreconditionFailed:
		return nil, store.ErrSchemaPrecondition
	default:
		return nil, &ServerError{Status: resp.StatusCode, Body: snippet(data)}
	}
}

// ServerError reports a non-2xx response outside the mapped statuses.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	msg := "xapiand: server returned " + strconv.Itoa(e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func snippet(data []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(data))
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}

// stripMeta drops server bookkeeping fields, keeping "_id" as "id".
func stripMeta(doc store.Values) store.Values {
	out := make(store.Values, len(doc))
	for k, v := range doc {
		if strings.HasPrefix(k, "_") {
			if k == "_id" {
				out["id"] = v
			}
			continue
		}
		if strings.HasPrefix(k, "#") {
			continue
		}
		out[k] = v
	}
	return out
}
