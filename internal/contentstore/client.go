// Package contentstore is a small client for a Sanity-compatible content
// API: GROQ queries, mutations, transactions and image assets.
package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront-admin/internal/config"
	"storefront-admin/internal/observability"
)

const maxResponseBytes = 10 << 20

// Client talks to one dataset of the content store.
// Requests are not retried; a failed call is reported to the caller as is.
type Client struct {
	baseURL    string
	apiVersion string
	dataset    string
	token      string
	httpClient *http.Client
}

// NewClient creates a content store client from configuration
func NewClient(cfg config.ContentStoreConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultContentStoreTimeout
	}
	version := cfg.APIVersion
	if version == "" {
		version = config.DefaultContentStoreAPIVersion
	}

	return &Client{
		baseURL:    cfg.BaseURL(),
		apiVersion: version,
		dataset:    cfg.Dataset,
		token:      cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Dataset returns the dataset the client is bound to
func (c *Client) Dataset() string {
	return c.dataset
}

// Fetch runs a GROQ query and decodes its result into out.
// Params are bound as $name and JSON encoded.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	q := url.Values{}
	q.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode param %s: %w", name, err)
		}
		q.Set("$"+name, string(encoded))
	}

	endpoint := c.endpoint("data/query") + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	body, err := c.do(req, "query")
	if err != nil {
		return err
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if out == nil || len(envelope.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("failed to decode query result: %w", err)
	}
	return nil
}

// Ping checks that the content store answers queries
func (c *Client) Ping(ctx context.Context) error {
	return c.Fetch(ctx, "now()", nil, nil)
}

// Create stores a new document. If out is non-nil the stored document is
// decoded into it. The new document id is returned.
func (c *Client) Create(ctx context.Context, doc any, out any) (string, error) {
	result, err := c.mutate(ctx, []Mutation{CreateMutation(doc)})
	if err != nil {
		return "", err
	}
	first, err := result.first()
	if err != nil {
		return "", err
	}
	if err := first.decode(out); err != nil {
		return "", err
	}
	return first.ID, nil
}

// Delete removes a document by id
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.mutate(ctx, []Mutation{DeleteMutation(id)})
	return err
}

// Patch starts a patch against the document with the given id
func (c *Client) Patch(id string) *Patch {
	return &Patch{client: c, id: id, set: map[string]any{}}
}

// Transaction starts a multi-mutation transaction
func (c *Client) Transaction() *Transaction {
	return &Transaction{client: c}
}

// Asset is an uploaded asset document
type Asset struct {
	ID  string `json:"_id"`
	URL string `json:"url"`
}

// UploadImage uploads raw image bytes and returns the created asset
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, data []byte) (*Asset, error) {
	endpoint := c.endpoint("assets/images") + "?" + url.Values{"filename": {filename}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	body, err := c.do(req, "upload")
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Document Asset `json:"document"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if envelope.Document.ID == "" {
		return nil, fmt.Errorf("%w: asset without id", ErrInvalidResponse)
	}
	return &envelope.Document, nil
}

func (c *Client) mutate(ctx context.Context, mutations []Mutation) (*MutationResult, error) {
	payload, err := json.Marshal(map[string]any{"mutations": mutations})
	if err != nil {
		return nil, fmt.Errorf("failed to encode mutations: %w", err)
	}

	endpoint := c.endpoint("data/mutate") + "?returnIds=true&returnDocuments=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "mutate")
	if err != nil {
		return nil, err
	}

	var result MutationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &result, nil
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/v%s/%s/%s", c.baseURL, c.apiVersion, path, url.PathEscape(c.dataset))
}

// do executes the request, records its latency and returns the body of a
// successful response. Non-2xx responses become *APIError.
func (c *Client) do(req *http.Request, operation string) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ContentStoreRequestDuration.WithLabelValues(operation, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("content store %s failed: %w", operation, err)
	}
	defer resp.Body.Close()
	observability.ContentStoreRequestDuration.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}
