package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config describes a Sanity project and dataset.
type Config struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
	// APIHost overrides https://<project>.api.sanity.io.
	APIHost string
	Timeout time.Duration
}

var _ Store = (*Client)(nil)

// Client is the HTTP implementation of Store.
type Client struct {
	base    string
	dataset string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client. API version defaults to 2021-06-07, timeout to 30s.
func New(cfg Config, logger *slog.Logger) *Client {
	host := strings.TrimRight(cfg.APIHost, "/")
	if host == "" {
		host = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	version := strings.TrimPrefix(cfg.APIVersion, "v")
	if version == "" {
		version = "2021-06-07"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		base:    host + "/v" + version,
		dataset: cfg.Dataset,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("system", "sanity"),
	}
}

// Fetch runs a GROQ query with optional parameters and decodes the result
// into out. A missing result decodes as JSON null.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	payload := map[string]any{"query": query}
	if len(params) > 0 {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	var resp struct {
		Result json.RawMessage `json:"result"`
	}
	endpoint := "/data/query/" + c.dataset
	if err := c.do(ctx, http.MethodPost, endpoint, nil, "application/json", body, &resp); err != nil {
		return err
	}

	if len(resp.Result) == 0 {
		resp.Result = json.RawMessage("null")
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

// Create inserts doc and returns the stored document.
func (c *Client) Create(ctx context.Context, doc Document) (Document, error) {
	return c.mutate(ctx, map[string]any{"create": doc})
}

// Patch starts a set-fields patch against the document with id.
func (c *Client) Patch(id string) *Patch {
	return NewPatch(id, func(ctx context.Context, id string, set map[string]any) (Document, error) {
		return c.mutate(ctx, map[string]any{
			"patch": map[string]any{"id": id, "set": set},
		})
	})
}

// CreateOrReplace writes doc under its _id, replacing any existing document.
// Returns ErrMissingID when doc has no _id.
func (c *Client) CreateOrReplace(ctx context.Context, doc Document) (Document, error) {
	if doc.ID() == "" {
		return nil, ErrMissingID
	}
	return c.mutate(ctx, map[string]any{"createOrReplace": doc})
}

// UploadAsset stores data as an asset of kind. The content type defaults to
// application/octet-stream.
func (c *Client) UploadAsset(ctx context.Context, kind AssetKind, data []byte, opts UploadOptions) (*Asset, error) {
	query := url.Values{}
	if opts.Filename != "" {
		query.Set("filename", opts.Filename)
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var resp struct {
		Document Asset `json:"document"`
	}
	endpoint := fmt.Sprintf("/assets/%ss/%s", kind, c.dataset)
	if err := c.do(ctx, http.MethodPost, endpoint, query, contentType, data, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("asset uploaded",
		"asset_id", resp.Document.ID,
		"filename", opts.Filename,
		"bytes", len(data),
	)
	return &resp.Document, nil
}

func (c *Client) mutate(ctx context.Context, mutation map[string]any) (Document, error) {
	body, err := json.Marshal(map[string]any{
		"mutations": []map[string]any{mutation},
	})
	if err != nil {
		return nil, fmt.Errorf("encode mutation: %w", err)
	}

	var resp struct {
		TransactionID string `json:"transactionId"`
		Results       []struct {
			ID        string   `json:"id"`
			Operation string   `json:"operation"`
			Document  Document `json:"document"`
		} `json:"results"`
	}
	query := url.Values{"returnDocuments": {"true"}, "visibility": {"sync"}}
	endpoint := "/data/mutate/" + c.dataset
	if err := c.do(ctx, http.MethodPost, endpoint, query, "application/json", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrEmptyResult
	}

	result := resp.Results[0]
	doc := result.Document
	if doc == nil {
		doc = Document{"_id": result.ID}
	}
	c.logger.Debug("mutation applied",
		"transaction_id", resp.TransactionID,
		"operation", result.Operation,
		"id", doc.ID(),
	)
	return doc, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, contentType string, body []byte, out any) error {
	target := c.base + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sanity request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sanity response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(endpoint, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode sanity response: %w", err)
	}
	return nil
}
