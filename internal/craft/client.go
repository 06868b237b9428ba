package craft

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

// Source lists documents and fetches their blocks.
type Source interface {
	ListDocuments(ctx context.Context) ([]Document, error)
	GetBlocks(ctx context.Context, documentID string) ([]Block, error)
}

// Config describes how to reach the Craft API.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is the HTTP implementation of Source.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client. A zero timeout falls back to 30 seconds.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With("system", "craft"),
	}
}

// ListDocuments returns every document visible to the token. The API
// answers with {"items": [...]}; a bare array is accepted as well.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	body, err := c.get(ctx, "/documents", nil)
	if err != nil {
		return nil, err
	}

	docs, err := decodeDocuments(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("documents listed", "count", len(docs))
	return docs, nil
}

// GetBlocks returns the content blocks of a document, unwrapping the root
// page block when the API returns one.
func (c *Client) GetBlocks(ctx context.Context, documentID string) ([]Block, error) {
	body, err := c.get(ctx, "/blocks", url.Values{"id": {documentID}})
	if err != nil {
		return nil, err
	}

	blocks, err := decodeBlocks(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("blocks fetched", "document_id", documentID, "count", len(blocks))
	return blocks, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("craft request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read craft response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	return body, nil
}

func decodeDocuments(body []byte) ([]Document, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnexpectedShape
	}

	if trimmed[0] == '[' {
		var docs []Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return docs, nil
	}

	var envelope struct {
		Items *[]Document `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if envelope.Items == nil {
		return nil, ErrUnexpectedShape
	}
	return *envelope.Items, nil
}

func decodeBlocks(body []byte) ([]Block, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnexpectedShape
	}

	var blocks []Block
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &blocks); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
	case '{':
		var root Block
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		blocks = []Block{root}
	default:
		return nil, ErrUnexpectedShape
	}

	if len(blocks) == 1 && blocks[0].Type == BlockPage {
		return blocks[0].Content, nil
	}
	return blocks, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
