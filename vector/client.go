// Package vector is the client for the external embedding/search service.
// The service embeds raw text server-side, so this client only moves text
// and ids; vectors themselves never pass through this process.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// ErrUnavailable wraps transport-level failures so callers can tell "the
// vector service is down" apart from a rejected request.
var ErrUnavailable = errors.New("vector store unavailable")

// Store is the vector-database surface used by the note service.
type Store interface {
	Upsert(ctx context.Context, namespace string, doc Document) error
	Query(ctx context.Context, namespace, text string, topK int) ([]Match, error)
	Delete(ctx context.Context, namespace string, ids []string) error
}

// Document is a single text entry to embed and index.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Match is one semantic-search hit, highest score first.
type Match struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

var _ Store = (*Client)(nil)

// Client talks to the vector service over its REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a vector-service client. baseURL is kept separate so
// tests can point it at a local fake.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Upsert embeds the document text and indexes it under the given namespace.
func (c *Client) Upsert(ctx context.Context, namespace string, doc Document) error {
	payload := map[string]any{
		"namespace": namespace,
		"documents": []Document{doc},
	}

	return c.post(ctx, "/vectors/upsert", payload, nil)
}

// Query runs a semantic search over the namespace and returns up to topK
// matches in score order.
func (c *Client) Query(ctx context.Context, namespace, text string, topK int) ([]Match, error) {
	payload := map[string]any{
		"namespace": namespace,
		"text":      text,
		"top_k":     topK,
	}

	var result struct {
		Matches []Match `json:"matches"`
	}
	if err := c.post(ctx, "/vectors/query", payload, &result); err != nil {
		return nil, err
	}

	return result.Matches, nil
}

// Delete removes the given ids from the namespace.
func (c *Client) Delete(ctx context.Context, namespace string, ids []string) error {
	payload := map[string]any{
		"namespace": namespace,
		"ids":       ids,
	}

	return c.post(ctx, "/vectors/delete", payload, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode vector request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build vector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("vector store request failed", "error", err, "path", path)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Error("vector store rejected request", "status", resp.StatusCode, "path", path, "body", string(raw))
		return fmt.Errorf("vector store returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read vector response: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse vector response: %w", err)
	}

	return nil
}
