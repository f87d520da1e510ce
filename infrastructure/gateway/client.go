// Package gateway is the typed HTTP client for the content API. Every call
// attaches the session's bearer credential; a 401 invalidates the cached
// token and is retried once before it propagates as an AuthError.
package gateway

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

	"github.com/google/uuid"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/domain/ports"
)

const defaultTimeout = 30 * time.Second

// Client implements ports.ContentGateway over REST.
type Client struct {
	baseURL    string
	tokens     ports.TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.ContentGateway = (*Client)(nil)

func NewClient(baseURL string, tokens ports.TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default().With("component", "gateway_client"),
	}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.httpClient.Timeout = d
	}
}

// ListContent - GET /content?statuses=A,B,C
func (c *Client) ListContent(ctx context.Context, statuses []models.ContentStatus) ([]models.Content, error) {
	q := ""
	if len(statuses) > 0 {
		parts := make([]string, len(statuses))
		for i, s := range statuses {
			parts[i] = string(s)
		}
		q = "?statuses=" + url.QueryEscape(strings.Join(parts, ","))
	}
	var out []models.Content
	if err := c.do(ctx, http.MethodGet, "/content"+q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetContent(ctx context.Context, id string) (*models.Content, error) {
	var out models.Content
	if err := c.do(ctx, http.MethodGet, "/content/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDraft(ctx context.Context, templateID string, params models.TemplateParams) (*models.Content, error) {
	body := models.ContentCreationRequest{TemplateID: templateID, TemplateParams: params}
	var out models.Content
	if err := c.do(ctx, http.MethodPost, "/content/drafts", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDraft - PUT /content/{id}; body เป็น templateParams ล้วน
func (c *Client) UpdateDraft(ctx context.Context, id string, params models.TemplateParams) (*models.Content, error) {
	var out models.Content
	if err := c.do(ctx, http.MethodPut, "/content/"+url.PathEscape(id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/content/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetPrice(ctx context.Context, id string) (*models.PriceQuote, error) {
	var out models.PriceQuote
	if err := c.do(ctx, http.MethodGet, "/content/"+url.PathEscape(id)+"/price", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestGeneration - POST /content/{id}/generate; ไม่มี body
// May fail with a structured error (e.g. INSUFFICIENT_FUNDS) that must reach
// the confirmation surface intact.
func (c *Client) RequestGeneration(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/content/"+url.PathEscape(id)+"/generate", nil, nil)
}

func (c *Client) GetDownloadURL(ctx context.Context, id string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/content/"+url.PathEscape(id)+"/download-url", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) ListAssets(ctx context.Context, assetType models.AssetType) ([]models.Asset, error) {
	var out []models.Asset
	path := "/assets?type=" + url.QueryEscape(string(assetType))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCharacterPresets(ctx context.Context) ([]models.CharacterPreset, error) {
	var out []models.CharacterPreset
	if err := c.do(ctx, http.MethodGet, "/presets/characters", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GenerateText(ctx context.Context, req models.GenerateTextRequest) (*models.GeneratedContent, error) {
	var out models.GeneratedContent
	if err := c.do(ctx, http.MethodPost, "/generate/text", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do runs one request with auth attached. out == nil ข้าม decode
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.doOnce(ctx, method, path, body, out, true)
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, out any, retryAuth bool) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if !retryAuth {
			// the refresh after an invalidated token failed too; the caller
			// must treat this as needing re-authentication, not a transport
			// hiccup.
			return &AuthError{Status: http.StatusUnauthorized, Err: err}
		}
		return fmt.Errorf("failed to get auth token: %w", err)
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle 401 - retry once with a fresh token
	if resp.StatusCode == http.StatusUnauthorized && retryAuth {
		io.Copy(io.Discard, resp.Body)
		c.tokens.Invalidate()
		c.logger.InfoContext(ctx, "Token rejected, retrying with fresh token",
			"method", method, "path", path, "request_id", requestID)
		return c.doOnce(ctx, method, path, body, out, false)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := errorFromResponse(resp)
		c.logger.WarnContext(ctx, "Gateway request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"error", err,
		)
		return err
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
