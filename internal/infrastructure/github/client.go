// Package github implements the remote document store against the GitHub
// contents API: the registry is a single JSON file in a repository, fetched
// and overwritten wholesale, with the file's blob SHA as the version token.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelier-studio/registry-api/internal/core/domain"
)

const defaultBaseURL = "https://api.github.com"

const acceptHeader = "application/vnd.github+json"

// Config captures the settings for the registry file resource.
type Config struct {
	// BaseURL overrides the API host, used by tests. Defaults to the public
	// GitHub API.
	BaseURL string
	Owner   string
	Repo    string
	// Path is the registry file path inside the repository.
	Path   string
	Branch string
	// Token is the write credential. It lives in server configuration only
	// and is never exposed to clients.
	Token string

	Timeout time.Duration
}

// Client implements ports.RemoteStore.
type Client struct {
	http    *http.Client
	baseURL string
	cfg     Config
	log     zerolog.Logger
}

// NewClient builds a Client. A default timeout of 10 s is applied when none
// is provided.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		cfg:     cfg,
		log:     log,
	}
}

func (c *Client) fileURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.Path)
}

// contentResponse is the subset of the contents API GET response we consume.
type contentResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// writeRequest is the contents API PUT body.
type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
	Branch  string `json:"branch"`
}

// writeResponse is the subset of the PUT response we consume.
type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// FetchDocument retrieves and decodes the registry file, returning the parsed
// document and its blob SHA as the version token.
func (c *Client) FetchDocument(ctx context.Context) (*domain.Document, string, error) {
	url := c.fileURL()
	if c.cfg.Branch != "" {
		url += "?ref=" + c.cfg.Branch
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("fetch document: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: fetch returned %s", domain.ErrRemoteUnavailable, resp.Status)
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("%w: decode response: %v", domain.ErrRemoteUnavailable, err)
	}

	raw, err := DecodeContent(body.Content)
	if err != nil {
		return nil, "", fmt.Errorf("fetch document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, "", fmt.Errorf("fetch document: parse registry: %w", err)
	}

	return &doc, body.SHA, nil
}

// WriteDocument overwrites the registry file. The token must be the SHA
// returned by the last fetch or write; GitHub rejects stale SHAs with a
// conflict status.
func (c *Client) WriteDocument(ctx context.Context, doc *domain.Document, token, message string) (string, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("write document: encode registry: %w", err)
	}

	payload, err := json.Marshal(writeRequest{
		Message: message,
		Content: EncodeContent(raw),
		SHA:     token,
		Branch:  c.cfg.Branch,
	})
	if err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.fileURL(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// GitHub answers 409 for a stale SHA on the contents endpoint and
		// 422 when the SHA does not match the current blob.
		return "", domain.ErrVersionConflict
	default:
		return "", fmt.Errorf("%w: write returned %s", domain.ErrRemoteUnavailable, resp.Status)
	}

	var body writeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrRemoteUnavailable, err)
	}

	c.log.Debug().Str("token", body.Content.SHA).Msg("remote document written")
	return body.Content.SHA, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")
}

// EncodeContent produces the binary-safe text representation the contents API
// requires.
func EncodeContent(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// DecodeContent reverses EncodeContent. The API wraps stored content in
// newlines, which standard base64 decoding rejects, so whitespace is stripped
// first.
func DecodeContent(content string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, content)

	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return raw, nil
}
