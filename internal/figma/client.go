package figma

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/protodeck/protodeck-backend/config"
)

var (
	ErrInvalidURL    = errors.New("invalid figma url")
	ErrNotConfigured = errors.New("figma api token not configured")
	ErrNoImage       = errors.New("figma returned no image")
	ErrUpstream      = errors.New("figma api request failed")
)

// Thumbnail is a rendered preview of a Figma file.
type Thumbnail struct {
	URL    string `json:"url"`
	FileID string `json:"file_id"`
	NodeID string `json:"node_id,omitempty"`
}

// Client talks to the Figma REST API.
type Client struct {
	baseURL     string
	accessToken string
	bearer      bool
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// NewClient builds a client from config. A FIGMA_OAUTH_TOKEN takes precedence
// over the personal access token and is sent as a bearer token.
func NewClient(cfg config.FigmaConfig) *Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	accessToken := cfg.AccessToken

	if cfg.OAuthToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.OAuthToken, TokenType: "Bearer"})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = 15 * time.Second
		accessToken = ""
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		baseURL:     cfg.APIURL,
		accessToken: accessToken,
		bearer:      cfg.OAuthToken != "",
		httpClient:  httpClient,
		limiter:     rate.NewLimiter(limit, 1),
	}
}

// Configured reports whether the client holds any credential.
func (c *Client) Configured() bool {
	return c.accessToken != "" || c.bearer
}

type imagesResponse struct {
	Err    *string       `json:"err"`
	Images orderedImages `json:"images"`
}

type imageEntry struct {
	Node string
	URL  string
}

// orderedImages is the images object in the order Figma wrote it. Null
// renders are dropped.
type orderedImages []imageEntry

func (o *orderedImages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("images: unexpected %v", tok)
	}

	var out orderedImages
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return err
		}
		node, _ := key.(string)
		var url *string
		if err := dec.Decode(&url); err != nil {
			return fmt.Errorf("images[%s]: %w", node, err)
		}
		if url != nil {
			out = append(out, imageEntry{Node: node, URL: *url})
		}
	}
	*o = out
	return nil
}

// Thumbnail renders the file behind figmaURL as a PNG at scale 2.
func (c *Client) Thumbnail(ctx context.Context, figmaURL string) (*Thumbnail, error) {
	fileID := ExtractFileID(figmaURL)
	if fileID == "" {
		return nil, ErrInvalidURL
	}
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/images/%s?format=png&scale=2", c.baseURL, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.accessToken != "" {
		req.Header.Set("X-Figma-Token", c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var out imagesResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	for _, img := range out.Images {
		if img.URL != "" {
			return &Thumbnail{URL: img.URL, FileID: fileID, NodeID: img.Node}, nil
		}
	}
	return nil, ErrNoImage
}
