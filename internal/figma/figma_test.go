package figma

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protodeck/protodeck-backend/config"
)

func TestExtractFileID(t *testing.T) {
	assert.Equal(t, "AbC123", ExtractFileID("https://www.figma.com/file/AbC123/My-File"))
	assert.Equal(t, "XyZ9", ExtractFileID("https://www.figma.com/proto/XyZ9/Flow?node-id=1"))
	assert.Equal(t, "D3s1gn", ExtractFileID("https://figma.com/design/D3s1gn"))
	assert.Equal(t, "", ExtractFileID("https://example.com/file/AbC123"))
	assert.Equal(t, "", ExtractFileID(""))
}

func TestEmbedURL(t *testing.T) {
	t.Run("proto", func(t *testing.T) {
		got := EmbedURL("https://www.figma.com/proto/XyZ9/Flow?node-id=1-2", "protodeck")
		assert.Contains(t, got, "https://www.figma.com/proto/XyZ9/Flow?")
		assert.Contains(t, got, "embed-host=protodeck")
		assert.Contains(t, got, "embed-origin=protodeck")
		assert.Contains(t, got, "hide-ui=1")
		assert.Contains(t, got, "node-id=1-2")
	})

	t.Run("file", func(t *testing.T) {
		got := EmbedURL("https://www.figma.com/file/AbC123/My-File?x=1", "protodeck")
		assert.Equal(t, "https://www.figma.com/embed?embed_host=protodeck&url=https://www.figma.com/file/AbC123", got)
	})

	t.Run("other", func(t *testing.T) {
		assert.Equal(t, "https://example.com/x", EmbedURL("https://example.com/x", "protodeck"))
	})
}

func TestClient_Thumbnail(t *testing.T) {
	t.Run("personal token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/images/AbC123", r.URL.Path)
			assert.Equal(t, "png", r.URL.Query().Get("format"))
			assert.Equal(t, "2", r.URL.Query().Get("scale"))
			assert.Equal(t, "secret", r.Header.Get("X-Figma-Token"))
			_, _ = w.Write([]byte(`{"err":null,"images":{"0:1":"https://img/a.png"}}`))
		}))
		defer srv.Close()

		c := NewClient(config.FigmaConfig{AccessToken: "secret", APIURL: srv.URL})
		th, err := c.Thumbnail(context.Background(), "https://www.figma.com/file/AbC123/x")
		require.NoError(t, err)
		assert.Equal(t, &Thumbnail{URL: "https://img/a.png", FileID: "AbC123", NodeID: "0:1"}, th)
	})

	t.Run("oauth bearer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer oauth-tok", r.Header.Get("Authorization"))
			assert.Empty(t, r.Header.Get("X-Figma-Token"))
			_, _ = w.Write([]byte(`{"images":{"0:1":"","0:2":"https://img/b.png"}}`))
		}))
		defer srv.Close()

		c := NewClient(config.FigmaConfig{OAuthToken: "oauth-tok", APIURL: srv.URL, RateLimit: 100})
		th, err := c.Thumbnail(context.Background(), "https://www.figma.com/proto/AbC123/x")
		require.NoError(t, err)
		assert.Equal(t, "0:2", th.NodeID)
	})

	t.Run("first node in response order wins", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"err":null,"images":{"12:3":"https://img/frame.png","2:1":"https://img/cover.png","5:0":null}}`))
		}))
		defer srv.Close()

		c := NewClient(config.FigmaConfig{AccessToken: "t", APIURL: srv.URL})
		th, err := c.Thumbnail(context.Background(), "https://www.figma.com/file/AbC123/x")
		require.NoError(t, err)
		assert.Equal(t, "12:3", th.NodeID)
		assert.Equal(t, "https://img/frame.png", th.URL)
	})

	t.Run("null images", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"err":"render failed","images":null}`))
		}))
		defer srv.Close()

		c := NewClient(config.FigmaConfig{AccessToken: "t", APIURL: srv.URL})
		_, err := c.Thumbnail(context.Background(), "https://www.figma.com/file/AbC123/x")
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("no images", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"images":{}}`))
		}))
		defer srv.Close()

		c := NewClient(config.FigmaConfig{AccessToken: "t", APIURL: srv.URL})
		_, err := c.Thumbnail(context.Background(), "https://www.figma.com/file/AbC123/x")
		assert.ErrorIs(t, err, ErrNoImage)
	})

	t.Run("upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		c := NewClient(config.FigmaConfig{AccessToken: "t", APIURL: srv.URL})
		_, err := c.Thumbnail(context.Background(), "https://www.figma.com/file/AbC123/x")
		assert.True(t, errors.Is(err, ErrUpstream))
	})

	t.Run("invalid url and missing token", func(t *testing.T) {
		c := NewClient(config.FigmaConfig{APIURL: "http://unused"})
		_, err := c.Thumbnail(context.Background(), "https://example.com")
		assert.ErrorIs(t, err, ErrInvalidURL)

		_, err = c.Thumbnail(context.Background(), "https://www.figma.com/file/AbC123/x")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
