package store

import (
	"github.com/LeoCommon/safetrack/pkg/log"
	"go.uber.org/zap"
)

const (
	DocumentSuffix  = ".json"
	ContentTypeJSON = "application/json"
)

// Poster performs a single HTTP POST and reports whether it was accepted
type Poster interface {
	Post(url string, body string, contentType string) bool
}

// Client writes JSON documents below a base url. Authentication, if any, has
// to be part of the base url.
type Client struct {
	baseURL string
	poster  Poster
}

func NewClient(baseURL string, poster Poster) *Client {
	return &Client{baseURL: baseURL, poster: poster}
}

// URL returns the document location for path
func (c *Client) URL(path string) string {
	return c.baseURL + path + DocumentSuffix
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send posts json to the document at path, exactly once
func (c *Client) Send(path string, json string) bool {
	url := c.URL(path)
	log.Info("sending to document store", zap.String("url", url), zap.Int("len", len(json)))

	return c.poster.Post(url, json, ContentTypeJSON)
}
