package store

import (
	"fmt"
	"time"

	"github.com/LeoCommon/safetrack/pkg/log"
	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

const DefaultRequestTimeout = 10 * time.Second

type ResponseError struct {
	Status string
	Body   []byte
	Code   int
}

// Error converts the response error to string, but does not print body!
func (e *ResponseError) Error() string {
	return fmt.Sprintf("code: %d status: %s", e.Code, e.Status)
}

// ErrorFromResponse provides properly typed errors for further handling
func ErrorFromResponse(err error, resp *req.Response) error {
	// If an error was encountered, relay it unwrapped
	if err != nil {
		return err
	}

	if resp.IsSuccessState() {
		return nil
	}

	return &ResponseError{
		Code:   resp.StatusCode,
		Status: resp.Status,
		Body:   resp.Bytes(),
	}
}

// DirectPoster posts over the host network stack instead of the modem, used
// on bench setups that have their own uplink
type DirectPoster struct {
	client *req.Client
}

func NewDirectPoster(timeout time.Duration, debug bool) *DirectPoster {
	c := req.C()
	if debug {
		c.EnableDebugLog()
	}

	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	// Single attempt, the tracker simply tries again on its next tick
	c.SetTimeout(timeout)
	c.SetCommonRetryCount(0)

	return &DirectPoster{client: c}
}

// GetClient Use this for tests to set the transport to mock
func (d *DirectPoster) GetClient() *req.Client {
	return d.client
}

func (d *DirectPoster) Post(url string, body string, contentType string) bool {
	if contentType == "" {
		contentType = ContentTypeJSON
	}

	resp, err := d.client.R().
		SetHeader("Content-Type", contentType).
		SetBodyString(body).
		Post(url)

	if err := ErrorFromResponse(err, resp); err != nil {
		log.Error("direct post failed", zap.String("url", url), zap.Error(err))
		return false
	}

	log.Info("HTTP POST sent", zap.String("url", url), zap.Int("status", resp.StatusCode))
	return true
}
