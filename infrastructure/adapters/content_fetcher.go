package adapters

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
)

// maxErrorBodyBytes caps how much of a failed response is kept for logging.
const maxErrorBodyBytes = 2048

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}

type contentFetcher struct {
	logger outbound.LoggerPort
	client *http.Client
}

func NewContentFetcher(logger outbound.LoggerPort, timeout time.Duration) ContentFetcher {
	return &contentFetcher{
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

// FetchContent sends req and returns the full body of a 2xx response. Transport
// failures, timeouts and non-2xx statuses are reported as remote unavailability.
func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, domain.RemoteUnavailable(err)
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
				"method": req.Method,
				"URL":    req.URL.String(),
			})
		}
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		bodyPayload, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		c.logger.ErrorWithFields(nil, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": string(bodyPayload),
		})
		return nil, domain.RemoteUnavailable(fmt.Errorf("HTTP request returned non-OK status code: %d", res.StatusCode))
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, domain.RemoteUnavailable(err)
	}

	return payload, nil
}
