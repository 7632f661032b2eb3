package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yegors/navlog/pkg/logger"
)

// Extractor yields positioned text for a raw document. The document-to-text
// step itself is an external service; the parsing core only consumes its Result.
type Extractor interface {
	Extract(ctx context.Context, document io.Reader) (*Result, error)
}

// Client is an HTTP client for the document extraction service
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *logger.Logger
}

// Ensure the client implements the interface
var _ Extractor = (*Client)(nil)

// NewClient creates a new extraction service client
func NewClient(baseURL string, timeout time.Duration, maxRetries int, logger *logger.Logger) *Client {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		logger:     logger.Named("extraction-client"),
	}
}

// Extract sends the document to the extraction service and decodes the
// positioned-token result. The whole document is treated as one atomic input;
// there is no streaming or partial processing.
func (c *Client) Extract(ctx context.Context, document io.Reader) (*Result, error) {
	// The document body can only be read once, so buffer it for retries
	body, err := io.ReadAll(document)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	url := c.baseURL + "/v1/extract"
	retryDelay := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying extraction request",
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.maxRetries),
				logger.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
				// Exponential backoff
				retryDelay *= 2
			}
		}

		result, err := c.doExtract(ctx, url, body)
		if err == nil {
			c.logger.Debug("Extraction complete",
				logger.Int("pages", len(result.Pages)),
				logger.Int("tokens", result.TokenCount()),
			)
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("extraction failed after %d attempts: %w", c.maxRetries, lastErr)
}

// doExtract performs a single request to the extraction service
func (c *Client) doExtract(ctx context.Context, url string, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode extraction result: %w", err)
	}

	return &result, nil
}
