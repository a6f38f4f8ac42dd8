package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourusername/football-ml/internal/config"
	"github.com/yourusername/football-ml/internal/logger"
	"github.com/yourusername/football-ml/internal/metrics"
)

// HTTPClient submits datasets to the classifier's HTTP API
type HTTPClient struct {
	client  *retryablehttp.Client
	baseURL string
	logger  *logger.ClassifierLogger
}

// NewHTTPClient creates a new HTTP client for the classifier service
func NewHTTPClient(cfg *config.ClassifierConfig, log *logger.ClassifierLogger) *HTTPClient {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = cfg.RequestTimeout()
	client.RetryMax = cfg.RetryAttempts
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil

	return &HTTPClient{
		client:  client,
		baseURL: strings.TrimRight(cfg.HTTPAddress, "/"),
		logger:  log,
	}
}

// SubmitDataset posts one partition
func (c *HTTPClient) SubmitDataset(ctx context.Context, sub *DatasetSubmission) (*SubmissionResponse, error) {
	start := time.Now()

	jsonData, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/datasets", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordClassifierSubmission("network_error", time.Since(start).Seconds())
		c.logger.LogSubmissionError(sub.RunID, sub.Partition, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		metrics.RecordClassifierSubmission("http_error", time.Since(start).Seconds())
		c.logger.LogSubmissionError(sub.RunID, sub.Partition, fmt.Sprintf("status %d", resp.StatusCode))
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d: %s", ErrClassifierUnavailable, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrSubmissionRejected, resp.StatusCode, string(body))
	}

	var out SubmissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordClassifierSubmission("invalid_response", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	latency := time.Since(start)
	metrics.RecordClassifierSubmission("success", latency.Seconds())
	c.logger.LogSubmission(sub.RunID, sub.Partition, len(sub.Rows), len(sub.FeatureColumns), float64(latency.Milliseconds()))
	return &out, nil
}

// HealthCheck checks classifier service health
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	start := time.Now()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.LogHealthProbe("http", "unreachable", float64(time.Since(start).Milliseconds()))
		return fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.LogHealthProbe("http", resp.Status, float64(time.Since(start).Milliseconds()))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrClassifierUnavailable, resp.StatusCode)
	}
	return nil
}
