// Package collaborators holds HTTP clients for the external services the
// engine consults: the text-generation service for drafting questions, the
// routing advisor, and the government filing portal.
package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// httpClient is the shared transport wrapper. Collaborator responses are
// small JSON bodies, so everything is read eagerly.
type httpClient struct {
	base   string
	client *http.Client
	apiKey string
	logger logging.Logger
}

func newHTTPClient(baseURL, apiKey string, timeout time.Duration, log logging.Logger) *httpClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &httpClient{
		base:   baseURL,
		client: &http.Client{Timeout: timeout},
		apiKey: apiKey,
		logger: log,
	}
}

// postJSON sends the payload and decodes the response into out. Non-2xx
// responses become external-service errors carrying the status code.
func (c *httpClient) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal collaborator payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build collaborator request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "collaborator request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to read collaborator response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("collaborator returned error status",
			logging.String("path", path),
			logging.Int("status", resp.StatusCode),
		)
		return errors.Newf(errors.ErrCodeExternalService, "collaborator returned status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode collaborator response")
		}
	}
	return nil
}
