package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// GatewayConfig configures the filing gateway client.
type GatewayConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxElapsedTime time.Duration `mapstructure:"max_elapsed_time"`
}

// GatewayClient submits assembled applications to the government portal.
// Transient failures are retried with exponential backoff; a definitive
// rejection (4xx) is returned immediately. A filing that ultimately fails
// leaves the request drafted, so retrying the whole operation is safe.
type GatewayClient struct {
	config GatewayConfig
	client *http.Client
	logger logging.Logger
}

// NewGatewayClient builds the client.
func NewGatewayClient(cfg GatewayConfig, log logging.Logger) *GatewayClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxElapsedTime <= 0 {
		cfg.MaxElapsedTime = 2 * time.Minute
	}
	return &GatewayClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log,
	}
}

type filingRequest struct {
	RefNumber     string `json:"ref_number"`
	OfficeID      string `json:"office_id"`
	OfficeName    string `json:"office_name"`
	ApplicantName string `json:"applicant_name"`
	Address       string `json:"address"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Subject       string `json:"subject"`
	DocumentText  string `json:"document_text"`
	Fee           int64  `json:"fee"`
}

type filingResponse struct {
	AcknowledgementID string `json:"acknowledgement_id"`
}

// File implements lifecycle.FilingGateway.
func (c *GatewayClient) File(ctx context.Context, req *request.Request, office *taxonomy.Office) (string, error) {
	body, err := json.Marshal(filingRequest{
		RefNumber:     req.RefNumber,
		OfficeID:      office.ID,
		OfficeName:    office.Department,
		ApplicantName: req.Applicant.Name,
		Address:       req.Applicant.Address,
		Email:         req.Applicant.Email,
		Phone:         req.Applicant.Phone,
		Subject:       req.Subject,
		DocumentText:  req.DocumentText,
		Fee:           req.Fee,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal filing payload")
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = c.config.MaxElapsedTime

	var ackID string
	operation := func() error {
		id, err := c.attempt(ctx, body)
		if err != nil {
			return err
		}
		ackID = id
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		if ctx.Err() != nil {
			return "", errors.Wrap(err, errors.ErrCodeGatewayTimeout, "filing gateway timed out")
		}
		return "", err
	}

	c.logger.Info("application filed with gateway",
		logging.String("ref_number", req.RefNumber),
		logging.String("ack_id", ackID),
	)
	return ackID, nil
}

func (c *GatewayClient) attempt(ctx context.Context, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/applications", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(errors.Wrap(err, errors.ErrCodeInternal, "failed to build filing request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGatewayFailed, "filing gateway unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGatewayFailed, "failed to read gateway response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var fr filingResponse
		if err := json.Unmarshal(data, &fr); err != nil {
			return "", backoff.Permanent(errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode gateway response"))
		}
		if fr.AcknowledgementID == "" {
			return "", backoff.Permanent(errors.New(errors.ErrCodeGatewayFailed, "gateway returned no acknowledgement id"))
		}
		return fr.AcknowledgementID, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", errors.Newf(errors.ErrCodeGatewayFailed, "gateway returned status %d", resp.StatusCode)
	default:
		return "", backoff.Permanent(errors.Newf(errors.ErrCodeGatewayFailed, "gateway rejected filing with status %d", resp.StatusCode))
	}
}
