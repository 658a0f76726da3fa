package collaborators

import (
	"context"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// AdvisorConfig configures the routing advisor client.
type AdvisorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AdvisorClient consults the routing advisory service for low-confidence
// classifications. The router treats errors as no suggestion.
type AdvisorClient struct {
	http *httpClient
}

// NewAdvisorClient builds the client.
func NewAdvisorClient(cfg AdvisorConfig, log logging.Logger) *AdvisorClient {
	return &AdvisorClient{http: newHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, log)}
}

type suggestionRequest struct {
	QueryText  string `json:"query_text"`
	CategoryID string `json:"category_id"`
	Region     string `json:"region,omitempty"`
}

type suggestionResponse struct {
	OfficeID string `json:"office_id"`
}

// SuggestOffice implements routing.Advisor.
func (c *AdvisorClient) SuggestOffice(ctx context.Context, queryText, categoryID, region string) (string, error) {
	var resp suggestionResponse
	err := c.http.postJSON(ctx, "/v1/route-suggestions", suggestionRequest{
		QueryText:  queryText,
		CategoryID: categoryID,
		Region:     region,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.OfficeID, nil
}
