package collaborators

import (
	"context"
	"time"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// TextGenConfig configures the text-generation client.
type TextGenConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TextGenClient asks the text-generation service for tailored information
// questions. The draft assembler falls back to the category question bank
// whenever this client errors, so failures here never block drafting.
type TextGenClient struct {
	http *httpClient
}

// NewTextGenClient builds the client.
func NewTextGenClient(cfg TextGenConfig, log logging.Logger) *TextGenClient {
	return &TextGenClient{http: newHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, log)}
}

type questionRequest struct {
	QueryText  string `json:"query_text"`
	CategoryID string `json:"category_id"`
	Region     string `json:"region,omitempty"`
	TimeWindow string `json:"time_window,omitempty"`
}

type questionResponse struct {
	Questions []string `json:"questions"`
}

// GenerateQuestions implements draft.QuestionGenerator.
func (c *TextGenClient) GenerateQuestions(ctx context.Context, queryText string, category *taxonomy.Category, slots request.Slots) ([]string, error) {
	var resp questionResponse
	err := c.http.postJSON(ctx, "/v1/questions", questionRequest{
		QueryText:  queryText,
		CategoryID: category.ID,
		Region:     slots.Region,
		TimeWindow: slots.TimeWindow,
	}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGenerationFailed, "question generation failed")
	}
	return resp.Questions, nil
}
