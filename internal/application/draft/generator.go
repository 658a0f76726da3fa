package draft

import (
	"context"
	"fmt"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
)

// QuestionGenerator produces the information questions for a query. The
// remote text-generation collaborator implements this; TemplateGenerator is
// the always-available fallback.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, queryText string, category *taxonomy.Category, slots request.Slots) ([]string, error)
}

// TemplateGenerator serves questions from the category's question bank,
// prefixing the time window when one was extracted. It never fails.
type TemplateGenerator struct{}

// NewTemplateGenerator builds the template fallback generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// GenerateQuestions returns the category question bank, scoped to the
// extracted time window when present.
func (g *TemplateGenerator) GenerateQuestions(_ context.Context, _ string, category *taxonomy.Category, slots request.Slots) ([]string, error) {
	questions := make([]string, 0, len(category.DefaultQuestions))
	for _, q := range category.DefaultQuestions {
		if slots.TimeWindow != "" {
			q = fmt.Sprintf("%s (for the period: %s)", q, slots.TimeWindow)
		}
		questions = append(questions, q)
	}
	return questions, nil
}
