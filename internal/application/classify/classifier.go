// Package classify scores citizen query text against the category catalog
// and extracts the structured slots (time window, place, urgency) the rest
// of the pipeline consumes. Scoring is purely lexical and deterministic: the
// same text against the same catalog snapshot always produces the same
// result.
package classify

import (
	"strings"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
)

// Classifier assigns a category to query text by keyword-trigger scoring.
type Classifier struct {
	// minSignal is the minimum top score required before a category is
	// assigned; below it the result is the catch-all with zero confidence.
	minSignal float64
}

// NewClassifier builds a classifier with the given minimum signal.
func NewClassifier(minSignal float64) *Classifier {
	return &Classifier{minSignal: minSignal}
}

// Classify scores text against every category in snap and returns the
// winning classification with extracted slots. Ties break toward the
// category declared earlier in the catalog, so results are stable across
// runs.
func (c *Classifier) Classify(snap *taxonomy.Snapshot, text string) request.Classification {
	folded := " " + strings.Join(Tokenize(text), " ") + " "

	var (
		top      *taxonomy.Category
		topScore float64
		runnerUp float64
	)
	for _, cat := range snap.Categories() {
		if cat.ID == taxonomy.CategoryOther {
			continue
		}
		score := scoreCategory(cat, folded)
		if score > topScore {
			runnerUp = topScore
			topScore = score
			top = cat
		} else if score > runnerUp {
			runnerUp = score
		}
	}

	result := request.Classification{
		CategoryID: taxonomy.CategoryOther,
		Slots:      ExtractSlots(snap, text),
	}
	if top == nil || topScore < c.minSignal {
		return result
	}

	result.CategoryID = top.ID
	result.Confidence = topScore / (topScore + runnerUp + 1)
	return result
}

// scoreCategory sums trigger weights over all languages. A multi-word
// phrase weighs its token count, so "road repair" beats a lone "road".
func scoreCategory(cat *taxonomy.Category, folded string) float64 {
	var score float64
	for _, phrases := range cat.Keywords {
		for _, phrase := range phrases {
			tokens := Tokenize(phrase)
			if len(tokens) == 0 {
				continue
			}
			needle := " " + strings.Join(tokens, " ") + " "
			if strings.Contains(folded, needle) {
				score += float64(len(tokens))
			}
		}
	}
	return score
}
