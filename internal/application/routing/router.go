// Package routing resolves the responsible office for a classified query
// and the application fee the citizen owes. Resolution is catalog-driven
// and falls back to an explicit unresolved sentinel rather than guessing.
package routing

import (
	"context"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// Advisor is the optional routing-advisory collaborator. It suggests an
// office for low-confidence classifications; suggestions are advisory only
// and must survive catalog validation before they are used.
type Advisor interface {
	SuggestOffice(ctx context.Context, queryText, categoryID, region string) (officeID string, err error)
}

// Router picks the destination office for a classification.
type Router struct {
	advisor Advisor

	// advisoryThreshold is the confidence below which the advisor is
	// consulted. Zero disables advisory routing even when an advisor is set.
	advisoryThreshold float64

	log logging.Logger
}

// NewRouter builds a router. advisor may be nil.
func NewRouter(advisor Advisor, advisoryThreshold float64, log logging.Logger) *Router {
	return &Router{advisor: advisor, advisoryThreshold: advisoryThreshold, log: log}
}

// Route resolves the office for cls against snap. The precedence is fixed:
// a regional office for state-subject categories when the region is known,
// then the category's central binding, then the unresolved sentinel. A
// low-confidence result may be overridden by a catalog-validated advisory
// suggestion.
func (r *Router) Route(ctx context.Context, snap *taxonomy.Snapshot, queryText string, cls request.Classification) *taxonomy.Office {
	office := r.resolve(snap, cls)

	if r.advisor != nil && r.advisoryThreshold > 0 && cls.Confidence < r.advisoryThreshold {
		suggested, err := r.advisor.SuggestOffice(ctx, queryText, cls.CategoryID, cls.Slots.Region)
		if err != nil {
			r.log.Warn("routing advisor unavailable, keeping catalog route",
				logging.String("category", cls.CategoryID), logging.Err(err))
			return office
		}
		if snap.KnownOffice(suggested) {
			return snap.OfficeByID(suggested)
		}
		if suggested != "" {
			r.log.Warn("routing advisor suggested unknown office, ignoring",
				logging.String("office_id", suggested))
		}
	}
	return office
}

func (r *Router) resolve(snap *taxonomy.Snapshot, cls request.Classification) *taxonomy.Office {
	cat := snap.CategoryByID(cls.CategoryID)
	if cat == nil {
		return taxonomy.UnresolvedOffice()
	}

	if cat.StateSubject && cls.Slots.Region != "" {
		if office := snap.RegionalOffice(cls.Slots.Region, cat.ID); office != nil {
			return office
		}
	}

	if cat.CentralOfficeID != "" {
		if office := snap.OfficeByID(cat.CentralOfficeID); office != nil && !office.Unresolved() {
			return office
		}
	}
	return taxonomy.UnresolvedOffice()
}
