// Package taxonomy holds the static reference data the platform routes by:
// categories with their keyword triggers, the office (PIO) directory, and the
// place-alias table. All of it is loaded into an immutable Snapshot that is
// replaced atomically on reload and never mutated in place.
package taxonomy

// CategoryOther is the catch-all category assigned when classification finds
// no usable signal. It must exist in every catalog.
const CategoryOther = "other"

// Category is an immutable reference entity describing one grievance class.
type Category struct {
	// ID is the stable identifier, e.g. "road_infrastructure".
	ID string `json:"id"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// Keywords maps a language code ("en", "hi") to its trigger list.
	// Multi-word phrases carry more weight than single tokens when scored.
	Keywords map[string][]string `json:"keywords"`

	// CentralOfficeID binds the category to its central PIO.
	CentralOfficeID string `json:"central_office_id"`

	// StateSubject marks categories executed at state level; these prefer a
	// matching regional office over the central binding.
	StateSubject bool `json:"state_subject"`

	// Statutes lists the sections cited in documents for this category.
	Statutes []string `json:"statutes"`

	// DefaultQuestions is the template question bank used when the
	// text-generation collaborator is unavailable.
	DefaultQuestions []string `json:"default_questions"`
}
