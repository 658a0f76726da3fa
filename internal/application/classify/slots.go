package classify

import (
	"regexp"
	"strings"

	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
)

// timeWindowPatterns match the period phrasings citizens actually write.
// The first match wins; patterns are ordered most specific first.
var timeWindowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(last|past)\s+\d+\s+(day|week|month|year)s?\b`),
	regexp.MustCompile(`(?i)\bsince\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\bsince\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b(in|during|for)\s+\d{4}\s*-\s*\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b\d{4}\s*-\s*\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(this|last)\s+(month|year)\b`),
}

var urgencyTerms = []string{
	"urgent", "urgently", "immediately", "emergency", "asap",
	"जल्दी", "तुरंत", "आपातकाल",
}

// ExtractSlots pulls the time window, place mention, and urgency flag out of
// free text. Place resolution runs against the snapshot's alias table;
// longer aliases win so "new delhi" is not shadowed by "delhi".
func ExtractSlots(snap *taxonomy.Snapshot, text string) request.Slots {
	slots := request.Slots{}

	for _, pattern := range timeWindowPatterns {
		if m := pattern.FindString(text); m != "" {
			slots.TimeWindow = strings.TrimSpace(m)
			break
		}
	}

	folded := " " + strings.Join(Tokenize(text), " ") + " "
	var bestAlias string
	for alias, region := range snap.PlaceAliases() {
		needle := " " + strings.Join(Tokenize(alias), " ") + " "
		if !strings.Contains(folded, needle) {
			continue
		}
		if len(alias) > len(bestAlias) || (len(alias) == len(bestAlias) && alias < bestAlias) {
			bestAlias = alias
			slots.Place = alias
			slots.Region = region
		}
	}

	for _, term := range urgencyTerms {
		needle := " " + strings.Join(Tokenize(term), " ") + " "
		if strings.Contains(folded, needle) {
			slots.Urgent = true
			break
		}
	}
	return slots
}
