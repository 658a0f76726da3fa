package request

// Status is the lifecycle state of an application. Transitions are
// monotonic: once a request leaves a state it never returns to it.
type Status string

const (
	StatusDrafted          Status = "drafted"
	StatusFiled            Status = "filed"
	StatusAcknowledged     Status = "acknowledged"
	StatusResponseReceived Status = "response_received"
	StatusAppealFiled      Status = "appeal_filed"
	StatusClosed           Status = "closed"
)

// transitions is the single source of truth for legal status moves. The
// escalation path (filed/acknowledged to appeal_filed) runs parallel to the
// happy path; both converge on closed.
var transitions = map[Status][]Status{
	StatusDrafted:          {StatusFiled},
	StatusFiled:            {StatusAcknowledged, StatusResponseReceived, StatusAppealFiled},
	StatusAcknowledged:     {StatusResponseReceived, StatusAppealFiled},
	StatusResponseReceived: {StatusClosed},
	StatusAppealFiled:      {StatusClosed},
	StatusClosed:           {},
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether moving from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Open reports whether a request in s still awaits an outcome and therefore
// participates in deadline sweeps.
func (s Status) Open() bool {
	switch s {
	case StatusFiled, StatusAcknowledged:
		return true
	}
	return false
}
