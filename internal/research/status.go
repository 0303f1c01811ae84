package research

import "strings"

// Status represents the processing lifecycle of an interview.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusRecorded     Status = "recorded"
	StatusTranscribing Status = "transcribing"
	StatusAnalyzing    Status = "analyzing"
	StatusComplete     Status = "complete"
)

var allStatuses = []Status{
	StatusDraft,
	StatusRecorded,
	StatusTranscribing,
	StatusAnalyzing,
	StatusComplete,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// statusRank orders statuses along the forward-only processing pipeline.
var statusRank = func() map[Status]int {
	ranks := make(map[Status]int, len(allStatuses))
	for i, status := range allStatuses {
		ranks[status] = i
	}
	return ranks
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Valid reports whether the status is one of the enumerated values.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// CanAdvance reports whether moving from s to next is a legal transition.
// Statuses only move forward through the pipeline; transitioning to the
// current status is allowed so repeated job callbacks stay idempotent.
func (s Status) CanAdvance(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to >= from
}
