package model

import "github.com/pkg/errors"

// Hazard lifecycle statuses.
const (
	StatusReported   = "reported"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusDismissed  = "dismissed"
)

// ErrInvalidTransition marks a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// statusTransitions is the full lifecycle: reported reports enter triage or
// get dismissed; in-progress work ends resolved or dismissed; resolved and
// dismissed are terminal.
var statusTransitions = map[string][]string{
	StatusReported:   {StatusInProgress, StatusDismissed},
	StatusInProgress: {StatusResolved, StatusDismissed},
	StatusResolved:   {},
	StatusDismissed:  {},
}

// ValidStatus reports whether s is one of the four lifecycle statuses.
func ValidStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether a hazard may move from one status to
// another. Setting the same status again is a permitted no-op.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
