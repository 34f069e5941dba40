// Package ledger enforces the bookkeeping rule of a recorded game:
// a session is a closed transfer among its participants, so their signed
// amounts must net to exactly zero.
package ledger

import "fmt"

// Validation failure reasons, stable for callers that branch on them.
const (
	ReasonTooFewPlayers = "too few participants"
	ReasonUnbalanced    = "unbalanced amounts"
)

// Entry is one participant's signed result in whole currency units.
// Positive is net winnings, negative net loss.
type Entry struct {
	PlayerID string
	Amount   int64
}

// ValidationError reports why a participant set was rejected. Sum carries
// the computed total when Reason is ReasonUnbalanced.
type ValidationError struct {
	Reason string
	Sum    int64
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonUnbalanced {
		return fmt.Sprintf("%s: sum is %d, want 0", e.Reason, e.Sum)
	}
	return e.Reason
}

// Validate checks the zero-sum invariant over entries: at least two
// participants, and amounts summing to exactly zero (integer equality,
// no tolerance). Returns nil on success or a *ValidationError.
//
// Callers must run this, and see it succeed, before any write that
// creates or replaces a session's participant set.
func Validate(entries []Entry) error {
	if len(entries) < 2 {
		return &ValidationError{Reason: ReasonTooFewPlayers}
	}

	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	if sum != 0 {
		return &ValidationError{Reason: ReasonUnbalanced, Sum: sum}
	}
	return nil
}
