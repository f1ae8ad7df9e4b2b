package model

import (
	"fmt"

	"github.com/samber/lo"
)

type Outcome int

const (
	Committed Outcome = iota
	Partial
	Failed
	Timeout
)

var outcomeNames = map[Outcome]string{
	Committed: "committed",
	Partial:   "partial",
	Failed:    "failed",
	Timeout:   "timeout",
}

func (outcome Outcome) String() string {
	name, ok := outcomeNames[outcome]
	if !ok {
		return fmt.Sprintf("outcome(%d)", int(outcome))
	}
	return name
}

// SessionAssignment pairs a session with its committed triple.
type SessionAssignment struct {
	Session    SessionID
	Assignment Assignment
}

// BlockedSession reports why a session stayed unassigned, aggregating the
// violations observed at the search frontier.
type BlockedSession struct {
	Session    SessionID
	Violations []Violation
}

// Result is the immutable outcome of one engine run. Assignments are sorted
// by session id, so identical runs serialize byte for byte identically.
type Result struct {
	Outcome     Outcome
	Assignments []SessionAssignment
	Blocked     []BlockedSession
	Cost        float64
	Iterations  int
}

// Assignment returns the committed triple for the session, if any.
func (result *Result) Assignment(id SessionID) (Assignment, bool) {
	found, ok := lo.Find(result.Assignments, func(assigned SessionAssignment) bool {
		return assigned.Session == id
	})
	return found.Assignment, ok
}
