package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ValidationError aggregates every catalog issue found in one pass, so a
// caller never has to fix problems one at a time.
type ValidationError struct {
	Issues []string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog: %v", strings.Join(err.Issues, "; "))
}

// EmptySession names a session whose static candidate set is empty, together
// with the static checks that rejected its candidates, dominant cause first.
type EmptySession struct {
	Session SessionID
	Causes  []ViolationKind
}

// EmptyDomainError reports every session that can never be assigned. It is
// collected before search starts, since no amount of backtracking can
// resolve an empty domain.
type EmptyDomainError struct {
	Sessions []EmptySession
}

func (err *EmptyDomainError) Error() string {
	parts := lo.Map(err.Sessions, func(empty EmptySession, _ int) string {
		if len(empty.Causes) == 0 {
			return empty.Session.String()
		}
		names := lo.Map(empty.Causes, func(kind ViolationKind, _ int) string {
			return kind.String()
		})
		return fmt.Sprintf("%v (%v)", empty.Session, strings.Join(names, ", "))
	})
	return fmt.Sprintf("empty domain for %d session(s): %v", len(err.Sessions), strings.Join(parts, "; "))
}
