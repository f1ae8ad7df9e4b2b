package scheduler

import (
	"cmp"
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"

	"coursetable/pkg/model"
)

// domain holds the statically feasible candidates of one session, ordered by
// room, then slot, then instructor.
type domain struct {
	session    model.Session
	candidates []model.Assignment
}

// reduceDomains enumerates the full candidate space of every session and
// keeps the triples that pass the static checks: qualification, capacity and
// room type. Busy slots and cross-session conflicts are deliberately left in,
// since those depend on the partial schedule and must stay visible to search.
// Sessions whose domain comes out empty are reported together in a single
// EmptyDomainError, their causes ordered by how often each one rejected a
// candidate.
func reduceDomains(catalog *model.Catalog) ([]domain, error) {
	check := newChecker(catalog)

	domains := make([]domain, 0, len(catalog.Sessions()))
	empty := []model.EmptySession{}

	for _, session := range catalog.Sessions() {
		candidates := []model.Assignment{}
		rejections := map[model.ViolationKind]int{}

		for _, room := range catalog.Rooms() {
			for _, slot := range catalog.Slots() {
				for _, instructor := range sessionInstructors(catalog, session) {
					candidate := model.Assignment{
						Room:       room.ID,
						Slot:       slot,
						Instructor: instructor,
					}

					if violation := check.checkStatic(session, candidate); violation != nil {
						rejections[violation.Kind]++
						continue
					}
					candidates = append(candidates, candidate)
				}
			}
		}

		if len(candidates) == 0 {
			empty = append(empty, model.EmptySession{
				Session: session.ID,
				Causes:  dominantCauses(rejections),
			})
			continue
		}

		domains = append(domains, domain{session: session, candidates: candidates})
	}

	if len(empty) > 0 {
		return nil, &model.EmptyDomainError{Sessions: empty}
	}
	return domains, nil
}

// sessionInstructors lists every instructor of the role the session calls
// for, qualified or not. Unqualified ones are rejected by the static check,
// which keeps the rejection tally honest.
func sessionInstructors(catalog *model.Catalog, session model.Session) []model.InstructorRef {
	if session.ID.Role() == model.RoleTA {
		return lo.Map(catalog.TAs(), func(ta model.TA, _ int) model.InstructorRef {
			return model.TARef(ta.ID)
		})
	}
	return lo.Map(catalog.Professors(), func(professor model.Professor, _ int) model.InstructorRef {
		return model.ProfessorRef(professor.ID)
	})
}

func dominantCauses(rejections map[model.ViolationKind]int) []model.ViolationKind {
	kinds := lo.Keys(rejections)
	slices.SortFunc(kinds, func(a, b model.ViolationKind) int {
		if result := cmp.Compare(rejections[b], rejections[a]); result != 0 {
			return result
		}
		return cmp.Compare(a, b)
	})
	return kinds
}

// orderDomains fixes the search order: scarcest domain first, ties broken by
// session id so identical inputs always walk the same tree.
func orderDomains(domains []domain) {
	slices.SortFunc(domains, func(a, b domain) int {
		if result := cmp.Compare(len(a.candidates), len(b.candidates)); result != 0 {
			return result
		}
		return a.session.ID.Compare(b.session.ID)
	})
}

// unmatchedSessions proves infeasibility early through a bipartite matching
// between sessions and the (room, slot) pairs of their domains. Two sessions
// can never share a pair, so when no matching covers every session the
// catalog cannot be fully scheduled, no matter how the search branches. The
// converse does not hold; a covered matching may still fail on instructors.
func unmatchedSessions(domains []domain) ([]model.SessionID, error) {
	pairs := []roomKey{}
	pairIndexes := map[roomKey]int{}
	membership := make([]map[int]bool, len(domains))

	for i, dom := range domains {
		membership[i] = map[int]bool{}
		for _, candidate := range dom.candidates {
			key := roomKey{room: candidate.Room, slot: candidate.Slot}
			index, seen := pairIndexes[key]
			if !seen {
				index = len(pairs)
				pairIndexes[key] = index
				pairs = append(pairs, key)
			}
			membership[i][index] = true
		}
	}

	neighbors := func(sessionAny any, pairAny any) (bool, error) {
		sessionIndex := sessionAny.(int)
		pair := pairAny.(roomKey)

		return membership[sessionIndex][pairIndexes[pair]], nil
	}

	sessionsAny := lo.Map(domains, func(_ domain, index int) any { return index })
	pairsAny := lo.Map(pairs, func(pair roomKey, _ int) any { return pair })

	graph, err := bipartitegraph.NewBipartiteGraph(sessionsAny, pairsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()
	if len(matching) == len(domains) {
		return nil, nil
	}

	covered := make([]bool, len(domains))
	for _, edge := range matching {
		covered[edge.Node1] = true
	}

	unmatched := []model.SessionID{}
	for i, dom := range domains {
		if !covered[i] {
			unmatched = append(unmatched, dom.session.ID)
		}
	}
	return unmatched, nil
}
