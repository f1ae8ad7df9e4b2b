package scheduler

import (
	"maps"

	"coursetable/pkg/model"
)

// improve polishes a complete feasible assignment with best-improvement
// moves. Every pass scans all single-session reassignments in domain order,
// then applies the one that lowers the weighted cost the most. It stops when
// no move helps anymore or when the passes and the run budget are spent.
// Hard feasibility holds after every applied move and the scan order is
// fixed, so identical inputs improve identically.
func improve(search *search, assignments map[model.SessionID]model.Assignment) (map[model.SessionID]model.Assignment, float64) {
	current := maps.Clone(assignments)
	currentCost := search.config.SoftCostWeight * search.score.cost(current)

	for pass := 0; pass < search.config.ImprovePasses; pass++ {
		applied, cost := bestMove(search, current, currentCost)
		if !applied {
			break
		}
		currentCost = cost
	}

	return current, currentCost
}

// bestMove mutates current in place when a strictly cheaper feasible
// reassignment exists and reports the new cost.
func bestMove(search *search, current map[model.SessionID]model.Assignment, currentCost float64) (bool, float64) {
	state := newReservations()
	for session, assignment := range current {
		state.reserve(session, assignment)
	}

	bestCost := currentCost
	var bestSession model.SessionID
	var bestCandidate model.Assignment
	found := false

	for _, dom := range search.domains {
		assigned := current[dom.session.ID]
		state.release(assigned)

		for _, candidate := range dom.candidates {
			if candidate == assigned {
				continue
			}
			if violation := search.check.checkDynamic(dom.session, candidate, state); violation != nil {
				continue
			}
			if !search.allowance.spend() {
				state.reserve(dom.session.ID, assigned)
				return false, currentCost
			}

			current[dom.session.ID] = candidate
			cost := search.config.SoftCostWeight * search.score.cost(current)
			current[dom.session.ID] = assigned

			if cost < bestCost {
				bestCost = cost
				bestSession = dom.session.ID
				bestCandidate = candidate
				found = true
			}
		}

		state.reserve(dom.session.ID, assigned)
	}

	if !found {
		return false, currentCost
	}

	current[bestSession] = bestCandidate
	return true, bestCost
}
