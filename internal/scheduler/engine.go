package scheduler

import (
	"context"
	"maps"
	"slices"

	"coursetable/pkg/model"
)

// maxViolationsPerSession caps how many distinct violations are retained per
// blocked session. Dead ends repeat the same handful of conflicts, so a short
// list already names every blocking constraint.
const maxViolationsPerSession = 16

// budget is the iteration allowance of one search branch. Parallel runs deal
// MaxIterations out over their branches in equal shares, so the consumed
// totals never exceed the configured bound.
type budget struct {
	total     int
	remaining int
}

func newBudget(total int) *budget {
	return &budget{total: total, remaining: total}
}

// spend consumes one candidate trial and reports false once the allowance is
// gone.
func (allowance *budget) spend() bool {
	allowance.remaining--
	return allowance.remaining >= 0
}

func (allowance *budget) consumed() int {
	return allowance.total - max(allowance.remaining, 0)
}

// frame is one choice point of the search: a session plus the candidates
// that survived the dynamic checks at the moment the frame was opened.
// Reservations only change below a frame, so the filtered list stays valid
// for the frame's whole lifetime.
type frame struct {
	domainIndex int
	candidates  []model.Assignment
	next        int
	current     model.Assignment
	held        bool
}

// search walks one branch of the assignment tree depth first. It owns its
// reservations, so parallel branches never contend.
type search struct {
	catalog   *model.Catalog
	config    model.Config
	domains   []domain
	check     checker
	score     scorer
	allowance *budget

	state    *reservations
	assigned map[model.SessionID]model.Assignment
	stack    []frame

	best     map[model.SessionID]model.Assignment
	bestCost float64
	found    bool

	deepest map[model.SessionID]model.Assignment

	blocked     map[model.SessionID][]model.Violation
	blockedSeen map[model.SessionID]map[string]bool
	exhausted   bool
}

func newSearch(catalog *model.Catalog, config model.Config, domains []domain, allowance *budget) *search {
	return &search{
		catalog:     catalog,
		config:      config,
		domains:     domains,
		check:       newChecker(catalog),
		score:       newScorer(catalog, config.Weights),
		allowance:   allowance,
		state:       newReservations(),
		assigned:    map[model.SessionID]model.Assignment{},
		blocked:     map[model.SessionID][]model.Violation{},
		blockedSeen: map[model.SessionID]map[string]bool{},
	}
}

// run explores the branch until a good enough solution turns up or nothing
// is left to try, where the budget counts as running out of tree.
// Cancellation is honored at every choice point.
func (search *search) run(ctx context.Context) (*model.Result, error) {
	search.open(0)

	for len(search.stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		top := &search.stack[len(search.stack)-1]

		if top.held {
			search.unassign(top)
		}

		if top.next >= len(top.candidates) {
			search.stack = search.stack[:len(search.stack)-1]
			continue
		}

		candidate := top.candidates[top.next]
		top.next++

		if !search.allowance.spend() {
			search.exhausted = true
			return search.finish(), nil
		}

		search.assign(top, candidate)

		if top.domainIndex+1 == len(search.domains) {
			if search.recordSolution() {
				return search.finish(), nil
			}
			continue
		}

		search.open(top.domainIndex + 1)
	}

	return search.finish(), nil
}

// open pushes the frame of the next session, filtering its static domain
// against the reservations held right now. A frame that opens empty is a dead
// end; the violations that emptied it are kept for the final report.
func (search *search) open(domainIndex int) {
	dom := search.domains[domainIndex]

	candidates := make([]model.Assignment, 0, len(dom.candidates))
	violations := []model.Violation{}
	for _, candidate := range dom.candidates {
		if violation := search.check.checkDynamic(dom.session, candidate, search.state); violation != nil {
			violations = append(violations, *violation)
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		search.recordBlocked(dom.session.ID, violations)
	}

	search.stack = append(search.stack, frame{domainIndex: domainIndex, candidates: candidates})
}

func (search *search) assign(top *frame, candidate model.Assignment) {
	session := search.domains[top.domainIndex].session.ID

	search.state.reserve(session, candidate)
	search.assigned[session] = candidate
	top.current = candidate
	top.held = true

	if search.config.AllowPartial && len(search.assigned) > len(search.deepest) {
		search.deepest = maps.Clone(search.assigned)
	}
}

func (search *search) unassign(top *frame) {
	session := search.domains[top.domainIndex].session.ID

	search.state.release(top.current)
	delete(search.assigned, session)
	top.held = false
}

// recordSolution keeps the cheapest complete assignment seen so far and
// reports whether the search should stop right away.
func (search *search) recordSolution() bool {
	cost := search.config.SoftCostWeight * search.score.cost(search.assigned)

	if !search.found || cost < search.bestCost {
		search.best = maps.Clone(search.assigned)
		search.bestCost = cost
		search.found = true
	}

	if search.config.SoftCostWeight <= 0 {
		return true
	}
	return search.config.CostThreshold > 0 && search.bestCost <= search.config.CostThreshold
}

func (search *search) recordBlocked(session model.SessionID, violations []model.Violation) {
	seen := search.blockedSeen[session]
	if seen == nil {
		seen = map[string]bool{}
		search.blockedSeen[session] = seen
	}

	for _, violation := range violations {
		if len(search.blocked[session]) >= maxViolationsPerSession {
			return
		}
		key := violation.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		search.blocked[session] = append(search.blocked[session], violation)
	}
}

// finish assembles the branch outcome from whatever the walk left behind.
func (search *search) finish() *model.Result {
	switch {
	case search.found:
		if search.config.SoftCostWeight > 0 && search.config.ImprovePasses > 0 {
			search.best, search.bestCost = improve(search, search.best)
		}
		return buildResult(model.Committed, search.best, nil, search.bestCost)

	case search.config.AllowPartial && len(search.deepest) > 0:
		blocked := search.blockedFor(search.unassignedAfter(search.deepest))
		cost := search.config.SoftCostWeight * search.score.cost(search.deepest)
		return buildResult(model.Partial, search.deepest, blocked, cost)

	case search.exhausted:
		return buildResult(model.Timeout, nil, search.blockedFor(search.blockedSessions()), 0)

	default:
		return buildResult(model.Failed, nil, search.blockedFor(search.blockedSessions()), 0)
	}
}

// unassignedAfter lists the sessions a partial assignment leaves out, in
// session order.
func (search *search) unassignedAfter(assignments map[model.SessionID]model.Assignment) []model.SessionID {
	missing := []model.SessionID{}
	for _, dom := range search.domains {
		if _, ok := assignments[dom.session.ID]; !ok {
			missing = append(missing, dom.session.ID)
		}
	}
	return missing
}

// blockedSessions lists the sessions that ever hit a dead end, in session
// order.
func (search *search) blockedSessions() []model.SessionID {
	sessions := []model.SessionID{}
	for _, dom := range search.domains {
		if _, ok := search.blocked[dom.session.ID]; ok {
			sessions = append(sessions, dom.session.ID)
		}
	}
	return sessions
}

func (search *search) blockedFor(sessions []model.SessionID) []model.BlockedSession {
	blocked := make([]model.BlockedSession, 0, len(sessions))
	for _, session := range sessions {
		blocked = append(blocked, model.BlockedSession{
			Session:    session,
			Violations: search.blocked[session],
		})
	}
	return blocked
}

func buildResult(outcome model.Outcome, assignments map[model.SessionID]model.Assignment, blocked []model.BlockedSession, cost float64) *model.Result {
	ordered := make([]model.SessionAssignment, 0, len(assignments))
	for session, assignment := range assignments {
		ordered = append(ordered, model.SessionAssignment{Session: session, Assignment: assignment})
	}
	slices.SortFunc(ordered, func(a, b model.SessionAssignment) int {
		return a.Session.Compare(b.Session)
	})

	return &model.Result{
		Outcome:     outcome,
		Assignments: ordered,
		Blocked:     blocked,
		Cost:        cost,
	}
}
