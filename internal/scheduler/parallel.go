package scheduler

import (
	"context"
	"errors"
	"slices"
	"sync"

	"coursetable/pkg/model"
)

type branchOutcome struct {
	result   *model.Result
	err      error
	consumed int
}

// runParallel fans the first session's candidates out round robin and runs
// one independent search per branch. Every branch owns an equal share of the
// iteration budget and its own reservations, so the merged outcome does not
// depend on how the goroutines interleave. A positive CostThreshold cancels
// sibling branches as soon as one lands a cheap enough schedule, which cuts
// latency at the price of run-to-run reproducibility.
func (engine *engine) runParallel(ctx context.Context, catalog *model.Catalog, domains []domain) (*model.Result, error) {
	branches := splitFirstDomain(domains, engine.config.Workers)
	shares := splitBudget(engine.config.MaxIterations, len(branches))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make([]branchOutcome, len(branches))

	var group sync.WaitGroup
	for index, branchDomains := range branches {
		group.Add(1)
		go func(index int, branchDomains []domain) {
			defer group.Done()

			allowance := newBudget(shares[index])
			result, err := newSearch(catalog, engine.config, branchDomains, allowance).run(runCtx)
			outcomes[index] = branchOutcome{result: result, err: err, consumed: allowance.consumed()}

			if err == nil && engine.config.CostThreshold > 0 &&
				result.Outcome == model.Committed && result.Cost <= engine.config.CostThreshold {
				cancel()
			}
		}(index, branchDomains)
	}
	group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return mergeOutcomes(runCtx, outcomes)
}

// mergeOutcomes picks the best branch result: outcome rank first, then cost,
// then branch index. Branches cancelled by the threshold shortcut only
// contribute their consumed iterations.
func mergeOutcomes(runCtx context.Context, outcomes []branchOutcome) (*model.Result, error) {
	iterations := 0
	var merged *model.Result
	var firstErr error

	for _, branch := range outcomes {
		iterations += branch.consumed

		if branch.err != nil {
			if !errors.Is(branch.err, context.Canceled) && firstErr == nil {
				firstErr = branch.err
			}
			continue
		}
		if merged == nil || betterResult(branch.result, merged) {
			merged = branch.result
		}
	}

	if merged == nil {
		if firstErr == nil {
			firstErr = runCtx.Err()
		}
		return nil, firstErr
	}

	merged.Iterations = iterations
	return merged, nil
}

// betterResult ranks Committed before Partial before Timeout before Failed.
// Equal-rank partials prefer more coverage, then everything prefers lower
// cost. Strict comparisons keep the earliest branch on ties.
func betterResult(candidate, incumbent *model.Result) bool {
	if rank := outcomeRank(candidate.Outcome) - outcomeRank(incumbent.Outcome); rank != 0 {
		return rank < 0
	}
	if candidate.Outcome == model.Partial && len(candidate.Assignments) != len(incumbent.Assignments) {
		return len(candidate.Assignments) > len(incumbent.Assignments)
	}
	return candidate.Cost < incumbent.Cost
}

func outcomeRank(outcome model.Outcome) int {
	switch outcome {
	case model.Committed:
		return 0
	case model.Partial:
		return 1
	case model.Timeout:
		return 2
	default:
		return 3
	}
}

// splitFirstDomain deals the first session's candidates round robin over at
// most workers branches. Relative candidate order survives within every
// branch; the remaining domains are shared read-only.
func splitFirstDomain(domains []domain, workers int) [][]domain {
	first := domains[0]
	branchCount := max(min(workers, len(first.candidates)), 1)

	branches := make([][]domain, branchCount)
	for index := 0; index < branchCount; index++ {
		candidates := []model.Assignment{}
		for position := index; position < len(first.candidates); position += branchCount {
			candidates = append(candidates, first.candidates[position])
		}

		branchDomains := slices.Clone(domains)
		branchDomains[0] = domain{session: first.session, candidates: candidates}
		branches[index] = branchDomains
	}
	return branches
}

func splitBudget(total, parts int) []int {
	shares := make([]int, parts)
	for index := range shares {
		shares[index] = total / parts
		if index < total%parts {
			shares[index]++
		}
	}
	return shares
}
