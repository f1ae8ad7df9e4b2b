// Package scheduler assigns course sessions to rooms, time slots and
// instructors through deterministic backtracking search over statically
// reduced domains.
package scheduler

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"coursetable/pkg/model"
)

// Scheduler computes a timetable for a validated catalog.
type Scheduler interface {
	// Schedule searches for an assignment of every session and reports the
	// outcome. It returns an EmptyDomainError when some session has no
	// statically feasible candidate at all, and the context error when the
	// caller cancels the run. Identical catalogs and configs produce
	// identical results unless the config opts into racy shortcuts.
	Schedule(ctx context.Context, catalog *model.Catalog) (*model.Result, error)
}

func New(config model.Config, logger *zap.Logger) Scheduler {
	return newEngine(config, logger)
}

type engine struct {
	config model.Config
	logger *zap.Logger
}

func newEngine(config model.Config, logger *zap.Logger) *engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &engine{config: config.WithDefaults(), logger: logger}
}

func (engine *engine) Schedule(ctx context.Context, catalog *model.Catalog) (*model.Result, error) {
	domains, err := reduceDomains(catalog)
	if err != nil {
		return nil, err
	}
	orderDomains(domains)

	engine.logger.Debug("domains reduced",
		zap.Int("sessions", len(domains)),
		zap.Int("candidates", lo.SumBy(domains, func(dom domain) int { return len(dom.candidates) })),
	)

	if len(domains) == 0 {
		return buildResult(model.Committed, nil, nil, 0), nil
	}

	// A missing sessions-to-pairs matching proves the catalog cannot be
	// scheduled completely, so a full search would only burn the budget.
	// Partial runs skip the shortcut; they still want the best prefix.
	if !engine.config.AllowPartial {
		unmatched, err := unmatchedSessions(domains)
		if err != nil {
			return nil, err
		}
		if len(unmatched) > 0 {
			engine.logger.Warn("catalog is unschedulable",
				zap.Int("uncoverable", len(unmatched)),
			)
			return pigeonholeResult(unmatched), nil
		}
	}

	var result *model.Result
	if engine.config.Workers > 1 {
		result, err = engine.runParallel(ctx, catalog, domains)
	} else {
		result, err = engine.runSingle(ctx, catalog, domains)
	}
	if err != nil {
		return nil, err
	}

	engine.logger.Info("schedule finished",
		zap.Stringer("outcome", result.Outcome),
		zap.Int("assigned", len(result.Assignments)),
		zap.Float64("cost", result.Cost),
		zap.Int("iterations", result.Iterations),
	)

	return result, nil
}

func (engine *engine) runSingle(ctx context.Context, catalog *model.Catalog, domains []domain) (*model.Result, error) {
	allowance := newBudget(engine.config.MaxIterations)

	result, err := newSearch(catalog, engine.config, domains, allowance).run(ctx)
	if err != nil {
		return nil, err
	}

	result.Iterations = allowance.consumed()
	return result, nil
}

func pigeonholeResult(unmatched []model.SessionID) *model.Result {
	blocked := lo.Map(unmatched, func(session model.SessionID, _ int) model.BlockedSession {
		return model.BlockedSession{
			Session: session,
			Violations: []model.Violation{{
				Kind:    model.RoomConflict,
				Session: session,
				Detail:  "no conflict-free room and slot pair remains",
			}},
		}
	})
	return buildResult(model.Failed, nil, blocked, 0)
}
