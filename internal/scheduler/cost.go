package scheduler

import (
	"github.com/samber/lo"

	"coursetable/pkg/model"
)

// scorer computes the soft cost of a set of assignments. Lower is better and
// zero is ideal. Every term is an integer count, so the weighted total comes
// out identical no matter the iteration order of the assignment map.
type scorer struct {
	catalog *model.Catalog
	weights model.CostWeights
	slots   slotIndex
}

func newScorer(catalog *model.Catalog, weights model.CostWeights) scorer {
	return scorer{
		catalog: catalog,
		weights: weights,
		slots:   newSlotIndex(catalog.Slots()),
	}
}

func (score scorer) cost(assignments map[model.SessionID]model.Assignment) float64 {
	gaps := score.gapCost(assignments)
	spread := score.balanceCost(assignments)
	venues := score.venueCost(assignments)

	return score.weights.Gap*float64(gaps) +
		score.weights.Balance*float64(spread) +
		score.weights.Venue*float64(venues)
}

// gapCost counts the idle slots squeezed between the first and last session
// of every instructor on every day.
func (score scorer) gapCost(assignments map[model.SessionID]model.Assignment) int {
	type instructorDay struct {
		instructor model.InstructorRef
		day        model.Weekday
	}
	type daySpan struct {
		first, last, count int
	}

	spans := map[instructorDay]daySpan{}
	for _, assignment := range assignments {
		key := instructorDay{instructor: assignment.Instructor, day: assignment.Slot.Day}
		position := score.slots.dayPosition(assignment.Slot)

		span, seen := spans[key]
		if !seen {
			span = daySpan{first: position, last: position}
		}
		span.first = min(span.first, position)
		span.last = max(span.last, position)
		span.count++
		spans[key] = span
	}

	total := 0
	for _, span := range spans {
		total += span.last - span.first + 1 - span.count
	}
	return total
}

// balanceCost measures how unevenly sessions are spread across the roster,
// per role. Instructors without any assignment count as load zero.
func (score scorer) balanceCost(assignments map[model.SessionID]model.Assignment) int {
	loads := map[model.InstructorRef]int{}
	for _, assignment := range assignments {
		loads[assignment.Instructor]++
	}

	professorLoads := lo.Map(score.catalog.Professors(), func(professor model.Professor, _ int) int {
		return loads[model.ProfessorRef(professor.ID)]
	})
	taLoads := lo.Map(score.catalog.TAs(), func(ta model.TA, _ int) int {
		return loads[model.TARef(ta.ID)]
	})

	return loadSpread(professorLoads) + loadSpread(taLoads)
}

// venueCost counts general-program lectures held in a plain classroom
// instead of a theater or hall.
func (score scorer) venueCost(assignments map[model.SessionID]model.Assignment) int {
	total := 0
	for session, assignment := range assignments {
		if session.Kind != model.Lecture {
			continue
		}
		course, found := score.catalog.Course(session.Course)
		if !found || !course.IsGeneralProgram {
			continue
		}
		room, found := score.catalog.Room(assignment.Room)
		if found && room.Type == model.Classroom {
			total++
		}
	}
	return total
}

func loadSpread(loads []int) int {
	if len(loads) == 0 {
		return 0
	}
	return lo.Max(loads) - lo.Min(loads)
}
