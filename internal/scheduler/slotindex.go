package scheduler

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"coursetable/pkg/model"
)

// slotIndex orders the catalog slots day by day and gives every slot a dense
// position inside its day. Gap scoring and grid exports both need the
// position of a slot among the slots that actually exist on that day, which
// may differ between days.
type slotIndex struct {
	slotsPerDay  map[model.Weekday][]model.TimeSlot
	dayPositions map[model.TimeSlot]int
}

func newSlotIndex(slots []model.TimeSlot) slotIndex {
	perDay := lo.GroupBy(slots, func(slot model.TimeSlot) model.Weekday {
		return slot.Day
	})

	days := lo.Keys(perDay)
	slices.Sort(days)

	positions := make(map[model.TimeSlot]int, len(slots))
	for _, day := range days {
		ordered := perDay[day]
		slices.SortFunc(ordered, model.TimeSlot.Compare)
		for position, slot := range ordered {
			positions[slot] = position
		}
		perDay[day] = ordered
	}

	return slotIndex{
		slotsPerDay:  perDay,
		dayPositions: positions,
	}
}

// dayPosition returns the dense position of a slot within its day.
func (index slotIndex) dayPosition(slot model.TimeSlot) int {
	position, found := index.dayPositions[slot]
	if !found {
		panic(fmt.Sprintf("slot %v is not part of the catalog", slot))
	}
	return position
}

// daySlots returns the ordered slots of one day. Days without slots yield nil.
func (index slotIndex) daySlots(day model.Weekday) []model.TimeSlot {
	return index.slotsPerDay[day]
}
