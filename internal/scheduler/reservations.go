package scheduler

import (
	"coursetable/pkg/model"
)

type roomKey struct {
	room model.RoomID
	slot model.TimeSlot
}

type instructorKey struct {
	instructor model.InstructorRef
	slot       model.TimeSlot
}

// reservations tracks which session holds each (resource, slot) pair in the
// current search branch. Rooms and instructors are the only contended
// resources; slots themselves are not, so a slot key never appears alone.
type reservations struct {
	rooms       map[roomKey]model.SessionID
	instructors map[instructorKey]model.SessionID
}

func newReservations() *reservations {
	return &reservations{
		rooms:       make(map[roomKey]model.SessionID),
		instructors: make(map[instructorKey]model.SessionID),
	}
}

func (state *reservations) reserve(session model.SessionID, assignment model.Assignment) {
	state.rooms[roomKey{room: assignment.Room, slot: assignment.Slot}] = session
	state.instructors[instructorKey{instructor: assignment.Instructor, slot: assignment.Slot}] = session
}

func (state *reservations) release(assignment model.Assignment) {
	delete(state.rooms, roomKey{room: assignment.Room, slot: assignment.Slot})
	delete(state.instructors, instructorKey{instructor: assignment.Instructor, slot: assignment.Slot})
}

func (state *reservations) roomHolder(room model.RoomID, slot model.TimeSlot) (model.SessionID, bool) {
	session, held := state.rooms[roomKey{room: room, slot: slot}]
	return session, held
}

func (state *reservations) instructorHolder(instructor model.InstructorRef, slot model.TimeSlot) (model.SessionID, bool) {
	session, held := state.instructors[instructorKey{instructor: instructor, slot: slot}]
	return session, held
}
