package model

import (
	"fmt"
	"strings"
)

type RoomType int

const (
	LabCS RoomType = iota
	LabPhysics
	LabDigital
	Classroom
	Theater
	Hall
)

var roomTypeNames = map[RoomType]string{
	LabCS:      "lab-cs",
	LabPhysics: "lab-physics",
	LabDigital: "lab-digital",
	Classroom:  "classroom",
	Theater:    "theater",
	Hall:       "hall",
}

func (roomType RoomType) String() string {
	name, ok := roomTypeNames[roomType]
	if !ok {
		return fmt.Sprintf("room-type(%d)", int(roomType))
	}
	return name
}

func (roomType RoomType) Valid() bool {
	_, ok := roomTypeNames[roomType]
	return ok
}

// IsLab reports whether the type hosts lab sessions rather than lectures.
func (roomType RoomType) IsLab() bool {
	return roomType == LabCS || roomType == LabPhysics || roomType == LabDigital
}

func ParseRoomType(value string) (RoomType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for roomType, name := range roomTypeNames {
		if name == normalized {
			return roomType, nil
		}
	}
	return 0, fmt.Errorf("unknown room type %q", value)
}
