package model

type (
	CourseID    int
	ProfessorID int
	TAID        int
	RoomID      int
)

type Course struct {
	ID               CourseID
	Name             string
	Code             string
	Enrollment       int
	HasLab           bool
	IsGeneralProgram bool
	LabType          RoomType // meaningful only when HasLab is set
}

type Professor struct {
	ID        ProfessorID
	Name      string
	Qualified map[CourseID]bool // courses the professor may lecture
	Busy      map[TimeSlot]bool // slots committed outside this run
}

type TA struct {
	ID            TAID
	Name          string
	QualifiedLabs map[CourseID]bool
	Busy          map[TimeSlot]bool
}

type Room struct {
	ID       RoomID
	Code     string
	Capacity int
	Type     RoomType
}
