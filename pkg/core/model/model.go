package model

// Instance is the immutable problem definition for one planning horizon.
// All day indices run from 0 to Days-1. Per-(day,shift) vectors on
// patients and occupants are flattened as day*len(ShiftTypes)+shiftIndex.
type Instance struct {
	Days        int      `validate:"min=1"`
	SkillLevels int      `validate:"min=1"`
	ShiftTypes  []string `validate:"min=1,dive,required"`
	AgeGroups   []string `validate:"min=1,dive,required"`
	Weights     Weights

	Occupants         []Occupant         `validate:"dive"`
	Patients          []Patient          `validate:"dive"`
	Surgeons          []Surgeon          `validate:"dive"`
	OperatingTheaters []OperatingTheater `validate:"dive"`
	Rooms             []Room             `validate:"dive"`
	Nurses            []Nurse            `validate:"dive"`
}

// Weights holds the soft-constraint weights declared by the instance.
type Weights struct {
	RoomMixedAge           int `validate:"min=0"`
	RoomNurseSkill         int `validate:"min=0"`
	ContinuityOfCare       int `validate:"min=0"`
	NurseExcessiveWorkload int `validate:"min=0"`
	OpenOperatingTheater   int `validate:"min=0"`
	SurgeonTransfer        int `validate:"min=0"`
	PatientDelay           int `validate:"min=0"`
	UnscheduledOptional    int `validate:"min=0"`
}

// Patient is a patient waiting for admission within the horizon.
type Patient struct {
	ID                string `validate:"required"`
	Mandatory         bool
	Gender            string `validate:"required"`
	AgeGroup          string `validate:"required"`
	SurgeonID         string `validate:"required"`
	SurgeryDuration   int    `validate:"min=1"`
	SurgeryReleaseDay int    `validate:"min=0"`
	// SurgeryDueDay is only meaningful for mandatory patients.
	SurgeryDueDay       int
	LengthOfStay        int `validate:"min=1"`
	IncompatibleRoomIDs []string
	// SkillLevelRequired is indexed by (day since admission, shift).
	SkillLevelRequired []int
	// WorkloadProduced is indexed by (day since admission, shift).
	WorkloadProduced []int
}

// Occupant is a patient admitted before the horizon starts. Its room is
// fixed and its length of stay covers only the remaining days, clipped
// to the horizon. Skill and workload vectors are indexed by absolute day.
type Occupant struct {
	ID                 string `validate:"required"`
	Gender             string `validate:"required"`
	AgeGroup           string `validate:"required"`
	LengthOfStay       int    `validate:"min=1"`
	RoomID             string `validate:"required"`
	SkillLevelRequired []int
	WorkloadProduced   []int
}

// Surgeon has a per-day surgery-time budget.
type Surgeon struct {
	ID             string `validate:"required"`
	MaxSurgeryTime []int  `validate:"min=1"`
}

// Room has a fixed capacity; patient incompatibilities are declared on
// the patient side.
type Room struct {
	ID       string `validate:"required"`
	Capacity int    `validate:"min=1"`
}

// OperatingTheater has a per-day availability in surgery-time units.
type OperatingTheater struct {
	ID           string `validate:"required"`
	Availability []int  `validate:"min=1"`
}

// WorkingShift is one (day, shift type) slot a nurse works, with the
// maximum workload the nurse can absorb in that slot.
type WorkingShift struct {
	Day     int    `validate:"min=0"`
	Shift   string `validate:"required"`
	MaxLoad int    `validate:"min=0"`
}

// Nurse has a skill level and a working calendar.
type Nurse struct {
	ID            string         `validate:"required"`
	SkillLevel    int            `validate:"min=0"`
	WorkingShifts []WorkingShift `validate:"dive"`
}

// ShiftIndex returns the index of a shift type within the instance's
// declared order, or -1 if the shift type is unknown.
func (inst *Instance) ShiftIndex(shift string) int {
	for i, s := range inst.ShiftTypes {
		if s == shift {
			return i
		}
	}
	return -1
}

// TotalNurseBlocks is the number of nurse-shift blocks an encoded
// solution must carry for this instance: one per (nurse, working shift)
// pair in declared order.
func (inst *Instance) TotalNurseBlocks() int {
	n := 0
	for i := range inst.Nurses {
		n += len(inst.Nurses[i].WorkingShifts)
	}
	return n
}
