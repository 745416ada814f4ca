package engine

import "github.com/pmarrero/ihtp/pkg/core/model"

// RoomState tracks one room's occupancy over the horizon during a
// single decode pass. It is rebuilt from scratch by every Solve call
// and never shared between calls.
type RoomState struct {
	Room            *model.Room
	CapacityPerDay  []int
	PatientsPerDay  [][]*model.Patient
	OccupantsPerDay [][]*model.Occupant
}

// OccupiedOn reports whether any patient or occupant is present on day.
func (rs *RoomState) OccupiedOn(day int) bool {
	return len(rs.PatientsPerDay[day]) > 0 || len(rs.OccupantsPerDay[day]) > 0
}

// TheaterState tracks one operating theater's remaining availability
// and assigned surgeries over the horizon during a single decode pass.
type TheaterState struct {
	Theater            *model.OperatingTheater
	AvailabilityPerDay []int
	PatientsPerDay     [][]*model.Patient
}

// OpenOn reports whether the theater already hosts a surgery on day.
func (ts *TheaterState) OpenOn(day int) bool {
	return len(ts.PatientsPerDay[day]) > 0
}

// Soft-constraint slots in the decoded solution's cost vector.
const (
	SoftAgeGroupMix = iota
	SoftMinimumSkill
	SoftContinuityOfCare
	SoftExcessiveWorkload
	SoftOpenTheaters
	SoftSurgeonTransfer
	SoftAdmissionDelay
	SoftUnscheduledOptional

	softConstraintCount
)

// PatientPlacement is the decoded outcome for one encoded patient.
// AdmissionDay is nil when the patient could not be placed; RoomID and
// TheaterID are only meaningful when it is set.
type PatientPlacement struct {
	PatientID    string
	AdmissionDay *int
	RoomID       string
	TheaterID    string
}

// Placed reports whether the patient was admitted.
func (p *PatientPlacement) Placed() bool { return p.AdmissionDay != nil }

// ShiftAssignment is the set of rooms one nurse covers in one
// (day, shift) slot.
type ShiftAssignment struct {
	Day   int
	Shift string
	Rooms []string
}

// NurseAssignment is one nurse's decoded duty roster.
type NurseAssignment struct {
	NurseID string
	Shifts  []ShiftAssignment
}

// Solution is the fully decoded schedule produced by one Solve call,
// together with its constraint scores.
type Solution struct {
	Patients []PatientPlacement
	Nurses   []NurseAssignment

	RoomStates    []*RoomState
	TheaterStates []*TheaterState

	SoftCosts      [softConstraintCount]int
	SoftTotal      int
	HardViolations int
}

// Score is the (hard violations, weighted soft penalty) pair returned
// to the outer search. Candidates compare lexicographically: fewer
// hard violations first, lower soft total at equal hard.
type Score struct {
	Hard int
	Soft int
}

// Better reports whether s beats other under the lexicographic order.
func (s Score) Better(other Score) bool {
	if s.Hard != other.Hard {
		return s.Hard < other.Hard
	}
	return s.Soft < other.Soft
}
