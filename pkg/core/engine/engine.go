// Package engine implements the decode-evaluate-repair core for the
// integrated healthcare timetabling problem: it expands an encoded
// candidate into a fully resolved schedule under resource capacities,
// repairs infeasible patient placements with a bounded local search,
// and scores the result against eight hard and eight soft constraints.
//
// One Engine owns the immutable problem definition plus the mutable
// per-decode state (room/theater occupancy, surgeon budgets). It is
// safe for strictly sequential use; concurrent Solve calls need one
// Engine per goroutine.
package engine

import (
	"fmt"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

// Engine evaluates encoded candidates against a problem instance.
type Engine struct {
	// inst is the pristine problem definition. The engine never writes
	// to it; mutable budgets live in the per-decode fields below so a
	// failed decode cannot leak state into the next call.
	inst *model.Instance

	// id → entity lookups, built once per Engine.
	patientByID map[string]*model.Patient
	surgeonByID map[string]*model.Surgeon
	nurseByID   map[string]*model.Nurse
	shiftIndex  map[string]int
	ageIndex    map[string]int

	// Per-decode state, rebuilt by initDynamicStates.
	surgeonBudget map[string][]int
	roomStates    []*RoomState
	roomStateByID map[string]*RoomState
	theaterStates []*TheaterState

	sol Solution
}

// New builds an engine for the given instance. The instance is treated
// as immutable for the engine's lifetime.
func New(inst *model.Instance) *Engine {
	e := &Engine{
		inst:        inst,
		patientByID: make(map[string]*model.Patient, len(inst.Patients)),
		surgeonByID: make(map[string]*model.Surgeon, len(inst.Surgeons)),
		nurseByID:   make(map[string]*model.Nurse, len(inst.Nurses)),
		shiftIndex:  make(map[string]int, len(inst.ShiftTypes)),
		ageIndex:    make(map[string]int, len(inst.AgeGroups)),
	}
	for i := range inst.Patients {
		e.patientByID[inst.Patients[i].ID] = &inst.Patients[i]
	}
	for i := range inst.Surgeons {
		e.surgeonByID[inst.Surgeons[i].ID] = &inst.Surgeons[i]
	}
	for i := range inst.Nurses {
		e.nurseByID[inst.Nurses[i].ID] = &inst.Nurses[i]
	}
	for i, s := range inst.ShiftTypes {
		e.shiftIndex[s] = i
	}
	for i, g := range inst.AgeGroups {
		e.ageIndex[g] = i
	}
	return e
}

// Instance returns the problem definition the engine evaluates against.
func (e *Engine) Instance() *model.Instance { return e.inst }

// Solution returns the decoded schedule of the most recent Solve call.
// The returned value is owned by the engine and invalidated by the
// next Solve.
func (e *Engine) Solution() *Solution { return &e.sol }

// initDynamicStates rebuilds the per-day room and theater tables from
// the problem definition, seeds rooms with their pre-existing
// occupants, and resets surgeon budgets from the pristine instance.
// Idempotent: calling it twice without an intervening decode yields
// identical state.
func (e *Engine) initDynamicStates() {
	days := e.inst.Days

	e.sol = Solution{}

	e.surgeonBudget = make(map[string][]int, len(e.inst.Surgeons))
	for i := range e.inst.Surgeons {
		s := &e.inst.Surgeons[i]
		e.surgeonBudget[s.ID] = append([]int(nil), s.MaxSurgeryTime...)
	}

	e.roomStates = make([]*RoomState, 0, len(e.inst.Rooms))
	e.roomStateByID = make(map[string]*RoomState, len(e.inst.Rooms))
	for i := range e.inst.Rooms {
		room := &e.inst.Rooms[i]
		rs := &RoomState{
			Room:            room,
			CapacityPerDay:  make([]int, days),
			PatientsPerDay:  make([][]*model.Patient, days),
			OccupantsPerDay: make([][]*model.Occupant, days),
		}
		for day := 0; day < days; day++ {
			rs.CapacityPerDay[day] = room.Capacity
		}
		for j := range e.inst.Occupants {
			occ := &e.inst.Occupants[j]
			if occ.RoomID != room.ID {
				continue
			}
			for day := 0; day < occ.LengthOfStay && day < days; day++ {
				rs.OccupantsPerDay[day] = append(rs.OccupantsPerDay[day], occ)
				rs.CapacityPerDay[day]--
			}
		}
		e.roomStates = append(e.roomStates, rs)
		e.roomStateByID[room.ID] = rs
	}

	e.theaterStates = make([]*TheaterState, 0, len(e.inst.OperatingTheaters))
	for i := range e.inst.OperatingTheaters {
		theater := &e.inst.OperatingTheaters[i]
		ts := &TheaterState{
			Theater:            theater,
			AvailabilityPerDay: make([]int, days),
			PatientsPerDay:     make([][]*model.Patient, days),
		}
		copy(ts.AvailabilityPerDay, theater.Availability)
		e.theaterStates = append(e.theaterStates, ts)
	}

	e.sol.RoomStates = e.roomStates
	e.sol.TheaterStates = e.theaterStates
}

// Solve decodes the encoded candidate into a full schedule and scores
// it. Mandatory patients are processed strictly before optional ones so
// they get first claim on scarce capacity. Where repair relocates a
// patient, the encoded entry's day and room are rewritten in place.
func (e *Engine) Solve(enc *model.EncodedSolution) (Score, error) {
	e.initDynamicStates()

	var mandatory, optional []int
	for i := range enc.Patients {
		patient, ok := e.patientByID[enc.Patients[i].PatientID]
		if !ok {
			return Score{}, fmt.Errorf("encoded patient %q: %w", enc.Patients[i].PatientID, ErrUnknownEntity)
		}
		if patient.Mandatory {
			mandatory = append(mandatory, i)
		} else {
			optional = append(optional, i)
		}
	}

	for _, i := range mandatory {
		if err := e.placePatient(&enc.Patients[i], true); err != nil {
			return Score{}, err
		}
	}
	for _, i := range optional {
		if err := e.placePatient(&enc.Patients[i], false); err != nil {
			return Score{}, err
		}
	}

	if err := e.ApplyNurses(enc); err != nil {
		return Score{}, err
	}

	hard, err := e.hardViolations()
	if err != nil {
		return Score{}, err
	}
	soft, err := e.softPenalty()
	if err != nil {
		return Score{}, err
	}
	e.sol.HardViolations = hard
	return Score{Hard: hard, Soft: soft}, nil
}

// placePatient runs the feasibility checks for one encoded entry,
// invokes repair on failure, and commits the surgeon, theater and room
// mutations when a placement is found. An unplaceable patient is
// recorded with no admission day.
func (e *Engine) placePatient(entry *model.EncodedPatient, mandatory bool) error {
	patient := e.patientByID[entry.PatientID]

	feasible, err := e.checkPlacement(patient, entry.AdmissionDay, entry.RoomID)
	if err != nil {
		return err
	}
	if !feasible {
		var repaired bool
		if mandatory {
			repaired, err = e.repairMandatoryPatient(patient, entry)
		} else {
			repaired, err = e.repairOptionalPatient(patient, entry)
		}
		if err != nil {
			return err
		}
		if !repaired {
			e.sol.Patients = append(e.sol.Patients, PatientPlacement{PatientID: patient.ID})
			return nil
		}
	}

	day := entry.AdmissionDay
	if err := e.assignSurgeon(patient, day); err != nil {
		return err
	}
	theaterID, err := e.assignOperatingTheater(patient, day)
	if err != nil {
		return err
	}
	if err := e.assignRoom(patient, day, entry.RoomID); err != nil {
		return err
	}

	admission := day
	e.sol.Patients = append(e.sol.Patients, PatientPlacement{
		PatientID:    patient.ID,
		AdmissionDay: &admission,
		RoomID:       entry.RoomID,
		TheaterID:    theaterID,
	})
	return nil
}

// checkPlacement runs the three availability checks for a candidate
// (day, room). Days outside the horizon are infeasible, not faults, so
// a malformed candidate falls through to repair.
func (e *Engine) checkPlacement(patient *model.Patient, day int, roomID string) (bool, error) {
	if day < 0 || day >= e.inst.Days {
		return false, nil
	}
	ok, err := e.checkSurgeonAvailability(patient, day)
	if err != nil || !ok {
		return false, err
	}
	if !e.checkOperatingTheaterAvailability(patient, day) {
		return false, nil
	}
	return e.checkRoomAvailability(patient, day, roomID)
}
