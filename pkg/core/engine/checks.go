package engine

import (
	"fmt"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

// checkSurgeonAvailability reports whether the patient's surgeon has
// enough remaining budget on day to absorb the surgery. An unknown
// surgeon id is a data-consistency fault, not a scheduling outcome.
func (e *Engine) checkSurgeonAvailability(patient *model.Patient, day int) (bool, error) {
	budget, ok := e.surgeonBudget[patient.SurgeonID]
	if !ok {
		return false, fmt.Errorf("surgeon %q for patient %q: %w", patient.SurgeonID, patient.ID, ErrUnknownEntity)
	}
	return budget[day] >= patient.SurgeryDuration, nil
}

// checkOperatingTheaterAvailability reports whether at least one
// theater can still host the patient's surgery on day.
func (e *Engine) checkOperatingTheaterAvailability(patient *model.Patient, day int) bool {
	for _, ts := range e.theaterStates {
		if ts.AvailabilityPerDay[day] >= patient.SurgeryDuration {
			return true
		}
	}
	return false
}

// checkRoomAvailability reports whether the room can host the patient
// for every day of the stay (clipped to the horizon): remaining
// capacity on each day, and gender homogeneity against both assigned
// patients and pre-existing occupants.
func (e *Engine) checkRoomAvailability(patient *model.Patient, admissionDay int, roomID string) (bool, error) {
	rs, ok := e.roomStateByID[roomID]
	if !ok {
		return false, fmt.Errorf("room %q: %w", roomID, ErrUnknownEntity)
	}

	end := min(admissionDay+patient.LengthOfStay, e.inst.Days)
	for day := admissionDay; day < end; day++ {
		if rs.CapacityPerDay[day] <= 0 {
			return false, nil
		}
		for _, assigned := range rs.PatientsPerDay[day] {
			if assigned.Gender != patient.Gender {
				return false, nil
			}
		}
		for _, occ := range rs.OccupantsPerDay[day] {
			if occ.Gender != patient.Gender {
				return false, nil
			}
		}
	}
	return true, nil
}
