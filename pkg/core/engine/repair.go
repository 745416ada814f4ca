package engine

import (
	"slices"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

// optionalRepairAttempts bounds the repair loop for optional patients.
// The search space does not change between attempts, so passes after
// the first are inert.
const optionalRepairAttempts = 5

// repairMandatoryPatient searches every day in the patient's
// release..due window crossed with every compatible room, in
// problem-declared order, and rewrites the encoded entry with the first
// combination that passes all three availability checks. Returns false
// when the window is exhausted; the patient then stays unplaced and is
// charged as a hard violation downstream.
func (e *Engine) repairMandatoryPatient(patient *model.Patient, entry *model.EncodedPatient) (bool, error) {
	for day := patient.SurgeryReleaseDay; day <= patient.SurgeryDueDay && day < e.inst.Days; day++ {
		ok, err := e.tryRepairDay(patient, entry, day)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// repairOptionalPatient is the same search over release..horizon with
// no due-day bound. On exhaustion the patient stays unplaced at only a
// soft cost.
func (e *Engine) repairOptionalPatient(patient *model.Patient, entry *model.EncodedPatient) (bool, error) {
	for attempt := 0; attempt < optionalRepairAttempts; attempt++ {
		for day := patient.SurgeryReleaseDay; day < e.inst.Days; day++ {
			ok, err := e.tryRepairDay(patient, entry, day)
			if err != nil || ok {
				return ok, err
			}
		}
	}
	return false, nil
}

// tryRepairDay probes every compatible room on one candidate day. The
// encoded entry is only rewritten once a candidate passes all checks;
// the committed pools are never touched during the probe.
func (e *Engine) tryRepairDay(patient *model.Patient, entry *model.EncodedPatient, day int) (bool, error) {
	for i := range e.inst.Rooms {
		room := &e.inst.Rooms[i]
		if slices.Contains(patient.IncompatibleRoomIDs, room.ID) {
			continue
		}

		ok, err := e.checkSurgeonAvailability(patient, day)
		if err != nil {
			return false, err
		}
		if !ok || !e.checkOperatingTheaterAvailability(patient, day) {
			return false, nil // no resource on this day for any room
		}

		ok, err = e.checkRoomAvailability(patient, day, room.ID)
		if err != nil {
			return false, err
		}
		if ok {
			entry.AdmissionDay = day
			entry.RoomID = room.ID
			return true, nil
		}
	}
	return false, nil
}
