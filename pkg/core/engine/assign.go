package engine

import (
	"fmt"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

// assignSurgeon consumes the patient's surgery duration from the
// surgeon's working budget for the day.
func (e *Engine) assignSurgeon(patient *model.Patient, day int) error {
	budget, ok := e.surgeonBudget[patient.SurgeonID]
	if !ok {
		return fmt.Errorf("surgeon %q for patient %q: %w", patient.SurgeonID, patient.ID, ErrUnknownEntity)
	}
	budget[day] -= patient.SurgeryDuration
	return nil
}

// assignOperatingTheater picks a theater with a two-tier best-fit
// policy and commits the surgery to it. Among theaters already hosting
// a surgery that day ("open") it packs tightest: the feasible theater
// left with the smallest remaining availability. Only when no open
// theater fits does it open a closed one, choosing the one with the
// largest availability.
//
// Exhaustion here is a commit conflict: the availability check already
// passed, so no feasible theater means the engine's bookkeeping is
// inconsistent.
func (e *Engine) assignOperatingTheater(patient *model.Patient, day int) (string, error) {
	var open, closed []*TheaterState
	for _, ts := range e.theaterStates {
		if ts.AvailabilityPerDay[day] < patient.SurgeryDuration {
			continue
		}
		if ts.OpenOn(day) {
			open = append(open, ts)
		} else {
			closed = append(closed, ts)
		}
	}

	if len(open) > 0 {
		best := open[0]
		bestRemaining := best.AvailabilityPerDay[day] - patient.SurgeryDuration
		for _, ts := range open[1:] {
			remaining := ts.AvailabilityPerDay[day] - patient.SurgeryDuration
			if remaining < bestRemaining {
				bestRemaining = remaining
				best = ts
			}
		}
		best.PatientsPerDay[day] = append(best.PatientsPerDay[day], patient)
		best.AvailabilityPerDay[day] -= patient.SurgeryDuration
		return best.Theater.ID, nil
	}

	if len(closed) > 0 {
		best := closed[0]
		for _, ts := range closed[1:] {
			if ts.AvailabilityPerDay[day] > best.AvailabilityPerDay[day] {
				best = ts
			}
		}
		best.PatientsPerDay[day] = append(best.PatientsPerDay[day], patient)
		best.AvailabilityPerDay[day] -= patient.SurgeryDuration
		return best.Theater.ID, nil
	}

	return "", fmt.Errorf("no theater for patient %q on day %d after passed check: %w", patient.ID, day, ErrCommitConflict)
}

// assignRoom commits the patient to the room for every day of the stay
// (clipped to the horizon), decrementing remaining capacity. Exhausted
// capacity at this point is a commit conflict, which cannot happen
// under single-threaded sequential decoding.
func (e *Engine) assignRoom(patient *model.Patient, day int, roomID string) error {
	rs, ok := e.roomStateByID[roomID]
	if !ok {
		return fmt.Errorf("room %q: %w", roomID, ErrUnknownEntity)
	}

	end := min(day+patient.LengthOfStay, e.inst.Days)
	for current := day; current < end; current++ {
		if rs.CapacityPerDay[current] <= 0 {
			return fmt.Errorf("room %q exhausted on day %d after passed check: %w", roomID, current, ErrCommitConflict)
		}
		rs.CapacityPerDay[current]--
		rs.PatientsPerDay[current] = append(rs.PatientsPerDay[current], patient)
	}
	return nil
}
