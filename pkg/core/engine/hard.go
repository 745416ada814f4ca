package engine

import "fmt"

// coverKey identifies one (day, shift, room) coverage slot.
type coverKey struct {
	day    int
	shift  int
	roomID string
}

// coverageIndex inverts the decoded nurse assignments into a
// (day, shift, room) → covering nurses table. Several evaluators walk
// coverage; the index replaces repeated scans over every nurse roster.
func (e *Engine) coverageIndex() (map[coverKey][]string, error) {
	cover := make(map[coverKey][]string)
	for _, na := range e.sol.Nurses {
		for _, sa := range na.Shifts {
			shift, ok := e.shiftIndex[sa.Shift]
			if !ok {
				return nil, fmt.Errorf("shift type %q for nurse %q: %w", sa.Shift, na.NurseID, ErrUnknownEntity)
			}
			for _, roomID := range sa.Rooms {
				key := coverKey{day: sa.Day, shift: shift, roomID: roomID}
				cover[key] = append(cover[key], na.NurseID)
			}
		}
	}
	return cover, nil
}

// hardViolations counts every breach of the eight hard constraints
// against the fully decoded state. All budgets and capacities are read
// from the pristine problem definition, never from the mutated pools,
// so repeated evaluation of the same state is deterministic.
func (e *Engine) hardViolations() (int, error) {
	violations := 0

	// H1: gender mixing, any room-day with more than one distinct
	// gender among patients and occupants.
	for _, rs := range e.roomStates {
		for day := 0; day < e.inst.Days; day++ {
			if !rs.OccupiedOn(day) {
				continue
			}
			genders := make(map[string]struct{}, 2)
			for _, p := range rs.PatientsPerDay[day] {
				genders[p.Gender] = struct{}{}
			}
			for _, occ := range rs.OccupantsPerDay[day] {
				genders[occ.Gender] = struct{}{}
			}
			if len(genders) > 1 {
				violations++
			}
		}
	}

	placements := e.placementsByID()

	// H2: a placed patient occupies a room from its incompatible set.
	for i := range e.sol.Patients {
		pa := &e.sol.Patients[i]
		if !pa.Placed() {
			continue
		}
		patient, ok := e.patientByID[pa.PatientID]
		if !ok {
			continue
		}
		for _, roomID := range patient.IncompatibleRoomIDs {
			if roomID == pa.RoomID {
				violations++
				break
			}
		}
	}

	// H3: surgeon overtime, summed surgery duration per surgeon-day
	// exceeding the declared budget.
	for i := range e.inst.Surgeons {
		surgeon := &e.inst.Surgeons[i]
		surgeryTime := make([]int, e.inst.Days)
		for j := range e.sol.Patients {
			pa := &e.sol.Patients[j]
			if !pa.Placed() {
				continue
			}
			patient, ok := e.patientByID[pa.PatientID]
			if !ok || patient.SurgeonID != surgeon.ID {
				continue
			}
			surgeryTime[*pa.AdmissionDay] += patient.SurgeryDuration
		}
		for day := 0; day < e.inst.Days; day++ {
			if surgeryTime[day] > surgeon.MaxSurgeryTime[day] {
				violations++
			}
		}
	}

	// H4: theater overtime per theater-day against declared availability.
	for _, ts := range e.theaterStates {
		for day := 0; day < e.inst.Days; day++ {
			if len(ts.PatientsPerDay[day]) == 0 {
				continue
			}
			total := 0
			for _, p := range ts.PatientsPerDay[day] {
				total += p.SurgeryDuration
			}
			if total > ts.Theater.Availability[day] {
				violations++
			}
		}
	}

	// H5: unadmitted mandatory patients.
	for i := range e.inst.Patients {
		patient := &e.inst.Patients[i]
		if !patient.Mandatory {
			continue
		}
		pa, ok := placements[patient.ID]
		if !ok || !pa.Placed() {
			violations++
		}
	}

	// H6: admission before release day, or past the due day for
	// mandatory patients.
	for i := range e.sol.Patients {
		pa := &e.sol.Patients[i]
		if !pa.Placed() {
			continue
		}
		patient, ok := e.patientByID[pa.PatientID]
		if !ok {
			continue
		}
		day := *pa.AdmissionDay
		if day < patient.SurgeryReleaseDay || (patient.Mandatory && day > patient.SurgeryDueDay) {
			violations++
		}
	}

	// H7: room over-capacity on any day with at least one assigned
	// patient (occupants alone cannot exceed capacity by construction).
	for _, rs := range e.roomStates {
		for day := 0; day < e.inst.Days; day++ {
			if len(rs.PatientsPerDay[day]) == 0 {
				continue
			}
			total := len(rs.PatientsPerDay[day]) + len(rs.OccupantsPerDay[day])
			if total > rs.Room.Capacity {
				violations++
			}
		}
	}

	// H8: every occupied room-day must be covered by some nurse on
	// every declared shift type. Deliberately strict: a shift type no
	// nurse ever works fails every occupied room-day for that shift.
	cover, err := e.coverageIndex()
	if err != nil {
		return 0, err
	}
	for _, rs := range e.roomStates {
		for day := 0; day < e.inst.Days; day++ {
			if !rs.OccupiedOn(day) {
				continue
			}
			for shift := range e.inst.ShiftTypes {
				if len(cover[coverKey{day: day, shift: shift, roomID: rs.Room.ID}]) == 0 {
					violations++
				}
			}
		}
	}

	return violations, nil
}

// placementsByID indexes the decoded placements by patient id.
func (e *Engine) placementsByID() map[string]*PatientPlacement {
	m := make(map[string]*PatientPlacement, len(e.sol.Patients))
	for i := range e.sol.Patients {
		m[e.sol.Patients[i].PatientID] = &e.sol.Patients[i]
	}
	return m
}
