package engine

import "fmt"

// softPenalty computes the eight weighted soft costs of the decoded
// state, stores each individually on the solution and returns the sum.
func (e *Engine) softPenalty() (int, error) {
	var err error
	calcs := [softConstraintCount]func() (int, error){
		SoftAgeGroupMix:         e.ageGroupPenalty,
		SoftMinimumSkill:        e.minimumSkillPenalty,
		SoftContinuityOfCare:    e.continuityOfCarePenalty,
		SoftExcessiveWorkload:   e.excessiveWorkloadPenalty,
		SoftOpenTheaters:        e.openTheatersPenalty,
		SoftSurgeonTransfer:     e.surgeonTransferPenalty,
		SoftAdmissionDelay:      e.admissionDelayPenalty,
		SoftUnscheduledOptional: e.unscheduledOptionalPenalty,
	}

	total := 0
	for i, calc := range calcs {
		e.sol.SoftCosts[i], err = calc()
		if err != nil {
			return 0, err
		}
		total += e.sol.SoftCosts[i]
	}
	e.sol.SoftTotal = total
	return total, nil
}

// ageGroupPenalty (S1) charges each room-day hosting more than one age
// group with the spread between the lowest and highest group index.
func (e *Engine) ageGroupPenalty() (int, error) {
	penalty := 0
	for _, rs := range e.roomStates {
		for day := 0; day < e.inst.Days; day++ {
			if !rs.OccupiedOn(day) {
				continue
			}
			minIdx, maxIdx, seen := 0, 0, false
			record := func(ageGroup string) {
				idx, ok := e.ageIndex[ageGroup]
				if !ok {
					return
				}
				if !seen {
					minIdx, maxIdx, seen = idx, idx, true
					return
				}
				minIdx = min(minIdx, idx)
				maxIdx = max(maxIdx, idx)
			}
			for _, p := range rs.PatientsPerDay[day] {
				record(p.AgeGroup)
			}
			for _, occ := range rs.OccupantsPerDay[day] {
				record(occ.AgeGroup)
			}
			if seen && maxIdx > minIdx {
				penalty += e.inst.Weights.RoomMixedAge * (maxIdx - minIdx)
			}
		}
	}
	return penalty, nil
}

// minimumSkillPenalty (S2) charges each coverage instance where a
// patient's or occupant's required skill for the slot exceeds the
// covering nurse's level. A room covered by several nurses in the same
// slot is charged once per covering nurse.
func (e *Engine) minimumSkillPenalty() (int, error) {
	penalty := 0
	shifts := len(e.inst.ShiftTypes)
	placements := e.placementsByID()

	for _, na := range e.sol.Nurses {
		nurse, ok := e.nurseByID[na.NurseID]
		if !ok {
			return 0, fmt.Errorf("nurse %q in solution: %w", na.NurseID, ErrUnknownEntity)
		}
		for _, sa := range na.Shifts {
			shift, ok := e.shiftIndex[sa.Shift]
			if !ok {
				return 0, fmt.Errorf("shift type %q for nurse %q: %w", sa.Shift, na.NurseID, ErrUnknownEntity)
			}
			for _, roomID := range sa.Rooms {
				rs, ok := e.roomStateByID[roomID]
				if !ok {
					return 0, fmt.Errorf("room %q assigned to nurse %q: %w", roomID, na.NurseID, ErrUnknownEntity)
				}
				for _, patient := range rs.PatientsPerDay[sa.Day] {
					pa, ok := placements[patient.ID]
					if !ok || !pa.Placed() {
						return 0, fmt.Errorf("patient %q present in room %q without admission day: %w", patient.ID, roomID, ErrUnknownEntity)
					}
					idx := (sa.Day-*pa.AdmissionDay)*shifts + shift
					if idx < len(patient.SkillLevelRequired) && patient.SkillLevelRequired[idx] > nurse.SkillLevel {
						penalty += (patient.SkillLevelRequired[idx] - nurse.SkillLevel) * e.inst.Weights.RoomNurseSkill
					}
				}
				for _, occ := range rs.OccupantsPerDay[sa.Day] {
					idx := sa.Day*shifts + shift
					if idx < len(occ.SkillLevelRequired) && occ.SkillLevelRequired[idx] > nurse.SkillLevel {
						penalty += (occ.SkillLevelRequired[idx] - nurse.SkillLevel) * e.inst.Weights.RoomNurseSkill
					}
				}
			}
		}
	}
	return penalty, nil
}

// continuityOfCarePenalty (S3) charges every patient and occupant with
// the number of distinct nurses covering any slot of its stay. The
// count is not capped: more distinct nurses is strictly worse.
func (e *Engine) continuityOfCarePenalty() (int, error) {
	cover, err := e.coverageIndex()
	if err != nil {
		return 0, err
	}
	shifts := len(e.inst.ShiftTypes)

	distinctNurses := func(roomID string, firstDay, lastDay int) int {
		seen := make(map[string]struct{})
		for day := firstDay; day < lastDay; day++ {
			for shift := 0; shift < shifts; shift++ {
				for _, nurseID := range cover[coverKey{day: day, shift: shift, roomID: roomID}] {
					seen[nurseID] = struct{}{}
				}
			}
		}
		return len(seen)
	}

	penalty := 0
	for i := range e.inst.Occupants {
		occ := &e.inst.Occupants[i]
		end := min(occ.LengthOfStay, e.inst.Days)
		penalty += distinctNurses(occ.RoomID, 0, end) * e.inst.Weights.ContinuityOfCare
	}
	for i := range e.sol.Patients {
		pa := &e.sol.Patients[i]
		if !pa.Placed() {
			continue
		}
		patient, ok := e.patientByID[pa.PatientID]
		if !ok {
			return 0, fmt.Errorf("patient %q in solution: %w", pa.PatientID, ErrUnknownEntity)
		}
		start := *pa.AdmissionDay
		end := min(start+patient.LengthOfStay, e.inst.Days)
		penalty += distinctNurses(pa.RoomID, start, end) * e.inst.Weights.ContinuityOfCare
	}
	return penalty, nil
}

// excessiveWorkloadPenalty (S4) charges each nurse-shift whose summed
// workload from the assigned rooms exceeds the nurse's declared maximum
// for that working shift. Zero-workload shifts are skipped.
func (e *Engine) excessiveWorkloadPenalty() (int, error) {
	penalty := 0
	shifts := len(e.inst.ShiftTypes)
	placements := e.placementsByID()

	for _, na := range e.sol.Nurses {
		nurse, ok := e.nurseByID[na.NurseID]
		if !ok {
			return 0, fmt.Errorf("nurse %q in solution: %w", na.NurseID, ErrUnknownEntity)
		}
		for _, sa := range na.Shifts {
			maxLoad, found := 0, false
			for _, ws := range nurse.WorkingShifts {
				if ws.Day == sa.Day && ws.Shift == sa.Shift {
					maxLoad, found = ws.MaxLoad, true
					break
				}
			}
			if !found {
				return 0, fmt.Errorf("nurse %q has no working shift on day %d %s: %w", na.NurseID, sa.Day, sa.Shift, ErrUnknownEntity)
			}
			shift, ok := e.shiftIndex[sa.Shift]
			if !ok {
				return 0, fmt.Errorf("shift type %q for nurse %q: %w", sa.Shift, na.NurseID, ErrUnknownEntity)
			}

			total := 0
			for _, roomID := range sa.Rooms {
				rs, ok := e.roomStateByID[roomID]
				if !ok {
					return 0, fmt.Errorf("room %q assigned to nurse %q: %w", roomID, na.NurseID, ErrUnknownEntity)
				}
				for _, patient := range rs.PatientsPerDay[sa.Day] {
					pa, ok := placements[patient.ID]
					if !ok || !pa.Placed() {
						return 0, fmt.Errorf("patient %q present in room %q without admission day: %w", patient.ID, roomID, ErrUnknownEntity)
					}
					idx := (sa.Day-*pa.AdmissionDay)*shifts + shift
					if idx < 0 || idx >= len(patient.WorkloadProduced) {
						return 0, fmt.Errorf("patient %q workload slot %d out of range: %w", patient.ID, idx, ErrUnknownEntity)
					}
					total += patient.WorkloadProduced[idx]
				}
				for _, occ := range rs.OccupantsPerDay[sa.Day] {
					idx := sa.Day*shifts + shift
					if idx < 0 || idx >= len(occ.WorkloadProduced) {
						return 0, fmt.Errorf("occupant %q workload slot %d out of range: %w", occ.ID, idx, ErrUnknownEntity)
					}
					total += occ.WorkloadProduced[idx]
				}
			}

			if total == 0 {
				continue
			}
			if total > maxLoad {
				penalty += (total - maxLoad) * e.inst.Weights.NurseExcessiveWorkload
			}
		}
	}
	return penalty, nil
}

// openTheatersPenalty (S5) charges each day with the number of theaters
// hosting at least one surgery.
func (e *Engine) openTheatersPenalty() (int, error) {
	open := 0
	for day := 0; day < e.inst.Days; day++ {
		for _, ts := range e.theaterStates {
			if ts.OpenOn(day) {
				open++
			}
		}
	}
	return open * e.inst.Weights.OpenOperatingTheater, nil
}

// surgeonTransferPenalty (S6) charges each surgeon operating in more
// than one theater on the same day with the number of extra theaters.
func (e *Engine) surgeonTransferPenalty() (int, error) {
	penalty := 0
	for day := 0; day < e.inst.Days; day++ {
		surgeonTheaters := make(map[string]map[string]struct{})
		for _, ts := range e.theaterStates {
			for _, patient := range ts.PatientsPerDay[day] {
				theaters := surgeonTheaters[patient.SurgeonID]
				if theaters == nil {
					theaters = make(map[string]struct{})
					surgeonTheaters[patient.SurgeonID] = theaters
				}
				theaters[ts.Theater.ID] = struct{}{}
			}
		}
		for _, theaters := range surgeonTheaters {
			if len(theaters) > 1 {
				penalty += (len(theaters) - 1) * e.inst.Weights.SurgeonTransfer
			}
		}
	}
	return penalty, nil
}

// admissionDelayPenalty (S7) charges each placed patient with the days
// between release and actual admission.
func (e *Engine) admissionDelayPenalty() (int, error) {
	delay := 0
	for i := range e.sol.Patients {
		pa := &e.sol.Patients[i]
		if !pa.Placed() {
			continue
		}
		patient, ok := e.patientByID[pa.PatientID]
		if !ok {
			return 0, fmt.Errorf("patient %q in solution: %w", pa.PatientID, ErrUnknownEntity)
		}
		if d := *pa.AdmissionDay - patient.SurgeryReleaseDay; d > 0 {
			delay += d
		}
	}
	return delay * e.inst.Weights.PatientDelay, nil
}

// unscheduledOptionalPenalty (S8) charges each optional patient left
// without an admission day. An optional patient missing from the
// decoded solution entirely is a data fault, not a penalty.
func (e *Engine) unscheduledOptionalPenalty() (int, error) {
	placements := e.placementsByID()
	unscheduled := 0
	for i := range e.inst.Patients {
		patient := &e.inst.Patients[i]
		if patient.Mandatory {
			continue
		}
		pa, ok := placements[patient.ID]
		if !ok {
			return 0, fmt.Errorf("optional patient %q missing from solution: %w", patient.ID, ErrUnknownEntity)
		}
		if !pa.Placed() {
			unscheduled++
		}
	}
	return unscheduled * e.inst.Weights.UnscheduledOptional, nil
}
