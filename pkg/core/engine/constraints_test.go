package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

func TestIncompatibleRoomAndLateAdmissionEachCount(t *testing.T) {
	inst := wardInstance()
	p := wardPatient("p1", true) // release 0, due 1
	p.IncompatibleRoomIDs = []string{"r1"}
	inst.Patients = []model.Patient{p}
	eng := New(inst)

	// The availability checks consult neither the incompatibility list
	// nor the admission window, so this placement commits as encoded.
	enc := &model.EncodedSolution{
		Patients:    []model.EncodedPatient{{PatientID: "p1", AdmissionDay: 2, RoomID: "r1"}},
		NurseBlocks: fullCoverBlocks(inst),
	}

	score, err := eng.Solve(enc)
	require.NoError(t, err)

	placement := eng.Solution().Patients[0]
	require.True(t, placement.Placed())
	assert.Equal(t, 2, *placement.AdmissionDay)
	assert.Equal(t, "r1", placement.RoomID)

	// One charge for the incompatible room, one for admission past the
	// due day.
	assert.Equal(t, 2, score.Hard)
	// Two days past release at weight 2.
	assert.Equal(t, 4, eng.Solution().SoftCosts[SoftAdmissionDelay])
}

func TestSurgeonOvertimeCountedAgainstDeclaredBudget(t *testing.T) {
	inst := wardInstance()
	inst.Surgeons[0].MaxSurgeryTime = []int{5, 5, 5}
	inst.Patients = []model.Patient{wardPatient("p1", false), wardPatient("p2", false)}
	eng := New(inst)
	eng.initDynamicStates()

	day := 0
	eng.sol.Patients = []PatientPlacement{
		{PatientID: "p1", AdmissionDay: &day, RoomID: "r1", TheaterID: "t1"},
		{PatientID: "p2", AdmissionDay: &day, RoomID: "r1", TheaterID: "t1"},
	}

	violations, err := eng.hardViolations()
	require.NoError(t, err)
	// 3+3 surgery units on day 0 against the declared 5; one violation
	// for the surgeon-day, not one per patient.
	assert.Equal(t, 1, violations)
}

func TestTheaterOvertimeCountedPerTheaterDay(t *testing.T) {
	inst := wardInstance()
	inst.OperatingTheaters[0].Availability = []int{5, 5, 5}
	inst.Patients = []model.Patient{wardPatient("p1", false), wardPatient("p2", false)}
	eng := New(inst)
	eng.initDynamicStates()

	ts := eng.theaterStates[0]
	ts.PatientsPerDay[0] = append(ts.PatientsPerDay[0], &inst.Patients[0], &inst.Patients[1])

	violations, err := eng.hardViolations()
	require.NoError(t, err)
	// 6 units against a declared 5, on day 0 only.
	assert.Equal(t, 1, violations)
}

func TestMixedAgeGroupsChargeTheIndexSpread(t *testing.T) {
	inst := wardInstance()
	inst.Occupants = []model.Occupant{
		{ID: "o1", Gender: "F", AgeGroup: "adult", LengthOfStay: 1, RoomID: "r1",
			SkillLevelRequired: make([]int, 3), WorkloadProduced: make([]int, 3)},
		{ID: "o2", Gender: "F", AgeGroup: "elderly", LengthOfStay: 1, RoomID: "r1",
			SkillLevelRequired: make([]int, 3), WorkloadProduced: make([]int, 3)},
	}
	eng := New(inst)

	enc := &model.EncodedSolution{NurseBlocks: fullCoverBlocks(inst)}
	score, err := eng.Solve(enc)
	require.NoError(t, err)

	assert.Equal(t, 0, score.Hard)
	// Age indices 0 and 1 share the room on day 0: spread 1 at weight 5.
	assert.Equal(t, 5, eng.Solution().SoftCosts[SoftAgeGroupMix])
}

func TestWorkloadOverloadChargesExcessOverShiftMaximum(t *testing.T) {
	inst := wardInstance()
	for i := range inst.Nurses[0].WorkingShifts {
		inst.Nurses[0].WorkingShifts[i].MaxLoad = 5
	}
	inst.Occupants = []model.Occupant{
		{ID: "o1", Gender: "F", AgeGroup: "adult", LengthOfStay: 1, RoomID: "r1",
			SkillLevelRequired: make([]int, 3), WorkloadProduced: []int{7, 0, 0}},
	}
	eng := New(inst)

	enc := &model.EncodedSolution{NurseBlocks: fullCoverBlocks(inst)}
	score, err := eng.Solve(enc)
	require.NoError(t, err)

	assert.Equal(t, 0, score.Hard)
	// 7 workload units against the nurse's 5 on day 0 early; the
	// zero-workload shifts contribute nothing.
	assert.Equal(t, 2, eng.Solution().SoftCosts[SoftExcessiveWorkload])
}

func TestSurgeonSplitAcrossTheatersChargesExtraTheaters(t *testing.T) {
	inst := &model.Instance{
		Days:        1,
		SkillLevels: 1,
		ShiftTypes:  []string{"day"},
		AgeGroups:   []string{"adult"},
		Weights:     model.Weights{SurgeonTransfer: 9},
		Rooms:       []model.Room{{ID: "r1", Capacity: 2}},
		OperatingTheaters: []model.OperatingTheater{
			{ID: "t1", Availability: []int{4}},
			{ID: "t2", Availability: []int{4}},
		},
		Surgeons: []model.Surgeon{{ID: "s1", MaxSurgeryTime: []int{10}}},
		Nurses: []model.Nurse{{ID: "n1", SkillLevel: 1,
			WorkingShifts: []model.WorkingShift{{Day: 0, Shift: "day", MaxLoad: 50}}}},
	}
	patient := func(id string) model.Patient {
		return model.Patient{
			ID: id, Mandatory: true, Gender: "M", AgeGroup: "adult",
			SurgeonID: "s1", SurgeryDuration: 3,
			SurgeryReleaseDay: 0, SurgeryDueDay: 0, LengthOfStay: 1,
			SkillLevelRequired: make([]int, 1), WorkloadProduced: make([]int, 1),
		}
	}
	inst.Patients = []model.Patient{patient("a"), patient("b")}
	eng := New(inst)

	enc := &model.EncodedSolution{
		Patients: []model.EncodedPatient{
			{PatientID: "a", AdmissionDay: 0, RoomID: "r1"},
			{PatientID: "b", AdmissionDay: 0, RoomID: "r1"},
		},
		NurseBlocks: [][]string{{"r1"}},
	}

	score, err := eng.Solve(enc)
	require.NoError(t, err)
	assert.Equal(t, 0, score.Hard)

	// Neither theater fits both surgeries, so the shared surgeon ends
	// up split across two theaters on the same day.
	placements := eng.Solution().Patients
	require.Len(t, placements, 2)
	assert.NotEqual(t, placements[0].TheaterID, placements[1].TheaterID)
	// One extra theater at weight 9.
	assert.Equal(t, 9, eng.Solution().SoftCosts[SoftSurgeonTransfer])
}
