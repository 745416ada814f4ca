package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalInstanceJSON = `{
  "days": 2,
  "skill_levels": 3,
  "shift_types": ["early", "late", "night"],
  "age_groups": ["adult", "elderly"],
  "weights": {
    "room_mixed_age": 5,
    "room_nurse_skill": 1,
    "continuity_of_care": 1,
    "nurse_eccessive_workload": 1,
    "open_operating_theater": 10,
    "surgeon_transfer": 1,
    "patient_delay": 2,
    "unscheduled_optional": 100
  },
  "occupants": [
    {
      "id": "o1", "gender": "F", "age_group": "elderly",
      "length_of_stay": 1, "room_id": "r1",
      "skill_level_required": [1, 0, 0],
      "workload_produced": [2, 1, 1]
    }
  ],
  "patients": [
    {
      "id": "p1", "mandatory": true, "gender": "F", "age_group": "adult",
      "surgeon_id": "s1", "surgery_duration": 3,
      "surgery_release_day": 0, "surgery_due_day": 1, "length_of_stay": 1,
      "incompatible_room_ids": ["r2"],
      "skill_level_required": [0, 0, 0],
      "workload_produced": [1, 1, 1]
    }
  ],
  "surgeons": [{"id": "s1", "max_surgery_time": [5, 5]}],
  "operating_theaters": [{"id": "t1", "availability": [8, 8]}],
  "rooms": [{"id": "r1", "capacity": 2}, {"id": "r2", "capacity": 1}],
  "nurses": [
    {
      "id": "n1", "skill_level": 2,
      "working_shifts": [
        {"day": 0, "shift": "early", "max_load": 10},
        {"day": 1, "shift": "late", "max_load": 8}
      ]
    }
  ]
}`

func TestParseInstance(t *testing.T) {
	inst, err := Parse([]byte(minimalInstanceJSON))
	require.NoError(t, err)

	assert.Equal(t, 2, inst.Days)
	assert.Equal(t, 3, inst.SkillLevels)
	assert.Equal(t, []string{"early", "late", "night"}, inst.ShiftTypes)
	assert.Equal(t, 1, inst.Weights.NurseExcessiveWorkload)
	assert.Equal(t, 100, inst.Weights.UnscheduledOptional)

	require.Len(t, inst.Patients, 1)
	p := inst.Patients[0]
	assert.True(t, p.Mandatory)
	assert.Equal(t, "s1", p.SurgeonID)
	assert.Equal(t, []string{"r2"}, p.IncompatibleRoomIDs)
	assert.Equal(t, []int{1, 1, 1}, p.WorkloadProduced)

	require.Len(t, inst.Occupants, 1)
	assert.Equal(t, "r1", inst.Occupants[0].RoomID)

	require.Len(t, inst.Nurses, 1)
	require.Len(t, inst.Nurses[0].WorkingShifts, 2)
	assert.Equal(t, 8, inst.Nurses[0].WorkingShifts[1].MaxLoad)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"days": 2,`))
	require.Error(t, err)
}

func TestParseRejectsUnknownSurgeonReference(t *testing.T) {
	broken := []byte(`{
	  "days": 1, "skill_levels": 1,
	  "shift_types": ["day"], "age_groups": ["adult"],
	  "weights": {},
	  "patients": [
	    {"id": "p1", "mandatory": false, "gender": "M", "age_group": "adult",
	     "surgeon_id": "missing", "surgery_duration": 1,
	     "surgery_release_day": 0, "surgery_due_day": 0, "length_of_stay": 1,
	     "skill_level_required": [0], "workload_produced": [0]}
	  ],
	  "surgeons": [{"id": "s1", "max_surgery_time": [5]}],
	  "operating_theaters": [{"id": "t1", "availability": [5]}],
	  "rooms": [{"id": "r1", "capacity": 1}],
	  "nurses": [{"id": "n1", "skill_level": 1,
	    "working_shifts": [{"day": 0, "shift": "day", "max_load": 5}]}]
	}`)

	_, err := Parse(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown surgeon")
}

func TestParseRejectsShortSurgeonBudget(t *testing.T) {
	broken := []byte(`{
	  "days": 3, "skill_levels": 1,
	  "shift_types": ["day"], "age_groups": ["adult"],
	  "weights": {},
	  "surgeons": [{"id": "s1", "max_surgery_time": [5]}],
	  "operating_theaters": [{"id": "t1", "availability": [5, 5, 5]}],
	  "rooms": [{"id": "r1", "capacity": 1}],
	  "nurses": [{"id": "n1", "skill_level": 1,
	    "working_shifts": [{"day": 0, "shift": "day", "max_load": 5}]}]
	}`)

	_, err := Parse(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget covers")
}
