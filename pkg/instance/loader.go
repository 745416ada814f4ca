// Package instance loads problem instances and encoded candidates from
// their JSON representations and exports decoded solutions. The engine
// itself performs no I/O; this package is its data producer/consumer.
package instance

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

// Load reads and validates a problem instance from a JSON file.
func Load(path string) (*model.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance file: %w", err)
	}
	inst, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}

// Parse builds a problem instance from instance JSON and validates it.
func Parse(data []byte) (*model.Instance, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid instance JSON")
	}
	root := gjson.ParseBytes(data)

	inst := &model.Instance{
		Days:        int(root.Get("days").Int()),
		SkillLevels: int(root.Get("skill_levels").Int()),
		ShiftTypes:  stringSlice(root.Get("shift_types")),
		AgeGroups:   stringSlice(root.Get("age_groups")),
	}

	w := root.Get("weights")
	inst.Weights = model.Weights{
		RoomMixedAge:           int(w.Get("room_mixed_age").Int()),
		RoomNurseSkill:         int(w.Get("room_nurse_skill").Int()),
		ContinuityOfCare:       int(w.Get("continuity_of_care").Int()),
		NurseExcessiveWorkload: int(w.Get("nurse_eccessive_workload").Int()),
		OpenOperatingTheater:   int(w.Get("open_operating_theater").Int()),
		SurgeonTransfer:        int(w.Get("surgeon_transfer").Int()),
		PatientDelay:           int(w.Get("patient_delay").Int()),
		UnscheduledOptional:    int(w.Get("unscheduled_optional").Int()),
	}

	root.Get("occupants").ForEach(func(_, v gjson.Result) bool {
		inst.Occupants = append(inst.Occupants, model.Occupant{
			ID:                 v.Get("id").String(),
			Gender:             v.Get("gender").String(),
			AgeGroup:           v.Get("age_group").String(),
			LengthOfStay:       int(v.Get("length_of_stay").Int()),
			RoomID:             v.Get("room_id").String(),
			SkillLevelRequired: intSlice(v.Get("skill_level_required")),
			WorkloadProduced:   intSlice(v.Get("workload_produced")),
		})
		return true
	})

	root.Get("patients").ForEach(func(_, v gjson.Result) bool {
		inst.Patients = append(inst.Patients, model.Patient{
			ID:                  v.Get("id").String(),
			Mandatory:           v.Get("mandatory").Bool(),
			Gender:              v.Get("gender").String(),
			AgeGroup:            v.Get("age_group").String(),
			SurgeonID:           v.Get("surgeon_id").String(),
			SurgeryDuration:     int(v.Get("surgery_duration").Int()),
			SurgeryReleaseDay:   int(v.Get("surgery_release_day").Int()),
			SurgeryDueDay:       int(v.Get("surgery_due_day").Int()),
			LengthOfStay:        int(v.Get("length_of_stay").Int()),
			IncompatibleRoomIDs: stringSlice(v.Get("incompatible_room_ids")),
			SkillLevelRequired:  intSlice(v.Get("skill_level_required")),
			WorkloadProduced:    intSlice(v.Get("workload_produced")),
		})
		return true
	})

	root.Get("surgeons").ForEach(func(_, v gjson.Result) bool {
		inst.Surgeons = append(inst.Surgeons, model.Surgeon{
			ID:             v.Get("id").String(),
			MaxSurgeryTime: intSlice(v.Get("max_surgery_time")),
		})
		return true
	})

	root.Get("operating_theaters").ForEach(func(_, v gjson.Result) bool {
		inst.OperatingTheaters = append(inst.OperatingTheaters, model.OperatingTheater{
			ID:           v.Get("id").String(),
			Availability: intSlice(v.Get("availability")),
		})
		return true
	})

	root.Get("rooms").ForEach(func(_, v gjson.Result) bool {
		inst.Rooms = append(inst.Rooms, model.Room{
			ID:       v.Get("id").String(),
			Capacity: int(v.Get("capacity").Int()),
		})
		return true
	})

	root.Get("nurses").ForEach(func(_, v gjson.Result) bool {
		nurse := model.Nurse{
			ID:         v.Get("id").String(),
			SkillLevel: int(v.Get("skill_level").Int()),
		}
		v.Get("working_shifts").ForEach(func(_, ws gjson.Result) bool {
			nurse.WorkingShifts = append(nurse.WorkingShifts, model.WorkingShift{
				Day:     int(ws.Get("day").Int()),
				Shift:   ws.Get("shift").String(),
				MaxLoad: int(ws.Get("max_load").Int()),
			})
			return true
		})
		inst.Nurses = append(inst.Nurses, nurse)
		return true
	})

	if err := Validate(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

func stringSlice(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

func intSlice(r gjson.Result) []int {
	var out []int
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, int(v.Int()))
		return true
	})
	return out
}
