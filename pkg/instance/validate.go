package instance

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate runs struct validation over the instance and then checks
// the cross-references the engine relies on, so malformed data fails
// at load time with file context instead of mid-solve.
func Validate(inst *model.Instance) error {
	if err := validate.Struct(inst); err != nil {
		return fmt.Errorf("instance validation failed: %w", err)
	}

	rooms := make(map[string]bool, len(inst.Rooms))
	for _, r := range inst.Rooms {
		rooms[r.ID] = true
	}
	surgeons := make(map[string]bool, len(inst.Surgeons))
	for _, s := range inst.Surgeons {
		surgeons[s.ID] = true
		if len(s.MaxSurgeryTime) < inst.Days {
			return fmt.Errorf("surgeon %q: budget covers %d of %d days", s.ID, len(s.MaxSurgeryTime), inst.Days)
		}
	}
	shifts := make(map[string]bool, len(inst.ShiftTypes))
	for _, s := range inst.ShiftTypes {
		shifts[s] = true
	}

	for _, t := range inst.OperatingTheaters {
		if len(t.Availability) < inst.Days {
			return fmt.Errorf("theater %q: availability covers %d of %d days", t.ID, len(t.Availability), inst.Days)
		}
	}
	for _, occ := range inst.Occupants {
		if !rooms[occ.RoomID] {
			return fmt.Errorf("occupant %q references unknown room %q", occ.ID, occ.RoomID)
		}
	}
	for _, p := range inst.Patients {
		if !surgeons[p.SurgeonID] {
			return fmt.Errorf("patient %q references unknown surgeon %q", p.ID, p.SurgeonID)
		}
		for _, roomID := range p.IncompatibleRoomIDs {
			if !rooms[roomID] {
				return fmt.Errorf("patient %q lists unknown incompatible room %q", p.ID, roomID)
			}
		}
		if p.Mandatory && p.SurgeryDueDay < p.SurgeryReleaseDay {
			return fmt.Errorf("patient %q: due day %d before release day %d", p.ID, p.SurgeryDueDay, p.SurgeryReleaseDay)
		}
	}
	for _, n := range inst.Nurses {
		for _, ws := range n.WorkingShifts {
			if !shifts[ws.Shift] {
				return fmt.Errorf("nurse %q works unknown shift type %q", n.ID, ws.Shift)
			}
			if ws.Day >= inst.Days {
				return fmt.Errorf("nurse %q works day %d outside horizon of %d days", n.ID, ws.Day, inst.Days)
			}
		}
	}

	return nil
}
