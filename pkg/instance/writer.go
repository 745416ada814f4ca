package instance

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/pmarrero/ihtp/pkg/core/engine"
	"github.com/pmarrero/ihtp/pkg/core/model"
)

// solutionJSON is the exported shape of a decoded solution.
type solutionJSON struct {
	Patients []patientJSON `json:"patients"`
	Nurses   []nurseJSON   `json:"nurses"`
	Costs    costsJSON     `json:"costs"`
}

type patientJSON struct {
	ID               string `json:"id"`
	AdmissionDay     *int   `json:"admission_day"`
	Room             string `json:"room,omitempty"`
	OperatingTheater string `json:"operating_theater,omitempty"`
}

type nurseJSON struct {
	ID          string           `json:"id"`
	Assignments []assignmentJSON `json:"assignments"`
}

type assignmentJSON struct {
	Day   int      `json:"day"`
	Shift string   `json:"shift"`
	Rooms []string `json:"rooms"`
}

type costsJSON struct {
	HardViolations int   `json:"hard_violations"`
	SoftTotal      int   `json:"soft_total"`
	Soft           []int `json:"soft"`
}

// WriteSolution serializes a decoded solution to a JSON file.
func WriteSolution(path string, sol *engine.Solution) error {
	out := solutionJSON{
		Patients: make([]patientJSON, 0, len(sol.Patients)),
		Nurses:   make([]nurseJSON, 0, len(sol.Nurses)),
		Costs: costsJSON{
			HardViolations: sol.HardViolations,
			SoftTotal:      sol.SoftTotal,
			Soft:           sol.SoftCosts[:],
		},
	}
	for _, pa := range sol.Patients {
		out.Patients = append(out.Patients, patientJSON{
			ID:               pa.PatientID,
			AdmissionDay:     pa.AdmissionDay,
			Room:             pa.RoomID,
			OperatingTheater: pa.TheaterID,
		})
	}
	for _, na := range sol.Nurses {
		nurse := nurseJSON{ID: na.NurseID, Assignments: make([]assignmentJSON, 0, len(na.Shifts))}
		for _, sa := range na.Shifts {
			nurse.Assignments = append(nurse.Assignments, assignmentJSON{Day: sa.Day, Shift: sa.Shift, Rooms: sa.Rooms})
		}
		out.Nurses = append(out.Nurses, nurse)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal solution: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write solution file: %w", err)
	}
	return nil
}

// encodedJSON is the on-disk shape of an encoded candidate.
type encodedJSON struct {
	Patients []encodedPatientJSON `json:"patients"`
	Nurses   [][]string           `json:"nurse_blocks"`
}

type encodedPatientJSON struct {
	ID   string `json:"id"`
	Day  int    `json:"day"`
	Room string `json:"room"`
}

// LoadEncoded reads an encoded candidate from a JSON file.
func LoadEncoded(path string) (*model.EncodedSolution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded solution file: %w", err)
	}
	return ParseEncoded(data)
}

// ParseEncoded builds an encoded candidate from JSON.
func ParseEncoded(data []byte) (*model.EncodedSolution, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid encoded solution JSON")
	}
	root := gjson.ParseBytes(data)

	enc := &model.EncodedSolution{}
	root.Get("patients").ForEach(func(_, v gjson.Result) bool {
		enc.Patients = append(enc.Patients, model.EncodedPatient{
			PatientID:    v.Get("id").String(),
			AdmissionDay: int(v.Get("day").Int()),
			RoomID:       v.Get("room").String(),
		})
		return true
	})
	root.Get("nurse_blocks").ForEach(func(_, v gjson.Result) bool {
		enc.NurseBlocks = append(enc.NurseBlocks, stringSlice(v))
		return true
	})
	return enc, nil
}

// WriteEncoded serializes an encoded candidate to a JSON file so a
// search result can be re-evaluated or resumed later.
func WriteEncoded(path string, enc *model.EncodedSolution) error {
	out := encodedJSON{
		Patients: make([]encodedPatientJSON, 0, len(enc.Patients)),
		Nurses:   enc.NurseBlocks,
	}
	for _, p := range enc.Patients {
		out.Patients = append(out.Patients, encodedPatientJSON{ID: p.PatientID, Day: p.AdmissionDay, Room: p.RoomID})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal encoded solution: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write encoded solution file: %w", err)
	}
	return nil
}
