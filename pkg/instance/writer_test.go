package instance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/pmarrero/ihtp/pkg/core/engine"
	"github.com/pmarrero/ihtp/pkg/core/model"
)

func TestEncodedRoundTrip(t *testing.T) {
	enc := &model.EncodedSolution{
		Patients: []model.EncodedPatient{
			{PatientID: "p1", AdmissionDay: 0, RoomID: "r1"},
			{PatientID: "p2", AdmissionDay: 3, RoomID: "r2"},
		},
		NurseBlocks: [][]string{{"r1"}, {}, {"r1", "r2"}},
	}

	path := filepath.Join(t.TempDir(), "encoded.json")
	require.NoError(t, WriteEncoded(path, enc))

	loaded, err := LoadEncoded(path)
	require.NoError(t, err)
	assert.Equal(t, enc.Patients, loaded.Patients)
	require.Len(t, loaded.NurseBlocks, 3)
	assert.Equal(t, []string{"r1"}, loaded.NurseBlocks[0])
	assert.Empty(t, loaded.NurseBlocks[1])
	assert.Equal(t, []string{"r1", "r2"}, loaded.NurseBlocks[2])
}

func TestWriteSolution(t *testing.T) {
	day := 1
	sol := &engine.Solution{
		Patients: []engine.PatientPlacement{
			{PatientID: "p1", AdmissionDay: &day, RoomID: "r1", TheaterID: "t1"},
			{PatientID: "p2"},
		},
		Nurses: []engine.NurseAssignment{
			{NurseID: "n1", Shifts: []engine.ShiftAssignment{
				{Day: 0, Shift: "early", Rooms: []string{"r1"}},
			}},
		},
		SoftTotal:      42,
		HardViolations: 1,
	}

	path := filepath.Join(t.TempDir(), "solution.json")
	require.NoError(t, WriteSolution(path, sol))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	root := gjson.ParseBytes(data)

	assert.Equal(t, int64(1), root.Get("patients.0.admission_day").Int())
	assert.Equal(t, "t1", root.Get("patients.0.operating_theater").String())
	// An unplaced patient exports an explicit null admission day.
	assert.True(t, root.Get("patients.1.admission_day").Type == gjson.Null)
	assert.Equal(t, "r1", root.Get("nurses.0.assignments.0.rooms.0").String())
	assert.Equal(t, int64(1), root.Get("costs.hard_violations").Int())
	assert.Equal(t, int64(42), root.Get("costs.soft_total").Int())
}
