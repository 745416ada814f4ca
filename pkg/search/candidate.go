// Package search provides the outer metaheuristics that drive the
// decode-evaluate-repair engine: a genetic algorithm and a pure-random
// baseline. Both manipulate encoded candidates only; all feasibility
// and scoring logic lives in the engine.
package search

import (
	"math/rand"
	"slices"
	"time"

	"github.com/pmarrero/ihtp/pkg/core/engine"
	"github.com/pmarrero/ihtp/pkg/core/model"
)

// Parameters tunes the outer search.
type Parameters struct {
	PopulationSize int
	MaxGenerations int
	CrossoverRate  float64
	MutationRate   float64
	EliteCount     int
	TournamentSize int
	TimeLimit      time.Duration
	Seed           int64
}

// Result reports the outcome of one search run.
type Result struct {
	Best        *model.EncodedSolution
	Score       engine.Score
	Evaluations int
	Generations int
	Elapsed     time.Duration
}

// RandomCandidate builds a random encoded solution for the instance:
// each patient gets a day inside its admission window and a compatible
// room, and for every (day, shift) slot the room pool is dealt across
// the nurses working that slot so each room has a chance of coverage.
func RandomCandidate(rng *rand.Rand, inst *model.Instance) *model.EncodedSolution {
	enc := &model.EncodedSolution{
		Patients:    make([]model.EncodedPatient, 0, len(inst.Patients)),
		NurseBlocks: make([][]string, inst.TotalNurseBlocks()),
	}

	for i := range inst.Patients {
		p := &inst.Patients[i]
		enc.Patients = append(enc.Patients, model.EncodedPatient{
			PatientID:    p.ID,
			AdmissionDay: randomAdmissionDay(rng, inst, p),
			RoomID:       randomCompatibleRoom(rng, inst, p),
		})
	}

	dealNurseBlocks(rng, inst, enc.NurseBlocks)
	return enc
}

// randomAdmissionDay draws a day from the patient's admission window,
// clipped to the horizon.
func randomAdmissionDay(rng *rand.Rand, inst *model.Instance, p *model.Patient) int {
	last := inst.Days - 1
	if p.Mandatory && p.SurgeryDueDay < last {
		last = p.SurgeryDueDay
	}
	if last <= p.SurgeryReleaseDay {
		return p.SurgeryReleaseDay
	}
	return p.SurgeryReleaseDay + rng.Intn(last-p.SurgeryReleaseDay+1)
}

// randomCompatibleRoom draws a room the patient is not declared
// incompatible with, falling back to any room when every room is
// excluded (the engine will leave such a patient unplaced).
func randomCompatibleRoom(rng *rand.Rand, inst *model.Instance, p *model.Patient) string {
	compatible := make([]string, 0, len(inst.Rooms))
	for i := range inst.Rooms {
		if !slices.Contains(p.IncompatibleRoomIDs, inst.Rooms[i].ID) {
			compatible = append(compatible, inst.Rooms[i].ID)
		}
	}
	if len(compatible) == 0 {
		return inst.Rooms[rng.Intn(len(inst.Rooms))].ID
	}
	return compatible[rng.Intn(len(compatible))]
}

// dealNurseBlocks fills the flat block list: for each (day, shift) slot
// the full room list is shuffled and dealt round-robin across the
// blocks of nurses working that slot. Slots nobody works stay
// uncovered; H8 prices that in.
func dealNurseBlocks(rng *rand.Rand, inst *model.Instance, blocks [][]string) {
	type slot struct {
		day   int
		shift string
	}
	slotBlocks := make(map[slot][]int)
	idx := 0
	for i := range inst.Nurses {
		for _, ws := range inst.Nurses[i].WorkingShifts {
			key := slot{day: ws.Day, shift: ws.Shift}
			slotBlocks[key] = append(slotBlocks[key], idx)
			blocks[idx] = []string{}
			idx++
		}
	}

	roomIDs := make([]string, len(inst.Rooms))
	for i := range inst.Rooms {
		roomIDs[i] = inst.Rooms[i].ID
	}

	for day := 0; day < inst.Days; day++ {
		for _, shift := range inst.ShiftTypes {
			ids := slotBlocks[slot{day: day, shift: shift}]
			if len(ids) == 0 {
				continue
			}
			dealt := append([]string(nil), roomIDs...)
			rng.Shuffle(len(dealt), func(i, j int) { dealt[i], dealt[j] = dealt[j], dealt[i] })
			for i, roomID := range dealt {
				b := ids[i%len(ids)]
				blocks[b] = append(blocks[b], roomID)
			}
		}
	}
}
