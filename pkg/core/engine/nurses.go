package engine

import (
	"fmt"

	"github.com/pmarrero/ihtp/pkg/core/model"
)

// ApplyNurses maps the flat nurse-block encoding onto per-nurse,
// per-shift room assignments, replacing any previous nurse state. The
// blocks are consumed in canonical order: nurses as declared, each
// nurse's working shifts as declared. No feasibility checking happens
// here; nurse/room/skill adequacy is scored, not enforced.
func (e *Engine) ApplyNurses(enc *model.EncodedSolution) error {
	if got, want := len(enc.NurseBlocks), e.inst.TotalNurseBlocks(); got != want {
		return fmt.Errorf("encoded nurse blocks: got %d, want %d: %w", got, want, ErrUnknownEntity)
	}

	e.sol.Nurses = e.sol.Nurses[:0]
	idx := 0
	for i := range e.inst.Nurses {
		nurse := &e.inst.Nurses[i]
		na := NurseAssignment{NurseID: nurse.ID}
		for _, ws := range nurse.WorkingShifts {
			na.Shifts = append(na.Shifts, ShiftAssignment{
				Day:   ws.Day,
				Shift: ws.Shift,
				Rooms: enc.NurseBlocks[idx],
			})
			idx++
		}
		e.sol.Nurses = append(e.sol.Nurses, na)
	}
	return nil
}

// ComputeNurseOnlyCosts recomputes the nurse-sensitive soft costs
// (minimum skill, continuity of care, excessive workload) plus the full
// hard-violation count against the current nurse assignments, leaving
// the patient-side soft costs from the last full decode untouched.
func (e *Engine) ComputeNurseOnlyCosts() (Score, error) {
	s2, err := e.minimumSkillPenalty()
	if err != nil {
		return Score{}, err
	}
	s3, err := e.continuityOfCarePenalty()
	if err != nil {
		return Score{}, err
	}
	s4, err := e.excessiveWorkloadPenalty()
	if err != nil {
		return Score{}, err
	}

	e.sol.SoftCosts[SoftMinimumSkill] = s2
	e.sol.SoftCosts[SoftContinuityOfCare] = s3
	e.sol.SoftCosts[SoftExcessiveWorkload] = s4
	e.sol.SoftTotal = 0
	for _, c := range e.sol.SoftCosts {
		e.sol.SoftTotal += c
	}

	hard, err := e.hardViolations()
	if err != nil {
		return Score{}, err
	}
	e.sol.HardViolations = hard
	return Score{Hard: hard, Soft: e.sol.SoftTotal}, nil
}

// LocalSearchNurses runs a full decode of the candidate and then a
// first-improvement pass over nurse-block pairs: every pair of blocks
// sharing the same (day, shift) slot is swapped, reapplied and
// re-scored on the nurse-sensitive costs. The first swap that strictly
// improves the lexicographic (hard, soft) score is kept and its score
// returned. If no swap improves, the encoding and the decoded state are
// restored and the original score is returned.
func (e *Engine) LocalSearchNurses(enc *model.EncodedSolution) (Score, error) {
	base, err := e.Solve(enc)
	if err != nil {
		return Score{}, err
	}

	type blockSlot struct {
		day   int
		shift string
	}
	meta := make([]blockSlot, 0, len(enc.NurseBlocks))
	for i := range e.inst.Nurses {
		for _, ws := range e.inst.Nurses[i].WorkingShifts {
			meta = append(meta, blockSlot{day: ws.Day, shift: ws.Shift})
		}
	}

	for i := 0; i < len(meta); i++ {
		for j := i + 1; j < len(meta); j++ {
			if meta[i] != meta[j] {
				continue
			}
			enc.NurseBlocks[i], enc.NurseBlocks[j] = enc.NurseBlocks[j], enc.NurseBlocks[i]
			if err := e.ApplyNurses(enc); err != nil {
				return Score{}, err
			}
			score, err := e.ComputeNurseOnlyCosts()
			if err != nil {
				return Score{}, err
			}
			if score.Better(base) {
				return score, nil
			}
			enc.NurseBlocks[i], enc.NurseBlocks[j] = enc.NurseBlocks[j], enc.NurseBlocks[i]
		}
	}

	// No improving swap: restore the decoded nurse state to match the
	// (reverted) encoding before reporting the original score.
	if err := e.ApplyNurses(enc); err != nil {
		return Score{}, err
	}
	if _, err := e.ComputeNurseOnlyCosts(); err != nil {
		return Score{}, err
	}
	return base, nil
}
