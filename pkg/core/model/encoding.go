package model

// EncodedPatient is the compact placement decision for one patient:
// the admission day and room the outer search wants to try. The engine
// rewrites Day and RoomID in place when repair relocates the patient.
type EncodedPatient struct {
	PatientID    string
	AdmissionDay int
	RoomID       string
}

// EncodedSolution is the representation manipulated by the outer
// search: one entry per patient plus one room-set block per
// (nurse, working shift) pair.
//
// NurseBlocks follows the canonical block order: nurses in the order
// they are declared by the instance, and within each nurse its working
// shifts in declared order.
type EncodedSolution struct {
	Patients    []EncodedPatient
	NurseBlocks [][]string
}

// Clone returns a deep copy of the encoding. The outer search keeps
// value-semantics copies of candidates because Solve mutates its input
// during repair.
func (e *EncodedSolution) Clone() *EncodedSolution {
	c := &EncodedSolution{
		Patients:    make([]EncodedPatient, len(e.Patients)),
		NurseBlocks: make([][]string, len(e.NurseBlocks)),
	}
	copy(c.Patients, e.Patients)
	for i, block := range e.NurseBlocks {
		c.NurseBlocks[i] = append([]string(nil), block...)
	}
	return c
}
