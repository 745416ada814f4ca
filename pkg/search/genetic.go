package search

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pmarrero/ihtp/pkg/core/engine"
	"github.com/pmarrero/ihtp/pkg/core/model"
)

// individual pairs an encoded candidate with its last evaluated score.
type individual struct {
	enc   *model.EncodedSolution
	score engine.Score
}

// Genetic runs a generational genetic algorithm over encoded
// candidates: tournament selection, single-point crossover on the
// patient genes with aligned block swap on the nurse genes, per-gene
// mutation, and elitism. The run stops at MaxGenerations or when the
// time limit expires, whichever comes first, and the incumbent is
// polished with a nurse-only local search before being returned.
func Genetic(eng *engine.Engine, params Parameters, logger *zap.Logger) (*Result, error) {
	if params.PopulationSize < 2 {
		return nil, fmt.Errorf("population size must be at least 2, got %d", params.PopulationSize)
	}
	if params.EliteCount >= params.PopulationSize {
		return nil, fmt.Errorf("elite count %d must be below population size %d", params.EliteCount, params.PopulationSize)
	}

	rng := newRNG(params.Seed)
	inst := eng.Instance()
	start := time.Now()
	deadline := newDeadline(start, params.TimeLimit)
	evaluations := 0

	population := make([]individual, params.PopulationSize)
	for i := range population {
		enc := RandomCandidate(rng, inst)
		score, err := eng.Solve(enc)
		if err != nil {
			return nil, fmt.Errorf("evaluating initial population: %w", err)
		}
		evaluations++
		population[i] = individual{enc: enc, score: score}
	}

	best := cloneBest(rankPopulation(population))
	logger.Info("initial population evaluated",
		zap.Int("size", params.PopulationSize),
		zap.Int("hard", best.score.Hard),
		zap.Int("soft", best.score.Soft),
	)

	generations := 0
	for generations < params.MaxGenerations && !deadline.expired() {
		next := make([]individual, 0, params.PopulationSize)
		for i := 0; i < params.EliteCount; i++ {
			next = append(next, individual{enc: population[i].enc.Clone(), score: population[i].score})
		}

		for len(next) < params.PopulationSize {
			a := tournament(rng, population, params.TournamentSize)
			b := tournament(rng, population, params.TournamentSize)
			childA, childB := a.enc.Clone(), b.enc.Clone()
			if rng.Float64() < params.CrossoverRate {
				crossover(rng, childA, childB)
			}
			mutate(rng, inst, childA, params.MutationRate)
			mutate(rng, inst, childB, params.MutationRate)
			next = append(next, individual{enc: childA})
			if len(next) < params.PopulationSize {
				next = append(next, individual{enc: childB})
			}
		}

		for i := range next {
			score, err := eng.Solve(next[i].enc)
			if err != nil {
				return nil, fmt.Errorf("evaluating generation %d: %w", generations+1, err)
			}
			evaluations++
			next[i].score = score
		}

		population = rankPopulation(next)
		generations++
		if population[0].score.Better(best.score) {
			best = cloneBest(population)
			logger.Info("new incumbent",
				zap.Int("generation", generations),
				zap.Int("hard", best.score.Hard),
				zap.Int("soft", best.score.Soft),
			)
		} else {
			logger.Debug("generation complete",
				zap.Int("generation", generations),
				zap.Int("hard", population[0].score.Hard),
				zap.Int("soft", population[0].score.Soft),
			)
		}
	}

	polished, err := eng.LocalSearchNurses(best.enc)
	if err != nil {
		return nil, fmt.Errorf("polishing incumbent: %w", err)
	}
	evaluations++
	if polished.Better(best.score) {
		logger.Info("nurse polish improved incumbent",
			zap.Int("hard", polished.Hard),
			zap.Int("soft", polished.Soft),
		)
		best.score = polished
	}

	return &Result{
		Best:        best.enc,
		Score:       best.score,
		Evaluations: evaluations,
		Generations: generations,
		Elapsed:     time.Since(start),
	}, nil
}

// rankPopulation sorts best-first by lexicographic (hard, soft) score.
func rankPopulation(population []individual) []individual {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].score.Better(population[j].score)
	})
	return population
}

func cloneBest(ranked []individual) individual {
	return individual{enc: ranked[0].enc.Clone(), score: ranked[0].score}
}

// tournament draws size individuals with replacement and returns the
// best of the draw.
func tournament(rng *rand.Rand, population []individual, size int) individual {
	if size < 1 {
		size = 1
	}
	winner := population[rng.Intn(len(population))]
	for i := 1; i < size; i++ {
		challenger := population[rng.Intn(len(population))]
		if challenger.score.Better(winner.score) {
			winner = challenger
		}
	}
	return winner
}

// crossover swaps the tails of both gene strings at a single random
// point. Patient genes and nurse blocks are cut independently; blocks
// at the same index belong to the same (nurse, day, shift) slot in both
// parents, so swapping whole blocks keeps the encoding well-formed.
func crossover(rng *rand.Rand, a, b *model.EncodedSolution) {
	if n := len(a.Patients); n > 1 {
		cut := 1 + rng.Intn(n-1)
		for i := cut; i < n; i++ {
			a.Patients[i], b.Patients[i] = b.Patients[i], a.Patients[i]
		}
	}
	if n := len(a.NurseBlocks); n > 1 {
		cut := 1 + rng.Intn(n-1)
		for i := cut; i < n; i++ {
			a.NurseBlocks[i], b.NurseBlocks[i] = b.NurseBlocks[i], a.NurseBlocks[i]
		}
	}
}

// mutate re-rolls each patient gene with probability rate and swaps a
// handful of room lists between blocks of the same slot.
func mutate(rng *rand.Rand, inst *model.Instance, enc *model.EncodedSolution, rate float64) {
	for i := range enc.Patients {
		if rng.Float64() >= rate {
			continue
		}
		patient := findPatient(inst, enc.Patients[i].PatientID)
		if patient == nil {
			continue
		}
		enc.Patients[i].AdmissionDay = randomAdmissionDay(rng, inst, patient)
		enc.Patients[i].RoomID = randomCompatibleRoom(rng, inst, patient)
	}

	slots := slotGroups(inst)
	for _, group := range slots {
		if len(group) < 2 || rng.Float64() >= rate {
			continue
		}
		i := group[rng.Intn(len(group))]
		j := group[rng.Intn(len(group))]
		enc.NurseBlocks[i], enc.NurseBlocks[j] = enc.NurseBlocks[j], enc.NurseBlocks[i]
	}
}

// slotGroups collects the block indices sharing each (day, shift) slot.
func slotGroups(inst *model.Instance) map[[2]int][]int {
	groups := make(map[[2]int][]int)
	idx := 0
	for i := range inst.Nurses {
		for _, ws := range inst.Nurses[i].WorkingShifts {
			key := [2]int{ws.Day, inst.ShiftIndex(ws.Shift)}
			groups[key] = append(groups[key], idx)
			idx++
		}
	}
	return groups
}

func findPatient(inst *model.Instance, id string) *model.Patient {
	for i := range inst.Patients {
		if inst.Patients[i].ID == id {
			return &inst.Patients[i]
		}
	}
	return nil
}

// newRNG seeds from the wall clock when no explicit seed is given, so
// repeated unseeded runs explore differently.
func newRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// deadline tracks an optional wall-clock budget; zero means unlimited.
type deadline struct {
	at    time.Time
	bound bool
}

func newDeadline(start time.Time, limit time.Duration) deadline {
	if limit <= 0 {
		return deadline{}
	}
	return deadline{at: start.Add(limit), bound: true}
}

func (d deadline) expired() bool {
	return d.bound && !time.Now().Before(d.at)
}
