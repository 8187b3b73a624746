// Package generator synthesizes the clinical trial dataset. Output is fully
// determined by the seed so every run of the demo sees the same patients.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/SanteonNL/clinicalops/models/trial"
)

const (
	minAge = 18
	maxAge = 85 // exclusive

	firstSite = 101
	lastSite  = 110

	bpIntercept = 110.0
	bpSlope     = 0.3
	bpNoiseSD   = 10.0
)

// Config controls the volume and shape of the generated dataset.
type Config struct {
	Count          int
	Seed           int64
	StartDate      time.Time
	EnrollmentDays int
}

// DefaultConfig is the demo dataset: 500 patients enrolled across 2024.
func DefaultConfig() Config {
	return Config{
		Count:          500,
		Seed:           42,
		StartDate:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EnrollmentDays: 365,
	}
}

type weighted[T any] struct {
	value  T
	weight float64
}

var genderWeights = []weighted[trial.Gender]{
	{trial.GenderMale, 0.48},
	{trial.GenderFemale, 0.48},
	{trial.GenderNonBinary, 0.04},
}

var severityWeights = []weighted[trial.Severity]{
	{trial.SeverityNone, 0.60},
	{trial.SeverityMild, 0.25},
	{trial.SeverityModerate, 0.10},
	{trial.SeveritySevere, 0.05},
}

// DataGenerator produces patient records from a seeded source.
type DataGenerator struct {
	cfg Config
	rng *rand.Rand
}

func NewDataGenerator(cfg Config) *DataGenerator {
	if cfg.StartDate.IsZero() {
		cfg.StartDate = DefaultConfig().StartDate
	}
	if cfg.EnrollmentDays < 0 {
		cfg.EnrollmentDays = 0
	}
	return &DataGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate is shorthand for NewDataGenerator(cfg).Records().
func Generate(cfg Config) []trial.PatientRecord {
	return NewDataGenerator(cfg).Records()
}

// Records returns cfg.Count records with IDs PT-0001, PT-0002, ...
func (g *DataGenerator) Records() []trial.PatientRecord {
	if g.cfg.Count <= 0 {
		return nil
	}
	records := make([]trial.PatientRecord, 0, g.cfg.Count)
	for i := 1; i <= g.cfg.Count; i++ {
		records = append(records, g.record(i))
	}
	return records
}

func (g *DataGenerator) record(seq int) trial.PatientRecord {
	age := minAge + g.rng.Intn(maxAge-minAge)
	return trial.PatientRecord{
		ID:             fmt.Sprintf("PT-%04d", seq),
		SiteID:         fmt.Sprintf("SITE-%d", firstSite+g.rng.Intn(lastSite-firstSite+1)),
		Age:            age,
		Gender:         pick(g.rng, genderWeights),
		EnrollmentDate: trial.NewDate(g.cfg.StartDate.AddDate(0, 0, g.rng.Intn(g.cfg.EnrollmentDays+1))),
		Severity:       pick(g.rng, severityWeights),
		SystolicBP:     g.systolicBP(age),
	}
}

// systolicBP truncates toward zero like an integer cast of the noisy linear
// model.
func (g *DataGenerator) systolicBP(age int) int {
	bp := bpIntercept + bpSlope*float64(age) + g.rng.NormFloat64()*bpNoiseSD
	return int(math.Trunc(bp))
}

// ExpectedSystolicBP is the noise-free blood pressure for an age.
func ExpectedSystolicBP(age int) float64 {
	return bpIntercept + bpSlope*float64(age)
}

func pick[T any](rng *rand.Rand, choices []weighted[T]) T {
	r := rng.Float64()
	var cumulative float64
	for _, c := range choices {
		cumulative += c.weight
		if r < cumulative {
			return c.value
		}
	}
	return choices[len(choices)-1].value
}
