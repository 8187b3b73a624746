package generator

import (
	"github.com/SanteonNL/clinicalops/models/trial"
	"github.com/rs/zerolog"
)

// Summary describes a generated dataset for the log.
type Summary struct {
	Rows           int
	Columns        int
	MeanAge        float64
	MeanSystolicBP float64
	BySeverity     map[trial.Severity]int
	ByGender       map[trial.Gender]int
	FirstEnrolled  trial.Date
	LastEnrolled   trial.Date
}

func Summarize(records []trial.PatientRecord) Summary {
	s := Summary{
		Rows:       len(records),
		Columns:    len(trial.Columns),
		BySeverity: make(map[trial.Severity]int),
		ByGender:   make(map[trial.Gender]int),
	}
	if len(records) == 0 {
		return s
	}

	var ageSum, bpSum int
	s.FirstEnrolled = records[0].EnrollmentDate
	s.LastEnrolled = records[0].EnrollmentDate
	for _, r := range records {
		ageSum += r.Age
		bpSum += r.SystolicBP
		s.BySeverity[r.Severity]++
		s.ByGender[r.Gender]++
		if r.EnrollmentDate.Before(s.FirstEnrolled.Time) {
			s.FirstEnrolled = r.EnrollmentDate
		}
		if r.EnrollmentDate.After(s.LastEnrolled.Time) {
			s.LastEnrolled = r.EnrollmentDate
		}
	}
	s.MeanAge = float64(ageSum) / float64(len(records))
	s.MeanSystolicBP = float64(bpSum) / float64(len(records))
	return s
}

// Log writes the shape and a few head rows, the way the generator reports
// what it produced.
func (s Summary) Log(log zerolog.Logger, records []trial.PatientRecord, head int) {
	log.Info().
		Int("rows", s.Rows).
		Int("columns", s.Columns).
		Float64("mean_age", s.MeanAge).
		Float64("mean_systolic_bp", s.MeanSystolicBP).
		Str("first_enrolled", s.FirstEnrolled.String()).
		Str("last_enrolled", s.LastEnrolled.String()).
		Msg("Generated synthetic clinical trial data")

	for _, sev := range trial.Severities() {
		log.Debug().Str("severity", sev.String()).Int("count", s.BySeverity[sev]).Msg("Severity count")
	}

	for i := 0; i < head && i < len(records); i++ {
		r := records[i]
		log.Info().
			Str("patient_id", r.ID).
			Str("site_id", r.SiteID).
			Int("age", r.Age).
			Str("gender", r.Gender.String()).
			Str("enrollment_date", r.EnrollmentDate.String()).
			Str("severity", r.Severity.String()).
			Int("systolic_bp", r.SystolicBP).
			Msg("Sample record")
	}
}
