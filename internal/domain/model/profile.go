// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Column names of the tabular schema the placement pipeline was trained on.
const (
	ColCollegeID           = "College_ID"
	ColIQ                  = "IQ"
	ColPrevSemResult       = "Prev_Sem_Result"
	ColCGPA                = "CGPA"
	ColAcademicPerformance = "Academic_Performance"
	ColInternship          = "Internship_Experience"
	ColExtraCurricular     = "Extra_Curricular_Score"
	ColCommunication       = "Communication_Skills"
	ColProjectsCompleted   = "Projects_Completed"
)

// Columns lists the input schema in training order.
var Columns = []string{ //nolint:gochecknoglobals // fixed schema
	ColCollegeID,
	ColIQ,
	ColPrevSemResult,
	ColCGPA,
	ColAcademicPerformance,
	ColInternship,
	ColExtraCurricular,
	ColCommunication,
	ColProjectsCompleted,
}

// Domain bounds for profile fields.
const (
	MinIQ         = 50
	MaxIQ         = 200
	MaxPercent    = 100.0
	MaxCGPA       = 10.0
	MaxScore      = 100
	MaxProjects   = 50
	InternshipYes = "Yes"
	InternshipNo  = "No"
)

// Profile is one evaluation subject. Values are immutable once built.
type Profile struct {
	CollegeID           string  `json:"college_id"`
	IQ                  int     `json:"iq"`
	PrevSemResult       float64 `json:"prev_sem_result"`
	CGPA                float64 `json:"cgpa"`
	AcademicPerformance int     `json:"academic_performance"`
	Internship          string  `json:"internship_experience"`
	ExtraCurricular     int     `json:"extra_curricular_score"`
	Communication       int     `json:"communication_skills"`
	ProjectsCompleted   int     `json:"projects_completed"`
}

// Row is a single tabular record keyed by schema column name.
type Row map[string]any

// Row renders the profile as the single-row input expected by the scorer.
func (p Profile) Row() Row {
	return Row{
		ColCollegeID:           p.CollegeID,
		ColIQ:                  p.IQ,
		ColPrevSemResult:       p.PrevSemResult,
		ColCGPA:                p.CGPA,
		ColAcademicPerformance: p.AcademicPerformance,
		ColInternship:          p.Internship,
		ColExtraCurricular:     p.ExtraCurricular,
		ColCommunication:       p.Communication,
		ColProjectsCompleted:   p.ProjectsCompleted,
	}
}

// Validate checks every field against its domain bounds and reports all
// violations at once. The error wraps ErrInvalidProfile.
func (p Profile) Validate() error {
	var errs []error
	if strings.TrimSpace(p.CollegeID) == "" {
		errs = append(errs, errors.New("college_id must not be empty"))
	}
	if p.IQ < MinIQ || p.IQ > MaxIQ {
		errs = append(errs, fmt.Errorf("iq %d outside [%d, %d]", p.IQ, MinIQ, MaxIQ))
	}
	if !within(p.PrevSemResult, 0, MaxPercent) {
		errs = append(errs, fmt.Errorf("prev_sem_result %.2f outside [0, %.0f]", p.PrevSemResult, MaxPercent))
	}
	if !within(p.CGPA, 0, MaxCGPA) {
		errs = append(errs, fmt.Errorf("cgpa %.2f outside [0, %.0f]", p.CGPA, MaxCGPA))
	}
	if p.AcademicPerformance < 0 || p.AcademicPerformance > MaxScore {
		errs = append(errs, fmt.Errorf("academic_performance %d outside [0, %d]", p.AcademicPerformance, MaxScore))
	}
	if p.Internship != InternshipYes && p.Internship != InternshipNo {
		errs = append(errs, fmt.Errorf("internship_experience %q must be %q or %q", p.Internship, InternshipYes, InternshipNo))
	}
	if p.ExtraCurricular < 0 || p.ExtraCurricular > MaxScore {
		errs = append(errs, fmt.Errorf("extra_curricular_score %d outside [0, %d]", p.ExtraCurricular, MaxScore))
	}
	if p.Communication < 0 || p.Communication > MaxScore {
		errs = append(errs, fmt.Errorf("communication_skills %d outside [0, %d]", p.Communication, MaxScore))
	}
	if p.ProjectsCompleted < 0 || p.ProjectsCompleted > MaxProjects {
		errs = append(errs, fmt.Errorf("projects_completed %d outside [0, %d]", p.ProjectsCompleted, MaxProjects))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidProfile, errors.Join(errs...))
}

// within reports whether x is a finite value in [lo, hi]. NaN fails every
// comparison, so it has to be rejected explicitly.
func within(x, lo, hi float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= lo && x <= hi
}

// NormalizeInternship maps common spellings ("yes", "Y", "true", "1") onto
// the schema's Yes/No categories. Unknown values pass through unchanged so
// Validate can reject them.
func NormalizeInternship(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1":
		return InternshipYes
	case "no", "n", "false", "0":
		return InternshipNo
	default:
		return v
	}
}
