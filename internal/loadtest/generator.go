package loadtest

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/okian/salaryband/internal/domain/model"
)

// Performer mixes. Score fields use the 1-10 scales of the placement dataset.
const (
	caseAverage = iota
	caseStrong
	caseWeak
	caseElite
	caseWide
	caseCount
)

// Generator produces in-domain student profiles.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Profiles generates n profiles with ids LT000001 onwards.
func (g *Generator) Profiles(n int) []model.Profile {
	out := make([]model.Profile, n)
	for i := range out {
		out[i] = g.Profile(fmt.Sprintf("LT%06d", i+1))
	}
	return out
}

// Profile generates one profile that passes model.Profile.Validate.
func (g *Generator) Profile(id string) model.Profile {
	var cgpaMin, cgpaMax float64
	var iqMin, iqMax, projMax int
	switch g.rnd.IntN(caseCount) {
	case caseStrong:
		cgpaMin, cgpaMax, iqMin, iqMax, projMax = 7.5, 9.2, 105, 130, 5
	case caseWeak:
		cgpaMin, cgpaMax, iqMin, iqMax, projMax = 4.5, 6.5, 70, 95, 2
	case caseElite:
		cgpaMin, cgpaMax, iqMin, iqMax, projMax = 9.0, 10.0, 120, 150, 5
	case caseWide:
		cgpaMin, cgpaMax, iqMin, iqMax, projMax = 5, model.MaxCGPA, model.MinIQ, 160, 5
	default:
		cgpaMin, cgpaMax, iqMin, iqMax, projMax = 6.0, 8.0, 90, 110, 4
	}

	internship := model.InternshipNo
	if g.rnd.IntN(2) == 1 {
		internship = model.InternshipYes
	}
	return model.Profile{
		CollegeID:           id,
		IQ:                  g.between(iqMin, iqMax),
		PrevSemResult:       g.round2(g.uniform(5, 10)),
		CGPA:                g.round2(g.uniform(cgpaMin, cgpaMax)),
		AcademicPerformance: g.between(1, 10),
		Internship:          internship,
		ExtraCurricular:     g.between(0, 10),
		Communication:       g.between(1, 10),
		ProjectsCompleted:   g.between(0, projMax),
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.IntN(hi-lo+1)
}

func (g *Generator) round2(v float64) float64 {
	return math.Round(v*100) / 100
}
