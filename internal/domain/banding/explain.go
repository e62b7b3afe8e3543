package banding

import "math"

// displayScale rounds probabilities to four decimals.
const displayScale = 1e4

// Check is one threshold comparison of the applied band.
type Check struct {
	Criterion string  `json:"criterion"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Passed    bool    `json:"passed"`
}

// Explanation is the justification snapshot returned with a recommendation.
type Explanation struct {
	Probability float64 `json:"probability"`
	CGPA        float64 `json:"CGPA"`
	IQ          int     `json:"IQ"`
	Projects    int     `json:"Projects_Completed"`
	AppliedRule string  `json:"applied_rule"`
	Checks      []Check `json:"checks,omitempty"`
}

// Round4 rounds p to four decimal places for display.
func Round4(p float64) float64 {
	return math.Round(p*displayScale) / displayScale
}

// Explain captures the inputs that produced r and, when a configured band
// matched, its four threshold comparisons.
func (r Resolution) Explain() Explanation {
	e := Explanation{
		Probability: Round4(r.Criteria.Probability),
		CGPA:        r.Criteria.CGPA,
		IQ:          r.Criteria.IQ,
		Projects:    r.Criteria.Projects,
		AppliedRule: r.Band,
	}
	if r.Matched == nil {
		return e
	}
	b := r.Matched
	c := r.Criteria
	e.Checks = []Check{
		{Criterion: "probability", Value: c.Probability, Threshold: b.MinProb, Passed: c.Probability >= b.MinProb},
		{Criterion: "cgpa", Value: c.CGPA, Threshold: b.MinCGPA, Passed: c.CGPA >= b.MinCGPA},
		{Criterion: "iq", Value: float64(c.IQ), Threshold: float64(b.MinIQ), Passed: c.IQ >= b.MinIQ},
		{Criterion: "projects", Value: float64(c.Projects), Threshold: float64(b.MinProjects), Passed: c.Projects >= b.MinProjects},
	}
	return e
}
