package banding_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/salaryband/internal/domain/banding"
	. "github.com/smartystreets/goconvey/convey"
)

func exampleBands() []banding.Band {
	return []banding.Band{
		{Name: "High", MinProb: 0.75, MinCGPA: 8.0, MinIQ: 110, MinProjects: 3},
		{Name: "Medium", MinProb: 0.50, MinCGPA: 6.5, MinIQ: 90, MinProjects: 1},
		{Name: "Low"},
	}
}

func TestResolve(t *testing.T) {
	Convey("Given the High/Medium/Low table", t, func() {
		bands := exampleBands()

		Convey("When a candidate fails High but passes Medium", func() {
			name, matched := banding.Resolve(banding.Criteria{Probability: 0.6, CGPA: 7.0, IQ: 95, Projects: 2}, bands)

			Convey("Then Medium is returned", func() {
				So(name, ShouldEqual, "Medium")
				So(matched, ShouldNotBeNil)
				So(matched.MinCGPA, ShouldEqual, 6.5)
			})
		})

		Convey("When a candidate fails High and Medium", func() {
			name, matched := banding.Resolve(banding.Criteria{Probability: 0.4, CGPA: 5.0, IQ: 80, Projects: 0}, bands)

			Convey("Then the catch-all Low band matches", func() {
				So(name, ShouldEqual, "Low")
				So(matched, ShouldNotBeNil)
				So(matched.CatchAll(), ShouldBeTrue)
			})
		})

		Convey("When a candidate sits exactly on High's thresholds", func() {
			name, _ := banding.Resolve(banding.Criteria{Probability: 0.75, CGPA: 8.0, IQ: 110, Projects: 3}, bands)

			Convey("Then the inclusive bound qualifies", func() {
				So(name, ShouldEqual, "High")
			})
		})

		Convey("When a candidate misses one threshold by a hair", func() {
			name, _ := banding.Resolve(banding.Criteria{Probability: 0.75, CGPA: 8.0, IQ: 110, Projects: 2}, bands)

			Convey("Then there is no partial credit", func() {
				So(name, ShouldEqual, "Medium")
			})
		})

		Convey("When the same input is resolved repeatedly", func() {
			c := banding.Criteria{Probability: 0.81, CGPA: 9.1, IQ: 130, Projects: 5}
			first, _ := banding.Resolve(c, bands)

			Convey("Then the result never changes", func() {
				for i := 0; i < 100; i++ {
					got, _ := banding.Resolve(c, bands)
					So(got, ShouldEqual, first)
				}
			})
		})
	})

	Convey("Given an empty table", t, func() {
		Convey("Then the sentinel is returned for any input", func() {
			for _, c := range []banding.Criteria{
				{},
				{Probability: 1, CGPA: 10, IQ: 200, Projects: 50},
				{Probability: 0.5, CGPA: 5, IQ: 100, Projects: 1},
			} {
				name, matched := banding.Resolve(c, nil)
				So(name, ShouldEqual, banding.DefaultBand)
				So(matched, ShouldBeNil)
			}
		})
	})

	Convey("Given a table without a catch-all", t, func() {
		bands := exampleBands()[:2]

		Convey("When nothing matches", func() {
			name, matched := banding.ResolveWithDefault(banding.Criteria{Probability: 0.1}, bands, "Unbanded")

			Convey("Then the caller's sentinel is used", func() {
				So(name, ShouldEqual, "Unbanded")
				So(matched, ShouldBeNil)
			})
		})
	})

	Convey("Given overlapping bands in loose-to-tight order", t, func() {
		bands := []banding.Band{
			{Name: "Loose", MinProb: 0.2},
			{Name: "Tight", MinProb: 0.9, MinCGPA: 9},
		}

		Convey("When a candidate satisfies both", func() {
			name, _ := banding.Resolve(banding.Criteria{Probability: 0.95, CGPA: 9.5}, bands)

			Convey("Then the earliest declared band wins, not the tightest", func() {
				So(name, ShouldEqual, "Loose")
			})
		})
	})

	Convey("Given a catch-all placed first", t, func() {
		bands := append([]banding.Band{{Name: "Anyone"}}, exampleBands()...)

		Convey("Then it shadows every later band", func() {
			name, _ := banding.Resolve(banding.Criteria{Probability: 1, CGPA: 10, IQ: 200, Projects: 50}, bands)
			So(name, ShouldEqual, "Anyone")
		})
	})
}

func TestMonotonicity(t *testing.T) {
	Convey("Given pairs where A dominates B on all four criteria", t, func() {
		bands := exampleBands()
		pairs := []struct{ a, b banding.Criteria }{
			{banding.Criteria{Probability: 0.8, CGPA: 8.5, IQ: 120, Projects: 4}, banding.Criteria{Probability: 0.75, CGPA: 8.0, IQ: 110, Projects: 3}},
			{banding.Criteria{Probability: 0.6, CGPA: 7, IQ: 95, Projects: 2}, banding.Criteria{Probability: 0.5, CGPA: 6.5, IQ: 90, Projects: 1}},
			{banding.Criteria{Probability: 0.3, CGPA: 3, IQ: 60, Projects: 0}, banding.Criteria{Probability: 0.1, CGPA: 1, IQ: 50, Projects: 0}},
		}

		Convey("Then A matches every band B matches", func() {
			for _, p := range pairs {
				for _, band := range bands {
					if band.Matches(p.b) {
						So(band.Matches(p.a), ShouldBeTrue)
					}
				}
			}
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a table built from bands", t, func() {
		src := exampleBands()
		table := banding.NewTable(src, "")

		Convey("Then the default sentinel is Low", func() {
			So(table.Default(), ShouldEqual, banding.DefaultBand)
			So(table.Len(), ShouldEqual, 3)
		})

		Convey("When the source slice is mutated afterwards", func() {
			src[0].Name = "Changed"

			Convey("Then the table is unaffected", func() {
				So(table.Bands()[0].Name, ShouldEqual, "High")
			})
		})

		Convey("When resolving a Medium candidate", func() {
			res := table.Resolve(banding.Criteria{Probability: 0.6, CGPA: 7.0, IQ: 95, Projects: 2})

			Convey("Then the resolution records the band and its position", func() {
				So(res.Band, ShouldEqual, "Medium")
				So(res.Index, ShouldEqual, 1)
				So(res.Sentinel(), ShouldBeFalse)
			})
		})

		Convey("When resolving against an empty table with a custom sentinel", func() {
			res := banding.NewTable(nil, "Entry").Resolve(banding.Criteria{Probability: 0.99})

			Convey("Then the sentinel is flagged", func() {
				So(res.Band, ShouldEqual, "Entry")
				So(res.Index, ShouldEqual, -1)
				So(res.Sentinel(), ShouldBeTrue)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given table validation", t, func() {
		Convey("When every band is well formed", func() {
			So(banding.NewTable(exampleBands(), "").Validate(), ShouldBeNil)
		})

		Convey("When bands break their domains", func() {
			err := banding.NewTable([]banding.Band{
				{Name: "", MinProb: 1.2},
				{Name: "Neg", MinCGPA: 11, MinIQ: -1, MinProjects: -2},
				{Name: "NaN", MinProb: math.NaN()},
			}, "").Validate()

			Convey("Then every violation is reported under ErrInvalidBand", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, banding.ErrInvalidBand), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "bands[0]: name is required")
				So(err.Error(), ShouldContainSubstring, "min_prob 1.2")
				So(err.Error(), ShouldContainSubstring, "min_cgpa 11")
				So(err.Error(), ShouldContainSubstring, "min_iq -1")
				So(err.Error(), ShouldContainSubstring, "min_projects -2")
				So(err.Error(), ShouldContainSubstring, `"NaN": min_prob NaN`)
			})
		})
	})
}

func TestLint(t *testing.T) {
	Convey("Given table lint", t, func() {
		Convey("When the table is ordered tight to loose with a catch-all", func() {
			So(banding.NewTable(exampleBands(), "").Lint(), ShouldBeEmpty)
		})

		Convey("When the table is empty", func() {
			warnings := banding.NewTable(nil, "").Lint()
			So(warnings, ShouldHaveLength, 1)
			So(warnings[0], ShouldContainSubstring, "no bands configured")
		})

		Convey("When a catch-all precedes other bands", func() {
			warnings := banding.NewTable(append([]banding.Band{{Name: "Anyone"}}, exampleBands()...), "").Lint()

			Convey("Then the later bands are reported unreachable", func() {
				So(len(warnings), ShouldBeGreaterThanOrEqualTo, 3)
				So(warnings[0], ShouldContainSubstring, `band "High" at position 1 is unreachable`)
			})
		})

		Convey("When a name repeats", func() {
			warnings := banding.NewTable([]banding.Band{
				{Name: "Mid", MinProb: 0.5},
				{Name: "Mid", MinProb: 0.3},
				{Name: "Low"},
			}, "").Lint()
			So(warnings, ShouldContain, `band "Mid" declared at positions 0 and 1`)
		})

		Convey("When the last band has thresholds and shares the sentinel's name", func() {
			warnings := banding.NewTable([]banding.Band{
				{Name: "High", MinProb: 0.8},
				{Name: "Low", MinProb: 0.2},
			}, "").Lint()

			Convey("Then both the missing catch-all and the name clash are flagged", func() {
				So(warnings, ShouldContain, `last band "Low" is not a catch-all; unmatched candidates fall back to "Low"`)
				So(warnings, ShouldContain, `fallback "Low" is also a band with thresholds at position 1`)
			})
		})
	})
}

func TestExplain(t *testing.T) {
	Convey("Given a resolution against the example table", t, func() {
		table := banding.NewTable(exampleBands(), "")

		Convey("When a configured band matched", func() {
			e := table.Resolve(banding.Criteria{Probability: 0.612345, CGPA: 7.0, IQ: 95, Projects: 2}).Explain()

			Convey("Then the snapshot carries rounded inputs and the band's checks", func() {
				So(e.Probability, ShouldEqual, 0.6123)
				So(e.CGPA, ShouldEqual, 7.0)
				So(e.IQ, ShouldEqual, 95)
				So(e.Projects, ShouldEqual, 2)
				So(e.AppliedRule, ShouldEqual, "Medium")
				So(e.Checks, ShouldHaveLength, 4)
				for _, c := range e.Checks {
					So(c.Passed, ShouldBeTrue)
				}
			})
		})

		Convey("When the sentinel applied", func() {
			e := banding.NewTable(nil, "").Resolve(banding.Criteria{Probability: 0.3}).Explain()

			Convey("Then there are no checks to show", func() {
				So(e.AppliedRule, ShouldEqual, "Low")
				So(e.Checks, ShouldBeEmpty)
			})
		})
	})

	Convey("Given Round4", t, func() {
		So(banding.Round4(0.123456), ShouldEqual, 0.1235)
		So(banding.Round4(1), ShouldEqual, 1)
		So(banding.Round4(0), ShouldEqual, 0)
	})
}
