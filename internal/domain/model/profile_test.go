package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/salaryband/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func validProfile() model.Profile {
	return model.Profile{
		CollegeID:           "C001",
		IQ:                  110,
		PrevSemResult:       70.0,
		CGPA:                7.2,
		AcademicPerformance: 75,
		Internship:          model.InternshipYes,
		ExtraCurricular:     60,
		Communication:       70,
		ProjectsCompleted:   2,
	}
}

func TestProfileValidate(t *testing.T) {
	convey.Convey("Given a profile", t, func() {
		convey.Convey("When every field is inside its bounds", func() {
			p := validProfile()

			convey.Convey("Then validation passes", func() {
				convey.So(p.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When fields sit exactly on the bounds", func() {
			p := validProfile()
			p.IQ = model.MaxIQ
			p.CGPA = model.MaxCGPA
			p.PrevSemResult = 0
			p.ProjectsCompleted = model.MaxProjects
			p.Internship = model.InternshipNo

			convey.Convey("Then validation passes", func() {
				convey.So(p.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When several fields are out of range", func() {
			p := validProfile()
			p.IQ = 30
			p.CGPA = 10.5
			p.ProjectsCompleted = -1
			p.Internship = "Maybe"

			err := p.Validate()

			convey.Convey("Then every violation is reported under ErrInvalidProfile", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, model.ErrInvalidProfile), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "iq 30")
				convey.So(err.Error(), convey.ShouldContainSubstring, "cgpa 10.50")
				convey.So(err.Error(), convey.ShouldContainSubstring, "projects_completed -1")
				convey.So(err.Error(), convey.ShouldContainSubstring, `"Maybe"`)
			})
		})

		convey.Convey("When the decimal fields are not finite", func() {
			p := validProfile()
			p.CGPA = math.NaN()
			p.PrevSemResult = math.Inf(1)

			err := p.Validate()

			convey.Convey("Then both are rejected as invalid input", func() {
				convey.So(errors.Is(err, model.ErrInvalidProfile), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "cgpa NaN")
				convey.So(err.Error(), convey.ShouldContainSubstring, "prev_sem_result +Inf")
			})
		})

		convey.Convey("When the identifier is blank", func() {
			p := validProfile()
			p.CollegeID = "  "

			convey.Convey("Then validation fails", func() {
				err := p.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "college_id")
			})
		})
	})
}

func TestProfileRow(t *testing.T) {
	convey.Convey("Given a profile rendered as a row", t, func() {
		row := validProfile().Row()

		convey.Convey("Then it has exactly the schema columns", func() {
			convey.So(len(row), convey.ShouldEqual, len(model.Columns))
			for _, col := range model.Columns {
				_, ok := row[col]
				convey.So(ok, convey.ShouldBeTrue)
			}
		})

		convey.Convey("Then values keep their types", func() {
			convey.So(row[model.ColIQ], convey.ShouldEqual, 110)
			convey.So(row[model.ColCGPA], convey.ShouldEqual, 7.2)
			convey.So(row[model.ColInternship], convey.ShouldEqual, "Yes")
		})
	})
}

func TestNormalizeInternship(t *testing.T) {
	convey.Convey("Given loose internship spellings", t, func() {
		convey.So(model.NormalizeInternship("yes"), convey.ShouldEqual, model.InternshipYes)
		convey.So(model.NormalizeInternship(" Y "), convey.ShouldEqual, model.InternshipYes)
		convey.So(model.NormalizeInternship("false"), convey.ShouldEqual, model.InternshipNo)
		convey.So(model.NormalizeInternship("sometimes"), convey.ShouldEqual, "sometimes")
	})
}
