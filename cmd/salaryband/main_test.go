package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/salaryband/pkg/metrics"
)

const (
	sampleModel = "../../models/placement_pipeline.json"
	sampleRules = "../../band_rules.json"
)

// execute runs the root command with args and returns stdout.
func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--model", sampleModel, "--rules", sampleRules, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEvaluateCommand(t *testing.T) {
	convey.Convey("Given the sample model and rule table", t, func() {
		convey.Convey("When a strong profile is evaluated from flags", func() {
			out, err := execute("evaluate", "--id", "C100", "--iq", "130", "--prev-sem", "9.5", "--cgpa", "9.5",
				"--academic", "9", "--internship", "yes", "--extra", "8", "--communication", "10", "--projects", "5")

			convey.Convey("Then the High band is printed as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"salary_band":"High"`)
				convey.So(out, convey.ShouldContainSubstring, `"profile_id":"C100"`)
			})
		})

		convey.Convey("When the profile from flags is out of range", func() {
			_, err := execute("evaluate", "--id", "C101", "--iq", "10")
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "invalid profile")
		})

		convey.Convey("When a CSV is evaluated as a table", func() {
			path := filepath.Join(t.TempDir(), "profiles.csv")
			body := "College_ID,IQ,Prev_Sem_Result,CGPA,Academic_Performance,Internship_Experience,Extra_Curricular_Score,Communication_Skills,Projects_Completed,Placement\n" +
				"C100,130,9.5,9.5,9,Yes,8,10,5,Yes\n" +
				"C200,95,7.0,7.0,6,Yes,5,6,2,No\n"
			convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)

			out, err := execute("evaluate", "--csv", path, "--output", "table")

			convey.Convey("Then one row per profile is printed in input order", func() {
				convey.So(err, convey.ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(out), "\n")
				convey.So(lines, convey.ShouldHaveLength, 3)
				convey.So(lines[0], convey.ShouldStartWith, "INDEX")
				convey.So(lines[1], convey.ShouldContainSubstring, "C100")
				convey.So(lines[1], convey.ShouldContainSubstring, "High")
				convey.So(lines[2], convey.ShouldContainSubstring, "C200")
				convey.So(lines[2], convey.ShouldContainSubstring, "Low")
			})
		})

		convey.Convey("When the output format is unknown", func() {
			_, err := execute("evaluate", "--id", "C1", "--output", "xml")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the model is missing", func() {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"--model", filepath.Join(t.TempDir(), "none.json"), "--rules", sampleRules, "evaluate", "--id", "C1"})
			err := cmd.ExecuteContext(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load model")
		})
	})
}

func TestRulesAndModelCommands(t *testing.T) {
	convey.Convey("Given the sample files", t, func() {
		convey.Convey("When the rule table is checked", func() {
			out, err := execute("rules", "check")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "High")
			convey.So(out, convey.ShouldContainSubstring, "default band: Low")
			convey.So(out, convey.ShouldNotContainSubstring, "warning:")
		})

		convey.Convey("When a shadowed rule table is checked", func() {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			body := "bands:\n  - name: Any\n  - name: High\n    min_prob: 0.9\n"
			convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)

			out, err := execute("rules", "check", path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "warning:")
		})

		convey.Convey("When an invalid rule table is checked", func() {
			path := filepath.Join(t.TempDir(), "rules.json")
			convey.So(os.WriteFile(path, []byte(`{"bands": [{"name": "X", "min_prob": 3}]}`), 0o600), convey.ShouldBeNil)

			_, err := execute("rules", "check", path)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "min_prob")
		})

		convey.Convey("When the model is checked", func() {
			out, err := execute("model", "check")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "version: placement-logreg-2024.05")
			convey.So(out, convey.ShouldContainSubstring, "features: 9")
		})
	})
}

func TestServeMux(t *testing.T) {
	convey.Convey("Given components built from the sample files", t, func() {
		o := &rootOptions{modelPath: sampleModel, rulesPath: sampleRules, logLevel: "error"}
		root := newRootCmd()
		root.SetContext(context.Background())
		convey.So(o.init(root, nil), convey.ShouldBeNil)

		c, err := o.build(context.Background())
		convey.So(err, convey.ShouldBeNil)
		mux := newMux(context.Background(), c)

		convey.Convey("Then the business API, API docs and docs site are routed", func() {
			for _, path := range []string{"/healthz", "/bands", "/stats", "/openapi.yaml", "/api-docs", "/docs/"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then system metrics can be refreshed", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}

func TestMetricsConfig(t *testing.T) {
	convey.Convey("Given metrics settings in the environment", t, func() {
		t.Setenv("SALARYBAND_METRICS_NAMESPACE", "placement")
		t.Setenv("SALARYBAND_METRICS_REFRESH_MS", "2500")
		o := &rootOptions{modelPath: sampleModel, rulesPath: sampleRules, logLevel: "error"}
		root := newRootCmd()
		root.SetContext(context.Background())
		convey.So(o.init(root, nil), convey.ShouldBeNil)
		convey.Reset(func() { metrics.Configure() })

		c, err := o.build(context.Background())
		convey.So(err, convey.ShouldBeNil)
		mux := newMux(context.Background(), c)

		convey.Convey("Then the process-wide manager follows them", func() {
			convey.So(metrics.Get().RefreshInterval(), convey.ShouldEqual, 2500*time.Millisecond)
			convey.So(metrics.Get().Enabled(), convey.ShouldBeTrue)

			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "placement_evaluator_")
			convey.So(w.Body.String(), convey.ShouldNotContainSubstring, "salaryband_evaluator_")
		})
	})
}
