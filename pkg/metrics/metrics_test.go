package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then defaults are applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithRefreshInterval(3*time.Second),
				WithPrometheusRegistry(registry),
			)
			manager.RecordEvaluation(OutcomeOK)

			Convey("Then metric names carry the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_evaluator_evaluations_total"], ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)
			})
		})
	})
}

func TestEvaluationMetrics(t *testing.T) {
	Convey("Given an isolated manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording outcomes and bands", func() {
			m.RecordEvaluation(OutcomeOK)
			m.RecordEvaluation(OutcomeOK)
			m.RecordEvaluation(OutcomePredictionFailed)
			m.RecordBand("Medium", false)
			m.RecordBand("Low", true)

			Convey("Then counters reflect each label", func() {
				So(testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomeOK)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomePredictionFailed)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.bandAssignments.WithLabelValues("Medium")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.sentinelFallbacks), ShouldEqual, 1)
			})
		})

		Convey("When recording rule reloads", func() {
			m.RecordRulesReload(true, 3)
			m.RecordRulesReload(false, 0)

			Convey("Then the band gauge keeps the last good size", func() {
				So(testutil.ToFloat64(m.rulesBands), ShouldEqual, 3)
				So(testutil.ToFloat64(m.rulesReloads.WithLabelValues("success")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.rulesReloads.WithLabelValues("failure")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.rulesLastReloadUnix), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When recording a model load", func() {
			m.RecordModelLoad(true)

			Convey("Then the loaded gauge is set", func() {
				So(testutil.ToFloat64(m.modelLoaded), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("Then recording is a no-op", func() {
			m.RecordEvaluation(OutcomeOK)
			m.RecordScoringError()
			So(testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomeOK)), ShouldEqual, 0)
			So(testutil.ToFloat64(m.scoringErrors), ShouldEqual, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then helpers do not panic", func() {
			So(func() {
				RecordEvaluation(OutcomeInvalidProfile)
				RecordBand("High", false)
				ObserveProbability(0.42)
				RecordScoringLatency(1.5)
				RecordScoringError()
				ObserveBatchSize(8)
				RecordRulesReload(true, 2)
				RecordModelLoad(false)
				RecordHTTPRequest("evaluate", "POST", "200")
				RecordHTTPRequestDuration("evaluate", "POST", "200", 3)
				RecordErrorByComponent("scorer", "prediction_failed")
				RecordErrorByType("prediction_failed", "high")
				RecordErrorByEndpoint("evaluate", "POST", "server_error")
				RecordErrorLatency("http", "server_error", 2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
			So(Get(), ShouldNotBeNil)
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the process-wide manager", t, func() {
		previous := Get()
		Reset(func() { Configure() })

		Convey("When it is reconfigured with a namespace and recording disabled", func() {
			m := Configure(WithNamespace("custom"), WithMetricsEnabled(false), WithRefreshInterval(2*time.Second))
			RecordEvaluation(OutcomeOK)
			m.evaluations.WithLabelValues(OutcomeOK)

			Convey("Then a fresh registry exposes the renamed, untouched metrics", func() {
				So(m, ShouldNotEqual, previous)
				So(Get(), ShouldEqual, m)
				So(m.Enabled(), ShouldBeFalse)
				So(m.RefreshInterval(), ShouldEqual, 2*time.Second)
				So(testutil.ToFloat64(m.evaluations.WithLabelValues(OutcomeOK)), ShouldEqual, 0)

				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["custom_evaluator_evaluations_total"], ShouldBeTrue)
				So(names["salaryband_evaluator_evaluations_total"], ShouldBeFalse)
			})
		})
	})
}
