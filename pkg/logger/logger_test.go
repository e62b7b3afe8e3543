package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/salaryband/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	Convey("Given a logger backed by an observer core", t, func() {
		core, logs := observer.New(zapcore.DebugLevel)
		log := logger.New(zap.New(core))
		ctx := context.Background()

		Convey("When logging with fields", func() {
			log.Info(ctx, "evaluated", logger.String("band", "High"), logger.Float64("probability", 0.81))

			Convey("Then the entry carries message and fields", func() {
				So(logs.Len(), ShouldEqual, 1)
				entry := logs.All()[0]
				So(entry.Message, ShouldEqual, "evaluated")
				So(entry.ContextMap()["band"], ShouldEqual, "High")
				So(entry.ContextMap()["probability"], ShouldEqual, 0.81)
			})
		})

		Convey("When logging an error field", func() {
			log.Error(ctx, "prediction failed", logger.Error(errors.New("boom")))

			Convey("Then the error is encoded under the error key", func() {
				So(logs.Len(), ShouldEqual, 1)
				So(logs.All()[0].ContextMap()["error"], ShouldEqual, "boom")
				So(logs.All()[0].Level, ShouldEqual, zapcore.ErrorLevel)
			})
		})

		Convey("When a named child logs", func() {
			log.Named("rules").Warn(ctx, "reload failed")

			Convey("Then the logger name is recorded", func() {
				So(logs.All()[0].LoggerName, ShouldEqual, "rules")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the global level", t, func() {
		Convey("Then known levels are accepted", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.Level(), ShouldEqual, "debug")
			So(logger.SetLevelString("WARNING"), ShouldBeNil)
			So(logger.Level(), ShouldEqual, "warn")
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.Level(), ShouldEqual, "info")
		})

		Convey("Then unknown levels are rejected", func() {
			err := logger.SetLevelString("loud")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown log level")
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		log := logger.NewNop()

		Convey("Then logging does not panic", func() {
			So(func() {
				log.Debug(context.Background(), "ignored", logger.Int("n", 1))
				log.Named("x").Info(context.Background(), "ignored")
			}, ShouldNotPanic)
		})
	})
}
