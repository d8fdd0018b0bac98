package config_test

import (
	"testing"
	"time"

	"github.com/okian/fantaprice/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.OutputDir, convey.ShouldEqual, "data/output")
			convey.So(cfg.Sources.FetchWorkers, convey.ShouldEqual, 5)
			convey.So(cfg.Sources.Timeout, convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Pricing.Mode, convey.ShouldEqual, "bands")
			convey.So(cfg.Pricing.MinPrice, convey.ShouldEqual, 1)
			convey.So(cfg.Pricing.Ladders["forward"], convey.ShouldResemble, []int{180, 70, 20, 10, 4, 1})
			convey.So(cfg.Matching.HighThreshold, convey.ShouldEqual, 0.6)
			convey.So(cfg.Matching.LowThreshold, convey.ShouldEqual, 0.1)
			convey.So(cfg.Names.Aliases["taty"], convey.ShouldEqual, "castellanos")
			convey.So(string(cfg.Scoring.Fpedia.Source), convey.ShouldEqual, "FPEDIA")
			convey.So(string(cfg.Scoring.Fstats.Source), convey.ShouldEqual, "FSTATS")
		})

		convey.Convey("Then it should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
