package scoring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stumpvision/crickapi/models"
)

func TestLegalBall(t *testing.T) {
	Convey("Given the extra type of a delivery", t, func() {
		Convey("None, Bye and Leg Bye count toward the over", func() {
			So(IsLegalBall(models.ExtraNone), ShouldBeTrue)
			So(IsLegalBall(models.ExtraBye), ShouldBeTrue)
			So(IsLegalBall(models.ExtraLegBye), ShouldBeTrue)
		})

		Convey("Wide and No Ball have to be re-bowled", func() {
			So(IsLegalBall(models.ExtraWide), ShouldBeFalse)
			So(IsLegalBall(models.ExtraNoBall), ShouldBeFalse)
		})
	})
}

func TestFacedByBatsman(t *testing.T) {
	Convey("Balls faced counts No Balls but not Wides, Byes or Leg Byes", t, func() {
		So(FacedByBatsman(models.ExtraNone), ShouldBeTrue)
		So(FacedByBatsman(models.ExtraNoBall), ShouldBeTrue)
		So(FacedByBatsman(models.ExtraWide), ShouldBeFalse)
		So(FacedByBatsman(models.ExtraBye), ShouldBeFalse)
		So(FacedByBatsman(models.ExtraLegBye), ShouldBeFalse)
	})
}

func TestDotBall(t *testing.T) {
	Convey("A dot ball needs zero runs and no extra classification", t, func() {
		So(IsDot(0, models.ExtraNone), ShouldBeTrue)

		Convey("any runs break the dot", func() {
			So(IsDot(1, models.ExtraNone), ShouldBeFalse)
			So(IsDot(4, models.ExtraNone), ShouldBeFalse)
		})

		Convey("a zero-run Leg Bye is not a dot", func() {
			So(IsDot(0, models.ExtraLegBye), ShouldBeFalse)
		})

		Convey("neither is a Wide, even for zero total runs", func() {
			So(IsDot(0, models.ExtraWide), ShouldBeFalse)
		})
	})
}

func TestScoringShot(t *testing.T) {
	Convey("A scoring shot means runs off the bat", t, func() {
		So(IsScoringShot(0), ShouldBeFalse)
		So(IsScoringShot(1), ShouldBeTrue)
		So(IsScoringShot(6), ShouldBeTrue)
	})
}

func TestPhaseFor(t *testing.T) {
	Convey("Given a match format and a 0-based over number", t, func() {
		cases := []struct {
			format string
			over   int
			want   string
		}{
			{models.FormatT20, 0, models.PhasePowerplay},
			{models.FormatT20, 5, models.PhasePowerplay},
			{models.FormatT20, 6, models.PhaseMiddle},
			{models.FormatT20, 15, models.PhaseMiddle},
			{models.FormatT20, 16, models.PhaseDeath},
			{models.FormatT20, 19, models.PhaseDeath},
			{models.FormatODI, 9, models.PhasePowerplay},
			{models.FormatODI, 10, models.PhaseMiddle},
			{models.FormatODI, 39, models.PhaseMiddle},
			{models.FormatODI, 40, models.PhaseDeath},
			{models.FormatOther, 9, models.PhasePowerplay},
			{models.FormatOther, 40, models.PhaseDeath},
		}
		for _, c := range cases {
			So(PhaseFor(c.format, c.over), ShouldEqual, c.want)
		}

		Convey("an unknown format falls back to Middle", func() {
			So(PhaseFor("Test", 0), ShouldEqual, models.PhaseMiddle)
			So(PhaseFor("", 19), ShouldEqual, models.PhaseMiddle)
		})
	})
}

func TestOversString(t *testing.T) {
	Convey("Overs notation rolls six legal balls into a whole over", t, func() {
		So(OversString(0), ShouldEqual, "0.0")
		So(OversString(1), ShouldEqual, "0.1")
		So(OversString(5), ShouldEqual, "0.5")
		So(OversString(6), ShouldEqual, "1.0")
		So(OversString(7), ShouldEqual, "1.1")
		So(OversString(17), ShouldEqual, "2.5")
		So(OversString(120), ShouldEqual, "20.0")

		Convey("negative counts clamp to zero", func() {
			So(OversString(-3), ShouldEqual, "0.0")
		})
	})
}

func TestRound2(t *testing.T) {
	Convey("Rates round to two decimals", t, func() {
		So(Round2(100.0/3), ShouldEqual, 33.33)
		So(Round2(8.125), ShouldEqual, 8.13)
		So(Round2(150), ShouldEqual, 150)
	})
}
