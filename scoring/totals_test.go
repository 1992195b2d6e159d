package scoring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/stumpvision/crickapi/models"
)

// ball builds a delivery with sensible defaults for aggregation tests.
// Mutate the result for the scenario at hand.
func ball(id, over, ballNo, runsOffBat int) models.Delivery {
	return models.Delivery{
		ID:            id,
		InningsID:     1,
		MatchID:       1,
		OverNumber:    over,
		BallNumber:    ballNo,
		BatsmanID:     10,
		BowlerID:      20,
		RunsScored:    runsOffBat,
		RunsOffBat:    runsOffBat,
		ExtraType:     models.ExtraNone,
		IsDot:         runsOffBat == 0,
		IsScoringShot: runsOffBat > 0,
		IsBoundary:    runsOffBat == 4,
		IsSix:         runsOffBat == 6,
	}
}

func wide(id, over, ballNo, extras int) models.Delivery {
	d := ball(id, over, ballNo, 0)
	d.ExtraType = models.ExtraWide
	d.Extras = extras
	d.RunsScored = extras
	d.IsDot = false
	return d
}

func wicket(d models.Delivery, wicketType string, dismissedID int) models.Delivery {
	d.IsWicket = true
	d.WicketType = &wicketType
	d.DismissedBatsmanID = &dismissedID
	return d
}

func TestComputeTotals(t *testing.T) {
	Convey("Given an over of six singles", t, func() {
		var ds []models.Delivery
		for i := 1; i <= 6; i++ {
			ds = append(ds, ball(i, 0, i, 1))
		}
		tot := ComputeTotals(ds)

		Convey("the innings reads 6 for 0 off 1.0", func() {
			So(tot.Runs, ShouldEqual, 6)
			So(tot.Wickets, ShouldEqual, 0)
			So(tot.LegalBalls, ShouldEqual, 6)
			So(tot.Overs, ShouldEqual, "1.0")
			So(tot.ExtrasTotal, ShouldEqual, 0)
		})
	})

	Convey("Given a wide among legal balls", t, func() {
		ds := []models.Delivery{
			ball(1, 0, 1, 0),
			wide(2, 0, 2, 1),
			ball(3, 0, 2, 4),
		}
		tot := ComputeTotals(ds)

		Convey("the wide adds runs and extras but no legal ball", func() {
			So(tot.Runs, ShouldEqual, 5)
			So(tot.LegalBalls, ShouldEqual, 2)
			So(tot.Overs, ShouldEqual, "0.2")
			So(tot.ExtrasTotal, ShouldEqual, 1)
			So(tot.Wides, ShouldEqual, 1)
			So(tot.NoBalls, ShouldEqual, 0)
		})
	})

	Convey("Extras are attributed to their own type", t, func() {
		bye := ball(1, 0, 1, 0)
		bye.ExtraType = models.ExtraBye
		bye.Extras = 2
		bye.RunsScored = 2
		bye.IsDot = false

		legBye := ball(2, 0, 2, 0)
		legBye.ExtraType = models.ExtraLegBye
		legBye.Extras = 1
		legBye.RunsScored = 1
		legBye.IsDot = false

		noBall := ball(3, 0, 3, 0)
		noBall.ExtraType = models.ExtraNoBall
		noBall.Extras = 1
		noBall.RunsScored = 1
		noBall.IsDot = false

		tot := ComputeTotals([]models.Delivery{bye, legBye, noBall})
		So(tot.Byes, ShouldEqual, 2)
		So(tot.LegByes, ShouldEqual, 1)
		So(tot.NoBalls, ShouldEqual, 1)
		So(tot.ExtrasTotal, ShouldEqual, 4)
		So(tot.Runs, ShouldEqual, 4)
		So(tot.LegalBalls, ShouldEqual, 2)
	})

	Convey("The fold is idempotent over the same rows", t, func() {
		ds := []models.Delivery{
			ball(1, 0, 1, 4),
			wicket(ball(2, 0, 2, 0), "Bowled", 10),
			wide(3, 0, 3, 1),
		}
		first := ComputeTotals(ds)
		second := ComputeTotals(ds)
		So(second, ShouldResemble, first)
		So(first.Runs, ShouldEqual, 5)
		So(first.Wickets, ShouldEqual, 1)
	})

	Convey("An empty innings is 0 for 0 off 0.0", t, func() {
		tot := ComputeTotals(nil)
		So(tot.Runs, ShouldEqual, 0)
		So(tot.Wickets, ShouldEqual, 0)
		So(tot.Overs, ShouldEqual, "0.0")
	})
}

func TestOverByOver(t *testing.T) {
	Convey("Given deliveries across three overs", t, func() {
		ds := []models.Delivery{
			ball(1, 0, 1, 4),
			ball(2, 0, 2, 0),
			wicket(ball(3, 1, 1, 0), "Bowled", 10),
			ball(4, 1, 2, 6),
			ball(5, 2, 1, 1),
		}
		overs := OverByOver(ds)

		Convey("one summary per over in order", func() {
			So(len(overs), ShouldEqual, 3)
			So(overs[0].OverNumber, ShouldEqual, 0)
			So(overs[1].OverNumber, ShouldEqual, 1)
			So(overs[2].OverNumber, ShouldEqual, 2)
		})

		Convey("runs and wickets accumulate", func() {
			So(overs[0].RunsInOver, ShouldEqual, 4)
			So(overs[0].CumulativeRuns, ShouldEqual, 4)
			So(overs[1].RunsInOver, ShouldEqual, 6)
			So(overs[1].CumulativeRuns, ShouldEqual, 10)
			So(overs[1].CumulativeWickets, ShouldEqual, 1)
			So(overs[2].CumulativeRuns, ShouldEqual, 11)
		})

		Convey("the run rate divides by overs reached", func() {
			So(overs[0].RunRate, ShouldEqual, 4)
			So(overs[1].RunRate, ShouldEqual, 5)
			So(overs[2].RunRate, ShouldEqual, 3.67)
		})

		Convey("boundary and dot counters land in the right over", func() {
			So(overs[0].FoursInOver, ShouldEqual, 1)
			So(overs[0].DotsInOver, ShouldEqual, 1)
			So(overs[1].SixesInOver, ShouldEqual, 1)
		})
	})

	Convey("No deliveries produce no summaries", t, func() {
		So(OverByOver(nil), ShouldBeEmpty)
	})
}
