package scoring

import (
	"sort"

	"github.com/stumpvision/crickapi/models"
)

// OverSummary is one over of the run progression view. RunRate is the naive
// cumulative rate cumulative_runs / (over_number + 1); the denominator counts
// overs reached, not legal balls bowled, and is kept for parity with the
// scoreboard display.
type OverSummary struct {
	OverNumber        int     `json:"overNumber"`
	RunsInOver        int     `json:"runsInOver"`
	WicketsInOver     int     `json:"wicketsInOver"`
	DotsInOver        int     `json:"dotsInOver"`
	FoursInOver       int     `json:"foursInOver"`
	SixesInOver       int     `json:"sixesInOver"`
	LegalBalls        int     `json:"legalBalls"`
	CumulativeRuns    int     `json:"cumulativeRuns"`
	CumulativeWickets int     `json:"cumulativeWickets"`
	RunRate           float64 `json:"runRate"`
}

// OverByOver groups deliveries per over and accumulates runs and wickets in
// over-number order.
func OverByOver(deliveries []models.Delivery) []OverSummary {
	byOver := map[int]*OverSummary{}
	var overs []int

	for _, d := range deliveries {
		o, ok := byOver[d.OverNumber]
		if !ok {
			o = &OverSummary{OverNumber: d.OverNumber}
			byOver[d.OverNumber] = o
			overs = append(overs, d.OverNumber)
		}
		o.RunsInOver += d.RunsScored
		if d.IsWicket {
			o.WicketsInOver++
		}
		if d.IsDot {
			o.DotsInOver++
		}
		if d.IsBoundary {
			o.FoursInOver++
		}
		if d.IsSix {
			o.SixesInOver++
		}
		if IsLegalBall(d.ExtraType) {
			o.LegalBalls++
		}
	}

	sort.Ints(overs)

	out := make([]OverSummary, 0, len(overs))
	runs, wickets := 0, 0
	for _, n := range overs {
		o := byOver[n]
		runs += o.RunsInOver
		wickets += o.WicketsInOver
		o.CumulativeRuns = runs
		o.CumulativeWickets = wickets
		o.RunRate = Round2(float64(runs) / float64(n+1))
		out = append(out, *o)
	}
	return out
}
