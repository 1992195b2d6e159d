package scoring

import "github.com/stumpvision/crickapi/models"

// InningsTotals is the denormalized summary written back onto an innings row.
type InningsTotals struct {
	Runs        int
	Wickets     int
	Overs       string
	LegalBalls  int
	ExtrasTotal int
	Wides       int
	NoBalls     int
	Byes        int
	LegByes     int
}

// ComputeTotals folds an innings' deliveries into its summary. The fold is
// total and idempotent: it always produces the full summary from scratch, so
// a caller can overwrite stored totals unconditionally after any mutation.
func ComputeTotals(deliveries []models.Delivery) InningsTotals {
	var t InningsTotals
	t.Overs = OversString(0)

	for _, d := range deliveries {
		t.Runs += d.RunsScored
		if d.IsWicket {
			t.Wickets++
		}
		t.ExtrasTotal += d.Extras
		switch d.ExtraType {
		case models.ExtraWide:
			t.Wides += d.Extras
		case models.ExtraNoBall:
			t.NoBalls += d.Extras
		case models.ExtraBye:
			t.Byes += d.Extras
		case models.ExtraLegBye:
			t.LegByes += d.Extras
		}
		if IsLegalBall(d.ExtraType) {
			t.LegalBalls++
		}
	}

	t.Overs = OversString(t.LegalBalls)
	return t
}
