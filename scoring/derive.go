// Package scoring holds the pure derivation and aggregation rules that turn
// recorded deliveries into match statistics: legal-ball arithmetic, phase
// classification, innings totals, scorecards and over-by-over progression.
// Everything here operates on in-memory delivery slices; persistence and
// ordering guarantees live in the store package.
package scoring

import (
	"fmt"
	"math"

	"github.com/stumpvision/crickapi/models"
)

// IsLegalBall reports whether a delivery with the given extra type counts
// toward the 6-ball over. Wides and No Balls do not.
func IsLegalBall(extraType string) bool {
	switch extraType {
	case models.ExtraNone, models.ExtraBye, models.ExtraLegBye:
		return true
	}
	return false
}

// FacedByBatsman reports whether the delivery counts as a ball faced.
// No Balls count against the batsman; Wides, Byes and Leg Byes do not.
func FacedByBatsman(extraType string) bool {
	return extraType == models.ExtraNone || extraType == models.ExtraNoBall
}

// IsDot reports a dot ball: no runs of any kind and no extra classification.
// A zero-run Leg Bye is not a dot.
func IsDot(runsScored int, extraType string) bool {
	return runsScored == 0 && extraType == models.ExtraNone
}

// IsScoringShot reports whether the batsman scored off the bat.
func IsScoringShot(runsOffBat int) bool {
	return runsOffBat > 0
}

// PhaseFor classifies an over into Powerplay/Middle/Death for the given
// match format. Unknown formats fall back to Middle.
func PhaseFor(format string, overNumber int) string {
	switch format {
	case models.FormatT20:
		switch {
		case overNumber < 6:
			return models.PhasePowerplay
		case overNumber >= 16:
			return models.PhaseDeath
		}
		return models.PhaseMiddle
	case models.FormatODI, models.FormatOther:
		switch {
		case overNumber < 10:
			return models.PhasePowerplay
		case overNumber >= 40:
			return models.PhaseDeath
		}
		return models.PhaseMiddle
	}
	return models.PhaseMiddle
}

// OversString renders a legal-ball count in cricket overs notation: six legal
// balls roll over to the next whole over, so the fractional digit is always
// in 0..5. 6 balls is "1.0", never "0.6".
func OversString(legalBalls int) string {
	if legalBalls < 0 {
		legalBalls = 0
	}
	return fmt.Sprintf("%d.%d", legalBalls/6, legalBalls%6)
}

// Round2 rounds to two decimal places, matching scorecard display precision.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
