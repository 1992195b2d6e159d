package scoring

import (
	"fmt"
	"sort"

	"github.com/stumpvision/crickapi/models"
)

// Names maps player ids to display names for scorecard rows.
type Names map[int]string

func (n Names) lookup(id int) string {
	if name, ok := n[id]; ok {
		return name
	}
	return fmt.Sprintf("Player %d", id)
}

// Dismissal describes how a batsman got out.
type Dismissal struct {
	WicketType  *string `json:"wicketType"`
	BowlerName  string  `json:"bowlerName"`
	FielderName *string `json:"fielderName,omitempty"`
}

// BattingLine is one row of the batting scorecard. StrikeRate is nil when
// the batsman has faced no balls.
type BattingLine struct {
	PlayerID   int        `json:"id"`
	Name       string     `json:"name"`
	BallsFaced int        `json:"ballsFaced"`
	Runs       int        `json:"runs"`
	Fours      int        `json:"fours"`
	Sixes      int        `json:"sixes"`
	Dots       int        `json:"dots"`
	StrikeRate *float64   `json:"strikeRate"`
	Dismissal  *Dismissal `json:"dismissal"`
}

// BowlingLine is one row of the bowling scorecard. Economy is 0 when the
// bowler has bowled no legal balls.
type BowlingLine struct {
	PlayerID           int     `json:"id"`
	Name               string  `json:"name"`
	Balls              int     `json:"balls"`
	Overs              string  `json:"overs"`
	RunsConceded       int     `json:"runsConceded"`
	Wickets            int     `json:"wickets"`
	Wides              int     `json:"wides"`
	NoBalls            int     `json:"noBalls"`
	Dots               int     `json:"dots"`
	BoundariesConceded int     `json:"boundariesConceded"`
	Economy            float64 `json:"economy"`
}

// FallOfWicket is one entry of the fall-of-wickets log: the cumulative team
// score and wicket count at and including the dismissal delivery.
type FallOfWicket struct {
	OverNumber   int    `json:"overNumber"`
	BallNumber   int    `json:"ballNumber"`
	RunsScored   int    `json:"runsScored"`
	BatsmanName  string `json:"batsmanName"`
	TeamScore    int    `json:"teamScore"`
	WicketNumber int    `json:"wicketNumber"`
}

// Scorecard bundles the three independently computed innings views.
type Scorecard struct {
	Batting       []BattingLine  `json:"batting"`
	Bowling       []BowlingLine  `json:"bowling"`
	FallOfWickets []FallOfWicket `json:"fallOfWickets"`
}

// BattingLines groups an innings' deliveries by batsman, ordered by first
// appearance. The second return value lists data-integrity warnings (more
// than one dismissal row for a single batsman); callers log them, the card
// is still built from the first dismissal by id.
func BattingLines(deliveries []models.Delivery, names Names) ([]BattingLine, []string) {
	byID := sortedByID(deliveries)

	type acc struct {
		line    BattingLine
		firstID int
	}
	var order []int
	accs := map[int]*acc{}

	for _, d := range byID {
		a, ok := accs[d.BatsmanID]
		if !ok {
			a = &acc{
				line:    BattingLine{PlayerID: d.BatsmanID, Name: names.lookup(d.BatsmanID)},
				firstID: d.ID,
			}
			accs[d.BatsmanID] = a
			order = append(order, d.BatsmanID)
		}
		if FacedByBatsman(d.ExtraType) {
			a.line.BallsFaced++
		}
		a.line.Runs += d.RunsOffBat
		if d.IsBoundary {
			a.line.Fours++
		}
		if d.IsSix {
			a.line.Sixes++
		}
		if d.IsDot {
			a.line.Dots++
		}
	}

	var warnings []string
	dismissals := map[int]*Dismissal{}
	seen := map[int]int{}
	for _, d := range byID {
		if !d.IsWicket || d.DismissedBatsmanID == nil {
			continue
		}
		batID := *d.DismissedBatsmanID
		seen[batID]++
		if seen[batID] > 1 {
			warnings = append(warnings,
				fmt.Sprintf("batsman %d has %d dismissal rows, keeping first by id", batID, seen[batID]))
			continue
		}
		dis := &Dismissal{WicketType: d.WicketType, BowlerName: names.lookup(d.BowlerID)}
		if d.FielderID != nil {
			name := names.lookup(*d.FielderID)
			dis.FielderName = &name
		}
		dismissals[batID] = dis
	}

	lines := make([]BattingLine, 0, len(order))
	for _, id := range order {
		a := accs[id]
		if a.line.BallsFaced > 0 {
			sr := Round2(float64(a.line.Runs) * 100 / float64(a.line.BallsFaced))
			a.line.StrikeRate = &sr
		}
		a.line.Dismissal = dismissals[id]
		lines = append(lines, a.line)
	}
	return lines, warnings
}

// BowlingLines groups an innings' deliveries by bowler, ordered by first
// over bowled. Run-outs are not credited to the bowler.
func BowlingLines(deliveries []models.Delivery, names Names) []BowlingLine {
	type acc struct {
		line      BowlingLine
		firstOver int
		firstID   int
	}
	var order []int
	accs := map[int]*acc{}

	for _, d := range sortedByID(deliveries) {
		a, ok := accs[d.BowlerID]
		if !ok {
			a = &acc{
				line:      BowlingLine{PlayerID: d.BowlerID, Name: names.lookup(d.BowlerID)},
				firstOver: d.OverNumber,
				firstID:   d.ID,
			}
			accs[d.BowlerID] = a
			order = append(order, d.BowlerID)
		}
		if d.OverNumber < a.firstOver {
			a.firstOver = d.OverNumber
		}
		if IsLegalBall(d.ExtraType) {
			a.line.Balls++
		}
		a.line.RunsConceded += d.RunsScored
		// Credit needs a recorded type: run-outs are the fielding side's,
		// and an untyped wicket row names no mode of dismissal to credit.
		if d.IsWicket && d.WicketType != nil && *d.WicketType != models.WicketRunOut {
			a.line.Wickets++
		}
		switch d.ExtraType {
		case models.ExtraWide:
			a.line.Wides++
		case models.ExtraNoBall:
			a.line.NoBalls++
		}
		if d.IsDot {
			a.line.Dots++
		}
		if d.IsBoundary || d.IsSix {
			a.line.BoundariesConceded++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		ai, aj := accs[order[i]], accs[order[j]]
		if ai.firstOver != aj.firstOver {
			return ai.firstOver < aj.firstOver
		}
		return ai.firstID < aj.firstID
	})

	lines := make([]BowlingLine, 0, len(order))
	for _, id := range order {
		a := accs[id]
		a.line.Overs = OversString(a.line.Balls)
		if a.line.Balls > 0 {
			a.line.Economy = Round2(float64(a.line.RunsConceded) * 6 / float64(a.line.Balls))
		}
		lines = append(lines, a.line)
	}
	return lines
}

// FallOfWickets walks the innings in insertion order once, carrying running
// score and wicket totals, and emits an entry per dismissal.
func FallOfWickets(deliveries []models.Delivery, names Names) []FallOfWicket {
	fow := []FallOfWicket{}
	score, wickets := 0, 0

	for _, d := range sortedByID(deliveries) {
		score += d.RunsScored
		if !d.IsWicket {
			continue
		}
		wickets++
		if d.DismissedBatsmanID == nil {
			continue
		}
		fow = append(fow, FallOfWicket{
			OverNumber:   d.OverNumber,
			BallNumber:   d.BallNumber,
			RunsScored:   d.RunsScored,
			BatsmanName:  names.lookup(*d.DismissedBatsmanID),
			TeamScore:    score,
			WicketNumber: wickets,
		})
	}
	return fow
}

// sortedByID returns a copy ordered by insertion id. Callers usually hand in
// rows already ordered by (over, ball, id); prefix computations need strict
// id order.
func sortedByID(deliveries []models.Delivery) []models.Delivery {
	out := make([]models.Delivery, len(deliveries))
	copy(out, deliveries)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
