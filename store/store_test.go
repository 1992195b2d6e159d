package store

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	bundb "github.com/stumpvision/crickapi/db"
	"github.com/stumpvision/crickapi/models"
)

// newTestStore opens an in-memory database with the full schema and seeds
// two teams, four players, one T20 match and its first innings.
func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	teams := []models.Team{{Name: "Northside CC"}, {Name: "Harbour CC"}}
	if _, err := db.NewInsert().Model(&teams).Exec(ctx); err != nil {
		t.Fatalf("seed teams: %v", err)
	}

	players := []models.Player{
		{FirstName: "Asha", LastName: "Rao", TeamID: &teams[0].ID},
		{FirstName: "Ben", LastName: "Stoker", TeamID: &teams[0].ID},
		{FirstName: "Carl", LastName: "Nash", TeamID: &teams[1].ID},
		{FirstName: "Eli", LastName: "Ford", TeamID: &teams[1].ID},
	}
	if _, err := db.NewInsert().Model(&players).Exec(ctx); err != nil {
		t.Fatalf("seed players: %v", err)
	}

	match := &models.Match{MatchFormat: models.FormatT20, TeamHomeID: &teams[0].ID, TeamAwayID: &teams[1].ID}
	if _, err := db.NewInsert().Model(match).Exec(ctx); err != nil {
		t.Fatalf("seed match: %v", err)
	}

	innings := &models.Innings{
		MatchID:       match.ID,
		InningsNumber: 1,
		BattingTeamID: teams[0].ID,
		BowlingTeamID: teams[1].ID,
		TotalOvers:    "0.0",
	}
	if _, err := db.NewInsert().Model(innings).Exec(ctx); err != nil {
		t.Fatalf("seed innings: %v", err)
	}

	return New(db), ctx
}

// Seeded ids are deterministic under autoincrement from an empty database.
const (
	testMatchID   = 1
	testInningsID = 1
	batterAsha    = 1
	batterBen     = 2
	bowlerCarl    = 3
	fielderEli    = 4
)

func newBall(over, ballNo, runsOffBat int) *models.Delivery {
	return &models.Delivery{
		InningsID:  testInningsID,
		MatchID:    testMatchID,
		OverNumber: over,
		BallNumber: ballNo,
		BatsmanID:  batterAsha,
		BowlerID:   bowlerCarl,
		RunsScored: runsOffBat,
		RunsOffBat: runsOffBat,
		IsBoundary: runsOffBat == 4,
		IsSix:      runsOffBat == 6,
	}
}

func mustCreate(t *testing.T, s *Store, ctx context.Context, d *models.Delivery) *models.Delivery {
	t.Helper()
	if err := s.CreateDelivery(ctx, d); err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	return d
}

func fetchInnings(t *testing.T, s *Store, ctx context.Context) *models.Innings {
	t.Helper()
	innings := new(models.Innings)
	if err := s.db.NewSelect().Model(innings).Where("i.id = ?", testInningsID).Scan(ctx); err != nil {
		t.Fatalf("fetch innings: %v", err)
	}
	return innings
}

func TestCreateDeliveryDerivation(t *testing.T) {
	s, ctx := newTestStore(t)

	first := mustCreate(t, s, ctx, newBall(0, 1, 0))
	if first.LegalBallNumber == nil || *first.LegalBallNumber != 1 {
		t.Fatalf("first legal ball: got %v, want 1", first.LegalBallNumber)
	}
	if !first.IsDot {
		t.Error("scoreless delivery with no extras should be a dot")
	}
	if first.Phase != models.PhasePowerplay || !first.Powerplay {
		t.Errorf("over 0 of a T20 should be Powerplay, got %q", first.Phase)
	}

	w := newBall(0, 2, 0)
	w.ExtraType = models.ExtraWide
	w.Extras = 1
	w.RunsScored = 1
	mustCreate(t, s, ctx, w)
	if w.LegalBallNumber != nil {
		t.Errorf("wide should have no legal ball number, got %d", *w.LegalBallNumber)
	}
	if w.IsDot {
		t.Error("a wide is not a dot")
	}

	// The wide does not consume a slot: the next legal ball ranks second.
	second := mustCreate(t, s, ctx, newBall(0, 2, 4))
	if second.LegalBallNumber == nil || *second.LegalBallNumber != 2 {
		t.Fatalf("legal ball after wide: got %v, want 2", second.LegalBallNumber)
	}
	if !second.IsScoringShot || second.IsDot {
		t.Error("a four off the bat is a scoring shot, not a dot")
	}

	lb := newBall(0, 3, 0)
	lb.ExtraType = models.ExtraLegBye
	lb.Extras = 1
	lb.RunsScored = 1
	lb.RunsOffBat = 0
	mustCreate(t, s, ctx, lb)
	if lb.LegalBallNumber == nil || *lb.LegalBallNumber != 3 {
		t.Fatalf("leg bye should count toward the over: got %v, want 3", lb.LegalBallNumber)
	}

	death := mustCreate(t, s, ctx, newBall(16, 1, 1))
	if death.Phase != models.PhaseDeath || death.Powerplay {
		t.Errorf("over 16 of a T20 should be Death, got %q", death.Phase)
	}
}

func TestConcurrentCreatesKeepLegalBallRanks(t *testing.T) {
	s, ctx := newTestStore(t)

	// Legal-ball numbering is a count-then-insert sequence; without the
	// per-innings lock, simultaneous writers read the same count and two
	// deliveries end up with the same rank.
	const balls = 6
	var wg sync.WaitGroup
	errs := make(chan error, balls)
	for i := 1; i <= balls; i++ {
		wg.Add(1)
		go func(ballNo int) {
			defer wg.Done()
			errs <- s.CreateDelivery(ctx, newBall(0, ballNo, 1))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}

	ds, err := s.DeliveriesByInnings(ctx, testInningsID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != balls {
		t.Fatalf("got %d deliveries, want %d", len(ds), balls)
	}

	ranks := make([]int, 0, balls)
	for _, d := range ds {
		if d.LegalBallNumber == nil {
			t.Fatal("legal delivery missing its rank")
		}
		ranks = append(ranks, *d.LegalBallNumber)
	}
	sort.Ints(ranks)
	for i, r := range ranks {
		if r != i+1 {
			t.Fatalf("legal-ball ranks are not a permutation of 1..%d: %v", balls, ranks)
		}
	}

	if innings := fetchInnings(t, s, ctx); innings.TotalOvers != "1.0" || innings.TotalRuns != balls {
		t.Fatalf("totals after concurrent over: %d off %s", innings.TotalRuns, innings.TotalOvers)
	}
}

func TestCreateDeliveryValidation(t *testing.T) {
	s, ctx := newTestStore(t)

	cases := []struct {
		name   string
		mutate func(*models.Delivery)
	}{
		{"missing batsman", func(d *models.Delivery) { d.BatsmanID = 0 }},
		{"missing bowler", func(d *models.Delivery) { d.BowlerID = 0 }},
		{"negative over", func(d *models.Delivery) { d.OverNumber = -1 }},
		{"zero ball number", func(d *models.Delivery) { d.BallNumber = 0 }},
		{"negative runs", func(d *models.Delivery) { d.RunsScored = -1 }},
		{"unknown extra type", func(d *models.Delivery) { d.ExtraType = "Overthrow" }},
		{"mismatched match id", func(d *models.Delivery) { d.MatchID = 42 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newBall(0, 1, 0)
			tc.mutate(d)
			err := s.CreateDelivery(ctx, d)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}

	t.Run("missing innings", func(t *testing.T) {
		d := newBall(0, 1, 0)
		d.InningsID = 99
		d.MatchID = 99
		if err := s.CreateDelivery(ctx, d); !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("nothing persisted on rejection", func(t *testing.T) {
		ds, err := s.DeliveriesByInnings(ctx, testInningsID)
		if err != nil {
			t.Fatal(err)
		}
		if len(ds) != 0 {
			t.Fatalf("rejected creates left %d rows behind", len(ds))
		}
	})
}

func TestTotalsRecompute(t *testing.T) {
	s, ctx := newTestStore(t)

	// Six singles: 6 for 0 off 1.0.
	for i := 1; i <= 6; i++ {
		mustCreate(t, s, ctx, newBall(0, i, 1))
	}
	innings := fetchInnings(t, s, ctx)
	if innings.TotalRuns != 6 || innings.TotalWickets != 0 || innings.TotalOvers != "1.0" {
		t.Fatalf("after six singles: got %d/%d off %s, want 6/0 off 1.0",
			innings.TotalRuns, innings.TotalWickets, innings.TotalOvers)
	}

	// A 5-wide raises runs and extras but not the over count.
	w := newBall(1, 1, 0)
	w.ExtraType = models.ExtraWide
	w.Extras = 5
	w.RunsScored = 5
	w = mustCreate(t, s, ctx, w)

	innings = fetchInnings(t, s, ctx)
	if innings.TotalRuns != 11 || innings.TotalOvers != "1.0" {
		t.Fatalf("after wide: got %d off %s, want 11 off 1.0", innings.TotalRuns, innings.TotalOvers)
	}
	if innings.ExtrasTotal != 5 || innings.ExtrasWides != 5 {
		t.Fatalf("after wide: extras %d/%d, want 5/5", innings.ExtrasTotal, innings.ExtrasWides)
	}

	// Correcting the wide down to one run flows straight into the totals.
	one := 1
	if err := s.UpdateDelivery(ctx, w.ID, &DeliveryPatch{Extras: &one, RunsScored: &one}); err != nil {
		t.Fatalf("update: %v", err)
	}
	innings = fetchInnings(t, s, ctx)
	if innings.TotalRuns != 7 || innings.ExtrasWides != 1 {
		t.Fatalf("after correction: got %d runs, %d wides, want 7 and 1", innings.TotalRuns, innings.ExtrasWides)
	}

	// Deleting it removes its contribution entirely.
	if err := s.DeleteDelivery(ctx, w.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	innings = fetchInnings(t, s, ctx)
	if innings.TotalRuns != 6 || innings.ExtrasTotal != 0 || innings.TotalOvers != "1.0" {
		t.Fatalf("after delete: got %d runs, %d extras off %s, want 6, 0 off 1.0",
			innings.TotalRuns, innings.ExtrasTotal, innings.TotalOvers)
	}

	// Manual recompute is a no-op on consistent state.
	refreshed, err := s.RecomputeTotals(ctx, testInningsID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if refreshed.TotalRuns != 6 || refreshed.TotalOvers != "1.0" {
		t.Fatalf("recompute changed consistent totals: %d off %s", refreshed.TotalRuns, refreshed.TotalOvers)
	}
}

func TestUpdateDeliveryAllowList(t *testing.T) {
	s, ctx := newTestStore(t)
	d := mustCreate(t, s, ctx, newBall(2, 1, 0))

	notes := "edged past slip"
	shot := "Cut"
	if err := s.UpdateDelivery(ctx, d.ID, &DeliveryPatch{Notes: &notes, ShotType: &shot}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetDelivery(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Errorf("notes not applied: %v", got.Notes)
	}
	if got.ShotType == nil || *got.ShotType != shot {
		t.Errorf("shot type not applied: %v", got.ShotType)
	}
	if got.OverNumber != 2 || got.BallNumber != 1 || got.InningsID != testInningsID {
		t.Error("position and identity fields must not move on update")
	}
	if got.LegalBallNumber == nil || *got.LegalBallNumber != 1 {
		t.Error("derived legal ball number must survive an unrelated patch")
	}

	bad := "Overthrow"
	err = s.UpdateDelivery(ctx, d.ID, &DeliveryPatch{ExtraType: &bad})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("invalid extra type: got %v, want ErrValidation", err)
	}

	if err := s.UpdateDelivery(ctx, 99, &DeliveryPatch{Notes: &notes}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing id: got %v, want ErrNotFound", err)
	}
}

func TestLastDelivery(t *testing.T) {
	s, ctx := newTestStore(t)

	got, err := s.LastDelivery(ctx, testInningsID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("empty innings should have no last delivery, got id %d", got.ID)
	}

	mustCreate(t, s, ctx, newBall(0, 1, 1))
	second := mustCreate(t, s, ctx, newBall(0, 2, 4))

	got, err = s.LastDelivery(ctx, testInningsID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != second.ID {
		t.Fatalf("last delivery: got %v, want id %d", got, second.ID)
	}
}

func TestScorecardAfterDelete(t *testing.T) {
	s, ctx := newTestStore(t)

	mustCreate(t, s, ctx, newBall(0, 1, 4))
	wkt := newBall(0, 2, 0)
	wkt.IsWicket = true
	wicketType := "Caught"
	wkt.WicketType = &wicketType
	dismissed := batterAsha
	wkt.DismissedBatsmanID = &dismissed
	fielder := fielderEli
	wkt.FielderID = &fielder
	wkt = mustCreate(t, s, ctx, wkt)

	card, err := s.BuildScorecard(ctx, testInningsID)
	if err != nil {
		t.Fatalf("scorecard: %v", err)
	}
	if len(card.Batting) != 1 || card.Batting[0].Dismissal == nil {
		t.Fatal("dismissal missing from batting card")
	}
	if card.Batting[0].Name != "Asha Rao" {
		t.Errorf("batting name: got %q", card.Batting[0].Name)
	}
	if len(card.FallOfWickets) != 1 || card.FallOfWickets[0].TeamScore != 4 {
		t.Fatalf("fall of wickets: %+v", card.FallOfWickets)
	}
	if len(card.Bowling) != 1 || card.Bowling[0].Wickets != 1 {
		t.Fatalf("bowling card: %+v", card.Bowling)
	}
	if innings := fetchInnings(t, s, ctx); innings.TotalWickets != 1 {
		t.Fatalf("innings wickets: got %d, want 1", innings.TotalWickets)
	}

	// Deleting the only dismissal removes it from every view on next read.
	if err := s.DeleteDelivery(ctx, wkt.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	card, err = s.BuildScorecard(ctx, testInningsID)
	if err != nil {
		t.Fatalf("scorecard: %v", err)
	}
	if card.Batting[0].Dismissal != nil {
		t.Error("dismissal should vanish with its delivery")
	}
	if len(card.FallOfWickets) != 0 {
		t.Errorf("fall of wickets should be empty, got %+v", card.FallOfWickets)
	}
	if innings := fetchInnings(t, s, ctx); innings.TotalWickets != 0 {
		t.Fatalf("innings wickets after delete: got %d, want 0", innings.TotalWickets)
	}
}
