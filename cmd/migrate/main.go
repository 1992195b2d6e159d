// cmd/migrate/main.go
// Copies a local SQLite scoring database into the PostgreSQL database, table
// by table. Used when a laptop-scored match archive moves to the shared
// server.
//
// Usage:
//
//	SQLITE_PATH=archive.db DB_PASS=pgpass go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/stumpvision/crickapi/config"
	bundb "github.com/stumpvision/crickapi/db"
	"github.com/stumpvision/crickapi/models"
)

func main() {
	cfg := config.Load()
	if cfg.SQLitePath == "" {
		log.Fatal("SQLITE_PATH must point at the source database")
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+cfg.SQLitePath+"?mode=ro")
	if err != nil {
		log.Fatal("open source:", err)
	}
	src := bun.NewDB(sqldb, sqlitedialect.New())
	defer src.Close()

	// Force the postgres side regardless of the ambient driver setting.
	cfg.Driver = "postgres"
	dst := bundb.Setup(cfg)
	defer dst.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, dst); err != nil {
		log.Fatal("create tables:", err)
	}

	if err := migrate(ctx, src, dst); err != nil {
		log.Fatal(err)
	}
	fmt.Println("migration complete")
}

// migrate copies tables in dependency order, keeping source ids so the
// foreign keys line up. Rows already present in the target are skipped.
func migrate(ctx context.Context, src, dst *bun.DB) error {
	steps := []struct {
		name string
		copy func() (int, error)
	}{
		{"teams", func() (int, error) { return copyTable(ctx, src, dst, &[]models.Team{}) }},
		{"players", func() (int, error) { return copyTable(ctx, src, dst, &[]models.Player{}) }},
		{"matches", func() (int, error) { return copyTable(ctx, src, dst, &[]models.Match{}) }},
		{"innings", func() (int, error) { return copyTable(ctx, src, dst, &[]models.Innings{}) }},
		{"deliveries", func() (int, error) { return copyTable(ctx, src, dst, &[]models.Delivery{}) }},
		{"playlists", func() (int, error) { return copyTable(ctx, src, dst, &[]models.Playlist{}) }},
		{"video_clips", func() (int, error) { return copyTable(ctx, src, dst, &[]models.VideoClip{}) }},
	}

	for _, step := range steps {
		n, err := step.copy()
		if err != nil {
			return fmt.Errorf("migrate %s: %w", step.name, err)
		}
		fmt.Printf("%-12s %d rows\n", step.name, n)
	}
	return nil
}

func copyTable[T any](ctx context.Context, src, dst *bun.DB, rows *[]T) (int, error) {
	if err := src.NewSelect().Model(rows).Scan(ctx); err != nil {
		return 0, err
	}
	if len(*rows) == 0 {
		return 0, nil
	}
	res, err := dst.NewInsert().Model(rows).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
