package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/stumpvision/crickapi/config"
	"github.com/stumpvision/crickapi/models"
)

// Setup opens the configured database. Postgres is the deployment target;
// sqlite covers single-machine use with the same schema.
func Setup(cfg *config.Config) *bun.DB {
	var db *bun.DB
	switch cfg.Driver {
	case "sqlite":
		sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+cfg.SQLitePath+"?cache=shared&_fk=1")
		if err != nil {
			log.Fatal("failed to open sqlite database:", err)
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Team)(nil),
		(*models.Player)(nil),
		(*models.Match)(nil),
		(*models.Innings)(nil),
		(*models.Delivery)(nil),
		(*models.Playlist)(nil),
		(*models.VideoClip)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS innings_no_dupes ON innings (match_id, innings_number)`,
		`CREATE INDEX IF NOT EXISTS deliveries_by_innings ON deliveries (innings_id, over_number, ball_number)`,
		`CREATE INDEX IF NOT EXISTS deliveries_by_match ON deliveries (match_id)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("index: %v", err)
		}
	}

	return nil
}
