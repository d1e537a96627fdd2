// Command dbctl applies schema migrations and reference data.
//
//	dbctl migrate up|down
//	dbctl seed up|down
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/mytheresa/catalog-admin/config"
	"github.com/mytheresa/catalog-admin/migrations"
	"github.com/mytheresa/catalog-admin/seed"
)

const usage = "usage: dbctl migrate|seed up|down"

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cf, err := config.Load(".env")
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}

	if err := execute(context.Background(), cf.DSN(), os.Args[1], os.Args[2]); err != nil {
		logger.Fatal().Err(err).Str("target", os.Args[1]).Str("direction", os.Args[2]).Msg("dbctl failed")
	}
	logger.Info().Str("target", os.Args[1]).Str("direction", os.Args[2]).Msg("done")
}

// execute owns the connection so it is closed before main decides to exit.
func execute(ctx context.Context, dsn, target, direction string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return run(ctx, db, target, direction)
}

func run(ctx context.Context, db *sql.DB, target, direction string) error {
	switch target + " " + direction {
	case "migrate up":
		return migrations.Up(db)
	case "migrate down":
		return migrations.Down(db)
	case "seed up":
		return seed.InTx(ctx, db, func(tx *sql.Tx) error {
			return seed.Up(ctx, tx, seed.All...)
		})
	case "seed down":
		return seed.InTx(ctx, db, func(tx *sql.Tx) error {
			return seed.Down(ctx, tx, seed.All...)
		})
	default:
		return fmt.Errorf("unknown command %q %q: %s", target, direction, usage)
	}
}
