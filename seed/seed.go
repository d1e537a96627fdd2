// Package seed inserts and removes the reference rows the catalog expects to exist.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// ErrInUse is returned by Down when other rows still reference the seeded ones.
var ErrInUse = errors.New("seeded rows are still referenced")

// Seeder fills one single-column table with a fixed set of values.
type Seeder struct {
	Table  string
	Column string
	Values []string
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Tags are the default product tags.
var Tags = Seeder{
	Table:  "tags",
	Column: "name",
	Values: []string{"organic", "healthy", "gluten free", "ethically sourced"},
}

// Categories gives a fresh database something to pick in the category select.
var Categories = Seeder{
	Table:  "categories",
	Column: "name",
	Values: []string{"Fruits", "Vegetables", "Bakery"},
}

// All lists the seeders in insertion order.
var All = []Seeder{Categories, Tags}

func (s Seeder) insert() squirrel.InsertBuilder {
	q := psql.Insert(s.Table).Columns(s.Column)
	for _, v := range s.Values {
		q = q.Values(v)
	}
	return q
}

func (s Seeder) delete() squirrel.DeleteBuilder {
	return psql.Delete(s.Table)
}

// Up inserts every value with a single statement.
func (s Seeder) Up(ctx context.Context, runner squirrel.BaseRunner) error {
	if len(s.Values) == 0 {
		return nil
	}
	if _, err := s.insert().RunWith(runner).ExecContext(ctx); err != nil {
		return fmt.Errorf("seeding %s: %w", s.Table, err)
	}
	return nil
}

// Down deletes every row of the table, including rows not added by Up.
func (s Seeder) Down(ctx context.Context, runner squirrel.BaseRunner) error {
	if _, err := s.delete().RunWith(runner).ExecContext(ctx); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("unseeding %s: %w (%s)", s.Table, ErrInUse, pqErr.Message)
		}
		return fmt.Errorf("unseeding %s: %w", s.Table, err)
	}
	return nil
}

// Up runs the seeders in order and stops at the first failure.
func Up(ctx context.Context, runner squirrel.BaseRunner, seeders ...Seeder) error {
	for _, s := range seeders {
		if err := s.Up(ctx, runner); err != nil {
			return err
		}
	}
	return nil
}

// Down reverts the seeders in reverse order.
func Down(ctx context.Context, runner squirrel.BaseRunner, seeders ...Seeder) error {
	for i := len(seeders) - 1; i >= 0; i-- {
		if err := seeders[i].Down(ctx, runner); err != nil {
			return err
		}
	}
	return nil
}

// InTx runs fn in a single transaction so a failing seeder leaves the
// earlier ones untouched.
func InTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}
