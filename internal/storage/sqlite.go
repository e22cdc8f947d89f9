package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matsen/wordgraph/internal/word"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database holding a query cache of word records. The
// JSONL file stays the source of truth; the cache can be rebuilt at any time.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS words (
			position INTEGER NOT NULL,
			word TEXT PRIMARY KEY,
			frequency REAL NOT NULL,
			time REAL NOT NULL,
			period TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_words_period ON words(period);
		CREATE INDEX IF NOT EXISTS idx_words_position ON words(position);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the cache and reloads it from a records file.
// Returns the number of records loaded.
func (d *DB) RebuildFromJSONL(ctx context.Context, path string) (int, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return 0, fmt.Errorf("reading records: %w", err)
	}
	if err := word.ValidateAll(records); err != nil {
		return 0, fmt.Errorf("validating records: %w", err)
	}
	if err := d.ReplaceAll(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// ReplaceAll swaps the cached records for records in one transaction.
func (d *DB) ReplaceAll(ctx context.Context, records []word.Record) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM words"); err != nil {
		return fmt.Errorf("clearing words table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO words (position, word, frequency, time, period)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing words insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.Word, r.Frequency, r.Time, r.Period); err != nil {
			return fmt.Errorf("inserting %q: %w", r.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing words: %w", err)
	}
	return nil
}

// AllRecords returns every cached record in its original file order.
func (d *DB) AllRecords(ctx context.Context) ([]word.Record, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT word, frequency, time, period FROM words ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying words: %w", err)
	}
	defer rows.Close()

	var records []word.Record
	for rows.Next() {
		var r word.Record
		if err := rows.Scan(&r.Word, &r.Frequency, &r.Time, &r.Period); err != nil {
			return nil, fmt.Errorf("scanning word: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PeriodCount is the number of records in one period.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// PeriodCounts returns record counts per period, sorted by period.
func (d *DB) PeriodCounts(ctx context.Context) ([]PeriodCount, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT period, COUNT(*) FROM words GROUP BY period ORDER BY period
	`)
	if err != nil {
		return nil, fmt.Errorf("querying periods: %w", err)
	}
	defer rows.Close()

	var counts []PeriodCount
	for rows.Next() {
		var pc PeriodCount
		if err := rows.Scan(&pc.Period, &pc.Count); err != nil {
			return nil, fmt.Errorf("scanning period: %w", err)
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

// Count returns the number of cached records.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM words").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting words: %w", err)
	}
	return n, nil
}
