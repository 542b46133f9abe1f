// Package sqlite reads the dataset from a SQLite table maintained by the
// collection pipeline.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"toheoje/internal/core"

	_ "modernc.org/sqlite"
)

const selectRecords = `SELECT district, address, permit_date, outcome, purpose, building_name, collected_date
FROM land_contracts ORDER BY id`

const insertRecord = `INSERT INTO land_contracts
(district, address, permit_date, outcome, purpose, building_name, collected_date)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const deleteRecords = `DELETE FROM land_contracts`

type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at dbPath and migrates it.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: dbPath}, nil
}

func (s *Store) Name() string { return "sqlite:" + s.path }

// Load reads every row in insertion order.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords)
	if err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrFetch, err)
	}
	defer rows.Close()

	records := []core.Record{}
	for rows.Next() {
		var (
			r        core.Record
			permit   string
			building sql.NullString
		)
		if err := rows.Scan(&r.District, &r.Address, &permit, &r.Outcome, &r.Purpose, &building, &r.CollectedDate); err != nil {
			return nil, core.NewLoadError(s.Name(), core.ErrDecode, fmt.Errorf("scan land contract: %w", err))
		}
		r.PermitDate = core.ParseYMD(permit)
		r.BuildingName = building.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrFetch, err)
	}
	return records, nil
}

// Insert appends records in one transaction.
func (s *Store) Insert(ctx context.Context, records []core.Record) error {
	return s.write(ctx, records, false)
}

// Replace swaps the table contents for records in one transaction.
func (s *Store) Replace(ctx context.Context, records []core.Record) error {
	return s.write(ctx, records, true)
}

func (s *Store) write(ctx context.Context, records []core.Record, truncate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if truncate {
		if _, err := tx.ExecContext(ctx, deleteRecords); err != nil {
			return fmt.Errorf("clear land contracts: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		building := sql.NullString{String: r.BuildingName, Valid: r.BuildingName != ""}
		if _, err := stmt.ExecContext(ctx, r.District, r.Address, r.PermitDate.String(), r.Outcome, r.Purpose, building, r.CollectedDate); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
