package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/marek-kar/fuzz-aggregator/pkg/model"
)

//go:embed schema.sql
var schemaSQL string

// dsnPragmas are applied by the driver to every pooled connection.
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// FooterPosition is the position under which a section footer is stored.
const FooterPosition = -1

// Store keeps built reports in a SQLite database so campaigns can be compared
// later without re-reading their archives.
type Store struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func Open(path string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		return nil, errors.New("store: nil logger provided")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.WithField("path", path).Debug("store opened")
	return &Store{db: db, log: log}, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the report and all its cells in one transaction.
func (s *Store) Save(ctx context.Context, r model.Report) error {
	if r.RunID == "" {
		return errors.New("report has no run id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, results_name, cohort, contracts, schema_version, generated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.ResultsName, r.Cohort, r.Contracts, r.SchemaVersion, r.GeneratedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO metrics (run_id, section, position, row_key, strategy, value, raw) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare metrics insert: %w", err)
	}
	defer stmt.Close()

	var cells int
	insert := func(section string, pos int, row model.Row) error {
		for _, strategy := range model.Strategies() {
			var value sql.NullFloat64
			if v, ok := row.Get(strategy).Value(); ok {
				value = sql.NullFloat64{Float64: v, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, r.RunID, section, pos, row.Key, string(strategy), value, row.Raw); err != nil {
				return fmt.Errorf("insert %s/%s/%s: %w", section, row.Key, strategy, err)
			}
			cells++
		}
		return nil
	}

	for _, sec := range r.Sections {
		for i, row := range sec.Rows {
			if err := insert(sec.ID, i, row); err != nil {
				return err
			}
		}
		if err := insert(sec.ID, FooterPosition, sec.Footer); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.WithFields(logrus.Fields{"run": r.RunID, "cohort": r.Cohort, "cells": cells}).Info("report stored")
	return nil
}

type Run struct {
	ID          string
	ResultsName string
	Cohort      string
	Contracts   int
	GeneratedAt time.Time
}

// Runs lists stored runs, newest first. An empty resultsName lists all.
func (s *Store) Runs(ctx context.Context, resultsName string) ([]Run, error) {
	query := `SELECT id, results_name, cohort, contracts, generated_at FROM runs`
	var args []any
	if resultsName != "" {
		query += ` WHERE results_name = ?`
		args = append(args, resultsName)
	}
	query += ` ORDER BY generated_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &r.ResultsName, &r.Cohort, &r.Contracts, &ts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.GeneratedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse generated_at of run %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Metric returns a stored cell. Footers are looked up by their key
// ("AVERAGE", "TOTAL").
func (s *Store) Metric(ctx context.Context, runID, section, key string, strategy model.Strategy) (model.Metric, error) {
	var value sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM metrics WHERE run_id = ? AND section = ? AND row_key = ? AND strategy = ?`,
		runID, section, key, string(strategy),
	).Scan(&value)
	if err != nil {
		return model.Metric{}, fmt.Errorf("query metric: %w", err)
	}
	if !value.Valid {
		return model.Undefined(), nil
	}
	return model.Defined(value.Float64), nil
}
