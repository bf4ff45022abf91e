// Package store records simulation runs and generation snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"torus-life/pkg/life"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound is returned when a run or generation is not recorded.
var ErrRunNotFound = errors.New("run not found")

// Store provides durable storage for run history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run describes a recorded simulation run.
type Run struct {
	ID        string    `json:"id"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Seed      int64     `json:"seed"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// Generation is one recorded snapshot of a run.
type Generation struct {
	Generation uint64 `json:"generation"`
	Population int    `json:"population"`
}

// Open creates or opens a SQLite database at the given path and applies the
// schema. Safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// CreateRun registers a new run with a fresh UUIDv7 identifier.
func (s *Store) CreateRun(ctx context.Context, width, height int, seed int64, source string) (Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Run{}, fmt.Errorf("generate run id: %w", err)
	}
	run := Run{
		ID:        id.String(),
		Width:     width,
		Height:    height,
		Seed:      seed,
		Source:    source,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, width, height, seed, source, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Width, run.Height, run.Seed, run.Source, run.CreatedAt.UnixMilli())
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordGeneration stores g as generation gen of run runID. Recording the same
// generation twice replaces the earlier snapshot.
func (s *Store) RecordGeneration(ctx context.Context, runID string, gen uint64, g *life.Grid) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO generations (run_id, generation, population, cells) VALUES (?, ?, ?, ?)`,
		runID, int64(gen), g.Population(), encodeWords(g.Words()))
	if err != nil {
		return fmt.Errorf("insert generation %d of run %s: %w", gen, runID, err)
	}
	return nil
}

// Run fetches a single run.
func (s *Store) Run(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, width, height, seed, source, created_at FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// ListRuns returns every run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, width, height, seed, source, created_at FROM runs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Generations lists the recorded generations of a run in ascending order.
func (s *Store) Generations(ctx context.Context, runID string) ([]Generation, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT generation, population FROM generations WHERE run_id = ? ORDER BY generation`, runID)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var g Generation
		var gen int64
		if err := rows.Scan(&gen, &g.Population); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		g.Generation = uint64(gen)
		gens = append(gens, g)
	}
	return gens, rows.Err()
}

// LoadSnapshot rebuilds the grid recorded for generation gen of run runID.
func (s *Store) LoadSnapshot(ctx context.Context, runID string, gen uint64) (*life.Grid, error) {
	run, err := s.Run(ctx, runID)
	if err != nil {
		return nil, err
	}
	var blob []byte
	err = s.db.QueryRowContext(ctx,
		`SELECT cells FROM generations WHERE run_id = ? AND generation = ?`, runID, int64(gen)).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s generation %d", ErrRunNotFound, runID, gen)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	words, err := decodeWords(blob)
	if err != nil {
		return nil, err
	}
	return life.FromWords(run.Width, run.Height, words)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var created int64
	if err := row.Scan(&run.ID, &run.Width, &run.Height, &run.Seed, &run.Source, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt = time.UnixMilli(created).UTC()
	return run, nil
}

func encodeWords(words []uint64) []byte {
	out := make([]byte, 8*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint64(out[8*i:], w)
	}
	return out
}

func decodeWords(blob []byte) ([]uint64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("corrupt snapshot: %d bytes is not a whole number of words", len(blob))
	}
	words := make([]uint64, len(blob)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(blob[8*i:])
	}
	return words, nil
}
