// File path: internal/history/store.go
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/liveforge-ai/liveforge/internal/build"
)

// Store archives finished build records in SQLite so the in-memory record
// store survives restarts. Chain proofs and generated files are stored as
// JSON columns: the archive is a snapshot sink, never queried field-wise.
type Store struct {
	db *sqlx.DB
}

// Open constructs a Store backed by the SQLite database at path. The
// parent directory is created and the schema migrated on first use.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve history path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", abs)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history db: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS builds (
                id TEXT PRIMARY KEY,
                prompt TEXT NOT NULL,
                status TEXT NOT NULL,
                started_at TEXT NOT NULL,
                completed_at TEXT,
                duration TEXT NOT NULL DEFAULT '',
                program_id TEXT NOT NULL DEFAULT '',
                chain_proofs TEXT NOT NULL DEFAULT '[]',
                files TEXT NOT NULL DEFAULT '[]'
        );`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate history schema: %w", err)
	}
	return nil
}

// timeLayout is RFC3339 with a fixed nine-digit fraction so the stored
// strings sort chronologically (RFC3339Nano trims trailing zeros, which
// makes whole-second values sort after fractional ones in the same second).
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type buildRow struct {
	ID          string         `db:"id"`
	Prompt      string         `db:"prompt"`
	Status      string         `db:"status"`
	StartedAt   string         `db:"started_at"`
	CompletedAt sql.NullString `db:"completed_at"`
	Duration    string         `db:"duration"`
	ProgramID   string         `db:"program_id"`
	ChainProofs string         `db:"chain_proofs"`
	Files       string         `db:"files"`
}

func toRow(rec build.Record) (buildRow, error) {
	proofs, err := json.Marshal(rec.ChainProofs)
	if err != nil {
		return buildRow{}, fmt.Errorf("encode chain proofs: %w", err)
	}
	files, err := json.Marshal(rec.Files)
	if err != nil {
		return buildRow{}, fmt.Errorf("encode files: %w", err)
	}
	row := buildRow{
		ID:          rec.ID,
		Prompt:      rec.Prompt,
		Status:      string(rec.Status),
		StartedAt:   rec.StartedAt.UTC().Format(timeLayout),
		Duration:    rec.Duration,
		ProgramID:   rec.ProgramID,
		ChainProofs: string(proofs),
		Files:       string(files),
	}
	if rec.CompletedAt != nil {
		row.CompletedAt = sql.NullString{String: rec.CompletedAt.UTC().Format(timeLayout), Valid: true}
	}
	return row, nil
}

func fromRow(row buildRow) (build.Record, error) {
	started, err := time.Parse(time.RFC3339Nano, row.StartedAt)
	if err != nil {
		return build.Record{}, fmt.Errorf("parse started_at for %s: %w", row.ID, err)
	}
	rec := build.Record{
		ID:        row.ID,
		Prompt:    row.Prompt,
		Status:    build.Status(row.Status),
		StartedAt: started,
		Duration:  row.Duration,
		ProgramID: row.ProgramID,
	}
	if row.CompletedAt.Valid {
		completed, err := time.Parse(time.RFC3339Nano, row.CompletedAt.String)
		if err != nil {
			return build.Record{}, fmt.Errorf("parse completed_at for %s: %w", row.ID, err)
		}
		rec.CompletedAt = &completed
	}
	if err := json.Unmarshal([]byte(row.ChainProofs), &rec.ChainProofs); err != nil {
		return build.Record{}, fmt.Errorf("decode chain proofs for %s: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.Files), &rec.Files); err != nil {
		return build.Record{}, fmt.Errorf("decode files for %s: %w", row.ID, err)
	}
	return rec, nil
}

// SaveRecord upserts a record snapshot. It satisfies build.Archiver.
func (s *Store) SaveRecord(ctx context.Context, rec build.Record) error {
	if s == nil || s.db == nil {
		return errors.New("history store not initialised")
	}
	row, err := toRow(rec)
	if err != nil {
		return err
	}
	const query = `INSERT INTO builds(id, prompt, status, started_at, completed_at, duration, program_id, chain_proofs, files)
                VALUES (:id, :prompt, :status, :started_at, :completed_at, :duration, :program_id, :chain_proofs, :files)
                ON CONFLICT(id) DO UPDATE SET
                        status = excluded.status,
                        completed_at = excluded.completed_at,
                        duration = excluded.duration,
                        program_id = excluded.program_id,
                        chain_proofs = excluded.chain_proofs,
                        files = excluded.files`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save build %s: %w", rec.ID, err)
	}
	return nil
}

// LoadRecords returns every archived record, newest first.
func (s *Store) LoadRecords(ctx context.Context) ([]build.Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store not initialised")
	}
	rows := []buildRow{}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM builds ORDER BY started_at DESC`); err != nil {
		return nil, fmt.Errorf("select builds: %w", err)
	}
	records := make([]build.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
