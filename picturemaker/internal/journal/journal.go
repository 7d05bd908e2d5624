// Package journal records capture sessions and their shots in SQLite so
// a time-lapse folder can be audited after the fact.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hazyhaar/lapse/dbopen"
	"github.com/hazyhaar/lapse/picturemaker/shot"
)

// Schema for the sessions and shots tables.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	address       TEXT NOT NULL,
	output_folder TEXT NOT NULL,
	shot_total    INTEGER NOT NULL,
	shot_taken    INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL DEFAULT 'running',
	error         TEXT NOT NULL DEFAULT '',
	started_at    INTEGER NOT NULL,
	ended_at      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS shots (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq        INTEGER NOT NULL,
	total      INTEGER NOT NULL,
	path       TEXT NOT NULL,
	bytes      INTEGER NOT NULL,
	taken_at   INTEGER NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
`

// Journal is the session journal database handle.
type Journal struct {
	DB *sql.DB
}

// Open opens (or creates) the journal at path and applies the schema.
func Open(path string, opts ...dbopen.Option) (*Journal, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	return &Journal{DB: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.DB.Close()
}

// Begin records a session as running.
func (j *Journal) Begin(ctx context.Context, run shot.Run) error {
	_, err := j.DB.ExecContext(ctx, `
		INSERT INTO sessions (id, address, output_folder, shot_total, status, started_at)
		VALUES (?,?,?,?,?,?)`,
		run.ID, run.Address, run.OutputFolder, run.Total, shot.StatusRunning, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("journal: insert session: %w", err)
	}
	return nil
}

// Shot records a written screenshot and bumps the session's taken count.
func (j *Journal) Shot(ctx context.Context, s shot.Shot) error {
	return dbopen.RunTx(ctx, j.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO shots (session_id, seq, total, path, bytes, taken_at)
			VALUES (?,?,?,?,?,?)`,
			s.SessionID, s.Seq, s.Total, s.Path, s.Bytes, s.TakenAt,
		); err != nil {
			return fmt.Errorf("journal: insert shot: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE sessions SET shot_taken = ? WHERE id = ?`, s.Seq, s.SessionID,
		); err != nil {
			return fmt.Errorf("journal: update session: %w", err)
		}
		return nil
	})
}

// Finish stores the terminal state of a session.
func (j *Journal) Finish(ctx context.Context, run shot.Run) error {
	res, err := j.DB.ExecContext(ctx, `
		UPDATE sessions SET status = ?, error = ?, shot_taken = MAX(shot_taken, ?), ended_at = ?
		WHERE id = ?`,
		run.Status, run.Error, run.Taken, run.EndedAt, run.ID,
	)
	if err != nil {
		return fmt.Errorf("journal: finish session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("journal: finish session %s: not found", run.ID)
	}
	return nil
}

// Session returns one session by ID, or nil if absent.
func (j *Journal) Session(ctx context.Context, id string) (*shot.Run, error) {
	row := j.DB.QueryRowContext(ctx, `
		SELECT id, address, output_folder, shot_total, shot_taken, status, error, started_at, ended_at
		FROM sessions WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: get session: %w", err)
	}
	return r, nil
}

// Sessions lists the most recent sessions first. limit <= 0 means all.
func (j *Journal) Sessions(ctx context.Context, limit int) ([]shot.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.DB.QueryContext(ctx, `
		SELECT id, address, output_folder, shot_total, shot_taken, status, error, started_at, ended_at
		FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: list sessions: %w", err)
	}
	defer rows.Close()

	var runs []shot.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("journal: scan session: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Shots lists the shots of a session in capture order.
func (j *Journal) Shots(ctx context.Context, sessionID string) ([]shot.Shot, error) {
	rows, err := j.DB.QueryContext(ctx, `
		SELECT session_id, seq, total, path, bytes, taken_at
		FROM shots WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("journal: list shots: %w", err)
	}
	defer rows.Close()

	var shots []shot.Shot
	for rows.Next() {
		var s shot.Shot
		if err := rows.Scan(&s.SessionID, &s.Seq, &s.Total, &s.Path, &s.Bytes, &s.TakenAt); err != nil {
			return nil, fmt.Errorf("journal: scan shot: %w", err)
		}
		shots = append(shots, s)
	}
	return shots, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*shot.Run, error) {
	var r shot.Run
	var status string
	if err := sc.Scan(&r.ID, &r.Address, &r.OutputFolder, &r.Total, &r.Taken,
		&status, &r.Error, &r.StartedAt, &r.EndedAt); err != nil {
		return nil, err
	}
	r.Status = shot.Status(status)
	return &r, nil
}
