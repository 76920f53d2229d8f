package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/genprobe/genprobe/internal/record"
)

// ErrNoSession is returned when a session lookup matches nothing.
var ErrNoSession = errors.New("no such session")

// LatestSession returns the most recently started session. In the common
// case a capture database holds exactly one.
func (s *Store) LatestSession(ctx context.Context) (record.Session, error) {
	var sess record.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, flags, command
		FROM sessions
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`).Scan(&sess.ID, &sess.StartedAt, &sess.Flags, &sess.Command)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Session{}, ErrNoSession
	}
	if err != nil {
		return record.Session{}, fmt.Errorf("latest session: %w", err)
	}
	return sess, nil
}

// Session returns one session by id.
func (s *Store) Session(ctx context.Context, id string) (record.Session, error) {
	var sess record.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, flags, command
		FROM sessions
		WHERE id = ?
	`, id).Scan(&sess.ID, &sess.StartedAt, &sess.Flags, &sess.Command)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Session{}, ErrNoSession
	}
	if err != nil {
		return record.Session{}, fmt.Errorf("session %s: %w", id, err)
	}
	return sess, nil
}

// Records returns a session's records in stream order.
func (s *Store) Records(ctx context.Context, sessionID string) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, identity, file, line, depth, sequence, label, text, omitted_lines, omitted_bytes
		FROM records
		WHERE session_id = ?
		ORDER BY ordinal
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	defer rows.Close()

	var out []record.Record
	for rows.Next() {
		rec := record.Record{Session: sessionID}
		var label string
		if err := rows.Scan(&rec.ID, &rec.Identity, &rec.File, &rec.Line, &rec.Depth,
			&rec.Sequence, &label, &rec.Text, &rec.OmittedLines, &rec.OmittedBytes); err != nil {
			return nil, fmt.Errorf("read records: %w", err)
		}
		rec.Label = record.Label(label)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return out, nil
}
