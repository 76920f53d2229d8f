package store

import (
	"context"
	"fmt"

	"github.com/genprobe/genprobe/internal/record"
)

// BeginSession inserts a session row and returns it. The id comes from gen;
// startedAt is unix seconds.
func (s *Store) BeginSession(ctx context.Context, gen TokenGenerator, startedAt int64, flags, command string) (record.Session, error) {
	sess := record.Session{
		ID:        gen.Generate(),
		StartedAt: startedAt,
		Flags:     flags,
		Command:   command,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, flags, command)
		VALUES (?, ?, ?, ?)
	`, sess.ID, sess.StartedAt, sess.Flags, sess.Command)
	if err != nil {
		return record.Session{}, fmt.Errorf("begin session: %w", err)
	}
	return sess, nil
}

// WriteRecord inserts one scraped record half under the given session.
// Ordinal is the record's position in the scraped stream.
//
// The row id is content-addressed from (session, identity, sequence,
// label); ON CONFLICT(id) DO NOTHING makes re-ingesting the same stream
// idempotent. Returns the stored id.
func (s *Store) WriteRecord(ctx context.Context, sessionID string, ordinal int, rec record.Record) (string, error) {
	id, err := record.RecordID(sessionID, rec.Identity, rec.Sequence, rec.Label)
	if err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records
		(id, session_id, ordinal, identity, file, line, depth, sequence, label, text, omitted_lines, omitted_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		sessionID,
		ordinal,
		rec.Identity,
		rec.File,
		rec.Line,
		rec.Depth,
		rec.Sequence,
		string(rec.Label),
		rec.Text,
		rec.OmittedLines,
		rec.OmittedBytes,
	)
	if err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return id, nil
}
