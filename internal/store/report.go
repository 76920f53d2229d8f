package store

import (
	"context"
	"fmt"

	"github.com/genprobe/genprobe/internal/record"
)

// ReportRow summarizes one identity's activity within a session.
//
// Calls counts accepted invocations (input/output pairs), not record rows.
// EmittedBytes is the stored payload text plus what truncation cut, so the
// number reflects what the transformation actually produced.
type ReportRow struct {
	Identity     string `json:"identity"`
	Calls        int64  `json:"calls"`
	MaxDepth     int    `json:"max_depth"`
	MaxSequence  int64  `json:"max_sequence"`
	EmittedBytes int64  `json:"emitted_bytes"`
	FirstOrdinal int    `json:"first_ordinal"`
	LastOrdinal  int    `json:"last_ordinal"`
}

// Report aggregates a session's records per identity, ordered by first
// appearance in the stream.
func (s *Store) Report(ctx context.Context, sessionID string) ([]ReportRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity,
		       COUNT(DISTINCT sequence),
		       MAX(depth),
		       MAX(sequence),
		       SUM(LENGTH(CAST(text AS BLOB)) + omitted_bytes),
		       MIN(ordinal),
		       MAX(ordinal)
		FROM records
		WHERE session_id = ?
		GROUP BY identity
		ORDER BY MIN(ordinal)
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("session report: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var r ReportRow
		if err := rows.Scan(&r.Identity, &r.Calls, &r.MaxDepth, &r.MaxSequence,
			&r.EmittedBytes, &r.FirstOrdinal, &r.LastOrdinal); err != nil {
			return nil, fmt.Errorf("session report: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session report: %w", err)
	}
	return out, nil
}

// MarshalReport renders a session and its rows as canonical JSON, the
// byte-stable form used by report --format json and golden tests.
func MarshalReport(sess record.Session, rows []ReportRow) ([]byte, error) {
	rowList := make([]any, len(rows))
	for i, r := range rows {
		rowList[i] = map[string]any{
			"identity":      r.Identity,
			"calls":         r.Calls,
			"max_depth":     r.MaxDepth,
			"max_sequence":  r.MaxSequence,
			"emitted_bytes": r.EmittedBytes,
			"first_ordinal": r.FirstOrdinal,
			"last_ordinal":  r.LastOrdinal,
		}
	}
	obj := map[string]any{
		"schema_version": record.SchemaVersion,
		"session": map[string]any{
			"id":         sess.ID,
			"started_at": sess.StartedAt,
			"flags":      sess.Flags,
			"command":    sess.Command,
		},
		"identities": rowList,
	}
	return record.MarshalCanonical(obj)
}
