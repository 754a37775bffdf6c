package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Direction names the conversion a resolve record describes.
type Direction string

const (
	ToPhysical  Direction = "to_physical"
	ToCanonical Direction = "to_canonical"
)

// ResolveRecord is one logged conversion. Output is empty when the
// conversion failed, in which case Error holds the message.
type ResolveRecord struct {
	ID        int64           `json:"id"`
	SessionID string          `json:"session_id"`
	Geometry  string          `json:"geometry"`
	Direction Direction       `json:"direction"`
	Sector    int             `json:"sector"`
	Input     json.RawMessage `json:"input"`
	Output    json.RawMessage `json:"output,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordResolve appends a conversion to the resolve log. input and output
// are encoded as JSON; a nil output is stored as NULL.
func (db *DB) RecordResolve(sessionID, geometry string, dir Direction, sector int, input, output interface{}, resolveErr error) (int64, error) {
	in, err := json.Marshal(input)
	if err != nil {
		return 0, fmt.Errorf("failed to encode resolve input: %w", err)
	}
	var out sql.NullString
	if output != nil {
		b, err := json.Marshal(output)
		if err != nil {
			return 0, fmt.Errorf("failed to encode resolve output: %w", err)
		}
		out = sql.NullString{String: string(b), Valid: true}
	}
	var msg sql.NullString
	if resolveErr != nil {
		msg = sql.NullString{String: resolveErr.Error(), Valid: true}
	}

	res, err := db.Exec(`
		INSERT INTO resolve_log (session_id, geometry, direction, sector, input_json, output_json, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, geometry, string(dir), sector, string(in), out, msg, db.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to record resolve: %w", err)
	}
	return res.LastInsertId()
}

// RecentResolves returns up to limit records, newest first. An empty
// sessionID returns records from every session.
func (db *DB) RecentResolves(sessionID string, limit int) ([]ResolveRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`
		SELECT id, session_id, geometry, direction, sector, input_json, output_json, error, created_at
		FROM resolve_log
		WHERE (? = '' OR session_id = ?)
		ORDER BY id DESC
		LIMIT ?
	`, sessionID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolve log: %w", err)
	}
	defer rows.Close()

	records := []ResolveRecord{}
	for rows.Next() {
		var (
			r       ResolveRecord
			dir     string
			in      string
			out     sql.NullString
			msg     sql.NullString
			created int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Geometry, &dir, &r.Sector, &in, &out, &msg, &created); err != nil {
			return nil, err
		}
		r.Direction = Direction(dir)
		r.Input = json.RawMessage(in)
		if out.Valid {
			r.Output = json.RawMessage(out.String)
		}
		r.Error = msg.String
		r.CreatedAt = time.Unix(0, created).UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}
