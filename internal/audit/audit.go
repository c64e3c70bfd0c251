// Package audit records administrative actions in an append-only log.
// Entries are write-once: there is no update or delete path.
package audit

import (
	"context"
	"database/sql"
	"time"
)

type Entry struct {
	Seq       int64  `json:"seq"`
	Actor     string `json:"actor"`
	Action    string `json:"action"` // uppercase event name, e.g. PUBLISH_TRIGGERED
	EntityRef string `json:"entity_ref"`
	CreatedAt int64  `json:"created_at"`
}

// Recorder is the write side consumed by the workflow service.
type Recorder interface {
	Append(ctx context.Context, actor, action, entityRef string) error
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, actor, action, entityRef string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (actor, action, entity_ref, created_at)
		 VALUES ($1,$2,$3,$4)`,
		actor, action, entityRef, time.Now().Unix())
	return err
}

// List returns the most recent entries, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, actor, action, entity_ref, created_at
		 FROM audit_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.Actor, &e.Action, &e.EntityRef, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
