package workflow

import (
	"context"
	"database/sql"
	"errors"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) InsertItem(ctx context.Context, it ReviewItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO review_items (id,technology_slug,title,summary,status,generated_at,updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		it.ID, it.TechnologySlug, it.Title, it.Summary, string(it.Status), it.GeneratedAt, it.UpdatedAt)
	return err
}

func (s *SQLStore) FindItem(ctx context.Context, id string) (ReviewItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,technology_slug,title,summary,status,generated_at,updated_at
		 FROM review_items WHERE id=$1`, id)
	return scanItem(row)
}

func (s *SQLStore) ListItemsByStatus(ctx context.Context, status ItemStatus, slug string) ([]ReviewItem, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if slug == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id,technology_slug,title,summary,status,generated_at,updated_at
			 FROM review_items WHERE status=$1 ORDER BY generated_at DESC`, string(status))
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT id,technology_slug,title,summary,status,generated_at,updated_at
			 FROM review_items WHERE status=$1 AND technology_slug=$2 ORDER BY generated_at DESC`,
			string(status), slug)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewItem
	for rows.Next() {
		var it ReviewItem
		var st string
		if err := rows.Scan(&it.ID, &it.TechnologySlug, &it.Title, &it.Summary, &st, &it.GeneratedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		it.Status = ItemStatus(st)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpdateItemStatus(ctx context.Context, id string, status ItemStatus, updatedAt int64) (ReviewItem, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE review_items SET status=$1, updated_at=$2 WHERE id=$3`,
		string(status), updatedAt, id)
	if err != nil {
		return ReviewItem{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ReviewItem{}, ErrNotFound
	}
	return s.FindItem(ctx, id)
}

func (s *SQLStore) InsertEvent(ctx context.Context, ev PublishEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO publish_events (id,content_ref,status,summary,created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		ev.ID, ev.ContentRef, string(ev.Status), ev.Summary, ev.CreatedAt)
	return err
}

func (s *SQLStore) FindEvent(ctx context.Context, id string) (PublishEvent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,content_ref,status,summary,created_at FROM publish_events WHERE id=$1`, id)
	return scanEvent(row)
}

func (s *SQLStore) UpdateEventStatus(ctx context.Context, id string, status EventStatus) (PublishEvent, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE publish_events SET status=$1 WHERE id=$2`, string(status), id)
	if err != nil {
		return PublishEvent{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return PublishEvent{}, ErrNotFound
	}
	return s.FindEvent(ctx, id)
}

func (s *SQLStore) ListEvents(ctx context.Context) ([]PublishEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,content_ref,status,summary,created_at
		 FROM publish_events ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PublishEvent
	for rows.Next() {
		var ev PublishEvent
		var st string
		if err := rows.Scan(&ev.ID, &ev.ContentRef, &st, &ev.Summary, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Status = EventStatus(st)
		out = append(out, ev)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (ReviewItem, error) {
	var it ReviewItem
	var st string
	if err := row.Scan(&it.ID, &it.TechnologySlug, &it.Title, &it.Summary, &st, &it.GeneratedAt, &it.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReviewItem{}, ErrNotFound
		}
		return ReviewItem{}, err
	}
	it.Status = ItemStatus(st)
	return it, nil
}

func scanEvent(row rowScanner) (PublishEvent, error) {
	var ev PublishEvent
	var st string
	if err := row.Scan(&ev.ID, &ev.ContentRef, &st, &ev.Summary, &ev.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PublishEvent{}, ErrNotFound
		}
		return PublishEvent{}, err
	}
	ev.Status = EventStatus(st)
	return ev, nil
}
