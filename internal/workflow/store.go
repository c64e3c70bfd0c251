package workflow

import (
	"context"
	"errors"
)

var (
	// ErrNotFound: the referenced item or event does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotApproved: publish was attempted on an item that is not approved.
	ErrNotApproved = errors.New("item not approved")
)

// Store is the persistence boundary for review items and publish events.
// Each call maps to a single statement; the service never opens
// multi-statement transactions across them.
type Store interface {
	InsertItem(ctx context.Context, it ReviewItem) error
	FindItem(ctx context.Context, id string) (ReviewItem, error)
	// ListItemsByStatus returns items in the given status, newest first by
	// generated_at. An empty slug matches all technologies.
	ListItemsByStatus(ctx context.Context, status ItemStatus, slug string) ([]ReviewItem, error)
	UpdateItemStatus(ctx context.Context, id string, status ItemStatus, updatedAt int64) (ReviewItem, error)

	InsertEvent(ctx context.Context, ev PublishEvent) error
	FindEvent(ctx context.Context, id string) (PublishEvent, error)
	UpdateEventStatus(ctx context.Context, id string, status EventStatus) (PublishEvent, error)
	// ListEvents returns all publish events, newest first by created_at.
	ListEvents(ctx context.Context) ([]PublishEvent, error)
}
