// Package workflow governs the lifecycle of generated content: an item
// enters at pending_review, admins approve or reject it, approved items can
// be published, and a publish can later be rolled back. Every transition
// leaves one audit entry. Rollback reclassifies the publish event only; the
// item itself stays published, so the queue view and the history view stay
// independently driven.
package workflow

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prepdeck/prepdeck-backend/internal/audit"
)

type Service struct {
	store Store
	log   audit.Recorder
	now   func() time.Time
}

// NewService wires the store and the audit recorder. A nil now defaults to
// time.Now; tests inject a fixed clock.
func NewService(store Store, log audit.Recorder, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, log: log, now: now}
}

// IngestInput is what the external generation producer supplies.
type IngestInput struct {
	ID             string `json:"id,omitempty"`
	TechnologySlug string `json:"technology_slug"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
}

// Ingest creates a new item at pending_review. This is the producer
// boundary; the service never invokes generation itself.
func (s *Service) Ingest(ctx context.Context, actor string, in IngestInput) (ReviewItem, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now().Unix()
	it := ReviewItem{
		ID:             id,
		TechnologySlug: in.TechnologySlug,
		Title:          in.Title,
		Summary:        in.Summary,
		Status:         StatusPendingReview,
		GeneratedAt:    now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertItem(ctx, it); err != nil {
		return ReviewItem{}, err
	}
	if err := s.log.Append(ctx, actor, ActionIngested, it.ID); err != nil {
		return ReviewItem{}, err
	}
	return it, nil
}

func (s *Service) Approve(ctx context.Context, actor, itemID string) (ReviewItem, error) {
	return s.moderate(ctx, actor, itemID, StatusApproved, ActionApproved)
}

func (s *Service) Reject(ctx context.Context, actor, itemID string) (ReviewItem, error) {
	return s.moderate(ctx, actor, itemID, StatusRejected, ActionRejected)
}

func (s *Service) moderate(ctx context.Context, actor, itemID string, status ItemStatus, action string) (ReviewItem, error) {
	it, err := s.store.UpdateItemStatus(ctx, itemID, status, s.now().Unix())
	if err != nil {
		return ReviewItem{}, err
	}
	if err := s.log.Append(ctx, actor, action, it.ID); err != nil {
		return ReviewItem{}, err
	}
	return it, nil
}

// Publish moves an approved item to published and records a new
// PublishEvent. It is deliberately not idempotent: publishing twice leaves
// two event rows, which is what the history view reports.
func (s *Service) Publish(ctx context.Context, actor, itemID string) (PublishEvent, error) {
	it, err := s.store.FindItem(ctx, itemID)
	if err != nil {
		return PublishEvent{}, err
	}
	// Approved items publish; published items may be re-published (each pass
	// leaves its own event row). Pending or rejected content never ships.
	if it.Status != StatusApproved && it.Status != StatusPublished {
		return PublishEvent{}, ErrNotApproved
	}
	if _, err := s.store.UpdateItemStatus(ctx, itemID, StatusPublished, s.now().Unix()); err != nil {
		return PublishEvent{}, err
	}
	ev := PublishEvent{
		ID:         uuid.NewString(),
		ContentRef: it.ID,
		Status:     EventPublished,
		Summary:    summaryPrefix + it.Title,
		CreatedAt:  s.now().Unix(),
	}
	if err := s.store.InsertEvent(ctx, ev); err != nil {
		return PublishEvent{}, err
	}
	if err := s.log.Append(ctx, actor, ActionPublishTriggered, ev.ID); err != nil {
		return PublishEvent{}, err
	}
	return ev, nil
}

// Rollback flips the targeted event to rolled_back in place. The
// underlying item keeps its published status: rollback is a historical
// annotation, not a compensating transaction against visibility.
func (s *Service) Rollback(ctx context.Context, actor, eventID string) (PublishEvent, error) {
	ev, err := s.store.UpdateEventStatus(ctx, eventID, EventRolledBack)
	if err != nil {
		return PublishEvent{}, err
	}
	if err := s.log.Append(ctx, actor, ActionPublishRollback, ev.ID); err != nil {
		return PublishEvent{}, err
	}
	return ev, nil
}

// Queue lists approved items awaiting publish, newest first.
func (s *Service) Queue(ctx context.Context) ([]ReviewItem, error) {
	return s.store.ListItemsByStatus(ctx, StatusApproved, "")
}

// History lists all publish events, newest first, each annotated with the
// title recovered from its summary.
func (s *Service) History(ctx context.Context) ([]PublishEvent, error) {
	evs, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	for i := range evs {
		evs[i].Title = strings.TrimPrefix(evs[i].Summary, summaryPrefix)
	}
	return evs, nil
}

// Published lists published items, optionally filtered to one technology.
func (s *Service) Published(ctx context.Context, slug string) ([]ReviewItem, error) {
	return s.store.ListItemsByStatus(ctx, StatusPublished, slug)
}

// Topics summarizes published content per technology slug, sorted by slug.
func (s *Service) Topics(ctx context.Context) ([]TopicSummary, error) {
	items, err := s.store.ListItemsByStatus(ctx, StatusPublished, "")
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, it := range items {
		counts[it.TechnologySlug]++
	}
	out := make([]TopicSummary, 0, len(counts))
	for slug, n := range counts {
		out = append(out, TopicSummary{TechnologySlug: slug, PublishedCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TechnologySlug < out[j].TechnologySlug })
	return out, nil
}
