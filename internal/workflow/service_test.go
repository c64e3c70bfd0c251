package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prepdeck/prepdeck-backend/internal/workflow"
)

/* ---------------- In-memory audit fake ---------------- */

type auditEntry struct {
	Actor, Action, EntityRef string
}

type fakeAudit struct {
	entries []auditEntry
	failing bool
}

func (f *fakeAudit) Append(_ context.Context, actor, action, entityRef string) error {
	if f.failing {
		return errors.New("audit write failed")
	}
	f.entries = append(f.entries, auditEntry{actor, action, entityRef})
	return nil
}

func (f *fakeAudit) withAction(action string) []auditEntry {
	var out []auditEntry
	for _, e := range f.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

/* ---------------- Helpers ---------------- */

type fixture struct {
	store *workflow.MemoryStore
	log   *fakeAudit
	svc   *workflow.Service
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	f := &fixture{
		store: workflow.NewMemoryStore(),
		log:   &fakeAudit{},
		clock: &now,
	}
	f.svc = workflow.NewService(f.store, f.log, func() time.Time { return *f.clock })
	return f
}

func (f *fixture) tick() { *f.clock = f.clock.Add(time.Minute) }

func (f *fixture) seedItem(t *testing.T, id string, status workflow.ItemStatus) workflow.ReviewItem {
	t.Helper()
	it := workflow.ReviewItem{
		ID:             id,
		TechnologySlug: "go",
		Title:          "Goroutines Deep Dive",
		Summary:        "scheduling and stacks",
		Status:         status,
		GeneratedAt:    f.clock.Unix(),
		UpdatedAt:      f.clock.Unix(),
	}
	if err := f.store.InsertItem(context.Background(), it); err != nil {
		t.Fatal(err)
	}
	return it
}

/* ---------------- Tests ---------------- */

func TestIngest_CreatesPendingItemWithAudit(t *testing.T) {
	f := newFixture(t)
	it, err := f.svc.Ingest(context.Background(), "producer", workflow.IngestInput{
		TechnologySlug: "go",
		Title:          "Channels",
		Summary:        "buffered vs unbuffered",
	})
	if err != nil {
		t.Fatal(err)
	}
	if it.Status != workflow.StatusPendingReview {
		t.Fatalf("status %q, want pending_review", it.Status)
	}
	if it.ID == "" {
		t.Fatalf("no id assigned")
	}
	got := f.log.withAction(workflow.ActionIngested)
	if len(got) != 1 || got[0].EntityRef != it.ID || got[0].Actor != "producer" {
		t.Fatalf("audit entries: %+v", f.log.entries)
	}
}

func TestApprove_UnknownItem(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Approve(context.Background(), "alice", "x1")
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(f.log.entries) != 0 {
		t.Fatalf("failed approve still wrote audit: %+v", f.log.entries)
	}
}

func TestApproveReject_TransitionAndAudit(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "a1", workflow.StatusPendingReview)
	f.seedItem(t, "a2", workflow.StatusPendingReview)
	f.tick()

	it, err := f.svc.Approve(context.Background(), "alice", "a1")
	if err != nil {
		t.Fatal(err)
	}
	if it.Status != workflow.StatusApproved {
		t.Fatalf("status %q", it.Status)
	}
	if it.UpdatedAt <= it.GeneratedAt {
		t.Fatalf("updated_at not bumped")
	}

	it, err = f.svc.Reject(context.Background(), "bob", "a2")
	if err != nil {
		t.Fatal(err)
	}
	if it.Status != workflow.StatusRejected {
		t.Fatalf("status %q", it.Status)
	}

	if n := len(f.log.withAction(workflow.ActionApproved)); n != 1 {
		t.Fatalf("CONTENT_APPROVED entries: %d", n)
	}
	if n := len(f.log.withAction(workflow.ActionRejected)); n != 1 {
		t.Fatalf("CONTENT_REJECTED entries: %d", n)
	}
}

func TestPublish_ApprovedItem(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "x2", workflow.StatusApproved)

	ev, err := f.svc.Publish(context.Background(), "alice", "x2")
	if err != nil {
		t.Fatal(err)
	}
	if ev.Status != workflow.EventPublished {
		t.Fatalf("event status %q", ev.Status)
	}
	if ev.ContentRef != "x2" {
		t.Fatalf("content ref %q", ev.ContentRef)
	}
	if ev.Summary != "Published: Goroutines Deep Dive" {
		t.Fatalf("summary %q", ev.Summary)
	}

	it, err := f.store.FindItem(context.Background(), "x2")
	if err != nil {
		t.Fatal(err)
	}
	if it.Status != workflow.StatusPublished {
		t.Fatalf("item status %q, want published", it.Status)
	}

	got := f.log.withAction(workflow.ActionPublishTriggered)
	if len(got) != 1 || got[0].EntityRef != ev.ID {
		t.Fatalf("audit entries: %+v", f.log.entries)
	}
}

func TestPublish_RejectsUnreviewedContent(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "p1", workflow.StatusPendingReview)
	f.seedItem(t, "r1", workflow.StatusRejected)

	for _, id := range []string{"p1", "r1"} {
		_, err := f.svc.Publish(context.Background(), "alice", id)
		if !errors.Is(err, workflow.ErrNotApproved) {
			t.Fatalf("%s: expected ErrNotApproved, got %v", id, err)
		}
	}
	if len(f.log.entries) != 0 {
		t.Fatalf("rejected publish still wrote audit: %+v", f.log.entries)
	}
}

func TestPublish_UnknownItem(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Publish(context.Background(), "alice", "ghost")
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

// Double-publish is recorded, not rejected: two event rows, two audit entries.
func TestPublish_NotIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "x2", workflow.StatusApproved)

	ev1, err := f.svc.Publish(context.Background(), "alice", "x2")
	if err != nil {
		t.Fatal(err)
	}
	f.tick()
	ev2, err := f.svc.Publish(context.Background(), "bob", "x2")
	if err != nil {
		t.Fatal(err)
	}
	if ev1.ID == ev2.ID {
		t.Fatalf("second publish reused the event row")
	}
	evs, err := f.store.ListEvents(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 2 {
		t.Fatalf("event rows: %d, want 2", len(evs))
	}
	if n := len(f.log.withAction(workflow.ActionPublishTriggered)); n != 2 {
		t.Fatalf("PUBLISH_TRIGGERED entries: %d", n)
	}
}

func TestRollback_ReclassifiesEventOnly(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "x2", workflow.StatusApproved)
	ev, err := f.svc.Publish(context.Background(), "alice", "x2")
	if err != nil {
		t.Fatal(err)
	}

	rb, err := f.svc.Rollback(context.Background(), "alice", ev.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rb.ID != ev.ID {
		t.Fatalf("rollback created a new event row")
	}
	if rb.Status != workflow.EventRolledBack {
		t.Fatalf("event status %q", rb.Status)
	}

	// The item stays published: rollback annotates history, it does not
	// revert visibility.
	it, err := f.store.FindItem(context.Background(), "x2")
	if err != nil {
		t.Fatal(err)
	}
	if it.Status != workflow.StatusPublished {
		t.Fatalf("item status %q, want published", it.Status)
	}

	got := f.log.withAction(workflow.ActionPublishRollback)
	if len(got) != 1 || got[0].EntityRef != ev.ID {
		t.Fatalf("audit entries: %+v", f.log.entries)
	}
}

func TestRollback_UnknownEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Rollback(context.Background(), "alice", "ghost")
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	if len(f.log.entries) != 0 {
		t.Fatalf("failed rollback still wrote audit: %+v", f.log.entries)
	}
}

func TestQueue_OnlyApprovedNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "pending", workflow.StatusPendingReview)
	f.tick()
	f.seedItem(t, "old-approved", workflow.StatusApproved)
	f.tick()
	f.seedItem(t, "rejected", workflow.StatusRejected)
	f.tick()
	f.seedItem(t, "published", workflow.StatusPublished)
	f.tick()
	f.seedItem(t, "new-approved", workflow.StatusApproved)

	queue, err := f.svc.Queue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue length %d, want 2", len(queue))
	}
	if queue[0].ID != "new-approved" || queue[1].ID != "old-approved" {
		t.Fatalf("queue order: %s, %s", queue[0].ID, queue[1].ID)
	}
}

func TestHistory_NewestFirstWithTitle(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "x2", workflow.StatusApproved)
	first, err := f.svc.Publish(context.Background(), "alice", "x2")
	if err != nil {
		t.Fatal(err)
	}
	f.tick()
	second, err := f.svc.Publish(context.Background(), "alice", "x2")
	if err != nil {
		t.Fatal(err)
	}

	hist, err := f.svc.History(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("history length %d", len(hist))
	}
	if hist[0].ID != second.ID || hist[1].ID != first.ID {
		t.Fatalf("history order: %s, %s", hist[0].ID, hist[1].ID)
	}
	for _, ev := range hist {
		if ev.Title != "Goroutines Deep Dive" {
			t.Fatalf("title annotation %q", ev.Title)
		}
	}
}

func TestTopics_CountsPublishedBySlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items := []workflow.ReviewItem{
		{ID: "1", TechnologySlug: "go", Title: "A", Status: workflow.StatusPublished},
		{ID: "2", TechnologySlug: "go", Title: "B", Status: workflow.StatusPublished},
		{ID: "3", TechnologySlug: "sql", Title: "C", Status: workflow.StatusPublished},
		{ID: "4", TechnologySlug: "go", Title: "D", Status: workflow.StatusPendingReview},
	}
	for _, it := range items {
		if err := f.store.InsertItem(ctx, it); err != nil {
			t.Fatal(err)
		}
	}
	topics, err := f.svc.Topics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 2 {
		t.Fatalf("topics: %+v", topics)
	}
	if topics[0].TechnologySlug != "go" || topics[0].PublishedCount != 2 {
		t.Fatalf("topics[0]: %+v", topics[0])
	}
	if topics[1].TechnologySlug != "sql" || topics[1].PublishedCount != 1 {
		t.Fatalf("topics[1]: %+v", topics[1])
	}
}
