package workflow

type ItemStatus string

const (
	StatusPendingReview ItemStatus = "pending_review"
	StatusApproved      ItemStatus = "approved"
	StatusRejected      ItemStatus = "rejected"
	StatusPublished     ItemStatus = "published"
)

type EventStatus string

const (
	EventPublished  EventStatus = "published"
	EventRolledBack EventStatus = "rolled_back"
)

// Audit action names emitted on workflow transitions.
const (
	ActionIngested         = "CONTENT_INGESTED"
	ActionApproved         = "CONTENT_APPROVED"
	ActionRejected         = "CONTENT_REJECTED"
	ActionPublishTriggered = "PUBLISH_TRIGGERED"
	ActionPublishRollback  = "PUBLISH_ROLLBACK"
)

// summaryPrefix heads every PublishEvent summary; History strips it back
// off to recover the display title.
const summaryPrefix = "Published: "

// ReviewItem is one generated content unit under admin governance. Rows
// are never hard-deleted; transitions preserve row identity.
type ReviewItem struct {
	ID             string     `json:"id"`
	TechnologySlug string     `json:"technology_slug"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	Status         ItemStatus `json:"status"`
	GeneratedAt    int64      `json:"generated_at"`
	UpdatedAt      int64      `json:"updated_at"`
}

// PublishEvent records one publish action. Rollback reclassifies the same
// row to rolled_back; it never creates a new one.
type PublishEvent struct {
	ID         string      `json:"id"`
	ContentRef string      `json:"content_ref"`
	Status     EventStatus `json:"status"`
	Summary    string      `json:"summary"`
	CreatedAt  int64       `json:"created_at"`

	// Title is a display annotation populated by History only.
	Title string `json:"title,omitempty"`
}

// TopicSummary is one technology slug with its published content count.
type TopicSummary struct {
	TechnologySlug string `json:"technology_slug"`
	PublishedCount int    `json:"published_count"`
}
