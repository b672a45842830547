package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type JSONBArray []any

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Handler func(string)

// SubjectType identifies the concrete entity behind a polymorphic reference.
type SubjectType string

const (
	SUBJECT_POST               SubjectType = "post"
	SUBJECT_COMMENT            SubjectType = "comment"
	SUBJECT_NOTE               SubjectType = "note"
	SUBJECT_PROJECT            SubjectType = "project"
	SUBJECT_PROJECT_MEMBERSHIP SubjectType = "project_membership"
	SUBJECT_PROJECT_PIN        SubjectType = "project_pin"
	SUBJECT_PERMISSION         SubjectType = "permission"
	SUBJECT_REACTION           SubjectType = "reaction"
	SUBJECT_MESSAGE            SubjectType = "message"
	SUBJECT_CALL               SubjectType = "call"
	SUBJECT_FOLLOW_UP          SubjectType = "follow_up"
)

// ActorType identifies who performed the mutation behind an event.
type ActorType string

const (
	ACTOR_MEMBER ActorType = "member"
	ACTOR_APP    ActorType = "oauth_application"
	ACTOR_NONE   ActorType = ""
)

type EventAction string

const (
	EVENT_CREATED   EventAction = "created"
	EVENT_UPDATED   EventAction = "updated"
	EVENT_DESTROYED EventAction = "destroyed"
	EVENT_PUBLISHED EventAction = "published"
)

type NotificationReason string

const (
	REASON_MENTION                    NotificationReason = "mention"
	REASON_PARENT_SUBSCRIPTION        NotificationReason = "parent_subscription"
	REASON_AUTHOR                     NotificationReason = "author"
	REASON_PROJECT_SUBSCRIPTION       NotificationReason = "project_subscription"
	REASON_PERMISSION_GRANTED         NotificationReason = "permission_granted"
	REASON_ADDED                      NotificationReason = "added"
	REASON_COMMENT_RESOLVED           NotificationReason = "comment_resolved"
	REASON_POST_RESOLVED              NotificationReason = "post_resolved"
	REASON_POST_RESOLVED_FROM_COMMENT NotificationReason = "post_resolved_from_comment"
	REASON_FOLLOW_UP                  NotificationReason = "follow_up"
	REASON_PROCESSING_COMPLETE        NotificationReason = "processing_complete"
)

type TargetScope string

const (
	SCOPE_NONE       TargetScope = ""
	SCOPE_REACTION   TargetScope = "reaction"
	SCOPE_PERMISSION TargetScope = "permission"
)

type TimelineAction string

const (
	TIMELINE_POST_RESOLVED             TimelineAction = "post_resolved"
	TIMELINE_POST_UNRESOLVED           TimelineAction = "post_unresolved"
	TIMELINE_POST_VISIBILITY_UPDATED   TimelineAction = "post_visibility_updated"
	TIMELINE_SUBJECT_PROJECT_UPDATED   TimelineAction = "subject_project_updated"
	TIMELINE_SUBJECT_TITLE_UPDATED     TimelineAction = "subject_title_updated"
	TIMELINE_SUBJECT_PINNED            TimelineAction = "subject_pinned"
	TIMELINE_SUBJECT_UNPINNED          TimelineAction = "subject_unpinned"
	TIMELINE_SUBJECT_REFERENCED        TimelineAction = "subject_referenced_in_internal_record"
)

type PostVisibility string

const (
	POST_VISIBILITY_DEFAULT PostVisibility = "default"
	POST_VISIBILITY_PUBLIC  PostVisibility = "public"
)

type PermissionAction string

const (
	PERMISSION_VIEW PermissionAction = "view"
	PERMISSION_EDIT PermissionAction = "edit"
)

// Webhook event types an oauth application can subscribe to.
const (
	WEBHOOK_APP_MENTIONED   = "app.mentioned"
	WEBHOOK_POST_CREATED    = "post.created"
	WEBHOOK_COMMENT_CREATED = "comment.created"
)

type CallSummaryStatus string

const (
	CALL_SUMMARY_PENDING    CallSummaryStatus = "pending"
	CALL_SUMMARY_PROCESSING CallSummaryStatus = "processing"
	CALL_SUMMARY_COMPLETED  CallSummaryStatus = "completed"
)

type CreatePostRequestBody struct {
	Title           string  `json:"title,omitempty"`
	DescriptionHTML string  `json:"description_html,omitempty"`
	ProjectID       *uint   `json:"project,omitempty"`
	ParentID        *uint   `json:"parent,omitempty"`
	Draft           bool    `json:"draft,omitempty"`
	UnfurledLink    *string `json:"unfurled_link,omitempty"`
}

type UpdatePostRequestBody struct {
	Title           *string `json:"title,omitempty"`
	DescriptionHTML *string `json:"description_html,omitempty"`
	ProjectID       *uint   `json:"project,omitempty"`
	Visibility      *string `json:"visibility,omitempty" binding:"omitempty,postvisibility"`
	Resolved        *bool   `json:"resolved,omitempty"`
	ResolvedComment *uint   `json:"resolved_comment,omitempty"`
}

type CreateCommentRequestBody struct {
	SubjectType string `json:"subject_type" binding:"required"`
	SubjectID   uint   `json:"subject_id" binding:"required"`
	BodyHTML    string `json:"body_html" binding:"required"`
	ParentID    *uint  `json:"parent,omitempty"`
}

type UpdateCommentRequestBody struct {
	BodyHTML *string `json:"body_html,omitempty"`
	Resolved *bool   `json:"resolved,omitempty"`
}

type CreateNoteRequestBody struct {
	Title           string `json:"title,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
	ProjectID       *uint  `json:"project,omitempty"`
}

type UpdateNoteRequestBody struct {
	Title           *string `json:"title,omitempty"`
	DescriptionHTML *string `json:"description_html,omitempty"`
	ProjectID       *uint   `json:"project,omitempty"`
}

type CreateReactionRequestBody struct {
	SubjectType string `json:"subject_type" binding:"required"`
	SubjectID   uint   `json:"subject_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}
