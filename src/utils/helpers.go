package utils

import (
	"errors"
	"huddle/src/db"
	"huddle/src/models"
	"huddle/src/types"
	"time"

	"gorm.io/gorm"
)

var ErrUnknownSubjectType = errors.New("unknown subject type")

// recordEvent appends the event inside the mutation's transaction and queues
// it for processing once the caller's transaction commits.
func recordEvent(tx *gorm.DB, event *models.Event, queue *[]*models.Event) error {
	if err := models.RecordEvent(tx, event); err != nil {
		return err
	}
	*queue = append(*queue, event)
	return nil
}

func enqueueAll(events []*models.Event) {
	for _, event := range events {
		event.EnqueueProcess()
	}
}

func memberEvent(organizationID uint, actorID uint, subjectType types.SubjectType, subjectID uint, action types.EventAction, metadata types.JSONB) *models.Event {
	if metadata == nil {
		metadata = types.JSONB{}
	}
	return &models.Event{
		OrganizationID: organizationID,
		ActorType:      types.ACTOR_MEMBER,
		ActorID:        &actorID,
		SubjectType:    subjectType,
		SubjectID:      subjectID,
		Action:         action,
		Metadata:       metadata,
	}
}

func CreatePost(actorID uint, organizationID uint, body *types.CreatePostRequestBody) (*models.Post, error) {
	conn := db.GetDb()
	post := &models.Post{
		OrganizationID:  organizationID,
		MemberID:        actorID,
		ProjectID:       body.ProjectID,
		ParentID:        body.ParentID,
		Title:           body.Title,
		DescriptionHTML: body.DescriptionHTML,
		UnfurledLink:    body.UnfurledLink,
		Draft:           body.Draft,
	}
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			organizationID, actorID, types.SUBJECT_POST, post.ID, types.EVENT_CREATED, nil,
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return post, nil
}

func UpdatePost(actorID uint, postID uint, body *types.UpdatePostRequestBody) (*models.Post, error) {
	conn := db.GetDb()
	var post models.Post
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		changes := types.JSONB{}
		if body.Title != nil && *body.Title != post.Title {
			changes["title"] = []any{post.Title, *body.Title}
			post.Title = *body.Title
		}
		if body.DescriptionHTML != nil && *body.DescriptionHTML != post.DescriptionHTML {
			changes["description_html"] = []any{post.DescriptionHTML, *body.DescriptionHTML}
			post.DescriptionHTML = *body.DescriptionHTML
			now := time.Now().UTC()
			post.ContentUpdatedAt = &now
		}
		if body.ProjectID != nil && !equalUintPtr(body.ProjectID, post.ProjectID) {
			changes["project_id"] = []any{uintPtrValue(post.ProjectID), *body.ProjectID}
			post.ProjectID = body.ProjectID
		}
		if body.Visibility != nil && types.PostVisibility(*body.Visibility) != post.Visibility {
			changes["visibility"] = []any{string(post.Visibility), *body.Visibility}
			post.Visibility = types.PostVisibility(*body.Visibility)
		}
		if body.Resolved != nil && *body.Resolved != post.Resolved() {
			if *body.Resolved {
				now := time.Now().UTC()
				changes["resolved_at"] = []any{nil, now.Format(time.RFC3339)}
				post.ResolvedAt = &now
				post.ResolvedByID = &actorID
				post.ResolvedCommentID = body.ResolvedComment
			} else {
				changes["resolved_at"] = []any{post.ResolvedAt.Format(time.RFC3339), nil}
				post.ResolvedAt = nil
				post.ResolvedByID = nil
				post.ResolvedCommentID = nil
			}
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			post.OrganizationID, actorID, types.SUBJECT_POST, post.ID, types.EVENT_UPDATED,
			types.JSONB{"subject_previous_changes": map[string]any(changes)},
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return &post, nil
}

// PublishPost flips a draft live and fires the publication fan-out that was
// withheld at creation.
func PublishPost(actorID uint, postID uint) (*models.Post, error) {
	conn := db.GetDb()
	var post models.Post
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		if !post.Draft {
			return nil
		}
		post.Draft = false
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			post.OrganizationID, actorID, types.SUBJECT_POST, post.ID, types.EVENT_PUBLISHED, nil,
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return &post, nil
}

func DeletePost(actorID uint, postID uint) error {
	conn := db.GetDb()
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&post).UpdateColumn("discarded_at", now).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			post.OrganizationID, actorID, types.SUBJECT_POST, post.ID, types.EVENT_DESTROYED, nil,
		), &events)
	})
	if err != nil {
		return err
	}
	enqueueAll(events)
	return nil
}

func CreateComment(actorID uint, body *types.CreateCommentRequestBody) (*models.Comment, error) {
	conn := db.GetDb()
	subjectType := types.SubjectType(body.SubjectType)
	if subjectType != types.SUBJECT_POST && subjectType != types.SUBJECT_NOTE {
		return nil, ErrUnknownSubjectType
	}
	comment := &models.Comment{
		SubjectType: subjectType,
		SubjectID:   body.SubjectID,
		MemberID:    actorID,
		ParentID:    body.ParentID,
		BodyHTML:    body.BodyHTML,
	}
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		organizationID, err := models.SubjectOrganizationID(tx, subjectType, body.SubjectID)
		if err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			organizationID, actorID, types.SUBJECT_COMMENT, comment.ID, types.EVENT_CREATED, nil,
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return comment, nil
}

func UpdateComment(actorID uint, commentID uint, body *types.UpdateCommentRequestBody) (*models.Comment, error) {
	conn := db.GetDb()
	var comment models.Comment
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, commentID).Error; err != nil {
			return err
		}
		changes := types.JSONB{}
		if body.BodyHTML != nil && *body.BodyHTML != comment.BodyHTML {
			changes["body_html"] = []any{comment.BodyHTML, *body.BodyHTML}
			comment.BodyHTML = *body.BodyHTML
		}
		if body.Resolved != nil && *body.Resolved != comment.Resolved() {
			if *body.Resolved {
				now := time.Now().UTC()
				changes["resolved_at"] = []any{nil, now.Format(time.RFC3339)}
				comment.ResolvedAt = &now
				comment.ResolvedByID = &actorID
			} else {
				changes["resolved_at"] = []any{comment.ResolvedAt.Format(time.RFC3339), nil}
				comment.ResolvedAt = nil
				comment.ResolvedByID = nil
			}
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Save(&comment).Error; err != nil {
			return err
		}
		organizationID, err := models.SubjectOrganizationID(tx, comment.SubjectType, comment.SubjectID)
		if err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			organizationID, actorID, types.SUBJECT_COMMENT, comment.ID, types.EVENT_UPDATED,
			types.JSONB{"subject_previous_changes": map[string]any(changes)},
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return &comment, nil
}

func DeleteComment(actorID uint, commentID uint) error {
	conn := db.GetDb()
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return err
		}
		organizationID, err := models.SubjectOrganizationID(tx, comment.SubjectType, comment.SubjectID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&comment).UpdateColumn("discarded_at", now).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			organizationID, actorID, types.SUBJECT_COMMENT, comment.ID, types.EVENT_DESTROYED, nil,
		), &events)
	})
	if err != nil {
		return err
	}
	enqueueAll(events)
	return nil
}

func CreateNote(actorID uint, organizationID uint, body *types.CreateNoteRequestBody) (*models.Note, error) {
	conn := db.GetDb()
	note := &models.Note{
		OrganizationID:  organizationID,
		MemberID:        actorID,
		ProjectID:       body.ProjectID,
		Title:           body.Title,
		DescriptionHTML: body.DescriptionHTML,
	}
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			organizationID, actorID, types.SUBJECT_NOTE, note.ID, types.EVENT_CREATED, nil,
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return note, nil
}

func UpdateNote(actorID uint, noteID uint, body *types.UpdateNoteRequestBody) (*models.Note, error) {
	conn := db.GetDb()
	var note models.Note
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&note, noteID).Error; err != nil {
			return err
		}
		changes := types.JSONB{}
		if body.Title != nil && *body.Title != note.Title {
			changes["title"] = []any{note.Title, *body.Title}
			note.Title = *body.Title
		}
		if body.DescriptionHTML != nil && *body.DescriptionHTML != note.DescriptionHTML {
			changes["description_html"] = []any{note.DescriptionHTML, *body.DescriptionHTML}
			note.DescriptionHTML = *body.DescriptionHTML
		}
		if body.ProjectID != nil && !equalUintPtr(body.ProjectID, note.ProjectID) {
			changes["project_id"] = []any{uintPtrValue(note.ProjectID), *body.ProjectID}
			note.ProjectID = body.ProjectID
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Save(&note).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			note.OrganizationID, actorID, types.SUBJECT_NOTE, note.ID, types.EVENT_UPDATED,
			types.JSONB{"subject_previous_changes": map[string]any(changes)},
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return &note, nil
}

func DeleteNote(actorID uint, noteID uint) error {
	conn := db.GetDb()
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, noteID).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&note).UpdateColumn("discarded_at", now).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			note.OrganizationID, actorID, types.SUBJECT_NOTE, note.ID, types.EVENT_DESTROYED, nil,
		), &events)
	})
	if err != nil {
		return err
	}
	enqueueAll(events)
	return nil
}

func CreateReaction(actorID uint, body *types.CreateReactionRequestBody) (*models.Reaction, error) {
	conn := db.GetDb()
	subjectType := types.SubjectType(body.SubjectType)
	reaction := &models.Reaction{
		MemberID:    actorID,
		SubjectType: subjectType,
		SubjectID:   body.SubjectID,
		Content:     body.Content,
	}
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		organizationID, err := models.SubjectOrganizationID(tx, subjectType, body.SubjectID)
		if err != nil {
			return err
		}
		if err := tx.Create(reaction).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			organizationID, actorID, types.SUBJECT_REACTION, reaction.ID, types.EVENT_CREATED, nil,
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return reaction, nil
}

func DeleteReaction(actorID uint, reactionID uint) error {
	conn := db.GetDb()
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var reaction models.Reaction
		if err := tx.First(&reaction, reactionID).Error; err != nil {
			return err
		}
		organizationID, err := models.SubjectOrganizationID(tx, reaction.SubjectType, reaction.SubjectID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&reaction).UpdateColumn("discarded_at", now).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			organizationID, actorID, types.SUBJECT_REACTION, reaction.ID, types.EVENT_DESTROYED, nil,
		), &events)
	})
	if err != nil {
		return err
	}
	enqueueAll(events)
	return nil
}

// GrantNotePermission shares a note with a user. Regranting reuses the
// discarded row instead of stacking duplicates.
func GrantNotePermission(actorID uint, noteID uint, userID uint, action types.PermissionAction) (*models.Permission, error) {
	conn := db.GetDb()
	var permission models.Permission
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, noteID).Error; err != nil {
			return err
		}
		err := tx.
			Where(&models.Permission{UserID: userID, SubjectType: types.SUBJECT_NOTE, SubjectID: noteID}).
			First(&permission).
			Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err == gorm.ErrRecordNotFound {
			permission = models.Permission{
				UserID:      userID,
				SubjectType: types.SUBJECT_NOTE,
				SubjectID:   noteID,
				Action:      action,
			}
			if err := tx.Create(&permission).Error; err != nil {
				return err
			}
		} else {
			permission.Action = action
			permission.DiscardedAt = nil
			if err := tx.Save(&permission).Error; err != nil {
				return err
			}
		}
		return recordEvent(tx, memberEvent(
			note.OrganizationID, actorID, types.SUBJECT_PERMISSION, permission.ID, types.EVENT_CREATED, nil,
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return &permission, nil
}

func RevokeNotePermission(actorID uint, permissionID uint) error {
	conn := db.GetDb()
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var permission models.Permission
		if err := tx.First(&permission, permissionID).Error; err != nil {
			return err
		}
		var note models.Note
		if err := tx.First(&note, permission.SubjectID).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&permission).UpdateColumn("discarded_at", now).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			note.OrganizationID, actorID, types.SUBJECT_PERMISSION, permission.ID, types.EVENT_DESTROYED, nil,
		), &events)
	})
	if err != nil {
		return err
	}
	enqueueAll(events)
	return nil
}

// AddProjectMember is idempotent; re-adding a current member records no event.
func AddProjectMember(actorID uint, projectID uint, membershipID uint) (*models.ProjectMembership, error) {
	conn := db.GetDb()
	var projectMembership models.ProjectMembership
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			return err
		}
		err := tx.
			Where("project_id = ? AND organization_membership_id = ?", projectID, membershipID).
			First(&projectMembership).
			Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err == nil && projectMembership.DiscardedAt == nil {
			return nil
		}
		if err == gorm.ErrRecordNotFound {
			projectMembership = models.ProjectMembership{
				ProjectID:                projectID,
				OrganizationMembershipID: &membershipID,
			}
			if err := tx.Create(&projectMembership).Error; err != nil {
				return err
			}
		} else {
			projectMembership.DiscardedAt = nil
			if err := tx.Save(&projectMembership).Error; err != nil {
				return err
			}
		}
		return recordEvent(tx, memberEvent(
			project.OrganizationID, actorID, types.SUBJECT_PROJECT_MEMBERSHIP, projectMembership.ID, types.EVENT_CREATED, nil,
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return &projectMembership, nil
}

func RemoveProjectMember(actorID uint, projectMembershipID uint) error {
	conn := db.GetDb()
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var projectMembership models.ProjectMembership
		if err := tx.First(&projectMembership, projectMembershipID).Error; err != nil {
			return err
		}
		var project models.Project
		if err := tx.First(&project, projectMembership.ProjectID).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&projectMembership).UpdateColumn("discarded_at", now).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			project.OrganizationID, actorID, types.SUBJECT_PROJECT_MEMBERSHIP, projectMembership.ID, types.EVENT_DESTROYED, nil,
		), &events)
	})
	if err != nil {
		return err
	}
	enqueueAll(events)
	return nil
}

// PinSubject pins a post or note to its project. Repinning a discarded pin
// revives the same row, recorded as an update so the timeline can cancel a
// quick pin/unpin pair.
func PinSubject(actorID uint, projectID uint, subjectType types.SubjectType, subjectID uint) (*models.ProjectPin, error) {
	conn := db.GetDb()
	var pin models.ProjectPin
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, projectID).Error; err != nil {
			return err
		}
		err := tx.
			Where(&models.ProjectPin{ProjectID: projectID, SubjectType: subjectType, SubjectID: subjectID}).
			First(&pin).
			Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err == gorm.ErrRecordNotFound {
			pin = models.ProjectPin{
				ProjectID:   projectID,
				SubjectType: subjectType,
				SubjectID:   subjectID,
				PinnedByID:  &actorID,
			}
			if err := tx.Create(&pin).Error; err != nil {
				return err
			}
			return recordEvent(tx, memberEvent(
				project.OrganizationID, actorID, types.SUBJECT_PROJECT_PIN, pin.ID, types.EVENT_CREATED, nil,
			), &events)
		}
		if pin.DiscardedAt == nil {
			return nil
		}
		discardedAt := pin.DiscardedAt.Format(time.RFC3339)
		pin.DiscardedAt = nil
		pin.PinnedByID = &actorID
		if err := tx.Save(&pin).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			project.OrganizationID, actorID, types.SUBJECT_PROJECT_PIN, pin.ID, types.EVENT_UPDATED,
			types.JSONB{"subject_previous_changes": map[string]any{
				"discarded_at": []any{discardedAt, nil},
			}},
		), &events)
	})
	if err != nil {
		return nil, err
	}
	enqueueAll(events)
	return &pin, nil
}

func UnpinSubject(actorID uint, pinID uint) error {
	conn := db.GetDb()
	var events []*models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var pin models.ProjectPin
		if err := tx.First(&pin, pinID).Error; err != nil {
			return err
		}
		if pin.DiscardedAt != nil {
			return nil
		}
		var project models.Project
		if err := tx.First(&project, pin.ProjectID).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&pin).UpdateColumn("discarded_at", now).Error; err != nil {
			return err
		}
		return recordEvent(tx, memberEvent(
			project.OrganizationID, actorID, types.SUBJECT_PROJECT_PIN, pin.ID, types.EVENT_UPDATED,
			types.JSONB{"subject_previous_changes": map[string]any{
				"discarded_at": []any{nil, now.Format(time.RFC3339)},
			}},
		), &events)
	})
	if err != nil {
		return err
	}
	enqueueAll(events)
	return nil
}

func equalUintPtr(a *uint, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uintPtrValue(p *uint) any {
	if p == nil {
		return nil
	}
	return *p
}
