package processors

import (
	"fmt"
	"huddle/src/models"
	"huddle/src/types"
	"huddle/src/utils"
	"log"

	"gorm.io/gorm"
)

func processPostCreated(tx *gorm.DB, event *models.Event) error {
	return processPostPublication(tx, event)
}

// Publishing a draft fires the same fan-out a non-draft creation does; the
// created event for a draft was a no-op.
func processPostPublished(tx *gorm.DB, event *models.Event) error {
	return processPostPublication(tx, event)
}

func processPostPublication(tx *gorm.DB, event *models.Event) error {
	var post models.Post
	if err := tx.First(&post, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if post.Draft || post.DiscardedAt != nil {
		return nil
	}

	if err := models.FindOrCreateSubscription(tx, post.MemberID, types.SUBJECT_POST, post.ID); err != nil {
		return err
	}

	projectSubscriberIDs := []uint{}
	if post.ProjectID != nil {
		for _, sub := range models.ProjectSubscriptions(tx, *post.ProjectID) {
			projectSubscriberIDs = append(projectSubscriberIDs, sub.OrganizationMembershipID)
			if !sub.Cascade {
				continue
			}
			if err := models.FindOrCreateSubscription(tx, sub.OrganizationMembershipID, types.SUBJECT_POST, post.ID); err != nil {
				return err
			}
		}
	}

	// Subscribers of the parent post follow every iteration posted under it.
	parentSubscriberIDs := []uint{}
	if post.ParentID != nil {
		var parent models.Post
		if err := tx.First(&parent, *post.ParentID).Error; err == nil {
			parentSubscriberIDs = parent.SubscriberMembershipIDs(tx)
		} else {
			log.Printf("[processors] Error loading parent post [%d]: %s\n", *post.ParentID, err.Error())
		}
	}

	if !event.SkipNotifications() {
		actorName := actorDisplayName(tx, event)
		planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
			{Reason: types.REASON_MENTION, MembershipIDs: utils.ExtractMentionedMemberIDs(post.DescriptionHTML)},
			{Reason: types.REASON_PARENT_SUBSCRIPTION, MembershipIDs: parentSubscriberIDs},
			{Reason: types.REASON_PROJECT_SUBSCRIPTION, MembershipIDs: projectSubscriberIDs},
		})
		summaries := map[types.NotificationReason]string{
			types.REASON_MENTION:              fmt.Sprintf("%s mentioned you in %s", actorName, postLabel(&post)),
			types.REASON_PARENT_SUBSCRIPTION:  fmt.Sprintf("%s posted a new iteration of %s", actorName, postLabel(&post)),
			types.REASON_PROJECT_SUBSCRIPTION: fmt.Sprintf("%s posted %s", actorName, postLabel(&post)),
		}
		if err := notifyPlanned(tx, event, planned, target{
			Type:          types.SUBJECT_POST,
			ID:            post.ID,
			BodyPreview:   post.Title,
			SubscribeType: types.SUBJECT_POST,
			SubscribeID:   post.ID,
		}, summaries); err != nil {
			return err
		}

		enqueueWebhookEvent(post.OrganizationID, types.WEBHOOK_POST_CREATED, map[string]any{
			"post_id": post.ID,
		})
		enqueueAppMentions(tx, post.OrganizationID, utils.ExtractMentionedAppIDs(post.DescriptionHTML), map[string]any{
			"post_id": post.ID,
		})
	}

	if err := models.SyncReferenceTimelineEvents(
		tx, event.ActorMembershipID(), types.SUBJECT_POST, post.ID,
		utils.ExtractSubjectReferences(post.DescriptionHTML),
	); err != nil {
		return err
	}

	if post.ProjectID != nil {
		var project models.Project
		if err := tx.First(&project, *post.ProjectID).Error; err == nil {
			project.UpdateLastActivityAt(tx)
			excludeID := uint(0)
			if id := event.ActorMembershipID(); id != nil {
				excludeID = *id
			}
			broadcastToMemberships(tx, project.MemberAndFavoriterIDs(tx, excludeID), "project-memberships-stale", map[string]any{
				"project_id": project.ID,
			})
		} else {
			log.Printf("[processors] Error loading project [%d]: %s\n", *post.ProjectID, err.Error())
		}
	}

	var organization models.Organization
	if err := tx.First(&organization, post.OrganizationID).Error; err != nil {
		log.Printf("[processors] Error loading organization [%d]: %s\n", post.OrganizationID, err.Error())
	} else {
		broadcast(organization.ChannelName(), "posts-stale", map[string]any{})
		broadcast(organization.ChannelName(), "new-post", map[string]any{"post_id": post.ID})
	}
	return nil
}

func processPostUpdated(tx *gorm.DB, event *models.Event) error {
	var post models.Post
	if err := tx.First(&post, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if post.Draft || post.DiscardedAt != nil {
		return nil
	}
	actorName := actorDisplayName(tx, event)

	if change, ok := event.PreviousChange("description_html"); ok {
		oldContent, newContent := stringChange(change)
		if !event.SkipNotifications() {
			planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
				{Reason: types.REASON_MENTION, MembershipIDs: utils.AddedMentionedMemberIDs(oldContent, newContent)},
			})
			if err := notifyPlanned(tx, event, planned, target{
				Type:          types.SUBJECT_POST,
				ID:            post.ID,
				Summary:       fmt.Sprintf("%s mentioned you in %s", actorName, postLabel(&post)),
				BodyPreview:   post.Title,
				SubscribeType: types.SUBJECT_POST,
				SubscribeID:   post.ID,
			}, nil); err != nil {
				return err
			}
			enqueueAppMentions(tx, post.OrganizationID, utils.AddedMentionedAppIDs(oldContent, newContent), map[string]any{
				"post_id": post.ID,
			})
		}
		if err := models.SyncReferenceTimelineEvents(
			tx, event.ActorMembershipID(), types.SUBJECT_POST, post.ID,
			utils.ExtractSubjectReferences(newContent),
		); err != nil {
			return err
		}
	}

	if change, ok := event.PreviousChange("title"); ok {
		from, to := stringChange(change)
		if err := models.SyncTimelineEvent(tx, &models.TimelineEvent{
			ActorID:     event.ActorMembershipID(),
			SubjectType: types.SUBJECT_POST,
			SubjectID:   post.ID,
			Action:      types.TIMELINE_SUBJECT_TITLE_UPDATED,
			Metadata:    types.JSONB{"from_title": from, "to_title": to},
		}); err != nil {
			return err
		}
	}

	if change, ok := event.PreviousChange("project_id"); ok {
		if err := models.SyncTimelineEvent(tx, &models.TimelineEvent{
			ActorID:     event.ActorMembershipID(),
			SubjectType: types.SUBJECT_POST,
			SubjectID:   post.ID,
			Action:      types.TIMELINE_SUBJECT_PROJECT_UPDATED,
			Metadata:    types.JSONB{"from_project_id": change[0], "to_project_id": change[1]},
		}); err != nil {
			return err
		}
	}

	if change, ok := event.PreviousChange("visibility"); ok {
		from, to := stringChange(change)
		if err := models.SyncTimelineEvent(tx, &models.TimelineEvent{
			ActorID:     event.ActorMembershipID(),
			SubjectType: types.SUBJECT_POST,
			SubjectID:   post.ID,
			Action:      types.TIMELINE_POST_VISIBILITY_UPDATED,
			Metadata:    types.JSONB{"from_visibility": from, "to_visibility": to},
		}); err != nil {
			return err
		}
	}

	if change, ok := event.PreviousChange("resolved_at"); ok {
		switch {
		case change[0] == nil && change[1] != nil:
			if err := processPostResolved(tx, event, &post, actorName); err != nil {
				return err
			}
		case change[0] != nil && change[1] == nil:
			if err := processPostUnresolved(tx, event, &post); err != nil {
				return err
			}
		}
	}

	broadcastPostsStale(tx, post.OrganizationID)
	return nil
}

func processPostResolved(tx *gorm.DB, event *models.Event, post *models.Post, actorName string) error {
	if err := models.SyncTimelineEvent(tx, &models.TimelineEvent{
		ActorID:     event.ActorMembershipID(),
		SubjectType: types.SUBJECT_POST,
		SubjectID:   post.ID,
		Action:      types.TIMELINE_POST_RESOLVED,
	}); err != nil {
		return err
	}
	if event.SkipNotifications() {
		return nil
	}

	resolvedCommentAuthorIDs := []uint{}
	if post.ResolvedCommentID != nil {
		var comment models.Comment
		if err := tx.First(&comment, *post.ResolvedCommentID).Error; err == nil {
			resolvedCommentAuthorIDs = append(resolvedCommentAuthorIDs, comment.MemberID)
		}
	}

	planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
		{Reason: types.REASON_POST_RESOLVED_FROM_COMMENT, MembershipIDs: resolvedCommentAuthorIDs},
		{Reason: types.REASON_POST_RESOLVED, MembershipIDs: post.SubscriberMembershipIDs(tx)},
	})
	summaries := map[types.NotificationReason]string{
		types.REASON_POST_RESOLVED_FROM_COMMENT: fmt.Sprintf("%s resolved %s with your comment", actorName, postLabel(post)),
		types.REASON_POST_RESOLVED:              fmt.Sprintf("%s resolved %s", actorName, postLabel(post)),
	}
	return notifyPlanned(tx, event, planned, target{
		Type:        types.SUBJECT_POST,
		ID:          post.ID,
		BodyPreview: post.Title,
	}, summaries)
}

// Unresolving withdraws the resolution notifications instead of issuing new
// ones.
func processPostUnresolved(tx *gorm.DB, event *models.Event, post *models.Post) error {
	if err := models.SyncTimelineEvent(tx, &models.TimelineEvent{
		ActorID:     event.ActorMembershipID(),
		SubjectType: types.SUBJECT_POST,
		SubjectID:   post.ID,
		Action:      types.TIMELINE_POST_UNRESOLVED,
	}); err != nil {
		return err
	}
	models.DiscardNotificationsForReasons(tx, types.SUBJECT_POST, post.ID, []types.NotificationReason{
		types.REASON_POST_RESOLVED,
		types.REASON_POST_RESOLVED_FROM_COMMENT,
	})
	return nil
}

func processPostDestroyed(tx *gorm.DB, event *models.Event) error {
	models.DiscardNotificationsForTarget(tx, types.SUBJECT_POST, event.SubjectID, types.SCOPE_NONE)
	models.DestroyFollowUps(tx, types.SUBJECT_POST, event.SubjectID)
	models.DestroyFavorites(tx, types.SUBJECT_POST, event.SubjectID)
	if err := models.DiscardProjectPins(tx, types.SUBJECT_POST, event.SubjectID); err != nil {
		return err
	}
	models.DeleteTimelineEventsForSubject(tx, types.SUBJECT_POST, event.SubjectID)
	models.DeleteReferenceTimelineEvents(tx, types.SUBJECT_POST, event.SubjectID)
	broadcastPostsStale(tx, event.OrganizationID)
	return nil
}

func postLabel(post *models.Post) string {
	if post.Title != "" {
		return post.Title
	}
	return "a post"
}

func stringChange(change []any) (string, string) {
	from, _ := change[0].(string)
	to, _ := change[1].(string)
	return from, to
}
