package processors

import (
	"huddle/src/models"
	"huddle/src/types"

	"gorm.io/gorm"
)

// Summary generation finishes out of band, so the creator is told when the
// recording is ready. The actor is the system, meaning the creator is not
// excluded as a self-notify.
func processCallUpdated(tx *gorm.DB, event *models.Event) error {
	statusChanged := false
	for _, field := range []string{"generated_title_status", "generated_summary_status"} {
		if change, ok := event.PreviousChange(field); ok {
			if to, _ := change[1].(string); to == string(types.CALL_SUMMARY_COMPLETED) {
				statusChanged = true
			}
		}
	}
	if !statusChanged || event.SkipNotifications() {
		return nil
	}

	var call models.Call
	if err := tx.First(&call, event.SubjectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if !call.ProcessingComplete() {
		return nil
	}

	summary := "Your call recording is ready"
	if call.Title != "" {
		summary = "Summary ready for " + call.Title
	}
	planned := PlanRecipients(event.ActorMembershipID(), []ReasonSet{
		{Reason: types.REASON_PROCESSING_COMPLETE, MembershipIDs: []uint{call.MemberID}},
	})
	return notifyPlanned(tx, event, planned, target{
		Type:        types.SUBJECT_CALL,
		ID:          call.ID,
		Summary:     summary,
		BodyPreview: call.Title,
	}, nil)
}
