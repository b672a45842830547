package workers

import (
	"huddle/src/db"
	"huddle/src/models"
	"huddle/src/types"
	"log"

	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

// HandleCallStatusMessage consumes status updates from the external
// summarization workers. Once both artifacts land, the recorded event tells
// the creator their recording is ready.
func HandleCallStatusMessage(message string) {
	callID := gjson.Get(message, "call_id").Uint()
	if callID == 0 {
		log.Printf("[calls] Skipping message without call_id: %s\n", message)
		return
	}
	conn := db.GetDb()
	var event *models.Event
	err := conn.Transaction(func(tx *gorm.DB) error {
		var call models.Call
		if err := tx.First(&call, uint(callID)).Error; err != nil {
			return err
		}
		changes := types.JSONB{}
		if v := gjson.Get(message, "title_status"); v.Exists() {
			status := types.CallSummaryStatus(v.String())
			if status != call.GeneratedTitleStatus {
				changes["generated_title_status"] = []any{string(call.GeneratedTitleStatus), string(status)}
				call.GeneratedTitleStatus = status
			}
		}
		if v := gjson.Get(message, "summary_status"); v.Exists() {
			status := types.CallSummaryStatus(v.String())
			if status != call.GeneratedSummaryStatus {
				changes["generated_summary_status"] = []any{string(call.GeneratedSummaryStatus), string(status)}
				call.GeneratedSummaryStatus = status
			}
		}
		if v := gjson.Get(message, "title"); v.Exists() && call.Title == "" {
			call.Title = v.String()
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Save(&call).Error; err != nil {
			return err
		}
		event = &models.Event{
			OrganizationID: call.OrganizationID,
			ActorType:      types.ACTOR_NONE,
			SubjectType:    types.SUBJECT_CALL,
			SubjectID:      call.ID,
			Action:         types.EVENT_UPDATED,
			Metadata:       types.JSONB{"subject_previous_changes": map[string]any(changes)},
		}
		return models.RecordEvent(tx, event)
	})
	if err != nil {
		log.Printf("[calls] Error applying status update for call [%d]: %s\n", callID, err.Error())
		return
	}
	if event != nil {
		event.EnqueueProcess()
	}
}
