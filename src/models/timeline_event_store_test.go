package models

import (
	"huddle/src/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// A recent row from an unrelated action on the same subject must not shield
// the opposite action from cancelling; the rollup only looks at its own
// action family.
func TestSyncTimelineEventCancelsOppositePastUnrelatedRows(t *testing.T) {
	gormDB, mock := newMockDB()

	actorID := uint(5)
	rows := sqlmock.NewRows([]string{"id", "actor_id", "subject_type", "subject_id", "action", "created_at"}).
		AddRow(21, 5, "post", 9, string(types.TIMELINE_POST_RESOLVED), time.Now().UTC().Add(-2*time.Second))
	mock.ExpectQuery(`SELECT \* FROM "timeline_events" WHERE .* AND action IN`).
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "timeline_events"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := SyncTimelineEvent(gormDB, &TimelineEvent{
		ActorID:     &actorID,
		SubjectType: types.SUBJECT_POST,
		SubjectID:   9,
		Action:      types.TIMELINE_POST_UNRESOLVED,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
