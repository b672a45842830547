package processors

import (
	"huddle/src/models"
	"huddle/src/types"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// Destroying a comment also sweeps the follow state of its direct replies.
func TestCommentDestroyCascadesToReplies(t *testing.T) {
	gormDB, mock := newMockDB()

	mock.ExpectQuery(`SELECT \* FROM "notifications"`).
		WithArgs("comment", 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "follow_ups"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "timeline_events"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subject_type", "subject_id", "member_id"}).
			AddRow(7, "post", 1, 2))
	mock.ExpectQuery(`SELECT "id" FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(8))
	mock.ExpectQuery(`SELECT \* FROM "notifications"`).
		WithArgs("comment", 8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "follow_ups"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "timeline_events"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := processCommentDestroyed(gormDB, &models.Event{
		ID:             2,
		OrganizationID: 1,
		ActorType:      types.ACTOR_MEMBER,
		ActorID:        uintPtr(2),
		SubjectType:    types.SUBJECT_COMMENT,
		SubjectID:      7,
		Action:         types.EVENT_DESTROYED,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
