package processors

import (
	"huddle/src/models"
	"huddle/src/types"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPermissionGrantSubscribesGrantee(t *testing.T) {
	gormDB, mock := newMockDB()

	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "subject_type", "subject_id"}).
			AddRow(12, 3, "note", 9))
	mock.ExpectQuery(`SELECT \* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "member_id"}).
			AddRow(9, 1, 2))
	mock.ExpectQuery(`SELECT \* FROM "organization_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "user_id"}).
			AddRow(4, 1, 3))
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := processPermissionCreated(gormDB, &models.Event{
		ID:             4,
		OrganizationID: 1,
		ActorType:      types.ACTOR_MEMBER,
		ActorID:        uintPtr(2),
		SubjectType:    types.SUBJECT_PERMISSION,
		SubjectID:      12,
		Action:         types.EVENT_CREATED,
		Metadata:       types.JSONB{"skip_notifications": true},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Losing the last path to a note takes the member's subscription, follow ups
// and favorites with it.
func TestPermissionRevokeRemovesFollowState(t *testing.T) {
	gormDB, mock := newMockDB()

	mock.ExpectQuery(`SELECT \* FROM "permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "subject_type", "subject_id"}).
			AddRow(12, 3, "note", 9))
	mock.ExpectQuery(`SELECT \* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "member_id"}).
			AddRow(9, 1, 2))
	mock.ExpectQuery(`SELECT \* FROM "organization_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "user_id"}).
			AddRow(4, 1, 3))
	mock.ExpectQuery(`SELECT \* FROM "organization_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "organization_id", "user_id"}).
			AddRow(4, 1, 3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "permissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "subscriptions"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "follow_ups"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "favorites"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := processPermissionDestroyed(gormDB, &models.Event{
		ID:             5,
		OrganizationID: 1,
		ActorType:      types.ACTOR_MEMBER,
		ActorID:        uintPtr(2),
		SubjectType:    types.SUBJECT_PERMISSION,
		SubjectID:      12,
		Action:         types.EVENT_DESTROYED,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
