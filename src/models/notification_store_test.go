package models

import (
	"huddle/src/types"
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB, mock
}

func TestFindOrCreateNotificationInsertsWhenMissing(t *testing.T) {
	gormDB, mock := newMockDB()

	mock.ExpectQuery(`SELECT \* FROM "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	notification, err := FindOrCreateNotification(gormDB, &Notification{
		OrganizationMembershipID: 7,
		EventID:                  3,
		ActorID:                  5,
		Reason:                   types.REASON_MENTION,
		TargetType:               types.SUBJECT_POST,
		TargetID:                 11,
		Summary:                  "Alice mentioned you in Roadmap",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, notification.PublicID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateNotificationUpdatesLiveRow(t *testing.T) {
	gormDB, mock := newMockDB()

	rows := sqlmock.NewRows([]string{"id", "organization_membership_id", "event_id", "reason", "summary"}).
		AddRow(42, 7, 3, string(types.REASON_MENTION), "stale summary")
	mock.ExpectQuery(`SELECT \* FROM "notifications"`).WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	notification, err := FindOrCreateNotification(gormDB, &Notification{
		OrganizationMembershipID: 7,
		EventID:                  3,
		Reason:                   types.REASON_MENTION,
		TargetType:               types.SUBJECT_POST,
		TargetID:                 11,
		Summary:                  "Alice mentioned you in Roadmap",
	})
	assert.NoError(t, err)
	assert.Equal(t, uint(42), notification.ID)
	assert.Equal(t, "Alice mentioned you in Roadmap", notification.Summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
