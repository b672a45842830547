package processors

import (
	"huddle/src/models"
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

func uintPtr(v uint) *uint {
	return &v
}

func TestPostPublicationSkipsDrafts(t *testing.T) {
	gormDB, mock := newMockDB()

	rows := sqlmock.NewRows([]string{"id", "organization_id", "member_id", "draft"}).
		AddRow(10, 1, 2, true)
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(rows)

	err := processPostPublished(gormDB, &models.Event{
		ID:             1,
		OrganizationID: 1,
		ActorType:      types.ACTOR_MEMBER,
		ActorID:        uintPtr(2),
		SubjectType:    types.SUBJECT_POST,
		SubjectID:      10,
		Action:         types.EVENT_PUBLISHED,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPublicationLoadsParentSubscribers(t *testing.T) {
	gormDB, mock := newMockDB()

	postRows := sqlmock.NewRows([]string{"id", "organization_id", "member_id", "parent_id", "draft"}).
		AddRow(10, 1, 2, 5, false)
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(postRows)
	authorSubRows := sqlmock.NewRows([]string{"id", "organization_membership_id", "subscribable_type", "subscribable_id"}).
		AddRow(1, 2, "post", 10)
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).WillReturnRows(authorSubRows)
	parentRows := sqlmock.NewRows([]string{"id", "organization_id", "member_id", "draft"}).
		AddRow(5, 1, 3, false)
	mock.ExpectQuery(`SELECT \* FROM "posts"`).WillReturnRows(parentRows)
	mock.ExpectQuery(`SELECT "organization_membership_id" FROM "subscriptions"`).
		WithArgs("post", 5).
		WillReturnRows(sqlmock.NewRows([]string{"organization_membership_id"}).AddRow(4))
	mock.ExpectQuery(`SELECT \* FROM "timeline_events"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := processPostPublished(gormDB, &models.Event{
		ID:             1,
		OrganizationID: 1,
		ActorType:      types.ACTOR_MEMBER,
		ActorID:        uintPtr(2),
		SubjectType:    types.SUBJECT_POST,
		SubjectID:      10,
		Action:         types.EVENT_PUBLISHED,
		Metadata:       types.JSONB{"skip_notifications": true},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
