package processors

import (
	"errors"
	"huddle/src/models"
	"huddle/src/types"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPlanRecipientsExcludesActor(t *testing.T) {
	actorID := uint(5)
	planned := PlanRecipients(&actorID, []ReasonSet{
		{Reason: types.REASON_MENTION, MembershipIDs: []uint{5, 7}},
	})
	assert.Equal(t, []PlannedNotification{
		{MembershipID: 7, Reason: types.REASON_MENTION},
	}, planned)
}

func TestPlanRecipientsFirstReasonWins(t *testing.T) {
	actorID := uint(1)
	planned := PlanRecipients(&actorID, []ReasonSet{
		{Reason: types.REASON_MENTION, MembershipIDs: []uint{7}},
		{Reason: types.REASON_PARENT_SUBSCRIPTION, MembershipIDs: []uint{7, 8}},
		{Reason: types.REASON_PROJECT_SUBSCRIPTION, MembershipIDs: []uint{7, 8, 9}},
	})
	assert.Equal(t, []PlannedNotification{
		{MembershipID: 7, Reason: types.REASON_MENTION},
		{MembershipID: 8, Reason: types.REASON_PARENT_SUBSCRIPTION},
		{MembershipID: 9, Reason: types.REASON_PROJECT_SUBSCRIPTION},
	}, planned)
}

func TestPlanRecipientsDeduplicatesWithinSet(t *testing.T) {
	actorID := uint(1)
	planned := PlanRecipients(&actorID, []ReasonSet{
		{Reason: types.REASON_POST_RESOLVED, MembershipIDs: []uint{4, 4, 4}},
	})
	assert.Len(t, planned, 1)
}

func TestPlanRecipientsNilActorKeepsEveryone(t *testing.T) {
	planned := PlanRecipients(nil, []ReasonSet{
		{Reason: types.REASON_PROCESSING_COMPLETE, MembershipIDs: []uint{3}},
	})
	assert.Equal(t, []PlannedNotification{
		{MembershipID: 3, Reason: types.REASON_PROCESSING_COMPLETE},
	}, planned)
}

func TestPlanRecipientsEmptySets(t *testing.T) {
	actorID := uint(1)
	planned := PlanRecipients(&actorID, []ReasonSet{
		{Reason: types.REASON_MENTION, MembershipIDs: []uint{}},
	})
	assert.Empty(t, planned)
}

// A mention recipient who passes the visibility gate gains a subscription on
// the target's subject before the notification row is stored.
func TestNotifyPlannedSubscribesMentionedRecipients(t *testing.T) {
	gormDB, mock := newMockDB()

	memberRows := sqlmock.NewRows([]string{"id", "organization_id", "user_id"}).
		AddRow(4, 1, 6)
	mock.ExpectQuery(`SELECT \* FROM "organization_memberships"`).WillReturnRows(memberRows)
	mock.ExpectQuery(`SELECT \* FROM "organizations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(6))
	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id"}).AddRow(9, 4))
	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()
	storeErr := errors.New("store unavailable")
	mock.ExpectQuery(`SELECT \* FROM "notifications"`).WillReturnError(storeErr)

	event := &models.Event{
		ID:             3,
		OrganizationID: 1,
		ActorType:      types.ACTOR_MEMBER,
		ActorID:        uintPtr(2),
		SubjectType:    types.SUBJECT_POST,
		SubjectID:      9,
		Action:         types.EVENT_CREATED,
	}
	planned := []PlannedNotification{{MembershipID: 4, Reason: types.REASON_MENTION}}
	err := notifyPlanned(gormDB, event, planned, target{
		Type:          types.SUBJECT_POST,
		ID:            9,
		Summary:       "Alice mentioned you in Roadmap",
		SubscribeType: types.SUBJECT_POST,
		SubscribeID:   9,
	}, nil)
	assert.ErrorIs(t, err, storeErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
