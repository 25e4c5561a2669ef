package groups_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

func fixtureCreate() models.StudyGroupCreate {
	return models.StudyGroupCreate{
		Name:         "calc 2 finals",
		BuildingCode: "LA5",
		RoomNumber:   "245",
		Date:         "2026-02-02",
		StartTime:    "09:00",
		EndTime:      "10:30",
	}
}

func newLifecycle(s storeMocks) *groups.LifecycleManager {
	return groups.NewLifecycleManager(s.stores(), groups.NewMembershipManager(s.stores()))
}

func TestLifecycle_CreateWritesGroupAndOwnerProjection(t *testing.T) {
	s := newStoreMocks()
	owner := fixtureUser(ownerID)

	var inserted models.StudyGroup
	s.users.On("FindOne", mock.Anything, bson.M{"_id": ownerID}).Return(owner, nil)
	s.groups.On("InsertOne", mock.Anything, mock.AnythingOfType("models.StudyGroup")).Return(nil).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(models.StudyGroup)
		})
	s.users.On("UpdateOne", mock.Anything, bson.M{"_id": ownerID}, mock.Anything).Return(nil, nil)

	l := newLifecycle(s)
	groupID, err := l.Create(context.Background(), ownerID, fixtureCreate())

	assert.NoError(t, err)
	assert.Len(t, groupID, 24)
	assert.Equal(t, groupID, inserted.ID)
	assert.Equal(t, ownerID, inserted.OwnerID)
	assert.Equal(t, []string{ownerID}, inserted.Members)
	assert.Equal(t, 1, inserted.Quantity)
	// expireAt is the UTC instant the window ends: 10:30 PST on Feb 2
	assert.Equal(t, time.Date(2026, 2, 2, 18, 30, 0, 0, time.UTC), inserted.ExpireAt)
	s.assertExpectations(t)
}

func TestLifecycle_CreateMalformedTime(t *testing.T) {
	s := newStoreMocks()
	spec := fixtureCreate()
	spec.EndTime = "26:00"

	l := newLifecycle(s)
	_, err := l.Create(context.Background(), ownerID, spec)

	assert.Error(t, err)
	s.client.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
}

func TestLifecycle_CreateOwnerNotFound(t *testing.T) {
	s := newStoreMocks()

	s.users.On("FindOne", mock.Anything, bson.M{"_id": ownerID}).Return(nil, mongo.ErrNoDocuments)

	l := newLifecycle(s)
	_, err := l.Create(context.Background(), ownerID, fixtureCreate())

	assert.ErrorIs(t, err, groups.ErrOwnerNotFound)
}

func TestLifecycle_CreateScheduleConflict(t *testing.T) {
	s := newStoreMocks()
	owner := fixtureUser(ownerID)
	owner.JoinedStudyGroups = map[string]models.JoinedStudyGroup{
		"busy": {Name: "bio", Date: "2026-02-02", StartTime: "10:00", EndTime: "11:00"},
	}

	s.users.On("FindOne", mock.Anything, bson.M{"_id": ownerID}).Return(owner, nil)

	l := newLifecycle(s)
	_, err := l.Create(context.Background(), ownerID, fixtureCreate())

	assert.ErrorIs(t, err, groups.ErrScheduleConflict)
	s.groups.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestLifecycle_UpdateNameFansOutToProjections(t *testing.T) {
	s := newStoreMocks()
	group := fixtureGroup()

	s.groups.On("FindOne", mock.Anything, bson.M{"_id": group.ID}).Return(group, nil)
	s.groups.On("UpdateOne", mock.Anything, bson.M{"_id": group.ID},
		bson.M{"$set": bson.M{"name": "new name"}}).Return(nil)
	s.users.On("UpdateMany", mock.Anything,
		bson.M{"joinedStudyGroupIds": group.ID},
		bson.M{"$set": bson.M{"joinedStudyGroups." + group.ID + ".name": "new name"}}).Return(nil, nil)

	l := newLifecycle(s)
	err := l.UpdateName(context.Background(), group.ID, ownerID, models.StudyGroupUpdate{Name: "new name"})

	assert.NoError(t, err)
	s.assertExpectations(t)
}

func TestLifecycle_UpdateNameForbiddenForMember(t *testing.T) {
	s := newStoreMocks()
	group := fixtureGroup()

	s.groups.On("FindOne", mock.Anything, bson.M{"_id": group.ID}).Return(group, nil)

	l := newLifecycle(s)
	err := l.UpdateName(context.Background(), group.ID, memberID, models.StudyGroupUpdate{Name: "x"})

	assert.ErrorIs(t, err, groups.ErrForbidden)
}

func TestLifecycle_DeleteCascades(t *testing.T) {
	s := newStoreMocks()
	group := fixtureGroup()

	s.groups.On("FindOne", mock.Anything, bson.M{"_id": group.ID}).Return(group, nil)
	s.users.On("UpdateMany", mock.Anything,
		bson.M{"joinedStudyGroupIds": group.ID},
		bson.M{
			"$pull":  bson.M{"joinedStudyGroupIds": group.ID},
			"$unset": bson.M{"joinedStudyGroups." + group.ID: ""},
		}).Return(nil, nil)
	s.requests.On("DeleteMany", mock.Anything, bson.M{"groupId": group.ID}).Return(nil)
	s.invites.On("DeleteMany", mock.Anything, bson.M{"groupId": group.ID}).Return(nil)
	s.groups.On("DeleteOne", mock.Anything, bson.M{"_id": group.ID}).Return(nil)

	l := newLifecycle(s)
	err := l.Delete(context.Background(), group.ID, ownerID)

	assert.NoError(t, err)
	s.assertExpectations(t)
}

func TestLifecycle_DeleteForbiddenForNonOwner(t *testing.T) {
	s := newStoreMocks()
	group := fixtureGroup()

	s.groups.On("FindOne", mock.Anything, bson.M{"_id": group.ID}).Return(group, nil)

	l := newLifecycle(s)
	err := l.Delete(context.Background(), group.ID, memberID)

	assert.ErrorIs(t, err, groups.ErrForbidden)
	s.groups.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}

func TestLifecycle_SweepExpired(t *testing.T) {
	s := newStoreMocks()
	old1 := *fixtureGroup()
	old2 := *fixtureGroup()
	old2.ID = "65b1c6f0aa11bb22cc33dd45"

	s.groups.On("Find", mock.Anything, mock.Anything).Return([]models.StudyGroup{old1, old2}, nil)
	s.users.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	s.requests.On("DeleteMany", mock.Anything, mock.Anything).Return(nil)
	s.invites.On("DeleteMany", mock.Anything, mock.Anything).Return(nil)
	s.groups.On("DeleteOne", mock.Anything, bson.M{"_id": old1.ID}).Return(nil)
	s.groups.On("DeleteOne", mock.Anything, bson.M{"_id": old2.ID}).Return(nil)

	l := newLifecycle(s)
	removed, err := l.SweepExpired(context.Background(), 24*time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, 2, removed)
	s.assertExpectations(t)
}

func TestLifecycle_CleanupAccount(t *testing.T) {
	s := newStoreMocks()
	owned := *fixtureGroup()
	joined := *fixtureGroup()
	joined.ID = "65b1c6f0aa11bb22cc33dd46"
	joined.OwnerID = otherID
	joined.Members = []string{otherID, ownerID}

	// groups the user owns get deleted with full cascade
	s.groups.On("Find", mock.Anything, bson.M{"ownerID": ownerID}).Return([]models.StudyGroup{owned}, nil)
	s.users.On("UpdateMany", mock.Anything, bson.M{"joinedStudyGroupIds": owned.ID}, mock.Anything).Return(nil, nil)
	s.requests.On("DeleteMany", mock.Anything, bson.M{"groupId": owned.ID}).Return(nil)
	s.invites.On("DeleteMany", mock.Anything, bson.M{"groupId": owned.ID}).Return(nil)
	s.groups.On("DeleteOne", mock.Anything, bson.M{"_id": owned.ID}).Return(nil)

	// groups the user joined get left
	s.groups.On("Find", mock.Anything, bson.M{"members": ownerID}).Return([]models.StudyGroup{joined}, nil)
	s.groups.On("FindOne", mock.Anything, bson.M{"_id": joined.ID}).Return(&joined, nil)
	s.groups.On("UpdateOne", mock.Anything, bson.M{"_id": joined.ID}, mock.Anything).Return(nil)
	s.users.On("UpdateOne", mock.Anything, bson.M{"_id": ownerID}, mock.Anything).Return(nil, nil)

	// authored requests and addressed invites dropped
	s.requests.On("DeleteMany", mock.Anything, bson.M{"requesterId": ownerID}).Return(nil)
	s.invites.On("DeleteMany", mock.Anything, bson.M{"inviteeId": ownerID}).Return(nil)

	l := newLifecycle(s)
	err := l.CleanupAccount(context.Background(), ownerID)

	assert.NoError(t, err)
	s.assertExpectations(t)
}
