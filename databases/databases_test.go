package databases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/studybuddy-csulb/studybuddy-api/databases"
	"github.com/studybuddy-csulb/studybuddy-api/databases/mocks"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

func TestGroupDatabaseFindOne(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}

	singleResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.StudyGroup)
		arg.ID = "g1"
		arg.Name = "calc 2 finals"
	})
	conn.On("FindOne", mock.Anything, bson.M{"_id": "g1"}).Return(singleResult)
	db.On("Collection", "studyGroups").Return(conn)

	groupDB := databases.NewGroupDatabase(db)
	group, err := groupDB.FindOne(context.Background(), bson.M{"_id": "g1"})

	assert.NoError(t, err)
	assert.Equal(t, "g1", group.ID)
	assert.Equal(t, "calc 2 finals", group.Name)
}

func TestGroupDatabaseFindOneDecodeError(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}

	singleResult.On("Decode", mock.Anything).Return(errors.New("mocked-error"))
	conn.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	db.On("Collection", "studyGroups").Return(conn)

	groupDB := databases.NewGroupDatabase(db)
	group, err := groupDB.FindOne(context.Background(), bson.M{"_id": "g1"})

	assert.Nil(t, group)
	assert.EqualError(t, err, "mocked-error")
}

func TestGroupDatabaseFindDrainsCursor(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}

	cursor.On("All", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(1).(*[]models.StudyGroup)
		*arg = []models.StudyGroup{{ID: "g1"}, {ID: "g2"}}
	})
	cursor.On("Close", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "studyGroups").Return(conn)

	groupDB := databases.NewGroupDatabase(db)
	found, err := groupDB.Find(context.Background(), bson.M{})

	assert.NoError(t, err)
	assert.Len(t, found, 2)
	cursor.AssertCalled(t, "Close", mock.Anything)
}

func TestUserDatabaseFindByHandle(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	singleResult := &mocks.SingleResultHelper{}

	singleResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		arg.ID = "u1"
		arg.Handle = "mattyb"
	})
	conn.On("FindOne", mock.Anything, bson.M{"handle": "mattyb"}).Return(singleResult)
	db.On("Collection", "users").Return(conn)

	userDB := databases.NewUserDatabase(db)
	user, err := userDB.FindByHandle(context.Background(), "mattyb")

	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestJoinRequestDatabaseUpsertKeysByGroupAndRequester(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("UpdateOne", mock.Anything,
		bson.M{"groupId": "g1", "requesterId": "u1"},
		mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "joinRequests").Return(conn)

	reqDB := databases.NewJoinRequestDatabase(db)
	err := reqDB.Upsert(context.Background(), models.JoinRequest{GroupID: "g1", RequesterID: "u1"})

	assert.NoError(t, err)
	conn.AssertExpectations(t)
}

func TestInviteDatabaseUpsertKeysByGroupAndInvitee(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("UpdateOne", mock.Anything,
		bson.M{"groupId": "g1", "inviteeId": "u2"},
		mock.Anything, mock.Anything).Return(nil, nil)
	db.On("Collection", "invites").Return(conn)

	inviteDB := databases.NewInviteDatabase(db)
	err := inviteDB.Upsert(context.Background(), models.Invite{GroupID: "g1", InviteeID: "u2"})

	assert.NoError(t, err)
	conn.AssertExpectations(t)
}
