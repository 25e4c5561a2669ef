package groups_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/studybuddy-csulb/studybuddy-api/databases/mocks"
	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

// passthroughClient returns a client mock whose WithTransaction just runs the
// body, so manager tests exercise the real transaction code paths.
func passthroughClient() *mocks.ClientHelper {
	client := &mocks.ClientHelper{}
	client.On("WithTransaction", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
	return client
}

type storeMocks struct {
	client   *mocks.ClientHelper
	groups   *mocks.GroupDatabase
	users    *mocks.UserDatabase
	requests *mocks.JoinRequestDatabase
	invites  *mocks.InviteDatabase
}

func newStoreMocks() storeMocks {
	return storeMocks{
		client:   passthroughClient(),
		groups:   &mocks.GroupDatabase{},
		users:    &mocks.UserDatabase{},
		requests: &mocks.JoinRequestDatabase{},
		invites:  &mocks.InviteDatabase{},
	}
}

func (s storeMocks) stores() groups.Stores {
	return groups.Stores{
		Client:   s.client,
		Groups:   s.groups,
		Users:    s.users,
		Requests: s.requests,
		Invites:  s.invites,
	}
}

func (s storeMocks) assertExpectations(t *testing.T) {
	s.groups.AssertExpectations(t)
	s.users.AssertExpectations(t)
	s.requests.AssertExpectations(t)
	s.invites.AssertExpectations(t)
}

const (
	ownerID  = "owner-1"
	memberID = "member-1"
	otherID  = "other-1"
)

func fixtureGroup() *models.StudyGroup {
	return &models.StudyGroup{
		ID:           "65b1c6f0aa11bb22cc33dd44",
		Name:         "calc 2 finals",
		BuildingCode: "LA5",
		RoomNumber:   "245",
		Date:         "2026-02-02",
		StartTime:    "09:00",
		EndTime:      "10:30",
		OwnerID:      ownerID,
		Members:      []string{ownerID, memberID},
		Quantity:     2,
	}
}

func fixtureUser(id string) *models.User {
	return &models.User{
		ID:                  id,
		Handle:              "handle-" + id,
		DisplayName:         "Name " + id,
		Email:               id + "@csulb.edu",
		JoinedStudyGroupIds: []string{},
		JoinedStudyGroups:   map[string]models.JoinedStudyGroup{},
	}
}
