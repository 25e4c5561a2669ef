package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/mock"

	"github.com/studybuddy-csulb/studybuddy-api/api"
	"github.com/studybuddy-csulb/studybuddy-api/databases/mocks"
	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

const (
	ownerID  = "owner-1"
	memberID = "member-1"
	otherID  = "other-1"
)

type storeMocks struct {
	client   *mocks.ClientHelper
	groups   *mocks.GroupDatabase
	users    *mocks.UserDatabase
	requests *mocks.JoinRequestDatabase
	invites  *mocks.InviteDatabase
}

func newStoreMocks() storeMocks {
	client := &mocks.ClientHelper{}
	client.On("WithTransaction", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
	return storeMocks{
		client:   client,
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

func (s storeMocks) membership() *groups.MembershipManager {
	return groups.NewMembershipManager(s.stores())
}

func (s storeMocks) lifecycle() *groups.LifecycleManager {
	return groups.NewLifecycleManager(s.stores(), s.membership())
}

func (s storeMocks) workflow() *groups.Workflow {
	return groups.NewWorkflow(s.stores(), s.membership())
}

// authedRequest builds a request carrying an authenticated principal the way
// the middleware would, plus any mux path vars.
func authedRequest(method, target string, body io.Reader, userID string, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req = req.WithContext(api.WithPrincipal(req.Context(), models.Principal{
		UserID: userID,
		Email:  userID + "@csulb.edu",
	}))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

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
