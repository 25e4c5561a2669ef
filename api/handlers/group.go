package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/studybuddy-csulb/studybuddy-api/api"
	"github.com/studybuddy-csulb/studybuddy-api/config"
	"github.com/studybuddy-csulb/studybuddy-api/databases"
	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
	"github.com/studybuddy-csulb/studybuddy-api/schedule"
)

// Group struct mostly used for mocking tests
type Group struct {
	Lifecycle *groups.LifecycleManager
	GDB       databases.GroupDatabase
	UDB       databases.UserDatabase
	RDB       databases.JoinRequestDatabase
}

// CreateGroupHandler creates a new study group owned by the caller
func (g Group) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}

	var spec models.StudyGroupCreate
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	groupID, err := g.Lifecycle.Create(ctx, principal.UserID, spec)
	if err != nil {
		config.ErrorStatus("failed to create study group", statusForError(err), w, err)
		return
	}

	b, err := json.Marshal(map[string]string{"id": groupID})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// ListGroupsHandler returns every non-expired study group, each projected for
// the caller's role in it. Results are sorted by start instant.
func (g Group) ListGroupsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := g.GDB.Find(ctx, bson.M{"expireAt": bson.M{"$gt": time.Now().UTC()}})
	if err != nil {
		config.ErrorStatus("failed to list study groups", http.StatusServiceUnavailable, w, err)
		return
	}

	pending, err := g.pendingGroupIDs(ctx, principal.UserID)
	if err != nil {
		config.ErrorStatus("failed to list join requests", http.StatusServiceUnavailable, w, err)
		return
	}

	users, err := g.usersForGroups(ctx, dbResp)
	if err != nil {
		config.ErrorStatus("failed to resolve group members", http.StatusServiceUnavailable, w, err)
		return
	}

	sort.SliceStable(dbResp, func(i, j int) bool {
		a, errA := schedule.ToInstant(dbResp[i].Date, dbResp[i].StartTime)
		b, errB := schedule.ToInstant(dbResp[j].Date, dbResp[j].StartTime)
		if errA != nil || errB != nil {
			return false
		}
		return a.Before(b)
	})

	resp := models.StudyGroupListResponse{Items: []interface{}{}}
	for i := range dbResp {
		group := &dbResp[i]
		if _, found := users[group.OwnerID]; !found {
			continue // owner account gone, group is unservable
		}
		resp.Items = append(resp.Items, g.projectForCaller(group, principal.UserID, users, pending[group.ID]))
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// GroupHandler returns a single study group projected for the caller's role
func (g Group) GroupHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	group, err := g.GDB.FindOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		config.ErrorStatus("failed to get study group by ID", http.StatusNotFound, w, err)
		return
	}
	if !group.ExpireAt.After(time.Now().UTC()) {
		config.ErrorStatus("failed to get study group by ID", http.StatusNotFound, w, groups.ErrNotFound)
		return
	}

	pending, err := g.pendingGroupIDs(ctx, principal.UserID)
	if err != nil {
		config.ErrorStatus("failed to list join requests", http.StatusServiceUnavailable, w, err)
		return
	}

	users, err := g.usersForGroups(ctx, []models.StudyGroup{*group})
	if err != nil {
		config.ErrorStatus("failed to resolve group members", http.StatusServiceUnavailable, w, err)
		return
	}

	view := g.projectForCaller(group, principal.UserID, users, pending[group.ID])
	b, err := json.Marshal(view)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// MyStudyGroupsHandler returns the caller's joined groups straight from the
// projections in their user document, sorted by start instant. Projections
// whose window has already ended are omitted.
func (g Group) MyStudyGroupsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := g.UDB.FindOne(ctx, bson.M{"_id": principal.UserID})
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusNotFound, w, err)
		return
	}

	now := time.Now().UTC()
	resp := models.JoinedStudyGroupResponse{Items: []models.JoinedStudyGroupItem{}}
	for id, joined := range user.JoinedStudyGroups {
		if end, err := schedule.ToInstant(joined.Date, joined.EndTime); err == nil && !end.After(now) {
			continue // group already met
		}
		resp.Items = append(resp.Items, models.JoinedStudyGroupItem{
			ID:        id,
			Name:      joined.Name,
			Date:      joined.Date,
			StartTime: joined.StartTime,
			EndTime:   joined.EndTime,
		})
	}
	sort.SliceStable(resp.Items, func(i, j int) bool {
		a, errA := schedule.ToInstant(resp.Items[i].Date, resp.Items[i].StartTime)
		b, errB := schedule.ToInstant(resp.Items[j].Date, resp.Items[j].StartTime)
		if errA != nil || errB != nil {
			return false
		}
		return a.Before(b)
	})

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateGroupHandler renames a study group and fans the new name out to every
// member's projection
func (g Group) UpdateGroupHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	var patch models.StudyGroupUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := g.Lifecycle.UpdateName(ctx, groupID, principal.UserID, patch); err != nil {
		config.ErrorStatus("failed to update study group", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "updated"}`))
}

// DeleteGroupHandler deletes a study group and cascades over projections,
// requests, and invites
func (g Group) DeleteGroupHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := g.Lifecycle.Delete(ctx, groupID, principal.UserID); err != nil {
		config.ErrorStatus("failed to delete study group", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "deleted"}`))
}

// CleanupCurrentUserHandler removes every trace of the caller ahead of
// account deletion: owned groups, memberships, requests, and invites
func (g Group) CleanupCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := g.Lifecycle.CleanupAccount(ctx, principal.UserID); err != nil {
		config.ErrorStatus("failed to clean up user", statusForError(err), w, err)
		return
	}

	zap.S().Infow("cleaned up user", "userID", principal.UserID)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "cleaned"}`))
}

// pendingGroupIDs returns the set of group ids the user has an open join
// request against.
func (g Group) pendingGroupIDs(ctx context.Context, userID string) (map[string]bool, error) {
	reqs, err := g.RDB.Find(ctx, bson.M{"requesterId": userID})
	if err != nil {
		return nil, err
	}
	pending := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		pending[req.GroupID] = true
	}
	return pending, nil
}

// usersForGroups fetches the owner and member documents referenced by the
// given groups in one query, keyed by user id.
func (g Group) usersForGroups(ctx context.Context, groupList []models.StudyGroup) (map[string]models.User, error) {
	idSet := make(map[string]bool)
	for _, group := range groupList {
		idSet[group.OwnerID] = true
		for _, m := range group.Members {
			idSet[m] = true
		}
	}
	if len(idSet) == 0 {
		return map[string]models.User{}, nil
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := g.UDB.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// projectForCaller shapes one group for the caller: private view with member
// names for members and the owner, public view otherwise.
func (g Group) projectForCaller(group *models.StudyGroup, userID string, users map[string]models.User, hasPending bool) interface{} {
	owner, ok := users[group.OwnerID]
	if !ok {
		owner = models.User{ID: group.OwnerID}
	}

	role := groups.ResolveRole(userID, group)
	if role == models.RolePublic {
		return groups.ProjectPublic(group, &owner, hasPending)
	}

	memberNames := make([]string, 0, len(group.Members))
	for _, id := range group.Members {
		if member, found := users[id]; found {
			memberNames = append(memberNames, member.DisplayName)
		}
	}
	return groups.ProjectPrivate(group, &owner, role, memberNames, hasPending)
}
