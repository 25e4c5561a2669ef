package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/studybuddy-csulb/studybuddy-api/api"
	"github.com/studybuddy-csulb/studybuddy-api/config"
	"github.com/studybuddy-csulb/studybuddy-api/groups"
)

// Member struct mostly used for mocking tests
type Member struct {
	Membership *groups.MembershipManager
}

// AddMemberHandler accepts a pending join request: the owner admits the
// requester into the group
func (m Member) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	groupID := vars["group_id"]
	userID := vars["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := m.Membership.Accept(ctx, groupID, userID, principal.UserID); err != nil {
		config.ErrorStatus("failed to add member", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "added"}`))
}

// LeaveGroupHandler removes the caller from a group they are a member of.
// Owners cannot leave their own group; they delete it instead.
func (m Member) LeaveGroupHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := m.Membership.Leave(ctx, groupID, principal.UserID); err != nil {
		config.ErrorStatus("failed to leave study group", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "left"}`))
}
