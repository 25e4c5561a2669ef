package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/studybuddy-csulb/studybuddy-api/api"
	"github.com/studybuddy-csulb/studybuddy-api/config"
	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

// Invite struct mostly used for mocking tests
type Invite struct {
	Workflow *groups.Workflow
}

// InviteByHandleHandler invites a user to the caller's group by their handle
func (iv Invite) InviteByHandleHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	var body models.InviteByHandle
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := iv.Workflow.InviteByHandle(ctx, groupID, principal.UserID, body.Handle); err != nil {
		config.ErrorStatus("failed to create invite", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"status": "invited"}`))
}

// MyInvitesHandler returns the invites waiting on the caller across all
// groups
func (iv Invite) MyInvitesHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	items, err := iv.Workflow.ListMyInvites(ctx, principal.UserID)
	if err != nil {
		config.ErrorStatus("failed to list invites", statusForError(err), w, err)
		return
	}
	if items == nil {
		items = []models.Invite{}
	}

	b, err := json.Marshal(models.InviteListResponse{Items: items})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ListOutgoingInvitesHandler returns the open invites for a group the caller
// owns
func (iv Invite) ListOutgoingInvitesHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	items, err := iv.Workflow.ListOutgoingInvites(ctx, groupID, principal.UserID)
	if err != nil {
		config.ErrorStatus("failed to list invites", statusForError(err), w, err)
		return
	}
	if items == nil {
		items = []models.Invite{}
	}

	b, err := json.Marshal(models.InviteListResponse{Items: items})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AcceptInviteHandler accepts an invite on behalf of the invited caller,
// consuming the invite and admitting them in one transaction
func (iv Invite) AcceptInviteHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	groupID := vars["group_id"]
	userID := vars["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := iv.Workflow.AcceptInvite(ctx, groupID, userID, principal.UserID); err != nil {
		config.ErrorStatus("failed to accept invite", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "accepted"}`))
}

// DeleteInviteHandler withdraws an invite: the invitee declines it, or the
// owner cancels it
func (iv Invite) DeleteInviteHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	groupID := vars["group_id"]
	userID := vars["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := iv.Workflow.DeclineOrCancelInvite(ctx, groupID, userID, principal.UserID); err != nil {
		config.ErrorStatus("failed to delete invite", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "removed"}`))
}
