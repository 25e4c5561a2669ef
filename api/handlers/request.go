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

// Request struct mostly used for mocking tests
type Request struct {
	Workflow *groups.Workflow
}

// CreateJoinRequestHandler files the caller's join request against a group
func (rq Request) CreateJoinRequestHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := rq.Workflow.CreateJoinRequest(ctx, groupID, principal.UserID); err != nil {
		config.ErrorStatus("failed to create join request", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"status": "requested"}`))
}

// ListJoinRequestsHandler returns the pending join requests for a group the
// caller owns
func (rq Request) ListJoinRequestsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	groupID := mux.Vars(r)["group_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	items, err := rq.Workflow.ListJoinRequests(ctx, groupID, principal.UserID)
	if err != nil {
		config.ErrorStatus("failed to list join requests", statusForError(err), w, err)
		return
	}
	if items == nil {
		items = []models.JoinRequestItem{}
	}

	b, err := json.Marshal(models.JoinRequestListResponse{Items: items})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// DeleteJoinRequestHandler withdraws a join request: the requester cancels
// their own, or the owner declines it
func (rq Request) DeleteJoinRequestHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := caller(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	groupID := vars["group_id"]
	userID := vars["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := rq.Workflow.DeclineOrCancelRequest(ctx, groupID, userID, principal.UserID); err != nil {
		config.ErrorStatus("failed to delete join request", statusForError(err), w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "removed"}`))
}
