package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/studybuddy-csulb/studybuddy-api/api"
	"github.com/studybuddy-csulb/studybuddy-api/api/scheduler"
	"github.com/studybuddy-csulb/studybuddy-api/config"
	"github.com/studybuddy-csulb/studybuddy-api/databases"
	"github.com/studybuddy-csulb/studybuddy-api/groups"
	"github.com/studybuddy-csulb/studybuddy-api/models"
	"github.com/studybuddy-csulb/studybuddy-api/schedule"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	client    databases.ClientHelper
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	stores := groups.Stores{
		Client:   a.client,
		Groups:   databases.NewGroupDatabase(a.dbHelper),
		Users:    databases.NewUserDatabase(a.dbHelper),
		Requests: databases.NewJoinRequestDatabase(a.dbHelper),
		Invites:  databases.NewInviteDatabase(a.dbHelper),
	}
	membership := groups.NewMembershipManager(stores)
	lifecycle := groups.NewLifecycleManager(stores, membership)
	workflow := groups.NewWorkflow(stores, membership)

	a.Scheduler = scheduler.NewScheduler(lifecycle)

	g := Group{Lifecycle: lifecycle, GDB: stores.Groups, UDB: stores.Users, RDB: stores.Requests}
	m := Member{Membership: membership}
	rq := Request{Workflow: workflow}
	iv := Invite{Workflow: workflow}

	auth := api.Auth{Config: a.Config}

	r := mux.NewRouter()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/groups", auth.Middleware(http.HandlerFunc(g.CreateGroupHandler))).Methods("POST")
	apiCreate.Handle("/groups", auth.Middleware(http.HandlerFunc(g.ListGroupsHandler))).Methods("GET")
	apiCreate.Handle("/groups/myStudyGroups", auth.Middleware(http.HandlerFunc(g.MyStudyGroupsHandler))).Methods("GET")
	apiCreate.Handle("/groups/myInvites", auth.Middleware(http.HandlerFunc(iv.MyInvitesHandler))).Methods("GET")
	apiCreate.Handle("/groups/cleanupCurrentUser", auth.Middleware(http.HandlerFunc(g.CleanupCurrentUserHandler))).Methods("POST")
	apiCreate.Handle("/groups/{group_id}", auth.Middleware(http.HandlerFunc(g.GroupHandler))).Methods("GET")
	apiCreate.Handle("/groups/{group_id}", auth.Middleware(http.HandlerFunc(g.UpdateGroupHandler))).Methods("PATCH")
	apiCreate.Handle("/groups/{group_id}", auth.Middleware(http.HandlerFunc(g.DeleteGroupHandler))).Methods("DELETE")
	apiCreate.Handle("/groups/{group_id}/members/currentUser", auth.Middleware(http.HandlerFunc(m.LeaveGroupHandler))).Methods("DELETE")
	apiCreate.Handle("/groups/{group_id}/members/{user_id}", auth.Middleware(http.HandlerFunc(m.AddMemberHandler))).Methods("POST")
	apiCreate.Handle("/groups/{group_id}/requests/currentUser", auth.Middleware(http.HandlerFunc(rq.CreateJoinRequestHandler))).Methods("POST")
	apiCreate.Handle("/groups/{group_id}/requests", auth.Middleware(http.HandlerFunc(rq.ListJoinRequestsHandler))).Methods("GET")
	apiCreate.Handle("/groups/{group_id}/requests/{user_id}", auth.Middleware(http.HandlerFunc(rq.DeleteJoinRequestHandler))).Methods("DELETE")
	apiCreate.Handle("/groups/{group_id}/inviteByHandle", auth.Middleware(http.HandlerFunc(iv.InviteByHandleHandler))).Methods("POST")
	apiCreate.Handle("/groups/{group_id}/invites", auth.Middleware(http.HandlerFunc(iv.ListOutgoingInvitesHandler))).Methods("GET")
	apiCreate.Handle("/groups/{group_id}/invites/{user_id}/accept", auth.Middleware(http.HandlerFunc(iv.AcceptInviteHandler))).Methods("POST")
	apiCreate.Handle("/groups/{group_id}/invites/{user_id}", auth.Middleware(http.HandlerFunc(iv.DeleteInviteHandler))).Methods("DELETE")

	r.Use(api.TimeoutMiddleware(30 * time.Second))

	return r
}

// Initialize connects the database, wires the router, and starts the
// background sweeper
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}
	a.client = client

	err = client.Connect(context.Background())
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("studybuddy-api has connected to the database")

	if err := schedule.SetCampusZone(a.Config.CampusTimeZone); err != nil {
		zap.S().With(err).Error("failed to load campus time zone")
		return err
	}

	// initialize api router
	a.Router = a.New()

	a.Scheduler.Start()
	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
