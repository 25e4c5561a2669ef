package models

import (
	"time"
)

// GroupRole describes a user's relationship to a study group. It is derived
// from the group document, never stored.
type GroupRole string

// The three access levels a user can hold for a group.
const (
	RolePublic GroupRole = "public"
	RoleMember GroupRole = "member"
	RoleOwner  GroupRole = "owner"
)

// StudyGroup holds the structure for the studyGroups collection in mongo
type StudyGroup struct {
	ID                       string    `json:"id" bson:"_id"`
	Name                     string    `json:"name" bson:"name"`
	BuildingCode             string    `json:"buildingCode" bson:"buildingCode"`
	RoomNumber               string    `json:"roomNumber" bson:"roomNumber"`
	Date                     string    `json:"date" bson:"date"`
	StartTime                string    `json:"startTime" bson:"startTime"`
	EndTime                  string    `json:"endTime" bson:"endTime"`
	ExpireAt                 time.Time `json:"expireAt" bson:"expireAt"`
	OwnerID                  string    `json:"ownerID" bson:"ownerID"`
	Members                  []string  `json:"members" bson:"members"`
	Quantity                 int       `json:"quantity" bson:"quantity"`
	AvailabilitySlotDocument string    `json:"availabilitySlotDocument" bson:"availabilitySlotDocument"`
}

// StudyGroupCreate is the request body for creating a study group
type StudyGroupCreate struct {
	Name                     string `json:"name"`
	BuildingCode             string `json:"buildingCode"`
	RoomNumber               string `json:"roomNumber"`
	Date                     string `json:"date"`      // YYYY-MM-DD
	StartTime                string `json:"startTime"` // HH:MM, 24 hr
	EndTime                  string `json:"endTime"`   // HH:MM, 24 hr
	AvailabilitySlotDocument string `json:"availabilitySlotDocument"`
}

// StudyGroupUpdate is the request body for editing a study group. Name is the
// only editable field; anything else in the payload is ignored.
type StudyGroupUpdate struct {
	Name string `json:"name"`
}

// StudyGroupPublicView is the shape of a group returned to users outside the
// group. It carries the occupancy count but not the member list.
type StudyGroupPublicView struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	BuildingCode             string    `json:"buildingCode"`
	RoomNumber               string    `json:"roomNumber"`
	Date                     string    `json:"date"`
	StartTime                string    `json:"startTime"`
	EndTime                  string    `json:"endTime"`
	Quantity                 int       `json:"quantity"`
	Access                   GroupRole `json:"access"`
	OwnerID                  string    `json:"ownerID"`
	OwnerHandle              string    `json:"ownerHandle"`
	OwnerDisplayName         string    `json:"ownerDisplayName"`
	AvailabilitySlotDocument string    `json:"availabilitySlotDocument"`
	HasPendingRequest        bool      `json:"hasPendingRequest"`
}

// StudyGroupPrivateView is the shape of a group returned to its members and
// owner. Members holds resolved display names, not ids.
type StudyGroupPrivateView struct {
	StudyGroupPublicView
	Members []string `json:"members"`
}

// StudyGroupListResponse wraps the role-projected group listing. Items holds
// a mix of public and private views depending on the caller's role per group.
type StudyGroupListResponse struct {
	Items []interface{} `json:"items"`
}
