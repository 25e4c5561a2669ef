package models

import (
	"time"
)

// Invite holds the structure for the invites collection in mongo. One
// document per (group, invitee); it exists only while the invitee has no role
// in the group and is consumed on accept, decline, cancel, or group deletion.
type Invite struct {
	GroupID            string    `json:"groupId" bson:"groupId"`
	GroupName          string    `json:"groupName" bson:"groupName"`
	InviteeID          string    `json:"inviteeId" bson:"inviteeId"`
	InviteeHandle      string    `json:"inviteeHandle" bson:"inviteeHandle"`
	InviteeDisplayName string    `json:"inviteeDisplayName" bson:"inviteeDisplayName"`
	OwnerID            string    `json:"ownerId" bson:"ownerId"`
	OwnerHandle        string    `json:"ownerHandle" bson:"ownerHandle"`
	OwnerDisplayName   string    `json:"ownerDisplayName" bson:"ownerDisplayName"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
}

// InviteByHandle is the request body for inviting a user by their handle
type InviteByHandle struct {
	Handle string `json:"handle"`
}

// InviteListResponse wraps an invite listing (outgoing per group, or incoming
// per user)
type InviteListResponse struct {
	Items []Invite `json:"items"`
}
