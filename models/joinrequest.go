package models

import (
	"time"
)

// JoinRequest holds the structure for the joinRequests collection in mongo.
// One document per (group, requester); it exists only while the requester has
// no role in the group.
type JoinRequest struct {
	GroupID              string    `json:"groupId" bson:"groupId"`
	RequesterID          string    `json:"requesterId" bson:"requesterId"`
	RequesterHandle      string    `json:"requesterHandle" bson:"requesterHandle"`
	RequesterDisplayName string    `json:"requesterDisplayName" bson:"requesterDisplayName"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
}

// JoinRequestItem is one entry of the owner's request listing, enriched with
// the group name.
type JoinRequestItem struct {
	RequesterID          string `json:"requesterId"`
	RequesterHandle      string `json:"requesterHandle"`
	RequesterDisplayName string `json:"requesterDisplayName"`
	GroupID              string `json:"groupId"`
	GroupName            string `json:"groupName"`
}

// JoinRequestListResponse wraps the owner's request listing
type JoinRequestListResponse struct {
	Items []JoinRequestItem `json:"items"`
}
