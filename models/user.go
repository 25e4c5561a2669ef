package models

// JoinedStudyGroup is the denormalized copy of a group's scheduling fields
// kept inside the user document. It must always mirror the canonical group.
type JoinedStudyGroup struct {
	Name      string `json:"name" bson:"name"`
	Date      string `json:"date" bson:"date"`
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
}

// User holds the structure for the users collection in mongo. The document id
// is the verified identity-provider uid, not an ObjectID.
type User struct {
	ID                  string                      `json:"id" bson:"_id"`
	Handle              string                      `json:"handle" bson:"handle"`
	DisplayName         string                      `json:"displayName" bson:"displayName"`
	Email               string                      `json:"email" bson:"email"`
	JoinedStudyGroupIds []string                    `json:"joinedStudyGroupIds" bson:"joinedStudyGroupIds"`
	JoinedStudyGroups   map[string]JoinedStudyGroup `json:"joinedStudyGroups" bson:"joinedStudyGroups"`
}

// JoinedStudyGroupItem is one entry of the my-groups listing: the projection
// keyed back with its group id.
type JoinedStudyGroupItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// JoinedStudyGroupResponse wraps the my-groups listing
type JoinedStudyGroupResponse struct {
	Items []JoinedStudyGroupItem `json:"items"`
}

// Principal is the authenticated caller, validated once at the middleware
// boundary and passed by value into the core.
type Principal struct {
	UserID string
	Email  string
}
