package groups

import (
	"github.com/studybuddy-csulb/studybuddy-api/databases"
)

// Stores bundles the database dependencies shared by the managers. Client
// provides the transaction boundary; the typed stores must be backed by the
// same client so their calls join an open transaction via the session
// context.
type Stores struct {
	Client   databases.ClientHelper
	Groups   databases.GroupDatabase
	Users    databases.UserDatabase
	Requests databases.JoinRequestDatabase
	Invites  databases.InviteDatabase
}
