package groups

import (
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

// ResolveRole computes a user's relationship to a group from the stored
// owner and member set. No side effects.
func ResolveRole(userID string, group *models.StudyGroup) models.GroupRole {
	if userID == group.OwnerID {
		return models.RoleOwner
	}
	for _, m := range group.Members {
		if m == userID {
			return models.RoleMember
		}
	}
	return models.RolePublic
}
