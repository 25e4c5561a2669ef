package groups

import (
	"github.com/studybuddy-csulb/studybuddy-api/models"
)

// ProjectPublic shapes a group for a viewer outside the group: occupancy
// count only, no member names.
func ProjectPublic(group *models.StudyGroup, owner *models.User, hasPending bool) models.StudyGroupPublicView {
	return models.StudyGroupPublicView{
		ID:                       group.ID,
		Name:                     group.Name,
		BuildingCode:             group.BuildingCode,
		RoomNumber:               group.RoomNumber,
		Date:                     group.Date,
		StartTime:                group.StartTime,
		EndTime:                  group.EndTime,
		Quantity:                 group.Quantity,
		Access:                   models.RolePublic,
		OwnerID:                  group.OwnerID,
		OwnerHandle:              owner.Handle,
		OwnerDisplayName:         owner.DisplayName,
		AvailabilitySlotDocument: group.AvailabilitySlotDocument,
		HasPendingRequest:        hasPending,
	}
}

// ProjectPrivate shapes a group for a member or the owner, including resolved
// display names for every member.
func ProjectPrivate(group *models.StudyGroup, owner *models.User, role models.GroupRole, memberNames []string, hasPending bool) models.StudyGroupPrivateView {
	view := models.StudyGroupPrivateView{
		StudyGroupPublicView: ProjectPublic(group, owner, hasPending),
		Members:              memberNames,
	}
	view.Access = role
	return view
}
