package groups

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studybuddy-csulb/studybuddy-api/models"
	"github.com/studybuddy-csulb/studybuddy-api/schedule"
)

// MembershipManager keeps group.members, group.quantity and the member's
// embedded projection consistent. Every mutation runs inside one store
// transaction.
type MembershipManager struct {
	stores Stores
}

// NewMembershipManager returns a membership manager over the given stores
func NewMembershipManager(stores Stores) *MembershipManager {
	return &MembershipManager{stores: stores}
}

// Accept adds userID to the group when the owner accepts their join request.
// The caller must be the group owner. Adding an existing member is a no-op
// that still consumes any stale join request or invite.
func (m *MembershipManager) Accept(ctx context.Context, groupID, userID, callerID string) error {
	err := m.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
		group, err := m.stores.Groups.FindOne(sc, bson.M{"_id": groupID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}
		if ResolveRole(callerID, group) != models.RoleOwner {
			return ErrForbidden
		}
		return m.addMember(sc, group, userID)
	})
	return wrapStoreErr(err)
}

// Leave removes the caller from the group. Owners must delete their group
// instead; leaving a group the caller is not in is a no-op.
func (m *MembershipManager) Leave(ctx context.Context, groupID, callerID string) error {
	err := m.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
		group, err := m.stores.Groups.FindOne(sc, bson.M{"_id": groupID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}
		switch ResolveRole(callerID, group) {
		case models.RoleOwner:
			return ErrForbidden
		case models.RolePublic:
			return nil
		}
		return m.removeMember(sc, groupID, callerID)
	})
	return wrapStoreErr(err)
}

// addMember performs the membership write set. It must run inside an open
// transaction; group is the snapshot read within that transaction.
func (m *MembershipManager) addMember(sc context.Context, group *models.StudyGroup, userID string) error {
	if ResolveRole(userID, group) != models.RolePublic {
		// already in the group: just consume any stale pending records
		return m.consumePending(sc, group.ID, userID)
	}

	user, err := m.stores.Users.FindOne(sc, bson.M{"_id": userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	candidate, err := schedule.NewWindow(group.Date, group.StartTime, group.EndTime)
	if err != nil {
		return err
	}
	held, err := schedule.FromProjections(user.JoinedStudyGroups, group.ID)
	if err != nil {
		return err
	}
	if schedule.HasConflict(held, candidate) {
		return ErrScheduleConflict
	}

	if err := m.stores.Groups.UpdateOne(sc, bson.M{"_id": group.ID}, bson.M{
		"$addToSet": bson.M{"members": userID},
		"$inc":      bson.M{"quantity": 1},
	}); err != nil {
		return err
	}

	projection := models.JoinedStudyGroup{
		Name:      group.Name,
		Date:      group.Date,
		StartTime: group.StartTime,
		EndTime:   group.EndTime,
	}
	if _, err := m.stores.Users.UpdateOne(sc, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"joinedStudyGroupIds": group.ID},
		"$set":      bson.M{"joinedStudyGroups." + group.ID: projection},
	}); err != nil {
		return err
	}

	return m.consumePending(sc, group.ID, userID)
}

// consumePending deletes the join request and invite a new member may still
// hold against the group; neither record can outlive the membership.
func (m *MembershipManager) consumePending(sc context.Context, groupID, userID string) error {
	if err := m.stores.Requests.DeleteOne(sc, bson.M{"groupId": groupID, "requesterId": userID}); err != nil {
		return err
	}
	return m.stores.Invites.DeleteOne(sc, bson.M{"groupId": groupID, "inviteeId": userID})
}

// removeMember undoes the membership write set for a confirmed member. The
// caller has already verified membership inside the same transaction, so the
// quantity decrement can never drop below the true count.
func (m *MembershipManager) removeMember(sc context.Context, groupID, userID string) error {
	if err := m.stores.Groups.UpdateOne(sc, bson.M{"_id": groupID}, bson.M{
		"$pull": bson.M{"members": userID},
		"$inc":  bson.M{"quantity": -1},
	}); err != nil {
		return err
	}

	_, err := m.stores.Users.UpdateOne(sc, bson.M{"_id": userID}, bson.M{
		"$pull":  bson.M{"joinedStudyGroupIds": groupID},
		"$unset": bson.M{"joinedStudyGroups." + groupID: ""},
	})
	return err
}
