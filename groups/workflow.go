package groups

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/studybuddy-csulb/studybuddy-api/models"
	"github.com/studybuddy-csulb/studybuddy-api/schedule"
)

// Workflow manages the pending sub-records of a group: join requests created
// by prospective members and invites created by the owner, with their
// accept/decline/cancel transitions.
type Workflow struct {
	stores     Stores
	membership *MembershipManager
}

// NewWorkflow returns a request/invite workflow over the given stores
func NewWorkflow(stores Stores, membership *MembershipManager) *Workflow {
	return &Workflow{stores: stores, membership: membership}
}

func (w *Workflow) findGroup(ctx context.Context, groupID string) (*models.StudyGroup, error) {
	group, err := w.stores.Groups.FindOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return group, nil
}

// CreateJoinRequest records the caller's request to join a group. The caller
// must currently have no role in the group, and the group's window must not
// overlap any group they already joined.
func (w *Workflow) CreateJoinRequest(ctx context.Context, groupID, callerID string) error {
	user, err := w.stores.Users.FindOne(ctx, bson.M{"_id": callerID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return wrapStoreErr(err)
	}

	group, err := w.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if ResolveRole(callerID, group) != models.RolePublic {
		return ErrAlreadyInGroup
	}

	candidate, err := schedule.NewWindow(group.Date, group.StartTime, group.EndTime)
	if err != nil {
		return err
	}
	held, err := schedule.FromProjections(user.JoinedStudyGroups, "")
	if err != nil {
		return err
	}
	if schedule.HasConflict(held, candidate) {
		return ErrScheduleConflict
	}

	return wrapStoreErr(w.stores.Requests.Upsert(ctx, models.JoinRequest{
		GroupID:              groupID,
		RequesterID:          callerID,
		RequesterHandle:      user.Handle,
		RequesterDisplayName: user.DisplayName,
		CreatedAt:            time.Now().UTC(),
	}))
}

// ListJoinRequests returns the pending requests for a group, enriched with
// current requester display data. Owner only.
func (w *Workflow) ListJoinRequests(ctx context.Context, groupID, callerID string) ([]models.JoinRequestItem, error) {
	group, err := w.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if ResolveRole(callerID, group) != models.RoleOwner {
		return nil, ErrForbidden
	}

	reqs, err := w.stores.Requests.Find(ctx, bson.M{"groupId": groupID})
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	items := make([]models.JoinRequestItem, 0, len(reqs))
	for _, req := range reqs {
		requester, err := w.stores.Users.FindOne(ctx, bson.M{"_id": req.RequesterID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue // requester account gone, skip the stale request
			}
			return nil, wrapStoreErr(err)
		}
		items = append(items, models.JoinRequestItem{
			RequesterID:          req.RequesterID,
			RequesterHandle:      requester.Handle,
			RequesterDisplayName: requester.DisplayName,
			GroupID:              groupID,
			GroupName:            group.Name,
		})
	}
	return items, nil
}

// DeclineOrCancelRequest deletes a join request. Allowed for the requester
// themselves (cancel) or the group owner (decline); a missing request is a
// no-op.
func (w *Workflow) DeclineOrCancelRequest(ctx context.Context, groupID, userID, callerID string) error {
	group, err := w.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if callerID != userID && ResolveRole(callerID, group) != models.RoleOwner {
		return ErrForbidden
	}
	return wrapStoreErr(w.stores.Requests.DeleteOne(ctx, bson.M{"groupId": groupID, "requesterId": userID}))
}

// InviteByHandle records an owner's invitation of the user with the given
// handle. The invitee must exist, must not be the owner, must hold no role in
// the group, and must be free during the group's window.
func (w *Workflow) InviteByHandle(ctx context.Context, groupID, ownerID, handle string) error {
	group, err := w.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if ResolveRole(ownerID, group) != models.RoleOwner {
		return ErrForbidden
	}

	owner, err := w.stores.Users.FindOne(ctx, bson.M{"_id": ownerID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrOwnerNotFound
		}
		return wrapStoreErr(err)
	}

	invitee, err := w.stores.Users.FindByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return wrapStoreErr(err)
	}
	if invitee.ID == ownerID {
		return ErrInvalidInvite
	}
	if ResolveRole(invitee.ID, group) != models.RolePublic {
		return ErrAlreadyInGroup
	}

	candidate, err := schedule.NewWindow(group.Date, group.StartTime, group.EndTime)
	if err != nil {
		return err
	}
	held, err := schedule.FromProjections(invitee.JoinedStudyGroups, "")
	if err != nil {
		return err
	}
	if schedule.HasConflict(held, candidate) {
		return ErrScheduleConflict
	}

	return wrapStoreErr(w.stores.Invites.Upsert(ctx, models.Invite{
		GroupID:            groupID,
		GroupName:          group.Name,
		InviteeID:          invitee.ID,
		InviteeHandle:      invitee.Handle,
		InviteeDisplayName: invitee.DisplayName,
		OwnerID:            ownerID,
		OwnerHandle:        owner.Handle,
		OwnerDisplayName:   owner.DisplayName,
		CreatedAt:          time.Now().UTC(),
	}))
}

// ListMyInvites returns every pending invite addressed to the user, across
// all groups.
func (w *Workflow) ListMyInvites(ctx context.Context, userID string) ([]models.Invite, error) {
	invites, err := w.stores.Invites.Find(ctx, bson.M{"inviteeId": userID})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return invites, nil
}

// ListOutgoingInvites returns the pending invites under a group. Owner only.
func (w *Workflow) ListOutgoingInvites(ctx context.Context, groupID, callerID string) ([]models.Invite, error) {
	group, err := w.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if ResolveRole(callerID, group) != models.RoleOwner {
		return nil, ErrForbidden
	}
	invites, err := w.stores.Invites.Find(ctx, bson.M{"groupId": groupID})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return invites, nil
}

// AcceptInvite converts a pending invite into membership and consumes the
// invite in the same transaction. Only the invitee may accept. If the user is
// already in the group the call succeeds and just drops the stray invite.
func (w *Workflow) AcceptInvite(ctx context.Context, groupID, userID, callerID string) error {
	if callerID != userID {
		return ErrForbidden
	}

	err := w.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
		group, err := w.stores.Groups.FindOne(sc, bson.M{"_id": groupID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}

		inviteFilter := bson.M{"groupId": groupID, "inviteeId": userID}
		if ResolveRole(userID, group) != models.RolePublic {
			return w.stores.Invites.DeleteOne(sc, inviteFilter)
		}

		if _, err := w.stores.Invites.FindOne(sc, inviteFilter); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}

		// addMember consumes the invite along with any join request
		return w.membership.addMember(sc, group, userID)
	})
	return wrapStoreErr(err)
}

// DeclineOrCancelInvite deletes an invite. Allowed for the invitee (decline)
// or the group owner (cancel); a missing invite is a no-op.
func (w *Workflow) DeclineOrCancelInvite(ctx context.Context, groupID, userID, callerID string) error {
	group, err := w.findGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if callerID != userID && ResolveRole(callerID, group) != models.RoleOwner {
		return ErrForbidden
	}
	return wrapStoreErr(w.stores.Invites.DeleteOne(ctx, bson.M{"groupId": groupID, "inviteeId": userID}))
}
