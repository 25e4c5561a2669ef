package groups

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/studybuddy-csulb/studybuddy-api/models"
	"github.com/studybuddy-csulb/studybuddy-api/schedule"
)

// LifecycleManager orchestrates create, rename and delete of a study group,
// keeping every member's embedded projection in step with the canonical
// group document.
type LifecycleManager struct {
	stores     Stores
	membership *MembershipManager
}

// NewLifecycleManager returns a lifecycle manager over the given stores
func NewLifecycleManager(stores Stores, membership *MembershipManager) *LifecycleManager {
	return &LifecycleManager{stores: stores, membership: membership}
}

// Create validates the candidate window against the owner's joined groups and
// writes the group document plus the owner's projection in one transaction.
// Returns the new group id.
func (l *LifecycleManager) Create(ctx context.Context, ownerID string, spec models.StudyGroupCreate) (string, error) {
	// reject malformed literals before touching the store
	window, err := schedule.NewWindow(spec.Date, spec.StartTime, spec.EndTime)
	if err != nil {
		return "", err
	}

	groupID := primitive.NewObjectID().Hex()

	err = l.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
		owner, err := l.stores.Users.FindOne(sc, bson.M{"_id": ownerID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrOwnerNotFound
			}
			return err
		}

		held, err := schedule.FromProjections(owner.JoinedStudyGroups, "")
		if err != nil {
			return err
		}
		if schedule.HasConflict(held, window) {
			return ErrScheduleConflict
		}

		group := models.StudyGroup{
			ID:                       groupID,
			Name:                     spec.Name,
			BuildingCode:             spec.BuildingCode,
			RoomNumber:               spec.RoomNumber,
			Date:                     spec.Date,
			StartTime:                spec.StartTime,
			EndTime:                  spec.EndTime,
			ExpireAt:                 window.End,
			OwnerID:                  ownerID,
			Members:                  []string{ownerID},
			Quantity:                 1,
			AvailabilitySlotDocument: spec.AvailabilitySlotDocument,
		}
		if err := l.stores.Groups.InsertOne(sc, group); err != nil {
			return err
		}

		projection := models.JoinedStudyGroup{
			Name:      spec.Name,
			Date:      spec.Date,
			StartTime: spec.StartTime,
			EndTime:   spec.EndTime,
		}
		_, err = l.stores.Users.UpdateOne(sc, bson.M{"_id": ownerID}, bson.M{
			"$addToSet": bson.M{"joinedStudyGroupIds": groupID},
			"$set":      bson.M{"joinedStudyGroups." + groupID: projection},
		})
		return err
	})
	if err != nil {
		return "", wrapStoreErr(err)
	}
	return groupID, nil
}

// UpdateName renames a group and fans the new name out to every member's
// projection in the same commit. Name is the only editable field.
func (l *LifecycleManager) UpdateName(ctx context.Context, groupID, callerID string, patch models.StudyGroupUpdate) error {
	err := l.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
		group, err := l.stores.Groups.FindOne(sc, bson.M{"_id": groupID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}
		if ResolveRole(callerID, group) != models.RoleOwner {
			return ErrForbidden
		}

		if err := l.stores.Groups.UpdateOne(sc, bson.M{"_id": groupID},
			bson.M{"$set": bson.M{"name": patch.Name}}); err != nil {
			return err
		}

		_, err = l.stores.Users.UpdateMany(sc,
			bson.M{"joinedStudyGroupIds": groupID},
			bson.M{"$set": bson.M{"joinedStudyGroups." + groupID + ".name": patch.Name}})
		return err
	})
	return wrapStoreErr(err)
}

// Delete removes a group, every member's projection entry and all pending
// join requests and invites under it, atomically. Only the owner may delete.
func (l *LifecycleManager) Delete(ctx context.Context, groupID, callerID string) error {
	err := l.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
		group, err := l.stores.Groups.FindOne(sc, bson.M{"_id": groupID})
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNotFound
			}
			return err
		}
		if ResolveRole(callerID, group) != models.RoleOwner {
			return ErrForbidden
		}
		return l.deleteGroup(sc, groupID)
	})
	return wrapStoreErr(err)
}

// deleteGroup performs the cascade inside an open transaction.
func (l *LifecycleManager) deleteGroup(sc context.Context, groupID string) error {
	if _, err := l.stores.Users.UpdateMany(sc,
		bson.M{"joinedStudyGroupIds": groupID},
		bson.M{
			"$pull":  bson.M{"joinedStudyGroupIds": groupID},
			"$unset": bson.M{"joinedStudyGroups." + groupID: ""},
		}); err != nil {
		return err
	}
	if err := l.stores.Requests.DeleteMany(sc, bson.M{"groupId": groupID}); err != nil {
		return err
	}
	if err := l.stores.Invites.DeleteMany(sc, bson.M{"groupId": groupID}); err != nil {
		return err
	}
	return l.stores.Groups.DeleteOne(sc, bson.M{"_id": groupID})
}

// SweepExpired deletes every group whose window ended more than the grace
// period ago, cascade included. Returns the number of groups removed. A
// failure on one group does not stop the sweep.
func (l *LifecycleManager) SweepExpired(ctx context.Context, grace time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-grace)
	expired, err := l.stores.Groups.Find(ctx, bson.M{"expireAt": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, wrapStoreErr(err)
	}

	removed := 0
	var lastErr error
	for _, g := range expired {
		groupID := g.ID
		err := l.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
			return l.deleteGroup(sc, groupID)
		})
		if err != nil {
			zap.S().Errorw("failed to sweep expired study group", "groupID", groupID, "error", err)
			lastErr = wrapStoreErr(err)
			continue
		}
		removed++
	}
	return removed, lastErr
}

// CleanupAccount runs when a user is being removed from the system: delete
// every group they own, remove them from every group they joined, then drop
// their authored join requests and addressed invites. Each group is its own
// transaction; the operation is safe to re-run after a mid-way failure.
func (l *LifecycleManager) CleanupAccount(ctx context.Context, userID string) error {
	owned, err := l.stores.Groups.Find(ctx, bson.M{"ownerID": userID})
	if err != nil {
		return wrapStoreErr(err)
	}
	for _, g := range owned {
		groupID := g.ID
		err := l.stores.Client.WithTransaction(ctx, func(sc context.Context) error {
			return l.deleteGroup(sc, groupID)
		})
		if err != nil {
			return wrapStoreErr(err)
		}
		zap.S().Debugw("cleanup deleted owned study group", "groupID", groupID, "userID", userID)
	}

	joined, err := l.stores.Groups.Find(ctx, bson.M{"members": userID})
	if err != nil {
		return wrapStoreErr(err)
	}
	for _, g := range joined {
		if g.OwnerID == userID {
			continue // already deleted above
		}
		if err := l.membership.Leave(ctx, g.ID, userID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}

	if err := l.stores.Requests.DeleteMany(ctx, bson.M{"requesterId": userID}); err != nil {
		return wrapStoreErr(err)
	}
	if err := l.stores.Invites.DeleteMany(ctx, bson.M{"inviteeId": userID}); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}
