package databases

// go generate: mockery --name InviteDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studybuddy-csulb/studybuddy-api/models"
)

const inviteCollectionName = "invites"

// InviteDatabase contains the methods to use with the invite database
type InviteDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Invite, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invite, error)
	Upsert(ctx context.Context, invite models.Invite) error
	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteMany(ctx context.Context, filter interface{}) error
}

type inviteDatabase struct {
	db DatabaseHelper
}

// NewInviteDatabase initializes a new instance of invite database with the provided db connection
func NewInviteDatabase(db DatabaseHelper) InviteDatabase {
	return &inviteDatabase{
		db: db,
	}
}

func (i *inviteDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Invite, error) {
	invite := &models.Invite{}
	err := i.db.Collection(inviteCollectionName).FindOne(ctx, filter).Decode(invite)
	if err != nil {
		return nil, err
	}
	return invite, nil
}

func (i *inviteDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Invite, error) {
	cursor, err := i.db.Collection(inviteCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var invites []models.Invite
	if err := cursor.All(ctx, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// Upsert creates or overwrites the invite keyed by (groupId, inviteeId).
func (i *inviteDatabase) Upsert(ctx context.Context, invite models.Invite) error {
	filter := bson.M{"groupId": invite.GroupID, "inviteeId": invite.InviteeID}
	_, err := i.db.Collection(inviteCollectionName).UpdateOne(ctx, filter,
		bson.M{"$set": invite}, options.Update().SetUpsert(true))
	return err
}

func (i *inviteDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return i.db.Collection(inviteCollectionName).DeleteOne(ctx, filter)
}

func (i *inviteDatabase) DeleteMany(ctx context.Context, filter interface{}) error {
	return i.db.Collection(inviteCollectionName).DeleteMany(ctx, filter)
}
