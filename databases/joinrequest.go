package databases

// go generate: mockery --name JoinRequestDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studybuddy-csulb/studybuddy-api/models"
)

const joinRequestCollectionName = "joinRequests"

// JoinRequestDatabase contains the methods to use with the join request database
type JoinRequestDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.JoinRequest, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JoinRequest, error)
	Upsert(ctx context.Context, req models.JoinRequest) error
	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteMany(ctx context.Context, filter interface{}) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type joinRequestDatabase struct {
	db DatabaseHelper
}

// NewJoinRequestDatabase initializes a new instance of join request database with the provided db connection
func NewJoinRequestDatabase(db DatabaseHelper) JoinRequestDatabase {
	return &joinRequestDatabase{
		db: db,
	}
}

func (j *joinRequestDatabase) FindOne(ctx context.Context, filter interface{}) (*models.JoinRequest, error) {
	req := &models.JoinRequest{}
	err := j.db.Collection(joinRequestCollectionName).FindOne(ctx, filter).Decode(req)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (j *joinRequestDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JoinRequest, error) {
	cursor, err := j.db.Collection(joinRequestCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reqs []models.JoinRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Upsert creates or overwrites the request keyed by (groupId, requesterId),
// mirroring the subcollection document-per-requester layout.
func (j *joinRequestDatabase) Upsert(ctx context.Context, req models.JoinRequest) error {
	filter := bson.M{"groupId": req.GroupID, "requesterId": req.RequesterID}
	_, err := j.db.Collection(joinRequestCollectionName).UpdateOne(ctx, filter,
		bson.M{"$set": req}, options.Update().SetUpsert(true))
	return err
}

func (j *joinRequestDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return j.db.Collection(joinRequestCollectionName).DeleteOne(ctx, filter)
}

func (j *joinRequestDatabase) DeleteMany(ctx context.Context, filter interface{}) error {
	return j.db.Collection(joinRequestCollectionName).DeleteMany(ctx, filter)
}

func (j *joinRequestDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return j.db.Collection(joinRequestCollectionName).CountDocuments(ctx, filter, opts...)
}
