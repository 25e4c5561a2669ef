package databases

// go generate: mockery --name GroupDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studybuddy-csulb/studybuddy-api/models"
)

const groupCollectionName = "studyGroups"

// GroupDatabase contains the methods to use with the study group database
type GroupDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.StudyGroup, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StudyGroup, error)
	InsertOne(ctx context.Context, group models.StudyGroup) error
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type groupDatabase struct {
	db DatabaseHelper
}

// NewGroupDatabase initializes a new instance of group database with the provided db connection
func NewGroupDatabase(db DatabaseHelper) GroupDatabase {
	return &groupDatabase{
		db: db,
	}
}

func (g *groupDatabase) FindOne(ctx context.Context, filter interface{}) (*models.StudyGroup, error) {
	group := &models.StudyGroup{}
	err := g.db.Collection(groupCollectionName).FindOne(ctx, filter).Decode(group)
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (g *groupDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.StudyGroup, error) {
	cursor, err := g.db.Collection(groupCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []models.StudyGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (g *groupDatabase) InsertOne(ctx context.Context, group models.StudyGroup) error {
	_, err := g.db.Collection(groupCollectionName).InsertOne(ctx, group)
	return err
}

func (g *groupDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := g.db.Collection(groupCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (g *groupDatabase) DeleteOne(ctx context.Context, filter interface{}) error {
	return g.db.Collection(groupCollectionName).DeleteOne(ctx, filter)
}

func (g *groupDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return g.db.Collection(groupCollectionName).CountDocuments(ctx, filter, opts...)
}
