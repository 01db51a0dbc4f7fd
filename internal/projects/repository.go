package projects

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateNumber is returned by Create when the project number is
// already taken.
var ErrDuplicateNumber = errors.New("project number already exists")

type Repository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Project, error)
	List(ctx context.Context) ([]ListItem, error)
	// UpdateFields applies a scoped partial update. Keys are document
	// paths ("name", "clearance", ...); untouched fields keep their
	// stored values, so concurrent updates to different stages of one
	// project do not clobber each other.
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*Project, error)
	CountAll(ctx context.Context) (int64, error)
	CountByGroup(ctx context.Context, field string) ([]GroupCount, error)
}

type mongoRepository struct {
	coll *mongo.Collection
}

// NewRepository returns a Repository backed by the projects collection
// and ensures the unique projectNumber index exists.
func NewRepository(ctx context.Context, db *mongo.Database) (Repository, error) {
	coll := db.Collection("projects")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "projectNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &mongoRepository{coll: coll}, nil
}

func (r *mongoRepository) Create(ctx context.Context, project *Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, project)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateNumber
		}
		return err
	}
	project.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	var project Project
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns all projects newest first, with officer and creator
// identity expanded from the users collection.
func (r *mongoRepository) List(ctx context.Context) ([]ListItem, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "assignedTechnicalOfficer",
			"foreignField": "_id",
			"as":           "officer",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$officer", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "createdBy",
			"foreignField": "_id",
			"as":           "creator",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$creator", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"officer.password": 0,
			"officer.phone":    0,
			"officer.role":     0,
			"creator.password": 0,
			"creator.email":    0,
			"creator.phone":    0,
			"creator.role":     0,
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []ListItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) (*Project, error) {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Project
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *mongoRepository) CountAll(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// CountByGroup counts projects grouped by the given document path,
// e.g. "systemType" or "clearance.status".
func (r *mongoRepository) CountByGroup(ctx context.Context, field string) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []GroupCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
