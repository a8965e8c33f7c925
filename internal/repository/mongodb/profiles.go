package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/devconnect-backend/internal/apperror"
	"github.com/AnshRaj112/devconnect-backend/internal/models"
)

type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{collection: db.Collection("profiles")}
}

func (r *ProfileRepository) Insert(ctx context.Context, profile *models.Profile) error {
	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, profile)
	return err
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("Profile not found")
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]models.Profile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Replace writes the whole document back, but only when the stored version
// still matches the one that was read. A concurrent writer bumping the version
// in between makes this write stale and it is rejected.
func (r *ProfileRepository) Replace(ctx context.Context, profile *models.Profile) error {
	readVersion := profile.Version
	profile.Version = readVersion + 1

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.ID, "version": readVersion}, profile)
	if err != nil {
		profile.Version = readVersion
		return err
	}
	if res.MatchedCount == 0 {
		profile.Version = readVersion
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": profile.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return apperror.NotFound("Profile not found")
		}
		return apperror.Stale("Profile was modified concurrently, please retry")
	}
	return nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	return err
}
