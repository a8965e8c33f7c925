package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/devconnect-backend/internal/apperror"
	"github.com/AnshRaj112/devconnect-backend/internal/models"
)

type PostRepository struct {
	collection *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{collection: db.Collection("posts")}
}

func (r *PostRepository) Insert(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("Post not found")
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.M{"date": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Replace writes the whole document back, but only when the stored version
// still matches the one that was read.
func (r *PostRepository) Replace(ctx context.Context, post *models.Post) error {
	readVersion := post.Version
	post.Version = readVersion + 1

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID, "version": readVersion}, post)
	if err != nil {
		post.Version = readVersion
		return err
	}
	if res.MatchedCount == 0 {
		post.Version = readVersion
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": post.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return apperror.NotFound("Post not found")
		}
		return apperror.Stale("Post was modified concurrently, please retry")
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
