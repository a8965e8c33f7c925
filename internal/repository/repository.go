// Package repository defines the persistence interfaces for the three
// aggregates (users, profiles, posts). The mongodb implementation backs the
// server; the memory implementation backs handler tests.
//
// Profile and Post mutations follow a read-modify-write of the whole document.
// Replace enforces an optimistic version check: the stored document must still
// carry the version that was read, otherwise the write is rejected as stale.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/devconnect-backend/internal/models"
)

type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProfileRepository interface {
	Insert(ctx context.Context, profile *models.Profile) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	FindAll(ctx context.Context) ([]models.Profile, error)
	// Replace persists the whole document. The stored version must match
	// profile.Version; on success the profile's version is bumped.
	Replace(ctx context.Context, profile *models.Profile) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	// FindAll returns all posts, newest first.
	FindAll(ctx context.Context) ([]models.Post, error)
	// Replace persists the whole document. The stored version must match
	// post.Version; on success the post's version is bumped.
	Replace(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
