// Package memory provides in-memory repository implementations with the same
// contracts as the mongodb package, including the optimistic version check on
// Replace. Used by handler and client tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/devconnect-backend/internal/apperror"
	"github.com/AnshRaj112/devconnect-backend/internal/models"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[primitive.ObjectID]models.User)}
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return apperror.Conflict("User already exists")
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, apperror.NotFound("User not found")
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}
	user := u
	return &user, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return apperror.NotFound("User not found")
	}
	u.Avatar = avatarURL
	r.users[id] = u
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

type ProfileRepository struct {
	mu       sync.Mutex
	profiles map[primitive.ObjectID]models.Profile // keyed by profile id
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[primitive.ObjectID]models.Profile)}
}

func (r *ProfileRepository) Insert(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if profile.ID.IsZero() {
		profile.ID = primitive.NewObjectID()
	}
	r.profiles[profile.ID] = copyProfile(*profile)
	return nil
}

func (r *ProfileRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.profiles {
		if p.User == userID {
			profile := copyProfile(p)
			return &profile, nil
		}
	}
	return nil, apperror.NotFound("Profile not found")
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profiles := make([]models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, copyProfile(p))
	}
	return profiles, nil
}

func (r *ProfileRepository) Replace(ctx context.Context, profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.profiles[profile.ID]
	if !ok {
		return apperror.NotFound("Profile not found")
	}
	if stored.Version != profile.Version {
		return apperror.Stale("Profile was modified concurrently, please retry")
	}
	profile.Version++
	r.profiles[profile.ID] = copyProfile(*profile)
	return nil
}

func (r *ProfileRepository) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.profiles {
		if p.User == userID {
			delete(r.profiles, id)
			return nil
		}
	}
	return nil
}

type PostRepository struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[primitive.ObjectID]models.Post)}
}

func (r *PostRepository) Insert(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	r.posts[post.ID] = copyPost(*post)
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, apperror.NotFound("Post not found")
	}
	post := copyPost(p)
	return &post, nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, copyPost(p))
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	return posts, nil
}

func (r *PostRepository) Replace(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[post.ID]
	if !ok {
		return apperror.NotFound("Post not found")
	}
	if stored.Version != post.Version {
		return apperror.Stale("Post was modified concurrently, please retry")
	}
	post.Version++
	r.posts[post.ID] = copyPost(*post)
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}

// copyProfile and copyPost detach slice backing arrays so callers cannot
// mutate stored state without going through Replace.

func copyProfile(p models.Profile) models.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	p.Experience = append([]models.Experience(nil), p.Experience...)
	p.Education = append([]models.Education(nil), p.Education...)
	return p
}

func copyPost(p models.Post) models.Post {
	p.Likes = append([]models.Like(nil), p.Likes...)
	p.Comments = append([]models.Comment(nil), p.Comments...)
	return p
}
