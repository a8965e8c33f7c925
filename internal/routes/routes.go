package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/devconnect-backend/internal/handlers"
	"github.com/AnshRaj112/devconnect-backend/internal/middleware"
	"github.com/AnshRaj112/devconnect-backend/internal/services"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Profile *handlers.ProfileHandler
	Post    *handlers.PostHandler
	Upload  *handlers.UploadHandler
}

// SetupRoutes registers the API routes. Mutating routes and private reads go
// through the auth gate; profile reads are public.
func SetupRoutes(r chi.Router, h *Handlers, tokens *services.TokenService) {
	authed := middleware.RequireAuth(tokens)

	// Users
	r.Post("/api/users", h.Auth.Register)
	r.With(authed).Post("/api/users/avatar", h.Upload.UploadAvatar)

	// Auth
	r.With(authed).Get("/api/auth", h.Auth.GetAuthedUser)
	r.Post("/api/auth", h.Auth.Login)

	// Profiles
	r.With(authed).Get("/api/profile/me", h.Profile.GetMyProfile)
	r.With(authed).Post("/api/profile", h.Profile.CreateOrUpdateProfile)
	r.Get("/api/profile", h.Profile.GetAllProfiles)
	r.Get("/api/profile/user/{user_id}", h.Profile.GetProfileByUser)
	r.With(authed).Delete("/api/profile", h.Profile.DeleteAccount)
	r.With(authed).Put("/api/profile/experience", h.Profile.AddExperience)
	r.With(authed).Delete("/api/profile/experience/{exp_id}", h.Profile.DeleteExperience)
	r.With(authed).Put("/api/profile/education", h.Profile.AddEducation)
	r.With(authed).Delete("/api/profile/education/{edu_id}", h.Profile.DeleteEducation)

	// Posts
	r.With(authed).Post("/api/posts", h.Post.CreatePost)
	r.With(authed).Get("/api/posts", h.Post.GetPosts)
	r.With(authed).Get("/api/posts/{id}", h.Post.GetPost)
	r.With(authed).Delete("/api/posts/{id}", h.Post.DeletePost)
	r.With(authed).Put("/api/posts/like/{id}", h.Post.LikePost)
	r.With(authed).Put("/api/posts/unlike/{id}", h.Post.UnlikePost)
	r.With(authed).Post("/api/posts/comment/{id}", h.Post.AddComment)
	r.With(authed).Delete("/api/posts/comment/{id}/{comment_id}", h.Post.DeleteComment)
}
