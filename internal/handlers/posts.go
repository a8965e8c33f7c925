package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/devconnect-backend/internal/middleware"
	"github.com/AnshRaj112/devconnect-backend/internal/models"
	"github.com/AnshRaj112/devconnect-backend/internal/repository"
)

type PostHandler struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostHandler(posts repository.PostRepository, users repository.UserRepository) *PostHandler {
	return &PostHandler{posts: posts, users: users}
}

type PostRequest struct {
	Text string `json:"text"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

// CreatePost creates a post owned by the authenticated user. The author's
// name and avatar are copied onto the post as a snapshot.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []string{"Invalid request body"})
		return
	}
	if req.Text == "" {
		respondValidationErrors(w, []string{"Text is required"})
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	post := &models.Post{
		User:     userID,
		Text:     req.Text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []models.Like{},
		Comments: []models.Comment{},
		Date:     time.Now(),
	}
	if err := h.posts.Insert(r.Context(), post); err != nil {
		serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// GetPosts returns all posts, newest first.
func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.FindAll(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetPost returns a single post by id.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.findPost(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// DeletePost removes a post. Only the owner may delete it.
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	post, ok := h.findPost(w, r)
	if !ok {
		return
	}
	if post.User != userID {
		respondMsg(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	if err := h.posts.Delete(r.Context(), post.ID); err != nil {
		serverError(w, err)
		return
	}
	respondMsg(w, http.StatusOK, "Post removed")
}

// LikePost adds the caller's like. Any authenticated user may like any post,
// but only once.
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	post, ok := h.findPost(w, r)
	if !ok {
		return
	}
	if !post.AddLike(userID) {
		respondMsg(w, http.StatusBadRequest, "Post already liked by this user")
		return
	}

	if err := h.posts.Replace(r.Context(), post); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post.Likes)
}

// UnlikePost removes the caller's like.
func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	post, ok := h.findPost(w, r)
	if !ok {
		return
	}
	if !post.RemoveLike(userID) {
		respondMsg(w, http.StatusBadRequest, "Post has not yet been liked by this user")
		return
	}

	if err := h.posts.Replace(r.Context(), post); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post.Likes)
}

// AddComment adds a comment at the head of the post's comment list, with the
// commenter's name and avatar copied as a snapshot.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []string{"Invalid request body"})
		return
	}
	if req.Text == "" {
		respondValidationErrors(w, []string{"Text is required"})
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	post, ok := h.findPost(w, r)
	if !ok {
		return
	}

	post.AddComment(models.Comment{
		ID:     primitive.NewObjectID(),
		User:   userID,
		Text:   req.Text,
		Name:   user.Name,
		Avatar: user.Avatar,
		Date:   time.Now(),
	})
	if err := h.posts.Replace(r.Context(), post); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post.Comments)
}

// DeleteComment removes a comment by id. Only the comment's author may
// delete it.
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	post, ok := h.findPost(w, r)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "comment_id"))
	if err != nil {
		respondMsg(w, http.StatusNotFound, "Comment does not exist")
		return
	}
	comment, found := post.FindComment(commentID)
	if !found {
		respondMsg(w, http.StatusNotFound, "Comment does not exist")
		return
	}
	if comment.User != userID {
		respondMsg(w, http.StatusUnauthorized, "User is not authorized")
		return
	}

	post.RemoveComment(commentID)
	if err := h.posts.Replace(r.Context(), post); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post.Comments)
}

// findPost resolves the {id} URL parameter. A malformed or unknown id writes
// a 404 and reports false.
func (h *PostHandler) findPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondMsg(w, http.StatusNotFound, "Post not found")
		return nil, false
	}

	post, err := h.posts.FindByID(r.Context(), postID)
	if err != nil {
		respondError(w, err)
		return nil, false
	}
	return post, true
}
