package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/devconnect-backend/internal/apperror"
	"github.com/AnshRaj112/devconnect-backend/internal/middleware"
	"github.com/AnshRaj112/devconnect-backend/internal/models"
	"github.com/AnshRaj112/devconnect-backend/internal/repository"
)

type ProfileHandler struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
}

func NewProfileHandler(profiles repository.ProfileRepository, users repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, users: users}
}

type ProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"` // comma-delimited
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// userRef is the populated owner reference embedded in profile reads,
// mirroring what the frontend expects in place of the raw user id.
type userRef struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar"`
}

type populatedProfile struct {
	models.Profile
	User userRef `json:"user"`
}

func (h *ProfileHandler) populate(ctx context.Context, p models.Profile) populatedProfile {
	out := populatedProfile{Profile: p, User: userRef{ID: p.User}}
	if user, err := h.users.FindByID(ctx, p.User); err == nil {
		out.User.Name = user.Name
		out.User.Avatar = user.Avatar
	}
	return out
}

// GetMyProfile returns the authenticated user's profile with the owner's
// name and avatar populated.
func (h *ProfileHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.populate(r.Context(), *profile))
}

// CreateOrUpdateProfile upserts the authenticated user's profile. When a
// profile exists only the provided fields overwrite the stored ones.
func (h *ProfileHandler) CreateOrUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.Status == "" {
		msgs = append(msgs, "Status is required")
	}
	if req.Skills == "" {
		msgs = append(msgs, "Skills is required")
	}
	if len(msgs) > 0 {
		respondValidationErrors(w, msgs)
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	switch {
	case err == nil:
		applyProfileFields(profile, &req)
		if err := h.profiles.Replace(r.Context(), profile); err != nil {
			respondError(w, err)
			return
		}
	case errors.Is(err, apperror.ErrNotFound):
		profile = &models.Profile{
			User:       userID,
			Skills:     []string{},
			Experience: []models.Experience{},
			Education:  []models.Education{},
			Date:       time.Now(),
		}
		applyProfileFields(profile, &req)
		if err := h.profiles.Insert(r.Context(), profile); err != nil {
			serverError(w, err)
			return
		}
	default:
		serverError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// applyProfileFields overwrites only the fields the request provided.
func applyProfileFields(p *models.Profile, req *ProfileRequest) {
	if req.Company != "" {
		p.Company = req.Company
	}
	if req.Website != "" {
		p.Website = req.Website
	}
	if req.Location != "" {
		p.Location = req.Location
	}
	if req.Bio != "" {
		p.Bio = req.Bio
	}
	if req.Status != "" {
		p.Status = req.Status
	}
	if req.GithubUsername != "" {
		p.GithubUsername = req.GithubUsername
	}
	if req.Skills != "" {
		p.Skills = models.SplitSkills(req.Skills)
	}
	if req.Youtube != "" {
		p.Social.Youtube = req.Youtube
	}
	if req.Twitter != "" {
		p.Social.Twitter = req.Twitter
	}
	if req.Facebook != "" {
		p.Social.Facebook = req.Facebook
	}
	if req.Linkedin != "" {
		p.Social.Linkedin = req.Linkedin
	}
	if req.Instagram != "" {
		p.Social.Instagram = req.Instagram
	}
}

// GetAllProfiles is public.
func (h *ProfileHandler) GetAllProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.FindAll(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}

	out := make([]populatedProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, h.populate(r.Context(), p))
	}
	respondJSON(w, http.StatusOK, out)
}

// GetProfileByUser is public.
func (h *ProfileHandler) GetProfileByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "user_id"))
	if err != nil {
		respondMsg(w, http.StatusBadRequest, "Profile not found")
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, "Profile not found")
			return
		}
		serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.populate(r.Context(), *profile))
}

// DeleteAccount removes the authenticated user's profile and the user itself.
// Posts are intentionally left in place.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	if err := h.profiles.DeleteByUser(r.Context(), userID); err != nil {
		serverError(w, err)
		return
	}
	if err := h.users.Delete(r.Context(), userID); err != nil {
		serverError(w, err)
		return
	}
	respondMsg(w, http.StatusOK, "User deleted")
}

// AddExperience inserts a new experience entry at the head of the list.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.Title == "" {
		msgs = append(msgs, "Title is required")
	}
	if req.Company == "" {
		msgs = append(msgs, "Company is required")
	}
	if req.From == "" {
		msgs = append(msgs, "From date is required")
	}
	if len(msgs) > 0 {
		respondValidationErrors(w, msgs)
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		serverError(w, err)
		return
	}

	profile.AddExperience(models.Experience{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err := h.profiles.Replace(r.Context(), profile); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// DeleteExperience removes an experience entry by id. An unknown id is a 404,
// never a silent removal of some other entry.
func (h *ProfileHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	expID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "exp_id"))
	if err != nil {
		respondMsg(w, http.StatusNotFound, "Experience not found")
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		serverError(w, err)
		return
	}

	if !profile.RemoveExperience(expID) {
		respondMsg(w, http.StatusNotFound, "Experience not found")
		return
	}
	if err := h.profiles.Replace(r.Context(), profile); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// AddEducation inserts a new education entry at the head of the list.
func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	var req EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationErrors(w, []string{"Invalid request body"})
		return
	}

	var msgs []string
	if req.School == "" {
		msgs = append(msgs, "School is required")
	}
	if req.Degree == "" {
		msgs = append(msgs, "Degree is required")
	}
	if req.FieldOfStudy == "" {
		msgs = append(msgs, "Field of study is required")
	}
	if req.From == "" {
		msgs = append(msgs, "From date is required")
	}
	if len(msgs) > 0 {
		respondValidationErrors(w, msgs)
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		serverError(w, err)
		return
	}

	profile.AddEducation(models.Education{
		ID:           primitive.NewObjectID(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err := h.profiles.Replace(r.Context(), profile); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// DeleteEducation removes an education entry by id. An unknown id is a 404.
func (h *ProfileHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	eduID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "edu_id"))
	if err != nil {
		respondMsg(w, http.StatusNotFound, "Education not found")
		return
	}

	profile, err := h.profiles.FindByUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respondMsg(w, http.StatusBadRequest, "There is no profile for this user")
			return
		}
		serverError(w, err)
		return
	}

	if !profile.RemoveEducation(eduID) {
		respondMsg(w, http.StatusNotFound, "Education not found")
		return
	}
	if err := h.profiles.Replace(r.Context(), profile); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
