package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AnshRaj112/devconnect-backend/internal/apperror"
)

// fieldError matches the validation error shape the frontend expects:
// {"errors":[{"msg":"..."}]}
type fieldError struct {
	Msg string `json:"msg"`
}

type errorsResponse struct {
	Errors []fieldError `json:"errors"`
}

type msgResponse struct {
	Msg string `json:"msg"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

func respondMsg(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, msgResponse{Msg: msg})
}

// respondValidationErrors sends 400 with the errors-array shape.
func respondValidationErrors(w http.ResponseWriter, msgs []string) {
	fields := make([]fieldError, 0, len(msgs))
	for _, m := range msgs {
		fields = append(fields, fieldError{Msg: m})
	}
	respondJSON(w, http.StatusBadRequest, errorsResponse{Errors: fields})
}

// respondError maps a taxonomy error to its HTTP response. Anything outside
// the taxonomy becomes a generic 500 with the detail kept server-side.
func respondError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			respondValidationErrors(w, []string{appErr.Message})
		case errors.Is(err, apperror.ErrUnauthorized):
			respondMsg(w, http.StatusUnauthorized, appErr.Message)
		case errors.Is(err, apperror.ErrForbidden):
			// kept at 401 to match the API's observed behavior
			respondMsg(w, http.StatusUnauthorized, appErr.Message)
		case errors.Is(err, apperror.ErrNotFound):
			respondMsg(w, http.StatusNotFound, appErr.Message)
		case errors.Is(err, apperror.ErrConflict):
			respondMsg(w, http.StatusBadRequest, appErr.Message)
		case errors.Is(err, apperror.ErrStaleWrite):
			respondMsg(w, http.StatusConflict, appErr.Message)
		default:
			serverError(w, err)
		}
		return
	}
	serverError(w, err)
}

func serverError(w http.ResponseWriter, err error) {
	log.Printf("server error: %v", err)
	http.Error(w, "Server Error", http.StatusInternalServerError)
}
