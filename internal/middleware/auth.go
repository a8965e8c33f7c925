package middleware

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/devconnect-backend/internal/services"
)

// contextKey is unexported so only this package can write the user id into a
// request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth reads the session token from the x-auth-token header, verifies
// it and puts the resolved user id into the request context. Missing or
// invalid tokens stop the chain with 401. One verification per request, no
// caching across requests.
func RequireAuth(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("x-auth-token")
			if token == "" {
				writeAuthError(w, "No token, authorization denied")
				return
			}

			subject, err := tokens.Verify(token)
			if err != nil {
				writeAuthError(w, "Token is not valid")
				return
			}

			userID, err := primitive.ObjectIDFromHex(subject)
			if err != nil {
				writeAuthError(w, "Token is not valid")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's id from the request context.
// The second return is false for requests that did not pass RequireAuth.
func UserID(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return id, ok
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"msg":"` + msg + `"}`))
}
