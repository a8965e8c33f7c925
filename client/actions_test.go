package client_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/devconnect-backend/client"
	"github.com/AnshRaj112/devconnect-backend/internal/handlers"
	"github.com/AnshRaj112/devconnect-backend/internal/repository/memory"
	"github.com/AnshRaj112/devconnect-backend/internal/routes"
	"github.com/AnshRaj112/devconnect-backend/internal/services"
)

// newClientEnv runs the real router over httptest and binds a store to it.
func newClientEnv(t *testing.T) (*client.Store, *client.Actions) {
	t.Helper()

	tokens, err := services.NewTokenService("test-secret-at-least-16-chars", time.Hour)
	require.NoError(t, err)

	users := memory.NewUserRepository()
	h := &routes.Handlers{
		Auth:    handlers.NewAuthHandler(users, tokens),
		Profile: handlers.NewProfileHandler(memory.NewProfileRepository(), users),
		Post:    handlers.NewPostHandler(memory.NewPostRepository(), users),
		Upload:  handlers.NewUploadHandler(users, nil),
	}

	router := chi.NewRouter()
	routes.SetupRoutes(router, h, tokens)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	store := client.NewStore(&client.MemoryTokenStorage{})
	actions := client.NewActions(store, client.NewAPI(server.URL))
	actions.AlertTTL = 0
	return store, actions
}

func TestRegisterThenLoadUser(t *testing.T) {
	store, actions := newClientEnv(t)
	ctx := context.Background()

	require.NoError(t, actions.Register(ctx, "Ada Lovelace", "ada@example.com", "secret1"))

	state := store.State()
	assert.NotEmpty(t, state.Auth.Token)
	assert.True(t, state.Auth.IsAuthenticated)
	require.NotNil(t, state.Auth.User)
	assert.Equal(t, "Ada Lovelace", state.Auth.User.Name)
	assert.Equal(t, "ada@example.com", state.Auth.User.Email)
	assert.Empty(t, state.Alerts)
}

func TestRegisterValidationRaisesAlerts(t *testing.T) {
	store, actions := newClientEnv(t)

	err := actions.Register(context.Background(), "", "not-an-email", "ok")
	require.Error(t, err)

	state := store.State()
	assert.False(t, state.Auth.IsAuthenticated)
	require.Len(t, state.Alerts, 3)
	msgs := make([]string, 0, len(state.Alerts))
	for _, alert := range state.Alerts {
		assert.Equal(t, "danger", alert.Kind)
		assert.NotEmpty(t, alert.ID)
		msgs = append(msgs, alert.Msg)
	}
	assert.Contains(t, msgs, "Name is required")
	assert.Contains(t, msgs, "Please include a valid email")
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	store, actions := newClientEnv(t)
	ctx := context.Background()

	require.NoError(t, actions.Register(ctx, "Ada", "ada@example.com", "secret1"))
	actions.Logout()
	assert.Empty(t, store.State().Auth.Token)

	err := actions.Login(ctx, "ada@example.com", "wrong-password")
	require.Error(t, err)

	state := store.State()
	assert.False(t, state.Auth.IsAuthenticated)
	require.Len(t, state.Alerts, 1)
	assert.Equal(t, "Invalid Credentials", state.Alerts[0].Msg)
}

func TestProfileLifecycleThroughStore(t *testing.T) {
	store, actions := newClientEnv(t)
	ctx := context.Background()

	require.NoError(t, actions.Register(ctx, "Ada", "ada@example.com", "secret1"))

	err := actions.GetCurrentProfile(ctx)
	require.Error(t, err)
	assert.Equal(t, "There is no profile for this user", store.State().Profile.Error)

	require.NoError(t, actions.CreateProfile(ctx, client.ProfileForm{
		Status: "Developer",
		Skills: "Go, React,  MongoDB",
	}))

	profile := store.State().Profile.Profile
	require.NotNil(t, profile)
	assert.Equal(t, []string{"Go", "React", "MongoDB"}, profile.Skills)

	require.NoError(t, actions.AddExperience(ctx, client.ExperienceForm{
		Title:   "Engineer",
		Company: "Initech",
		From:    "2020-01-01",
	}))
	profile = store.State().Profile.Profile
	require.Len(t, profile.Experience, 1)
	expID := profile.Experience[0].ID

	require.NoError(t, actions.DeleteExperience(ctx, expID))
	assert.Empty(t, store.State().Profile.Profile.Experience)

	require.NoError(t, actions.GetProfiles(ctx))
	state := store.State()
	require.Len(t, state.Profile.Profiles, 1)
	assert.Equal(t, "Ada", state.Profile.Profiles[0].User.Name)
}

func TestPostFeedThroughStore(t *testing.T) {
	store, actions := newClientEnv(t)
	ctx := context.Background()

	require.NoError(t, actions.Register(ctx, "Ada", "ada@example.com", "secret1"))
	require.NoError(t, actions.AddPost(ctx, "first"))
	require.NoError(t, actions.AddPost(ctx, "second"))

	require.NoError(t, actions.GetPosts(ctx))
	state := store.State()
	require.Len(t, state.Post.Posts, 2)
	assert.Equal(t, "second", state.Post.Posts[0].Text)

	postID := state.Post.Posts[1].ID
	require.NoError(t, actions.AddLike(ctx, postID))
	state = store.State()
	assert.Len(t, state.Post.Posts[1].Likes, 1)

	// Second like is rejected server-side; the feed stays unchanged.
	err := actions.AddLike(ctx, postID)
	require.Error(t, err)
	state = store.State()
	assert.Len(t, state.Post.Posts[1].Likes, 1)
	assert.Equal(t, "Post already liked by this user", state.Post.Error)

	require.NoError(t, actions.RemoveLike(ctx, postID))
	assert.Empty(t, store.State().Post.Posts[1].Likes)

	require.NoError(t, actions.GetPost(ctx, postID))
	require.NoError(t, actions.AddComment(ctx, postID, "nice"))
	state = store.State()
	require.NotNil(t, state.Post.Post)
	require.Len(t, state.Post.Post.Comments, 1)
	commentID := state.Post.Post.Comments[0].ID

	require.NoError(t, actions.DeleteComment(ctx, postID, commentID))
	assert.Empty(t, store.State().Post.Post.Comments)

	require.NoError(t, actions.DeletePost(ctx, postID))
	assert.Len(t, store.State().Post.Posts, 1)
}

func TestUnauthorizedActsAsGlobalLogout(t *testing.T) {
	store, actions := newClientEnv(t)
	ctx := context.Background()

	require.NoError(t, actions.Register(ctx, "Ada", "ada@example.com", "secret1"))
	actions.Logout()

	err := actions.GetPosts(ctx)
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))

	state := store.State()
	assert.False(t, state.Auth.IsAuthenticated)
	assert.Empty(t, state.Auth.Token)
}

func TestDeleteAccountClearsSession(t *testing.T) {
	store, actions := newClientEnv(t)
	ctx := context.Background()

	require.NoError(t, actions.Register(ctx, "Ada", "ada@example.com", "secret1"))
	require.NoError(t, actions.DeleteAccount(ctx))

	state := store.State()
	assert.False(t, state.Auth.IsAuthenticated)
	assert.Empty(t, state.Auth.Token)
	assert.Nil(t, state.Profile.Profile)

	err := actions.Login(ctx, "ada@example.com", "secret1")
	require.Error(t, err)
}
