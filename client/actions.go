package client

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultAlertTTL is how long SetAlert keeps an alert before removing it.
const DefaultAlertTTL = 5 * time.Second

// Actions binds a Store to an API. Every method calls the server, then
// dispatches the result; failures surface as alerts or error actions so the
// state always reflects the last exchange.
type Actions struct {
	store *Store
	api   *API

	// AlertTTL overrides DefaultAlertTTL; zero or negative disables the
	// automatic removal.
	AlertTTL time.Duration
}

func NewActions(store *Store, api *API) *Actions {
	api.SetToken(store.State().Auth.Token)
	return &Actions{store: store, api: api, AlertTTL: DefaultAlertTTL}
}

// SetAlert dispatches a uuid-tagged alert and schedules its removal. It
// returns the alert id.
func (a *Actions) SetAlert(msg, kind string) string {
	id := uuid.NewString()
	a.store.Dispatch(Action{Type: AlertSet, Payload: Alert{ID: id, Msg: msg, Kind: kind}})
	if a.AlertTTL > 0 {
		time.AfterFunc(a.AlertTTL, func() { a.RemoveAlert(id) })
	}
	return id
}

func (a *Actions) RemoveAlert(id string) {
	a.store.Dispatch(Action{Type: AlertRemoved, Payload: id})
}

func (a *Actions) alertAll(err error) {
	if apiErr, ok := err.(*APIError); ok {
		for _, msg := range apiErr.Msgs {
			a.SetAlert(msg, "danger")
		}
	}
}

// LoadUser fetches the authenticated user with the stored token. A failure
// clears the session.
func (a *Actions) LoadUser(ctx context.Context) error {
	a.api.SetToken(a.store.State().Auth.Token)
	user, err := a.api.LoadUser(ctx)
	if err != nil {
		a.store.Dispatch(Action{Type: AuthError})
		a.api.SetToken("")
		return err
	}
	a.store.Dispatch(Action{Type: UserLoaded, Payload: user})
	return nil
}

func (a *Actions) Register(ctx context.Context, name, email, password string) error {
	token, err := a.api.Register(ctx, name, email, password)
	if err != nil {
		a.alertAll(err)
		a.store.Dispatch(Action{Type: RegisterFail})
		return err
	}
	a.store.Dispatch(Action{Type: RegisterSuccess, Payload: token})
	return a.LoadUser(ctx)
}

func (a *Actions) Login(ctx context.Context, email, password string) error {
	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.alertAll(err)
		a.store.Dispatch(Action{Type: LoginFail})
		return err
	}
	a.store.Dispatch(Action{Type: LoginSuccess, Payload: token})
	return a.LoadUser(ctx)
}

func (a *Actions) Logout() {
	a.store.Dispatch(Action{Type: LoggedOut})
	a.api.SetToken("")
}

func (a *Actions) GetCurrentProfile(ctx context.Context) error {
	profile, err := a.api.MyProfile(ctx)
	if err != nil {
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileLoaded, Payload: profile})
	return nil
}

func (a *Actions) GetProfiles(ctx context.Context) error {
	a.store.Dispatch(Action{Type: ProfileCleared})
	profiles, err := a.api.Profiles(ctx)
	if err != nil {
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfilesLoaded, Payload: profiles})
	return nil
}

func (a *Actions) GetProfileByUser(ctx context.Context, userID string) error {
	profile, err := a.api.ProfileByUser(ctx, userID)
	if err != nil {
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileLoaded, Payload: profile})
	return nil
}

func (a *Actions) CreateProfile(ctx context.Context, form ProfileForm) error {
	profile, err := a.api.SaveProfile(ctx, form)
	if err != nil {
		a.alertAll(err)
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileLoaded, Payload: profile})
	return nil
}

func (a *Actions) AddExperience(ctx context.Context, form ExperienceForm) error {
	profile, err := a.api.AddExperience(ctx, form)
	if err != nil {
		a.alertAll(err)
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileUpdated, Payload: profile})
	a.SetAlert("Experience Added", "success")
	return nil
}

func (a *Actions) DeleteExperience(ctx context.Context, id string) error {
	profile, err := a.api.DeleteExperience(ctx, id)
	if err != nil {
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileUpdated, Payload: profile})
	a.SetAlert("Experience Removed", "success")
	return nil
}

func (a *Actions) AddEducation(ctx context.Context, form EducationForm) error {
	profile, err := a.api.AddEducation(ctx, form)
	if err != nil {
		a.alertAll(err)
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileUpdated, Payload: profile})
	a.SetAlert("Education Added", "success")
	return nil
}

func (a *Actions) DeleteEducation(ctx context.Context, id string) error {
	profile, err := a.api.DeleteEducation(ctx, id)
	if err != nil {
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileUpdated, Payload: profile})
	a.SetAlert("Education Removed", "success")
	return nil
}

func (a *Actions) DeleteAccount(ctx context.Context) error {
	if err := a.api.DeleteAccount(ctx); err != nil {
		a.profileFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: ProfileCleared})
	a.store.Dispatch(Action{Type: AccountDeleted})
	a.api.SetToken("")
	return nil
}

func (a *Actions) GetPosts(ctx context.Context) error {
	posts, err := a.api.Posts(ctx)
	if err != nil {
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: PostsLoaded, Payload: posts})
	return nil
}

func (a *Actions) GetPost(ctx context.Context, id string) error {
	post, err := a.api.Post(ctx, id)
	if err != nil {
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: PostLoaded, Payload: post})
	return nil
}

func (a *Actions) AddPost(ctx context.Context, text string) error {
	post, err := a.api.CreatePost(ctx, text)
	if err != nil {
		a.alertAll(err)
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: PostAdded, Payload: post})
	a.SetAlert("Post Created", "success")
	return nil
}

func (a *Actions) DeletePost(ctx context.Context, id string) error {
	if err := a.api.DeletePost(ctx, id); err != nil {
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: PostDeleted, Payload: id})
	a.SetAlert("Post Removed", "success")
	return nil
}

func (a *Actions) AddLike(ctx context.Context, id string) error {
	likes, err := a.api.LikePost(ctx, id)
	if err != nil {
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: LikesUpdated, Payload: LikesPayload{PostID: id, Likes: likes}})
	return nil
}

func (a *Actions) RemoveLike(ctx context.Context, id string) error {
	likes, err := a.api.UnlikePost(ctx, id)
	if err != nil {
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: LikesUpdated, Payload: LikesPayload{PostID: id, Likes: likes}})
	return nil
}

func (a *Actions) AddComment(ctx context.Context, postID, text string) error {
	comments, err := a.api.AddComment(ctx, postID, text)
	if err != nil {
		a.alertAll(err)
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: CommentAdded, Payload: CommentsPayload{PostID: postID, Comments: comments}})
	a.SetAlert("Comment Added", "success")
	return nil
}

func (a *Actions) DeleteComment(ctx context.Context, postID, commentID string) error {
	comments, err := a.api.DeleteComment(ctx, postID, commentID)
	if err != nil {
		a.postFail(err)
		return err
	}
	a.store.Dispatch(Action{Type: CommentRemoved, Payload: CommentsPayload{PostID: postID, Comments: comments}})
	a.SetAlert("Comment Removed", "success")
	return nil
}

// Unauthorized responses end the session on any surface, not just auth calls.
func (a *Actions) profileFail(err error) {
	if IsUnauthorized(err) {
		a.store.Dispatch(Action{Type: AuthError})
		a.api.SetToken("")
		return
	}
	a.store.Dispatch(Action{Type: ProfileFailed, Payload: errMessage(err)})
}

func (a *Actions) postFail(err error) {
	if IsUnauthorized(err) {
		a.store.Dispatch(Action{Type: AuthError})
		a.api.SetToken("")
		return
	}
	a.store.Dispatch(Action{Type: PostFailed, Payload: errMessage(err)})
}

func errMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok && len(apiErr.Msgs) > 0 {
		return apiErr.Msgs[0]
	}
	return err.Error()
}
