package client

import (
	"os"
	"sync"
)

type ActionType string

const (
	RegisterSuccess ActionType = "REGISTER_SUCCESS"
	RegisterFail    ActionType = "REGISTER_FAIL"
	UserLoaded      ActionType = "USER_LOADED"
	AuthError       ActionType = "AUTH_ERROR"
	LoginSuccess    ActionType = "LOGIN_SUCCESS"
	LoginFail       ActionType = "LOGIN_FAIL"
	LoggedOut       ActionType = "LOGOUT"
	AccountDeleted  ActionType = "ACCOUNT_DELETED"

	AlertSet     ActionType = "SET_ALERT"
	AlertRemoved ActionType = "REMOVE_ALERT"

	ProfileLoaded  ActionType = "GET_PROFILE"
	ProfilesLoaded ActionType = "GET_PROFILES"
	ProfileUpdated ActionType = "UPDATE_PROFILE"
	ProfileFailed  ActionType = "PROFILE_ERROR"
	ProfileCleared ActionType = "CLEAR_PROFILE"

	PostsLoaded    ActionType = "GET_POSTS"
	PostLoaded     ActionType = "GET_POST"
	PostAdded      ActionType = "ADD_POST"
	PostDeleted    ActionType = "DELETE_POST"
	PostFailed     ActionType = "POST_ERROR"
	LikesUpdated   ActionType = "UPDATE_LIKES"
	CommentAdded   ActionType = "ADD_COMMENT"
	CommentRemoved ActionType = "REMOVE_COMMENT"
)

// Action is the single unit of state change. Payload types are fixed per
// ActionType; reducers ignore actions whose payload has the wrong shape.
type Action struct {
	Type    ActionType
	Payload any
}

type Alert struct {
	ID   string
	Msg  string
	Kind string
}

type AuthState struct {
	Token           string
	IsAuthenticated bool
	Loading         bool
	User            *User
}

type ProfileState struct {
	Profile  *Profile
	Profiles []Profile
	Loading  bool
	Error    string
}

// LikesPayload carries the refreshed likes of one post for LikesUpdated.
type LikesPayload struct {
	PostID string
	Likes  []Like
}

// CommentsPayload carries the refreshed comments of one post.
type CommentsPayload struct {
	PostID   string
	Comments []Comment
}

type PostState struct {
	Posts   []Post
	Post    *Post
	Loading bool
	Error   string
}

type State struct {
	Auth    AuthState
	Alerts  []Alert
	Profile ProfileState
	Post    PostState
}

// TokenStorage persists the auth token across store instances.
type TokenStorage interface {
	Load() string
	Save(token string)
	Clear()
}

// MemoryTokenStorage keeps the token in memory only.
type MemoryTokenStorage struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokenStorage) Load() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemoryTokenStorage) Save(token string) {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
}

func (m *MemoryTokenStorage) Clear() { m.Save("") }

// FileTokenStorage persists the token to a file.
type FileTokenStorage struct {
	Path string
}

func (f FileTokenStorage) Load() string {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return ""
	}
	return string(data)
}

func (f FileTokenStorage) Save(token string) {
	_ = os.WriteFile(f.Path, []byte(token), 0o600)
}

func (f FileTokenStorage) Clear() { _ = os.Remove(f.Path) }

// Store holds the full client state and applies actions through the pure root
// reducer. Token persistence is a Dispatch side effect, keeping reducers pure.
type Store struct {
	mu      sync.RWMutex
	state   State
	storage TokenStorage
}

func NewStore(storage TokenStorage) *Store {
	if storage == nil {
		storage = &MemoryTokenStorage{}
	}
	return &Store{
		state: Reduce(State{
			Auth:    AuthState{Token: storage.Load(), Loading: true},
			Profile: ProfileState{Loading: true},
			Post:    PostState{Loading: true},
		}, Action{}),
		storage: storage,
	}
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	prevToken := s.state.Auth.Token
	s.state = Reduce(s.state, a)
	nextToken := s.state.Auth.Token
	s.mu.Unlock()

	if nextToken != prevToken {
		if nextToken == "" {
			s.storage.Clear()
		} else {
			s.storage.Save(nextToken)
		}
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Reduce applies a to state and returns the next state. It never mutates its
// inputs.
func Reduce(state State, a Action) State {
	return State{
		Auth:    reduceAuth(state.Auth, a),
		Alerts:  reduceAlerts(state.Alerts, a),
		Profile: reduceProfile(state.Profile, a),
		Post:    reducePost(state.Post, a),
	}
}

func reduceAuth(state AuthState, a Action) AuthState {
	switch a.Type {
	case UserLoaded:
		user, ok := a.Payload.(*User)
		if !ok {
			return state
		}
		state.IsAuthenticated = true
		state.Loading = false
		state.User = user
	case RegisterSuccess, LoginSuccess:
		token, ok := a.Payload.(string)
		if !ok {
			return state
		}
		state.Token = token
		state.IsAuthenticated = true
		state.Loading = false
	case RegisterFail, LoginFail, AuthError, LoggedOut, AccountDeleted:
		state = AuthState{}
	}
	return state
}

func reduceAlerts(alerts []Alert, a Action) []Alert {
	switch a.Type {
	case AlertSet:
		alert, ok := a.Payload.(Alert)
		if !ok {
			return alerts
		}
		next := make([]Alert, 0, len(alerts)+1)
		next = append(next, alerts...)
		return append(next, alert)
	case AlertRemoved:
		id, ok := a.Payload.(string)
		if !ok {
			return alerts
		}
		next := make([]Alert, 0, len(alerts))
		for _, alert := range alerts {
			if alert.ID != id {
				next = append(next, alert)
			}
		}
		return next
	}
	return alerts
}

func reduceProfile(state ProfileState, a Action) ProfileState {
	switch a.Type {
	case ProfileLoaded, ProfileUpdated:
		profile, ok := a.Payload.(*Profile)
		if !ok {
			return state
		}
		state.Profile = profile
		state.Loading = false
		state.Error = ""
	case ProfilesLoaded:
		profiles, ok := a.Payload.([]Profile)
		if !ok {
			return state
		}
		state.Profiles = profiles
		state.Loading = false
		state.Error = ""
	case ProfileFailed:
		msg, ok := a.Payload.(string)
		if !ok {
			return state
		}
		state.Error = msg
		state.Loading = false
	case ProfileCleared, AccountDeleted, LoggedOut:
		state = ProfileState{Loading: true}
	}
	return state
}

func reducePost(state PostState, a Action) PostState {
	switch a.Type {
	case PostsLoaded:
		posts, ok := a.Payload.([]Post)
		if !ok {
			return state
		}
		state.Posts = posts
		state.Loading = false
		state.Error = ""
	case PostLoaded:
		post, ok := a.Payload.(*Post)
		if !ok {
			return state
		}
		state.Post = post
		state.Loading = false
		state.Error = ""
	case PostAdded:
		post, ok := a.Payload.(*Post)
		if !ok {
			return state
		}
		next := make([]Post, 0, len(state.Posts)+1)
		next = append(next, *post)
		state.Posts = append(next, state.Posts...)
		state.Loading = false
	case PostDeleted:
		id, ok := a.Payload.(string)
		if !ok {
			return state
		}
		next := make([]Post, 0, len(state.Posts))
		for _, post := range state.Posts {
			if post.ID != id {
				next = append(next, post)
			}
		}
		state.Posts = next
	case LikesUpdated:
		payload, ok := a.Payload.(LikesPayload)
		if !ok {
			return state
		}
		next := make([]Post, len(state.Posts))
		for i, post := range state.Posts {
			if post.ID == payload.PostID {
				post.Likes = payload.Likes
			}
			next[i] = post
		}
		state.Posts = next
		if state.Post != nil && state.Post.ID == payload.PostID {
			post := *state.Post
			post.Likes = payload.Likes
			state.Post = &post
		}
	case CommentAdded, CommentRemoved:
		payload, ok := a.Payload.(CommentsPayload)
		if !ok {
			return state
		}
		if state.Post != nil && state.Post.ID == payload.PostID {
			post := *state.Post
			post.Comments = payload.Comments
			state.Post = &post
		}
	case PostFailed:
		msg, ok := a.Payload.(string)
		if !ok {
			return state
		}
		state.Error = msg
		state.Loading = false
	}
	return state
}
