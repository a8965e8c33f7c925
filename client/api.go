package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIError carries the status code and the messages the server returned, from
// either error shape: a top-level msg or a list of field errors.
type APIError struct {
	Status int
	Msgs   []string
}

func (e *APIError) Error() string {
	if len(e.Msgs) > 0 {
		return fmt.Sprintf("api: %d: %s", e.Status, strings.Join(e.Msgs, "; "))
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// API is an HTTP client for the devconnect REST surface. The auth token is
// attached to every request as the x-auth-token header once set.
type API struct {
	base string
	http *http.Client

	mu    sync.RWMutex
	token string
}

func NewAPI(base string) *API {
	return &API{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken sets the token sent on subsequent requests. An empty token clears
// the header.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
}

func (a *API) currentToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := a.currentToken(); token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Msg    string `json:"msg"`
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Msg != "" {
			apiErr.Msgs = append(apiErr.Msgs, payload.Msg)
		}
		for _, fe := range payload.Errors {
			apiErr.Msgs = append(apiErr.Msgs, fe.Msg)
		}
	}
	return apiErr
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (a *API) Register(ctx context.Context, name, email, password string) (string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out tokenResponse
	if err := a.do(ctx, http.MethodPost, "/api/users", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (a *API) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out tokenResponse
	if err := a.do(ctx, http.MethodPost, "/api/auth", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (a *API) LoadUser(ctx context.Context) (*User, error) {
	var out User
	if err := a.do(ctx, http.MethodGet, "/api/auth", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) MyProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := a.do(ctx, http.MethodGet, "/api/profile/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) Profiles(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := a.do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) ProfileByUser(ctx context.Context, userID string) (*Profile, error) {
	var out Profile
	if err := a.do(ctx, http.MethodGet, "/api/profile/user/"+userID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) SaveProfile(ctx context.Context, form ProfileForm) (*Profile, error) {
	var out Profile
	if err := a.do(ctx, http.MethodPost, "/api/profile", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) AddExperience(ctx context.Context, form ExperienceForm) (*Profile, error) {
	var out Profile
	if err := a.do(ctx, http.MethodPut, "/api/profile/experience", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteExperience(ctx context.Context, id string) (*Profile, error) {
	var out Profile
	if err := a.do(ctx, http.MethodDelete, "/api/profile/experience/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) AddEducation(ctx context.Context, form EducationForm) (*Profile, error) {
	var out Profile
	if err := a.do(ctx, http.MethodPut, "/api/profile/education", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteEducation(ctx context.Context, id string) (*Profile, error) {
	var out Profile
	if err := a.do(ctx, http.MethodDelete, "/api/profile/education/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteAccount(ctx context.Context) error {
	return a.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}

func (a *API) Posts(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := a.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) Post(ctx context.Context, id string) (*Post, error) {
	var out Post
	if err := a.do(ctx, http.MethodGet, "/api/posts/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) CreatePost(ctx context.Context, text string) (*Post, error) {
	var out Post
	if err := a.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeletePost(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/posts/"+id, nil, nil)
}

func (a *API) LikePost(ctx context.Context, id string) ([]Like, error) {
	var out []Like
	if err := a.do(ctx, http.MethodPut, "/api/posts/like/"+id, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) UnlikePost(ctx context.Context, id string) ([]Like, error) {
	var out []Like
	if err := a.do(ctx, http.MethodPut, "/api/posts/unlike/"+id, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) AddComment(ctx context.Context, postID, text string) ([]Comment, error) {
	var out []Comment
	if err := a.do(ctx, http.MethodPost, "/api/posts/comment/"+postID, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) DeleteComment(ctx context.Context, postID, commentID string) ([]Comment, error) {
	var out []Comment
	if err := a.do(ctx, http.MethodDelete, "/api/posts/comment/"+postID+"/"+commentID, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
