package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postBody struct {
	ID     string `json:"_id"`
	User   string `json:"user"`
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Likes  []struct {
		User string `json:"user"`
	} `json:"likes"`
	Comments []struct {
		ID   string `json:"_id"`
		User string `json:"user"`
		Text string `json:"text"`
		Name string `json:"name"`
	} `json:"comments"`
}

func createPost(t *testing.T, env *testEnv, token, text string) postBody {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/api/posts", token, map[string]string{"text": text})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p postBody
	decode(t, rec, &p)
	return p
}

func TestCreatePostSnapshotsAuthor(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "Jane Dev", "jane@x.com", "secret1")

	p := createPost(t, env, token, "hello world")
	assert.Equal(t, "hello world", p.Text)
	assert.Equal(t, "Jane Dev", p.Name)
	assert.Contains(t, p.Avatar, "gravatar.com")
	assert.NotEmpty(t, p.ID)
}

func TestCreatePostRequiresText(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "A", "a@x.com", "secret1")

	rec := env.do(t, http.MethodPost, "/api/posts", token, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Text is required"}, errMsgs(t, rec))
}

func TestGetPostsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "A", "a@x.com", "secret1")

	createPost(t, env, token, "first")
	createPost(t, env, token, "second")

	rec := env.do(t, http.MethodGet, "/api/posts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []postBody
	decode(t, rec, &posts)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Text)
	assert.Equal(t, "first", posts[1].Text)
}

func TestGetPostNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "A", "a@x.com", "secret1")

	rec := env.do(t, http.MethodGet, "/api/posts/ffffffffffffffffffffffff", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", msgOf(t, rec))

	rec = env.do(t, http.MethodGet, "/api/posts/not-an-id", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", msgOf(t, rec))
}

func TestLikeTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "A", "a@x.com", "secret1")
	post := createPost(t, env, token, "like me")

	rec := env.do(t, http.MethodPut, "/api/posts/like/"+post.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var likes []struct {
		User string `json:"user"`
	}
	decode(t, rec, &likes)
	assert.Len(t, likes, 1)

	rec = env.do(t, http.MethodPut, "/api/posts/like/"+post.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post already liked by this user", msgOf(t, rec))

	// likes length unchanged
	rec = env.do(t, http.MethodGet, "/api/posts/"+post.ID, token, nil)
	var got postBody
	decode(t, rec, &got)
	assert.Len(t, got.Likes, 1)
}

func TestUnlikeNotLiked(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "A", "a@x.com", "secret1")
	post := createPost(t, env, token, "never liked")

	rec := env.do(t, http.MethodPut, "/api/posts/unlike/"+post.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post has not yet been liked by this user", msgOf(t, rec))
}

func TestLikeThenUnlike(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "A", "a@x.com", "secret1")
	liker := env.register(t, "B", "b@x.com", "secret1")
	post := createPost(t, env, owner, "popular")

	// any authenticated user may like any post
	rec := env.do(t, http.MethodPut, "/api/posts/like/"+post.ID, liker, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/posts/unlike/"+post.ID, liker, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var likes []struct {
		User string `json:"user"`
	}
	decode(t, rec, &likes)
	assert.Empty(t, likes)
}

func TestDeletePostOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "A", "a@x.com", "secret1")
	other := env.register(t, "B", "b@x.com", "secret1")
	post := createPost(t, env, owner, "mine")

	rec := env.do(t, http.MethodDelete, "/api/posts/"+post.ID, other, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User not authorized", msgOf(t, rec))

	rec = env.do(t, http.MethodDelete, "/api/posts/"+post.ID, owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post removed", msgOf(t, rec))

	// gone from the feed
	rec = env.do(t, http.MethodGet, "/api/posts", owner, nil)
	var posts []postBody
	decode(t, rec, &posts)
	assert.Empty(t, posts)
}

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "A", "a@x.com", "secret1")
	commenter := env.register(t, "Busy Commenter", "b@x.com", "secret1")
	post := createPost(t, env, owner, "discuss")

	rec := env.do(t, http.MethodPost, "/api/posts/comment/"+post.ID, commenter, map[string]string{"text": "nice post"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var comments []struct {
		ID   string `json:"_id"`
		Text string `json:"text"`
		Name string `json:"name"`
	}
	decode(t, rec, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "nice post", comments[0].Text)
	assert.Equal(t, "Busy Commenter", comments[0].Name)

	// only the comment's author may delete it, even the post owner may not
	del := env.do(t, http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+comments[0].ID, owner, nil)
	assert.Equal(t, http.StatusUnauthorized, del.Code)
	assert.Equal(t, "User is not authorized", msgOf(t, del))

	del = env.do(t, http.MethodDelete, "/api/posts/comment/"+post.ID+"/"+comments[0].ID, commenter, nil)
	require.Equal(t, http.StatusOK, del.Code)
	decode(t, del, &comments)
	assert.Empty(t, comments)
}

func TestDeleteUnknownComment(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "A", "a@x.com", "secret1")
	post := createPost(t, env, token, "no comments")

	rec := env.do(t, http.MethodDelete, "/api/posts/comment/"+post.ID+"/ffffffffffffffffffffffff", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Comment does not exist", msgOf(t, rec))
}

func TestCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "A", "a@x.com", "secret1")
	post := createPost(t, env, token, "discuss")

	rec := env.do(t, http.MethodPost, "/api/posts/comment/"+post.ID, token, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"Text is required"}, errMsgs(t, rec))
}

func TestPostRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/posts"},
		{http.MethodPut, "/api/posts/like/ffffffffffffffffffffffff"},
		{http.MethodDelete, "/api/posts/ffffffffffffffffffffffff"},
	} {
		rec := env.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}
