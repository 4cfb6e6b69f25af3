package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog-backend/internal/domains/group"
	"microblog-backend/internal/domains/post"
	"microblog-backend/internal/domains/post/service"
	"microblog-backend/internal/domains/user"
	"microblog-backend/internal/shared/middleware"
	"microblog-backend/pkg/jwt"
	"microblog-backend/web"
)

// ----- in-memory repositories -----

type memUsers struct {
	users []*user.User
}

func (r *memUsers) Create(_ context.Context, username, hash string) (*user.User, error) {
	u := &user.User{ID: int64(len(r.users) + 1), Username: username, PasswordHash: hash}
	r.users = append(r.users, u)
	return u, nil
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type memGroups struct {
	groups []group.Group
}

func (r *memGroups) GetByID(_ context.Context, id int64) (*group.Group, error) {
	for i := range r.groups {
		if r.groups[i].ID == id {
			return &r.groups[i], nil
		}
	}
	return nil, group.ErrGroupNotFound
}

func (r *memGroups) GetBySlug(_ context.Context, slug string) (*group.Group, error) {
	for i := range r.groups {
		if r.groups[i].Slug == slug {
			return &r.groups[i], nil
		}
	}
	return nil, group.ErrGroupNotFound
}

func (r *memGroups) ListAll(_ context.Context) ([]group.Group, error) {
	return r.groups, nil
}

type memPosts struct {
	seq    int64
	posts  []*post.Post
	users  *memUsers
	groups *memGroups
}

var memBase = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func (r *memPosts) Create(ctx context.Context, text string, authorID int64, groupID *int64) (*post.Post, error) {
	r.seq++

	p := &post.Post{
		ID:       r.seq,
		Text:     text,
		AuthorID: authorID,
		PubDate:  memBase.Add(time.Duration(r.seq) * time.Second),
	}

	author, err := r.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	p.AuthorUsername = author.Username

	if err := r.attachGroup(ctx, p, groupID); err != nil {
		return nil, err
	}

	r.posts = append(r.posts, p)
	clone := *p
	return &clone, nil
}

func (r *memPosts) attachGroup(ctx context.Context, p *post.Post, groupID *int64) error {
	p.GroupID, p.GroupTitle, p.GroupSlug = nil, nil, nil
	if groupID == nil {
		return nil
	}

	g, err := r.groups.GetByID(ctx, *groupID)
	if err != nil {
		return err
	}
	id, title, slug := g.ID, g.Title, g.Slug
	p.GroupID, p.GroupTitle, p.GroupSlug = &id, &title, &slug
	return nil
}

func (r *memPosts) GetByID(_ context.Context, id int64) (*post.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			clone := *p
			return &clone, nil
		}
	}
	return nil, post.ErrPostNotFound
}

func (r *memPosts) Update(ctx context.Context, id int64, text string, groupID *int64) (*post.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			p.Text = text
			if err := r.attachGroup(ctx, p, groupID); err != nil {
				return nil, err
			}
			clone := *p
			return &clone, nil
		}
	}
	return nil, post.ErrPostNotFound
}

func (r *memPosts) listWhere(keep func(*post.Post) bool, limit, offset int) []post.Post {
	var matched []*post.Post
	for _, p := range r.posts {
		if keep(p) {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].PubDate.After(matched[j].PubDate)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]post.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		out = append(out, *p)
	}
	return out
}

func (r *memPosts) ListAll(_ context.Context, limit, offset int) ([]post.Post, error) {
	return r.listWhere(func(*post.Post) bool { return true }, limit, offset), nil
}

func (r *memPosts) ListByGroup(_ context.Context, groupID int64, limit, offset int) ([]post.Post, error) {
	return r.listWhere(func(p *post.Post) bool {
		return p.GroupID != nil && *p.GroupID == groupID
	}, limit, offset), nil
}

func (r *memPosts) ListByAuthor(_ context.Context, authorID int64, limit, offset int) ([]post.Post, error) {
	return r.listWhere(func(p *post.Post) bool { return p.AuthorID == authorID }, limit, offset), nil
}

func (r *memPosts) CountAll(_ context.Context) (int, error) {
	return len(r.posts), nil
}

func (r *memPosts) CountByGroup(_ context.Context, groupID int64) (int, error) {
	n := 0
	for _, p := range r.posts {
		if p.GroupID != nil && *p.GroupID == groupID {
			n++
		}
	}
	return n, nil
}

func (r *memPosts) CountByAuthor(_ context.Context, authorID int64) (int, error) {
	n := 0
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// ----- test server -----

type testServer struct {
	router *gin.Engine
	tokens *jwt.Manager
	users  *memUsers
	groups *memGroups
	posts  *memPosts
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUsers{}
	groups := &memGroups{}
	posts := &memPosts{users: users, groups: groups}

	svc := service.NewPostService(posts, groups, users)
	tokens := jwt.NewManager("test-secret", time.Hour)
	h := NewPostHandler(svc, 10)

	router := gin.New()
	router.SetHTMLTemplate(web.Templates())
	router.Use(middleware.SessionIdentity(tokens))

	router.GET("/", h.Index)
	router.GET("/group/:slug", h.GroupPosts)
	router.GET("/profile/:username", h.Profile)
	router.GET("/posts/:id", h.PostDetail)

	authed := router.Group("", middleware.RequireAuth("/auth/login"))
	authed.GET("/create", h.PostCreate)
	authed.POST("/create", h.PostCreate)
	authed.GET("/posts/:id/edit", h.PostEdit)
	authed.POST("/posts/:id/edit", h.PostEdit)

	return &testServer{
		router: router,
		tokens: tokens,
		users:  users,
		groups: groups,
		posts:  posts,
	}
}

func (ts *testServer) seedUser(t *testing.T, username string) *user.User {
	t.Helper()
	u, err := ts.users.Create(context.Background(), username, "x")
	require.NoError(t, err)
	return u
}

func (ts *testServer) seedGroup(id int64, title, slug string) group.Group {
	g := group.Group{ID: id, Title: title, Slug: slug}
	ts.groups.groups = append(ts.groups.groups, g)
	return g
}

func (ts *testServer) seedPost(t *testing.T, text string, authorID int64, groupID *int64) *post.Post {
	t.Helper()
	p, err := ts.posts.Create(context.Background(), text, authorID, groupID)
	require.NoError(t, err)
	return p
}

func (ts *testServer) do(t *testing.T, req *http.Request, as *user.User) *httptest.ResponseRecorder {
	t.Helper()

	if as != nil {
		token, err := ts.tokens.Generate(as.ID, as.Username)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) get(t *testing.T, path string, as *user.User) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, httptest.NewRequest(http.MethodGet, path, nil), as)
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values, as *user.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(t, req, as)
}

func articleCount(body string) int {
	return strings.Count(body, "<article")
}

// ----- feed / listing pages -----

func TestIndexPaginates(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")
	for i := 0; i < 17; i++ {
		ts.seedPost(t, "post "+strconv.Itoa(i), u.ID, nil)
	}

	w := ts.get(t, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, articleCount(w.Body.String()))
	assert.Contains(t, w.Body.String(), "Latest updates on the site")

	w = ts.get(t, "/?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, articleCount(w.Body.String()))
}

func TestIndexClampsPageParameter(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")
	for i := 0; i < 17; i++ {
		ts.seedPost(t, "post", u.ID, nil)
	}

	// Past the end -> last page
	w := ts.get(t, "/?page=99", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, articleCount(w.Body.String()))
	assert.Contains(t, w.Body.String(), "page 2 of 2")

	// Garbage -> first page
	w = ts.get(t, "/?page=banana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, articleCount(w.Body.String()))
}

func TestGroupFeed(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")
	g := ts.seedGroup(1, "Cats", "cats")
	for i := 0; i < 12; i++ {
		ts.seedPost(t, "in group", u.ID, &g.ID)
	}
	ts.seedPost(t, "outside", u.ID, nil)

	w := ts.get(t, "/group/cats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cats")
	// Group feed page size is a fixed 10
	assert.Equal(t, 10, articleCount(w.Body.String()))

	w = ts.get(t, "/group/cats?page=2", nil)
	assert.Equal(t, 2, articleCount(w.Body.String()))
}

func TestGroupFeedUnknownSlugIs404(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/group/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfilePages(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "HasNoName")
	for i := 0; i < 17; i++ {
		ts.seedPost(t, "post", u.ID, nil)
	}

	w := ts.get(t, "/profile/HasNoName", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, articleCount(w.Body.String()))
	assert.Contains(t, w.Body.String(), "17 posts")

	w = ts.get(t, "/profile/HasNoName?page=2", nil)
	assert.Equal(t, 7, articleCount(w.Body.String()))
}

func TestProfileUnknownUserIs404(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/profile/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ----- post detail -----

func TestPostDetail(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")
	p := ts.seedPost(t, "This is a deliberately long post text for the title", u.ID, nil)

	w := ts.get(t, "/posts/"+strconv.FormatInt(p.ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Title is a raw 31-character slice of the text
	assert.Contains(t, w.Body.String(), "<h1>This is a deliberately long pos</h1>")
}

func TestPostDetailMissingIs404(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/posts/99999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.get(t, "/posts/not-a-number", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ----- create -----

func TestCreateRequiresLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get(t, "/create", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))

	w = ts.postForm(t, "/create", url.Values{"text": {"hi"}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login", w.Header().Get("Location"))

	n, _ := ts.posts.CountAll(context.Background())
	assert.Zero(t, n)
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")

	// A forged author field must be ignored: author always comes from
	// the session.
	w := ts.postForm(t, "/create", url.Values{
		"text":   {"hello world"},
		"author": {"12345"},
	}, u)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/leo", w.Header().Get("Location"))

	require.Len(t, ts.posts.posts, 1)
	assert.Equal(t, u.ID, ts.posts.posts[0].AuthorID)
	assert.Equal(t, "hello world", ts.posts.posts[0].Text)
}

func TestCreateEmptyTextRerenders(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")

	w := ts.postForm(t, "/create", url.Values{"text": {"   "}}, u)

	// Validation failure is a normal page render, not an error status
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "required field")

	n, _ := ts.posts.CountAll(context.Background())
	assert.Zero(t, n, "post count unchanged after invalid submission")
}

// ----- edit -----

func TestEditScenario(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")
	g := ts.seedGroup(1, "Test group", "test1")
	p := ts.seedPost(t, "Test text 1", u.ID, &g.ID)
	editPath := "/posts/" + strconv.FormatInt(p.ID, 10) + "/edit"

	// Form comes pre-populated with the current text and group
	w := ts.get(t, editPath, u)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Test text 1")
	assert.Contains(t, body, `value="1" selected`)
	assert.Contains(t, body, "Edit post")

	// Valid submission mutates text only and redirects to the detail page
	w = ts.postForm(t, editPath, url.Values{
		"text":  {"Test text 1 Update"},
		"group": {"1"},
	}, u)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/posts/"+strconv.FormatInt(p.ID, 10), w.Header().Get("Location"))

	stored, err := ts.posts.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test text 1 Update", stored.Text)
	assert.Equal(t, u.ID, stored.AuthorID)
	assert.True(t, stored.PubDate.Equal(p.PubDate), "pub_date untouched by the edit")
	require.NotNil(t, stored.GroupID)
	assert.Equal(t, g.ID, *stored.GroupID)
}

func TestEditByNonAuthorRedirectsSilently(t *testing.T) {
	ts := newTestServer(t)
	author := ts.seedUser(t, "leo")
	other := ts.seedUser(t, "mallory")
	p := ts.seedPost(t, "mine", author.ID, nil)
	editPath := "/posts/" + strconv.FormatInt(p.ID, 10) + "/edit"
	detailPath := "/posts/" + strconv.FormatInt(p.ID, 10)

	// The form is not shown
	w := ts.get(t, editPath, other)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detailPath, w.Header().Get("Location"))

	// A valid submission is not accepted either
	w = ts.postForm(t, editPath, url.Values{"text": {"taken over"}}, other)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, detailPath, w.Header().Get("Location"))

	stored, err := ts.posts.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", stored.Text, "zero mutation for a non-author")
}

func TestEditInvalidTextRerendersWithEditFlag(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")
	p := ts.seedPost(t, "original", u.ID, nil)
	editPath := "/posts/" + strconv.FormatInt(p.ID, 10) + "/edit"

	w := ts.postForm(t, editPath, url.Values{"text": {""}}, u)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "required field")
	assert.Contains(t, w.Body.String(), "Edit post")

	stored, err := ts.posts.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
}

func TestEditMissingPostIs404(t *testing.T) {
	ts := newTestServer(t)
	u := ts.seedUser(t, "leo")

	w := ts.get(t, "/posts/99999/edit", u)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
