package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"microblog-backend/internal/domains/group"
	"microblog-backend/internal/domains/post"
	"microblog-backend/internal/domains/user"
	"microblog-backend/internal/shared/middleware"
	"microblog-backend/internal/shared/pagination"
	"microblog-backend/internal/shared/render"
	"microblog-backend/pkg/logger"
)

// groupPageSize is the group feed's page size. Deliberately a literal,
// independent of the configured feed/profile size; the asymmetry is
// inherited product behavior, raise with product before unifying.
const groupPageSize = 10

const feedTitle = "Latest updates on the site"

// PostHandler serves every post page: feed, group feed, profile,
// detail, create and edit.
type PostHandler struct {
	service      post.Service
	feedPageSize int
}

// NewPostHandler wires the handler; feedPageSize is the configured
// page size shared by the main feed and profile pages.
func NewPostHandler(svc post.Service, feedPageSize int) *PostHandler {
	return &PostHandler{
		service:      svc,
		feedPageSize: feedPageSize,
	}
}

// Index - GET /
// Paginated feed of all posts, newest first. Anonymous-accessible.
func (h *PostHandler) Index(c *gin.Context) {
	pageNumber := pagination.ParsePage(c.Query("page"))

	listing, err := h.service.Feed(c.Request.Context(), pageNumber, h.feedPageSize)
	if err != nil {
		logger.Error("failed to load feed", err)
		render.InternalError(c)
		return
	}

	render.HTML(c, http.StatusOK, "index.html", gin.H{
		"title": feedTitle,
		"posts": listing.Posts,
		"page":  listing.Page,
	})
}

// GroupPosts - GET /group/:slug
// A group's posts, newest first. 404 when the slug is unknown.
func (h *PostHandler) GroupPosts(c *gin.Context) {
	slug := c.Param("slug")
	pageNumber := pagination.ParsePage(c.Query("page"))

	listing, err := h.service.GroupFeed(c.Request.Context(), slug, pageNumber, groupPageSize)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			render.NotFound(c)
			return
		}
		logger.Error("failed to load group feed", err)
		render.InternalError(c)
		return
	}

	render.HTML(c, http.StatusOK, "group_list.html", gin.H{
		"group": listing.Group,
		"posts": listing.Posts,
		"page":  listing.Page,
	})
}

// Profile - GET /profile/:username
// An author's posts, newest first, with their total post count.
func (h *PostHandler) Profile(c *gin.Context) {
	username := c.Param("username")
	pageNumber := pagination.ParsePage(c.Query("page"))

	listing, err := h.service.Profile(c.Request.Context(), username, pageNumber, h.feedPageSize)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			render.NotFound(c)
			return
		}
		logger.Error("failed to load profile", err)
		render.InternalError(c)
		return
	}

	render.HTML(c, http.StatusOK, "profile.html", gin.H{
		"author":      listing.Author,
		"posts_count": listing.Page.TotalItems,
		"posts":       listing.Posts,
		"page":        listing.Page,
	})
}

// PostDetail - GET /posts/:id
// A single post with its truncated display title. A missing post is a
// structured 404, never an unhandled lookup failure.
func (h *PostHandler) PostDetail(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	p, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, post.ErrPostNotFound) {
			render.NotFound(c)
			return
		}
		logger.Error("failed to load post", err)
		render.InternalError(c)
		return
	}

	render.HTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":    p.Title(),
		"post":     p,
		"is_owner": c.GetInt64(middleware.CtxUserID) == p.AuthorID,
	})
}

// PostCreate - GET|POST /create (auth required)
// GET renders the empty form; POST validates and, when valid, creates
// exactly one post authored by the requester and redirects to their
// profile. Invalid submissions re-render at 200 with field errors.
func (h *PostHandler) PostCreate(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.renderPostForm(c, &post.Form{}, nil, false, 0)
		return
	}

	f, fieldErrors := post.FromValues(c.PostForm("text"), c.PostForm("group"))
	if len(fieldErrors) == 0 {
		var err error

		_, fieldErrors, err = h.service.Create(c.Request.Context(), c.GetInt64(middleware.CtxUserID), f)
		if err != nil {
			logger.Error("failed to create post", err)
			render.InternalError(c)
			return
		}

		if len(fieldErrors) == 0 {
			render.Redirect(c, "/profile/"+c.GetString(middleware.CtxUsername))
			return
		}
	}

	h.renderPostForm(c, f, fieldErrors, false, 0)
}

// PostEdit - GET|POST /posts/:id/edit (auth required, author only)
// A non-author is silently redirected to the post's detail page with
// zero mutation; no error is surfaced to avoid leaking ownership.
func (h *PostHandler) PostEdit(c *gin.Context) {
	id, ok := h.postID(c)
	if !ok {
		return
	}

	requesterID := c.GetInt64(middleware.CtxUserID)
	detailPath := fmt.Sprintf("/posts/%d", id)

	p, err := h.service.GetForEdit(c.Request.Context(), requesterID, id)
	if err != nil {
		switch {
		case errors.Is(err, post.ErrPostNotFound):
			render.NotFound(c)
		case errors.Is(err, post.ErrNotOwner):
			render.Redirect(c, detailPath)
		default:
			logger.Error("failed to load post for edit", err)
			render.InternalError(c)
		}
		return
	}

	if c.Request.Method != http.MethodPost {
		h.renderPostForm(c, post.FromPost(p), nil, true, id)
		return
	}

	f, fieldErrors := post.FromValues(c.PostForm("text"), c.PostForm("group"))
	if len(fieldErrors) == 0 {
		_, fieldErrors, err = h.service.Edit(c.Request.Context(), requesterID, id, f)
		if err != nil {
			// Ownership and existence were checked above; anything
			// surfacing here is infrastructure.
			logger.Error("failed to edit post", err)
			render.InternalError(c)
			return
		}

		if len(fieldErrors) == 0 {
			render.Redirect(c, detailPath)
			return
		}
	}

	h.renderPostForm(c, f, fieldErrors, true, id)
}

// postID parses the :id path parameter; a non-numeric id can only
// reference a missing post, so it renders the same 404.
func (h *PostHandler) postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		render.NotFound(c)
		return 0, false
	}
	return id, true
}

func (h *PostHandler) renderPostForm(c *gin.Context, f *post.Form, fieldErrors post.FieldErrors, isEdit bool, postID int64) {
	choices, err := h.service.GroupChoices(c.Request.Context())
	if err != nil {
		logger.Error("failed to load group choices", err)
		render.InternalError(c)
		return
	}

	render.HTML(c, http.StatusOK, "create_post.html", gin.H{
		"form":    f,
		"errors":  fieldErrors,
		"groups":  choices,
		"is_edit": isEdit,
		"post_id": postID,
	})
}
