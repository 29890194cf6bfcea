package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/campusboard/board-api/internal/api/metrics"
	"github.com/campusboard/board-api/internal/core/domain"
	"github.com/campusboard/board-api/internal/core/ports"
)

// PostHandler handles HTTP requests for posts and their moderation.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// ListPublic handles GET /posts. Only approved posts are returned.
//
// @Summary      List approved posts
// @Tags         posts
// @Produce      json
// @Param        category  query     int  false  "Filter by category ID"
// @Success      200       {array}   domain.PostView
// @Failure      400       {object}  errorResponse
// @Router       /posts [get]
func (h *PostHandler) ListPublic(c echo.Context) error {
	var categoryID int64
	if raw := c.QueryParam("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return domain.Validation("category must be a positive integer")
		}
		categoryID = id
	}

	posts, err := h.service.ListPublic(c.Request().Context(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPublic handles GET /posts/:id.
//
// @Summary      Get an approved post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  domain.PostView
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPublic(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.service.GetPublic(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// ListMine handles GET /posts/my-posts.
//
// @Summary      List the caller's posts in any status
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PostView
// @Failure      401  {object}  errorResponse
// @Router       /posts/my-posts [get]
func (h *PostHandler) ListMine(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	posts, err := h.service.ListMine(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Create handles POST /posts. New posts wait for moderation.
//
// @Summary      Submit a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  domain.PostView
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Create(c.Request().Context(), id, ports.CreatePostInput{
		Title:      req.Title,
		Body:       req.Body,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, post)
}

// Update handles PUT /posts/:id.
//
// @Summary      Edit a post
// @Description  Owner or admin only, and only while the post is still pending.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Post ID"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  domain.PostView
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Update(c.Request().Context(), id, postID, ports.UpdatePostInput{
		Title:      req.Title,
		Body:       req.Body,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete handles DELETE /posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, postID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPending handles GET /posts/admin/pending.
//
// @Summary      Moderation queue
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PostView
// @Failure      403  {object}  errorResponse
// @Router       /posts/admin/pending [get]
func (h *PostHandler) ListPending(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	posts, err := h.service.ListPending(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Moderate handles PATCH /posts/admin/:id/moderate.
//
// @Summary      Approve or reject a pending post
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Post ID"
// @Param        body  body      moderateRequest  true  "Decision"
// @Success      200   {object}  domain.PostView
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /posts/admin/{id}/moderate [patch]
func (h *PostHandler) Moderate(c echo.Context) error {
	id, err := actor(c)
	if err != nil {
		return err
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req moderateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.service.Moderate(c.Request().Context(), id, postID, domain.PostStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyModerated) {
			metrics.ModerationDecisionsTotal.WithLabelValues("conflict").Inc()
		}
		return err
	}
	metrics.ModerationDecisionsTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, post)
}
