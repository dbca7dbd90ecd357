package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Marvellousz/Minimal/internal/middleware"
	"github.com/Marvellousz/Minimal/internal/models"
	"github.com/Marvellousz/Minimal/internal/repositories"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository // To attach author details to responses
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes. Read endpoints are
// public (some resolve the requester when a token is present); write
// endpoints require authentication. View increments stay public.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, optionalAuth, requireAuth echo.MiddlewareFunc) {
	g.GET("/search", h.SearchPosts)
	g.GET("/popular", h.GetPopularPosts)
	g.GET("/user/:userId", h.GetUserPosts)
	g.GET("", h.GetPosts, optionalAuth)
	g.GET("/:id", h.GetPost, optionalAuth)
	g.PUT("/:id/view", h.IncrementViews)

	g.POST("", h.CreatePost, requireAuth)
	g.PUT("/:id", h.UpdatePost, requireAuth)
	g.DELETE("/:id", h.DeletePost, requireAuth)
	g.PUT("/:id/like", h.ToggleLike, requireAuth)
}

// GetPosts retrieves a filtered, sorted, paginated page of posts
func (h *PostHandler) GetPosts(c echo.Context) error {
	opts := repositories.ListOptions{
		Page:   atoiDefault(c.QueryParam("page"), 0),
		Limit:  atoiDefault(c.QueryParam("limit"), 0),
		Sort:   c.QueryParam("sort"),
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
		Tag:    c.QueryParam("tag"),
	}
	if author, err := strconv.ParseUint(c.QueryParam("author"), 10, 64); err == nil {
		opts.Author = uint(author)
	}
	opts.Normalize()

	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := h.buildPostViews(posts, viewerID(c))
	return c.JSON(http.StatusOK, NewListResponse(views, len(views), total, opts.Page, opts.Limit))
}

// GetPost retrieves a single post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view := NewPostView(*post, h.authorInfo(post.Author), viewerID(c))
	return c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// CreatePost creates a new post owned by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Author:        claims.UserID,
		Tags:          req.Tags,
		Status:        req.Status,
		FeaturedImage: req.FeaturedImage,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view := NewPostView(*post, h.authorInfo(post.Author), claims.UserID)
	return c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: "Post created successfully",
		Data:    view,
	})
}

// UpdatePost applies a partial update to a post owned by the requester
func (h *PostHandler) UpdatePost(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	existing, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := assertOwnership(existing, claims.UserID); err != nil {
		return err
	}

	contentChanged := req.Content != "" && req.Content != existing.Content
	if req.Title != "" {
		existing.Title = req.Title
	}
	if req.Content != "" {
		existing.Content = req.Content
	}
	if req.Excerpt != "" {
		existing.Excerpt = req.Excerpt
	} else if contentChanged {
		// Drop the stale excerpt so Derive regenerates it from the new
		// content.
		existing.Excerpt = ""
	}
	if req.Tags != nil {
		existing.Tags = req.Tags
	}
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.FeaturedImage != "" {
		existing.FeaturedImage = req.FeaturedImage
	}
	existing.Derive()

	if err := h.postRepository.UpdatePost(c.Request().Context(), existing); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view := NewPostView(*existing, h.authorInfo(existing.Author), claims.UserID)
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Post updated successfully",
		Data:    view,
	})
}

// DeletePost deletes a post owned by the requester
func (h *PostHandler) DeletePost(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	postID := c.Param("id")

	existing, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := assertOwnership(existing, claims.UserID); err != nil {
		return err
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, Response{Success: true, Message: "Post deleted successfully"})
}

// ToggleLike flips the requester's like on a post. No ownership check:
// any authenticated user may like any post.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	claims := middleware.CurrentUser(c)
	postID := c.Param("id")

	liked, err := h.postRepository.ToggleLike(c.Request().Context(), postID, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}

	view := NewPostView(*post, h.authorInfo(post.Author), claims.UserID)
	view.IsLikedByUser = liked
	return c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: view})
}

// IncrementViews bumps a post's view counter. Public and not
// deduplicated: every call counts.
func (h *PostHandler) IncrementViews(c echo.Context) error {
	post, err := h.postRepository.IncrementViews(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	view := NewPostView(*post, h.authorInfo(post.Author), 0)
	return c.JSON(http.StatusOK, Response{Success: true, Data: view})
}

// GetPopularPosts retrieves the most viewed published posts
func (h *PostHandler) GetPopularPosts(c echo.Context) error {
	limit := atoiDefault(c.QueryParam("limit"), repositories.DefaultLimit)
	if limit < 1 {
		limit = repositories.DefaultLimit
	}

	posts, err := h.postRepository.GetPopularPosts(c.Request().Context(), int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := h.buildPostViews(posts, 0)
	count := len(views)
	return c.JSON(http.StatusOK, Response{Success: true, Count: &count, Data: views})
}

// SearchPosts retrieves published posts matching a search term
func (h *PostHandler) SearchPosts(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	opts := repositories.ListOptions{
		Page:   atoiDefault(c.QueryParam("page"), 0),
		Limit:  atoiDefault(c.QueryParam("limit"), 0),
		Search: q,
	}
	opts.Normalize()

	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := h.buildPostViews(posts, 0)
	return c.JSON(http.StatusOK, NewListResponse(views, len(views), total, opts.Page, opts.Limit))
}

// GetUserPosts retrieves a user's published posts. Drafts and archived
// posts never show up here, regardless of who asks.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	opts := repositories.ListOptions{
		Page:   atoiDefault(c.QueryParam("page"), 0),
		Limit:  atoiDefault(c.QueryParam("limit"), 0),
		Author: uint(userID),
		Status: models.StatusPublished,
	}
	opts.Normalize()

	posts, total, err := h.postRepository.ListPosts(c.Request().Context(), opts)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	views := h.buildPostViews(posts, 0)
	return c.JSON(http.StatusOK, NewListResponse(views, len(views), total, opts.Page, opts.Limit))
}

// assertOwnership rejects mutation of a post by anyone but its author.
func assertOwnership(post *models.Post, requesterID uint) error {
	if post.Author != requesterID {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied. You can only modify your own posts.")
	}
	return nil
}

// viewerID resolves the requesting user's ID, 0 for anonymous callers.
func viewerID(c echo.Context) uint {
	if claims := middleware.CurrentUser(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// authorInfo fetches the author's profile summary. A missing author
// never fails the request.
func (h *PostHandler) authorInfo(id uint) *AuthorInfo {
	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		return nil
	}
	return &AuthorInfo{ID: user.ID, Name: user.Name, Avatar: user.Avatar, Bio: user.Bio}
}

// buildPostViews annotates a page of posts, batch-fetching the authors.
func (h *PostHandler) buildPostViews(posts []models.Post, viewerID uint) []PostView {
	ids := make([]uint, 0, len(posts))
	seen := make(map[uint]bool)
	for _, p := range posts {
		if !seen[p.Author] {
			seen[p.Author] = true
			ids = append(ids, p.Author)
		}
	}

	authors := make(map[uint]*AuthorInfo, len(ids))
	if users, err := h.userRepository.GetUsersByIDs(ids); err == nil {
		for _, u := range users {
			authors[u.ID] = &AuthorInfo{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Bio: u.Bio}
		}
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p, authors[p.Author], viewerID))
	}
	return views
}

// atoiDefault parses a numeric query parameter, falling back to def on
// anything unparseable.
func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
