package handlers

import (
	"math"

	"github.com/Marvellousz/Minimal/internal/models"
)

// Pagination describes the window of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// Response is the common success envelope.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// ListResponse is the envelope for paginated listings.
type ListResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Total      int64       `json:"total"`
	Pagination Pagination  `json:"pagination"`
	Data       interface{} `json:"data"`
}

// AuthorInfo is the subset of the author's profile attached to post
// responses.
type AuthorInfo struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// PostView is a post shaped for a response: the stored document plus the
// per-request annotations (likes count, whether the requester liked it,
// author details). None of these are persisted.
type PostView struct {
	models.Post
	Author        *AuthorInfo `json:"author"`
	LikesCount    int         `json:"likes_count"`
	IsLikedByUser bool        `json:"is_liked_by_user"`
}

// NewPostView annotates a post for the given viewer (0 = anonymous).
func NewPostView(post models.Post, author *AuthorInfo, viewerID uint) PostView {
	return PostView{
		Post:          post,
		Author:        author,
		LikesCount:    post.LikesCount(),
		IsLikedByUser: viewerID != 0 && post.IsLikedBy(viewerID),
	}
}

// NewListResponse builds the listing envelope with pages derived from
// the total count.
func NewListResponse(data interface{}, count int, total int64, page, limit int) ListResponse {
	return ListResponse{
		Success: true,
		Count:   count,
		Total:   total,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
		Data: data,
	}
}
