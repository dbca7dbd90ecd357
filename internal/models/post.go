package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	// ExcerptLength is the number of characters taken from the content
	// when no excerpt is supplied by the author.
	ExcerptLength = 150

	// WordsPerMinute is the reading speed used for read-time estimation.
	WordsPerMinute = 200
)

// Post represents a blog post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Content       string             `json:"content" bson:"content"`
	Excerpt       string             `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	Author        uint               `json:"author" bson:"author"` // ID of the user who created the post, immutable
	Likes         []uint             `json:"likes" bson:"likes"`   // IDs of users who liked the post, no duplicates
	Views         int64              `json:"views" bson:"views"`
	Tags          []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Status        string             `json:"status" bson:"status"`
	ReadTime      int                `json:"read_time" bson:"read_time"` // in minutes
	FeaturedImage string             `json:"featured_image,omitempty" bson:"featured_image,omitempty"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=200"`
	Content       string   `json:"content" validate:"required,min=1,max=10000"`
	Excerpt       string   `json:"excerpt,omitempty" validate:"omitempty,max=300"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	FeaturedImage string   `json:"featured_image,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title         string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content       string   `json:"content,omitempty" validate:"omitempty,min=1,max=10000"`
	Excerpt       string   `json:"excerpt,omitempty" validate:"omitempty,max=300"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=30"`
	Status        string   `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	FeaturedImage string   `json:"featured_image,omitempty" validate:"omitempty,url"`
}

// MakeExcerpt returns the first ExcerptLength characters of content,
// with an ellipsis appended when the content is longer.
func MakeExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= ExcerptLength {
		return content
	}
	return string(runes[:ExcerptLength]) + "..."
}

// CalculateReadTime estimates the reading time of content in minutes at
// WordsPerMinute, never less than one minute. Words are runs of
// non-whitespace characters.
func CalculateReadTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / float64(WordsPerMinute)))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Derive recomputes the fields derived from Content. The excerpt is only
// generated when none is present, so an author-supplied excerpt survives.
func (p *Post) Derive() {
	if p.Excerpt == "" && p.Content != "" {
		p.Excerpt = MakeExcerpt(p.Content)
	}
	p.ReadTime = CalculateReadTime(p.Content)
}

// IsLikedBy reports whether the given user is in the post's likes set.
func (p *Post) IsLikedBy(userID uint) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikesCount returns the number of users who liked the post.
func (p *Post) LikesCount() int {
	return len(p.Likes)
}
