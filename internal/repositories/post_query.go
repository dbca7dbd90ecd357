package repositories

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Marvellousz/Minimal/internal/models"
)

// Listing defaults
const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = "-createdAt"
)

// sortFields maps the sort names accepted from clients to the stored
// field names. Anything outside this map falls back to the default sort.
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"title":     "title",
	"readTime":  "read_time",
}

// ListOptions is the typed query specification for post listings. Zero
// values mean "use the default"; Normalize must run before the options
// are turned into a query.
type ListOptions struct {
	Page   int
	Limit  int
	Sort   string // "field" ascending or "-field" descending
	Status string
	Search string // case-insensitive match on title, content or tags
	Tag    string
	Author uint // 0 means any author
}

// Normalize applies defaults to missing or out-of-range values. Bad
// pagination input never fails a listing request.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Sort == "" {
		o.Sort = DefaultSort
	}
	if o.Status == "" {
		o.Status = models.StatusPublished
	}
}

// Skip returns the number of documents to skip for the requested page.
func (o ListOptions) Skip() int64 {
	return int64(o.Page-1) * int64(o.Limit)
}

// Filter builds the MongoDB filter document. The status restriction is
// always present; tag, author and search narrow it further.
func (o ListOptions) Filter() bson.M {
	filter := bson.M{"status": o.Status}
	if o.Tag != "" {
		filter["tags"] = o.Tag
	}
	if o.Author != 0 {
		filter["author"] = o.Author
	}
	if o.Search != "" {
		regex := primitive.Regex{Pattern: escapeRegex(o.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"content": regex},
			bson.M{"tags": regex},
		}
	}
	return filter
}

// SortDoc translates the client-facing sort name into a MongoDB sort
// document, defaulting to newest-first for unknown fields.
func (o ListOptions) SortDoc() bson.D {
	name := o.Sort
	order := 1
	if strings.HasPrefix(name, "-") {
		name = name[1:]
		order = -1
	}
	field, ok := sortFields[name]
	if !ok {
		return bson.D{{Key: "created_at", Value: -1}}
	}
	return bson.D{{Key: field, Value: order}}
}

// escapeRegex quotes regex metacharacters so a search term is always
// matched as a literal substring.
func escapeRegex(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
