package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Marvellousz/Minimal/internal/models"
)

// ErrPostNotFound is returned when a post does not exist. Malformed ids
// are reported the same way, never as a separate error class.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	ListPosts(ctx context.Context, opts ListOptions) ([]models.Post, int64, error)
	GetPopularPosts(ctx context.Context, limit int64) ([]models.Post, error)
	ToggleLike(ctx context.Context, id string, userID uint) (bool, error)
	IncrementViews(ctx context.Context, id string) (*models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Status == "" {
		post.Status = models.StatusPublished
	}
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	post.Derive()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost persists the mutable fields of an existing post. The author
// and the likes set are never written here; likes change only through
// ToggleLike.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":          post.Title,
			"content":        post.Content,
			"excerpt":        post.Excerpt,
			"tags":           post.Tags,
			"status":         post.Status,
			"read_time":      post.ReadTime,
			"featured_image": post.FeaturedImage,
			"updated_at":     post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ListPosts retrieves the requested page of posts plus the total number
// of documents matching the same filter.
func (r *MongoPostRepository) ListPosts(ctx context.Context, opts ListOptions) ([]models.Post, int64, error) {
	opts.Normalize()
	filter := opts.Filter()

	findOptions := options.Find().
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit)).
		SetSort(opts.SortDoc())

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetPopularPosts retrieves published posts ordered by view count.
// Creation time breaks ties so the order is deterministic.
func (r *MongoPostRepository) GetPopularPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "views", Value: -1}, {Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusPublished}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ToggleLike flips the user's membership in the post's likes set and
// reports the resulting state (true when the post is now liked).
//
// Both branches are single atomic updates: a $pull conditioned on the
// user already being in the set, otherwise an $addToSet. Concurrent
// toggles by different users therefore cannot drop each other's likes,
// and $addToSet keeps the set free of duplicates.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, id string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, ErrPostNotFound
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount == 1 {
		return false, nil
	}

	// Not currently liked (or the post is absent): attempt the add.
	res, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$addToSet": bson.M{"likes": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrPostNotFound
	}
	return true, nil
}

// IncrementViews atomically adds one to the post's view counter and
// returns the updated document. No authentication and no deduplication:
// every call counts.
func (r *MongoPostRepository) IncrementViews(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	findOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"views": 1}},
		findOptions,
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}
