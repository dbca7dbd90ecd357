package handlers_test

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/Marvellousz/Minimal/internal/models"
	"github.com/Marvellousz/Minimal/internal/repositories"
)

// mockPostRepo is an in-memory PostRepository mirroring the Mongo
// implementation's observable behavior.
type mockPostRepo struct {
	posts map[string]*models.Post
	seq   int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*models.Post)}
}

func (m *mockPostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	// Distinct creation times keep the default sort order stable.
	m.seq++
	post.CreatedAt = time.Unix(int64(m.seq), 0)
	post.UpdatedAt = post.CreatedAt
	if post.Status == "" {
		post.Status = models.StatusPublished
	}
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	post.Derive()
	clone := *post
	m.posts[post.ID.Hex()] = &clone
	return nil
}

func (m *mockPostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repositories.ErrPostNotFound
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (m *mockPostRepo) UpdatePost(ctx context.Context, post *models.Post) error {
	stored, ok := m.posts[post.ID.Hex()]
	if !ok {
		return repositories.ErrPostNotFound
	}
	post.UpdatedAt = time.Now()
	stored.Title = post.Title
	stored.Content = post.Content
	stored.Excerpt = post.Excerpt
	stored.Tags = post.Tags
	stored.Status = post.Status
	stored.ReadTime = post.ReadTime
	stored.FeaturedImage = post.FeaturedImage
	stored.UpdatedAt = post.UpdatedAt
	return nil
}

func (m *mockPostRepo) DeletePost(ctx context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return repositories.ErrPostNotFound
	}
	if _, ok := m.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) ListPosts(ctx context.Context, opts repositories.ListOptions) ([]models.Post, int64, error) {
	opts.Normalize()

	matched := make([]models.Post, 0)
	for _, p := range m.posts {
		if m.matches(p, opts) {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := int(opts.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockPostRepo) matches(p *models.Post, opts repositories.ListOptions) bool {
	if p.Status != opts.Status {
		return false
	}
	if opts.Author != 0 && p.Author != opts.Author {
		return false
	}
	if opts.Tag != "" {
		found := false
		for _, tag := range p.Tags {
			if tag == opts.Tag {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if opts.Search != "" {
		term := strings.ToLower(opts.Search)
		hit := strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Content), term)
		for _, tag := range p.Tags {
			hit = hit || strings.Contains(strings.ToLower(tag), term)
		}
		if !hit {
			return false
		}
	}
	return true
}

func (m *mockPostRepo) GetPopularPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	popular := make([]models.Post, 0)
	for _, p := range m.posts {
		if p.Status == models.StatusPublished {
			popular = append(popular, *p)
		}
	}
	sort.Slice(popular, func(i, j int) bool {
		if popular[i].Views != popular[j].Views {
			return popular[i].Views > popular[j].Views
		}
		return popular[i].CreatedAt.After(popular[j].CreatedAt)
	})
	if int64(len(popular)) > limit {
		popular = popular[:limit]
	}
	return popular, nil
}

func (m *mockPostRepo) ToggleLike(ctx context.Context, id string, userID uint) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, repositories.ErrPostNotFound
	}
	post, ok := m.posts[id]
	if !ok {
		return false, repositories.ErrPostNotFound
	}
	for i, liker := range post.Likes {
		if liker == userID {
			post.Likes = append(post.Likes[:i], post.Likes[i+1:]...)
			return false, nil
		}
	}
	post.Likes = append(post.Likes, userID)
	return true, nil
}

func (m *mockPostRepo) IncrementViews(ctx context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repositories.ErrPostNotFound
	}
	post, ok := m.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	post.Views++
	clone := *post
	return &clone, nil
}

// mockUserRepo is an in-memory UserRepository.
type mockUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*models.User)}
}

func (m *mockUserRepo) CreateUser(user *models.User) error {
	// Reject what the unique indexes on users would reject.
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
		if existing.FirebaseUID != nil && user.FirebaseUID != nil &&
			*existing.FirebaseUID == *user.FirebaseUID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepo) GetUserByID(id uint) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetUserByFirebaseUID(uid string) (*models.User, error) {
	for _, user := range m.users {
		if user.FirebaseUID != nil && *user.FirebaseUID == uid {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (m *mockUserRepo) UpdateUser(user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}
