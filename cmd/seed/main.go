package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Marvellousz/Minimal/internal/models"
	"github.com/Marvellousz/Minimal/internal/repositories"
	"github.com/Marvellousz/Minimal/pkg/config"
)

// Sample data for local development. Posts go through the same
// repository path as the API, so excerpts and read times are derived
// exactly as they would be in production.

var users = []models.User{
	{
		Name:  "John Doe",
		Email: "john@example.com",
		Bio:   "A passionate writer and developer who loves creating minimal, elegant solutions.",
	},
	{
		Name:  "Jane Smith",
		Email: "jane@example.com",
		Bio:   "Designer and content creator focused on user experience and storytelling.",
	},
	{
		Name:  "Alex Wilson",
		Email: "alex@example.com",
		Bio:   "Tech enthusiast sharing insights about modern web development and design patterns.",
	},
}

var posts = []models.Post{
	{
		Title: "Getting Started with Go Web Services",
		Content: `Go has become a popular choice for building web services thanks to its simplicity, its standard library and its deployment story. In this post we walk through the structure of a small REST API: routing, request validation, repositories over a document store and JSON response shaping.

A typical service keeps its handlers thin. They parse and validate the request, call into a repository interface and shape the response envelope. All querying, indexing and pagination is delegated to the database, which is far better at it than any application code.

Authentication is handled with JSON Web Tokens, which fit the stateless nature of REST APIs well. Password hashing is delegated to bcrypt. The result is a codebase where the interesting decisions are about data modeling, not plumbing.`,
		Tags:   []string{"Go", "Web Development", "REST"},
		Status: models.StatusPublished,
		Views:  42,
	},
	{
		Title: "The Art of Minimal Design",
		Content: `Minimalism in design is not about having less for the sake of having less. It's about having just enough to communicate effectively and create a pleasant user experience.

The key principles include focus on content, generous white space and restrained typography. Remove any element that doesn't serve the primary purpose of your design, and let the remaining ones breathe.`,
		Tags:   []string{"Design", "Minimalism", "UX"},
		Status: models.StatusPublished,
		Views:  17,
	},
	{
		Title: "Why Document Databases Fit Blogs",
		Content: `A blog post is a naturally self-contained document: title, content, tags, engagement counters. Document databases store it exactly that way, and their atomic update operators make counters and set membership safe under concurrent requests without any application-side locking.`,
		Tags:   []string{"MongoDB", "Databases"},
		Status: models.StatusPublished,
		Views:  5,
	},
	{
		Title:   "Draft: Notes on Pagination",
		Content: `Unfinished notes on skip/limit pagination, total counts and stable sort orders. Not ready to publish yet.`,
		Tags:    []string{"Notes"},
		Status:  models.StatusDraft,
	},
}

func main() {
	config.LoadEnv()
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(db.Mongo.Database(cfg.MongoDB))

	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// Wipe existing sample data
	if err := db.Postgres.Exec("DELETE FROM users").Error; err != nil {
		log.Fatalf("Failed to clear users: %v", err)
	}
	if err := db.Mongo.Database(cfg.MongoDB).Collection("posts").Drop(ctx); err != nil {
		log.Fatalf("Failed to drop posts collection: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	created := make([]models.User, 0, len(users))
	for _, u := range users {
		u.Password = string(hashed)
		if err := userRepo.CreateUser(&u); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		created = append(created, u)
		log.Printf("Created user %s (%d)", u.Email, u.ID)
	}

	for i, p := range posts {
		author := created[i%len(created)]
		p.Author = author.ID
		if err := postRepo.CreatePost(ctx, &p); err != nil {
			log.Fatalf("Failed to create post %q: %v", p.Title, err)
		}
		log.Printf("Created post %q by %s", p.Title, author.Name)
	}

	log.Printf("Seeded %d users and %d posts.", len(created), len(posts))
}
