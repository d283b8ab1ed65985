package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"

	"plaza/internal/config"
	"plaza/internal/domain/models"
	"plaza/internal/domain/services"
	"plaza/internal/repository/postgres"
	"plaza/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo content")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Create repositories and services so seeding runs the real content
	// pipeline (autolink, render, extract).
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	postRepo := postgres.NewPostRepository(repoConfig)
	commentRepo := postgres.NewCommentRepository(repoConfig)
	likeRepo := postgres.NewLikeRepository(repoConfig)
	notificationRepo := postgres.NewNotificationRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	postService := service.NewPostService(postRepo, logger)
	commentService := service.NewCommentService(commentRepo, postRepo, notificationRepo, txManager, logger)
	likeService := service.NewLikeService(likeRepo, postRepo, commentRepo, notificationRepo, txManager, logger)
	profileService := service.NewProfileService(userRepo, nil, logger)

	log.Println("📝 Seeding demo users and posts...")

	demos := []models.Actor{
		{ID: "00000000-0000-4000-8000-000000000001", DisplayName: "Ada"},
		{ID: "00000000-0000-4000-8000-000000000002", DisplayName: "Grace"},
	}
	for _, actor := range demos {
		if _, err := profileService.EnsureUser(ctx, actor); err != nil {
			log.Fatalf("Failed to seed user %s: %v", actor.DisplayName, err)
		}
	}

	post, err := postService.CreatePost(ctx, demos[0], &services.ComposeRequest{
		DocumentTree: paragraphDoc("Hello plaza! Docs live at https://go.dev for the curious."),
	})
	if err != nil {
		log.Fatalf("Failed to seed post: %v", err)
	}
	log.Printf("✅ Created post %s", post.ID)

	comment, err := commentService.CreateComment(ctx, demos[1], post.ID, nil, &services.ComposeRequest{
		DocumentTree: paragraphDoc("First!"),
	})
	if err != nil {
		log.Fatalf("Failed to seed comment: %v", err)
	}
	log.Printf("✅ Created comment %s", comment.ID)

	if _, err := likeService.Like(ctx, demos[1], models.SubjectPost, post.ID); err != nil {
		log.Fatalf("Failed to seed like: %v", err)
	}

	log.Println("🎉 Seeding complete!")
}

// paragraphDoc builds a one-paragraph document tree
func paragraphDoc(text string) json.RawMessage {
	doc := map[string]interface{}{
		"root": map[string]interface{}{
			"type": "root",
			"children": []interface{}{
				map[string]interface{}{
					"type": "paragraph",
					"children": []interface{}{
						map[string]interface{}{"type": "text", "text": text},
					},
				},
			},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		log.Fatalf("Failed to marshal seed document: %v", err)
	}
	return data
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createUsers := `
		CREATE TABLE IF NOT EXISTS ` + tables.Users + ` (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	if _, err := pool.Exec(ctx, createUsers); err != nil {
		return err
	}

	createPosts := `
		CREATE TABLE IF NOT EXISTS ` + tables.Posts + ` (
			id TEXT PRIMARY KEY,
			author_id TEXT NOT NULL REFERENCES ` + tables.Users + `(id),
			document_tree JSONB NOT NULL DEFAULT 'null',
			rendered_html TEXT NOT NULL DEFAULT '',
			plain_text TEXT NOT NULL DEFAULT '',
			image_urls TEXT[],
			like_count INTEGER NOT NULL DEFAULT 0,
			comment_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	if _, err := pool.Exec(ctx, createPosts); err != nil {
		return err
	}

	createComments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL REFERENCES ` + tables.Posts + `(id) ON DELETE CASCADE,
			parent_id TEXT REFERENCES ` + tables.Comments + `(id) ON DELETE CASCADE,
			author_id TEXT NOT NULL REFERENCES ` + tables.Users + `(id),
			document_tree JSONB NOT NULL DEFAULT 'null',
			rendered_html TEXT NOT NULL DEFAULT '',
			plain_text TEXT NOT NULL DEFAULT '',
			image_urls TEXT[],
			like_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	if _, err := pool.Exec(ctx, createComments); err != nil {
		return err
	}

	createLikes := `
		CREATE TABLE IF NOT EXISTS ` + tables.Likes + ` (
			subject_type TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			user_id TEXT NOT NULL REFERENCES ` + tables.Users + `(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (subject_type, subject_id, user_id)
		)
	`
	if _, err := pool.Exec(ctx, createLikes); err != nil {
		return err
	}

	createNotifications := `
		CREATE TABLE IF NOT EXISTS ` + tables.Notifications + ` (
			id TEXT PRIMARY KEY,
			recipient_id TEXT NOT NULL REFERENCES ` + tables.Users + `(id),
			actor_id TEXT NOT NULL REFERENCES ` + tables.Users + `(id),
			kind TEXT NOT NULL,
			subject_type TEXT NOT NULL,
			subject_id TEXT NOT NULL,
			read_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createNotifications); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `posts_feed ON ` + tables.Posts + `(created_at DESC, id DESC) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `posts_author ON ` + tables.Posts + `(author_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `comments_post ON ` + tables.Comments + `(post_id, created_at ASC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `notifications_recipient ON ` + tables.Notifications + `(recipient_id, created_at DESC)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Notifications,
		tables.Likes,
		tables.Comments,
		tables.Posts,
		tables.Users,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}
