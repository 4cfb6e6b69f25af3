package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"microblog-backend/internal/config"
	infraCache "microblog-backend/internal/infrastructure/cache"
	"microblog-backend/internal/infrastructure/database"
	"microblog-backend/pkg/cache"
	"microblog-backend/pkg/jwt"
	"microblog-backend/pkg/logger"

	"microblog-backend/internal/domains/group"
	groupRepo "microblog-backend/internal/domains/group/repository"
	"microblog-backend/internal/domains/post"
	postHandler "microblog-backend/internal/domains/post/handler"
	postRepo "microblog-backend/internal/domains/post/repository"
	postService "microblog-backend/internal/domains/post/service"
	"microblog-backend/internal/domains/user"
	userHandler "microblog-backend/internal/domains/user/handler"
	userRepo "microblog-backend/internal/domains/user/repository"
	userService "microblog-backend/internal/domains/user/service"
)

// Container holds the whole dependency graph. Everything in it is a
// singleton living for the process lifetime, built strictly in order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache
	Tokens *jwt.Manager

	UserRepo  user.Repository
	GroupRepo group.Repository
	PostRepo  post.Repository

	UserService user.Service
	PostService post.Service

	AuthHandler *userHandler.AuthHandler
	PostHandler *postHandler.PostHandler

	redis *infraCache.RedisCache
}

func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)
	log.Info().Str("environment", cfg.App.Environment).Msg("config loaded")

	// Database
	db := database.New(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	c.DB = db

	// Cache. Redis being down is not fatal: repositories treat every
	// cache miss or cache error as a database read.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis connection failed (non-critical)")
	}
	c.redis = redisCache
	c.Cache = redisCache

	// Session tokens
	c.Tokens = jwt.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)

	// Repositories
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.GroupRepo = groupRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.PostRepo = postRepo.NewPostgresRepository(db.Pool)

	// Services
	c.UserService = userService.NewAuthService(c.UserRepo)
	c.PostService = postService.NewPostService(c.PostRepo, c.GroupRepo, c.UserRepo)

	// Handlers
	sessionTTL := time.Duration(cfg.Session.TTLHours) * time.Hour
	c.AuthHandler = userHandler.NewAuthHandler(c.UserService, c.Tokens, sessionTTL)
	c.PostHandler = postHandler.NewPostHandler(c.PostService, cfg.Pagination.FeedPageSize)

	log.Info().Msg("container initialized")
	return c, nil
}

// Cleanup releases infrastructure connections.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}
