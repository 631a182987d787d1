package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/duong1906ltv/website/internal/config"
	"github.com/duong1906ltv/website/internal/db"
	"github.com/duong1906ltv/website/internal/mail"
	"github.com/duong1906ltv/website/internal/middleware"
	"github.com/duong1906ltv/website/internal/repository"
	"github.com/duong1906ltv/website/internal/service"
	"github.com/duong1906ltv/website/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	Mail            mail.Gateway
	Storage         storage.Storage
	AuthLimiter     middleware.Limiter
	TokenRepository repository.TokenRepository
	AuthService     *service.AuthService
	UserService     *service.UserService
	PostService     *service.PostService
	EmailService    *service.EmailService
	FileService     *service.FileService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	postRepository := repository.NewPostRepository(database)
	commentRepository := repository.NewCommentRepository(database)
	likeRepository := repository.NewLikeRepository(database)

	// Storage
	fileStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Mail
	gateway, err := mail.NewGateway(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize mail gateway: %w", err)
	}

	// Rate limiting for the auth forms
	limiter, err := middleware.NewLimiter(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	// Services
	emailService := service.NewEmailService(gateway, cfg.AppURL, cfg.AppName)
	fileService := service.NewFileService(fileStorage)
	tokenService := service.NewTokenService(cfg.SecretKey)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		tokenService,
		emailService,
		cfg.IsProduction(),
		cfg.SessionExpiry,
		cfg.TokenConfirmExpiry,
		cfg.TokenResetExpiry,
	)
	userService := service.NewUserService(userRepository)
	postService := service.NewPostService(postRepository, commentRepository, likeRepository, fileService, cfg.PostsPerPage)

	return &App{
		Cfg:             cfg,
		DB:              database,
		Mail:            gateway,
		Storage:         fileStorage,
		AuthLimiter:     limiter,
		TokenRepository: tokenRepository,
		AuthService:     authService,
		UserService:     userService,
		PostService:     postService,
		EmailService:    emailService,
		FileService:     fileService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
