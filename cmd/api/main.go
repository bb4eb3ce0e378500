package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"userhub/internal/config"
	"userhub/internal/database"
	"userhub/internal/domain"
	"userhub/internal/middleware"
	"userhub/internal/modules/auth"
	"userhub/internal/modules/email"
	"userhub/internal/modules/user"
	"userhub/internal/pkg/events"
	jwtsvc "userhub/internal/pkg/jwt"
	"userhub/internal/pkg/response"
	"userhub/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	credRepo := repository.NewCredentialRepository(db)

	var blacklist auth.TokenBlacklist
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		blacklist = repository.NewRedisBlacklist(client)
	} else {
		blacklist = repository.NewBlacklistRepository(db)
	}

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.JWTExpires, cfg.JWTRefreshExpires)
	bus := events.NewBus()

	authService := auth.NewService(userRepo, credRepo, blacklist, tokens, bus, cfg.BcryptCost)
	authHandler := auth.NewHandler(authService, tokens)

	userService := user.NewService(userRepo, bus, cfg.ProfileUploadImagePath)
	userHandler := user.NewHandler(userService)

	var mailer email.Mailer
	if cfg.MailHost != "" {
		mailer = email.NewSMTPMailer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom)
	} else {
		mailer = email.ConsoleMailer{}
	}
	emailService := email.NewService(mailer, cfg)
	emailHandler := email.NewHandler(emailService)

	auth.RegisterListeners(bus, authService)
	user.RegisterListeners(bus, userService)
	email.RegisterListeners(bus, emailService)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.Authenticate(tokens, blacklist, userRepo))

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		userHandler.RegisterPublicRoutes(v1)
		emailHandler.RegisterPublicRoutes(v1)

		// authenticated
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth())
		{
			authHandler.RegisterProtectedRoutes(protected)
			userHandler.RegisterProtectedRoutes(protected)
		}

		// admin only
		admin := v1.Group("/")
		admin.Use(middleware.RequireAuth(), middleware.RequireRoles(domain.RoleAdmin))
		{
			userHandler.RegisterAdminRoutes(admin)
			emailHandler.RegisterAdminRoutes(admin)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
