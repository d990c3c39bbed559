package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/application/auth"
	"github.com/mwolniarski/project-management-backend/internal/application/org"
	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/application/project"
	"github.com/mwolniarski/project-management-backend/internal/application/task"
	"github.com/mwolniarski/project-management-backend/internal/application/user"
	"github.com/mwolniarski/project-management-backend/internal/config"
	infraauth "github.com/mwolniarski/project-management-backend/internal/infrastructure/auth"
	httprouter "github.com/mwolniarski/project-management-backend/internal/infrastructure/http"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/handlers"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/persistence/postgres"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/queue"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/security"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	groupRepo := postgres.NewTaskGroupRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	timeEntryRepo := postgres.NewTimeEntryRepository(pool)
	historyRepo := postgres.NewTaskHistoryRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	tokenStore := postgres.NewTokenStore(pool)

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		asynqOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr}
		asynqEnq := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	issuer, err := infraauth.NewTokenIssuer(
		[]byte(cfg.JWT.Secret),
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.AccessExpiry)*time.Second,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create token issuer")
	}

	loginUC := auth.NewLogin(userRepo, hasher, issuer)
	refreshUC := auth.NewRefresh(userRepo, issuer)
	registerUC := auth.NewRegister(userRepo, orgRepo, roleRepo, tokenStore, hasher, taskEnqueuer, cfg.Email.ConfirmationEnabled)
	confirmEmailUC := auth.NewConfirmEmail(userRepo, tokenStore)
	forgotPasswordUC := auth.NewForgotPassword(userRepo, tokenStore, taskEnqueuer)
	resetPasswordUC := auth.NewResetPassword(userRepo, tokenStore, hasher)
	resolver := auth.NewPrincipalResolver(userRepo, roleRepo)

	orgService := org.NewService(orgRepo, userRepo, roleRepo, hasher, forgotPasswordUC)
	projectService := project.NewService(projectRepo, userRepo)
	taskService := task.NewService(projectRepo, groupRepo, taskRepo, commentRepo, timeEntryRepo, historyRepo, notificationRepo, userRepo)
	profileService := user.NewProfileService(userRepo, orgRepo)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.Server.IPRateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	secureMiddleware := middleware.Secure(cfg.Server.Development)
	corsMiddleware := middleware.CORS(cfg.Server.CORSOrigins, nil, nil)
	requireAuth := middleware.NewAuthGuard(issuer, resolver).Handler

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:         handlers.NewAuthHandler(loginUC, refreshUC, registerUC, confirmEmailUC, forgotPasswordUC, resetPasswordUC, log),
		HealthHandler:       handlers.NewHealthHandler(pool, redisClient),
		OrganizationHandler: handlers.NewOrganizationHandler(orgService, log),
		ProjectHandler:      handlers.NewProjectHandler(projectService, log),
		TaskHandler:         handlers.NewTaskHandler(taskService, log),
		ProfileHandler:      handlers.NewProfileHandler(profileService, log),
		RequireAuth:         requireAuth,
		Log:                 log,
		Secure:              secureMiddleware,
		CORS:                corsMiddleware,
		IPRateLimit:         ipLimit,
		Metrics:             true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
}
