package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/evolvehq/perf-review-api/api/swagger"
	"github.com/evolvehq/perf-review-api/internal/handler"
	"github.com/evolvehq/perf-review-api/internal/middleware"
	"github.com/evolvehq/perf-review-api/internal/models"
	"github.com/evolvehq/perf-review-api/internal/repository"
	"github.com/evolvehq/perf-review-api/internal/scoring"
	"github.com/evolvehq/perf-review-api/internal/service"
	"github.com/evolvehq/perf-review-api/pkg/cache"
	"github.com/evolvehq/perf-review-api/pkg/config"
	"github.com/evolvehq/perf-review-api/pkg/database"
	"github.com/evolvehq/perf-review-api/pkg/logger"
	corsmiddleware "github.com/evolvehq/perf-review-api/pkg/middleware/cors"
	reqidmiddleware "github.com/evolvehq/perf-review-api/pkg/middleware/requestid"
)

// @title Performance Review API
// @version 1.0.0
// @description Goal-based performance review and potential assessment backend
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, analytics caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		cacheRepo,
		metricsSvc,
		cfg.Analytics.CacheTTL,
		logr,
		cfg.Analytics.CacheEnabled && redisClient != nil,
	)

	calculator := scoring.NewCalculator(logr)
	weights := scoring.BlendWeights{
		Self:       cfg.Review.SelfWeight,
		Manager:    cfg.Review.ManagerWeight,
		Respondent: cfg.Review.RespondentWeight,
		Potential:  cfg.Review.PotentialWeight,
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "perf-review-api",
	})
	userSvc := service.NewUserService(userRepo, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, logr)
	analyticsSvc := service.NewAnalyticsService(reviewRepo, goalRepo, questionRepo, userRepo, calculator, weights, cacheSvc, metricsSvc, logr)
	goalSvc := service.NewGoalService(goalRepo, userRepo, notificationSvc, validate, logr, cfg.Goals)
	reviewSvc := service.NewReviewService(reviewRepo, questionRepo, goalRepo, userRepo, notificationSvc, calculator, analyticsSvc, metricsSvc, validate, logr)
	questionSvc := service.NewQuestionService(questionRepo, validate, logr)
	exportSvc := service.NewExportService(analyticsSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	goalHandler := handler.NewGoalHandler(goalSvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)
	questionHandler := handler.NewQuestionHandler(questionSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	reportHandler := handler.NewReportHandler(exportSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("", middleware.JWT(authSvc))
		protected.POST("/logout", authHandler.Logout)
		protected.POST("/change-password", authHandler.ChangePassword)
		protected.GET("/me", authHandler.Me)
	}

	authed := api.Group("", middleware.JWT(authSvc))
	managerOnly := middleware.RequireRoles(models.RoleManager)

	users := authed.Group("/users")
	{
		users.GET("", managerOnly, userHandler.List)
		users.GET("/me/reports", managerOnly, userHandler.DirectReports)
		users.GET("/:id", userHandler.Get)
	}

	goals := authed.Group("/goals")
	{
		goals.POST("", goalHandler.Create)
		goals.GET("", goalHandler.List)
		goals.GET("/:id", goalHandler.Get)
		goals.PATCH("/:id", goalHandler.Update)
		goals.PATCH("/:id/steps/:stepId", goalHandler.SetStepDone)
		goals.GET("/:id/respondents", goalHandler.Respondents)
		goals.GET("/:id/reviews", reviewHandler.ListByGoal)
	}

	reviews := authed.Group("/reviews")
	{
		reviews.POST("", reviewHandler.Submit)
		reviews.POST("/respondent", reviewHandler.SubmitRespondent)
		reviews.POST("/:id/scores", managerOnly, reviewHandler.ScoreAnswers)
		reviews.POST("/:id/finalize", managerOnly, reviewHandler.Finalize)
	}

	questions := authed.Group("/questions")
	{
		questions.GET("", questionHandler.List)
		questions.POST("", managerOnly, questionHandler.Create)
		questions.PATCH("/:id", managerOnly, questionHandler.Update)
		questions.DELETE("/:id", managerOnly, questionHandler.Retire)
	}

	analytics := authed.Group("/analytics")
	{
		analytics.GET("/goals/:id", analyticsHandler.Goal)
		analytics.GET("/employees/:id", analyticsHandler.Employee)
		analytics.GET("/team", managerOnly, analyticsHandler.Team)
		analytics.GET("/system", managerOnly, analyticsHandler.System)
	}

	reports := authed.Group("/reports")
	{
		reports.GET("/employees/:id/csv", reportHandler.EmployeeCSV)
		reports.GET("/team/csv", managerOnly, reportHandler.TeamCSV)
		reports.GET("/team/pdf", managerOnly, reportHandler.TeamPDF)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
