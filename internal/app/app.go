package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack_backend/internal/config"
	"fittrack_backend/internal/controller"
	"fittrack_backend/internal/repository"
	"fittrack_backend/internal/service"
	"fittrack_backend/pkg/database"
	"fittrack_backend/pkg/logger"
	"fittrack_backend/pkg/monitoring"
	"fittrack_backend/pkg/security"
	"fittrack_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	exercise    *repository.ExerciseRepository
	session     *repository.SessionRepository
	record      *repository.RecordRepository
	achievement *repository.AchievementRepository
	challenge   *repository.ChallengeRepository
	activity    *repository.ActivityRepository
}

type services struct {
	auth        *service.AuthService
	user        *service.UserService
	storage     *service.StorageService
	record      *service.RecordService
	streak      *service.StreakService
	achievement *service.AchievementService
	challenge   *service.ChallengeService
	leaderboard *service.LeaderboardService
	workout     *service.WorkoutService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	exercise    *controller.ExerciseController
	workout     *controller.WorkoutController
	record      *controller.RecordController
	achievement *controller.AchievementController
	challenge   *controller.ChallengeController
	leaderboard *controller.LeaderboardController
	activity    *controller.ActivityController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置热更新入口，逐个通知已注册的回调
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		exercise:    repository.NewExerciseRepository(db),
		session:     repository.NewSessionRepository(db),
		record:      repository.NewRecordRepository(db),
		achievement: repository.NewAchievementRepository(db),
		challenge:   repository.NewChallengeRepository(db),
		activity:    repository.NewActivityRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.record = service.NewRecordService(repos.record, repos.session, repos.exercise, repos.activity)
	s.streak = service.NewStreakService(repos.session)
	s.achievement = service.NewAchievementService(repos.achievement, repos.session, repos.record, repos.activity, s.streak)
	s.challenge = service.NewChallengeService(repos.challenge, repos.activity, db)
	s.leaderboard = service.NewLeaderboardService(rdb, repos.user)
	s.workout = service.NewWorkoutService(
		repos.session,
		repos.exercise,
		repos.activity,
		s.record,
		s.achievement,
		s.challenge,
		s.leaderboard,
		db,
	)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.user),
		user:        controller.NewUserController(s.user, s.storage),
		exercise:    controller.NewExerciseController(repos.exercise),
		workout:     controller.NewWorkoutController(s.workout),
		record:      controller.NewRecordController(s.record, s.streak),
		achievement: controller.NewAchievementController(s.achievement),
		challenge:   controller.NewChallengeController(s.challenge),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		activity:    controller.NewActivityController(repos.activity),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.MigrateOnly {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
		if cfg.MigrateOnly {
			os.Exit(0)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("fittrack", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
