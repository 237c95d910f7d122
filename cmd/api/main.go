package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-dreamjob-backend/config"
	_ "go-dreamjob-backend/docs" // Important for Swagger
	v1 "go-dreamjob-backend/internal/delivery/http/v1"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/internal/repository/memory"
	"go-dreamjob-backend/internal/repository/postgres"
	"go-dreamjob-backend/internal/storage"
	"go-dreamjob-backend/internal/usecase"
	"go-dreamjob-backend/pkg/database"
	"go-dreamjob-backend/pkg/logger"
	"go-dreamjob-backend/pkg/metrics"
	"go-dreamjob-backend/pkg/redis"
	"go-dreamjob-backend/pkg/security"
	"go-dreamjob-backend/pkg/security/antivirus"
	"go-dreamjob-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repositories struct {
	candidates domain.CandidateRepository
	vacancies  domain.VacancyRepository
	cities     domain.CityRepository
	files      domain.FileRepository
	users      domain.UserRepository
}

// @title           Dreamjob Backend API
// @version         1.0
// @description     Job board backend: candidates, vacancies and their attachments.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting dreamjob backend", "port", cfg.Port, "storage", cfg.StorageBackend, "files", cfg.FileBackend)
	secLog := security.InitSecurityLogger("dreamjob", cfg.Environment)
	defer func() { _ = secLog.Sync() }()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	checks := map[string]usecase.Pinger{}

	// 3. Setup Redis (optional)
	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, upload limits and login blocking disabled", "error", err)
	} else {
		defer redis.Close()
		checks["redis"] = redis.HealthCheck
	}

	// 4. Setup Repositories
	repos, pool, err := newRepositories(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up storage", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
		checks["database"] = pool.Ping
	}

	// 5. Setup Blob Storage and Scanner
	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up file storage", "error", err)
		os.Exit(1)
	}
	if pinger, ok := blobs.(interface{ Ping(context.Context) error }); ok {
		checks["files"] = pinger.Ping
	}

	var scanner antivirus.Scanner = antivirus.NewNoOpScanner()
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, 30*time.Second)
		if !clam.Available(ctx) {
			logger.Log.Warn("ClamAV not reachable, uploads will be rejected until it is", "address", cfg.ClamAVAddress)
		}
		scanner = clam
	}

	// 6. Setup UseCases
	validate := validation.New()
	sessions := security.NewSessionManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	tracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.FailedLoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		UseIPTracking: true,
	}, secLog)

	fileStore := usecase.NewFileUsecase(repos.files, blobs, scanner)
	candidateUC := usecase.NewCandidateUsecase(repos.candidates, fileStore, validate)
	vacancyUC := usecase.NewVacancyUsecase(repos.vacancies, fileStore, validate)
	cityUC := usecase.NewCityUsecase(repos.cities)
	userUC := usecase.NewUserUsecase(repos.users, tracker, sessions, secLog, validate)
	exportUC := usecase.NewExportUsecase(repos.candidates, repos.vacancies, repos.cities)
	healthUC := usecase.NewHealthUsecase(checks)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC:    candidateUC,
		VacancyUC:      vacancyUC,
		CityUC:         cityUC,
		UserUC:         userUC,
		ExportUC:       exportUC,
		HealthUC:       healthUC,
		Files:          fileStore,
		Sessions:       sessions,
		UploadLimiter:  security.NewUploadLimiter(cfg.UploadPerMinute, cfg.UploadPerDay),
		SecurityLogger: secLog,
		Metrics:        metrics.New(),
		Config:         cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newRepositories(ctx context.Context, cfg *config.Config) (repositories, *pgxpool.Pool, error) {
	switch cfg.StorageBackend {
	case "memory":
		repos := repositories{
			candidates: memory.NewCandidateRepository(),
			vacancies:  memory.NewVacancyRepository(),
			cities:     memory.NewCityRepository(),
			files:      memory.NewFileRepository(),
			users:      memory.NewUserRepository(),
		}
		if err := memory.SeedCities(ctx, repos.cities); err != nil {
			return repositories{}, nil, err
		}
		if cfg.SeedData {
			if err := memory.SeedDemoData(ctx, repos.candidates, repos.vacancies); err != nil {
				return repositories{}, nil, err
			}
		}
		return repos, nil, nil

	case "postgres":
		if cfg.DBUrl == "" {
			return repositories{}, nil, errors.New("STORAGE_BACKEND=postgres requires DATABASE_URL")
		}
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return repositories{}, nil, err
		}

		cityNames := make([]string, 0, len(memory.DefaultCities))
		for _, c := range memory.DefaultCities {
			cityNames = append(cityNames, c.Name)
		}
		if err := database.EnsureSchema(ctx, pool, cityNames); err != nil {
			pool.Close()
			return repositories{}, nil, err
		}

		return repositories{
			candidates: postgres.NewCandidateRepository(pool),
			vacancies:  postgres.NewVacancyRepository(pool),
			cities:     postgres.NewCityRepository(pool),
			files:      postgres.NewFileRepository(pool),
			users:      postgres.NewUserRepository(pool),
		}, pool, nil

	default:
		return repositories{}, nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.FileBackend {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "local":
		return storage.NewLocalStore(cfg.FileDir)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("FILE_BACKEND=s3 requires S3_BUCKET")
		}
		return storage.NewS3Store(ctx, storage.S3Config{
			Provider:        storage.S3Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
	case "minio":
		return storage.NewMinIOStore(storage.MinIOConfig{
			Endpoint:         cfg.MinIOEndpoint,
			AccessKeyID:      cfg.MinIOAccessKeyID,
			SecretAccessKey:  cfg.MinIOSecretAccessKey,
			Bucket:           cfg.MinIOBucket,
			UseSSL:           cfg.MinIOUseSSL,
			AutoCreateBucket: cfg.MinIOAutoCreateBucket,
		})
	default:
		return nil, fmt.Errorf("unknown FILE_BACKEND %q", cfg.FileBackend)
	}
}
