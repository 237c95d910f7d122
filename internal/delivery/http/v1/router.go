package v1

import (
	"net/http"

	"go-dreamjob-backend/config"
	"go-dreamjob-backend/internal/delivery/http/middleware"
	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/metrics"
	"go-dreamjob-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC    domain.CandidateUsecase
	VacancyUC      domain.VacancyUsecase
	CityUC         domain.CityUsecase
	UserUC         domain.UserUsecase
	ExportUC       domain.ExportUsecase
	HealthUC       domain.HealthUsecase
	Files          domain.FileStore
	Sessions       middleware.SessionParser
	UploadLimiter  middleware.UploadAllower
	SecurityLogger *security.SecurityLogger
	Metrics        *metrics.Metrics
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	production := deps.Config.Environment == "production"

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins, production)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(production))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.GinMiddleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	r.Use(middleware.ErrorHandler())
	r.MaxMultipartMemory = deps.Config.UploadMaxBytes + (1 << 20)

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", gin.H{"status": "ok"})
			return
		}
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	uploads := newUploadReader(deps.Config.UploadMaxBytes, deps.SecurityLogger, deps.Metrics)
	uploadLimit := func(c *gin.Context) { c.Next() }
	if deps.UploadLimiter != nil {
		uploadLimit = middleware.UploadLimitMiddleware(deps.UploadLimiter)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Sessions, deps.UserUC, deps.SecurityLogger))
	protected.Use(middleware.CSRFMiddleware(deps.SecurityLogger))
	{
		NewUserHandler(v1, protected, middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig()), deps.UserUC, production)
		NewCandidateHandler(protected, uploadLimit, deps.CandidateUC, deps.ExportUC, uploads)
		NewVacancyHandler(protected, uploadLimit, deps.VacancyUC, deps.ExportUC, uploads)
		NewCityHandler(protected, deps.CityUC)
		NewFileHandler(protected, deps.Files)
	}

	return r
}
