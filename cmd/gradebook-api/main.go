package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edusoft-co/gradebook-api/api/swagger"
	"github.com/edusoft-co/gradebook-api/internal/handler"
	"github.com/edusoft-co/gradebook-api/internal/middleware"
	"github.com/edusoft-co/gradebook-api/internal/repository"
	"github.com/edusoft-co/gradebook-api/internal/service"
	"github.com/edusoft-co/gradebook-api/pkg/cache"
	"github.com/edusoft-co/gradebook-api/pkg/config"
	"github.com/edusoft-co/gradebook-api/pkg/database"
	"github.com/edusoft-co/gradebook-api/pkg/logger"
	corsmiddleware "github.com/edusoft-co/gradebook-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edusoft-co/gradebook-api/pkg/middleware/requestid"
)

// @title Gradebook API
// @version 0.1.0
// @description Course grading service: weighted activities, score capture and derived corte/final grades
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	activityRepo := repository.NewActivityRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	activitySvc := service.NewActivityService(activityRepo, validate, logr)

	var gradeSvc *service.GradeService
	if cfg.Grading.BoardCacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, grade board cache disabled", "error", err)
			gradeSvc = service.NewGradeService(activityRepo, scoreRepo, gradeRepo, enrollmentRepo, nil, metricsSvc, validate, logr)
		} else {
			defer redisClient.Close()
			boardCache := service.NewGradeBoardCache(redisClient, cfg.Grading.BoardCacheTTL, metricsSvc, logr)
			gradeSvc = service.NewGradeService(activityRepo, scoreRepo, gradeRepo, enrollmentRepo, boardCache, metricsSvc, validate, logr)
		}
	} else {
		gradeSvc = service.NewGradeService(activityRepo, scoreRepo, gradeRepo, enrollmentRepo, nil, metricsSvc, validate, logr)
	}

	exportSvc := service.NewExportService(gradeSvc, logr)

	activityHandler := handler.NewActivityHandler(activitySvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc, exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/courses/:courseId/activities", activityHandler.List)
		api.POST("/courses/:courseId/activities", activityHandler.Create)
		api.DELETE("/activities/:activityId", activityHandler.Delete)
		api.GET("/courses/:courseId/allocations", activityHandler.Allocations)

		api.POST("/scores", gradeHandler.SubmitScore)
		api.POST("/courses/:courseId/grades/settle", gradeHandler.Settle)
		api.GET("/courses/:courseId/grades", gradeHandler.Board)
		api.GET("/courses/:courseId/students/:studentId/grade", gradeHandler.StudentGrade)
		api.GET("/courses/:courseId/grades/export", gradeHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
