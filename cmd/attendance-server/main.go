package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/classtrack/attendance-api/api/swagger"
	"github.com/classtrack/attendance-api/internal/handler"
	"github.com/classtrack/attendance-api/internal/middleware"
	"github.com/classtrack/attendance-api/internal/repository"
	"github.com/classtrack/attendance-api/internal/service"
	"github.com/classtrack/attendance-api/pkg/cache"
	"github.com/classtrack/attendance-api/pkg/config"
	"github.com/classtrack/attendance-api/pkg/database"
	"github.com/classtrack/attendance-api/pkg/export"
	"github.com/classtrack/attendance-api/pkg/logger"
	corsmiddleware "github.com/classtrack/attendance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/classtrack/attendance-api/pkg/middleware/requestid"

	"github.com/go-playground/validator/v10"
)

// @title ClassTrack Attendance API
// @version 1.0.0
// @description Local attendance management backend: sections, students, daily marks and monthly statistics.
// @BasePath /
// @schemes http

func main() {
	seed := flag.Bool("seed", false, "recreate the database with demo data and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer db.Close()

	schema := repository.NewSchemaManager(db)
	if err := schema.EnsureSchema(context.Background()); err != nil {
		logr.Sugar().Fatalw("failed to create schema", "error", err)
	}

	validate := validator.New()

	sectionRepo := repository.NewSectionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	if *seed {
		runSeed(schema, sectionRepo, studentRepo, attendanceRepo, logr)
		return
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	cacheSvc := buildCache(cfg, metricsSvc, logr)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	sectionSvc := service.NewSectionService(sectionRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, sectionRepo, schema, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(statsRepo, cacheSvc, logr)
	exportSvc := service.NewExportService(attendanceSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if metricsSvc != nil {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	sections := r.Group("/sections")
	{
		sections.GET("", sectionHandler.List)
		sections.POST("", sectionHandler.Create)
		sections.PUT("/:id", sectionHandler.Update)
		sections.DELETE("/:id", sectionHandler.Delete)
	}

	students := r.Group("/students")
	{
		students.GET("", studentHandler.List)
		students.POST("", studentHandler.Create)
		students.PUT("/:id", studentHandler.Update)
		students.DELETE("/:id", studentHandler.Delete)
		students.POST("/reset-attendance", studentHandler.ResetAttendance)
	}

	attendance := r.Group("/attendance")
	{
		attendance.GET("", attendanceHandler.Get)
		attendance.GET("/range", attendanceHandler.GetByRange)
		attendance.POST("/mark", attendanceHandler.Mark)
		attendance.GET("/export", exportHandler.MonthlySheet)
	}

	r.GET("/dashboard/stats", dashboardHandler.Stats)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "db", cfg.Database.Path)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// buildCache wires the optional Redis-backed dashboard cache. A missing or
// unreachable Redis downgrades to a disabled cache instead of failing start.
func buildCache(cfg *config.Config, metricsSvc *service.MetricsService, logr *zap.Logger) *service.CacheService {
	if !cfg.Dashboard.CacheEnabled {
		return service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("dashboard cache disabled, redis unreachable", "error", err)
		return service.NewCacheService(nil, metricsSvc, cfg.Dashboard.CacheTTL, logr, false)
	}
	repo := repository.NewCacheRepository(client, logr)
	return service.NewCacheService(repo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
}

func runSeed(schema *repository.SchemaManager, sections *repository.SectionRepository, students *repository.StudentRepository, marks *repository.AttendanceRepository, logr *zap.Logger) {
	seeder := service.NewSeedService(schema, sections, students, marks, nil, logr)
	summary, err := seeder.Run(context.Background())
	if err != nil {
		logr.Sugar().Fatalw("seeding failed", "error", err)
	}
	logr.Sugar().Infow("seeding complete",
		"sections", summary.Sections,
		"students", summary.Students,
		"marks", summary.Marks,
	)
}
