package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/westcoast-edu/education-api/api/swagger"
	"github.com/westcoast-edu/education-api/internal/handler"
	"github.com/westcoast-edu/education-api/internal/middleware"
	"github.com/westcoast-edu/education-api/internal/repository"
	"github.com/westcoast-edu/education-api/internal/service"
	"github.com/westcoast-edu/education-api/pkg/config"
	"github.com/westcoast-edu/education-api/pkg/database"
	"github.com/westcoast-edu/education-api/pkg/logger"
	corsmiddleware "github.com/westcoast-edu/education-api/pkg/middleware/cors"
	reqidmiddleware "github.com/westcoast-edu/education-api/pkg/middleware/requestid"
)

// @title Westcoast Education API
// @version 1.0.0
// @description Course, teacher, student and skill administration
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
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	courseSvc := service.NewCourseService(courseRepo, teacherRepo, nil, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, nil, logr)
	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, courseRepo, nil, logr)
	skillSvc := service.NewSkillService(skillRepo, nil, logr)
	exportSvc := service.NewExportService(courseRepo, logr)

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
		r.GET("/metrics", handler.NewMetricsHandler(metricsSvc).Prometheus)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	courseHandler := handler.NewCourseHandler(courseSvc, exportSvc)
	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/search", courseHandler.Search)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", courseHandler.Create)
	courses.PUT("/:id", courseHandler.Update)
	courses.PATCH("/:id/full", courseHandler.MarkFull)
	courses.PATCH("/:id/completed", courseHandler.MarkCompleted)
	courses.PUT("/:id/teacher/:teacherId", courseHandler.AssignTeacher)
	courses.DELETE("/:id", courseHandler.Delete)
	courses.GET("/:id/roster/export", courseHandler.ExportRoster)

	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	teachers := api.Group("/teachers")
	teachers.GET("", teacherHandler.List)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.POST("", teacherHandler.Create)
	teachers.PUT("/:id", teacherHandler.Update)
	teachers.DELETE("/:id", teacherHandler.Delete)

	studentHandler := handler.NewStudentHandler(studentSvc)
	students := api.Group("/students")
	students.GET("", studentHandler.List)
	students.GET("/:id", studentHandler.Get)
	students.POST("", studentHandler.Create)
	students.PUT("/:id", studentHandler.Update)
	students.DELETE("/:id", studentHandler.Delete)
	students.POST("/:id/courses/:courseId", studentHandler.Enroll)
	students.PATCH("/:id/courses/:courseId/status", studentHandler.ChangeStatus)

	skillHandler := handler.NewSkillHandler(skillSvc)
	skills := api.Group("/skills")
	skills.GET("", skillHandler.List)
	skills.POST("", skillHandler.Create)
	skills.PUT("/:id", skillHandler.Update)
	skills.DELETE("/:id", skillHandler.Delete)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
