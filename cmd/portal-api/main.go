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

	_ "github.com/braioemmanuel-hub/regi-learn-suite/api/swagger"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/handler"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/repository"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/router"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/cache"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/config"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/database"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/export"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/jobs"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/logger"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/storage"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/studentid"
)

// @title Student Portal API
// @version 1.0.0
// @description Student self-service and back-office API for university registration, fees, results and records
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
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	metricsSvc := service.NewMetricsService()
	instrumentedUploads := service.NewInstrumentedStore(uploadStore, metricsSvc)

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	resultRepo := repository.NewResultRepository(db)
	academicRepo := repository.NewAcademicRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)
	realtimeRepo := repository.NewRealtimeRepository(redisClient)

	// Services.
	notificationSvc := service.NewNotificationService(notificationRepo, realtimeRepo, userRepo, logr, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		MaxRetries: cfg.Notifications.MaxRetries,
	})

	authSvc := service.NewAuthService(userRepo, profileRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "student-portal",
	})

	identitySvc := service.NewIdentityService(userRepo, permissionRepo, service.NewInstrumentedCache(cacheRepo, metricsSvc), cfg.Permissions.CacheTTL, logr)
	navigationSvc := service.NewNavigationService(identitySvc, logr)

	registrationSvc := service.NewRegistrationService(
		userRepo,
		profileRepo,
		registrationRepo,
		instrumentedUploads,
		studentid.NewGenerator(cfg.Registration.StudentIDPrefix),
		notificationSvc,
		nil,
		logr,
		service.RegistrationConfig{
			FeeAmount:       cfg.Registration.FeeAmount,
			MaxFileSize:     cfg.Uploads.MaxFileSizeBytes,
			PendingPageSize: cfg.Registration.PendingPageSize,
		},
	)

	studentSvc := service.NewStudentService(profileRepo, nil, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, instrumentedUploads, notificationSvc, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, nil, logr)
	resultSvc := service.NewResultService(resultRepo, courseRepo, nil, logr)
	academicSvc := service.NewAcademicService(academicRepo, nil, logr)
	timetableSvc := service.NewTimetableService(timetableRepo, courseRepo, nil, logr)
	hostelSvc := service.NewHostelService(hostelRepo, nil, logr)
	documentSvc := service.NewDocumentService(documentRepo, instrumentedUploads, notificationSvc, nil, logr)
	adminSvc := service.NewAdminService(userRepo, permissionRepo, identitySvc, nil, logr)
	dashboardSvc := service.NewDashboardService(profileRepo, paymentRepo, notificationRepo, metricsSvc, logr)

	exportSvc := service.NewExportService(registrationRepo, exportStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Exports.SignedURLTTL,
	}, logr, export.NewCSVExporter(), export.NewPDFExporter())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notificationSvc.Start(ctx)
	defer notificationSvc.Stop()

	cleanupTicker := time.NewTicker(cfg.Exports.CleanupInterval)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-cleanupTicker.C:
				exportSvc.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	engine := router.New(router.Dependencies{
		Config: cfg,
		Logger: logr,
		Handlers: router.Handlers{
			Auth:         handler.NewAuthHandler(authSvc),
			Navigation:   handler.NewNavigationHandler(navigationSvc),
			Registration: handler.NewRegistrationHandler(registrationSvc, exportSvc),
			Student:      handler.NewStudentHandler(studentSvc),
			Payment:      handler.NewPaymentHandler(paymentSvc),
			Course:       handler.NewCourseHandler(courseSvc),
			Enrollment:   handler.NewEnrollmentHandler(enrollmentSvc),
			Result:       handler.NewResultHandler(resultSvc),
			Academic:     handler.NewAcademicHandler(academicSvc),
			Timetable:    handler.NewTimetableHandler(timetableSvc),
			Hostel:       handler.NewHostelHandler(hostelSvc),
			Document:     handler.NewDocumentHandler(documentSvc),
			Notification: handler.NewNotificationHandler(notificationSvc),
			Admin:        handler.NewAdminHandler(adminSvc),
			Dashboard:    handler.NewDashboardHandler(dashboardSvc),
			Metrics:      handler.NewMetricsHandler(metricsSvc),
		},
		Auth:          authSvc,
		Identities:    identitySvc,
		Registrations: registrationSvc,
		Metrics:       metricsSvc,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
}
