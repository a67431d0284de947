package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/samidafali/education-backend/internal/app/server"
	"github.com/samidafali/education-backend/internal/config"
	"github.com/samidafali/education-backend/internal/delivery/http"
	"github.com/samidafali/education-backend/internal/mailer"
	"github.com/samidafali/education-backend/internal/service"
	"github.com/samidafali/education-backend/internal/service/access"
	"github.com/samidafali/education-backend/internal/service/auth"
	"github.com/samidafali/education-backend/internal/service/enrollment"
	"github.com/samidafali/education-backend/internal/service/messaging"
	"github.com/samidafali/education-backend/internal/service/payment"
	"github.com/samidafali/education-backend/internal/storage/minio_storage"
	"github.com/samidafali/education-backend/internal/storage/postgres"
	"github.com/samidafali/education-backend/internal/storage/stripe"
	"github.com/samidafali/education-backend/pkg/logger"
)

const courseMediaBucket = "course_media"

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Buckets)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	mediaBucket := cfg.Minio.Buckets[courseMediaBucket]
	mediaStorage, err := minio_storage.NewCourseMediaStorage(minioStorage, mediaBucket.Name, mediaBucket.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing course media bucket", err)
	}

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	}

	gateway := stripe.NewGateway(cfg.Stripe.SecretKey)

	tokenRepo := postgres.NewTokensPostgres(pg.Pool)
	userRepo := postgres.NewUserPostgres(pg.Pool)
	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	enrollmentRepo := postgres.NewEnrollmentPostgres(pg.Pool)
	paymentRepo := postgres.NewPaymentPostgres(pg.Pool)
	messageRepo := postgres.NewMessagePostgres(pg.Pool)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, "//", cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(log, jwtManager, userRepo, tokenRepo)
	accessService := access.NewAccessService(log, courseRepo, enrollmentRepo, mediaStorage)
	enrollmentService := enrollment.NewEnrollmentService(log, courseRepo, userRepo, enrollmentRepo, mail)
	paymentService := payment.NewPaymentService(log, courseRepo, userRepo, enrollmentRepo, paymentRepo, gateway, mail, cfg.Stripe.Currency, cfg.Stripe.PublishableKey)
	messagingService := messaging.NewMessagingService(log, accessService, courseRepo, messageRepo)

	u := service.Collection{
		AuthService:       authService,
		AccessService:     accessService,
		EnrollmentService: enrollmentService,
		PaymentService:    paymentService,
		MessagingService:  messagingService,
	}

	r := http.InitRoutes(log, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown error", err)
	}
}
