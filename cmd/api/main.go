package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dentalbright/booking-api/internal/config"
	appointmentHandler "github.com/dentalbright/booking-api/internal/handler/appointment"
	authHandler "github.com/dentalbright/booking-api/internal/handler/auth"
	dentistHandler "github.com/dentalbright/booking-api/internal/handler/dentist"
	healthHandler "github.com/dentalbright/booking-api/internal/handler/health"
	"github.com/dentalbright/booking-api/internal/middleware"
	"github.com/dentalbright/booking-api/internal/repository/postgres"
	"github.com/dentalbright/booking-api/internal/router"
	authService "github.com/dentalbright/booking-api/internal/service/auth"
	bookingService "github.com/dentalbright/booking-api/internal/service/booking"
	dentistService "github.com/dentalbright/booking-api/internal/service/dentist"
	patientService "github.com/dentalbright/booking-api/internal/service/patient"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	dentistRepo := postgres.NewDentistRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	dentistSvc := dentistService.NewService(dentistRepo)
	patientSvc := patientService.NewService(patientRepo)
	bookingSvc := bookingService.NewService(appointmentRepo, outboxRepo, patientSvc, dentistSvc)
	authSvc := authService.NewService(dentistSvc, cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	r := router.NewRouter(
		authSvc,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(authSvc),
		dentistHandler.NewHandler(dentistSvc, bookingSvc),
		appointmentHandler.NewHandler(bookingSvc),
		router.Config{
			RateLimitRPS:   cfg.Rate.RPS,
			RateLimitBurst: cfg.Rate.Burst,
			CORS:           middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
