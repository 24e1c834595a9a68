package main

import (
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/dentalbright/booking-api/internal/config"
	"github.com/dentalbright/booking-api/internal/mcpserver"
	"github.com/dentalbright/booking-api/internal/repository/postgres"
	bookingService "github.com/dentalbright/booking-api/internal/service/booking"
	dentistService "github.com/dentalbright/booking-api/internal/service/dentist"
	patientService "github.com/dentalbright/booking-api/internal/service/patient"
)

const version = "1.0.0"

// The MCP server speaks the tool protocol over stdio: the conversational
// agent spawns it and calls booking tools during a phone call. It shares
// the repositories and services with the HTTP API, so both surfaces apply
// identical conflict rules.
func main() {
	_ = godotenv.Load()

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

	toolset := mcpserver.NewToolset(bookingSvc, dentistSvc)
	s := mcpserver.NewServer(toolset, version)

	if err := server.ServeStdio(s); err != nil {
		log.Fatal().Err(err).Msg("mcp server exited")
	}
}
