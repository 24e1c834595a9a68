package notification

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/dentalbright/booking-api/internal/model"
	"github.com/dentalbright/booking-api/pkg/logger"
)

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM"`
}

// Service sends appointment emails. Patients without an email address are
// skipped silently; the phone call is the primary channel.
type Service struct {
	dialer *gomail.Dialer
	from   string
	logger *logger.Logger
}

func NewService(cfg SMTPConfig, logger *logger.Logger) *Service {
	return &Service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *Service) SendConfirmation(payload *model.AppointmentEventPayload) error {
	return s.send(payload, "Your appointment is confirmed",
		"Hi %s,\n\nYour appointment with %s is confirmed for %s to %s.\n\nSee you then!\nDentalBright")
}

func (s *Service) SendReschedule(payload *model.AppointmentEventPayload) error {
	return s.send(payload, "Your appointment has been rescheduled",
		"Hi %s,\n\nYour appointment with %s has been moved to %s to %s.\n\nSee you then!\nDentalBright")
}

func (s *Service) SendCancellation(payload *model.AppointmentEventPayload) error {
	return s.send(payload, "Your appointment has been canceled",
		"Hi %s,\n\nYour appointment with %s on %s to %s has been canceled.\n\nDentalBright")
}

func (s *Service) send(payload *model.AppointmentEventPayload, subject, bodyFormat string) error {
	if payload.PatientEmail == "" {
		s.logger.Debug("skipping email, patient has no address",
			"appointment_id", payload.AppointmentID)
		return nil
	}

	body := fmt.Sprintf(bodyFormat,
		payload.PatientName,
		payload.DentistName,
		payload.StartTime.Format("Monday, January 2 at 15:04"),
		payload.EndTime.Format("15:04"),
	)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", payload.PatientEmail)
	m.SetHeader("Subject", subject)
	m.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		"appointment_id", payload.AppointmentID,
		"to", payload.PatientEmail)
	return nil
}
