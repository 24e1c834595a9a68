package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dentalbright/booking-api/internal/model"
	apperrors "github.com/dentalbright/booking-api/pkg/errors"
	"github.com/dentalbright/booking-api/pkg/logger"
)

const defaultBaseURL = "https://api.elevenlabs.io"

type Config struct {
	APIKey             string `envconfig:"ELEVENLABS_API_KEY"`
	AgentID            string `envconfig:"ELEVENLABS_AGENT_ID"`
	AgentPhoneNumberID string `envconfig:"ELEVENLABS_AGENT_PHONE_NUMBER_ID"`
	BaseURL            string `envconfig:"ELEVENLABS_BASE_URL"`
}

// Client places outbound confirmation calls through the ElevenLabs
// conversational agent. Calls go out over Twilio; the agent receives the
// appointment details as dynamic variables so it can speak them back.
type Client struct {
	config  Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logger.Logger
}

func NewClient(cfg Config, logger *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: 15 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "elevenlabs",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		logger: logger,
	}
}

type outboundCallRequest struct {
	AgentID            string       `json:"agent_id"`
	AgentPhoneNumberID string       `json:"agent_phone_number_id"`
	ToNumber           string       `json:"to_number"`
	ConversationData   conversation `json:"conversation_initiation_client_data"`
}

type conversation struct {
	DynamicVariables map[string]string `json:"dynamic_variables"`
}

type outboundCallResponse struct {
	Success        bool   `json:"success"`
	ConversationID string `json:"conversation_id"`
	CallSID        string `json:"callSid"`
}

// PlaceConfirmationCall dials the patient and hands the agent the
// appointment details. The breaker keeps a flapping upstream from stalling
// the worker loop.
func (c *Client) PlaceConfirmationCall(ctx context.Context, payload *model.AppointmentEventPayload) (string, error) {
	body := outboundCallRequest{
		AgentID:            c.config.AgentID,
		AgentPhoneNumberID: c.config.AgentPhoneNumberID,
		ToNumber:           payload.PatientPhone,
		ConversationData: conversation{
			DynamicVariables: map[string]string{
				"patient_name": payload.PatientName,
				"dentist_name": payload.DentistName,
				"start_time":   payload.StartTime.Format("Monday, January 2 at 15:04"),
				"end_time":     payload.EndTime.Format("15:04"),
			},
		},
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		conversationID, err := c.placeCall(ctx, body)
		return conversationID, err
	})
	if err != nil {
		return "", err
	}

	conversationID := result.(string)
	c.logger.Info("outbound call placed",
		"appointment_id", payload.AppointmentID,
		"conversation_id", conversationID)
	return conversationID, nil
}

func (c *Client) placeCall(ctx context.Context, body outboundCallRequest) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode call request: %w", err)
	}

	url := c.config.BaseURL + "/v1/convai/twilio/outbound-call"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("failed to build call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.Upstream("voice provider unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.Upstream("failed to read voice provider response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Upstream(
			fmt.Sprintf("voice provider returned status %d", resp.StatusCode),
			fmt.Errorf("%s", raw))
	}

	var decoded outboundCallResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", apperrors.Upstream("failed to decode voice provider response", err)
	}
	if !decoded.Success {
		return "", apperrors.Upstream("voice provider rejected the call", fmt.Errorf("%s", raw))
	}

	return decoded.ConversationID, nil
}
