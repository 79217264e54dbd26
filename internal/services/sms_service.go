package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"hostelhub/internal/config"
	"hostelhub/internal/models"
	"hostelhub/internal/repositories"

	"github.com/google/uuid"
)

// SMSService sends transactional SMS through the configured gateway and
// records every attempt, success or failure, in sms_logs plus a plain
// text outbox file.
type SMSService interface {
	Send(ctx context.Context, hostelID uuid.UUID, phone, body, category string) (*models.SMSResult, error)
}

type smsService struct {
	cfg        *config.SMSConfig
	smsLogRepo repositories.SMSLogRepository
	httpClient *http.Client

	mu sync.Mutex // guards the outbox file
}

func NewSMSService(cfg *config.SMSConfig, smsLogRepo repositories.SMSLogRepository) SMSService {
	return &smsService{
		cfg:        cfg,
		smsLogRepo: smsLogRepo,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Delivery.TimeoutSeconds) * time.Second,
		},
	}
}

type gatewayResponse struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

func (s *smsService) Send(ctx context.Context, hostelID uuid.UUID, phone, body, category string) (*models.SMSResult, error) {
	result := s.sendWithRetry(ctx, phone, body)

	entry := &models.SMSLog{
		ID:         uuid.New(),
		HostelID:   hostelID,
		Phone:      phone,
		Body:       body,
		Category:   category,
		Status:     models.SMSStatusSent,
		ProviderID: result.ProviderID,
		Error:      result.Error,
		SentAt:     time.Now(),
	}
	if !result.Success {
		entry.Status = models.SMSStatusFailed
	}

	if err := s.smsLogRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to record SMS log entry: %v", err)
	}
	s.appendOutbox(entry)

	if !result.Success {
		return result, fmt.Errorf("sms delivery failed: %s", result.Error)
	}
	return result, nil
}

func (s *smsService) sendWithRetry(ctx context.Context, phone, body string) *models.SMSResult {
	attempts := s.cfg.Delivery.MaxRetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr string
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return &models.SMSResult{Success: false, Error: ctx.Err().Error()}
			case <-time.After(time.Duration(s.cfg.Delivery.RetryDelaySeconds) * time.Second):
			}
		}

		result, err := s.callGateway(ctx, phone, body)
		if err == nil {
			return result
		}
		lastErr = err.Error()
	}

	return &models.SMSResult{Success: false, Error: lastErr}
}

func (s *smsService) callGateway(ctx context.Context, phone, body string) (*models.SMSResult, error) {
	form := url.Values{}
	form.Set("apikey", s.cfg.Gateway.APIKey)
	form.Set("numbers", phone)
	form.Set("message", body)
	form.Set("sender", s.cfg.Gateway.SenderID)
	form.Set("route", s.cfg.Gateway.Route)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Gateway.APIEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var gw gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gw); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %v", err)
	}

	if gw.Status != "success" {
		return nil, fmt.Errorf("gateway rejected message: %s", gw.Message)
	}

	return &models.SMSResult{Success: true, ProviderID: gw.MessageID}, nil
}

// appendOutbox writes a one-line record to the plain text log file. Log
// file failures are reported but never fail the send.
func (s *smsService) appendOutbox(entry *models.SMSLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.cfg.Delivery.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("Failed to open SMS outbox file: %v", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%s | %s | %s | %s | %s\n",
		entry.SentAt.Format(time.RFC3339), entry.Phone, entry.Category, entry.Status, entry.Error)
	if _, err := f.WriteString(line); err != nil {
		log.Printf("Failed to append SMS outbox entry: %v", err)
	}
}
