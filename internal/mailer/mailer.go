package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"volunteer-hub/backend/internal/config"
)

// Template identifiers understood by the transactional email provider.
const (
	TemplateTaskAssigned    = "task-assigned"
	TemplateTaskReassigned  = "task-reassigned"
	TemplateTaskReminder    = "task-reminder"
	TemplateDonationReceipt = "donation-receipt"
)

// Mailer sends a templated email to a single recipient. Implementations
// report failure but make no delivery guarantee.
type Mailer interface {
	Send(ctx context.Context, to, templateID string, params map[string]string) error
}

type HTTPMailer struct {
	endpoint    string
	apiKey      string
	senderName  string
	senderEmail string
	client      *http.Client
}

func NewHTTPMailer(cfg config.MailerConfig) *HTTPMailer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPMailer{
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		senderName:  cfg.SenderName,
		senderEmail: cfg.SenderEmail,
		client:      &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	Sender     sendParty         `json:"sender"`
	To         []sendParty       `json:"to"`
	TemplateID string            `json:"templateId"`
	Params     map[string]string `json:"params,omitempty"`
}

type sendParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

func (m *HTTPMailer) Send(ctx context.Context, to, templateID string, params map[string]string) error {
	payload := sendRequest{
		Sender:     sendParty{Name: m.senderName, Email: m.senderEmail},
		To:         []sendParty{{Email: to}},
		TemplateID: templateID,
		Params:     params,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	return nil
}

// NoopMailer is used when the mailer is disabled; sends always succeed.
type NoopMailer struct{}

func (NoopMailer) Send(ctx context.Context, to, templateID string, params map[string]string) error {
	return nil
}

var _ Mailer = (*HTTPMailer)(nil)
var _ Mailer = NoopMailer{}

// DefaultTimeout is used when no mailer timeout is configured.
const DefaultTimeout = 10 * time.Second
