package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/leads/repository"
)

const webhookTimeout = 10 * time.Second

// LeadDocument is the JSON body posted to the CRM.
type LeadDocument struct {
	LeadID         string                   `json:"leadId"`
	CapturedAt     time.Time                `json:"capturedAt"`
	Contact        ContactDocument          `json:"contact"`
	SelectedAction string                   `json:"selectedAction,omitempty"`
	Questionnaire  diagnostic.Questionnaire `json:"questionnaire"`
	Result         diagnostic.Result        `json:"result"`
	Insight        string                   `json:"insight,omitempty"`
}

type ContactDocument struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewLeadDocument maps a stored lead to the CRM payload.
func NewLeadDocument(lead repository.Lead) LeadDocument {
	return LeadDocument{
		LeadID:     lead.ID.String(),
		CapturedAt: lead.CreatedAt.UTC(),
		Contact: ContactDocument{
			Name:  lead.ContactName,
			Email: lead.ContactEmail,
			Phone: lead.ContactPhone,
		},
		SelectedAction: lead.SelectedAction,
		Questionnaire:  lead.Questionnaire,
		Result:         lead.Result,
		Insight:        lead.Insight,
	}
}

// Webhook posts lead documents to the CRM endpoint.
type Webhook struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhook(url, token string) *Webhook {
	return &Webhook{url: url, token: token, client: &http.Client{Timeout: webhookTimeout}}
}

// Enabled reports whether a webhook URL is configured.
func (w *Webhook) Enabled() bool {
	return w != nil && strings.TrimSpace(w.url) != ""
}

// Send posts doc and fails on any non-2xx answer.
func (w *Webhook) Send(ctx context.Context, doc LeadDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode lead document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", doc.LeadID)
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("crm webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
