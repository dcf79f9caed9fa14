// Package email renders and delivers the transactional mails sent after a
// lead has been captured.
package email

import (
	"context"

	"energy_diagnostic_backend/internal/diagnostic"

	"github.com/google/uuid"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte
	FileName string // e.g. "diagnostico-<leadId>.pdf"
}

// DiagnosticSummary is what the prospect receives after leaving their details.
type DiagnosticSummary struct {
	ContactName    string
	Questionnaire  diagnostic.Questionnaire
	Result         diagnostic.Result
	SelectedAction string
	Insight        string
}

// SalesAlert notifies the sales team about a hot lead.
type SalesAlert struct {
	LeadID        uuid.UUID
	ContactName   string
	ContactEmail  string
	ContactPhone  string
	Questionnaire diagnostic.Questionnaire
	Result        diagnostic.Result
}

type Sender interface {
	SendDiagnosticSummary(ctx context.Context, toEmail string, summary DiagnosticSummary, attachments ...Attachment) error
	SendSalesAlert(ctx context.Context, toEmail string, alert SalesAlert, attachments ...Attachment) error
}

type NoopSender struct{}

func (NoopSender) SendDiagnosticSummary(ctx context.Context, toEmail string, summary DiagnosticSummary, attachments ...Attachment) error {
	return nil
}

func (NoopSender) SendSalesAlert(ctx context.Context, toEmail string, alert SalesAlert, attachments ...Attachment) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
