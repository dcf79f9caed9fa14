// Package notification reacts to captured leads: it mails the prospect a
// summary, alerts sales about hot leads and archives the lead dossier.
// Domain modules only publish events and never talk to mail or storage.
package notification

import (
	"context"
	"fmt"
	"time"

	"energy_diagnostic_backend/internal/archive"
	"energy_diagnostic_backend/internal/diagnostic"
	"energy_diagnostic_backend/internal/email"
	"energy_diagnostic_backend/internal/events"
	"energy_diagnostic_backend/internal/pdf"
	"energy_diagnostic_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

const handlerTimeout = 30 * time.Second

// DossierArchive persists lead dossiers.
type DossierArchive interface {
	Save(ctx context.Context, d archive.Dossier) (string, error)
}

// ReportRenderer produces the PDF report attached to the prospect summary.
type ReportRenderer interface {
	Render(ctx context.Context, report pdf.Report) ([]byte, error)
}

// WhatsAppSender sends WhatsApp messages.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender          email.Sender
	archive         DossierArchive
	reports         ReportRenderer
	whatsapp        WhatsAppSender
	salesWhatsApp   string
	salesAlertEmail string
	log             *logger.Logger
}

// New builds the module. A nil archive disables dossier uploads and an
// empty salesAlertEmail disables hot-lead alerts.
func New(sender email.Sender, dossiers DossierArchive, salesAlertEmail string, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{
		sender:          sender,
		archive:         dossiers,
		salesAlertEmail: salesAlertEmail,
		log:             log,
	}
}

// SetReportRenderer enables the PDF report on prospect summaries.
func (m *Module) SetReportRenderer(r ReportRenderer) {
	m.reports = r
}

// SetWhatsAppSender enables hot-lead alerts to the sales WhatsApp number.
func (m *Module) SetWhatsAppSender(sender WhatsAppSender, salesPhone string) {
	m.whatsapp = sender
	m.salesWhatsApp = salesPhone
}

// RegisterHandlers subscribes the module to the events it handles.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCaptured:
		return m.handleLeadCaptured(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCaptured(ctx context.Context, e events.LeadCaptured) error {
	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	leadID := e.LeadID.String()
	dossier := dossierFromEvent(e)

	var g errgroup.Group

	g.Go(func() error {
		err := m.sender.SendDiagnosticSummary(ctx, e.ContactEmail, email.DiagnosticSummary{
			ContactName:    e.ContactName,
			Questionnaire:  e.Questionnaire,
			Result:         e.Result,
			SelectedAction: e.SelectedAction,
			Insight:        e.Insight,
		}, m.reportAttachment(ctx, e)...)
		if err != nil {
			m.log.Error("failed to send diagnostic summary", "lead_id", leadID, "error", err)
			return nil
		}
		m.log.Info("diagnostic summary sent", "lead_id", leadID)
		return nil
	})

	if e.Result.LeadCategory == diagnostic.LeadHot && m.salesAlertEmail != "" {
		g.Go(func() error {
			var attachments []email.Attachment
			if body, err := dossier.Encode(); err == nil {
				attachments = append(attachments, email.Attachment{FileName: "diagnostico-" + dossier.FileName(), Content: body})
			}
			err := m.sender.SendSalesAlert(ctx, m.salesAlertEmail, email.SalesAlert{
				LeadID:        e.LeadID,
				ContactName:   e.ContactName,
				ContactEmail:  e.ContactEmail,
				ContactPhone:  e.ContactPhone,
				Questionnaire: e.Questionnaire,
				Result:        e.Result,
			}, attachments...)
			if err != nil {
				m.log.Error("failed to send sales alert", "lead_id", leadID, "error", err)
				return nil
			}
			m.log.LeadEvent("sales_alert_sent", leadID, string(e.Result.LeadCategory))
			return nil
		})
	}

	if e.Result.LeadCategory == diagnostic.LeadHot && m.whatsapp != nil && m.salesWhatsApp != "" {
		g.Go(func() error {
			if err := m.whatsapp.SendMessage(ctx, m.salesWhatsApp, hotLeadMessage(e)); err != nil {
				m.log.Error("failed to send whatsapp alert", "lead_id", leadID, "error", err)
			}
			return nil
		})
	}

	if m.archive != nil {
		g.Go(func() error {
			key, err := m.archive.Save(ctx, dossier)
			if err != nil {
				m.log.Error("failed to archive dossier", "lead_id", leadID, "error", err)
				return nil
			}
			m.log.Info("dossier archived", "lead_id", leadID, "key", key)
			return nil
		})
	}

	return g.Wait()
}

// reportAttachment renders the PDF report. A failed render only drops the
// attachment; the summary is still sent.
func (m *Module) reportAttachment(ctx context.Context, e events.LeadCaptured) []email.Attachment {
	if m.reports == nil {
		return nil
	}
	body, err := m.reports.Render(ctx, pdf.Report{
		ContactName:   e.ContactName,
		Questionnaire: e.Questionnaire,
		Result:        e.Result,
		Insight:       e.Insight,
		GeneratedAt:   e.OccurredAt(),
	})
	if err != nil {
		m.log.Warn("failed to render diagnostic report", "lead_id", e.LeadID, "error", err)
		return nil
	}
	return []email.Attachment{{FileName: "diagnostico-energetico.pdf", Content: body}}
}

func hotLeadMessage(e events.LeadCaptured) string {
	q := e.Questionnaire
	return fmt.Sprintf("Lead caliente (%d pts): %s, %s. %s / %s, %s. Ahorro estimado %s al año. Lead %s",
		e.Result.Score, e.ContactName, e.ContactPhone, q.CompanyType, q.Sector, q.Location,
		diagnostic.FormatCOP(e.Result.AnnualSavings), e.LeadID)
}

func dossierFromEvent(e events.LeadCaptured) archive.Dossier {
	return archive.Dossier{
		LeadID:         e.LeadID,
		SessionID:      e.SessionID,
		CapturedAt:     e.OccurredAt(),
		Contact:        archive.Contact{Name: e.ContactName, Email: e.ContactEmail, Phone: e.ContactPhone},
		SelectedAction: e.SelectedAction,
		Questionnaire:  e.Questionnaire,
		Result:         e.Result,
		Insight:        e.Insight,
	}
}
