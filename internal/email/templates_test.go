package email

import (
	"context"
	stdhtml "html"
	"strings"
	"testing"

	"energy_diagnostic_backend/internal/diagnostic"

	"github.com/google/uuid"
)

func sampleSummary() DiagnosticSummary {
	q := diagnostic.DefaultQuestionnaire()
	q.Location = "Cali"
	return DiagnosticSummary{
		ContactName:    "Ana <script>",
		Questionnaire:  q,
		Result:         diagnostic.Compute(q, diagnostic.FixedSource(0)),
		SelectedAction: "Agendar auditoría",
		Insight:        "Primer paso.\n\nSegundo paso.",
	}
}

func TestRenderDiagnosticSummary(t *testing.T) {
	html, err := renderDiagnosticSummary(sampleSummary())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Tu diagnóstico energético", "Cali", "Agendar auditoría", "<p>Primer paso.</p>", "<p>Segundo paso.</p>", "kWh"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected contact name to be escaped")
	}
}

func TestRenderSalesAlert(t *testing.T) {
	s := sampleSummary()
	id := uuid.New()
	html, err := renderSalesAlert(SalesAlert{
		LeadID:        id,
		ContactName:   "Ana",
		ContactEmail:  "ana@example.co",
		ContactPhone:  "+573001234567",
		Questionnaire: s.Questionnaire,
		Result:        s.Result,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// html/template escapes "+" inside attributes, so compare the decoded text.
	text := stdhtml.UnescapeString(html)
	for _, want := range []string{id.String(), "ana@example.co", "+573001234567", string(s.Result.LeadCategory)} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestParagraphs(t *testing.T) {
	got := paragraphs("  uno \r\n\r\n\n\ndos\n")
	if len(got) != 2 || got[0] != "uno" || got[1] != "dos" {
		t.Fatalf("unexpected paragraphs %q", got)
	}
	if paragraphs("   ") != nil {
		t.Fatalf("expected no paragraphs for blank text")
	}
}

func TestNewMessageAddsAttachment(t *testing.T) {
	s := NewSMTPSender("localhost", 25, "", "", "diagnostico@example.co", "Diagnóstico")
	msg, err := s.newMessage("ana@example.co", "asunto", "<p>hola</p>", Attachment{FileName: "d.json", Content: []byte("{}")})
	if err != nil {
		t.Fatalf("new message: %v", err)
	}
	if n := len(msg.GetAttachments()); n != 1 {
		t.Fatalf("expected 1 attachment, got %d", n)
	}
	if _, err := s.newMessage("not an address", "asunto", ""); err == nil {
		t.Fatalf("expected invalid recipient to fail")
	}
}

func TestNoopSender(t *testing.T) {
	var s Sender = NoopSender{}
	if err := s.SendDiagnosticSummary(context.Background(), "a@b.co", sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
