package email

const (
	subjectDiagnosticSummary = "Tu diagnóstico energético"
	subjectSalesAlertFmt     = "Lead caliente: %s (%d puntos)"
)
