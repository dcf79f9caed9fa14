package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"energy_diagnostic_backend/internal/diagnostic"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// DeliveryStatus tracks forwarding of a lead to the CRM.
type DeliveryStatus string

const (
	DeliveryReceived  DeliveryStatus = "RECEIVED"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
	DeliverySkipped   DeliveryStatus = "SKIPPED"
)

type Lead struct {
	ID               uuid.UUID
	SessionID        *uuid.UUID
	Questionnaire    diagnostic.Questionnaire
	Result           diagnostic.Result
	ContactName      string
	ContactEmail     string
	ContactPhone     string
	SelectedAction   string
	Insight          string
	DeliveryStatus   DeliveryStatus
	DeliveryAttempts int
	DeliveryError    *string
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type CreateLeadParams struct {
	SessionID      *uuid.UUID
	Questionnaire  diagnostic.Questionnaire
	Result         diagnostic.Result
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	SelectedAction string
	Insight        string
}

// LeadReader provides read-only access to captured leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
}

// LeadWriter stores captured leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
}

// DeliveryTracker records the outcome of CRM forwarding attempts.
type DeliveryTracker interface {
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkSkipped(ctx context.Context, id uuid.UUID) error
	// ListPendingDelivery returns leads still RECEIVED that were created before cutoff, oldest first.
	ListPendingDelivery(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
}

// LeadsRepository is the full repository surface.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	DeliveryTracker
}

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	pool DB
}

func New(pool DB) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `
	id, session_id,
	company_type, sector, location, monthly_consumption_kwh, monthly_energy_cost,
	has_internal_measurement, optimization_level, has_energy_audit, has_own_generation,
	knows_law_1715, interested_in_tax_benefits,
	annual_savings, percentage_reduction, estimated_tax_benefit, estimated_roi_months,
	score, lead_category,
	contact_name, contact_email, contact_phone, selected_action, insight,
	delivery_status, delivery_attempts, delivery_error, delivered_at, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	q := &l.Questionnaire
	r := &l.Result
	err := row.Scan(
		&l.ID, &l.SessionID,
		&q.CompanyType, &q.Sector, &q.Location, &q.MonthlyConsumptionKwh, &q.MonthlyEnergyCost,
		&q.HasInternalMeasurement, &q.OptimizationLevel, &q.HasEnergyAudit, &q.HasOwnGeneration,
		&q.KnowsLaw1715, &q.InterestedInTaxBenefits,
		&r.AnnualSavings, &r.PercentageReduction, &r.EstimatedTaxBenefit, &r.EstimatedRoiMonths,
		&r.Score, &r.LeadCategory,
		&l.ContactName, &l.ContactEmail, &l.ContactPhone, &l.SelectedAction, &l.Insight,
		&l.DeliveryStatus, &l.DeliveryAttempts, &l.DeliveryError, &l.DeliveredAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	q := params.Questionnaire
	res := params.Result

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			id, session_id,
			company_type, sector, location, monthly_consumption_kwh, monthly_energy_cost,
			has_internal_measurement, optimization_level, has_energy_audit, has_own_generation,
			knows_law_1715, interested_in_tax_benefits,
			annual_savings, percentage_reduction, estimated_tax_benefit, estimated_roi_months,
			score, lead_category,
			contact_name, contact_email, contact_phone, selected_action, insight, delivery_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
		RETURNING `+leadColumns,
		uuid.New(), params.SessionID,
		string(q.CompanyType), q.Sector, q.Location, q.MonthlyConsumptionKwh, q.MonthlyEnergyCost,
		q.HasInternalMeasurement, string(q.OptimizationLevel), q.HasEnergyAudit, q.HasOwnGeneration,
		q.KnowsLaw1715, q.InterestedInTaxBenefits,
		res.AnnualSavings, res.PercentageReduction, res.EstimatedTaxBenefit, res.EstimatedRoiMonths,
		res.Score, string(res.LeadCategory),
		params.ContactName, params.ContactEmail, params.ContactPhone, params.SelectedAction, params.Insight,
		string(DeliveryReceived),
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	return scanLead(row)
}

func (r *Repository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	return r.updateDelivery(ctx, `
		UPDATE leads
		SET delivery_status = $2, delivery_attempts = delivery_attempts + 1,
			delivery_error = NULL, delivered_at = now(), updated_at = now()
		WHERE id = $1
	`, id, string(DeliveryDelivered))
}

func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateDelivery(ctx, `
		UPDATE leads
		SET delivery_status = $2, delivery_attempts = delivery_attempts + 1,
			delivery_error = $3, updated_at = now()
		WHERE id = $1
	`, id, string(DeliveryFailed), reason)
}

func (r *Repository) MarkSkipped(ctx context.Context, id uuid.UUID) error {
	return r.updateDelivery(ctx, `
		UPDATE leads
		SET delivery_status = $2, updated_at = now()
		WHERE id = $1
	`, id, string(DeliverySkipped))
}

func (r *Repository) ListPendingDelivery(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM leads
		WHERE delivery_status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`, string(DeliveryReceived), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending leads: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("list pending leads: %w", err)
	}
	return ids, nil
}

func (r *Repository) updateDelivery(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var (
	_ LeadsRepository = (*Repository)(nil)
	_ DB              = (*pgxpool.Pool)(nil)
)
