package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

const paymentColumns = `id, student_id, amount, payment_type, status, description, due_date, paid_date,
    payment_proof, is_registration_payment, created_at, updated_at`

// PaymentRepository manages fee records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment row.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	const query = `INSERT INTO payments (
        id, student_id, amount, payment_type, status, description, due_date, paid_date,
        payment_proof, is_registration_payment, created_at, updated_at
    ) VALUES (
        :id, :student_id, :amount, :payment_type, :status, :description, :due_date, :paid_date,
        :payment_proof, :is_registration_payment, :created_at, :updated_at
    )`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// FindByID fetches a payment.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE id = $1", paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// List returns payments matching the filter, newest first, with a total count.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", idx))
		args = append(args, filter.StudentID)
		idx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", idx))
		args = append(args, filter.Status)
		idx++
	}
	if filter.RegistrationOnly != nil {
		conditions = append(conditions, fmt.Sprintf("is_registration_payment = $%d", idx))
		args = append(args, *filter.RegistrationOnly)
		idx++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM payments WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM payments WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		paymentColumns, where, idx, idx+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return payments, total, nil
}

// MarkPaid moves a pending payment to paid and stamps the paid date. The
// pending guard makes a second call a no-op; callers treat zero rows as a
// state conflict.
func (r *PaymentRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) (updated bool, err error) {
	const query = `UPDATE payments SET status = $2, paid_date = $3, updated_at = $3
        WHERE id = $1 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, id, models.PaymentStatusPaid, paidAt, models.PaymentStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark payment paid: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark payment paid rows: %w", err)
	}
	return rows > 0, nil
}

// AttachProof records the uploaded proof path on a payment.
func (r *PaymentRepository) AttachProof(ctx context.Context, id, proofURL string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE payments SET payment_proof = $2, updated_at = $3 WHERE id = $1", id, proofURL, time.Now().UTC()); err != nil {
		return fmt.Errorf("attach payment proof: %w", err)
	}
	return nil
}

// SumByStatus totals payment amounts in the given status.
func (r *PaymentRepository) SumByStatus(ctx context.Context, status models.PaymentStatus) (float64, error) {
	var total float64
	if err := r.db.GetContext(ctx, &total, "SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = $1", status); err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}
	return total, nil
}
