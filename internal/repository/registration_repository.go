package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// RegistrationRepository persists registration submissions and serves the
// admin review queue.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Submit writes the profile, its credential documents and the registration
// fee row in a single transaction. Either all three land or none do.
func (r *RegistrationRepository) Submit(ctx context.Context, profile *models.Profile, docs *models.RegistrationDocuments, payment *models.Payment) error {
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	if docs.ID == "" {
		docs.ID = uuid.NewString()
	}
	docs.StudentID = profile.ID
	docs.CreatedAt = now
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.StudentID = profile.ID
	payment.CreatedAt = now
	payment.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin submit registration: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const profileQuery = `INSERT INTO profiles (
        id, email, surname, first_name, last_name, full_name, gender, marital_status,
        date_of_birth, address, country, state_of_origin, lga, phone_number, religion,
        next_of_kin_name, next_of_kin_phone, next_of_kin_address, next_of_kin_relationship, next_of_kin_email,
        proposed_course, passport_photo, student_unique_id, registration_approved, created_at, updated_at
    ) VALUES (
        :id, :email, :surname, :first_name, :last_name, :full_name, :gender, :marital_status,
        :date_of_birth, :address, :country, :state_of_origin, :lga, :phone_number, :religion,
        :next_of_kin_name, :next_of_kin_phone, :next_of_kin_address, :next_of_kin_relationship, :next_of_kin_email,
        :proposed_course, :passport_photo, :student_unique_id, :registration_approved, :created_at, :updated_at
    )`
	if _, err := tx.NamedExecContext(ctx, profileQuery, profile); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	const docsQuery = `INSERT INTO registration_documents (
        id, student_id, ssce_result, birth_certificate, state_of_origin_cert, passport_photo, created_at
    ) VALUES (
        :id, :student_id, :ssce_result, :birth_certificate, :state_of_origin_cert, :passport_photo, :created_at
    )`
	if _, err := tx.NamedExecContext(ctx, docsQuery, docs); err != nil {
		return fmt.Errorf("insert registration documents: %w", err)
	}

	const paymentQuery = `INSERT INTO payments (
        id, student_id, amount, payment_type, status, description, due_date, paid_date,
        payment_proof, is_registration_payment, created_at, updated_at
    ) VALUES (
        :id, :student_id, :amount, :payment_type, :status, :description, :due_date, :paid_date,
        :payment_proof, :is_registration_payment, :created_at, :updated_at
    )`
	if _, err := tx.NamedExecContext(ctx, paymentQuery, payment); err != nil {
		return fmt.Errorf("insert registration payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit submit registration: %w", err)
	}
	return nil
}

// FindDocuments fetches the submitted credential files for a student.
func (r *RegistrationRepository) FindDocuments(ctx context.Context, studentID string) (*models.RegistrationDocuments, error) {
	const query = `SELECT id, student_id, ssce_result, birth_certificate, state_of_origin_cert, passport_photo, created_at
        FROM registration_documents WHERE student_id = $1`
	var docs models.RegistrationDocuments
	if err := r.db.GetContext(ctx, &docs, query, studentID); err != nil {
		return nil, err
	}
	return &docs, nil
}

// ListPending returns unapproved registrations newest first, each joined
// with its documents and registration fee payment where present.
func (r *RegistrationRepository) ListPending(ctx context.Context, page, pageSize int) ([]models.PendingRegistration, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM profiles WHERE registration_approved = false"); err != nil {
		return nil, 0, fmt.Errorf("count pending registrations: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE registration_approved = false
        ORDER BY created_at DESC LIMIT $1 OFFSET $2`, profileColumns)
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, pageSize, (page-1)*pageSize); err != nil {
		return nil, 0, fmt.Errorf("list pending registrations: %w", err)
	}
	if len(profiles) == 0 {
		return []models.PendingRegistration{}, total, nil
	}

	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}

	docsQuery, docsArgs, err := sqlx.In(`SELECT id, student_id, ssce_result, birth_certificate, state_of_origin_cert, passport_photo, created_at
        FROM registration_documents WHERE student_id IN (?)`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("build documents query: %w", err)
	}
	var docs []models.RegistrationDocuments
	if err := r.db.SelectContext(ctx, &docs, r.db.Rebind(docsQuery), docsArgs...); err != nil {
		return nil, 0, fmt.Errorf("list pending documents: %w", err)
	}
	docsByStudent := make(map[string]*models.RegistrationDocuments, len(docs))
	for i := range docs {
		docsByStudent[docs[i].StudentID] = &docs[i]
	}

	payQuery, payArgs, err := sqlx.In(`SELECT DISTINCT ON (student_id)
        id, student_id, amount, payment_type, status, description, due_date, paid_date,
        payment_proof, is_registration_payment, created_at, updated_at
        FROM payments WHERE is_registration_payment = true AND student_id IN (?)
        ORDER BY student_id, created_at DESC`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("build payments query: %w", err)
	}
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, r.db.Rebind(payQuery), payArgs...); err != nil {
		return nil, 0, fmt.Errorf("list pending payments: %w", err)
	}
	paymentsByStudent := make(map[string]*models.Payment, len(payments))
	for i := range payments {
		paymentsByStudent[payments[i].StudentID] = &payments[i]
	}

	pending := make([]models.PendingRegistration, 0, len(profiles))
	for _, p := range profiles {
		pending = append(pending, models.PendingRegistration{
			Profile:   p,
			Documents: docsByStudent[p.ID],
			Payment:   paymentsByStudent[p.ID],
		})
	}
	return pending, total, nil
}
