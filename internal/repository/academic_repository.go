package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// AcademicRepository manages per-student academic records.
type AcademicRepository struct {
	db *sqlx.DB
}

// NewAcademicRepository constructs an AcademicRepository.
func NewAcademicRepository(db *sqlx.DB) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// FindByStudent fetches the academic record for a student.
func (r *AcademicRepository) FindByStudent(ctx context.Context, studentID string) (*models.AcademicDetails, error) {
	const query = `SELECT id, student_id, faculty, programme, registration_number, year_of_admission,
        payment_status, created_at, updated_at
        FROM academic_details WHERE student_id = $1`
	var details models.AcademicDetails
	if err := r.db.GetContext(ctx, &details, query, studentID); err != nil {
		return nil, err
	}
	return &details, nil
}

// Upsert creates or replaces the student's single academic record.
func (r *AcademicRepository) Upsert(ctx context.Context, details *models.AcademicDetails) error {
	if details.ID == "" {
		details.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	details.CreatedAt = now
	details.UpdatedAt = now

	const query = `INSERT INTO academic_details (id, student_id, faculty, programme, registration_number,
        year_of_admission, payment_status, created_at, updated_at)
        VALUES (:id, :student_id, :faculty, :programme, :registration_number,
        :year_of_admission, :payment_status, :created_at, :updated_at)
        ON CONFLICT (student_id)
        DO UPDATE SET faculty = EXCLUDED.faculty, programme = EXCLUDED.programme,
        registration_number = EXCLUDED.registration_number, year_of_admission = EXCLUDED.year_of_admission,
        payment_status = EXCLUDED.payment_status, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, details); err != nil {
		return fmt.Errorf("upsert academic details: %w", err)
	}
	return nil
}

// UpdateProgramme changes the student's programme, and faculty when provided.
func (r *AcademicRepository) UpdateProgramme(ctx context.Context, studentID, programme, faculty string) error {
	now := time.Now().UTC()
	if faculty != "" {
		if _, err := r.db.ExecContext(ctx,
			"UPDATE academic_details SET programme = $2, faculty = $3, updated_at = $4 WHERE student_id = $1",
			studentID, programme, faculty, now); err != nil {
			return fmt.Errorf("update programme: %w", err)
		}
		return nil
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE academic_details SET programme = $2, updated_at = $3 WHERE student_id = $1",
		studentID, programme, now); err != nil {
		return fmt.Errorf("update programme: %w", err)
	}
	return nil
}
