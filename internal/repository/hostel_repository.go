package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// HostelRepository manages room assignments.
type HostelRepository struct {
	db *sqlx.DB
}

// NewHostelRepository constructs a HostelRepository.
func NewHostelRepository(db *sqlx.DB) *HostelRepository {
	return &HostelRepository{db: db}
}

// FindByStudent fetches the student's allocation.
func (r *HostelRepository) FindByStudent(ctx context.Context, studentID string) (*models.HostelAllocation, error) {
	const query = `SELECT id, student_id, hostel_name, block, room_number, status, created_at, updated_at
        FROM hostel_allocations WHERE student_id = $1`
	var allocation models.HostelAllocation
	if err := r.db.GetContext(ctx, &allocation, query, studentID); err != nil {
		return nil, err
	}
	return &allocation, nil
}

// Upsert assigns or reassigns the student's room.
func (r *HostelRepository) Upsert(ctx context.Context, allocation *models.HostelAllocation) error {
	if allocation.ID == "" {
		allocation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	allocation.CreatedAt = now
	allocation.UpdatedAt = now

	const query = `INSERT INTO hostel_allocations (id, student_id, hostel_name, block, room_number, status, created_at, updated_at)
        VALUES (:id, :student_id, :hostel_name, :block, :room_number, :status, :created_at, :updated_at)
        ON CONFLICT (student_id)
        DO UPDATE SET hostel_name = EXCLUDED.hostel_name, block = EXCLUDED.block,
        room_number = EXCLUDED.room_number, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, allocation); err != nil {
		return fmt.Errorf("upsert hostel allocation: %w", err)
	}
	return nil
}

// Delete vacates the student's allocation.
func (r *HostelRepository) Delete(ctx context.Context, studentID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM hostel_allocations WHERE student_id = $1", studentID); err != nil {
		return fmt.Errorf("delete hostel allocation: %w", err)
	}
	return nil
}
