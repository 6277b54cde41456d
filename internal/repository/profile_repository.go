package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

const profileColumns = `id, email, surname, first_name, last_name, full_name, gender, marital_status,
    date_of_birth, address, country, state_of_origin, lga, phone_number, religion,
    next_of_kin_name, next_of_kin_phone, next_of_kin_address, next_of_kin_relationship, next_of_kin_email,
    proposed_course, passport_photo, student_unique_id, registration_approved, approved_by, approved_at,
    created_at, updated_at`

// ProfileRepository manages student profile rows.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByID fetches a profile by account id.
func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM profiles WHERE id = $1", profileColumns)
	var profile models.Profile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ExistsByStudentUniqueID checks whether a matric number is already taken.
func (r *ProfileRepository) ExistsByStudentUniqueID(ctx context.Context, uniqueID string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM profiles WHERE student_unique_id = $1 LIMIT 1", uniqueID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student unique id: %w", err)
	}
	return true, nil
}

// List returns profiles matching the filter with a total count for paging.
// Search matches full name, email and matric number case-insensitively.
func (r *ProfileRepository) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d OR student_unique_id ILIKE $%d)", idx, idx, idx))
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("registration_approved = $%d", idx))
		args = append(args, *filter.Approved)
		idx++
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM profiles WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM profiles WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		profileColumns, where, idx, idx+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, total, nil
}

// Update rewrites the mutable biographical fields of a profile.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE profiles SET
        surname = :surname, first_name = :first_name, last_name = :last_name, full_name = :full_name,
        gender = :gender, marital_status = :marital_status, date_of_birth = :date_of_birth,
        address = :address, country = :country, state_of_origin = :state_of_origin, lga = :lga,
        phone_number = :phone_number, religion = :religion,
        next_of_kin_name = :next_of_kin_name, next_of_kin_phone = :next_of_kin_phone,
        next_of_kin_address = :next_of_kin_address, next_of_kin_relationship = :next_of_kin_relationship,
        next_of_kin_email = :next_of_kin_email, proposed_course = :proposed_course,
        passport_photo = :passport_photo, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Approve stamps the approval exactly once. A second call for the same
// student affects zero rows and reports alreadyApproved.
func (r *ProfileRepository) Approve(ctx context.Context, studentID, approvedBy string, approvedAt time.Time) (alreadyApproved bool, err error) {
	const query = `UPDATE profiles
        SET registration_approved = true, approved_by = $2, approved_at = $3, updated_at = $3
        WHERE id = $1 AND registration_approved = false`
	result, err := r.db.ExecContext(ctx, query, studentID, approvedBy, approvedAt)
	if err != nil {
		return false, fmt.Errorf("approve registration: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("approve registration rows: %w", err)
	}
	return rows == 0, nil
}

// DeleteCascade removes every record belonging to the student in one
// transaction, dependents first, then the account itself.
func (r *ProfileRepository) DeleteCascade(ctx context.Context, studentID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, query := range []string{
		`DELETE FROM notifications WHERE user_id = $1`,
		`DELETE FROM documents WHERE student_id = $1`,
		`DELETE FROM hostel_allocations WHERE student_id = $1`,
		`DELETE FROM results WHERE student_id = $1`,
		`DELETE FROM student_courses WHERE student_id = $1`,
		`DELETE FROM payments WHERE student_id = $1`,
		`DELETE FROM academic_details WHERE student_id = $1`,
		`DELETE FROM registration_documents WHERE student_id = $1`,
		`DELETE FROM profiles WHERE id = $1`,
		`DELETE FROM admin_permissions WHERE admin_user_id = $1`,
		`DELETE FROM refresh_tokens WHERE user_id = $1`,
		`DELETE FROM user_roles WHERE user_id = $1`,
		`DELETE FROM users WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, query, studentID); err != nil {
			return fmt.Errorf("delete student records: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete student: %w", err)
	}
	return nil
}

// CountByApproval returns how many profiles match the approval state.
func (r *ProfileRepository) CountByApproval(ctx context.Context, approved bool) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM profiles WHERE registration_approved = $1", approved); err != nil {
		return 0, fmt.Errorf("count profiles by approval: %w", err)
	}
	return count, nil
}
