package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

func TestProfileRepositoryApproveStampsOnce(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	approvedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE profiles").
		WithArgs("s1", "admin-1", approvedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	already, err := repo.Approve(context.Background(), "s1", "admin-1", approvedAt)
	require.NoError(t, err)
	assert.False(t, already)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryApproveSecondCallIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	approvedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE profiles").
		WithArgs("s1", "admin-2", approvedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	already, err := repo.Approve(context.Background(), "s1", "admin-2", approvedAt)
	require.NoError(t, err)
	assert.True(t, already)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryDeleteCascadeOrdersDependents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	for _, table := range []string{
		"notifications", "documents", "hostel_allocations", "results", "student_courses",
		"payments", "academic_details", "registration_documents", "profiles",
		"admin_permissions", "refresh_tokens", "user_roles", "users",
	} {
		mock.ExpectExec("DELETE FROM " + table).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryDeleteCascadeRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM notifications").WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM documents").WithArgs("s1").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "s1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryListFiltersByApproval(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	approved := false
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "registration_approved", "created_at", "updated_at"}).
		AddRow("s1", "a@example.com", "Ada Obi", false, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE").
		WithArgs(false, 20, 0).
		WillReturnRows(rows)

	profiles, total, err := repo.List(context.Background(), models.ProfileFilter{Approved: &approved, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
