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

func TestPaymentRepositoryMarkPaidStampsPaidDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	paidAt := time.Now().UTC()
	mock.ExpectExec("UPDATE payments").
		WithArgs("p1", models.PaymentStatusPaid, paidAt, models.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.MarkPaid(context.Background(), "p1", paidAt)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryMarkPaidRequiresPendingState(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	paidAt := time.Now().UTC()
	mock.ExpectExec("UPDATE payments").
		WithArgs("p1", models.PaymentStatusPaid, paidAt, models.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.MarkPaid(context.Background(), "p1", paidAt)
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListScopesToStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	rows := sqlmock.NewRows([]string{"id", "student_id", "amount", "payment_type", "status", "is_registration_payment", "created_at", "updated_at"}).
		AddRow("p2", "s1", 5000.0, "Hostel Fee", "pending", false, time.Now(), time.Now()).
		AddRow("p1", "s1", 10000.0, models.PaymentTypeRegistration, "paid", true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM payments WHERE").
		WithArgs("s1", 20, 0).
		WillReturnRows(rows)

	payments, total, err := repo.List(context.Background(), models.PaymentFilter{StudentID: "s1", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, payments, 2)
	assert.Equal(t, "p2", payments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
