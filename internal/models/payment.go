package models

import "time"

// PaymentStatus enumerates payment lifecycle states. Only the
// pending -> paid transition is exercised; processing is reserved.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
)

// PaymentTypeRegistration marks the fee row created at registration time.
const PaymentTypeRegistration = "Registration Fee"

// Payment tracks a fee or miscellaneous payment owed by a student.
type Payment struct {
	ID                    string        `db:"id" json:"id"`
	StudentID             string        `db:"student_id" json:"student_id"`
	Amount                float64       `db:"amount" json:"amount"`
	PaymentType           string        `db:"payment_type" json:"payment_type"`
	Status                PaymentStatus `db:"status" json:"status"`
	Description           *string       `db:"description" json:"description,omitempty"`
	DueDate               *time.Time    `db:"due_date" json:"due_date,omitempty"`
	PaidDate              *time.Time    `db:"paid_date" json:"paid_date,omitempty"`
	PaymentProof          *string       `db:"payment_proof" json:"payment_proof,omitempty"`
	IsRegistrationPayment bool          `db:"is_registration_payment" json:"is_registration_payment"`
	CreatedAt             time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentFilter scopes payment listings.
type PaymentFilter struct {
	StudentID        string
	Status           PaymentStatus
	RegistrationOnly *bool
	Page             int
	PageSize         int
}
