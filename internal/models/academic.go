package models

import "time"

// AcademicDetails is the 1:1 academic record an admin creates after a
// registration is approved.
type AcademicDetails struct {
	ID                 string    `db:"id" json:"id"`
	StudentID          string    `db:"student_id" json:"student_id"`
	Faculty            string    `db:"faculty" json:"faculty"`
	Programme          string    `db:"programme" json:"programme"`
	RegistrationNumber string    `db:"registration_number" json:"registration_number"`
	YearOfAdmission    int       `db:"year_of_admission" json:"year_of_admission"`
	PaymentStatus      *string   `db:"payment_status" json:"payment_status,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
