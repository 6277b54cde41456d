package models

import "time"

// RegistrationDocuments holds the uploaded credential files submitted with a
// registration. Created once at submission time, never updated.
type RegistrationDocuments struct {
	ID                string    `db:"id" json:"id"`
	StudentID         string    `db:"student_id" json:"student_id"`
	SSCEResult        *string   `db:"ssce_result" json:"ssce_result,omitempty"`
	BirthCertificate  *string   `db:"birth_certificate" json:"birth_certificate,omitempty"`
	StateOfOriginCert *string   `db:"state_of_origin_cert" json:"state_of_origin_cert,omitempty"`
	PassportPhoto     *string   `db:"passport_photo" json:"passport_photo,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// PendingRegistration joins an unapproved profile with its submitted
// documents and latest payment for admin review.
type PendingRegistration struct {
	Profile   Profile                `json:"profile"`
	Documents *RegistrationDocuments `json:"documents,omitempty"`
	Payment   *Payment               `json:"payment,omitempty"`
}
