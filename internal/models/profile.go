package models

import "time"

// Profile is the persisted record of a student's identity and biographical
// data, keyed by the owning account id.
type Profile struct {
	ID                   string     `db:"id" json:"id"`
	Email                string     `db:"email" json:"email"`
	Surname              *string    `db:"surname" json:"surname,omitempty"`
	FirstName            *string    `db:"first_name" json:"first_name,omitempty"`
	LastName             *string    `db:"last_name" json:"last_name,omitempty"`
	FullName             string     `db:"full_name" json:"full_name"`
	Gender               *string    `db:"gender" json:"gender,omitempty"`
	MaritalStatus        *string    `db:"marital_status" json:"marital_status,omitempty"`
	DateOfBirth          *string    `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address              *string    `db:"address" json:"address,omitempty"`
	Country              *string    `db:"country" json:"country,omitempty"`
	StateOfOrigin        *string    `db:"state_of_origin" json:"state_of_origin,omitempty"`
	LGA                  *string    `db:"lga" json:"lga,omitempty"`
	PhoneNumber          *string    `db:"phone_number" json:"phone_number,omitempty"`
	Religion             *string    `db:"religion" json:"religion,omitempty"`
	NextOfKinName        *string    `db:"next_of_kin_name" json:"next_of_kin_name,omitempty"`
	NextOfKinPhone       *string    `db:"next_of_kin_phone" json:"next_of_kin_phone,omitempty"`
	NextOfKinAddress     *string    `db:"next_of_kin_address" json:"next_of_kin_address,omitempty"`
	NextOfKinRelation    *string    `db:"next_of_kin_relationship" json:"next_of_kin_relationship,omitempty"`
	NextOfKinEmail       *string    `db:"next_of_kin_email" json:"next_of_kin_email,omitempty"`
	ProposedCourse       *string    `db:"proposed_course" json:"proposed_course,omitempty"`
	PassportPhoto        *string    `db:"passport_photo" json:"passport_photo,omitempty"`
	StudentUniqueID      *string    `db:"student_unique_id" json:"student_unique_id,omitempty"`
	RegistrationApproved bool       `db:"registration_approved" json:"registration_approved"`
	ApprovedBy           *string    `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt           *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// ProfileFilter encapsulates search parameters for listing students.
type ProfileFilter struct {
	Search   string
	Approved *bool
	Page     int
	PageSize int
}
