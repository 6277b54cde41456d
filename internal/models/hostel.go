package models

import "time"

// HostelAllocation is a student's room assignment.
type HostelAllocation struct {
	ID         string    `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"student_id"`
	HostelName string    `db:"hostel_name" json:"hostel_name"`
	Block      *string   `db:"block" json:"block,omitempty"`
	RoomNumber string    `db:"room_number" json:"room_number"`
	Status     *string   `db:"status" json:"status,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
