package models

import "time"

// Document is an admin-issued file visible to its owning student.
type Document struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	DocumentName string    `db:"document_name" json:"document_name"`
	DocumentType string    `db:"document_type" json:"document_type"`
	DocumentURL  string    `db:"document_url" json:"document_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
