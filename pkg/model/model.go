// Package model holds the response shapes of the contactbook API for use by
// external clients.
package model

import (
	"encoding/json"
	"time"
)

// Response is the envelope every endpoint returns. Data, when present,
// carries the endpoint-specific payload.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// StatusSuccess and StatusError are the two values of Response.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Audit is the trail attached to users and contacts: who created and last
// touched the record, and whether it is soft-deleted.
type Audit struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy int64     `json:"created_by"`
	UpdatedBy int64     `json:"updated_by"`
	IsDeleted bool      `json:"is_deleted"`
}

// User is the display form of a registered user.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Audit *Audit `json:"audit"`
}

// Contact is the display form of an owner's contact row.
type Contact struct {
	ID          int64  `json:"id"`
	Owner       *User  `json:"owner"`
	ContactList []User `json:"contact_list"`
	Audit       *Audit `json:"audit"`
}
