package model

import "time"

// ActorUnassigned marks an audit actor slot that does not point at a real
// user yet. A fresh audit is created with both actor slots unassigned and
// patched once its owning entity has been saved and has an id of its own.
const ActorUnassigned int64 = 0

// StatusSuccess and StatusError are the two values of the envelope status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Audit records who created and who last touched an entity, and whether the
// entity is soft-deleted. It is a single current snapshot, not a history.
// An entity counts as active iff it has an audit and IsDeleted is false.
type Audit struct {
	ID        int64     `json:"id"         db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy int64     `json:"created_by" db:"created_by"`
	UpdatedBy int64     `json:"updated_by" db:"updated_by"`
	IsDeleted bool      `json:"is_deleted" db:"is_deleted"`
}

// User is a registered account. Email uniqueness among active users is
// enforced by the signup validation, not by the schema.
type User struct {
	ID      int64  `json:"id"    db:"id"`
	Email   string `json:"email" db:"email"`
	Phone   string `json:"phone" db:"phone"`
	AuditID *int64 `json:"audit" db:"audit_id"`
}

// Contact is the single row per owner that anchors the owner's contact list.
// The list members themselves live in the contact_members join table.
type Contact struct {
	ID      int64  `json:"id"    db:"id"`
	OwnerID int64  `json:"owner" db:"owner_id"`
	AuditID *int64 `json:"audit" db:"audit_id"`
}

// UserDisplay is the externally visible form of a user, with the audit
// reference expanded to the full record.
type UserDisplay struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Audit *Audit `json:"audit"`
}

// ContactDisplay is the externally visible form of a contact row, with
// owner, contact list and audit expanded to full nested objects.
type ContactDisplay struct {
	ID          int64         `json:"id"`
	Owner       *UserDisplay  `json:"owner"`
	ContactList []UserDisplay `json:"contact_list"`
	Audit       *Audit        `json:"audit"`
}

// Response is the envelope returned by every endpoint.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
