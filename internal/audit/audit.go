// Package audit owns the lifecycle of audit records. Every mutable entity
// carries at most one audit row that tracks creator, last updater, timestamps
// and the soft-delete flag. Callers pass in the statement executor they are
// working with, so the same operations run inside or outside a transaction.
package audit

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sauvikbiswas007/contactbook/internal/model"
)

// Create inserts a new audit row with the given actor ids and returns it.
// Entities created before their own id is known pass model.ActorUnassigned
// and patch the slots later via AssignActors.
func Create(ext sqlx.Ext, createdBy, updatedBy int64) (model.Audit, error) {
	now := time.Now().UTC()
	a := model.Audit{
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: createdBy,
		UpdatedBy: updatedBy,
	}
	result, err := ext.Exec(`
		INSERT INTO audits (created_at, updated_at, created_by, updated_by, is_deleted)
		VALUES (?, ?, ?, ?, ?)
	`, a.CreatedAt, a.UpdatedAt, a.CreatedBy, a.UpdatedBy, a.IsDeleted)
	if err != nil {
		return model.Audit{}, err
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return model.Audit{}, err
	}
	return a, nil
}

// Find returns the audit with the given id, or nil if no such row exists.
func Find(ext sqlx.Ext, auditID int64) (*model.Audit, error) {
	var audits []model.Audit
	err := sqlx.Select(ext, &audits, `SELECT * FROM audits WHERE id = ?`, auditID)
	if err != nil {
		return nil, err
	}
	if len(audits) == 0 {
		return nil, nil
	}
	return &audits[0], nil
}

// AssignActors patches both actor slots with the owning entity's id. This is
// the second phase of entity creation, once the owner row has an id.
func AssignActors(ext sqlx.Ext, auditID, actorID int64) error {
	_, err := ext.Exec(`UPDATE audits SET created_by = ?, updated_by = ? WHERE id = ?`,
		actorID, actorID, auditID)
	return err
}

// SoftDelete marks the audit deleted. Deleting an already deleted audit
// changes nothing.
func SoftDelete(ext sqlx.Ext, auditID int64) error {
	_, err := ext.Exec(`UPDATE audits SET is_deleted = true WHERE id = ?`, auditID)
	return err
}

// Reactivate clears the soft-delete flag. Used when a previously deleted
// entity is recreated by resubmission.
func Reactivate(ext sqlx.Ext, auditID int64) error {
	_, err := ext.Exec(`UPDATE audits SET is_deleted = false WHERE id = ?`, auditID)
	return err
}

// Touch bumps updated_at to the current time without changing anything else.
// The schema never advances updated_at on its own.
func Touch(ext sqlx.Ext, auditID int64) error {
	_, err := ext.Exec(`UPDATE audits SET updated_at = ? WHERE id = ?`, time.Now().UTC(), auditID)
	return err
}
