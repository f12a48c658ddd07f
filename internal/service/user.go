package service

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/sauvikbiswas007/contactbook/internal/audit"
	"github.com/sauvikbiswas007/contactbook/internal/model"
	"github.com/sauvikbiswas007/contactbook/internal/validate"
)

// validateSignup checks the shape of a registration payload and rejects
// emails already held by an active user. A soft-deleted holder of the same
// email is not a conflict; registration will reactivate it instead.
func validateSignup(data map[string]any) (bool, string) {
	if len(data) == 0 {
		return false, "payload cannot be empty"
	}
	if missing, message := validate.MissingFields(data, validate.SignupFields); missing {
		return false, message
	}
	email := stringField(data, "email")
	user, err := userByEmail(db, email)
	if err != nil {
		return false, err.Error()
	}
	if user != nil {
		a, errAudit := auditOf(db, user.AuditID)
		if errAudit != nil {
			return false, errAudit.Error()
		}
		if a != nil && !a.IsDeleted {
			return false, fmt.Sprintf("Given Email ID %s is already registered and active", email)
		}
	}
	return true, ""
}

// upsertUser creates a new user from data, or applies the present fields of
// data onto existing. Creation is two-phase: the audit row is inserted with
// unassigned actors, and once the user row has an id both actor slots are
// patched with it. On the update path absent or empty payload fields retain
// the prior value and the audit's updated_at is bumped.
func upsertUser(ext sqlx.Ext, data map[string]any, existing *model.User) (*model.User, error) {
	email := stringField(data, "email")
	phone := stringField(data, "phone")

	if existing != nil {
		if validate.IsEmpty(data, "email") {
			email = existing.Email
		}
		if validate.IsEmpty(data, "phone") {
			phone = existing.Phone
		}
		if existing.AuditID != nil {
			if err := audit.Touch(ext, *existing.AuditID); err != nil {
				return nil, err
			}
		}
		if _, err := ext.Exec(`UPDATE users SET email = ?, phone = ? WHERE id = ?`,
			email, phone, existing.ID); err != nil {
			return nil, err
		}
		if existing.AuditID != nil {
			if err := audit.AssignActors(ext, *existing.AuditID, existing.ID); err != nil {
				return nil, err
			}
		}
		updated := *existing
		updated.Email = email
		updated.Phone = phone
		return &updated, nil
	}

	a, err := audit.Create(ext, model.ActorUnassigned, model.ActorUnassigned)
	if err != nil {
		return nil, err
	}
	result, err := ext.Exec(`INSERT INTO users (email, phone, audit_id) VALUES (?, ?, ?)`,
		email, phone, a.ID)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := audit.AssignActors(ext, a.ID, id); err != nil {
		return nil, err
	}
	auditID := a.ID
	return &model.User{ID: id, Email: email, Phone: phone, AuditID: &auditID}, nil
}

// addUser handles POST /add_user/. Registering an email that belongs to a
// soft-deleted user flips that user's audit back to active instead of
// creating a duplicate row. The check-then-write sequence runs inside a
// transaction.
//
// Example REST API call:
//
//	> curl http://localhost:8080/add_user/ --request "POST" --include --header "Content-Type: application/json" --data '{"email": "emailone@yopmail.com", "phone": "3434343434"}'
func addUser(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, "invalid JSON")
		return
	}
	if ok, message := validateSignup(data); !ok {
		respondError(c, message)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		storageError(c, err)
		return
	}
	defer tx.Rollback()

	existing, err := userByEmail(tx, stringField(data, "email"))
	if err != nil {
		storageError(c, err)
		return
	}
	if existing != nil {
		a, errAudit := auditOf(tx, existing.AuditID)
		if errAudit != nil {
			storageError(c, errAudit)
			return
		}
		if a != nil && a.IsDeleted {
			if errReactivate := audit.Reactivate(tx, a.ID); errReactivate != nil {
				storageError(c, errReactivate)
				return
			}
		}
	} else if _, errCreate := upsertUser(tx, data, nil); errCreate != nil {
		storageError(c, errCreate)
		return
	}
	if err := tx.Commit(); err != nil {
		storageError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, "Successfully registered new user", nil)
}

// getUserList responds with all users whose audit record is not soft-deleted,
// in display form. An empty result is a successful 204.
//
// Example REST API call:
//
//	> curl http://localhost:8080/get_user_list/
func getUserList(c *gin.Context) {
	var users []model.User
	if err := selectActiveUsers.Select(&users); err != nil {
		storageError(c, err)
		return
	}
	if len(users) == 0 {
		respondSuccess(c, http.StatusNoContent, "No Users found", nil)
		return
	}
	displays, err := displayUsers(users)
	if err != nil {
		storageError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK,
		fmt.Sprintf("Successfully retrieved %d active users", len(users)), displays)
}

// lookupUser validates the id path parameter and resolves it to a user that
// is not soft-deleted. On failure the returned message explains why.
func lookupUser(idParam string) (*model.User, *model.Audit, string) {
	if idParam == "" {
		return nil, nil, "UserID cannot be empty"
	}
	id, ok := idValue(idParam)
	if !ok {
		return nil, nil, fmt.Sprintf("No User found with given ID - %s", idParam)
	}
	user, err := userByID(id)
	if err != nil {
		return nil, nil, err.Error()
	}
	if user == nil {
		return nil, nil, fmt.Sprintf("No User found with given ID - %s", idParam)
	}
	a, err := auditOf(db, user.AuditID)
	if err != nil {
		return nil, nil, err.Error()
	}
	if a != nil && a.IsDeleted {
		return nil, nil, "Given user is not active"
	}
	return user, a, ""
}

// getUserDetails responds with the display form of a single active user.
//
// Example REST API call:
//
//	> curl http://localhost:8080/user_details/4/
func getUserDetails(c *gin.Context) {
	user, a, message := lookupUser(c.Param("id"))
	if user == nil {
		respondError(c, message)
		return
	}
	display := model.UserDisplay{ID: user.ID, Email: user.Email, Phone: user.Phone, Audit: a}
	respondSuccess(c, http.StatusOK, "Successfully retrieved details of given user", display)
}

// updateUserDetails applies a partial update to an active user. Fields absent
// from the JSON keep their prior values.
//
// Example REST API call:
//
//	> curl http://localhost:8080/user_details/4/ --request "PUT" --include --header "Content-Type: application/json" --data '{"phone": "1234567890"}'
func updateUserDetails(c *gin.Context) {
	user, _, message := lookupUser(c.Param("id"))
	if user == nil {
		respondError(c, message)
		return
	}
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, "invalid JSON")
		return
	}
	if _, err := upsertUser(db, data, user); err != nil {
		storageError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, "Successfully updated given user", nil)
}

// deleteUser soft-deletes an active user by flagging its audit record. The
// row itself stays in place.
//
// Example REST API call:
//
//	> curl http://localhost:8080/user_details/4/ --request "DELETE"
func deleteUser(c *gin.Context) {
	user, a, message := lookupUser(c.Param("id"))
	if user == nil {
		respondError(c, message)
		return
	}
	// A user without an audit record cannot be soft-deleted; report success
	// without writing anything.
	if a != nil {
		if err := audit.SoftDelete(db, a.ID); err != nil {
			storageError(c, err)
			return
		}
	}
	respondSuccess(c, http.StatusOK, "Successfully deleted given user", nil)
}
