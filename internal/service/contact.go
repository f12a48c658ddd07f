package service

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/sauvikbiswas007/contactbook/internal/audit"
	"github.com/sauvikbiswas007/contactbook/internal/model"
	"github.com/sauvikbiswas007/contactbook/internal/validate"
)

// contactByOwner returns the single contact row anchored at the given owner,
// or nil if the owner has none yet.
func contactByOwner(ext sqlx.Ext, ownerID int64) (*model.Contact, error) {
	var contacts []model.Contact
	err := sqlx.Select(ext, &contacts, `SELECT * FROM contacts WHERE owner_id = ? LIMIT 1`, ownerID)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, nil
	}
	return &contacts[0], nil
}

// isMember reports whether the user is already in the contact row's list.
func isMember(contactID, userID int64) (bool, error) {
	var count int
	err := db.Get(&count, `SELECT count(*) FROM contact_members WHERE contact_id = ? AND user_id = ?`,
		contactID, userID)
	return count > 0, err
}

// countMembers returns the size of the contact row's list.
func countMembers(contactID int64) (int, error) {
	var count int
	err := db.Get(&count, `SELECT count(*) FROM contact_members WHERE contact_id = ?`, contactID)
	return count, err
}

// memberUsers returns the users in the contact row's list.
func memberUsers(contactID int64) ([]model.User, error) {
	var users []model.User
	err := db.Select(&users, `
		SELECT users.* FROM users
		JOIN contact_members ON contact_members.user_id = users.id
		WHERE contact_members.contact_id = ?
		ORDER BY users.id
	`, contactID)
	return users, err
}

// displayContact expands a contact row's owner, member list and audit into
// the nested display form.
func displayContact(ct model.Contact) (model.ContactDisplay, error) {
	d := model.ContactDisplay{ID: ct.ID, ContactList: []model.UserDisplay{}}
	owner, err := userByID(ct.OwnerID)
	if err != nil {
		return d, err
	}
	if owner != nil {
		od, errOwner := displayUser(*owner)
		if errOwner != nil {
			return d, errOwner
		}
		d.Owner = &od
	}
	members, err := memberUsers(ct.ID)
	if err != nil {
		return d, err
	}
	list, err := displayUsers(members)
	if err != nil {
		return d, err
	}
	d.ContactList = list
	a, err := auditOf(db, ct.AuditID)
	if err != nil {
		return d, err
	}
	d.Audit = a
	return d, nil
}

// validateAddContactList checks the shape of a contact-list submission. The
// owner must resolve to an existing active user, contact_list must actually
// be a list, and every entry must carry the signup mandatory fields and not
// reference a soft-deleted user. A soft-deleted contact has to be
// reactivated through registration before it can be re-added here.
func validateAddContactList(data map[string]any) (*model.User, bool, string) {
	if len(data) == 0 {
		return nil, false, "payload cannot be empty"
	}
	if missing, message := validate.MissingFields(data, validate.AddContactListFields); missing {
		return nil, false, message
	}

	rawOwner := data["owner"]
	ownerID, ok := idValue(rawOwner)
	if !ok {
		return nil, false, fmt.Sprintf("No User found with given Owner - %v", rawOwner)
	}
	owner, err := userByID(ownerID)
	if err != nil {
		return nil, false, err.Error()
	}
	if owner == nil {
		return nil, false, fmt.Sprintf("No User found with given Owner - %v", rawOwner)
	}
	a, err := auditOf(db, owner.AuditID)
	if err != nil {
		return nil, false, err.Error()
	}
	if a != nil && a.IsDeleted {
		return nil, false, "Given Owner is not active"
	}

	rawList := data["contact_list"]
	entries, ok := rawList.([]any)
	if !ok {
		return nil, false, fmt.Sprintf("contact_list must be of type list, received type %T instead", rawList)
	}
	for _, entry := range entries {
		entryMap, _ := entry.(map[string]any)
		if missing, message := validate.MissingFields(entryMap, validate.SignupFields); missing {
			return nil, false, message
		}
		email := stringField(entryMap, "email")
		contact, errLookup := userByEmail(db, email)
		if errLookup != nil {
			return nil, false, errLookup.Error()
		}
		if contact != nil {
			ca, errAudit := auditOf(db, contact.AuditID)
			if errAudit != nil {
				return nil, false, errAudit.Error()
			}
			if ca != nil && ca.IsDeleted {
				return nil, false, fmt.Sprintf("Given Contact with email %s is not active", email)
			}
		}
	}
	return owner, true, ""
}

// ensureContactRow finds or creates the single contact row for owner inside
// a transaction. An existing row gets its audit reactivated if needed and its
// updated_at bumped; a missing row gets a fresh audit authored by the owner's
// own id. The second return value reports whether the row was created on this
// call.
func ensureContactRow(owner *model.User) (*model.Contact, bool, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	ct, err := contactByOwner(tx, owner.ID)
	if err != nil {
		return nil, false, err
	}
	created := false
	if ct != nil {
		if ct.AuditID != nil {
			a, errAudit := audit.Find(tx, *ct.AuditID)
			if errAudit != nil {
				return nil, false, errAudit
			}
			if a != nil && a.IsDeleted {
				if errReactivate := audit.Reactivate(tx, a.ID); errReactivate != nil {
					return nil, false, errReactivate
				}
			}
			if errTouch := audit.Touch(tx, *ct.AuditID); errTouch != nil {
				return nil, false, errTouch
			}
		} else {
			a, errCreate := audit.Create(tx, owner.ID, owner.ID)
			if errCreate != nil {
				return nil, false, errCreate
			}
			if _, errAttach := tx.Exec(`UPDATE contacts SET audit_id = ? WHERE id = ?`, a.ID, ct.ID); errAttach != nil {
				return nil, false, errAttach
			}
			ct.AuditID = &a.ID
		}
	} else {
		a, errCreate := audit.Create(tx, owner.ID, owner.ID)
		if errCreate != nil {
			return nil, false, errCreate
		}
		result, errInsert := tx.Exec(`INSERT INTO contacts (owner_id, audit_id) VALUES (?, ?)`, owner.ID, a.ID)
		if errInsert != nil {
			return nil, false, errInsert
		}
		id, errID := result.LastInsertId()
		if errID != nil {
			return nil, false, errID
		}
		auditID := a.ID
		ct = &model.Contact{ID: id, OwnerID: owner.ID, AuditID: &auditID}
		created = true
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return ct, created, nil
}

// reconcileContactList resolves every submitted entry to a user, creating
// missing ones, and adds each to the owner's list exactly once. Resubmitting
// the same contact, in one call or across calls, never duplicates the
// membership. Entries applied before a failing one stay applied.
func reconcileContactList(ct *model.Contact, entries []any) error {
	for _, entry := range entries {
		entryMap, _ := entry.(map[string]any)
		email := stringField(entryMap, "email")
		user, err := userByEmail(db, email)
		if err != nil {
			return err
		}
		if user == nil {
			user, err = upsertUser(db, entryMap, nil)
			if err != nil {
				return err
			}
		}
		member, err := isMember(ct.ID, user.ID)
		if err != nil {
			return err
		}
		if !member {
			if _, err := db.Exec(`INSERT INTO contact_members (contact_id, user_id) VALUES (?, ?)`,
				ct.ID, user.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// addContactList handles POST /contact_list/. It responds 201 when the
// owner's contact row was created on this request and 200 when an existing
// row was updated.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contact_list/ --request "POST" --include --header "Content-Type: application/json" --data '{"owner": 4, "contact_list": [{"email": "emailtwo@yopmail.com", "phone": "1111111111"}]}'
func addContactList(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, "invalid JSON")
		return
	}
	owner, ok, message := validateAddContactList(data)
	if !ok {
		respondError(c, message)
		return
	}

	ct, created, err := ensureContactRow(owner)
	if err != nil {
		storageError(c, err)
		return
	}
	entries, _ := data["contact_list"].([]any)
	if err := reconcileContactList(ct, entries); err != nil {
		storageError(c, err)
		return
	}

	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	respondSuccess(c, code, "Successfully updated contact list", nil)
}

// getContactList responds with all contact rows whose audit record is not
// soft-deleted, in full display form. An empty result is a successful 204.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contact_list/
func getContactList(c *gin.Context) {
	var contacts []model.Contact
	if err := selectActiveContacts.Select(&contacts); err != nil {
		storageError(c, err)
		return
	}
	if len(contacts) == 0 {
		respondSuccess(c, http.StatusNoContent, "No Contacts found", nil)
		return
	}
	displays := make([]model.ContactDisplay, 0, len(contacts))
	for _, ct := range contacts {
		d, err := displayContact(ct)
		if err != nil {
			storageError(c, err)
			return
		}
		displays = append(displays, d)
	}
	respondSuccess(c, http.StatusOK,
		fmt.Sprintf("Successfully retrieved %d contacts", len(contacts)), displays)
}

// validateSearch checks a search submission: the owner must be an existing
// active user holding an active, non-empty contact row.
func validateSearch(data map[string]any) (*model.Contact, bool, string) {
	if len(data) == 0 {
		return nil, false, "payload cannot be empty"
	}
	if missing, message := validate.MissingFields(data, validate.SearchContactFields); missing {
		return nil, false, message
	}

	rawOwner := data["owner"]
	ownerID, ok := idValue(rawOwner)
	if !ok {
		return nil, false, fmt.Sprintf("No User found with given ownerID - %v", rawOwner)
	}
	owner, err := userByID(ownerID)
	if err != nil {
		return nil, false, err.Error()
	}
	if owner == nil {
		return nil, false, fmt.Sprintf("No User found with given ownerID - %v", rawOwner)
	}
	a, err := auditOf(db, owner.AuditID)
	if err != nil {
		return nil, false, err.Error()
	}
	if a != nil && a.IsDeleted {
		return nil, false, "Given owner is no more active"
	}

	noContacts := fmt.Sprintf("No Contacts found for given Owner - %v", rawOwner)
	ct, err := contactByOwner(db, owner.ID)
	if err != nil {
		return nil, false, err.Error()
	}
	if ct == nil {
		return nil, false, noContacts
	}
	ca, err := auditOf(db, ct.AuditID)
	if err != nil {
		return nil, false, err.Error()
	}
	if ca != nil && ca.IsDeleted {
		return nil, false, noContacts
	}
	count, err := countMembers(ct.ID)
	if err != nil {
		return nil, false, err.Error()
	}
	if count == 0 {
		return nil, false, noContacts
	}
	return ct, true, ""
}

// searchContact handles POST /search_contact/. The search key is matched as a
// case-insensitive substring against email or phone, restricted to the
// owner's own contact list. No match is a successful 204.
//
// Example REST API call:
//
//	> curl http://localhost:8080/search_contact/ --request "POST" --include --header "Content-Type: application/json" --data '{"owner": 4, "search_key": "yopmail"}'
func searchContact(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		respondError(c, "invalid JSON")
		return
	}
	ct, ok, message := validateSearch(data)
	if !ok {
		respondError(c, message)
		return
	}

	pattern := "%" + strings.ToLower(stringField(data, "search_key")) + "%"
	var users []model.User
	err := db.Select(&users, `
		SELECT users.* FROM users
		JOIN contact_members ON contact_members.user_id = users.id
		WHERE contact_members.contact_id = ?
			AND (LOWER(users.email) LIKE ? OR LOWER(users.phone) LIKE ?)
		ORDER BY users.id
	`, ct.ID, pattern, pattern)
	if err != nil {
		storageError(c, err)
		return
	}
	if len(users) == 0 {
		respondSuccess(c, http.StatusNoContent, "No contacts found with given search key", nil)
		return
	}
	displays, err := displayUsers(users)
	if err != nil {
		storageError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK,
		fmt.Sprintf("Successfully found %d contacts matching given search key", len(users)), displays)
}
