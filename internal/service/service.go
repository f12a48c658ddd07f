package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/sauvikbiswas007/contactbook/internal/audit"
	"github.com/sauvikbiswas007/contactbook/internal/config"
	"github.com/sauvikbiswas007/contactbook/internal/logger"
	"github.com/sauvikbiswas007/contactbook/internal/model"
)

// db is a handle to the database.
var db *sqlx.DB

// log is the service-wide structured logger. SetupLogger replaces it; tests
// and tools that never call SetupLogger get a silent one.
var log = logger.Nop()

// selectUserByID is a prepared statement for selecting a user with a given id.
var selectUserByID *sqlx.Stmt

// selectActiveUsers is a prepared statement for selecting all users whose
// audit record is not soft-deleted.
var selectActiveUsers *sqlx.Stmt

// selectActiveContacts is a prepared statement for selecting all contact rows
// whose audit record is not soft-deleted.
var selectActiveContacts *sqlx.Stmt

// SetupLogger wires the structured logger used by the handlers.
func SetupLogger(l *logger.Logger) {
	log = l
}

// CreateDatabase initializes and returns a database connection using the
// given configuration.
func CreateDatabase(cfg config.App) *sql.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName)
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatal("opening database connection failed", "error", err)
	}
	return sqlDB
}

// SetupDatabaseWrapper initializes the sqlx database wrapper with the specified sql database. It
// then prepares all statements. The database argument can be a real database for production use
// or a mock database within unit tests.
func SetupDatabaseWrapper(sqlDB *sql.DB) {
	var err error
	db = sqlx.NewDb(sqlDB, "mysql")

	// Prepared statements offer a significant speed increase if executed many times.
	selectUserByID, err = db.Preparex(`
		SELECT * FROM users WHERE id = ?
	`)
	if err != nil {
		log.Fatal("preparing statement failed", "error", err)
	}
	selectActiveUsers, err = db.Preparex(`
		SELECT users.* FROM users
		JOIN audits ON audits.id = users.audit_id
		WHERE audits.is_deleted = false
		ORDER BY users.id
	`)
	if err != nil {
		log.Fatal("preparing statement failed", "error", err)
	}
	selectActiveContacts, err = db.Preparex(`
		SELECT contacts.* FROM contacts
		JOIN audits ON audits.id = contacts.audit_id
		WHERE audits.is_deleted = false
		ORDER BY contacts.id
	`)
	if err != nil {
		log.Fatal("preparing statement failed", "error", err)
	}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(cfg config.App) *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(cfg.GinLogging, "off") {
		router = gin.New()
	} else {
		router = gin.Default()
	}
	router.POST("/add_user/", addUser)
	router.GET("/get_user_list/", getUserList)
	router.GET("/user_details/:id/", getUserDetails)
	router.PUT("/user_details/:id/", updateUserDetails)
	router.DELETE("/user_details/:id/", deleteUser)
	router.POST("/contact_list/", addContactList)
	router.GET("/contact_list/", getContactList)
	router.POST("/search_contact/", searchContact)
	return router
}

// respondSuccess writes the success envelope with the given status code.
func respondSuccess(c *gin.Context, code int, message string, data any) {
	c.IndentedJSON(code, model.Response{Status: model.StatusSuccess, Message: message, Data: data})
}

// respondError writes the error envelope. Every kind of request failure is a
// 400 with a human-readable message.
func respondError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(400, model.Response{Status: model.StatusError, Message: message})
}

// storageError logs an unexpected database error and surfaces its message to
// the caller the same way a validation failure is reported.
func storageError(c *gin.Context, err error) {
	log.Error("storage operation failed", "error", err)
	respondError(c, err.Error())
}

// stringField renders the value under key as a string. JSON numbers are
// formatted rather than rejected, so ids and phone numbers may be submitted
// either quoted or bare.
func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// idValue coerces a decoded JSON field to a numeric id. JSON numbers decode
// as float64; string ids are accepted too.
func idValue(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		return id, err == nil
	}
	return 0, false
}

// userByID returns the user with the given id, or nil if no row matches.
func userByID(id int64) (*model.User, error) {
	var users []model.User
	if err := selectUserByID.Select(&users, id); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// userByEmail returns the first user with the given email, or nil if no row
// matches. It runs on whichever executor the caller holds so it works inside
// transactions too.
func userByEmail(ext sqlx.Ext, email string) (*model.User, error) {
	var users []model.User
	err := sqlx.Select(ext, &users, `SELECT * FROM users WHERE email = ? ORDER BY id LIMIT 1`, email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// auditOf resolves an optional audit reference to the full record. A nil
// reference resolves to nil without touching the database.
func auditOf(ext sqlx.Ext, auditID *int64) (*model.Audit, error) {
	if auditID == nil {
		return nil, nil
	}
	return audit.Find(ext, *auditID)
}

// displayUser expands a user's audit reference into the display form.
func displayUser(u model.User) (model.UserDisplay, error) {
	d := model.UserDisplay{ID: u.ID, Email: u.Email, Phone: u.Phone}
	a, err := auditOf(db, u.AuditID)
	if err != nil {
		return d, err
	}
	d.Audit = a
	return d, nil
}

// displayUsers expands a slice of users into their display forms.
func displayUsers(users []model.User) ([]model.UserDisplay, error) {
	displays := make([]model.UserDisplay, 0, len(users))
	for _, u := range users {
		d, err := displayUser(u)
		if err != nil {
			return nil, err
		}
		displays = append(displays, d)
	}
	return displays, nil
}
