package service

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/sauvikbiswas007/contactbook/internal/config"
	"github.com/sauvikbiswas007/contactbook/internal/model"
)

var auditColumns = []string{"id", "created_at", "updated_at", "created_by", "updated_by", "is_deleted"}
var userColumns = []string{"id", "email", "phone", "audit_id"}
var contactColumns = []string{"id", "owner_id", "audit_id"}

func testTime() time.Time {
	return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
}

// createMockObjects builds a mock database handle and a mock object for defining our expected SQL
// calls.
func createMockObjects(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return db, mock
}

// expectPreparedStatements instructs the mock object to expect that the statements prepared during
// setup are being prepared.
func expectPreparedStatements(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare("SELECT \\* FROM users WHERE id = \\?")
	mock.ExpectPrepare("SELECT users\\.\\* FROM users")
	mock.ExpectPrepare("SELECT contacts\\.\\* FROM contacts")
}

// expectUserByID instructs the mock object to expect a lookup of a single user row.
func expectUserByID(mock sqlmock.Sqlmock, id int64, email string, phone string, auditID any) {
	rows := mock.NewRows(userColumns).AddRow(id, email, phone, auditID)
	mock.ExpectQuery("SELECT \\* FROM users WHERE id = \\?").
		WithArgs(id).
		WillReturnRows(rows)
}

// expectUserByEmail instructs the mock object to expect a lookup by email returning one row.
func expectUserByEmail(mock sqlmock.Sqlmock, email string, id int64, phone string, auditID any) {
	rows := mock.NewRows(userColumns).AddRow(id, email, phone, auditID)
	mock.ExpectQuery("SELECT \\* FROM users WHERE email = \\?").
		WithArgs(email).
		WillReturnRows(rows)
}

// expectNoUserByEmail instructs the mock object to expect a lookup by email finding nothing.
func expectNoUserByEmail(mock sqlmock.Sqlmock, email string) {
	mock.ExpectQuery("SELECT \\* FROM users WHERE email = \\?").
		WithArgs(email).
		WillReturnRows(mock.NewRows(userColumns))
}

// expectAuditSelect instructs the mock object to expect a lookup of a single audit row.
func expectAuditSelect(mock sqlmock.Sqlmock, id int64, actor int64, deleted bool) {
	rows := mock.NewRows(auditColumns).AddRow(id, testTime(), testTime(), actor, actor, deleted)
	mock.ExpectQuery("SELECT \\* FROM audits WHERE id = \\?").
		WithArgs(id).
		WillReturnRows(rows)
}

// initializeService sets up the service with the mock database and returns a handle to the gin
// engine against which requests can be executed.
func initializeService(db *sql.DB) *gin.Engine {
	SetupDatabaseWrapper(db)
	gin.SetMode(gin.ReleaseMode)
	return SetupHttpRouter(config.App{GinLogging: "off"})
}

// runTest executes the HTTP request with the specified arguments and returns the response.
func runTest(db *sql.DB, method string, url string, body *strings.Reader) *httptest.ResponseRecorder {
	router := initializeService(db)
	recorder := httptest.NewRecorder()
	if body == nil {
		body = strings.NewReader("")
	}
	request, _ := http.NewRequest(method, url, body)
	router.ServeHTTP(recorder, request)
	return recorder
}

// decodeEnvelope unmarshals a recorded response body into the envelope shape.
func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) model.Response {
	var envelope model.Response
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("could not decode response body: %s", err)
	}
	return envelope
}
