package audit

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/sauvikbiswas007/contactbook/internal/model"
)

func testTime() time.Time {
	return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
}

// newMockDB builds a sqlx wrapper around a mock database connection.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	return sqlx.NewDb(sqlDB, "mysql"), mock
}

func TestCreateUnassignedActors(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audits").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), model.ActorUnassigned, model.ActorUnassigned, false).
		WillReturnResult(sqlmock.NewResult(17, 1))

	a, err := Create(db, model.ActorUnassigned, model.ActorUnassigned)
	assert.NoError(t, err)
	assert.Equal(t, int64(17), a.ID)
	assert.Equal(t, model.ActorUnassigned, a.CreatedBy)
	assert.Equal(t, model.ActorUnassigned, a.UpdatedBy)
	assert.False(t, a.IsDeleted)
	assert.Equal(t, a.CreatedAt, a.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuthoredByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audits").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), int64(4), int64(4), false).
		WillReturnResult(sqlmock.NewResult(18, 1))

	a, err := Create(db, 4, 4)
	assert.NoError(t, err)
	assert.Equal(t, int64(18), a.ID)
	assert.Equal(t, int64(4), a.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	rows := mock.NewRows([]string{"id", "created_at", "updated_at", "created_by", "updated_by", "is_deleted"}).
		AddRow(17, testTime(), testTime(), 3, 3, false)
	mock.ExpectQuery("SELECT \\* FROM audits WHERE id = ?").
		WithArgs(int64(17)).
		WillReturnRows(rows)

	a, err := Find(db, 17)
	assert.NoError(t, err)
	assert.NotNil(t, a)
	assert.Equal(t, int64(17), a.ID)
	assert.Equal(t, int64(3), a.CreatedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMissing(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT \\* FROM audits WHERE id = ?").
		WithArgs(int64(99)).
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at", "created_by", "updated_by", "is_deleted"}))

	a, err := Find(db, 99)
	assert.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignActors(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE audits SET created_by = \\?, updated_by = \\? WHERE id = ?").
		WithArgs(int64(3), int64(3), int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, AssignActors(db, 17, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteAndReactivate(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE audits SET is_deleted = true WHERE id = ?").
		WithArgs(int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE audits SET is_deleted = false WHERE id = ?").
		WithArgs(int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, SoftDelete(db, 17))
	assert.NoError(t, Reactivate(db, 17))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouch(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE audits SET updated_at = \\? WHERE id = ?").
		WithArgs(sqlmock.AnyArg(), int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, Touch(db, 17))
	assert.NoError(t, mock.ExpectationsWereMet())
}
