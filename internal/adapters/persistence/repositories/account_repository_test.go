package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"crm-leads/internal/adapters/persistence/models"
	"crm-leads/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var accountColumns = []string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}

func TestAccountRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `accounts`")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	account := &models.Account{Username: "bob", Email: "bob@x.com", PasswordHash: "hash", Role: domain.RoleEmployee}
	require.NoError(t, repo.Create(context.Background(), account))
	assert.NotEmpty(t, account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `accounts` WHERE email = ?")).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow("acc-1", "bob", "bob@x.com", "hash", "manager", now, now))

	account, err := repo.GetByEmail(context.Background(), "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, domain.RoleManager, account.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `accounts` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `accounts` WHERE username = ?")).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `accounts` WHERE email = ?")).
		WithArgs("alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	exists, err := repo.ExistsByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `accounts` ORDER BY created_at ASC")).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow("acc-1", "admin", "admin@x.com", "hash", "admin", now, now).
			AddRow("acc-2", "bob", "bob@x.com", "hash", "employee", now, now))

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "admin", accounts[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `accounts` WHERE id = ?")).
		WithArgs("acc-2").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `accounts` SET `role`=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateRole(context.Background(), "acc-2", domain.RoleManager))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdatePasswordHash_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `accounts` WHERE id = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectRollback()

	err := repo.UpdatePasswordHash(context.Background(), "missing", "hash")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `accounts` WHERE id = ?")).
		WithArgs("acc-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `accounts` WHERE id = ?")).
		WithArgs("acc-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "acc-2"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "acc-2"), gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
