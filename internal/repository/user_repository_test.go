package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/eventella/internal/model"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}

func TestUserCreateNormalizesEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)")).
		WithArgs("Ada", "ada@example.com", "hash", "user").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(7, "Ada", "ada@example.com", "hash", "user", created, created))

	u := &model.User{Name: "Ada", Email: "  Ada@Example.COM ", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.Equal(t, created, u.CreatedAt)
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserCreateOtherError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &model.User{Email: "a@b.c"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
}

func TestUserGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("boss@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "Boss", "boss@example.com", "h", "admin", created, created))

	u, err := repo.GetByEmail(context.Background(), " BOSS@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestUserGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnknownRoleReadsAsUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "X", "x@y.z", "h", "superuser", created, created))

	u, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
}

func TestUserSetRole(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role=? WHERE id=?")).
		WithArgs("admin", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SetRole(context.Background(), 3, model.RoleAdmin))

	// unchanged row: confirm the user exists
	mock.ExpectExec("UPDATE users SET role").
		WithArgs("admin", uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "Root", "root@example.com", "h", "admin", created, created))
	require.NoError(t, repo.SetRole(context.Background(), 3, model.RoleAdmin))

	mock.ExpectExec("UPDATE users SET role").
		WithArgs("admin", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(userCols))
	assert.ErrorIs(t, repo.SetRole(context.Background(), 9, model.RoleAdmin), ErrUserNotFound)
}
