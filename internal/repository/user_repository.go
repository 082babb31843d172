package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/eventella/internal/model"
)

// MySQL error numbers the repositories translate.
const (
	mysqlDuplicateEntry = 1062 // ER_DUP_ENTRY
	mysqlOutOfRange     = 1264 // ER_WARN_DATA_OUT_OF_RANGE
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,created_at,updated_at"

// NormalizeEmail lower-cases and trims an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u (whose PasswordHash must already be set) and fills in
// the generated id and timestamps.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, string(u.Role))
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = created
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", NormalizeEmail(email))
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	return u, nil
}

func mysqlErrno(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

func isDuplicate(err error) bool { return mysqlErrno(err) == mysqlDuplicateEntry }

// rangeErr replaces an out-of-range write error with ErrOutOfRange.
func rangeErr(err error) error {
	if mysqlErrno(err) == mysqlOutOfRange {
		return ErrOutOfRange
	}
	return err
}

// SetRole changes a user's role.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, role model.Role) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", string(role), id)
	if err != nil {
		return err
	}
	// MySQL counts changed rows, so 0 can also mean "already had the role"
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
