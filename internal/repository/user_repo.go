package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bomberquiz/internal/models"
)

type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

// Ensure implementation of UserRepository interface at compile time.
var _ UserRepository = (*UserSQLite)(nil)

const userColumns = `id, name, email, phone, birthdate, role, military_rank_id, password_hash, created_at, updated_at`

const (
	insertUserSQL = `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	listUsersSQL         = `SELECT ` + userColumns + ` FROM users ORDER BY name, id LIMIT ? OFFSET ?`
	countUsersSQL        = `SELECT COUNT(*) FROM users`

	updateUserSQL = `UPDATE users SET name = ?, email = ?, phone = ?, birthdate = ?, role = ?, military_rank_id = ?, updated_at = ? WHERE id = ?`

	updateUserPasswordSQL = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	deleteUserSQL         = `DELETE FROM users WHERE id = ?`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                    models.User
		rankID               sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Birthdate, &u.Role,
		&rankID, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.MilitaryRankID = rankID.String

	var err error
	if u.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user.
func (r *UserSQLite) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Name, u.Email, u.Phone, u.Birthdate, u.Role,
		nullString(u.MilitaryRankID), u.PasswordHash,
		formatTimestamp(u.CreatedAt), formatTimestamp(u.UpdatedAt),
	)
	if err != nil {
		return wrapWriteErr(fmt.Sprintf("insert user %q", u.Email), err)
	}
	return nil
}

func (r *UserSQLite) getOne(ctx context.Context, query, arg string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := r.getOne(ctx, selectUserByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", id, err)
	}
	return u, nil
}

// GetByEmail fetches a user by email (case-insensitive). Returns (nil, nil) if not found.
func (r *UserSQLite) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := r.getOne(ctx, selectUserByEmailSQL, email)
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

// List returns one page of users ordered by name, plus the total count.
func (r *UserSQLite) List(ctx context.Context, q models.PageQuery) (*models.Page[models.User], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, listUsersSQL, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return &models.Page[models.User]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Update overwrites the profile columns of u.
func (r *UserSQLite) Update(ctx context.Context, u *models.User) error {
	res, err := r.db.ExecContext(ctx, updateUserSQL,
		u.Name, u.Email, u.Phone, u.Birthdate, u.Role,
		nullString(u.MilitaryRankID), formatTimestamp(u.UpdatedAt), u.ID,
	)
	if err != nil {
		return wrapWriteErr(fmt.Sprintf("update user %q", u.ID), err)
	}
	return expectOneRow("update user", res)
}

func (r *UserSQLite) UpdatePassword(ctx context.Context, id, hash string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, updateUserPasswordSQL, hash, formatTimestamp(updatedAt), id)
	if err != nil {
		return fmt.Errorf("update password of user %q: %w", id, err)
	}
	return expectOneRow("update password", res)
}

func (r *UserSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteUserSQL, id)
	if err != nil {
		return fmt.Errorf("delete user %q: %w", id, err)
	}
	return expectOneRow("delete user", res)
}

func (r *UserSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUsersSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
