package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bomberquiz/internal/models"
)

var (
	// ErrNotFound is returned by Update/Delete when no row matched.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository persists users. Getters return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, q models.PageQuery) (*models.Page[models.User], error)
	Update(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id, hash string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// MilitaryRankRepository persists military ranks. Getters return (nil, nil) when missing.
type MilitaryRankRepository interface {
	Create(ctx context.Context, r *models.MilitaryRank) error
	GetByID(ctx context.Context, id string) (*models.MilitaryRank, error)
	GetByName(ctx context.Context, name string) (*models.MilitaryRank, error)
	List(ctx context.Context) ([]models.MilitaryRank, error)
	Update(ctx context.Context, r *models.MilitaryRank) error
	Delete(ctx context.Context, id string) error
}

// AuditRepo is an append-only audit log.
type AuditRepo interface {
	Append(ctx context.Context, e models.AuditEvent) error
	List(ctx context.Context, from, to time.Time, action string, limit int) ([]models.AuditEvent, error)
}

type Repository struct {
	Users         UserRepository
	MilitaryRanks MilitaryRankRepository
	Audit         AuditRepo
}

// NewRepository wires the SQLite implementations over db.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:         NewUserSQLite(db),
		MilitaryRanks: NewMilitaryRankSQLite(db),
		Audit:         NewAuditSQLite(db),
	}
}
