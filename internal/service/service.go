package service

import (
	"context"
	"time"

	"bomberquiz/internal/logger"
	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
	"bomberquiz/internal/session"
	"bomberquiz/internal/validation"
)

type Authorization interface {
	SignUp(ctx context.Context, in models.SignUpInput) (*models.User, error)
	Login(ctx context.Context, p models.LoginProps) (*models.UserLogged, error)
	ParseToken(ctx context.Context, accessToken string) (*models.Session, error)
	Logout(ctx context.Context, s models.Session) error
	Me(ctx context.Context, userID string) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, in models.ChangePasswordInput) error
}

// Users manages user accounts on behalf of administrators.
type Users interface {
	Create(ctx context.Context, in models.CreateUserInput) (*models.User, error)
	List(ctx context.Context, q models.PageQuery) (*models.Page[models.User], error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, in models.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id string) error
	// Bootstrap creates in as an admin when no user exists yet.
	Bootstrap(ctx context.Context, in models.CreateUserInput) (bool, error)
}

type MilitaryRanks interface {
	Create(ctx context.Context, in models.MilitaryRankInput) (*models.MilitaryRank, error)
	List(ctx context.Context) ([]models.MilitaryRank, error)
	GetByID(ctx context.Context, id string) (*models.MilitaryRank, error)
	Update(ctx context.Context, id string, in models.MilitaryRankInput) (*models.MilitaryRank, error)
	Delete(ctx context.Context, id string) error
}

// AuditLog exposes the append-only audit trail with filtering access.
type AuditLog interface {
	Record(ctx context.Context, e models.AuditEvent)
	List(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error)
}

// AuditFilter supports history filtering by time range and action.
type AuditFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Action string    // "", "CREATE", "UPDATE", "DELETE", "LOGIN", "LOGOUT"
	Limit  int       // 0 means the default page size
}

// AuthOptions configures token issuing.
type AuthOptions struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Service aggregates all sub-services. Methods shared by several embedded
// interfaces (List, Create, ...) must be called through the field, e.g.
// s.Users.List.
type Service struct {
	Authorization
	Users
	MilitaryRanks
	AuditLog
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, sessions session.Store, auth AuthOptions, log *logger.Logger) *Service {
	v := validation.New()
	audit := NewAuditLogService(repos.Audit, log)
	users := NewUserService(repos.Users, repos.MilitaryRanks, v, audit)
	return &Service{
		Authorization: NewAuthService(repos.Users, users, sessions, v, audit, auth),
		Users:         users,
		MilitaryRanks: NewMilitaryRankService(repos.MilitaryRanks, v, audit),
		AuditLog:      audit,
	}
}
