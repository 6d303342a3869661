package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
	"bomberquiz/internal/validation"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

const (
	entityUser         = "user"
	entityMilitaryRank = "military rank"
)

type UserService struct {
	userRepo repository.UserRepository
	rankRepo repository.MilitaryRankRepository
	v        *validation.Validator
	audit    AuditLog
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, rankRepo repository.MilitaryRankRepository, v *validation.Validator, audit AuditLog) *UserService {
	return &UserService{userRepo: userRepo, rankRepo: rankRepo, v: v, audit: audit, now: time.Now}
}

func normalizeCreate(in *models.CreateUserInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validation.NormalizeEmail(in.Email)
	in.Phone = validation.NormalizePhone(in.Phone)
	in.Birthdate = strings.TrimSpace(in.Birthdate)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.MilitaryRankID = strings.TrimSpace(in.MilitaryRankID)
}

func normalizeUpdate(in *models.UpdateUserInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validation.NormalizeEmail(in.Email)
	in.Phone = validation.NormalizePhone(in.Phone)
	in.Birthdate = strings.TrimSpace(in.Birthdate)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	in.MilitaryRankID = strings.TrimSpace(in.MilitaryRankID)
}

// Create validates in, checks uniqueness and references, hashes the password and persists the user.
func (s *UserService) Create(ctx context.Context, in models.CreateUserInput) (*models.User, error) {
	normalizeCreate(&in)
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}
	if err := s.ensureRankExists(ctx, in.MilitaryRankID); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	u := &models.User{
		ID:             uuid.NewString(),
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Birthdate:      in.Birthdate,
		Role:           in.Role,
		MilitaryRankID: in.MilitaryRankID,
		PasswordHash:   hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewDuplicatedKeyError("email")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(ctx, models.AuditEvent{
		Action:      models.AuditCreate,
		Entity:      models.EntityUser,
		EntityID:    u.ID,
		Description: "user created",
		Metadata:    map[string]any{"email": u.Email, "role": u.Role},
	})
	return u, nil
}

// List returns one page of users. Limit defaults to 20 and is capped at 100.
func (s *UserService) List(ctx context.Context, q models.PageQuery) (*models.Page[models.User], error) {
	return s.userRepo.List(ctx, normalizePage(q))
}

func normalizePage(q models.PageQuery) models.PageQuery {
	switch {
	case q.Limit <= 0:
		q.Limit = defaultPageLimit
	case q.Limit > maxPageLimit:
		q.Limit = maxPageLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := s.v.Field("id", id, "required,uuid"); err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotRegisteredError(entityUser)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, in models.UpdateUserInput) (*models.User, error) {
	if err := s.v.Field("id", id, "required,uuid"); err != nil {
		return nil, err
	}
	normalizeUpdate(&in)
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsAdmin() && in.Role != models.RoleAdmin && id == ActorFrom(ctx) {
		return nil, apperrors.NewInvalidParamError("role", "cannot remove the admin role from the signed-in user")
	}
	if err := s.ensureEmailFree(ctx, in.Email, id); err != nil {
		return nil, err
	}
	if err := s.ensureRankExists(ctx, in.MilitaryRankID); err != nil {
		return nil, err
	}

	u.Name = in.Name
	u.Email = in.Email
	u.Phone = in.Phone
	u.Birthdate = in.Birthdate
	u.Role = in.Role
	u.MilitaryRankID = in.MilitaryRankID
	u.UpdatedAt = s.now().UTC()

	if err := s.userRepo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotRegisteredError(entityUser)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewDuplicatedKeyError("email")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.audit.Record(ctx, models.AuditEvent{
		Action:      models.AuditUpdate,
		Entity:      models.EntityUser,
		EntityID:    u.ID,
		Description: "user updated",
		Metadata:    map[string]any{"email": u.Email, "role": u.Role},
	})
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.v.Field("id", id, "required,uuid"); err != nil {
		return err
	}
	if id == ActorFrom(ctx) {
		return apperrors.NewInvalidParamError("id", "cannot delete the signed-in user")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotRegisteredError(entityUser)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.audit.Record(ctx, models.AuditEvent{
		Action:      models.AuditDelete,
		Entity:      models.EntityUser,
		EntityID:    id,
		Description: "user deleted",
	})
	return nil
}

func (s *UserService) Bootstrap(ctx context.Context, in models.CreateUserInput) (bool, error) {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	in.Role = models.RoleAdmin
	if _, err := s.Create(WithActor(ctx, SystemActor), in); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return true, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.NewDuplicatedKeyError("email")
	}
	return nil
}

func (s *UserService) ensureRankExists(ctx context.Context, rankID string) error {
	if rankID == "" {
		return nil
	}
	rank, err := s.rankRepo.GetByID(ctx, rankID)
	if err != nil {
		return err
	}
	if rank == nil {
		return apperrors.NewNotRegisteredError(entityMilitaryRank)
	}
	return nil
}
