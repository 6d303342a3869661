package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
	"bomberquiz/internal/validation"

	"github.com/google/uuid"
)

type MilitaryRankService struct {
	rankRepo repository.MilitaryRankRepository
	v        *validation.Validator
	audit    AuditLog
}

func NewMilitaryRankService(rankRepo repository.MilitaryRankRepository, v *validation.Validator, audit AuditLog) *MilitaryRankService {
	return &MilitaryRankService{rankRepo: rankRepo, v: v, audit: audit}
}

func (s *MilitaryRankService) Create(ctx context.Context, in models.MilitaryRankInput) (*models.MilitaryRank, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, in.Name, ""); err != nil {
		return nil, err
	}

	rank := &models.MilitaryRank{ID: uuid.NewString(), Order: in.Order, Name: in.Name}
	if err := s.rankRepo.Create(ctx, rank); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewDuplicatedKeyError("name")
		}
		return nil, fmt.Errorf("create military rank: %w", err)
	}

	s.audit.Record(ctx, models.AuditEvent{
		Action:      models.AuditCreate,
		Entity:      models.EntityMilitaryRank,
		EntityID:    rank.ID,
		Description: "military rank created",
		Metadata:    map[string]any{"name": rank.Name, "order": rank.Order},
	})
	return rank, nil
}

// List returns every rank ordered by hierarchy.
func (s *MilitaryRankService) List(ctx context.Context) ([]models.MilitaryRank, error) {
	return s.rankRepo.List(ctx)
}

func (s *MilitaryRankService) GetByID(ctx context.Context, id string) (*models.MilitaryRank, error) {
	if err := s.v.Field("id", id, "required,uuid"); err != nil {
		return nil, err
	}
	rank, err := s.rankRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rank == nil {
		return nil, apperrors.NewNotRegisteredError(entityMilitaryRank)
	}
	return rank, nil
}

func (s *MilitaryRankService) Update(ctx context.Context, id string, in models.MilitaryRankInput) (*models.MilitaryRank, error) {
	if err := s.v.Field("id", id, "required,uuid"); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.v.Struct(in); err != nil {
		return nil, err
	}

	rank, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, in.Name, id); err != nil {
		return nil, err
	}

	rank.Order = in.Order
	rank.Name = in.Name
	if err := s.rankRepo.Update(ctx, rank); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotRegisteredError(entityMilitaryRank)
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewDuplicatedKeyError("name")
		}
		return nil, fmt.Errorf("update military rank: %w", err)
	}

	s.audit.Record(ctx, models.AuditEvent{
		Action:      models.AuditUpdate,
		Entity:      models.EntityMilitaryRank,
		EntityID:    rank.ID,
		Description: "military rank updated",
		Metadata:    map[string]any{"name": rank.Name, "order": rank.Order},
	})
	return rank, nil
}

// Delete removes the rank; users holding it are left without a rank.
func (s *MilitaryRankService) Delete(ctx context.Context, id string) error {
	if err := s.v.Field("id", id, "required,uuid"); err != nil {
		return err
	}
	if err := s.rankRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotRegisteredError(entityMilitaryRank)
		}
		return fmt.Errorf("delete military rank: %w", err)
	}

	s.audit.Record(ctx, models.AuditEvent{
		Action:      models.AuditDelete,
		Entity:      models.EntityMilitaryRank,
		EntityID:    id,
		Description: "military rank deleted",
	})
	return nil
}

func (s *MilitaryRankService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.rankRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperrors.NewDuplicatedKeyError("name")
	}
	return nil
}
