package service

import (
	"context"
	"strings"
	"time"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/logger"
	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

type AuditLogService struct {
	auditRepo repository.AuditRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewAuditLogService(auditRepo repository.AuditRepo, log *logger.Logger) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo, log: log, now: time.Now}
}

// Record appends e, filling the actor from ctx. Failures are logged, never returned.
func (s *AuditLogService) Record(ctx context.Context, e models.AuditEvent) {
	if e.ActorID == "" {
		e.ActorID = ActorFrom(ctx)
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = s.now().UTC()
	}
	if err := s.auditRepo.Append(ctx, e); err != nil && s.log != nil {
		s.log.Errorw("audit_append_failed",
			"action", e.Action,
			"entity", e.Entity,
			"entity_id", e.EntityID,
			"error", err,
		)
	}
}

func (s *AuditLogService) List(ctx context.Context, f AuditFilter) ([]models.AuditEvent, error) {
	from, to, action, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.auditRepo.List(ctx, from, to, action, normalizeAuditLimit(f.Limit))
}

// normalizeAuditLimit applies the default page size and caps it.
func normalizeAuditLimit(n int) int {
	switch {
	case n <= 0:
		return defaultAuditLimit
	case n > maxAuditLimit:
		return maxAuditLimit
	}
	return n
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeAction(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f AuditFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", apperrors.NewInvalidParamError("from", "must not be after to")
	}

	return from, to, normalizeAction(f.Action), nil
}
