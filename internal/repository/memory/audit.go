package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"

	"github.com/google/uuid"
)

type Audit struct {
	mu     sync.RWMutex
	events []models.AuditEvent
}

func NewAudit() *Audit { return &Audit{} }

var _ repository.AuditRepo = (*Audit)(nil)

func (r *Audit) Append(_ context.Context, e models.AuditEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.OccurredAt = utcOrNow(e.OccurredAt)
	e.Action = strings.ToUpper(strings.TrimSpace(e.Action))

	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

// List returns events in [from, to] (zero bounds are open) matching action,
// oldest first, at most limit of them when limit is positive.
func (r *Audit) List(_ context.Context, from, to time.Time, action string, limit int) ([]models.AuditEvent, error) {
	action = strings.ToUpper(strings.TrimSpace(action))

	r.mu.RLock()
	out := make([]models.AuditEvent, 0, len(r.events))
	for _, e := range r.events {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		if action != "" && e.Action != action {
			continue
		}
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
