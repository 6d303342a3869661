// Package memory holds in-memory repositories with the same contracts as the
// SQLite ones. They back tests and the "memory" database driver.
package memory

import (
	"strings"
	"time"

	"bomberquiz/internal/repository"
)

// NewRepository returns a Repository whose stores live in process memory.
func NewRepository() *repository.Repository {
	users := NewUsers()
	return &repository.Repository{
		Users:         users,
		MilitaryRanks: NewMilitaryRanks(users),
		Audit:         NewAudit(),
	}
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func utcOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
