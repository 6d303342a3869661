package models

import "time"

// Audit actions.
const (
	AuditCreate = "CREATE"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
	AuditLogin  = "LOGIN"
	AuditLogout = "LOGOUT"
)

// Audited entities.
const (
	EntityUser         = "user"
	EntityMilitaryRank = "military_rank"
	EntitySession      = "session"
)

// AuditEvent is a single append-only audit log entry.
type AuditEvent struct {
	ID          string         `json:"id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Action      string         `json:"action"`
	Entity      string         `json:"entity"`
	EntityID    string         `json:"entity_id,omitempty"`
	ActorID     string         `json:"actor_id,omitempty"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
