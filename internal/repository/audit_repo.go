package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bomberquiz/internal/models"

	"github.com/google/uuid"
)

type AuditSQLite struct {
	db *sql.DB
}

func NewAuditSQLite(db *sql.DB) *AuditSQLite { return &AuditSQLite{db: db} }

var _ AuditRepo = (*AuditSQLite)(nil)

const insertAuditSQL = `INSERT INTO audit_events (id, occurred_at, action, entity, entity_id, actor_id, description, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const selectAuditSQL = `SELECT id, occurred_at, action, entity, entity_id, actor_id, description, metadata FROM audit_events`

// Append inserts a new event. If ID or OccurredAt are empty, they're set.
func (r *AuditSQLite) Append(ctx context.Context, e models.AuditEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	var meta sql.NullString
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshal audit metadata: %w", err)
		}
		meta = sql.NullString{String: string(b), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertAuditSQL,
		e.ID,
		formatTimestamp(e.OccurredAt),
		strings.ToUpper(strings.TrimSpace(e.Action)),
		e.Entity,
		nullString(e.EntityID),
		nullString(e.ActorID),
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// List returns events filtered by [from, to] (inclusive) and/or action, ordered ASC.
// A positive limit caps the number of rows.
func (r *AuditSQLite) List(ctx context.Context, from, to time.Time, action string, limit int) ([]models.AuditEvent, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatTimestamp(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatTimestamp(to))
	}
	if action = strings.ToUpper(strings.TrimSpace(action)); action != "" {
		conds = append(conds, "action = ?")
		args = append(args, action)
	}

	q := selectAuditSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC, id ASC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.AuditEvent, 0, 64)
	for rows.Next() {
		var (
			ev                      models.AuditEvent
			occurredAt              string
			entityID, actorID, meta sql.NullString
		)
		if err := rows.Scan(&ev.ID, &occurredAt, &ev.Action, &ev.Entity, &entityID, &actorID, &ev.Description, &meta); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if ev.OccurredAt, err = parseTimestamp(occurredAt); err != nil {
			return nil, err
		}
		ev.EntityID = entityID.String
		ev.ActorID = actorID.String

		if meta.Valid && meta.String != "" {
			// malformed metadata is kept under "raw"
			if err := json.Unmarshal([]byte(meta.String), &ev.Metadata); err != nil {
				ev.Metadata = map[string]any{"raw": meta.String}
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
