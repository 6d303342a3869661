package handlers

import (
	"fmt"
	"strings"
	"time"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	timeFormatsHint = "use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List audit events
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' covers the whole day.
// @Tags         audit
// @Produce      json
// @Param        from    query     string  false  "start of range"  example(2025-08-01)
// @Param        to      query     string  false  "end of range"    example(2025-08-31)
// @Param        action  query     string  false  "action"          Enums(CREATE,UPDATE,DELETE,LOGIN,LOGOUT)
// @Param        limit   query     int     false  "max events, oldest first (default 100, max 1000)"
// @Success      200     {object}  map[string]interface{}  "count, events"
// @Failure      400     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /api/audit-logs [get]
// @Security     BearerAuth
func (h *Handler) getAuditLogs(c *gin.Context) {
	f, err := parseAuditFilter(c)
	if err != nil {
		h.fail(c, "audit_list_failed", err)
		return
	}
	events, err := h.services.AuditLog.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "audit_list_failed", err)
		return
	}
	h.write(c, ok(gin.H{
		"count":  len(events),
		"events": events,
	}))
}

func parseAuditFilter(c *gin.Context) (service.AuditFilter, error) {
	f := service.AuditFilter{Action: c.Query("action")}
	var err error

	if f.Limit, err = queryNonNegative(c, "limit"); err != nil {
		return f, err
	}

	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			return f, apperrors.NewInvalidParamError("from", timeFormatsHint)
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			return f, apperrors.NewInvalidParamError("to", timeFormatsHint)
		}
		// a bare date means the end of that day
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return f, nil
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
