package handlers

import (
	"errors"
	"strings"
	"time"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/models"
	"bomberquiz/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"

	ctxRequestIDKey = "request_id"
	ctxSessionKey   = "session"
)

// requestID propagates X-Request-ID or generates a new one.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"request_id", c.GetString(ctxRequestIDKey),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency_ms", time.Since(start).Milliseconds(),
		"client_ip", c.ClientIP(),
	)
}

// tokenFromRequest reads the session cookie first, then a Bearer Authorization header.
func (h *Handler) tokenFromRequest(c *gin.Context) (string, error) {
	if v, err := c.Cookie(h.opts.CookieName); err == nil && v != "" {
		return v, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing credentials")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.New("invalid Authorization header format")
	}
	return strings.TrimSpace(token), nil
}

func (h *Handler) authMiddleware(c *gin.Context) {
	token, err := h.tokenFromRequest(c)
	if err != nil {
		h.abort(c, unauthorized(err.Error()))
		return
	}

	sess, err := h.services.ParseToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			h.abort(c, unauthorized("invalid or expired token"))
			return
		}
		if h.log != nil {
			h.log.Errorw("auth_parse_token_failed", "request_id", c.GetString(ctxRequestIDKey), "err", err)
		}
		h.abort(c, serverError())
		return
	}

	c.Set(ctxSessionKey, *sess)
	c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), sess.UserID))
	c.Next()
}

func (h *Handler) requireAdmin(c *gin.Context) {
	if sess, ok := sessionFrom(c); !ok || !sess.IsAdmin() {
		h.abort(c, errorResponse(service.ErrAdminRequired))
		return
	}
	c.Next()
}

func (h *Handler) abort(c *gin.Context, resp httpResponse) {
	c.AbortWithStatusJSON(resp.StatusCode, resp.Body)
}

func sessionFrom(c *gin.Context) (models.Session, bool) {
	v, exists := c.Get(ctxSessionKey)
	if !exists {
		return models.Session{}, false
	}
	sess, ok := v.(models.Session)
	return sess, ok
}
