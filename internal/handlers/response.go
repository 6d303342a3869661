package handlers

import (
	"errors"
	"net/http"

	"bomberquiz/internal/apperrors"

	"github.com/gin-gonic/gin"
)

const msgInternal = "internal server error"

// httpResponse is what every controller produces before it is written out.
type httpResponse struct {
	StatusCode int
	Body       any
}

func ok(body any) httpResponse      { return httpResponse{StatusCode: http.StatusOK, Body: body} }
func created(body any) httpResponse { return httpResponse{StatusCode: http.StatusCreated, Body: body} }
func noContent() httpResponse       { return httpResponse{StatusCode: http.StatusNoContent} }

func errBody(msg string) gin.H { return gin.H{"error": msg} }

func badRequest(err error) httpResponse {
	return httpResponse{StatusCode: http.StatusBadRequest, Body: errBody(err.Error())}
}

func unauthorized(msg string) httpResponse {
	return httpResponse{StatusCode: http.StatusUnauthorized, Body: errBody(msg)}
}

func forbidden(msg string) httpResponse {
	return httpResponse{StatusCode: http.StatusForbidden, Body: errBody(msg)}
}

func notFound(err error) httpResponse {
	return httpResponse{StatusCode: http.StatusNotFound, Body: errBody(err.Error())}
}

func conflict(err error) httpResponse {
	return httpResponse{StatusCode: http.StatusConflict, Body: errBody(err.Error())}
}

func tooManyRequests() httpResponse {
	return httpResponse{StatusCode: http.StatusTooManyRequests, Body: errBody("too many requests")}
}

func serverError() httpResponse {
	return httpResponse{StatusCode: http.StatusInternalServerError, Body: errBody(msgInternal)}
}

// errorResponse maps application errors to HTTP responses.
func errorResponse(err error) httpResponse {
	switch {
	case apperrors.IsValidation(err):
		return badRequest(err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return unauthorized(err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		return forbidden(err.Error())
	case apperrors.IsNotRegistered(err):
		return notFound(err)
	case apperrors.IsDuplicatedKey(err):
		return conflict(err)
	default:
		return serverError()
	}
}

func (h *Handler) write(c *gin.Context, resp httpResponse) {
	if resp.Body == nil {
		c.Status(resp.StatusCode)
		return
	}
	c.JSON(resp.StatusCode, resp.Body)
}

// fail writes the mapped error response; server errors are logged under event.
func (h *Handler) fail(c *gin.Context, event string, err error) {
	resp := errorResponse(err)
	if resp.StatusCode >= http.StatusInternalServerError {
		if h.log != nil {
			h.log.Errorw(event, "request_id", c.GetString(ctxRequestIDKey), "err", err)
		}
	} else if h.log != nil {
		h.log.Debugw(event, "request_id", c.GetString(ctxRequestIDKey), "status", resp.StatusCode, "err", err)
	}
	h.write(c, resp)
}

// bindJSON decodes the body into dst and writes a 400 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "request_id", c.GetString(ctxRequestIDKey), "err", err)
		}
		h.write(c, httpResponse{StatusCode: http.StatusBadRequest, Body: errBody("invalid request body")})
		return false
	}
	return true
}
