package handlers

import (
	"net/http"
	"time"

	"bomberquiz/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Sign up
// @Description  Public self-registration. The created user always has the "user" role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      models.SignUpInput  true  "new account"
// @Success      201    {object}  models.User
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Router       /api/auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input models.SignUpInput
	if !h.bindJSON(c, &input) {
		return
	}

	u, err := h.services.Authorization.SignUp(c.Request.Context(), input)
	if err != nil {
		h.fail(c, "auth_sign_up_failed", err)
		return
	}
	h.write(c, created(u))
}

// @Summary      Login
// @Description  Returns the user and a JWT; the token is also set as an HTTP-only cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      models.LoginProps  true  "credentials"
// @Success      200    {object}  models.UserLogged
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      429    {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input models.LoginProps
	if !h.bindJSON(c, &input) {
		return
	}

	logged, err := h.services.Login(c.Request.Context(), input)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_login_failed", "email", input.Email, "client_ip", c.ClientIP(), "err", err)
		}
		h.fail(c, "auth_login_failed", err)
		return
	}

	h.setTokenCookie(c, logged.Token, time.Until(logged.ExpiresAt))
	h.write(c, ok(logged))
}

// @Summary   Logout
// @Tags      auth
// @Success   204
// @Failure   401  {object}  map[string]string
// @Router    /api/auth/logout [post]
// @Security  BearerAuth
func (h *Handler) logout(c *gin.Context) {
	sess, _ := sessionFrom(c)
	if err := h.services.Logout(c.Request.Context(), sess); err != nil {
		h.fail(c, "auth_logout_failed", err)
		return
	}
	h.setTokenCookie(c, "", -1)
	h.write(c, noContent())
}

// @Summary   Current user
// @Tags      auth
// @Produce   json
// @Success   200  {object}  models.User
// @Failure   401  {object}  map[string]string
// @Router    /api/auth/me [get]
// @Security  BearerAuth
func (h *Handler) me(c *gin.Context) {
	sess, _ := sessionFrom(c)
	u, err := h.services.Me(c.Request.Context(), sess.UserID)
	if err != nil {
		h.fail(c, "auth_me_failed", err)
		return
	}
	h.write(c, ok(u))
}

// @Summary   Change password
// @Tags      auth
// @Accept    json
// @Param     input  body  models.ChangePasswordInput  true  "current and new password"
// @Success   204
// @Failure   400  {object}  map[string]string
// @Failure   401  {object}  map[string]string
// @Router    /api/auth/password [put]
// @Security  BearerAuth
func (h *Handler) changePassword(c *gin.Context) {
	var input models.ChangePasswordInput
	if !h.bindJSON(c, &input) {
		return
	}
	sess, _ := sessionFrom(c)
	if err := h.services.ChangePassword(c.Request.Context(), sess.UserID, input); err != nil {
		h.fail(c, "auth_change_password_failed", err)
		return
	}
	h.write(c, noContent())
}

// setTokenCookie writes the session cookie; a negative ttl deletes it.
func (h *Handler) setTokenCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := -1
	if ttl > 0 {
		maxAge = int(ttl.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.opts.CookieName, token, maxAge, "/", "", h.opts.CookieSecure, true)
}
