package handlers

import (
	"strconv"

	"bomberquiz/internal/apperrors"
	"bomberquiz/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary   List users
// @Tags      users
// @Produce   json
// @Param     limit   query     int  false  "page size (default 20, max 100)"
// @Param     offset  query     int  false  "items to skip"
// @Success   200     {object}  models.Page[models.User]
// @Failure   400     {object}  map[string]string
// @Failure   403     {object}  map[string]string
// @Router    /api/users [get]
// @Security  BearerAuth
func (h *Handler) listUsers(c *gin.Context) {
	q, err := parsePageQuery(c)
	if err != nil {
		h.fail(c, "users_list_failed", err)
		return
	}
	page, err := h.services.Users.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, "users_list_failed", err)
		return
	}
	h.write(c, ok(page))
}

// @Summary   Create user
// @Tags      users
// @Accept    json
// @Produce   json
// @Param     input  body      models.CreateUserInput  true  "user"
// @Success   201    {object}  models.User
// @Failure   400    {object}  map[string]string
// @Failure   404    {object}  map[string]string
// @Failure   409    {object}  map[string]string
// @Router    /api/users [post]
// @Security  BearerAuth
func (h *Handler) createUser(c *gin.Context) {
	var input models.CreateUserInput
	if !h.bindJSON(c, &input) {
		return
	}
	u, err := h.services.Users.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, "users_create_failed", err)
		return
	}
	h.write(c, created(u))
}

// @Summary   Get user
// @Tags      users
// @Produce   json
// @Param     id   path      string  true  "user id"
// @Success   200  {object}  models.User
// @Failure   400  {object}  map[string]string
// @Failure   404  {object}  map[string]string
// @Router    /api/users/{id} [get]
// @Security  BearerAuth
func (h *Handler) getUser(c *gin.Context) {
	u, err := h.services.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "users_get_failed", err)
		return
	}
	h.write(c, ok(u))
}

// @Summary   Update user
// @Tags      users
// @Accept    json
// @Produce   json
// @Param     id     path      string                  true  "user id"
// @Param     input  body      models.UpdateUserInput  true  "profile"
// @Success   200    {object}  models.User
// @Failure   400    {object}  map[string]string
// @Failure   404    {object}  map[string]string
// @Failure   409    {object}  map[string]string
// @Router    /api/users/{id} [put]
// @Security  BearerAuth
func (h *Handler) updateUser(c *gin.Context) {
	var input models.UpdateUserInput
	if !h.bindJSON(c, &input) {
		return
	}
	u, err := h.services.Users.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, "users_update_failed", err)
		return
	}
	h.write(c, ok(u))
}

// @Summary   Delete user
// @Tags      users
// @Param     id  path  string  true  "user id"
// @Success   204
// @Failure   400  {object}  map[string]string
// @Failure   404  {object}  map[string]string
// @Router    /api/users/{id} [delete]
// @Security  BearerAuth
func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.services.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "users_delete_failed", err)
		return
	}
	h.write(c, noContent())
}

func parsePageQuery(c *gin.Context) (models.PageQuery, error) {
	var (
		q   models.PageQuery
		err error
	)
	if q.Limit, err = queryNonNegative(c, "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = queryNonNegative(c, "offset"); err != nil {
		return q, err
	}
	return q, nil
}

// queryNonNegative reads an optional non-negative integer query parameter; absent is 0.
func queryNonNegative(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewInvalidParamError(name, "must be a non-negative integer")
	}
	return n, nil
}
