package handlers

import (
	"bomberquiz/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary   List military ranks
// @Tags      military-ranks
// @Produce   json
// @Success   200  {array}  models.MilitaryRank
// @Router    /api/military-ranks [get]
// @Security  BearerAuth
func (h *Handler) listMilitaryRanks(c *gin.Context) {
	ranks, err := h.services.MilitaryRanks.List(c.Request.Context())
	if err != nil {
		h.fail(c, "ranks_list_failed", err)
		return
	}
	h.write(c, ok(ranks))
}

// @Summary   Get military rank
// @Tags      military-ranks
// @Produce   json
// @Param     id   path      string  true  "rank id"
// @Success   200  {object}  models.MilitaryRank
// @Failure   404  {object}  map[string]string
// @Router    /api/military-ranks/{id} [get]
// @Security  BearerAuth
func (h *Handler) getMilitaryRank(c *gin.Context) {
	rank, err := h.services.MilitaryRanks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "ranks_get_failed", err)
		return
	}
	h.write(c, ok(rank))
}

// @Summary   Create military rank
// @Tags      military-ranks
// @Accept    json
// @Produce   json
// @Param     input  body      models.MilitaryRankInput  true  "rank"
// @Success   201    {object}  models.MilitaryRank
// @Failure   400    {object}  map[string]string
// @Failure   409    {object}  map[string]string
// @Router    /api/military-ranks [post]
// @Security  BearerAuth
func (h *Handler) createMilitaryRank(c *gin.Context) {
	var input models.MilitaryRankInput
	if !h.bindJSON(c, &input) {
		return
	}
	rank, err := h.services.MilitaryRanks.Create(c.Request.Context(), input)
	if err != nil {
		h.fail(c, "ranks_create_failed", err)
		return
	}
	h.write(c, created(rank))
}

// @Summary   Update military rank
// @Tags      military-ranks
// @Accept    json
// @Produce   json
// @Param     id     path      string                    true  "rank id"
// @Param     input  body      models.MilitaryRankInput  true  "rank"
// @Success   200    {object}  models.MilitaryRank
// @Failure   400    {object}  map[string]string
// @Failure   404    {object}  map[string]string
// @Failure   409    {object}  map[string]string
// @Router    /api/military-ranks/{id} [put]
// @Security  BearerAuth
func (h *Handler) updateMilitaryRank(c *gin.Context) {
	var input models.MilitaryRankInput
	if !h.bindJSON(c, &input) {
		return
	}
	rank, err := h.services.MilitaryRanks.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.fail(c, "ranks_update_failed", err)
		return
	}
	h.write(c, ok(rank))
}

// @Summary      Delete military rank
// @Description  Users holding the rank are left without one.
// @Tags         military-ranks
// @Param        id  path  string  true  "rank id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/military-ranks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteMilitaryRank(c *gin.Context) {
	if err := h.services.MilitaryRanks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "ranks_delete_failed", err)
		return
	}
	h.write(c, noContent())
}
