package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homewatch/internal/repository"
	"homewatch/internal/service"
)

type gasBottleInput struct {
	SizeKg   float64 `json:"size_kg" binding:"required"`
	LevelPct float64 `json:"level_pct"`
	Note     string  `json:"note"`
}

type gasLevelInput struct {
	LevelPct float64 `json:"level_pct"`
	Note     string  `json:"note"`
}

// listGasBottles godoc
// @Summary      List gas bottles, newest first
// @Tags         gas
// @Security     ApiKeyAuth
// @Produce      json
// @Success      200  {array}   models.GasBottle
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/gas [get]
func (h *Handler) listGasBottles(c *gin.Context) {
	bottles, err := h.services.Gas.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to list gas bottles", err)
		return
	}
	c.JSON(http.StatusOK, bottles)
}

// addGasBottle godoc
// @Summary      Register a new gas bottle
// @Tags         gas
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        input  body      gasBottleInput  true  "bottle"
// @Success      201    {object}  models.GasBottle
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/v1/gas [post]
func (h *Handler) addGasBottle(c *gin.Context) {
	var input gasBottleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "invalid input body", err)
		return
	}

	b, err := h.services.Gas.Add(c.Request.Context(), service.GasParams{
		SizeKg:   input.SizeKg,
		LevelPct: input.LevelPct,
		Note:     input.Note,
	})
	if err != nil {
		h.gasError(c, "failed to add gas bottle", err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// swapGasBottle godoc
// @Summary      Swap the active bottle for a fresh one
// @Description  Closes the currently active bottle at 0% and registers the new one.
// @Tags         gas
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        input  body      gasBottleInput  true  "new bottle"
// @Success      201    {object}  models.GasBottle
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/v1/gas/swap [post]
func (h *Handler) swapGasBottle(c *gin.Context) {
	var input gasBottleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "invalid input body", err)
		return
	}

	b, err := h.services.Gas.Swap(c.Request.Context(), service.GasParams{
		SizeKg:   input.SizeKg,
		LevelPct: input.LevelPct,
		Note:     input.Note,
	})
	if err != nil {
		h.gasError(c, "failed to swap gas bottle", err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// updateGasLevel godoc
// @Summary      Update the fill level of a bottle
// @Tags         gas
// @Security     ApiKeyAuth
// @Accept       json
// @Produce      json
// @Param        id     path      string         true  "bottle id"
// @Param        input  body      gasLevelInput  true  "level"
// @Success      200    {object}  models.GasBottle
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/v1/gas/{id} [put]
func (h *Handler) updateGasLevel(c *gin.Context) {
	var input gasLevelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "invalid input body", err)
		return
	}

	b, err := h.services.Gas.UpdateLevel(c.Request.Context(), c.Param("id"), input.LevelPct, input.Note)
	if err != nil {
		h.gasError(c, "failed to update gas bottle", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// deleteGasBottle godoc
// @Summary      Delete a bottle entry
// @Tags         gas
// @Security     ApiKeyAuth
// @Produce      json
// @Param        id  path  string  true  "bottle id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/gas/{id} [delete]
func (h *Handler) deleteGasBottle(c *gin.Context) {
	if err := h.services.Gas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.gasError(c, "failed to delete gas bottle", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// gasError maps gas service failures onto HTTP statuses.
func (h *Handler) gasError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSize), errors.Is(err, service.ErrInvalidLevel):
		h.logAndJSONError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, repository.ErrNotFound):
		h.logAndJSONError(c, http.StatusNotFound, "gas bottle not found", err)
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, message, err)
	}
}
