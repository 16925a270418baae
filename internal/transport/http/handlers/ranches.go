package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/transport/http/middleware"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/usecase"
)

// RanchHandler exposes ranch management endpoints.
type RanchHandler struct {
	ranches *usecase.RanchService
}

// NewRanchHandler constructs RanchHandler.
func NewRanchHandler(ranches *usecase.RanchService) *RanchHandler {
	return &RanchHandler{ranches: ranches}
}

// Create godoc
// @Summary Register a new ranch
// @Tags Ranches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RanchRequest true "Ranch payload"
// @Success 201 {object} RanchView
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/ranches [post]
func (h *RanchHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req RanchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid ranch payload"))
		return
	}

	ranch, err := h.ranches.Create(c.Request.Context(), ownerID, usecase.RanchInput{
		Name:     req.Name,
		Location: req.Location,
		Hectares: req.Hectares,
	})
	if err != nil {
		respondRanchError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRanchView(ranch))
}

// List godoc
// @Summary List ranches
// @Tags Ranches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RanchView
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/ranches [get]
func (h *RanchHandler) List(c *gin.Context) {
	ranches, err := h.ranches.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "list ranches failed"))
		return
	}

	views := make([]RanchView, 0, len(ranches))
	for _, ranch := range ranches {
		views = append(views, newRanchView(ranch))
	}

	c.JSON(http.StatusOK, views)
}

// Get godoc
// @Summary Fetch a ranch by id
// @Tags Ranches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ranch ID"
// @Success 200 {object} RanchView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/ranches/{id} [get]
func (h *RanchHandler) Get(c *gin.Context) {
	ranch, err := h.ranches.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondRanchError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRanchView(ranch))
}

// Update godoc
// @Summary Update a ranch
// @Tags Ranches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ranch ID"
// @Param request body RanchRequest true "Ranch payload"
// @Success 200 {object} RanchView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/ranches/{id} [put]
func (h *RanchHandler) Update(c *gin.Context) {
	var req RanchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid ranch payload"))
		return
	}

	ranch, err := h.ranches.Update(c.Request.Context(), c.Param("id"), usecase.RanchInput{
		Name:     req.Name,
		Location: req.Location,
		Hectares: req.Hectares,
	})
	if err != nil {
		respondRanchError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRanchView(ranch))
}

// Delete godoc
// @Summary Delete a ranch and its animals
// @Tags Ranches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ranch ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/ranches/{id} [delete]
func (h *RanchHandler) Delete(c *gin.Context) {
	if err := h.ranches.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondRanchError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "ranch deleted"})
}

func respondRanchError(c *gin.Context, err error) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, validationErr.Error()))
		return
	}

	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrRanchNotFound, Status: http.StatusNotFound, Message: "ranch not found"},
	}, http.StatusInternalServerError, "ranch operation failed")
}
