package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/usecase"
)

// AnimalHandler exposes herd management endpoints.
type AnimalHandler struct {
	animals *usecase.AnimalService
}

// NewAnimalHandler constructs AnimalHandler.
func NewAnimalHandler(animals *usecase.AnimalService) *AnimalHandler {
	return &AnimalHandler{animals: animals}
}

// Create godoc
// @Summary Register a new animal
// @Tags Animals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AnimalRequest true "Animal payload"
// @Success 201 {object} AnimalView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/animals [post]
func (h *AnimalHandler) Create(c *gin.Context) {
	var req AnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid animal payload"))
		return
	}

	animal, err := h.animals.Create(c.Request.Context(), animalInputFromRequest(req))
	if err != nil {
		respondAnimalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAnimalView(animal))
}

// List godoc
// @Summary List animals
// @Tags Animals
// @Produce json
// @Security BearerAuth
// @Param ranchId query string false "Filter by ranch"
// @Param status query string false "Filter by status (active, sold, deceased)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} AnimalView
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/animals [get]
func (h *AnimalHandler) List(c *gin.Context) {
	filter := port.AnimalFilter{
		RanchID: c.Query("ranchId"),
		Status:  domain.AnimalStatus(c.Query("status")),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filter.Offset = offset
	}

	animals, err := h.animals.List(c.Request.Context(), filter)
	if err != nil {
		respondAnimalError(c, err)
		return
	}

	views := make([]AnimalView, 0, len(animals))
	for _, animal := range animals {
		views = append(views, newAnimalView(animal))
	}

	c.JSON(http.StatusOK, views)
}

// Get godoc
// @Summary Fetch an animal by id
// @Tags Animals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Animal ID"
// @Success 200 {object} AnimalView
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/animals/{id} [get]
func (h *AnimalHandler) Get(c *gin.Context) {
	animal, err := h.animals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondAnimalError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAnimalView(animal))
}

// Update godoc
// @Summary Update an animal
// @Tags Animals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Animal ID"
// @Param request body AnimalRequest true "Animal payload"
// @Success 200 {object} AnimalView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/animals/{id} [put]
func (h *AnimalHandler) Update(c *gin.Context) {
	var req AnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid animal payload"))
		return
	}

	animal, err := h.animals.Update(c.Request.Context(), c.Param("id"), animalInputFromRequest(req))
	if err != nil {
		respondAnimalError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAnimalView(animal))
}

// Delete godoc
// @Summary Delete an animal
// @Tags Animals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Animal ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/animals/{id} [delete]
func (h *AnimalHandler) Delete(c *gin.Context) {
	if err := h.animals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondAnimalError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "animal deleted"})
}

func animalInputFromRequest(req AnimalRequest) usecase.AnimalInput {
	return usecase.AnimalInput{
		RanchID:   req.RanchID,
		EarTag:    req.EarTag,
		Name:      req.Name,
		Breed:     req.Breed,
		Sex:       req.Sex,
		BirthDate: req.BirthDate,
		WeightKg:  req.WeightKg,
		Status:    req.Status,
	}
}

func respondAnimalError(c *gin.Context, err error) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, validationErr.Error()))
		return
	}

	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrAnimalNotFound, Status: http.StatusNotFound, Message: "animal not found"},
		{Err: usecase.ErrRanchNotFound, Status: http.StatusNotFound, Message: "ranch not found"},
		{Err: usecase.ErrEarTagTaken, Status: http.StatusConflict, Message: "ear tag already registered in ranch"},
	}, http.StatusInternalServerError, "animal operation failed")
}
