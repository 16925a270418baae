package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/port"
)

// RoleHandler exposes the read-only role catalogue.
type RoleHandler struct {
	roles port.RoleRepository
}

// NewRoleHandler constructs RoleHandler.
func NewRoleHandler(roles port.RoleRepository) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// List godoc
// @Summary List available roles
// @Description Returns the seeded role catalogue used at registration.
// @Tags Roles
// @Produce json
// @Success 200 {array} RoleView
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "list roles failed"))
		return
	}

	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, RoleView{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
		})
	}

	c.JSON(http.StatusOK, views)
}
