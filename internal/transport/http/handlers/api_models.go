package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dhamar7-Torres/bovino-ujat-sub009/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserView describes the public fields of a user returned by the API.
// The password hash is never part of this view.
type UserView struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Surname      string     `json:"surname"`
	Phone        *string    `json:"phone,omitempty"`
	RoleID       int        `json:"roleId"`
	Active       bool       `json:"active"`
	RegisteredAt time.Time  `json:"registeredAt"`
	LastAccessAt *time.Time `json:"lastAccessAt,omitempty"`
}

func newUserView(user domain.User) UserView {
	return UserView{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Surname:      user.Surname,
		Phone:        user.Phone,
		RoleID:       user.RoleID,
		Active:       user.Active,
		RegisteredAt: user.RegisteredAt,
		LastAccessAt: user.LastAccessAt,
	}
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Phone    string `json:"phone"`
	RoleID   int    `json:"roleId" binding:"required"`
}

// LoginRequest defines the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries a bearer token and the public user record.
type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// ProfileResponse wraps the authenticated user's record.
type ProfileResponse struct {
	User UserView `json:"user"`
}

// VerifyResponse confirms an access token is valid.
type VerifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId"`
}

// RanchRequest defines the payload for creating or updating a ranch.
type RanchRequest struct {
	Name     string  `json:"name" binding:"required"`
	Location string  `json:"location" binding:"required"`
	Hectares float64 `json:"hectares"`
}

// RanchView describes a ranch returned by the API.
type RanchView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	OwnerID   string    `json:"ownerId"`
	Hectares  float64   `json:"hectares"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newRanchView(ranch domain.Ranch) RanchView {
	return RanchView{
		ID:        ranch.ID,
		Name:      ranch.Name,
		Location:  ranch.Location,
		OwnerID:   ranch.OwnerID,
		Hectares:  ranch.Hectares,
		CreatedAt: ranch.CreatedAt,
		UpdatedAt: ranch.UpdatedAt,
	}
}

// AnimalRequest defines the payload for creating or updating an animal.
type AnimalRequest struct {
	RanchID   string     `json:"ranchId"`
	EarTag    string     `json:"earTag" binding:"required"`
	Name      string     `json:"name"`
	Breed     string     `json:"breed" binding:"required"`
	Sex       string     `json:"sex" binding:"required"`
	BirthDate *time.Time `json:"birthDate"`
	WeightKg  *float64   `json:"weightKg"`
	Status    string     `json:"status"`
}

// AnimalView describes an animal returned by the API.
type AnimalView struct {
	ID        string     `json:"id"`
	RanchID   string     `json:"ranchId"`
	EarTag    string     `json:"earTag"`
	Name      *string    `json:"name,omitempty"`
	Breed     string     `json:"breed"`
	Sex       string     `json:"sex"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	WeightKg  *float64   `json:"weightKg,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func newAnimalView(animal domain.Animal) AnimalView {
	return AnimalView{
		ID:        animal.ID,
		RanchID:   animal.RanchID,
		EarTag:    animal.EarTag,
		Name:      animal.Name,
		Breed:     animal.Breed,
		Sex:       animal.Sex,
		BirthDate: animal.BirthDate,
		WeightKg:  animal.WeightKg,
		Status:    string(animal.Status),
		CreatedAt: animal.CreatedAt,
		UpdatedAt: animal.UpdatedAt,
	}
}

// RoleView describes a role in the catalogue.
type RoleView struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ErrorCase pairs a usecase sentinel with the status and message it maps to
// on the wire, e.g. usecase.ErrRanchNotFound to a 404 "ranch not found".
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// RespondWithMappedError writes the response for the first matching case.
// Errors outside the known set get the fallback, so internal failure details
// never leak into API responses.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, mapped := range cases {
		if mapped.Err != nil && errors.Is(err, mapped.Err) {
			c.JSON(mapped.Status, NewErrorResponse(c, mapped.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}
