package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/rentledger/backend/internal/application/identity"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func newUserResponse(info identityapp.UserInfo) UserResponse {
	return UserResponse{
		ID:          info.ID,
		Email:       info.Email,
		FullName:    info.FullName,
		Phone:       info.Phone,
		Role:        string(info.Role),
		Status:      string(info.Status),
		LastLoginAt: info.LastLoginAt,
	}
}

func newUserResponses(infos []identityapp.UserInfo) []UserResponse {
	out := make([]UserResponse, len(infos))
	for i, info := range infos {
		out[i] = newUserResponse(info)
	}
	return out
}

// UpdateProfileRequest represents a profile update request.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	FullName         *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	Phone            *string `json:"phone" binding:"omitempty,max=30"`
	EmergencyContact *string `json:"emergency_contact" binding:"omitempty,max=200"`
}

// Get returns a user by ID
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newUserResponse(*user))
}

// List returns a paginated list of users
func (h *UserHandler) List(c *gin.Context) {
	req, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.List(c.Request.Context(), toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, newUserResponses(result.Users), result.Total, req.Page, req.PageSize)
}

// ListTenants returns a paginated list of tenant users
func (h *UserHandler) ListTenants(c *gin.Context) {
	req, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.ListTenants(c.Request.Context(), toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, newUserResponses(result.Users), result.Total, req.Page, req.PageSize)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, identityapp.UpdateProfileInput{
		FullName:         req.FullName,
		Phone:            req.Phone,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newUserResponse(*user))
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newUserResponse(*user))
}

// Activate re-enables a user account
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newUserResponse(*user))
}
