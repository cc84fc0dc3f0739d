package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rentalapp "github.com/rentledger/backend/internal/application/rental"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
)

// RentalRequestHandler handles rental request endpoints
type RentalRequestHandler struct {
	BaseHandler
	requestService *rentalapp.RentalRequestService
}

// NewRentalRequestHandler creates a new RentalRequestHandler
func NewRentalRequestHandler(requestService *rentalapp.RentalRequestService) *RentalRequestHandler {
	return &RentalRequestHandler{requestService: requestService}
}

// RentalRequestResponse represents a rental request in API responses
type RentalRequestResponse struct {
	ID          uuid.UUID `json:"id"`
	RoomID      uuid.UUID `json:"room_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	ViewingTime time.Time `json:"viewing_time"`
	Note        string    `json:"note,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newRentalRequestResponse(r *rental.RentalRequest) RentalRequestResponse {
	return RentalRequestResponse{
		ID:          r.ID,
		RoomID:      r.RoomID,
		TenantID:    r.TenantID,
		ViewingTime: r.ViewingTime,
		Note:        r.Note,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newRentalRequestResponses(requests []*rental.RentalRequest) []RentalRequestResponse {
	out := make([]RentalRequestResponse, len(requests))
	for i, r := range requests {
		out[i] = newRentalRequestResponse(r)
	}
	return out
}

// CreateRentalRequestRequest represents a tenant's request to view a room
type CreateRentalRequestRequest struct {
	RoomID      string    `json:"room_id" binding:"required,uuid"`
	ViewingTime time.Time `json:"viewing_time" binding:"required"`
	Note        string    `json:"note" binding:"max=1000"`
}

// RentalRequestListRequest carries the optional filters for request listings
type RentalRequestListRequest struct {
	dto.ListRequest
	RoomID   *string `form:"room_id" binding:"omitempty,uuid"`
	TenantID *string `form:"tenant_id" binding:"omitempty,uuid"`
	Status   *string `form:"status" binding:"omitempty,oneof=PENDING ACCEPTED DECLINED CANCELED"`
}

// Create creates a pending rental request for the authenticated tenant
func (h *RentalRequestHandler) Create(c *gin.Context) {
	tenantID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRentalRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), rentalapp.CreateRequestInput{
		RoomID:      roomID,
		TenantID:    tenantID,
		ViewingTime: req.ViewingTime,
		Note:        req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newRentalRequestResponse(request))
}

// Get returns a rental request by ID
func (h *RentalRequestHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRentalRequestResponse(request))
}

// List returns rental requests matching the optional filters
func (h *RentalRequestHandler) List(c *gin.Context) {
	var req RentalRequestListRequest
	req.ListRequest = dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := rental.RentalRequestFilter{Filter: toSharedFilter(req.ListRequest)}
	if req.RoomID != nil {
		id, err := uuid.Parse(*req.RoomID)
		if err != nil {
			h.BadRequest(c, "Invalid room ID")
			return
		}
		filter.RoomID = &id
	}
	if req.TenantID != nil {
		id, err := uuid.Parse(*req.TenantID)
		if err != nil {
			h.BadRequest(c, "Invalid tenant ID")
			return
		}
		filter.TenantID = &id
	}
	if req.Status != nil {
		status := rental.RequestStatus(*req.Status)
		filter.Status = &status
	}

	requests, err := h.requestService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRentalRequestResponses(requests))
}

// ListMine returns the authenticated tenant's own requests
func (h *RentalRequestHandler) ListMine(c *gin.Context) {
	tenantID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := rental.RentalRequestFilter{Filter: toSharedFilter(req), TenantID: &tenantID}
	requests, err := h.requestService.ListRequests(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRentalRequestResponses(requests))
}

// Accept marks a pending request as accepted
func (h *RentalRequestHandler) Accept(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := h.requestService.AcceptRequest(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRentalRequestResponse(request))
}

// Decline marks a pending request as declined
func (h *RentalRequestHandler) Decline(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := h.requestService.DeclineRequest(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRentalRequestResponse(request))
}

// Cancel lets the requesting tenant withdraw their own pending request
func (h *RentalRequestHandler) Cancel(c *gin.Context) {
	tenantID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	request, err := h.requestService.CancelRequest(c.Request.Context(), id, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRentalRequestResponse(request))
}
