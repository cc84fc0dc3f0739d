package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	rentalapp "github.com/rentledger/backend/internal/application/rental"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
)

// RoomHandler handles room management endpoints
type RoomHandler struct {
	BaseHandler
	roomService *rentalapp.RoomService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomService *rentalapp.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// RoomResponse represents a room in API responses
type RoomResponse struct {
	ID         uuid.UUID         `json:"id"`
	BuildingID uuid.UUID         `json:"building_id"`
	Name       string            `json:"name"`
	AreaM2     *decimal.Decimal  `json:"area_m2,omitempty"`
	BasePrice  valueobject.Money `json:"base_price"`
	Bedrooms   int               `json:"bedrooms"`
	Bathrooms  int               `json:"bathrooms"`
	ImageURL   string            `json:"image_url,omitempty"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func newRoomResponse(r *rental.Room) RoomResponse {
	return RoomResponse{
		ID:         r.ID,
		BuildingID: r.BuildingID,
		Name:       r.Name,
		AreaM2:     r.AreaM2,
		BasePrice:  r.BasePrice,
		Bedrooms:   r.Bedrooms,
		Bathrooms:  r.Bathrooms,
		ImageURL:   r.ImageURL,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func newRoomResponses(rooms []*rental.Room) []RoomResponse {
	out := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		out[i] = newRoomResponse(r)
	}
	return out
}

// CreateRoomRequest represents a request to create a room.
// Monetary amounts and meter-style decimals travel as strings to avoid
// float rounding on the wire.
type CreateRoomRequest struct {
	BuildingID string  `json:"building_id" binding:"required,uuid"`
	Name       string  `json:"name" binding:"required,min=1,max=50"`
	BasePrice  string  `json:"base_price" binding:"required"`
	Bedrooms   int     `json:"bedrooms" binding:"required,min=1"`
	Bathrooms  int     `json:"bathrooms" binding:"required,min=1"`
	AreaM2     *string `json:"area_m2"`
	ImageURL   string  `json:"image_url" binding:"omitempty,url,max=500"`
}

// UpdateRoomRequest represents a request to update a room.
// Omitted fields are left unchanged.
type UpdateRoomRequest struct {
	BasePrice *string `json:"base_price"`
	AreaM2    *string `json:"area_m2"`
	ImageURL  *string `json:"image_url" binding:"omitempty,url,max=500"`
}

// RoomListRequest carries the optional filters for room listings
type RoomListRequest struct {
	dto.ListRequest
	BuildingID *string `form:"building_id" binding:"omitempty,uuid"`
	Status     *string `form:"status" binding:"omitempty,oneof=EMPTY RENTED MAINT"`
}

// Create creates a new room
func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buildingID, err := uuid.Parse(req.BuildingID)
	if err != nil {
		h.BadRequest(c, "Invalid building ID")
		return
	}
	basePrice, err := valueobject.NewMoneyVNDFromString(req.BasePrice)
	if err != nil {
		h.BadRequest(c, "Invalid base price")
		return
	}
	var areaM2 *decimal.Decimal
	if req.AreaM2 != nil {
		area, err := decimal.NewFromString(*req.AreaM2)
		if err != nil {
			h.BadRequest(c, "Invalid area")
			return
		}
		areaM2 = &area
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), rentalapp.CreateRoomRequest{
		BuildingID: buildingID,
		Name:       req.Name,
		BasePrice:  basePrice,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		AreaM2:     areaM2,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newRoomResponse(room))
}

// Get returns a room by ID
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRoomResponse(room))
}

func (h *RoomHandler) bindRoomFilter(c *gin.Context) (rental.RoomFilter, bool) {
	var req RoomListRequest
	req.ListRequest = dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return rental.RoomFilter{}, false
	}

	filter := rental.RoomFilter{Filter: toSharedFilter(req.ListRequest)}
	if req.BuildingID != nil {
		id, err := uuid.Parse(*req.BuildingID)
		if err != nil {
			h.BadRequest(c, "Invalid building ID")
			return rental.RoomFilter{}, false
		}
		filter.BuildingID = &id
	}
	if req.Status != nil {
		status := rental.RoomStatus(*req.Status)
		filter.Status = &status
	}
	return filter, true
}

// List returns rooms matching the optional building and status filters
func (h *RoomHandler) List(c *gin.Context) {
	filter, ok := h.bindRoomFilter(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListRooms(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRoomResponses(rooms))
}

// ListAvailable returns rooms currently open for rent
func (h *RoomHandler) ListAvailable(c *gin.Context) {
	filter, ok := h.bindRoomFilter(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListAvailableRooms(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRoomResponses(rooms))
}

// Update updates a room's descriptive attributes
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := rentalapp.UpdateRoomRequest{ImageURL: req.ImageURL}
	if req.BasePrice != nil {
		price, err := valueobject.NewMoneyVNDFromString(*req.BasePrice)
		if err != nil {
			h.BadRequest(c, "Invalid base price")
			return
		}
		input.BasePrice = &price
	}
	if req.AreaM2 != nil {
		area, err := decimal.NewFromString(*req.AreaM2)
		if err != nil {
			h.BadRequest(c, "Invalid area")
			return
		}
		input.AreaM2 = &area
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRoomResponse(room))
}

// EnterMaintenance takes an empty room out of the rentable pool
func (h *RoomHandler) EnterMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	room, err := h.roomService.EnterMaintenance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRoomResponse(room))
}

// ExitMaintenance returns a room to the rentable pool
func (h *RoomHandler) ExitMaintenance(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	room, err := h.roomService.ExitMaintenance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newRoomResponse(room))
}

// Delete removes a room that has never been rented
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.roomService.DeleteRoom(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
