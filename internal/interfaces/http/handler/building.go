package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rentalapp "github.com/rentledger/backend/internal/application/rental"
	"github.com/rentledger/backend/internal/domain/rental"
)

// BuildingHandler handles building management endpoints
type BuildingHandler struct {
	BaseHandler
	buildingService *rentalapp.BuildingService
}

// NewBuildingHandler creates a new BuildingHandler
func NewBuildingHandler(buildingService *rentalapp.BuildingService) *BuildingHandler {
	return &BuildingHandler{buildingService: buildingService}
}

// BuildingResponse represents a building in API responses
type BuildingResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBuildingResponse(b *rental.Building) BuildingResponse {
	return BuildingResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func newBuildingResponses(buildings []*rental.Building) []BuildingResponse {
	out := make([]BuildingResponse, len(buildings))
	for i, b := range buildings {
		out[i] = newBuildingResponse(b)
	}
	return out
}

// CreateBuildingRequest represents a request to create a building
type CreateBuildingRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=120"`
	Address string `json:"address" binding:"max=255"`
}

// UpdateBuildingRequest represents a request to update a building.
// Omitted fields are left unchanged.
type UpdateBuildingRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=120"`
	Address *string `json:"address" binding:"omitempty,max=255"`
}

// Create creates a new building
func (h *BuildingHandler) Create(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	building, err := h.buildingService.CreateBuilding(c.Request.Context(), rentalapp.CreateBuildingRequest{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newBuildingResponse(building))
}

// Get returns a building by ID
func (h *BuildingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	building, err := h.buildingService.GetBuilding(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newBuildingResponse(building))
}

// List returns a paginated list of buildings
func (h *BuildingHandler) List(c *gin.Context) {
	req, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	buildings, err := h.buildingService.ListBuildings(c.Request.Context(), toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newBuildingResponses(buildings))
}

// Update updates a building's name and address
func (h *BuildingHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	building, err := h.buildingService.UpdateBuilding(c.Request.Context(), id, rentalapp.UpdateBuildingRequest{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newBuildingResponse(building))
}

// Delete removes a building that has no rooms
func (h *BuildingHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.buildingService.DeleteBuilding(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
