package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rentalapp "github.com/rentledger/backend/internal/application/rental"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
)

// ContractHandler handles contract endpoints
type ContractHandler struct {
	BaseHandler
	contractService *rentalapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *rentalapp.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// ContractResponse represents a contract in API responses
type ContractResponse struct {
	ID              uuid.UUID         `json:"id"`
	RoomID          uuid.UUID         `json:"room_id"`
	TenantID        uuid.UUID         `json:"tenant_id"`
	RentalRequestID *uuid.UUID        `json:"rental_request_id,omitempty"`
	StartDate       time.Time         `json:"start_date"`
	EndDate         *time.Time        `json:"end_date,omitempty"`
	MonthlyRent     valueobject.Money `json:"monthly_rent"`
	Deposit         valueobject.Money `json:"deposit"`
	BillingCycle    string            `json:"billing_cycle"`
	Status          string            `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	SignedImageURL  string            `json:"signed_image_url,omitempty"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func newContractResponse(ct *rental.Contract) ContractResponse {
	return ContractResponse{
		ID:              ct.ID,
		RoomID:          ct.RoomID,
		TenantID:        ct.TenantID,
		RentalRequestID: ct.RentalRequestID,
		StartDate:       ct.StartDate,
		EndDate:         ct.EndDate,
		MonthlyRent:     ct.MonthlyRent,
		Deposit:         ct.Deposit,
		BillingCycle:    string(ct.BillingCycle),
		Status:          string(ct.Status),
		Notes:           ct.Notes,
		SignedImageURL:  ct.SignedImageURL,
		EndedAt:         ct.EndedAt,
		CreatedAt:       ct.CreatedAt,
		UpdatedAt:       ct.UpdatedAt,
	}
}

func newContractResponses(contracts []*rental.Contract) []ContractResponse {
	out := make([]ContractResponse, len(contracts))
	for i, ct := range contracts {
		out[i] = newContractResponse(ct)
	}
	return out
}

// CreateContractRequest represents a request to sign a contract.
// MonthlyRent defaults from the room's base price when omitted.
type CreateContractRequest struct {
	RoomID          string     `json:"room_id" binding:"required,uuid"`
	TenantID        string     `json:"tenant_id" binding:"required,uuid"`
	RentalRequestID *string    `json:"rental_request_id" binding:"omitempty,uuid"`
	StartDate       time.Time  `json:"start_date" binding:"required"`
	EndDate         *time.Time `json:"end_date"`
	MonthlyRent     *string    `json:"monthly_rent"`
	Deposit         string     `json:"deposit" binding:"required"`
	BillingCycle    string     `json:"billing_cycle" binding:"required,oneof=MONTHLY QUARTERLY"`
	Notes           string     `json:"notes" binding:"max=2000"`
	SignedImageURL  string     `json:"signed_image_url" binding:"omitempty,url,max=500"`
}

// ContractListRequest carries the optional filters for contract listings
type ContractListRequest struct {
	dto.ListRequest
	RoomID   *string `form:"room_id" binding:"omitempty,uuid"`
	TenantID *string `form:"tenant_id" binding:"omitempty,uuid"`
	Status   *string `form:"status" binding:"omitempty,oneof=PENDING ACTIVE ENDED SUSPENDED"`
}

// Create signs a new contract, renting out the room
func (h *ContractHandler) Create(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	input := rentalapp.CreateContractInput{
		RoomID:         roomID,
		TenantID:       tenantID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		BillingCycle:   rental.BillingCycle(req.BillingCycle),
		Notes:          req.Notes,
		SignedImageURL: req.SignedImageURL,
	}
	if req.RentalRequestID != nil {
		id, err := uuid.Parse(*req.RentalRequestID)
		if err != nil {
			h.BadRequest(c, "Invalid rental request ID")
			return
		}
		input.RentalRequestID = &id
	}
	if req.MonthlyRent != nil {
		rent, err := valueobject.NewMoneyVNDFromString(*req.MonthlyRent)
		if err != nil {
			h.BadRequest(c, "Invalid monthly rent")
			return
		}
		input.MonthlyRent = &rent
	}
	deposit, err := valueobject.NewMoneyVNDFromString(req.Deposit)
	if err != nil {
		h.BadRequest(c, "Invalid deposit")
		return
	}
	input.Deposit = deposit

	contract, err := h.contractService.CreateContract(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newContractResponse(contract))
}

// Get returns a contract by ID
func (h *ContractHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newContractResponse(contract))
}

// List returns contracts matching the optional filters
func (h *ContractHandler) List(c *gin.Context) {
	var req ContractListRequest
	req.ListRequest = dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := rental.ContractFilter{Filter: toSharedFilter(req.ListRequest)}
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
		status := rental.ContractStatus(*req.Status)
		filter.Status = &status
	}

	contracts, err := h.contractService.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newContractResponses(contracts))
}

// ListMine returns the authenticated tenant's own contracts
func (h *ContractHandler) ListMine(c *gin.Context) {
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

	filter := rental.ContractFilter{Filter: toSharedFilter(req), TenantID: &tenantID}
	contracts, err := h.contractService.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newContractResponses(contracts))
}

// End terminates an active contract and frees the room
func (h *ContractHandler) End(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contract, err := h.contractService.EndContract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newContractResponse(contract))
}

// Suspend pauses an active contract; its room stays RENTED
func (h *ContractHandler) Suspend(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contract, err := h.contractService.SuspendContract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newContractResponse(contract))
}

// Resume reactivates a suspended contract
func (h *ContractHandler) Resume(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contract, err := h.contractService.ResumeContract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newContractResponse(contract))
}
