package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/rentledger/backend/internal/application/billing"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID           uuid.UUID          `json:"id"`
	ContractID   uuid.UUID          `json:"contract_id"`
	Period       valueobject.Period `json:"period"`
	RentAmount   valueobject.Money  `json:"rent_amount"`
	ElectricCost valueobject.Money  `json:"electric_cost"`
	WaterCost    valueobject.Money  `json:"water_cost"`
	OtherFees    valueobject.Money  `json:"other_fees"`
	Total        valueobject.Money  `json:"total"`
	Status       string             `json:"status"`
	IssuedAt     time.Time          `json:"issued_at"`
	DueDate      time.Time          `json:"due_date"`
	SentAt       *time.Time         `json:"sent_at,omitempty"`
	PaidAt       *time.Time         `json:"paid_at,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	Notes        string             `json:"notes,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func newInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:           inv.ID,
		ContractID:   inv.ContractID,
		Period:       inv.Period,
		RentAmount:   inv.RentAmount,
		ElectricCost: inv.ElectricCost,
		WaterCost:    inv.WaterCost,
		OtherFees:    inv.OtherFees,
		Total:        inv.Total,
		Status:       string(inv.Status),
		IssuedAt:     inv.IssuedAt,
		DueDate:      inv.DueDate,
		SentAt:       inv.SentAt,
		PaidAt:       inv.PaidAt,
		CancelledAt:  inv.CancelledAt,
		Notes:        inv.Notes,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

func newInvoiceResponses(invoices []*billing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		out[i] = newInvoiceResponse(inv)
	}
	return out
}

// GenerateInvoiceRequest represents a request to generate a period invoice
type GenerateInvoiceRequest struct {
	ContractID string     `json:"contract_id" binding:"required,uuid"`
	Period     string     `json:"period" binding:"required,period"`
	OtherFees  *string    `json:"other_fees"`
	DueDate    *time.Time `json:"due_date"`
}

// UpdateInvoiceFeesRequest represents a request to amend an invoice's
// other-fees component
type UpdateInvoiceFeesRequest struct {
	OtherFees string `json:"other_fees" binding:"required"`
}

// InvoiceListRequest carries the optional filters for invoice listings
type InvoiceListRequest struct {
	dto.ListRequest
	ContractID *string `form:"contract_id" binding:"omitempty,uuid"`
	Status     *string `form:"status" binding:"omitempty,oneof=UNPAID PAID OVERDUE CANCELLED"`
	Period     *string `form:"period"`
}

// Generate builds the invoice for a contract period
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	input := billingapp.GenerateInvoiceInput{
		ContractID: contractID,
		Period:     req.Period,
		OtherFees:  valueobject.NewMoneyVNDFromInt(0),
		DueDate:    req.DueDate,
	}
	if req.OtherFees != nil {
		fees, err := valueobject.NewMoneyVNDFromString(*req.OtherFees)
		if err != nil {
			h.BadRequest(c, "Invalid other fees")
			return
		}
		input.OtherFees = fees
	}

	invoice, err := h.invoiceService.GenerateInvoice(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newInvoiceResponse(invoice))
}

// Get returns an invoice by ID
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newInvoiceResponse(invoice))
}

// List returns invoices matching the optional filters
func (h *InvoiceHandler) List(c *gin.Context) {
	var req InvoiceListRequest
	req.ListRequest = dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := billing.InvoiceFilter{Filter: toSharedFilter(req.ListRequest)}
	if req.ContractID != nil {
		id, err := uuid.Parse(*req.ContractID)
		if err != nil {
			h.BadRequest(c, "Invalid contract ID")
			return
		}
		filter.ContractID = &id
	}
	if req.Status != nil {
		status := billing.InvoiceStatus(*req.Status)
		filter.Status = &status
	}
	if req.Period != nil {
		period, err := valueobject.ParsePeriod(*req.Period)
		if err != nil {
			h.BadRequest(c, "Invalid period")
			return
		}
		filter.Period = &period
	}

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newInvoiceResponses(invoices))
}

// Send marks an unpaid invoice as delivered to the tenant
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newInvoiceResponse(invoice))
}

// Cancel voids an invoice that has not been paid
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newInvoiceResponse(invoice))
}

// MarkPaid settles an invoice manually, bypassing payment reconciliation
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newInvoiceResponse(invoice))
}

// MarkOverdue flags an unpaid invoice past its due date
func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkInvoiceOverdue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newInvoiceResponse(invoice))
}

// UpdateFees amends the other-fees component of an unpaid invoice
func (h *InvoiceHandler) UpdateFees(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateInvoiceFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fees, err := valueobject.NewMoneyVNDFromString(req.OtherFees)
	if err != nil {
		h.BadRequest(c, "Invalid other fees")
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceFees(c.Request.Context(), id, fees)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newInvoiceResponse(invoice))
}

// SweepOverdue flags unpaid invoices past their due date as overdue.
// With dry_run=true it reports the candidates without writing.
func (h *InvoiceHandler) SweepOverdue(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	results, err := h.invoiceService.SweepOverdue(c.Request.Context(), time.Now(), dryRun)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"dry_run": dryRun,
		"count":   len(results),
		"results": results,
	})
}
