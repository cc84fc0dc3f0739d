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

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID         `json:"id"`
	InvoiceID   uuid.UUID         `json:"invoice_id"`
	Amount      valueobject.Money `json:"amount"`
	Method      string            `json:"method"`
	Status      string            `json:"status"`
	Reference   string            `json:"reference,omitempty"`
	PaidAt      time.Time         `json:"paid_at"`
	ConfirmedAt *time.Time        `json:"confirmed_at,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func newPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount,
		Method:      string(p.Method),
		Status:      string(p.Status),
		Reference:   p.Reference,
		PaidAt:      p.PaidAt,
		ConfirmedAt: p.ConfirmedAt,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func newPaymentResponses(payments []*billing.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = newPaymentResponse(p)
	}
	return out
}

// RecordPaymentRequest represents a request to record a payment against an
// invoice. Status defaults to CONFIRMED: money already in hand, e.g. cash.
type RecordPaymentRequest struct {
	InvoiceID string     `json:"invoice_id" binding:"required,uuid"`
	Amount    string     `json:"amount" binding:"required"`
	Method    string     `json:"method" binding:"required,oneof=CASH BANK ONLINE"`
	Reference string     `json:"reference" binding:"max=100"`
	PaidAt    *time.Time `json:"paid_at"`
	Status    string     `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED"`
}

// PaymentListRequest carries the optional filters for payment listings
type PaymentListRequest struct {
	dto.ListRequest
	InvoiceID *string `form:"invoice_id" binding:"omitempty,uuid"`
	Status    *string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED FAILED"`
	Method    *string `form:"method" binding:"omitempty,oneof=CASH BANK ONLINE"`
}

// Record records a payment against an invoice
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}
	amount, err := valueobject.NewMoneyVNDFromString(req.Amount)
	if err != nil {
		h.BadRequest(c, "Invalid amount")
		return
	}
	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), billingapp.RecordPaymentInput{
		InvoiceID: invoiceID,
		Amount:    amount,
		Method:    billing.PaymentMethod(req.Method),
		Reference: req.Reference,
		PaidAt:    paidAt,
		Status:    billing.PaymentStatus(req.Status),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newPaymentResponse(payment))
}

// Get returns a payment by ID
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newPaymentResponse(payment))
}

// List returns payments matching the optional filters
func (h *PaymentHandler) List(c *gin.Context) {
	var req PaymentListRequest
	req.ListRequest = dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := billing.PaymentFilter{Filter: toSharedFilter(req.ListRequest)}
	if req.InvoiceID != nil {
		id, err := uuid.Parse(*req.InvoiceID)
		if err != nil {
			h.BadRequest(c, "Invalid invoice ID")
			return
		}
		filter.InvoiceID = &id
	}
	if req.Status != nil {
		status := billing.PaymentStatus(*req.Status)
		filter.Status = &status
	}
	if req.Method != nil {
		method := billing.PaymentMethod(*req.Method)
		filter.Method = &method
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newPaymentResponses(payments))
}

// Confirm marks a pending payment as received and reconciles the invoice
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newPaymentResponse(payment))
}

// Fail marks a pending payment as failed
func (h *PaymentHandler) Fail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.FailPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newPaymentResponse(payment))
}
