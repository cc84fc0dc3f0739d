package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	rentalapp "github.com/rentledger/backend/internal/application/rental"
	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// MeterReadingHandler handles utility meter reading endpoints
type MeterReadingHandler struct {
	BaseHandler
	readingService *rentalapp.MeterReadingService
	// Default per-unit prices applied when a recording omits them
	defaultElectricPrice valueobject.Money
	defaultWaterPrice    valueobject.Money
}

// NewMeterReadingHandler creates a new MeterReadingHandler
func NewMeterReadingHandler(
	readingService *rentalapp.MeterReadingService,
	defaultElectricPrice, defaultWaterPrice valueobject.Money,
) *MeterReadingHandler {
	return &MeterReadingHandler{
		readingService:       readingService,
		defaultElectricPrice: defaultElectricPrice,
		defaultWaterPrice:    defaultWaterPrice,
	}
}

// MeterReadingResponse represents a meter reading in API responses.
// Usage fields are derived from the stored indexes and unit prices.
type MeterReadingResponse struct {
	ID                  uuid.UUID          `json:"id"`
	ContractID          uuid.UUID          `json:"contract_id"`
	Period              valueobject.Period `json:"period"`
	ElectricPrevious    decimal.Decimal    `json:"electric_previous"`
	ElectricCurrent     decimal.Decimal    `json:"electric_current"`
	WaterPrevious       decimal.Decimal    `json:"water_previous"`
	WaterCurrent        decimal.Decimal    `json:"water_current"`
	ElectricUnitPrice   valueobject.Money  `json:"electric_unit_price"`
	WaterUnitPrice      valueobject.Money  `json:"water_unit_price"`
	ElectricConsumption decimal.Decimal    `json:"electric_consumption"`
	ElectricCost        valueobject.Money  `json:"electric_cost"`
	WaterConsumption    decimal.Decimal    `json:"water_consumption"`
	WaterCost           valueobject.Money  `json:"water_cost"`
	ReadAt              time.Time          `json:"read_at"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

func newMeterReadingResponse(r *rental.MeterReading) MeterReadingResponse {
	// Stored readings are validated monotonic, so usage cannot fail here
	electric, _ := r.ElectricUsage()
	water, _ := r.WaterUsage()
	return MeterReadingResponse{
		ID:                  r.ID,
		ContractID:          r.ContractID,
		Period:              r.Period,
		ElectricPrevious:    r.ElectricPrevious,
		ElectricCurrent:     r.ElectricCurrent,
		WaterPrevious:       r.WaterPrevious,
		WaterCurrent:        r.WaterCurrent,
		ElectricUnitPrice:   r.ElectricUnitPrice,
		WaterUnitPrice:      r.WaterUnitPrice,
		ElectricConsumption: electric.Consumption,
		ElectricCost:        electric.Cost,
		WaterConsumption:    water.Consumption,
		WaterCost:           water.Cost,
		ReadAt:              r.ReadAt,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func newMeterReadingResponses(readings []*rental.MeterReading) []MeterReadingResponse {
	out := make([]MeterReadingResponse, len(readings))
	for i, r := range readings {
		out[i] = newMeterReadingResponse(r)
	}
	return out
}

// RecordReadingRequest represents a request to record a meter reading.
// Previous indexes default from the contract's latest stored reading, and
// unit prices default from the configured tariff.
type RecordReadingRequest struct {
	ContractID        string  `json:"contract_id" binding:"required,uuid"`
	Period            string  `json:"period" binding:"required,period"`
	ElectricPrevious  *string `json:"electric_previous"`
	WaterPrevious     *string `json:"water_previous"`
	ElectricCurrent   string  `json:"electric_current" binding:"required"`
	WaterCurrent      string  `json:"water_current" binding:"required"`
	ElectricUnitPrice *string `json:"electric_unit_price"`
	WaterUnitPrice    *string `json:"water_unit_price"`
}

// CorrectReadingRequest represents a request to fix a reading's current
// indexes before the period is invoiced
type CorrectReadingRequest struct {
	ElectricCurrent string `json:"electric_current" binding:"required"`
	WaterCurrent    string `json:"water_current" binding:"required"`
}

// Record records a meter reading for a contract period
func (h *MeterReadingHandler) Record(c *gin.Context) {
	var req RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	input := rentalapp.RecordReadingInput{
		ContractID:        contractID,
		Period:            req.Period,
		ElectricUnitPrice: h.defaultElectricPrice,
		WaterUnitPrice:    h.defaultWaterPrice,
	}
	if input.ElectricCurrent, err = decimal.NewFromString(req.ElectricCurrent); err != nil {
		h.BadRequest(c, "Invalid electric index")
		return
	}
	if input.WaterCurrent, err = decimal.NewFromString(req.WaterCurrent); err != nil {
		h.BadRequest(c, "Invalid water index")
		return
	}
	if req.ElectricPrevious != nil {
		prev, err := decimal.NewFromString(*req.ElectricPrevious)
		if err != nil {
			h.BadRequest(c, "Invalid electric index")
			return
		}
		input.ElectricPrevious = &prev
	}
	if req.WaterPrevious != nil {
		prev, err := decimal.NewFromString(*req.WaterPrevious)
		if err != nil {
			h.BadRequest(c, "Invalid water index")
			return
		}
		input.WaterPrevious = &prev
	}
	if req.ElectricUnitPrice != nil {
		price, err := valueobject.NewMoneyVNDFromString(*req.ElectricUnitPrice)
		if err != nil {
			h.BadRequest(c, "Invalid electric unit price")
			return
		}
		input.ElectricUnitPrice = price
	}
	if req.WaterUnitPrice != nil {
		price, err := valueobject.NewMoneyVNDFromString(*req.WaterUnitPrice)
		if err != nil {
			h.BadRequest(c, "Invalid water unit price")
			return
		}
		input.WaterUnitPrice = price
	}

	reading, err := h.readingService.RecordReading(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newMeterReadingResponse(reading))
}

// Get returns a meter reading by ID
func (h *MeterReadingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reading, err := h.readingService.GetReading(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newMeterReadingResponse(reading))
}

// ListByContract returns the readings of a contract
func (h *MeterReadingHandler) ListByContract(c *gin.Context) {
	contractID, ok := parseID(c)
	if !ok {
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	readings, err := h.readingService.ListReadings(c.Request.Context(), contractID, toSharedFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newMeterReadingResponses(readings))
}

// Correct replaces a reading's current indexes while the period is still
// uninvoiced
func (h *MeterReadingHandler) Correct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CorrectReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	electricCurrent, err := decimal.NewFromString(req.ElectricCurrent)
	if err != nil {
		h.BadRequest(c, "Invalid electric index")
		return
	}
	waterCurrent, err := decimal.NewFromString(req.WaterCurrent)
	if err != nil {
		h.BadRequest(c, "Invalid water index")
		return
	}

	reading, err := h.readingService.CorrectReading(c.Request.Context(), id, electricCurrent, waterCurrent)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newMeterReadingResponse(reading))
}
