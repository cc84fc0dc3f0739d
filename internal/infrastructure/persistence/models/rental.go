package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentledger/backend/internal/domain/rental"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
)

// BuildingModel is the persistence model for the Building aggregate
type BuildingModel struct {
	AggregateModel
	Name    string `gorm:"type:varchar(120);not null"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (BuildingModel) TableName() string {
	return "buildings"
}

// ToDomain converts the persistence model to a domain Building
func (m *BuildingModel) ToDomain() *rental.Building {
	building := &rental.Building{
		Name:    m.Name,
		Address: m.Address,
	}
	m.PopulateAggregateRoot(&building.BaseAggregateRoot)
	return building
}

// FromDomain populates the persistence model from a domain Building
func (m *BuildingModel) FromDomain(b *rental.Building) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Name = b.Name
	m.Address = b.Address
}

// RoomModel is the persistence model for the Room aggregate
type RoomModel struct {
	AggregateModel
	BuildingID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name       string            `gorm:"type:varchar(50);not null"`
	AreaM2     *decimal.Decimal  `gorm:"type:decimal(10,2)"`
	BasePrice  valueobject.Money `gorm:"type:decimal(18,2);not null"`
	Bedrooms   int               `gorm:"not null;default:0"`
	Bathrooms  int               `gorm:"not null;default:0"`
	ImageURL   string            `gorm:"type:varchar(500)"`
	Status     rental.RoomStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts the persistence model to a domain Room
func (m *RoomModel) ToDomain() *rental.Room {
	room := &rental.Room{
		BuildingID: m.BuildingID,
		Name:       m.Name,
		AreaM2:     m.AreaM2,
		BasePrice:  m.BasePrice,
		Bedrooms:   m.Bedrooms,
		Bathrooms:  m.Bathrooms,
		ImageURL:   m.ImageURL,
		Status:     m.Status,
	}
	m.PopulateAggregateRoot(&room.BaseAggregateRoot)
	return room
}

// FromDomain populates the persistence model from a domain Room
func (m *RoomModel) FromDomain(r *rental.Room) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.BuildingID = r.BuildingID
	m.Name = r.Name
	m.AreaM2 = r.AreaM2
	m.BasePrice = r.BasePrice
	m.Bedrooms = r.Bedrooms
	m.Bathrooms = r.Bathrooms
	m.ImageURL = r.ImageURL
	m.Status = r.Status
}

// RentalRequestModel is the persistence model for the RentalRequest aggregate
type RentalRequestModel struct {
	AggregateModel
	RoomID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	ViewingTime time.Time            `gorm:"not null"`
	Note        string               `gorm:"type:text"`
	Status      rental.RequestStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (RentalRequestModel) TableName() string {
	return "rental_requests"
}

// ToDomain converts the persistence model to a domain RentalRequest
func (m *RentalRequestModel) ToDomain() *rental.RentalRequest {
	request := &rental.RentalRequest{
		RoomID:      m.RoomID,
		TenantID:    m.TenantID,
		ViewingTime: m.ViewingTime,
		Note:        m.Note,
		Status:      m.Status,
	}
	m.PopulateAggregateRoot(&request.BaseAggregateRoot)
	return request
}

// FromDomain populates the persistence model from a domain RentalRequest
func (m *RentalRequestModel) FromDomain(r *rental.RentalRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.RoomID = r.RoomID
	m.TenantID = r.TenantID
	m.ViewingTime = r.ViewingTime
	m.Note = r.Note
	m.Status = r.Status
}

// ContractModel is the persistence model for the Contract aggregate.
// A partial unique index on (room_id) WHERE status = 'ACTIVE' backs the
// one-active-contract-per-room invariant; it is created by migration since
// GORM tags cannot express partial indexes.
type ContractModel struct {
	AggregateModel
	RoomID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	TenantID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	RentalRequestID *uuid.UUID            `gorm:"type:uuid"`
	StartDate       time.Time             `gorm:"not null"`
	EndDate         *time.Time            ``
	MonthlyRent     valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	Deposit         valueobject.Money     `gorm:"type:decimal(18,2);not null"`
	BillingCycle    rental.BillingCycle   `gorm:"type:varchar(20);not null"`
	Status          rental.ContractStatus `gorm:"type:varchar(20);not null;index"`
	Notes           string                `gorm:"type:text"`
	SignedImageURL  string                `gorm:"type:varchar(500)"`
	EndedAt         *time.Time            ``
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract
func (m *ContractModel) ToDomain() *rental.Contract {
	contract := &rental.Contract{
		RoomID:          m.RoomID,
		TenantID:        m.TenantID,
		RentalRequestID: m.RentalRequestID,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		MonthlyRent:     m.MonthlyRent,
		Deposit:         m.Deposit,
		BillingCycle:    m.BillingCycle,
		Status:          m.Status,
		Notes:           m.Notes,
		SignedImageURL:  m.SignedImageURL,
		EndedAt:         m.EndedAt,
	}
	m.PopulateAggregateRoot(&contract.BaseAggregateRoot)
	return contract
}

// FromDomain populates the persistence model from a domain Contract
func (m *ContractModel) FromDomain(c *rental.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.RoomID = c.RoomID
	m.TenantID = c.TenantID
	m.RentalRequestID = c.RentalRequestID
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
	m.MonthlyRent = c.MonthlyRent
	m.Deposit = c.Deposit
	m.BillingCycle = c.BillingCycle
	m.Status = c.Status
	m.Notes = c.Notes
	m.SignedImageURL = c.SignedImageURL
	m.EndedAt = c.EndedAt
}

// MeterReadingModel is the persistence model for the MeterReading aggregate.
// (contract_id, period) is unique: one reading per contract per month.
type MeterReadingModel struct {
	AggregateModel
	ContractID        uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_readings_contract_period"`
	Period            valueobject.Period `gorm:"type:varchar(7);not null;uniqueIndex:idx_readings_contract_period"`
	ElectricPrevious  decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	ElectricCurrent   decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	WaterPrevious     decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	WaterCurrent      decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	ElectricUnitPrice valueobject.Money  `gorm:"type:decimal(18,2);not null"`
	WaterUnitPrice    valueobject.Money  `gorm:"type:decimal(18,2);not null"`
	ReadAt            time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MeterReadingModel) TableName() string {
	return "meter_readings"
}

// ToDomain converts the persistence model to a domain MeterReading
func (m *MeterReadingModel) ToDomain() *rental.MeterReading {
	reading := &rental.MeterReading{
		ContractID:        m.ContractID,
		Period:            m.Period,
		ElectricPrevious:  m.ElectricPrevious,
		ElectricCurrent:   m.ElectricCurrent,
		WaterPrevious:     m.WaterPrevious,
		WaterCurrent:      m.WaterCurrent,
		ElectricUnitPrice: m.ElectricUnitPrice,
		WaterUnitPrice:    m.WaterUnitPrice,
		ReadAt:            m.ReadAt,
	}
	m.PopulateAggregateRoot(&reading.BaseAggregateRoot)
	return reading
}

// FromDomain populates the persistence model from a domain MeterReading
func (m *MeterReadingModel) FromDomain(r *rental.MeterReading) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ContractID = r.ContractID
	m.Period = r.Period
	m.ElectricPrevious = r.ElectricPrevious
	m.ElectricCurrent = r.ElectricCurrent
	m.WaterPrevious = r.WaterPrevious
	m.WaterCurrent = r.WaterCurrent
	m.ElectricUnitPrice = r.ElectricUnitPrice
	m.WaterUnitPrice = r.WaterUnitPrice
	m.ReadAt = r.ReadAt
}
