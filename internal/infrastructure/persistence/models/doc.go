// Package models contains GORM-specific persistence models that map to
// database tables. They are kept separate from domain entities so the domain
// layer stays free of ORM concerns.
//
// Structure:
// - base.go: common persistence fields (BaseModel, AggregateModel)
// - identity.go: user accounts
// - rental.go: buildings, rooms, rental requests, contracts, meter readings
// - billing.go: invoices and payments
//
// Each model carries ToDomain/FromDomain mappers; repositories only ever
// touch the database through these models.
package models
