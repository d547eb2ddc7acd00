package models

import "time"

// TicketSnapshotColumns are the ticket columns present since schema version 1.
type TicketSnapshotColumns struct {
	VehicleID        *uint     `gorm:"index"`
	PropertyID       uint      `gorm:"not null"`
	VehicleYear      string    `gorm:"size:8;not null;default:''"`
	VehicleColor     string    `gorm:"size:50;not null;default:''"`
	VehicleMake      string    `gorm:"size:100;not null;default:''"`
	VehicleModel     string    `gorm:"size:100;not null;default:''"`
	VehicleTag       string    `gorm:"size:50;not null;default:''"`
	VehiclePlate     string    `gorm:"size:20;not null;default:'';index"`
	PropertyName     string    `gorm:"size:200;not null;index"`
	PropertyAddress  string    `gorm:"size:500;not null;default:''"`
	PropertyContact  string    `gorm:"size:500;not null;default:''"`
	IssuedByUserID   uint      `gorm:"not null"`
	IssuedByUsername string    `gorm:"size:100;not null;default:''"`
	IssuedAt         time.Time `gorm:"not null;index"`
	IssuedTimezone   string    `gorm:"size:64;not null;default:'UTC'"`
	CustomNote       *string   `gorm:"type:text"`
}

// TicketModel is the ticket record of the current schema.
type TicketModel struct {
	ID         uint   `gorm:"primaryKey"`
	TicketType string `gorm:"size:16;not null;default:'VIOLATION'"`
	TicketSnapshotColumns
	Status         string  `gorm:"size:16;not null;default:'active';index"`
	Disposition    *string `gorm:"size:16"`
	ClosedAt       *time.Time
	ClosedByUserID *uint

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "tickets"
}

// LegacyTicketModel is the ticket record of schema version 1, which has
// neither a ticket type nor status tracking.
type LegacyTicketModel struct {
	ID uint `gorm:"primaryKey"`
	TicketSnapshotColumns
}

func (LegacyTicketModel) TableName() string {
	return "tickets"
}

// TypedLegacyTicketModel is the ticket record of schema version 2.
type TypedLegacyTicketModel struct {
	ID         uint   `gorm:"primaryKey"`
	TicketType string `gorm:"size:16;not null;default:'VIOLATION'"`
	TicketSnapshotColumns
}

func (TypedLegacyTicketModel) TableName() string {
	return "tickets"
}

type TicketLineItemModel struct {
	ID           uint   `gorm:"primaryKey"`
	TicketID     uint   `gorm:"not null;index:idx_ticket_violations_ticket,priority:1"`
	ViolationID  *uint  `gorm:"index"`
	Description  string `gorm:"size:1000;not null"`
	DisplayOrder int    `gorm:"not null;index:idx_ticket_violations_ticket,priority:2"`
}

func (TicketLineItemModel) TableName() string {
	return "ticket_violations"
}
