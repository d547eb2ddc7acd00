package models

import (
	"time"

	"gorm.io/datatypes"
)

// ContactJSON is one element of the properties.contacts JSON array.
type ContactJSON struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PropertyModel struct {
	ID         uint                             `gorm:"primaryKey"`
	Name       string                           `gorm:"size:200;not null;uniqueIndex"`
	Address    string                           `gorm:"size:500;not null;default:''"`
	Contacts   datatypes.JSONSlice[ContactJSON] `gorm:"type:json"`
	Disclaimer *string                          `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PropertyModel) TableName() string {
	return "properties"
}

type VehicleModel struct {
	ID         uint   `gorm:"primaryKey"`
	PropertyID uint   `gorm:"not null;index"`
	Year       string `gorm:"size:8;not null;default:''"`
	Color      string `gorm:"size:50;not null;default:''"`
	Make       string `gorm:"size:100;not null;default:''"`
	Model      string `gorm:"size:100;not null;default:''"`
	Tag        string `gorm:"size:50;not null;default:''"`
	Plate      string `gorm:"size:20;not null;default:'';index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (VehicleModel) TableName() string {
	return "vehicles"
}
