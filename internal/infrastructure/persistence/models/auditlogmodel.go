package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLogModel struct {
	ID         uint              `gorm:"primaryKey"`
	EventID    string            `gorm:"size:36;not null;uniqueIndex"`
	Action     string            `gorm:"size:64;not null"`
	EntityType string            `gorm:"size:64;not null;index:idx_audit_logs_entity,priority:1"`
	EntityID   uint              `gorm:"not null;index:idx_audit_logs_entity,priority:2"`
	ActorID    uint              `gorm:"not null"`
	Detail     datatypes.JSONMap `gorm:"type:json"`
	OccurredAt time.Time         `gorm:"not null;index"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}

type PrinterSettingsModel struct {
	ID                 uint   `gorm:"primaryKey"`
	Timezone           string `gorm:"size:64;not null"`
	DPI                int    `gorm:"column:dpi;not null"`
	LabelWidthDots     int    `gorm:"not null"`
	MaxLabelLengthDots int    `gorm:"not null;default:0"`
	LogoGraphic        string `gorm:"size:64;not null;default:''"`
	LogoHeightDots     int    `gorm:"not null;default:0"`
	UpdatedAt          time.Time
}

func (PrinterSettingsModel) TableName() string {
	return "printer_settings"
}
