package models

import "time"

type ViolationModel struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:200;not null"`
	FineCents        *int64
	TowDeadlineHours *int
	DisplayOrder     int  `gorm:"not null;default:0"`
	IsActive         bool `gorm:"not null;default:true"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ViolationModel) TableName() string {
	return "violations"
}
