package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

// PrinterSettingsRepository implements setting.Repository. The newest
// printer_settings row wins.
type PrinterSettingsRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPrinterSettingsRepository(db *gorm.DB, logger logger.Interface) *PrinterSettingsRepository {
	return &PrinterSettingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PrinterSettingsRepository) Get(ctx context.Context) (*setting.PrinterSettings, error) {
	var model models.PrinterSettingsModel

	err := r.db.WithContext(ctx).Order("id DESC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, setting.ErrSettingNotFound
		}
		r.logger.Errorw("failed to get printer settings", "error", err)
		return nil, fmt.Errorf("failed to get printer settings: %w", err)
	}

	return &setting.PrinterSettings{
		Timezone:           model.Timezone,
		DPI:                model.DPI,
		LabelWidthDots:     model.LabelWidthDots,
		MaxLabelLengthDots: model.MaxLabelLengthDots,
		LogoGraphic:        model.LogoGraphic,
		LogoHeightDots:     model.LogoHeightDots,
	}, nil
}
