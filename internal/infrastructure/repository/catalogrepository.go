package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/mappers"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
	"github.com/parkwarden/parkwarden/internal/shared/db"
)

// ViolationRepository reads the violation catalog.
type ViolationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

func (r *ViolationRepository) FindByIDs(ctx context.Context, ids []uint) (violation.Catalog, error) {
	if len(ids) == 0 {
		return violation.NewCatalog(), nil
	}

	var rows []*models.ViolationModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find violations: %w", err)
	}

	return r.toCatalog(rows)
}

func (r *ViolationRepository) toCatalog(rows []*models.ViolationModel) (violation.Catalog, error) {
	entries := make([]*violation.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := mappers.ViolationToDomain(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return violation.NewCatalog(entries...), nil
}

// PropertyRepository reads properties.
type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*property.Property, error) {
	var model models.PropertyModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return mappers.PropertyToDomain(&model)
}

// VehicleRepository reads vehicles.
type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uint) (*property.Vehicle, error) {
	var model models.VehicleModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return mappers.VehicleToDomain(&model)
}
