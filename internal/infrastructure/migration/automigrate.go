package migration

import (
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the current-schema models. Only in-memory test
// databases are built this way; real databases use the goose scripts.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PropertyModel{},
		&models.VehicleModel{},
		&models.ViolationModel{},
		&models.TicketModel{},
		&models.TicketLineItemModel{},
		&models.AuditLogModel{},
		&models.PrinterSettingsModel{},
	}
}
