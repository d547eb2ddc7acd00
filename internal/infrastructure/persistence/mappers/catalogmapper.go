package mappers

import (
	"github.com/parkwarden/parkwarden/internal/domain/property"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
)

// ViolationToDomain converts a catalog row.
func ViolationToDomain(model *models.ViolationModel) (*violation.Entry, error) {
	var fine *vo.Money
	if model.FineCents != nil {
		m := vo.NewMoneyFromCents(*model.FineCents)
		fine = &m
	}
	return violation.NewEntry(model.ID, model.Name, fine, model.TowDeadlineHours, model.DisplayOrder, model.IsActive)
}

// PropertyToDomain converts a property row.
func PropertyToDomain(model *models.PropertyModel) (*property.Property, error) {
	contacts := make([]property.Contact, 0, len(model.Contacts))
	for _, c := range model.Contacts {
		contacts = append(contacts, property.Contact{Name: c.Name, Phone: c.Phone})
	}

	var disclaimer string
	if model.Disclaimer != nil {
		disclaimer = *model.Disclaimer
	}

	return property.NewProperty(model.ID, model.Name, model.Address, contacts, disclaimer)
}

// VehicleToDomain converts a vehicle row.
func VehicleToDomain(model *models.VehicleModel) (*property.Vehicle, error) {
	return property.NewVehicle(model.ID, model.PropertyID,
		model.Year, model.Color, model.Make, model.Model, model.Tag, model.Plate)
}
