// Package property models the managed properties and the vehicles registered
// to them. Both are read-only sources for ticket snapshots.
package property

import (
	"context"
	"fmt"
	"strings"
)

// MaxContacts is the number of ordered contacts a property may list.
const MaxContacts = 3

type Contact struct {
	Name  string
	Phone string
}

// Line renders the contact as it appears on a ticket.
func (c Contact) Line() string {
	switch {
	case c.Name == "":
		return c.Phone
	case c.Phone == "":
		return c.Name
	default:
		return c.Name + ": " + c.Phone
	}
}

type Property struct {
	id         uint
	name       string
	address    string
	contacts   []Contact
	disclaimer string
}

func NewProperty(id uint, name, address string, contacts []Contact, disclaimer string) (*Property, error) {
	if id == 0 {
		return nil, fmt.Errorf("property ID cannot be zero")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("property name is required")
	}
	if len(contacts) > MaxContacts {
		return nil, fmt.Errorf("a property may list at most %d contacts", MaxContacts)
	}
	return &Property{
		id:         id,
		name:       name,
		address:    address,
		contacts:   append([]Contact(nil), contacts...),
		disclaimer: disclaimer,
	}, nil
}

func (p *Property) ID() uint {
	return p.id
}

func (p *Property) Name() string {
	return p.name
}

func (p *Property) Address() string {
	return p.address
}

func (p *Property) Contacts() []Contact {
	return append([]Contact(nil), p.contacts...)
}

// ContactLines joins the non-empty contact lines with newlines.
func (p *Property) ContactLines() string {
	lines := make([]string, 0, len(p.contacts))
	for _, c := range p.contacts {
		if line := strings.TrimSpace(c.Line()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Disclaimer is Markdown text printed on the property's tickets. Empty means
// the installation default applies.
func (p *Property) Disclaimer() string {
	return p.disclaimer
}

type Vehicle struct {
	id         uint
	propertyID uint
	year       string
	color      string
	make       string
	model      string
	tag        string
	plate      string
}

func NewVehicle(id, propertyID uint, year, color, make, model, tag, plate string) (*Vehicle, error) {
	if id == 0 {
		return nil, fmt.Errorf("vehicle ID cannot be zero")
	}
	if propertyID == 0 {
		return nil, fmt.Errorf("vehicle %d has no property", id)
	}
	return &Vehicle{
		id:         id,
		propertyID: propertyID,
		year:       year,
		color:      color,
		make:       make,
		model:      model,
		tag:        tag,
		plate:      plate,
	}, nil
}

func (v *Vehicle) ID() uint {
	return v.id
}

func (v *Vehicle) PropertyID() uint {
	return v.propertyID
}

func (v *Vehicle) Year() string {
	return v.year
}

func (v *Vehicle) Color() string {
	return v.color
}

func (v *Vehicle) Make() string {
	return v.make
}

func (v *Vehicle) Model() string {
	return v.model
}

func (v *Vehicle) Tag() string {
	return v.tag
}

func (v *Vehicle) Plate() string {
	return v.plate
}

// Repository reads properties. GetByID returns nil, nil when absent.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*Property, error)
}

// VehicleRepository reads vehicles. GetByID returns nil, nil when absent.
type VehicleRepository interface {
	GetByID(ctx context.Context, id uint) (*Vehicle, error)
}

// AccessChecker answers whether a caller may work with a property's tickets.
type AccessChecker interface {
	CanAccessProperty(ctx context.Context, propertyID, callerID uint) (bool, error)
}
