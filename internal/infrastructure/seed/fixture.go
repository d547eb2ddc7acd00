// Package seed loads development fixtures (properties, vehicles, the
// violation catalog, printer settings and property access grants) from YAML.
package seed

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

type Fixture struct {
	Properties      []PropertyFixture  `yaml:"properties"`
	Violations      []ViolationFixture `yaml:"violations"`
	PrinterSettings *PrinterFixture    `yaml:"printer_settings"`
	Grants          []GrantFixture     `yaml:"grants"`
	Admins          []uint             `yaml:"admins"`
}

type PropertyFixture struct {
	ID         uint             `yaml:"id"`
	Name       string           `yaml:"name"`
	Address    string           `yaml:"address"`
	Disclaimer string           `yaml:"disclaimer"`
	Contacts   []ContactFixture `yaml:"contacts"`
	Vehicles   []VehicleFixture `yaml:"vehicles"`
}

type ContactFixture struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
}

type VehicleFixture struct {
	ID    uint   `yaml:"id"`
	Year  string `yaml:"year"`
	Color string `yaml:"color"`
	Make  string `yaml:"make"`
	Model string `yaml:"model"`
	Tag   string `yaml:"tag"`
	Plate string `yaml:"plate"`
}

type ViolationFixture struct {
	ID   uint   `yaml:"id"`
	Name string `yaml:"name"`
	// Fine is a decimal amount such as "150.00"; empty means no fine.
	Fine             string `yaml:"fine"`
	TowDeadlineHours *int   `yaml:"tow_deadline_hours"`
	DisplayOrder     int    `yaml:"display_order"`
	Active           *bool  `yaml:"active"`
}

type PrinterFixture struct {
	Timezone           string `yaml:"timezone"`
	DPI                int    `yaml:"dpi"`
	LabelWidthDots     int    `yaml:"label_width_dots"`
	MaxLabelLengthDots int    `yaml:"max_label_length_dots"`
	LogoGraphic        string `yaml:"logo_graphic"`
	LogoHeightDots     int    `yaml:"logo_height_dots"`
}

type GrantFixture struct {
	UserID      uint   `yaml:"user_id"`
	PropertyIDs []uint `yaml:"property_ids"`
}

// Grantor records property access grants.
type Grantor interface {
	GrantPropertyAccess(userID, propertyID uint) error
	MakeAdmin(userID uint) error
}

// SettingsCache drops cached printer settings after they are rewritten.
type SettingsCache interface {
	Invalidate(ctx context.Context) error
}

// Decode reads a fixture document. Unknown keys are rejected.
func Decode(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	return &f, nil
}

// Summary counts what Apply wrote.
type Summary struct {
	Properties      int
	Vehicles        int
	Violations      int
	Grants          int
	Admins          int
	PrinterSettings bool
}

type Seeder struct {
	db      *gorm.DB
	grantor Grantor
	cache   SettingsCache
	logger  logger.Interface
}

// NewSeeder builds a seeder. cache may be nil when no settings cache runs.
func NewSeeder(db *gorm.DB, grantor Grantor, cache SettingsCache, log logger.Interface) *Seeder {
	return &Seeder{db: db, grantor: grantor, cache: cache, logger: log.Named("seed")}
}

// Apply upserts the fixture rows by id in one transaction, then records the
// access grants. Printer settings are skipped on schemas that predate them.
func (s *Seeder) Apply(ctx context.Context, f *Fixture, caps domainschema.Capabilities) (*Summary, error) {
	violations, err := toViolationModels(f.Violations)
	if err != nil {
		return nil, err
	}
	var printer *models.PrinterSettingsModel
	if f.PrinterSettings != nil {
		if printer, err = toPrinterModel(f.PrinterSettings); err != nil {
			return nil, err
		}
	}

	summary := &Summary{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Session makes the handle reusable across models.
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true}).Session(&gorm.Session{})

		for i, p := range f.Properties {
			if p.ID == 0 || p.Name == "" {
				return fmt.Errorf("properties[%d]: id and name are required", i)
			}
			if err := upsert.Create(toPropertyModel(p)).Error; err != nil {
				return fmt.Errorf("failed to seed property %q: %w", p.Name, err)
			}
			summary.Properties++

			for _, v := range p.Vehicles {
				if v.ID == 0 {
					return fmt.Errorf("property %d: vehicle id is required", p.ID)
				}
				if err := upsert.Create(toVehicleModel(p.ID, v)).Error; err != nil {
					return fmt.Errorf("failed to seed vehicle %d: %w", v.ID, err)
				}
				summary.Vehicles++
			}
		}

		for _, v := range violations {
			// Create replaces a false is_active with the column default.
			active := v.IsActive
			if err := upsert.Create(v).Error; err != nil {
				return fmt.Errorf("failed to seed violation %q: %w", v.Name, err)
			}
			if !active {
				if err := tx.Model(v).Update("is_active", false).Error; err != nil {
					return fmt.Errorf("failed to deactivate violation %q: %w", v.Name, err)
				}
			}
			summary.Violations++
		}

		if printer != nil {
			if !caps.AuditLog {
				s.logger.Warnw("printer_settings table not available on this schema, skipping printer settings")
				return nil
			}
			if err := upsert.Create(printer).Error; err != nil {
				return fmt.Errorf("failed to seed printer settings: %w", err)
			}
			summary.PrinterSettings = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if summary.PrinterSettings && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warnw("failed to invalidate cached printer settings", "error", err)
		}
	}

	for _, g := range f.Grants {
		for _, propertyID := range g.PropertyIDs {
			if err := s.grantor.GrantPropertyAccess(g.UserID, propertyID); err != nil {
				return summary, err
			}
			summary.Grants++
		}
	}
	for _, userID := range f.Admins {
		if err := s.grantor.MakeAdmin(userID); err != nil {
			return summary, err
		}
		summary.Admins++
	}

	s.logger.Infow("fixture applied",
		"properties", summary.Properties,
		"vehicles", summary.Vehicles,
		"violations", summary.Violations,
		"grants", summary.Grants,
		"admins", summary.Admins,
		"printer_settings", summary.PrinterSettings)

	return summary, nil
}

func toPropertyModel(p PropertyFixture) *models.PropertyModel {
	contacts := make(datatypes.JSONSlice[models.ContactJSON], 0, len(p.Contacts))
	for _, c := range p.Contacts {
		contacts = append(contacts, models.ContactJSON{Name: c.Name, Phone: c.Phone})
	}
	m := &models.PropertyModel{
		ID:       p.ID,
		Name:     p.Name,
		Address:  p.Address,
		Contacts: contacts,
	}
	if p.Disclaimer != "" {
		disclaimer := p.Disclaimer
		m.Disclaimer = &disclaimer
	}
	return m
}

func toVehicleModel(propertyID uint, v VehicleFixture) *models.VehicleModel {
	return &models.VehicleModel{
		ID:         v.ID,
		PropertyID: propertyID,
		Year:       v.Year,
		Color:      v.Color,
		Make:       v.Make,
		Model:      v.Model,
		Tag:        v.Tag,
		Plate:      v.Plate,
	}
}

func toViolationModels(in []ViolationFixture) ([]*models.ViolationModel, error) {
	out := make([]*models.ViolationModel, 0, len(in))
	for i, v := range in {
		if v.ID == 0 || v.Name == "" {
			return nil, fmt.Errorf("violations[%d]: id and name are required", i)
		}
		m := &models.ViolationModel{
			ID:               v.ID,
			Name:             v.Name,
			TowDeadlineHours: v.TowDeadlineHours,
			DisplayOrder:     v.DisplayOrder,
			IsActive:         v.Active == nil || *v.Active,
		}
		if v.Fine != "" {
			fine, err := vo.ParseMoney(v.Fine)
			if err != nil {
				return nil, fmt.Errorf("violations[%d]: %w", i, err)
			}
			cents := fine.Cents()
			m.FineCents = &cents
		}
		out = append(out, m)
	}
	return out, nil
}

func toPrinterModel(p *PrinterFixture) (*models.PrinterSettingsModel, error) {
	s := setting.PrinterSettings{
		Timezone:           p.Timezone,
		DPI:                p.DPI,
		LabelWidthDots:     p.LabelWidthDots,
		MaxLabelLengthDots: p.MaxLabelLengthDots,
		LogoGraphic:        p.LogoGraphic,
		LogoHeightDots:     p.LogoHeightDots,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("printer_settings: %w", err)
	}
	return &models.PrinterSettingsModel{
		ID:                 1,
		Timezone:           s.Timezone,
		DPI:                s.DPI,
		LabelWidthDots:     s.LabelWidthDots,
		MaxLabelLengthDots: s.MaxLabelLengthDots,
		LogoGraphic:        s.LogoGraphic,
		LogoHeightDots:     s.LogoHeightDots,
	}, nil
}
