// Package setting holds the installation's printer settings. Settings are
// loaded per request and passed explicitly to the code that needs them.
package setting

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSettingNotFound is returned when no printer settings are persisted.
var ErrSettingNotFound = errors.New("printer settings not found")

// PrinterSettings describes the installation timezone and the physical label.
type PrinterSettings struct {
	Timezone           string `json:"timezone"`
	DPI                int    `json:"dpi"`
	LabelWidthDots     int    `json:"label_width_dots"`
	MaxLabelLengthDots int    `json:"max_label_length_dots"`
	// LogoGraphic names a graphic stored on the printer; empty means no logo.
	LogoGraphic    string `json:"logo_graphic,omitempty"`
	LogoHeightDots int    `json:"logo_height_dots,omitempty"`
}

func (s PrinterSettings) Validate() error {
	if _, err := time.LoadLocation(s.Timezone); err != nil || s.Timezone == "" {
		return fmt.Errorf("invalid timezone %q", s.Timezone)
	}
	if s.DPI <= 0 {
		return fmt.Errorf("dpi must be positive")
	}
	if s.LabelWidthDots <= 0 {
		return fmt.Errorf("label width must be positive")
	}
	if s.MaxLabelLengthDots < 0 || s.LogoHeightDots < 0 {
		return fmt.Errorf("label length and logo height cannot be negative")
	}
	return nil
}

// Location resolves Timezone, falling back to UTC.
func (s PrinterSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Repository reads persisted printer settings.
type Repository interface {
	// Get returns ErrSettingNotFound when nothing is persisted.
	Get(ctx context.Context) (*PrinterSettings, error)
}

// Provider supplies the effective printer settings for one request.
type Provider interface {
	PrinterSettings(ctx context.Context) (PrinterSettings, error)
}
