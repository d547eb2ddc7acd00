// Package cache holds redis-backed read-through caches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

var _ setting.Provider = (*PrinterSettingsProvider)(nil)

const printerSettingsKey = "parkwarden:settings:printer"

// PrinterSettingsProvider resolves printer settings from redis, then the
// printer_settings table, then configured defaults. A nil client disables
// caching.
type PrinterSettingsProvider struct {
	repo     setting.Repository
	probe    domainschema.Probe
	client   *redis.Client
	ttl      time.Duration
	defaults setting.PrinterSettings
	logger   logger.Interface
}

func NewPrinterSettingsProvider(
	repo setting.Repository,
	probe domainschema.Probe,
	client *redis.Client,
	ttl time.Duration,
	defaults setting.PrinterSettings,
	log logger.Interface,
) *PrinterSettingsProvider {
	return &PrinterSettingsProvider{
		repo:     repo,
		probe:    probe,
		client:   client,
		ttl:      ttl,
		defaults: defaults,
		logger:   log.Named("cache.printer_settings"),
	}
}

func (p *PrinterSettingsProvider) PrinterSettings(ctx context.Context) (setting.PrinterSettings, error) {
	if cached, ok := p.fromCache(ctx); ok {
		return cached, nil
	}

	s, err := p.load(ctx)
	if err != nil {
		return setting.PrinterSettings{}, err
	}

	p.store(ctx, s)
	return s, nil
}

// Invalidate drops the cached copy so the next read goes to the database.
func (p *PrinterSettingsProvider) Invalidate(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	if err := p.client.Del(ctx, printerSettingsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate printer settings: %w", err)
	}
	return nil
}

func (p *PrinterSettingsProvider) load(ctx context.Context) (setting.PrinterSettings, error) {
	caps, err := p.probe.Capabilities(ctx)
	if err != nil {
		return setting.PrinterSettings{}, err
	}
	if !caps.AuditLog {
		// printer_settings arrived with the audit log schema version.
		return p.defaults, nil
	}

	stored, err := p.repo.Get(ctx)
	switch {
	case errors.Is(err, setting.ErrSettingNotFound):
		return p.defaults, nil
	case err != nil:
		return setting.PrinterSettings{}, err
	}

	if err := stored.Validate(); err != nil {
		p.logger.Warnw("persisted printer settings are invalid, using defaults", "error", err)
		return p.defaults, nil
	}
	return *stored, nil
}

func (p *PrinterSettingsProvider) fromCache(ctx context.Context) (setting.PrinterSettings, bool) {
	if p.client == nil {
		return setting.PrinterSettings{}, false
	}

	data, err := p.client.Get(ctx, printerSettingsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warnw("failed to read printer settings from redis", "error", err)
		}
		return setting.PrinterSettings{}, false
	}

	var s setting.PrinterSettings
	if err := json.Unmarshal(data, &s); err != nil {
		p.logger.Warnw("discarding malformed cached printer settings", "error", err)
		return setting.PrinterSettings{}, false
	}
	return s, true
}

func (p *PrinterSettingsProvider) store(ctx context.Context, s setting.PrinterSettings) {
	if p.client == nil {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		p.logger.Warnw("failed to marshal printer settings", "error", err)
		return
	}
	if err := p.client.Set(ctx, printerSettingsKey, data, p.ttl).Err(); err != nil {
		p.logger.Warnw("failed to cache printer settings", "error", err)
	}
}
