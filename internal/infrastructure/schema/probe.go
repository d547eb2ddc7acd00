// Package schema reads the applied schema version and exposes it as a
// capability set.
package schema

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

// VersionReader returns the applied schema version.
type VersionReader interface {
	GetVersion(ctx context.Context, db *gorm.DB) (int64, error)
}

// VersionProbe reads the schema version on first use and keeps the derived
// capability set for the life of the process. A failed read is not cached.
type VersionProbe struct {
	db     *gorm.DB
	reader VersionReader
	logger logger.Interface

	mu     sync.Mutex
	loaded bool
	caps   domainschema.Capabilities
}

func NewVersionProbe(db *gorm.DB, reader VersionReader, log logger.Interface) *VersionProbe {
	return &VersionProbe{
		db:     db,
		reader: reader,
		logger: log.Named("schema.probe"),
	}
}

func (p *VersionProbe) Capabilities(ctx context.Context) (domainschema.Capabilities, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.caps, nil
	}

	version, err := p.reader.GetVersion(ctx, p.db)
	if err != nil {
		return domainschema.Capabilities{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	if version < domainschema.VersionBase {
		return domainschema.Capabilities{}, fmt.Errorf("schema is not migrated (version %d)", version)
	}

	p.caps = domainschema.FromVersion(version)
	p.loaded = true

	p.logger.Infow("schema capabilities detected",
		"version", version,
		"capabilities", p.caps.String())
	if !p.caps.IsCurrent() {
		p.logger.Warnw("running against an older schema; some ticket features are disabled",
			"version", version)
	}

	return p.caps, nil
}
