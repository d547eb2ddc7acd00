// Package schema describes which optional ticket features the persisted
// schema supports. The set is derived from one schema version number.
package schema

import (
	"context"
	"strings"
)

// Capability is one optional persisted feature.
type Capability string

const (
	TicketType   Capability = "ticket_type"
	TicketStatus Capability = "ticket_status"
	AuditLog     Capability = "audit_log"
)

// Schema versions at which each capability appeared.
const (
	VersionBase         int64 = 1
	VersionTicketType   int64 = 2
	VersionTicketStatus int64 = 3
	VersionAuditLog     int64 = 4
)

// Capabilities is the typed capability set of one schema version.
type Capabilities struct {
	Version      int64
	TicketType   bool
	TicketStatus bool
	AuditLog     bool
}

// FromVersion derives the capability set of a schema version.
func FromVersion(version int64) Capabilities {
	return Capabilities{
		Version:      version,
		TicketType:   version >= VersionTicketType,
		TicketStatus: version >= VersionTicketStatus,
		AuditLog:     version >= VersionAuditLog,
	}
}

// Supports reports whether c includes capability.
func (c Capabilities) Supports(capability Capability) bool {
	switch capability {
	case TicketType:
		return c.TicketType
	case TicketStatus:
		return c.TicketStatus
	case AuditLog:
		return c.AuditLog
	default:
		return false
	}
}

// IsCurrent reports whether every known capability is present.
func (c Capabilities) IsCurrent() bool {
	return c.TicketType && c.TicketStatus && c.AuditLog
}

func (c Capabilities) String() string {
	var names []string
	for _, capability := range []Capability{TicketType, TicketStatus, AuditLog} {
		if c.Supports(capability) {
			names = append(names, string(capability))
		}
	}
	if len(names) == 0 {
		return "base"
	}
	return strings.Join(names, ",")
}

// Probe yields the capability set of the connected schema. Implementations
// read the schema version once and never refresh it.
type Probe interface {
	Capabilities(ctx context.Context) (Capabilities, error)
}

// Fixed is a Probe that always reports the same capability set.
type Fixed Capabilities

func (f Fixed) Capabilities(context.Context) (Capabilities, error) {
	return Capabilities(f), nil
}
