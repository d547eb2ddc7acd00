package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromVersion(t *testing.T) {
	tests := []struct {
		version int64
		want    Capabilities
	}{
		{0, Capabilities{Version: 0}},
		{1, Capabilities{Version: 1}},
		{2, Capabilities{Version: 2, TicketType: true}},
		{3, Capabilities{Version: 3, TicketType: true, TicketStatus: true}},
		{4, Capabilities{Version: 4, TicketType: true, TicketStatus: true, AuditLog: true}},
		{9, Capabilities{Version: 9, TicketType: true, TicketStatus: true, AuditLog: true}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromVersion(tt.version))
	}
}

func TestCapabilities_Supports(t *testing.T) {
	c := FromVersion(VersionTicketType)

	assert.True(t, c.Supports(TicketType))
	assert.False(t, c.Supports(TicketStatus))
	assert.False(t, c.Supports(AuditLog))
	assert.False(t, c.Supports(Capability("unknown")))
	assert.False(t, c.IsCurrent())
	assert.Equal(t, "ticket_type", c.String())
	assert.Equal(t, "base", FromVersion(1).String())
	assert.True(t, FromVersion(VersionAuditLog).IsCurrent())
}
