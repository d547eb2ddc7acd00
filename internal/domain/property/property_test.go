package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty_ContactLimit(t *testing.T) {
	contacts := []Contact{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
	_, err := NewProperty(1, "Oak Ridge", "", contacts, "")
	assert.Error(t, err)
}

func TestProperty_ContactLines(t *testing.T) {
	p, err := NewProperty(1, "Oak Ridge", "1 Main St", []Contact{
		{Name: "Office", Phone: "555-0100"},
		{},
		{Phone: "555-0199"},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Office: 555-0100\n555-0199", p.ContactLines())
}

func TestNewVehicle_RequiresProperty(t *testing.T) {
	_, err := NewVehicle(1, 0, "2019", "Blue", "Honda", "Civic", "", "ABC123")
	assert.Error(t, err)
}
