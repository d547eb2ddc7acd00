package violation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
)

func TestCatalog_LookupSkipsInactive(t *testing.T) {
	fine := vo.NewMoneyFromCents(5000)
	active, err := NewEntry(1, "No Permit", &fine, nil, 1, true)
	require.NoError(t, err)
	retired, err := NewEntry(2, "Expired Tag", nil, nil, 2, false)
	require.NoError(t, err)

	c := NewCatalog(active, retired)

	got, ok := c.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, "No Permit", got.Name())

	_, ok = c.Lookup(2)
	assert.False(t, ok)
	_, ok = c.Lookup(3)
	assert.False(t, ok)
}

func TestNewEntry_Invalid(t *testing.T) {
	negative := vo.NewMoneyFromCents(-1)
	_, err := NewEntry(1, "Bad", &negative, nil, 0, true)
	assert.Error(t, err)

	_, err = NewEntry(0, "Zero", nil, nil, 0, true)
	assert.Error(t, err)

	_, err = NewEntry(1, "", nil, nil, 0, true)
	assert.Error(t, err)
}
