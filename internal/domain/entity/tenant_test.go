package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenant_Location(t *testing.T) {
	loc, err := (&Tenant{Timezone: "Asia/Makassar"}).Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Makassar", loc.String())

	loc, err = (&Tenant{}).Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())

	_, err = (&Tenant{Timezone: "Mars/Olympus"}).Location()
	assert.Error(t, err)
}
