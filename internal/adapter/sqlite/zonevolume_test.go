package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneVolumeStore_ReplaceAndLoad(t *testing.T) {
	store, err := OpenZoneVolumeStore("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Replace(map[int]int{1: 100, 2: 50}))

	volumes, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 100, volumes[1])
	assert.Equal(t, 50, volumes[2])
}

func TestZoneVolumeStore_ReplaceOverwritesPreviousData(t *testing.T) {
	store, err := OpenZoneVolumeStore("")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Replace(map[int]int{1: 1}))
	require.NoError(t, store.Replace(map[int]int{2: 2}))

	volumes, err := store.Load()
	require.NoError(t, err)
	_, ok := volumes[1]
	assert.False(t, ok, "expected zone 1 to be cleared by the second Replace")
	assert.Equal(t, 2, volumes[2])
}
