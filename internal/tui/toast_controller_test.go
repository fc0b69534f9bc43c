package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toaster/internal/core/toast"
)

func TestToastController_Empty(t *testing.T) {
	c := NewToastController()

	assert.False(t, c.HasToasts())
	assert.Zero(t, c.OpenCount())

	_, ok := c.Newest()
	assert.False(t, ok)
	_, ok = c.NewestOpen()
	assert.False(t, ok)
}

func TestToastController_Sync(t *testing.T) {
	c := NewToastController()

	c.Sync([]toast.Toast{
		{ID: "3", Open: false},
		{ID: "2", Open: true},
		{ID: "1", Open: true},
	})

	assert.True(t, c.HasToasts())
	assert.Equal(t, 2, c.OpenCount())

	newest, ok := c.Newest()
	require.True(t, ok)
	assert.Equal(t, "3", newest.ID)

	open, ok := c.NewestOpen()
	require.True(t, ok)
	assert.Equal(t, "2", open.ID)

	c.Sync([]toast.Toast{})
	assert.False(t, c.HasToasts())
}
