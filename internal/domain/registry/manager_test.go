package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

func seeded(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	require.NoError(t, NewSeeder(m, nil).SeedDefaults())
	return m
}

func TestDefaultCatalog(t *testing.T) {
	m := seeded(t)

	assert.Equal(t, len(DefaultCatalog()), m.Len())

	notepad, ok := m.Get("notepad")
	require.True(t, ok)
	assert.Equal(t, "Resume.txt", notepad.Title)
	assert.Equal(t, types.Size{Width: 800, Height: 600}, notepad.DefaultSize)
	assert.False(t, notepad.IsExternal)

	github, ok := m.Get("github")
	require.True(t, ok)
	assert.True(t, github.IsExternal)
	assert.NotEmpty(t, github.URL)
}

func TestListKeepsOrder(t *testing.T) {
	m := seeded(t)

	list := m.List(nil)
	require.Len(t, list, m.Len())
	assert.Equal(t, "notepad", list[0].ID)
	assert.Equal(t, "explorer", list[1].ID)
	assert.Equal(t, "donate", list[len(list)-1].ID)
}

func TestListByCategory(t *testing.T) {
	m := seeded(t)

	games := types.CategoryGame
	list := m.List(&games)

	ids := make([]string, 0, len(list))
	for _, d := range list {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"neonDrift", "systemOverride", "devTycoon"}, ids)
}

func TestRegisterReplacesInPlace(t *testing.T) {
	m := seeded(t)

	err := m.Register(types.AppDescriptor{
		ID:          "terminal",
		Title:       "Shell",
		DefaultSize: types.Size{Width: 640, Height: 400},
	})
	require.NoError(t, err)

	desc, _ := m.Get("terminal")
	assert.Equal(t, "Shell", desc.Title)
	assert.Equal(t, types.CategoryApp, desc.Category)
	assert.Equal(t, "terminal", m.List(nil)[2].ID)
	assert.Equal(t, len(DefaultCatalog()), m.Len())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		desc types.AppDescriptor
	}{
		{"missing id", types.AppDescriptor{Title: "x", DefaultSize: types.Size{Width: 1, Height: 1}}},
		{"missing title", types.AppDescriptor{ID: "x", DefaultSize: types.Size{Width: 1, Height: 1}}},
		{"zero size", types.AppDescriptor{ID: "x", Title: "x"}},
		{"external without url", types.AppDescriptor{ID: "x", Title: "x", DefaultSize: types.Size{Width: 1, Height: 1}, IsExternal: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Validate(tt.desc), ErrInvalidDescriptor)
		})
	}
}

func TestStats(t *testing.T) {
	m := seeded(t)

	stats := m.Stats()
	assert.Equal(t, m.Len(), stats["total"])
	assert.Equal(t, 3, stats["game"])
	assert.Equal(t, 3, stats["link"])
}
