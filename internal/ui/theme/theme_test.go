package theme

import (
	"testing"

	"github.com/dori/projectflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestByName(t *testing.T) {
	for _, want := range Available() {
		got, ok := ByName(want.Name)
		assert.True(t, ok, want.Name)
		assert.Equal(t, want.Name, got.Name)
	}

	_, ok := ByName("solarized")
	assert.False(t, ok)
}

func TestNextWraps(t *testing.T) {
	themes := Available()
	assert.Equal(t, themes[1].Name, Next(themes[0].Name).Name)
	assert.Equal(t, themes[0].Name, Next(themes[len(themes)-1].Name).Name)
	assert.Equal(t, themes[0].Name, Next("unknown").Name)
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, Nord.StatusTodo, Nord.StatusColor(model.StatusTodo))
	assert.Equal(t, Nord.StatusInProgress, Nord.StatusColor(model.StatusInProgress))
	assert.Equal(t, Nord.StatusDone, Nord.StatusColor(model.StatusDone))
}

func TestPriorityColor(t *testing.T) {
	assert.Equal(t, Dracula.PriorityHigh, Dracula.PriorityColor(model.PriorityHigh))
	assert.Equal(t, Dracula.PriorityLow, Dracula.PriorityColor(model.PriorityLow))
	assert.Equal(t, Dracula.Subtle, Dracula.PriorityColor(""))
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(Nord)

	SetTheme(Gruvbox)
	assert.Equal(t, "gruvbox", Current.Theme.Name)
}
