package featureflags

import (
	"testing"

	"skillswap/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, 1), name)
	}
}

func TestEnabled_Percentages(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,junk=abc%")

	assert.True(t, m.Enabled("always", 1))
	assert.False(t, m.Enabled("never", 1))
	assert.False(t, m.Enabled("junk", 1))
	assert.False(t, m.Enabled("canary", 0), "percentage rollout requires a user")

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42))
	}

	on := 0
	for uid := uint(1); uid <= 1000; uid++ {
		if m.Enabled("canary", uid) {
			on++
		}
	}
	assert.InDelta(t, 250, on, 80)
}

func TestNilManagerIsAllOff(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(ImageMessages, 1))
	assert.True(t, m.AllowsMessageType(models.MessageTypeText, 1))
	assert.False(t, m.AllowsMessageType(models.MessageTypeImage, 1))
	assert.Empty(t, m.Snapshot(1))
}

func TestAllowsMessageType(t *testing.T) {
	m := NewManager("image_messages=on,voice_messages=off")
	assert.True(t, m.AllowsMessageType(models.MessageTypeText, 7))
	assert.True(t, m.AllowsMessageType(models.MessageTypeImage, 7))
	assert.False(t, m.AllowsMessageType(models.MessageTypeVoice, 7))
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,X=on, y = 20% ,z=off,=on,w= ")

	assert.Equal(t, []string{"x", "y", "z"}, m.Names())
	snap := m.Snapshot(123)
	assert.Len(t, snap, 3)
	assert.True(t, snap["x"])
	assert.False(t, snap["z"])
}
