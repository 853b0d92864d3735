package edu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spheroedu/bridge/internal/dispatcher"
	"github.com/spheroedu/bridge/pkg/core"
)

func TestEventType(t *testing.T) {
	assert.Equal(t, core.EventCollision, OnCollision.Type())
	assert.Equal(t, core.EventIRMessage, OnIRMessage.Type())
	assert.Equal(t, core.EventColor, OnColor.Type())
}

func TestAdapt_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name string
		typ  core.EventType
		cb   any
	}{
		{"color with no-arg callback", Event[func()]{typ: core.EventColor}.typ, func() {}},
		{"ir with no-arg callback", core.EventIRMessage, func() {}},
		{"collision with channel callback", core.EventCollision, func(int) {}},
		{"charging with color callback", core.EventCharging, func(core.Color) {}},
		{"unknown event", core.EventType(99), func() {}},
		{"nil callback", core.EventLanding, (func())(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := adapt(tt.typ, tt.cb)
			require.Error(t, err)
			assert.Nil(t, h)
		})
	}
}

func TestAdapt_MissingPayload(t *testing.T) {
	h, err := adapt(core.EventColor, func(core.Color) {})
	require.NoError(t, err)
	assert.ErrorContains(t, h(dispatcher.Event{Type: core.EventColor}), "without color")

	h, err = adapt(core.EventIRMessage, func(int) {})
	require.NoError(t, err)
	assert.ErrorContains(t, h(dispatcher.Event{Type: core.EventIRMessage}), "without channel")
}
