package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spheroedu/bridge/internal/storage"
	"github.com/spheroedu/bridge/pkg/core"
)

var _ storage.Backend = storage.Nop{}

func TestUploadMetadataFields(t *testing.T) {
	meta := core.UploadMetadata{
		SessionUUID: "abc",
		Program:     "square",
		Robot:       "BOLT",
		DurationSec: 62.5,
		Tag:         "Lesson",
	}

	assert.Equal(t, "abc", meta.SessionUUID)
	assert.Equal(t, "square", meta.Program)
	assert.Equal(t, 62.5, meta.DurationSec)
	assert.Equal(t, "Lesson", meta.Tag)
}

func TestNop(t *testing.T) {
	var b storage.Backend = storage.Nop{}
	assert.NoError(t, b.Init())
	assert.NoError(t, b.StartSession(&core.Session{}))
	assert.NoError(t, b.RecordCommand(&core.CommandRecord{}))
	assert.NoError(t, b.RecordEvent(&core.EventRecord{}))
	assert.NoError(t, b.RecordSample(&core.SensorSample{}))
	assert.NoError(t, b.EndSession(&core.Session{}))
	assert.NoError(t, b.Close())
}
