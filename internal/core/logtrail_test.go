package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogTrail_NewestFirst(t *testing.T) {
	trail := NewLogTrail("s1", true, nil)
	trail.Add(SeverityInfo, "first")
	trail.Add(SeveritySuccess, "second")

	entries := trail.Entries()
	require.Len(t, entries, 3) // starting entry plus two
	assert.Equal(t, "second", entries[0].Message)
	assert.Equal(t, "first", entries[1].Message)
	assert.Equal(t, logStartedMessage, entries[2].Message)
}

func TestLogTrail_DisabledStillReachesSink(t *testing.T) {
	sink := &recordingSink{}
	trail := NewLogTrail("s1", false, sink)
	trail.Add(SeverityError, "hidden from the panel")

	assert.Len(t, trail.Entries(), 1) // only the starting entry
	require.Len(t, sink.entries, 1)
	assert.Equal(t, "hidden from the panel", sink.entries[0].Message)
	assert.Equal(t, SeverityError, sink.entries[0].Severity)
}

func TestLogTrail_Reset(t *testing.T) {
	trail := NewLogTrail("s1", true, nil)
	trail.Add(SeverityInfo, "one")
	trail.Add(SeverityInfo, "two")

	trail.Reset()
	entries := trail.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, logStartedMessage, entries[0].Message)
	assert.Equal(t, SeverityInfo, entries[0].Severity)
}

func TestLogTrail_ToggleMidSession(t *testing.T) {
	trail := NewLogTrail("s1", false, nil)
	trail.Add(SeverityInfo, "invisible")
	trail.SetEnabled(true)
	trail.Add(SeverityInfo, "visible")

	entries := trail.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "visible", entries[0].Message)
}
