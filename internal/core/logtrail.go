package core

import (
	"log"
	"time"
)

// logStartedMessage seeds a fresh trail, mirroring the first entry the
// activity panel always shows.
const logStartedMessage = "Displaying background activity.."

// TraceSink is the low-level destination every log call reaches even when
// the session's visible trail is disabled.
type TraceSink interface {
	Trace(sessionID string, entry LogEntry)
}

// LogTrail is a session's diagnostic trail. It is a pure side channel:
// Add never fails and no other component reads the trail back. Entries
// are kept newest-first for display.
type LogTrail struct {
	sessionID string
	enabled   bool
	entries   []LogEntry
	sink      TraceSink
}

func NewLogTrail(sessionID string, enabled bool, sink TraceSink) *LogTrail {
	t := &LogTrail{sessionID: sessionID, enabled: enabled, sink: sink}
	t.Reset()
	return t
}

// Add records a message. The trace sink and the process log always see
// the entry; the visible trail only when enabled.
func (t *LogTrail) Add(severity Severity, message string) {
	entry := LogEntry{Time: time.Now(), Severity: severity, Message: message}
	if t.sink != nil {
		t.sink.Trace(t.sessionID, entry)
	}
	log.Printf("[%s] %s: %s", t.sessionID, severity, message)

	if !t.enabled {
		return
	}
	t.entries = append([]LogEntry{entry}, t.entries...)
}

// SetEnabled flips the visible-trail toggle. The trace sink is unaffected.
func (t *LogTrail) SetEnabled(enabled bool) {
	t.enabled = enabled
}

// Reset reinitializes the trail to its single starting entry.
func (t *LogTrail) Reset() {
	t.entries = []LogEntry{{
		Time:     time.Now(),
		Severity: SeverityInfo,
		Message:  logStartedMessage,
	}}
}

// Entries returns a copy of the trail, newest first.
func (t *LogTrail) Entries() []LogEntry {
	out := make([]LogEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
