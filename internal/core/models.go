package core

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one entry in a session's conversation history.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Severity classifies a session log entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// LogEntry is one diagnostic record in a session's activity trail.
// Purely observational; nothing reads it back for correctness.
type LogEntry struct {
	Time     time.Time `json:"time"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
}

// UploadedFile is a raw PDF blob handed in by the caller. The core never
// retains the bytes past one ingestion call.
type UploadedFile struct {
	Name string
	Data []byte
}

// Identity returns the token used to decide whether an uploaded file set
// has changed between ingestion calls. Content changes under the same
// filename are caught by the hash.
func (f UploadedFile) Identity() FileIdentity {
	sum := sha256.Sum256(f.Data)
	return FileIdentity{
		Name:   f.Name,
		Size:   int64(len(f.Data)),
		Sha256: hex.EncodeToString(sum[:]),
	}
}

// FileIdentity is the (filename, size, content-hash) tuple identifying one
// uploaded file.
type FileIdentity struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Sha256 string `json:"sha256"`
}

// IdentitySetEqual reports whether two uploaded-file sets are the same,
// ignoring upload order.
func IdentitySetEqual(a, b []FileIdentity) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[FileIdentity]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		seen[id]--
		if seen[id] < 0 {
			return false
		}
	}
	return true
}

// PageRecord is one extracted page of text, tagged with the file it came
// from. Transient; it does not outlive index construction.
type PageRecord struct {
	SourceFile string
	Text       string
}
