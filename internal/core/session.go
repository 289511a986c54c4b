package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WelcomeMessage is the single assistant turn every fresh conversation
// starts with.
const WelcomeMessage = "Hi! I'm AskNotes.ai. Ask me anything about the uploaded PDF!"

// ErrNoIndex is returned by Ask while no retrieval index exists; the
// caller keeps chat input disabled until ingestion succeeds.
var ErrNoIndex = errors.New("no retrieval index: upload PDFs first")

// ErrNoUsableText marks a batch where every file was corrupt or
// image-only.
var ErrNoUsableText = errors.New("no usable text in any uploaded file")

// ErrUnknownSession is returned for session ids the manager does not hold.
var ErrUnknownSession = errors.New("unknown session")

// Session is the per-user state container: current uploaded-file
// identities, the optional retrieval index, the conversation and the
// activity trail. All mutation goes through SessionManager, which holds
// the session lock across each logical request so a double-submit cannot
// interleave.
type Session struct {
	ID      string
	ModelID string

	mu    sync.Mutex
	files []FileIdentity
	index *RetrievalIndex
	turns []ChatTurn
	trail *LogTrail
}

// Ready reports whether a retrieval index is attached. Chat input stays
// disabled until it is.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index != nil
}

// Turns returns a copy of the conversation history.
func (s *Session) Turns() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// LogEntries returns a copy of the visible activity trail, newest first.
func (s *Session) LogEntries() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trail.Entries()
}

// IngestStatus classifies one EnsureIndex call.
type IngestStatus string

const (
	IngestReused IngestStatus = "reused"
	IngestBuilt  IngestStatus = "built"
	IngestFailed IngestStatus = "failed"
)

// IngestResult is the caller-visible outcome of EnsureIndex: the status
// plus the one-line notice the UI shows as a toast.
type IngestResult struct {
	Status IngestStatus `json:"status"`
	Notice string       `json:"notice"`
}

// SessionManager owns all live sessions and runs the ingestion and query
// pipelines against them. State is in-memory only; nothing survives a
// process restart.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	extractor Extractor
	builder   *IndexBuilder
	mediator  *QueryMediator
	sink      TraceSink
	timeout   time.Duration
}

func NewSessionManager(extractor Extractor, builder *IndexBuilder, mediator *QueryMediator, sink TraceSink, timeout time.Duration) *SessionManager {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SessionManager{
		sessions:  make(map[string]*Session),
		extractor: extractor,
		builder:   builder,
		mediator:  mediator,
		sink:      sink,
		timeout:   timeout,
	}
}

// CreateSession registers a new session. The advanced toggle only picks
// the default model; showLog controls the visible activity trail.
func (m *SessionManager) CreateSession(advanced, showLog bool) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:      id,
		ModelID: DefaultModel(advanced),
		turns:   []ChatTurn{{Role: RoleAssistant, Content: WelcomeMessage}},
		trail:   NewLogTrail(id, showLog, m.sink),
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// GetSession looks up a live session by id.
func (m *SessionManager) GetSession(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// EnsureIndex installs a retrieval index for the given upload batch. If
// an index already exists and the file identity set is unchanged, it is
// reused without re-extraction or re-embedding. Otherwise the old index
// is invalidated and the extract-filter-build pipeline runs end to end;
// on any failure the index stays absent. All temp files created along the
// way are gone by the time this returns, on every exit path.
func (m *SessionManager) EnsureIndex(ctx context.Context, s *Session, files []UploadedFile) (IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]FileIdentity, len(files))
	for i, f := range files {
		ids[i] = f.Identity()
	}

	if s.index != nil && IdentitySetEqual(ids, s.files) {
		s.trail.Add(SeverityInfo, "Reusing existing Vectorstore")
		return IngestResult{Status: IngestReused, Notice: "Reusing existing Vectorstore"}, nil
	}

	// The file set changed: the old index is stale the moment we get
	// here, before any extraction work starts.
	s.index = nil
	s.files = ids

	if len(files) == 0 {
		s.trail.Add(SeverityError, "No PDFs attached")
		return IngestResult{Status: IngestFailed, Notice: "Attach a PDF to start chatting"}, &BuildError{Cause: ErrEmptyInput}
	}

	s.trail.Add(SeverityInfo, "Processing PDFs..")

	results := make([]FileResult, 0, len(files))
	for _, f := range files {
		pages, extractErr := m.extractor.Extract(f)
		results = append(results, FileResult{Name: f.Name, Pages: pages, Err: extractErr})
		if extractErr != nil {
			s.trail.Add(SeverityError, fmt.Sprintf("Error loading pages from %s", f.Name))
		}
	}

	outcome := FilterBatch(results)
	for _, res := range results {
		if res.Err == nil && !skippedContains(outcome.Skipped, res.Name) {
			s.trail.Add(SeveritySuccess, fmt.Sprintf("Successfully processed %s", res.Name))
		} else if res.Err == nil {
			s.trail.Add(SeverityError, fmt.Sprintf("No text content found in %s", res.Name))
		}
	}

	if outcome.AllFailed {
		s.trail.Add(SeverityError, "No valid PDFs could be processed")
		return IngestResult{
			Status: IngestFailed,
			Notice: "Please upload PDFs with readable text content.",
		}, &BuildError{Cause: ErrNoUsableText}
	}

	s.trail.Add(SeverityInfo, "Creating Vectorstore..")

	buildCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	index, buildErr := m.builder.Build(buildCtx, outcome.UsablePages)
	if buildErr != nil {
		s.trail.Add(SeverityError, fmt.Sprintf("Error: Unable to create vectorstore - %v", buildErr.Cause))
		return IngestResult{
			Status: IngestFailed,
			Notice: "Error creating vectorstore. Try another PDF.",
		}, buildErr
	}

	s.index = index
	s.trail.Add(SeveritySuccess, "Created Vectorstore Successfully..")

	notice := "Vectorstore created successfully!"
	if len(outcome.Skipped) > 0 {
		notice = "Some PDFs were skipped. Only PDFs with readable text were included."
	}
	return IngestResult{Status: IngestBuilt, Notice: notice}, nil
}

// Ask runs one question through the query mediator and appends the
// user/assistant turn pair. The mediator fails soft, so the history grows
// by exactly two turns whether or not the provider cooperated.
func (m *SessionManager) Ask(ctx context.Context, s *Session, question, modelID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil {
		return "", ErrNoIndex
	}

	if modelID == "" {
		modelID = s.ModelID
	}
	if !ModelAllowed(modelID) {
		return "", fmt.Errorf("model %q is not in the allowed set", modelID)
	}

	s.turns = append(s.turns, ChatTurn{Role: RoleUser, Content: question})
	s.trail.Add(SeverityInfo, "Message Added to Chat History..")

	answer := m.mediator.Answer(ctx, question, s.index, modelID)
	s.turns = append(s.turns, ChatTurn{Role: RoleAssistant, Content: answer})
	if answer == FallbackAnswer {
		s.trail.Add(SeverityError, "Error querying the vectorstore")
	}
	return answer, nil
}

// ClearHistory resets the conversation to the single welcome turn.
func (m *SessionManager) ClearHistory(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = []ChatTurn{{Role: RoleAssistant, Content: WelcomeMessage}}
	s.trail.Add(SeveritySuccess, "Chat History Initialized.")
}

// DeleteIndex is the manual "rebuild" request: it unconditionally
// discards the current index so the next EnsureIndex call takes the
// rebuild branch.
func (m *SessionManager) DeleteIndex(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = nil
	s.files = nil
	s.trail.Add(SeverityInfo, "Vectorstore deleted")
}

// SetLogVisible flips the visible activity trail for a session.
func (m *SessionManager) SetLogVisible(s *Session, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trail.SetEnabled(visible)
}

// ResetLog reinitializes the activity trail.
func (m *SessionManager) ResetLog(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trail.Reset()
}

func skippedContains(skipped []string, name string) bool {
	for _, s := range skipped {
		if s == name {
			return true
		}
	}
	return false
}
