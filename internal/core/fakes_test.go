package core

import (
	"context"
	"errors"
	"strings"
)

// fakeEmbedder returns a deterministic vector per text. Explicit vectors
// can be pinned for similarity-ordering tests; everything else gets a
// byte-bag vector. Call counts back the no-re-embedding assertions.
type fakeEmbedder struct {
	calls   int
	fail    bool
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("embedding quota exceeded")
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	v := make([]float32, 4)
	for i, b := range []byte(text) {
		v[i%4] += float32(b)
	}
	return v, nil
}

type fakeGenerator struct {
	calls      int
	fail       bool
	answer     string
	lastModel  string
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, modelID, prompt string) (string, error) {
	f.calls++
	f.lastModel = modelID
	f.lastPrompt = prompt
	if f.fail {
		return "", errors.New("generation backend unavailable")
	}
	if f.answer == "" {
		return "a generated answer", nil
	}
	return f.answer, nil
}

// fakeExtractor maps filenames to canned page texts. A file whose data
// starts with "corrupt" fails extraction; page texts are the newline-split
// segments of the upload body.
type fakeExtractor struct {
	calls int
}

func (f *fakeExtractor) Extract(file UploadedFile) ([]PageRecord, *ExtractError) {
	f.calls++
	body := string(file.Data)
	if strings.HasPrefix(body, "corrupt") {
		return nil, &ExtractError{File: file.Name, Reason: errors.New("malformed pdf")}
	}
	var pages []PageRecord
	for _, text := range strings.Split(body, "\n") {
		pages = append(pages, PageRecord{SourceFile: file.Name, Text: text})
	}
	return pages, nil
}

type recordingSink struct {
	entries []LogEntry
}

func (r *recordingSink) Trace(_ string, entry LogEntry) {
	r.entries = append(r.entries, entry)
}

// newTestManager wires a SessionManager from fakes with small chunks and
// the default top-k.
func newTestManager(extractor *fakeExtractor, embedder *fakeEmbedder, gen *fakeGenerator, sink TraceSink) *SessionManager {
	builder := NewIndexBuilder(embedder, 200, 20)
	mediator := NewQueryMediator(embedder, gen, 4, 0)
	return NewSessionManager(extractor, builder, mediator, sink, 0)
}
