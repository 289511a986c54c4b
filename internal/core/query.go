package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// FallbackAnswer is appended as the assistant's turn when retrieval or
// generation fails, so the conversation stays well-formed.
const FallbackAnswer = "There was an error processing your query."

// QueryMediator answers one question against a built index. It fails
// soft: every failure path yields FallbackAnswer, never an error that
// crosses this boundary.
type QueryMediator struct {
	embedder Embedder
	gen      Generator
	topK     int
	timeout  time.Duration
}

func NewQueryMediator(embedder Embedder, gen Generator, topK int, timeout time.Duration) *QueryMediator {
	if topK <= 0 {
		topK = 4
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &QueryMediator{
		embedder: embedder,
		gen:      gen,
		topK:     topK,
		timeout:  timeout,
	}
}

// Answer embeds the question, retrieves the most relevant chunks and asks
// the selected model. No retry is performed; one failed call reports once
// through the fallback string.
func (m *QueryMediator) Answer(ctx context.Context, question string, index *RetrievalIndex, modelID string) string {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	queryEmbedding, err := m.embedder.Embed(ctx, question)
	if err != nil {
		log.Printf("Failed to embed question: %v", err)
		return FallbackAnswer
	}

	hits := index.Search(queryEmbedding, m.topK)
	prompt := composePrompt(question, hits)

	answer, err := m.gen.Generate(ctx, modelID, prompt)
	if err != nil {
		log.Printf("Generation failed for model %s: %v", modelID, err)
		return FallbackAnswer
	}
	return answer
}

// composePrompt builds the grounded prompt: a fixed role-framing
// instruction, the retrieved source material, then the verbatim question.
func composePrompt(question string, hits []ScoredChunk) string {
	var sb strings.Builder
	sb.WriteString("Answer the student's question using the source material below, citing the file each fact came from.\n\n")
	sb.WriteString("--- SOURCE MATERIAL START ---\n")
	for _, hit := range hits {
		sb.WriteString(fmt.Sprintf("[Source: %s]\n%s\n\n", hit.Chunk.SourceFile, hit.Chunk.Content))
	}
	sb.WriteString("--- SOURCE MATERIAL END ---\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(question)
	return sb.String()
}
