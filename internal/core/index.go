package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/asknotes/asknotes/internal/utils"
)

// Chunk is one embeddable slice of page text stored in the index.
type Chunk struct {
	SourceFile string
	Content    string
	Embedding  []float32
}

// ScoredChunk is a retrieval hit with its cosine similarity to the query.
type ScoredChunk struct {
	Chunk      Chunk
	Similarity float32
}

// RetrievalIndex is the searchable store of (chunk, vector) pairs for one
// uploaded batch. It is immutable after construction; the session layer
// replaces it wholesale when the file set changes.
type RetrievalIndex struct {
	chunks []Chunk
}

// Len returns the number of indexed chunks.
func (idx *RetrievalIndex) Len() int {
	return len(idx.chunks)
}

// Search returns the topK chunks most similar to the query embedding,
// ordered by descending similarity.
func (idx *RetrievalIndex) Search(embedding []float32, topK int) []ScoredChunk {
	scored := make([]ScoredChunk, 0, len(idx.chunks))
	for _, chunk := range idx.chunks {
		similarity, err := utils.CosineSimilarity(embedding, chunk.Embedding)
		if err != nil {
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: chunk, Similarity: similarity})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// IndexBuilder chunks page text and embeds each chunk. Chunks are cut at
// word boundaries to chunkSize characters with chunkOverlap characters
// carried between neighbors.
type IndexBuilder struct {
	embedder     Embedder
	chunkSize    int
	chunkOverlap int
}

func NewIndexBuilder(embedder Embedder, chunkSize, chunkOverlap int) *IndexBuilder {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &IndexBuilder{
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Build constructs a RetrievalIndex from the filtered pages. It fails with
// ErrEmptyInput when there is nothing to index, and wraps any embedding
// failure in a BuildError rather than letting it propagate raw.
func (b *IndexBuilder) Build(ctx context.Context, pages []PageRecord) (*RetrievalIndex, *BuildError) {
	if len(pages) == 0 {
		return nil, &BuildError{Cause: ErrEmptyInput}
	}

	var chunks []Chunk
	for _, page := range pages {
		for _, content := range b.chunkText(page.Text) {
			chunks = append(chunks, Chunk{SourceFile: page.SourceFile, Content: content})
		}
	}
	if len(chunks) == 0 {
		return nil, &BuildError{Cause: ErrEmptyInput}
	}

	for i := range chunks {
		embedding, err := b.embedder.Embed(ctx, chunks[i].Content)
		if err != nil {
			return nil, &BuildError{Cause: fmt.Errorf("embedding chunk %d: %w", i, err)}
		}
		chunks[i].Embedding = embedding
	}

	return &RetrievalIndex{chunks: chunks}, nil
}

// chunkText splits text into overlapping word-boundary chunks.
func (b *IndexBuilder) chunkText(text string) []string {
	content := strings.TrimSpace(text)
	if content == "" {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(content) {
		end := start + b.chunkSize
		if end >= len(content) {
			chunk := strings.TrimSpace(content[start:])
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		// Prefer breaking at a word boundary.
		if lastSpace := strings.LastIndex(content[start:end], " "); lastSpace > 0 {
			end = start + lastSpace
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - b.chunkOverlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}
