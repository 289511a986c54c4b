package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_ShortTextIsOneChunk(t *testing.T) {
	b := NewIndexBuilder(&fakeEmbedder{}, 100, 10)
	chunks := b.chunkText("a short page")
	assert.Equal(t, []string{"a short page"}, chunks)
}

func TestChunkText_EmptyAndWhitespace(t *testing.T) {
	b := NewIndexBuilder(&fakeEmbedder{}, 100, 10)
	assert.Nil(t, b.chunkText(""))
	assert.Nil(t, b.chunkText("   \n\t  "))
}

func TestChunkText_OverlapAndBoundaries(t *testing.T) {
	b := NewIndexBuilder(&fakeEmbedder{}, 20, 5)
	text := strings.Repeat("word ", 20) // 100 chars
	chunks := b.chunkText(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 20)
		assert.Equal(t, chunk, strings.TrimSpace(chunk))
		// Word-boundary cuts never split a word.
		for _, w := range strings.Fields(chunk) {
			assert.Equal(t, "word", w)
		}
	}
}

func TestChunkText_CoversWholeText(t *testing.T) {
	b := NewIndexBuilder(&fakeEmbedder{}, 30, 5)
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"
	chunks := b.chunkText(text)

	joined := strings.Join(chunks, " ")
	for _, w := range strings.Fields(text) {
		assert.Contains(t, joined, w)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	b := NewIndexBuilder(&fakeEmbedder{}, 100, 10)

	idx, err := b.Build(context.Background(), nil)
	assert.Nil(t, idx)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuild_WhitespaceOnlyPages(t *testing.T) {
	b := NewIndexBuilder(&fakeEmbedder{}, 100, 10)

	idx, err := b.Build(context.Background(), []PageRecord{{SourceFile: "a.pdf", Text: "   "}})
	assert.Nil(t, idx)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestBuild_EmbeddingFailureIsBuildError(t *testing.T) {
	embedder := &fakeEmbedder{fail: true}
	b := NewIndexBuilder(embedder, 100, 10)

	idx, err := b.Build(context.Background(), []PageRecord{{SourceFile: "a.pdf", Text: "content"}})
	assert.Nil(t, idx)
	require.NotNil(t, err)
	assert.NotErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "embedding")
}

func TestBuild_IndexesEveryChunk(t *testing.T) {
	embedder := &fakeEmbedder{}
	b := NewIndexBuilder(embedder, 100, 10)

	idx, err := b.Build(context.Background(), []PageRecord{
		{SourceFile: "a.pdf", Text: "first page"},
		{SourceFile: "b.pdf", Text: "second page"},
	})
	require.Nil(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 2, embedder.calls)
}

func TestSearch_OrdersBySimilarityAndCapsAtTopK(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"north": {1, 0, 0, 0},
		"east":  {0, 1, 0, 0},
		"tilt":  {1, 0.2, 0, 0},
		"query": {1, 0.1, 0, 0},
	}}
	b := NewIndexBuilder(embedder, 100, 10)

	idx, buildErr := b.Build(context.Background(), []PageRecord{
		{SourceFile: "a.pdf", Text: "north"},
		{SourceFile: "a.pdf", Text: "east"},
		{SourceFile: "b.pdf", Text: "tilt"},
	})
	require.Nil(t, buildErr)

	queryVec, err := embedder.Embed(context.Background(), "query")
	require.NoError(t, err)

	hits := idx.Search(queryVec, 2)
	require.Len(t, hits, 2)
	assert.Equal(t, "tilt", hits[0].Chunk.Content)
	assert.Equal(t, "north", hits[1].Chunk.Content)
	assert.GreaterOrEqual(t, hits[0].Similarity, hits[1].Similarity)
}

func TestSearch_TopKLargerThanIndex(t *testing.T) {
	embedder := &fakeEmbedder{}
	b := NewIndexBuilder(embedder, 100, 10)

	idx, buildErr := b.Build(context.Background(), []PageRecord{{SourceFile: "a.pdf", Text: "only chunk"}})
	require.Nil(t, buildErr)

	hits := idx.Search([]float32{1, 1, 1, 1}, 10)
	assert.Len(t, hits, 1)
}

func TestBuildError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &BuildError{Cause: cause}
	assert.ErrorIs(t, err, cause)
}
