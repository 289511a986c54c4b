package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterBatch_AllGood(t *testing.T) {
	out := FilterBatch([]FileResult{
		{Name: "notes.pdf", Pages: []PageRecord{
			{SourceFile: "notes.pdf", Text: "chapter one"},
			{SourceFile: "notes.pdf", Text: "chapter two"},
		}},
	})

	assert.False(t, out.AllFailed)
	assert.Empty(t, out.Skipped)
	assert.Len(t, out.UsablePages, 2)
}

func TestFilterBatch_PartialSuccessIsSuccess(t *testing.T) {
	out := FilterBatch([]FileResult{
		{Name: "good.pdf", Pages: []PageRecord{{SourceFile: "good.pdf", Text: "some text"}}},
		{Name: "corrupt.pdf", Err: &ExtractError{File: "corrupt.pdf", Reason: errors.New("bad xref")}},
		{Name: "scan.pdf", Pages: []PageRecord{{SourceFile: "scan.pdf", Text: "   \n\t "}}},
	})

	assert.False(t, out.AllFailed, "one good PDF among bad ones still produces a usable batch")
	assert.ElementsMatch(t, []string{"corrupt.pdf", "scan.pdf"}, out.Skipped)
	require.Len(t, out.UsablePages, 1)
	assert.Equal(t, "good.pdf", out.UsablePages[0].SourceFile)
}

func TestFilterBatch_AllFailed(t *testing.T) {
	out := FilterBatch([]FileResult{
		{Name: "corrupt.pdf", Err: &ExtractError{File: "corrupt.pdf", Reason: errors.New("not a pdf")}},
		{Name: "scan.pdf", Pages: []PageRecord{{SourceFile: "scan.pdf", Text: ""}}},
	})

	assert.True(t, out.AllFailed)
	assert.Empty(t, out.UsablePages)
	assert.ElementsMatch(t, []string{"corrupt.pdf", "scan.pdf"}, out.Skipped)
}

func TestFilterBatch_DropsBlankPagesOfUsableFile(t *testing.T) {
	out := FilterBatch([]FileResult{
		{Name: "mixed.pdf", Pages: []PageRecord{
			{SourceFile: "mixed.pdf", Text: "real content"},
			{SourceFile: "mixed.pdf", Text: "  "},
		}},
	})

	require.Len(t, out.UsablePages, 1)
	assert.Equal(t, "real content", out.UsablePages[0].Text)
	assert.Empty(t, out.Skipped)
}

func TestFilterBatch_EmptyBatch(t *testing.T) {
	out := FilterBatch(nil)
	assert.True(t, out.AllFailed)
}
