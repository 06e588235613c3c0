package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/textselect/pkg/types/span"
)

func TestChunkWholeContextWindow(t *testing.T) {
	ct := newTestContainer(t)

	got := ct.Chunk("aa bb cc", span.Invalid(), span.WholeContext())
	want := []span.CodepointSpan{
		{First: 0, Last: 2},
		{First: 3, Last: 5},
		{First: 6, Last: 8},
	}
	assert.Equal(t, want, got)
}

func TestChunkAroundClick(t *testing.T) {
	ct := newTestContainer(t)

	// Narrow window keeps the expected candidate set small.
	got := ct.Chunk("aa bb cc", span.CodepointSpan{First: 3, Last: 5}, span.TokenSpan{Left: 1, Right: 1})
	want := []span.CodepointSpan{
		{First: 0, Last: 5},
		{First: 0, Last: 8},
		{First: 3, Last: 5},
		{First: 3, Last: 8},
	}
	assert.Equal(t, want, got)
}

func TestChunkWindowClampedAtEdges(t *testing.T) {
	ct := newTestContainer(t)

	got := ct.Chunk("aa bb", span.CodepointSpan{First: 0, Last: 2}, span.TokenSpan{Left: 5, Right: 5})
	want := []span.CodepointSpan{
		{First: 0, Last: 2},
		{First: 0, Last: 5},
	}
	assert.Equal(t, want, got)
}

func TestChunkCandidatesContainClick(t *testing.T) {
	ct := newTestContainer(t)

	const context = "one two three four five"
	click := span.CodepointSpan{First: 8, Last: 13} // "three"
	for _, cand := range ct.Chunk(context, click, span.TokenSpan{Left: 2, Right: 2}) {
		assert.True(t, cand.First <= click.First && click.Last <= cand.Last,
			"candidate %v does not contain the click %v", cand, click)
	}
}

func TestChunkDegenerateInputs(t *testing.T) {
	ct := newTestContainer(t)
	window := span.TokenSpan{Left: 1, Right: 1}

	assert.Empty(t, ct.Chunk("", span.CodepointSpan{First: 0, Last: 1}, window))
	assert.Empty(t, ct.Chunk("aa bb", span.CodepointSpan{First: 2, Last: 3}, window), "whitespace click")
	assert.Empty(t, ct.Chunk("aa bb", span.CodepointSpan{First: 40, Last: 41}, window))
}

func TestChunkNotInitialized(t *testing.T) {
	ct := NewFromBuffer(nil)
	t.Cleanup(ct.Close)
	assert.Empty(t, ct.Chunk("aa bb", span.CodepointSpan{First: 0, Last: 1}, span.TokenSpan{Left: 1, Right: 1}))
}

func TestChunkPunctuationTokens(t *testing.T) {
	ct := newTestContainer(t)

	// "a@b" tokenizes into three tokens, so candidates can include or
	// exclude the separator.
	got := ct.Chunk("a@b", span.CodepointSpan{First: 0, Last: 1}, span.TokenSpan{Left: 0, Right: 2})
	want := []span.CodepointSpan{
		{First: 0, Last: 1},
		{First: 0, Last: 2},
		{First: 0, Last: 3},
	}
	require.Equal(t, want, got)
}
