package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/textselect/internal/model"
	"github.com/turtacn/textselect/pkg/types/span"
)

func tokenValues(tokens []Token) []string {
	vals := make([]string, len(tokens))
	for i, tok := range tokens {
		vals[i] = tok.Value
	}
	return vals
}

func TestTokenizeWordsAndPunctuation(t *testing.T) {
	p := NewProcessor(model.FeatureProcessorOptions{})

	tokens := p.Tokenize("call me, maybe?")
	assert.Equal(t, []string{"call", "me", ",", "maybe", "?"}, tokenValues(tokens))

	// Each token carries its codepoint span in the original context.
	assert.Equal(t, span.CodepointSpan{First: 0, Last: 4}, tokens[0].Span)
	assert.Equal(t, span.CodepointSpan{First: 5, Last: 7}, tokens[1].Span)
	assert.Equal(t, span.CodepointSpan{First: 7, Last: 8}, tokens[2].Span)
	assert.Equal(t, span.CodepointSpan{First: 9, Last: 14}, tokens[3].Span)
	assert.Equal(t, span.CodepointSpan{First: 14, Last: 15}, tokens[4].Span)
}

func TestTokenizeWhitespaceOnlySeparates(t *testing.T) {
	p := NewProcessor(model.FeatureProcessorOptions{})

	assert.Empty(t, p.Tokenize(""))
	assert.Empty(t, p.Tokenize("   \t\n  "))

	tokens := p.Tokenize("  a \t b  ")
	assert.Equal(t, []string{"a", "b"}, tokenValues(tokens))
	assert.Equal(t, span.CodepointSpan{First: 2, Last: 3}, tokens[0].Span)
	assert.Equal(t, span.CodepointSpan{First: 6, Last: 7}, tokens[1].Span)
}

func TestTokenizeMultibyteSpansAreCodepoints(t *testing.T) {
	p := NewProcessor(model.FeatureProcessorOptions{})

	// "打电话 650 给我" — spans count codepoints, not bytes.
	tokens := p.Tokenize("打电话 650 给我")
	require.Equal(t, []string{"打电话", "650", "给我"}, tokenValues(tokens))
	assert.Equal(t, span.CodepointSpan{First: 0, Last: 3}, tokens[0].Span)
	assert.Equal(t, span.CodepointSpan{First: 4, Last: 7}, tokens[1].Span)
	assert.Equal(t, span.CodepointSpan{First: 8, Last: 10}, tokens[2].Span)
}

func TestTokenizeSymbolsArePunctuation(t *testing.T) {
	p := NewProcessor(model.FeatureProcessorOptions{})

	tokens := p.Tokenize("a+b=c")
	assert.Equal(t, []string{"a", "+", "b", "=", "c"}, tokenValues(tokens))

	tokens = p.Tokenize("john@example.com")
	assert.Equal(t, []string{"john", "@", "example", ".", "com"}, tokenValues(tokens))
}

func TestTokenizeMaxTokensCap(t *testing.T) {
	p := NewProcessor(model.FeatureProcessorOptions{MaxTokens: 3})

	tokens := p.Tokenize("one two three four five")
	assert.Equal(t, []string{"one", "two", "three"}, tokenValues(tokens))

	// Zero means unlimited.
	p = NewProcessor(model.FeatureProcessorOptions{})
	assert.Len(t, p.Tokenize("one two three four five"), 5)
}

func TestTokensInRange(t *testing.T) {
	p := NewProcessor(model.FeatureProcessorOptions{})
	tokens := p.Tokenize("call me at 650 now")
	// Spans: call={0,4} me={5,7} at={8,10} 650={11,14} now={15,18}

	first, last, ok := TokensInRange(tokens, span.CodepointSpan{First: 5, Last: 10})
	require.True(t, ok)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, last)

	// Partial overlap counts.
	first, last, ok = TokensInRange(tokens, span.CodepointSpan{First: 3, Last: 6})
	require.True(t, ok)
	assert.Equal(t, 0, first)
	assert.Equal(t, 1, last)

	// Whitespace-only span overlaps nothing.
	_, _, ok = TokensInRange(tokens, span.CodepointSpan{First: 4, Last: 5})
	assert.False(t, ok)

	_, _, ok = TokensInRange(nil, span.CodepointSpan{First: 0, Last: 1})
	assert.False(t, ok)
}

func TestDefaultClickWindow(t *testing.T) {
	p := NewProcessor(model.FeatureProcessorOptions{ClickWindowLeft: 4, ClickWindowRight: 2})
	assert.Equal(t, span.TokenSpan{Left: 4, Right: 2}, p.DefaultClickWindow())
}
