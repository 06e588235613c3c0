package engine

import (
	"sort"

	"github.com/turtacn/textselect/internal/feature"
	"github.com/turtacn/textselect/pkg/types/span"
)

// Chunk produces the sorted candidate spans the selection network scores.
//
// With the unbounded sentinel window, every token of the context becomes a
// candidate (whitespace never reaches the token stream).  Otherwise the
// tokens covering clickSpan anchor the window: the chunker expands
// relativeClickSpan.Left tokens left and .Right tokens right, and proposes
// every span that starts on a token boundary inside the window, ends on one,
// and contains the click tokens.  Candidates are sorted by (First, Last) and
// duplicate-free.
//
// Chunk never fails: an empty context, a click on whitespace, or a click out
// of bounds all yield an empty sequence.
func (c *Container) Chunk(context string, clickSpan span.CodepointSpan, relativeClickSpan span.TokenSpan) []span.CodepointSpan {
	if !c.initialized {
		return nil
	}
	fc := c.selection.Processor.NewContext(context)
	return c.chunkWithContext(fc, clickSpan, relativeClickSpan)
}

// chunkWithContext is the allocation-sharing form used by the selection
// engine, which already tokenized the context.
func (c *Container) chunkWithContext(fc *feature.Context, clickSpan span.CodepointSpan, relativeClickSpan span.TokenSpan) []span.CodepointSpan {
	if len(fc.Tokens) == 0 {
		return nil
	}

	if relativeClickSpan.IsWholeContext() {
		candidates := make([]span.CodepointSpan, 0, len(fc.Tokens))
		for _, tok := range fc.Tokens {
			candidates = append(candidates, tok.Span)
		}
		c.metrics.ObserveCandidates(len(candidates))
		return candidates
	}

	first, last, ok := feature.TokensInRange(fc.Tokens, clickSpan)
	if !ok {
		c.metrics.ObserveCandidates(0)
		return nil
	}

	left := first - relativeClickSpan.Left
	if left < 0 {
		left = 0
	}
	right := last + relativeClickSpan.Right
	if right >= len(fc.Tokens) {
		right = len(fc.Tokens) - 1
	}

	var candidates []span.CodepointSpan
	for i := left; i <= first; i++ {
		for j := last; j <= right; j++ {
			candidates = append(candidates, span.CodepointSpan{
				First: fc.Tokens[i].Span.First,
				Last:  fc.Tokens[j].Span.Last,
			})
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].First != candidates[b].First {
			return candidates[a].First < candidates[b].First
		}
		return candidates[a].Last < candidates[b].Last
	})
	candidates = dedupSpans(candidates)
	c.metrics.ObserveCandidates(len(candidates))
	return candidates
}

func dedupSpans(spans []span.CodepointSpan) []span.CodepointSpan {
	out := spans[:0]
	for i, s := range spans {
		if i == 0 || s != spans[i-1] {
			out = append(out, s)
		}
	}
	return out
}
