package engine

import (
	"time"

	"github.com/turtacn/textselect/internal/feature"
	"github.com/turtacn/textselect/internal/monitoring/logging"
	"github.com/turtacn/textselect/pkg/types/span"
)

// scoredSpan is one selection-engine result: a span with its network score.
type scoredSpan struct {
	span  span.CodepointSpan
	score float32
}

// SuggestSelection suggests the boundaries of the word or phrase the user
// likely intends to select around clickIndices.  The result is symmetrized
// (stable under re-anchoring) and bracket-stripped.  On a not-initialized
// container, a sentinel click span, or click indices out of bounds for
// context, the click indices are echoed unchanged — the documented "no
// suggestion" value.  SuggestSelection never fails.
func (c *Container) SuggestSelection(context string, clickIndices span.CodepointSpan) span.CodepointSpan {
	start := time.Now()
	ctxLen := span.CodepointLength(context)

	if !c.initialized || clickIndices.IsSentinel() || !clickIndices.IsValid(ctxLen) {
		c.metrics.ObserveInference("suggest_selection", "echo", time.Since(start))
		return clickIndices
	}

	result := c.suggestSelectionSymmetrical(context, clickIndices)
	result = span.StripUnpairedBrackets(context, result)
	if !result.IsValid(ctxLen) {
		c.metrics.ObserveInference("suggest_selection", "echo", time.Since(start))
		return clickIndices
	}

	c.metrics.ObserveInference("suggest_selection", "model", time.Since(start))
	c.log.Debug("selection suggested",
		logging.String("click", clickIndices.String()),
		logging.String("result", result.String()))
	return result
}

// suggestSelectionSymmetrical re-anchors the first suggestion at both of its
// edges and re-scores, verifying that the suggestion is stable under
// re-anchoring.  When the runs disagree the tie-break is fixed: highest
// score wins, exact score ties go to the wider span, remaining ties to the
// smaller First.  The winning span is returned; when every run degraded to
// the sentinel score the original click indices come back unchanged.
func (c *Container) suggestSelectionSymmetrical(context string, clickIndices span.CodepointSpan) span.CodepointSpan {
	fc := c.selection.Processor.NewContext(context)

	first := c.suggestSelectionInternal(fc, clickIndices)
	if first.score == span.SentinelScore {
		return clickIndices
	}

	anchors := []span.CodepointSpan{
		{First: first.span.First, Last: first.span.First + 1},
		{First: first.span.Last - 1, Last: first.span.Last},
	}
	best := first
	for _, anchor := range anchors {
		rerun := c.suggestSelectionInternal(fc, anchor)
		if rerun.score == span.SentinelScore {
			continue
		}
		if betterScored(rerun, best) {
			best = rerun
		}
	}
	return best.span
}

// betterScored implements the documented tie-break: score, then width, then
// position.
func betterScored(a, b scoredSpan) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.span.Length() != b.span.Length() {
		return a.span.Length() > b.span.Length()
	}
	return a.span.First < b.span.First
}

// suggestSelectionInternal chunks around the click with the model's default
// token window, scores every candidate with the selection network, and
// returns the best candidate.  An empty candidate set returns the click
// indices with the sentinel score.
func (c *Container) suggestSelectionInternal(fc *feature.Context, clickIndices span.CodepointSpan) scoredSpan {
	candidates := c.chunkWithContext(fc, clickIndices, c.selection.Processor.DefaultClickWindow())
	if len(candidates) == 0 {
		return scoredSpan{span: clickIndices, score: span.SentinelScore}
	}

	best := scoredSpan{span: clickIndices, score: span.SentinelScore}
	for _, candidate := range candidates {
		vec := c.selection.Processor.ExtractFeatures(fc, candidate, clickIndices)
		score, ok := c.selection.Network.Score(vec)
		if !ok {
			continue
		}
		scored := scoredSpan{span: candidate, score: score}
		if best.score == span.SentinelScore || betterScored(scored, best) {
			best = scored
		}
	}
	return best
}
