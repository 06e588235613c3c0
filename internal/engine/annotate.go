package engine

import (
	"sort"
	"time"

	"github.com/turtacn/textselect/internal/feature"
	"github.com/turtacn/textselect/pkg/types/span"
)

// Annotate segments the whole context and classifies each segment.
//
// The context is first split into maximal non-whitespace runs.  Each run is
// tiled by the selection engine: the run's midpoint anchors a selection
// suggestion clamped to the run, and the uncovered remainders on either side
// are processed the same way until the run is fully covered.  Tiling keeps
// the output non-overlapping and makes its union cover every non-whitespace
// codepoint.  Each tile is then classified with no input flags; tiles whose
// classification comes back empty are dropped.
//
// The result is sorted by Span.First.  A not-initialized container returns
// an empty sequence.  Annotate never fails.
func (c *Container) Annotate(context string) []span.AnnotatedSpan {
	start := time.Now()
	if !c.initialized {
		c.metrics.ObserveInference("annotate", "empty", time.Since(start))
		return nil
	}

	fc := c.selection.Processor.NewContext(context)

	var annotations []span.AnnotatedSpan
	for _, run := range fc.Runs {
		for _, tile := range c.tileRun(fc, run) {
			classification := c.ClassifyText(context, tile, 0)
			if len(classification) == 0 {
				continue
			}
			annotations = append(annotations, span.AnnotatedSpan{
				Span:           tile,
				Classification: classification,
			})
		}
	}

	sort.Slice(annotations, func(a, b int) bool {
		return annotations[a].Span.First < annotations[b].Span.First
	})

	c.metrics.ObserveAnnotations(len(annotations))
	c.metrics.ObserveInference("annotate", "model", time.Since(start))
	return annotations
}

// tileRun covers one non-whitespace run with refined, non-overlapping spans.
// Work proceeds on a stack of uncovered sub-ranges; each is refined via the
// midpoint-anchored selection engine and its remainders re-queued.  Every
// refined span is strictly inside its sub-range, so the loop terminates
// after at most run.Length() iterations.
func (c *Container) tileRun(fc *feature.Context, run span.CodepointSpan) []span.CodepointSpan {
	var tiles []span.CodepointSpan
	pending := []span.CodepointSpan{run}

	for len(pending) > 0 {
		r := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if r.Length() == 0 {
			continue
		}

		refined := c.refineWithinRange(fc, r)
		tiles = append(tiles, refined)

		if left := (span.CodepointSpan{First: r.First, Last: refined.First}); left.Length() > 0 {
			pending = append(pending, left)
		}
		if right := (span.CodepointSpan{First: refined.Last, Last: r.Last}); right.Length() > 0 {
			pending = append(pending, right)
		}
	}

	sort.Slice(tiles, func(a, b int) bool { return tiles[a].First < tiles[b].First })
	return tiles
}

// refineWithinRange runs the selection engine anchored at the midpoint of r
// and clamps the suggestion to r.  Degradations (no candidates, suggestion
// outside r, inverted clamp) fall back to r itself, which always terminates
// the tiling of that sub-range.
func (c *Container) refineWithinRange(fc *feature.Context, r span.CodepointSpan) span.CodepointSpan {
	mid := r.First + r.Length()/2
	click := span.CodepointSpan{First: mid, Last: mid + 1}

	best := c.suggestSelectionInternal(fc, click)
	if best.score == span.SentinelScore {
		return r
	}

	refined := best.span.Intersect(r)
	if refined.IsSentinel() {
		return r
	}
	return refined
}
