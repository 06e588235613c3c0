package engine

import (
	"slices"
	"sort"
	"time"

	"github.com/turtacn/textselect/internal/monitoring/logging"
	"github.com/turtacn/textselect/pkg/types/span"
)

// ClassifyText produces the ranked label list for the selected span.
//
// Result paths, in strict precedence order:
//  1. Input-flag hints (IS_URL, IS_EMAIL) short-circuit to a single-entry
//     result with score 1.0 — no regex, no network.
//  2. The sharing model's regex overrides, evaluated in declaration order;
//     the first full match wins with score 1.0.
//  3. The sharing network: softmax scores over the label table, sorted
//     descending, score ties kept in label declaration order.
//
// A not-initialized container or invalid span yields an empty result.
// ClassifyText never fails.
func (c *Container) ClassifyText(context string, clickIndices span.CodepointSpan, flags span.InputFlags) span.ClassificationResult {
	start := time.Now()
	ctxLen := span.CodepointLength(context)

	if !c.initialized || clickIndices.IsSentinel() || !clickIndices.IsValid(ctxLen) {
		c.metrics.ObserveInference("classify_text", "empty", time.Since(start))
		return nil
	}

	if flags&span.InputFlagURL != 0 {
		c.metrics.ObserveInference("classify_text", "hint", time.Since(start))
		return span.ClassificationResult{{Collection: span.CollectionURL, Score: 1.0}}
	}
	if flags&span.InputFlagEmail != 0 {
		c.metrics.ObserveInference("classify_text", "hint", time.Since(start))
		return span.ClassificationResult{{Collection: span.CollectionEmail, Score: 1.0}}
	}

	key := classifyKey{context: context, first: clickIndices.First, last: clickIndices.Last, flags: flags}
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			c.metrics.ObserveCache(true)
			c.metrics.ObserveInference("classify_text", "cache", time.Since(start))
			// Callers own their result; the cached slice stays private.
			return slices.Clone(cached)
		}
		c.metrics.ObserveCache(false)
	}

	result, path := c.classifyUncached(context, clickIndices)
	if c.cache != nil {
		c.cache.Add(key, slices.Clone(result))
	}
	c.metrics.ObserveInference("classify_text", path, time.Since(start))
	return result
}

func (c *Container) classifyUncached(context string, clickIndices span.CodepointSpan) (span.ClassificationResult, string) {
	selected := span.Substring(context, clickIndices)

	for _, pattern := range c.regexes {
		text := selected
		if pattern.matchWholeContext {
			text = context
		}
		if pattern.re.MatchString(text) {
			c.log.Debug("regex hint matched",
				logging.String("collection", pattern.collection),
				logging.String("span", clickIndices.String()))
			return span.ClassificationResult{{Collection: pattern.collection, Score: 1.0}}, "regex"
		}
	}

	fc := c.sharing.Processor.NewContext(context)
	vec := c.sharing.Processor.ExtractFeatures(fc, clickIndices, clickIndices)
	scores := c.sharing.Network.Forward(vec)
	if len(scores) != len(c.sharing.Options.Collections) {
		return nil, "empty"
	}

	result := make(span.ClassificationResult, len(scores))
	for i, label := range c.sharing.Options.Collections {
		result[i] = span.ClassScore{Collection: label, Score: scores[i]}
	}
	// Stable sort keeps score ties in label declaration order.
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].Score > result[b].Score
	})
	return result, "model"
}
