// Package span defines the codepoint-indexed value types shared by every
// layer of the textselect engine: codepoint and token spans, classification
// results, and annotated spans.  All indices are Unicode codepoint offsets
// into a context string, never byte offsets.  The package is a leaf — it has
// no dependencies beyond the standard library — so both the public facade
// and the internal engine can share these types without import cycles.
package span

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// InvalidIndex is the sentinel codepoint/token index meaning "undefined".
const InvalidIndex = -1

// SentinelScore is the score attached to a selection result when the
// candidate set was empty and the engine fell back to echoing the click
// indices.  It compares lower than any real network score.
var SentinelScore = float32(math.Inf(-1))

// ─────────────────────────────────────────────────────────────────────────────
// CodepointSpan
// ─────────────────────────────────────────────────────────────────────────────

// CodepointSpan is a half-open range [First, Last) of codepoint indices into
// a context string.  A span is either well-formed (0 <= First <= Last) or the
// invalid sentinel {-1, -1}; no other shape is produced by the engine.
// CodepointSpan is an immutable value type.
type CodepointSpan struct {
	First int
	Last  int
}

// Invalid returns the sentinel span {-1, -1}.
func Invalid() CodepointSpan {
	return CodepointSpan{First: InvalidIndex, Last: InvalidIndex}
}

// IsSentinel reports whether the span is exactly the invalid sentinel.
func (s CodepointSpan) IsSentinel() bool {
	return s.First == InvalidIndex && s.Last == InvalidIndex
}

// IsValid reports whether the span is a well-formed, non-empty range within
// a context of ctxLen codepoints.
func (s CodepointSpan) IsValid(ctxLen int) bool {
	return s.First >= 0 && s.Last <= ctxLen && s.First < s.Last
}

// Length returns the number of codepoints covered by the span, or 0 for the
// sentinel and inverted spans.
func (s CodepointSpan) Length() int {
	if s.Last <= s.First {
		return 0
	}
	return s.Last - s.First
}

// Contains reports whether other lies fully inside s.
func (s CodepointSpan) Contains(other CodepointSpan) bool {
	return s.First <= other.First && other.Last <= s.Last
}

// Intersect returns the overlap of s and other, or the sentinel when the
// two spans do not overlap.
func (s CodepointSpan) Intersect(other CodepointSpan) CodepointSpan {
	first := s.First
	if other.First > first {
		first = other.First
	}
	last := s.Last
	if other.Last < last {
		last = other.Last
	}
	if first >= last {
		return Invalid()
	}
	return CodepointSpan{First: first, Last: last}
}

func (s CodepointSpan) String() string {
	return fmt.Sprintf("(%d, %d)", s.First, s.Last)
}

// ─────────────────────────────────────────────────────────────────────────────
// TokenSpan
// ─────────────────────────────────────────────────────────────────────────────

// TokenSpan is a relative window expressed in token units: Left tokens before
// and Right tokens after an anchor token.  The sentinel {-1, -1} means
// "unbounded — consider the whole context".
type TokenSpan struct {
	Left  int
	Right int
}

// WholeContext returns the unbounded token-span sentinel.
func WholeContext() TokenSpan {
	return TokenSpan{Left: InvalidIndex, Right: InvalidIndex}
}

// IsWholeContext reports whether the window is the unbounded sentinel.
func (t TokenSpan) IsWholeContext() bool {
	return t.Left == InvalidIndex && t.Right == InvalidIndex
}

// ─────────────────────────────────────────────────────────────────────────────
// Classification results
// ─────────────────────────────────────────────────────────────────────────────

// Collection names emitted by the engine's hint overrides.  Model-emitted
// class names come from the sharing sub-model's label table and may extend
// this set.
const (
	CollectionURL   = "url"
	CollectionEmail = "email"
	CollectionPhone = "phone"
	CollectionOther = "other"
)

// ClassScore is a single (collection, score) classification entry.
type ClassScore struct {
	Collection string  `json:"collection"`
	Score      float32 `json:"score"`
}

// ClassificationResult is an ordered label list, sorted by descending score.
// A nil or empty result means "no answer".
type ClassificationResult []ClassScore

// Best returns the top-ranked entry and true, or a zero entry and false for
// an empty result.
func (r ClassificationResult) Best() (ClassScore, bool) {
	if len(r) == 0 {
		return ClassScore{}, false
	}
	return r[0], true
}

// ─────────────────────────────────────────────────────────────────────────────
// AnnotatedSpan
// ─────────────────────────────────────────────────────────────────────────────

// AnnotatedSpan pairs a codepoint span with its classification.  Sequences of
// AnnotatedSpans produced by Annotate are sorted by Span.First and contain no
// whitespace-only regions.
type AnnotatedSpan struct {
	Span           CodepointSpan        `json:"span"`
	Classification ClassificationResult `json:"classification"`
}

// String renders the span in the engine's debug form:
// Span(first, last, best_collection, best_score).
func (a AnnotatedSpan) String() string {
	best, ok := a.Classification.Best()
	if !ok {
		return fmt.Sprintf("Span(%d, %d, , -1)", a.Span.First, a.Span.Last)
	}
	return fmt.Sprintf("Span(%d, %d, %s, %g)", a.Span.First, a.Span.Last, best.Collection, best.Score)
}

// ─────────────────────────────────────────────────────────────────────────────
// Input flags
// ─────────────────────────────────────────────────────────────────────────────

// InputFlags are caller-supplied classification hints.  When external context
// already constrains the answer (e.g. the span came from a URL field) the
// engine short-circuits to the hinted collection without inference.
type InputFlags uint32

const (
	// InputFlagURL marks the selection as a known URL.
	InputFlagURL InputFlags = 0x1
	// InputFlagEmail marks the selection as a known email address.
	InputFlagEmail InputFlags = 0x2
)

// ─────────────────────────────────────────────────────────────────────────────
// Codepoint arithmetic helpers
// ─────────────────────────────────────────────────────────────────────────────

// CodepointLength returns the number of Unicode codepoints in s.
func CodepointLength(s string) int {
	return utf8.RuneCountInString(s)
}

// ByteRange converts a codepoint span into the corresponding byte range in
// context.  The span must be well-formed for context; out-of-range spans are
// clamped to the string bounds.
func ByteRange(context string, s CodepointSpan) (int, int) {
	if s.First < 0 || s.Last <= s.First {
		return 0, 0
	}
	byteFirst := -1
	byteLast := len(context)
	cp := 0
	for i := range context {
		if cp == s.First {
			byteFirst = i
		}
		if cp == s.Last {
			byteLast = i
			break
		}
		cp++
	}
	if byteFirst < 0 {
		return 0, 0
	}
	return byteFirst, byteLast
}

// Substring extracts the text covered by a codepoint span.
func Substring(context string, s CodepointSpan) string {
	first, last := ByteRange(context, s)
	return context[first:last]
}
