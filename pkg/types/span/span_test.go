package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodepointSpanValidity(t *testing.T) {
	cases := []struct {
		name   string
		s      CodepointSpan
		ctxLen int
		valid  bool
	}{
		{"well-formed", CodepointSpan{First: 0, Last: 3}, 5, true},
		{"full context", CodepointSpan{First: 0, Last: 5}, 5, true},
		{"empty", CodepointSpan{First: 2, Last: 2}, 5, false},
		{"inverted", CodepointSpan{First: 3, Last: 1}, 5, false},
		{"past end", CodepointSpan{First: 0, Last: 6}, 5, false},
		{"negative", CodepointSpan{First: -1, Last: 2}, 5, false},
		{"sentinel", Invalid(), 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.s.IsValid(tc.ctxLen))
		})
	}
}

func TestSentinel(t *testing.T) {
	assert.True(t, Invalid().IsSentinel())
	assert.False(t, CodepointSpan{First: 0, Last: 1}.IsSentinel())
	assert.Equal(t, 0, Invalid().Length())
}

func TestIntersect(t *testing.T) {
	a := CodepointSpan{First: 2, Last: 8}

	assert.Equal(t, CodepointSpan{First: 4, Last: 8}, a.Intersect(CodepointSpan{First: 4, Last: 10}))
	assert.Equal(t, CodepointSpan{First: 2, Last: 8}, a.Intersect(CodepointSpan{First: 0, Last: 20}))
	assert.True(t, a.Intersect(CodepointSpan{First: 8, Last: 9}).IsSentinel(), "touching spans do not overlap")
	assert.True(t, a.Intersect(CodepointSpan{First: 10, Last: 12}).IsSentinel())
}

func TestContains(t *testing.T) {
	outer := CodepointSpan{First: 2, Last: 8}
	assert.True(t, outer.Contains(CodepointSpan{First: 2, Last: 8}))
	assert.True(t, outer.Contains(CodepointSpan{First: 3, Last: 4}))
	assert.False(t, outer.Contains(CodepointSpan{First: 1, Last: 4}))
	assert.False(t, outer.Contains(CodepointSpan{First: 3, Last: 9}))
}

func TestCodepointLength(t *testing.T) {
	assert.Equal(t, 0, CodepointLength(""))
	assert.Equal(t, 5, CodepointLength("hello"))
	assert.Equal(t, 5, CodepointLength("héllo"), "é is one codepoint")
	assert.Equal(t, 4, CodepointLength("短信给我"))
}

func TestSubstringMultibyte(t *testing.T) {
	const context = "打电话 650 给我"

	assert.Equal(t, "打电话", Substring(context, CodepointSpan{First: 0, Last: 3}))
	assert.Equal(t, "650", Substring(context, CodepointSpan{First: 4, Last: 7}))
	assert.Equal(t, "给我", Substring(context, CodepointSpan{First: 8, Last: 10}))
}

func TestByteRangeClampsDegenerate(t *testing.T) {
	first, last := ByteRange("hello", Invalid())
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, last)

	first, last = ByteRange("hello", CodepointSpan{First: 3, Last: 2})
	assert.Equal(t, 0, first)
	assert.Equal(t, 0, last)
}

func TestClassificationResultBest(t *testing.T) {
	var empty ClassificationResult
	_, ok := empty.Best()
	assert.False(t, ok)

	r := ClassificationResult{
		{Collection: "phone", Score: 0.9},
		{Collection: "other", Score: 0.1},
	}
	best, ok := r.Best()
	assert.True(t, ok)
	assert.Equal(t, "phone", best.Collection)
}

func TestAnnotatedSpanString(t *testing.T) {
	a := AnnotatedSpan{
		Span:           CodepointSpan{First: 5, Last: 12},
		Classification: ClassificationResult{{Collection: "email", Score: 0.75}},
	}
	assert.Equal(t, "Span(5, 12, email, 0.75)", a.String())
}

func TestTokenSpanWholeContext(t *testing.T) {
	assert.True(t, WholeContext().IsWholeContext())
	assert.False(t, TokenSpan{Left: 2, Right: 2}.IsWholeContext())
}
