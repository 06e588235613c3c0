package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripUnpairedBrackets(t *testing.T) {
	cases := []struct {
		name    string
		context string
		in      CodepointSpan
		want    CodepointSpan
	}{
		{
			name:    "no brackets",
			context: "call 650 now",
			in:      CodepointSpan{First: 5, Last: 8},
			want:    CodepointSpan{First: 5, Last: 8},
		},
		{
			name:    "paired brackets kept",
			context: "dial (650) now",
			in:      CodepointSpan{First: 5, Last: 10},
			want:    CodepointSpan{First: 5, Last: 10},
		},
		{
			name:    "leading unpaired opener stripped",
			context: "see (650 now",
			in:      CodepointSpan{First: 4, Last: 8},
			want:    CodepointSpan{First: 5, Last: 8},
		},
		{
			name:    "trailing unpaired closer stripped",
			context: "650) is it",
			in:      CodepointSpan{First: 0, Last: 4},
			want:    CodepointSpan{First: 0, Last: 3},
		},
		{
			name:    "sentinel passes through",
			context: "anything",
			in:      Invalid(),
			want:    Invalid(),
		},
		{
			name:    "out of bounds passes through",
			context: "ab",
			in:      CodepointSpan{First: 0, Last: 9},
			want:    CodepointSpan{First: 0, Last: 9},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripUnpairedBrackets(tc.context, tc.in))
		})
	}
}

func TestStripLeadingClosingBracket(t *testing.T) {
	//                 0123456
	const context = ")650 ok"
	got := StripUnpairedBrackets(context, CodepointSpan{First: 0, Last: 4})
	assert.Equal(t, CodepointSpan{First: 1, Last: 4}, got)
}

func TestStripTrailingOpeningBracket(t *testing.T) {
	//                 0123456
	const context = "650( ok"
	got := StripUnpairedBrackets(context, CodepointSpan{First: 0, Last: 4})
	assert.Equal(t, CodepointSpan{First: 0, Last: 3}, got)
}

func TestStripBothEnds(t *testing.T) {
	//                 0123456
	const context = ")650( x"
	got := StripUnpairedBrackets(context, CodepointSpan{First: 0, Last: 5})
	assert.Equal(t, CodepointSpan{First: 1, Last: 4}, got)
}

func TestStripSingleBracketShrinksToEmpty(t *testing.T) {
	got := StripUnpairedBrackets("a ( b", CodepointSpan{First: 2, Last: 3})
	assert.Equal(t, 0, got.Length())
	assert.False(t, got.IsSentinel())
}

func TestStripCJKBrackets(t *testing.T) {
	//                 0 1 2 3 4
	const context = "看「这个 啊"
	got := StripUnpairedBrackets(context, CodepointSpan{First: 1, Last: 4})
	assert.Equal(t, CodepointSpan{First: 2, Last: 4}, got,
		"a fullwidth opener with no closer in the span is stripped")
}

func TestStripNeverWidens(t *testing.T) {
	contexts := []string{"(a)", "a(b)c", "))((", "plain"}
	for _, context := range contexts {
		ctxLen := CodepointLength(context)
		for first := 0; first < ctxLen; first++ {
			for last := first + 1; last <= ctxLen; last++ {
				in := CodepointSpan{First: first, Last: last}
				out := StripUnpairedBrackets(context, in)
				assert.GreaterOrEqual(t, out.First, in.First)
				assert.LessOrEqual(t, out.Last, in.Last)
				assert.LessOrEqual(t, out.First, out.Last)
			}
		}
	}
}
