package span

// Bracket pairs recognized by StripUnpairedBrackets.  Covers the ASCII pairs
// plus the CJK fullwidth and corner brackets that commonly surround tappable
// text in chat transcripts.
var (
	closingToOpening = map[rune]rune{
		')': '(',
		']': '[',
		'}': '{',
		'）': '（',
		'】': '【',
		'」': '「',
		'』': '『',
		'〉': '〈',
		'》': '《',
	}
	openingToClosing = map[rune]rune{}
)

func init() {
	for closing, opening := range closingToOpening {
		openingToClosing[opening] = closing
	}
}

// StripUnpairedBrackets shrinks s by one codepoint from an end whose bracket
// has no counterpart inside the span:
//
//   - a leading opening bracket is dropped unless its closing counterpart
//     appears later in the span, and a leading closing bracket is always
//     dropped (its opener cannot precede it inside the span);
//   - symmetrically, a trailing closing bracket is dropped unless its
//     opening counterpart appears earlier, and a trailing opening bracket
//     is always dropped.
//
// Both ends are handled independently, so a span may shrink on both sides,
// possibly to the empty span.  The result never widens the input and is
// never inverted.  Sentinel and out-of-range spans are returned as-is.
func StripUnpairedBrackets(context string, s CodepointSpan) CodepointSpan {
	ctxLen := CodepointLength(context)
	if !s.IsValid(ctxLen) {
		return s
	}

	runes := []rune(Substring(context, s))
	result := s

	if stripLeading(runes) && result.First < result.Last {
		result.First++
		runes = runes[1:]
	}
	if len(runes) > 0 && stripTrailing(runes) && result.First < result.Last {
		result.Last--
	}

	return result
}

func stripLeading(runes []rune) bool {
	first := runes[0]
	if closing, ok := openingToClosing[first]; ok {
		return !containsRune(runes[1:], closing)
	}
	_, isClosing := closingToOpening[first]
	return isClosing
}

func stripTrailing(runes []rune) bool {
	last := runes[len(runes)-1]
	if opening, ok := closingToOpening[last]; ok {
		return !containsRune(runes[:len(runes)-1], opening)
	}
	_, isOpening := openingToClosing[last]
	return isOpening
}

func containsRune(runes []rune, target rune) bool {
	for _, r := range runes {
		if r == target {
			return true
		}
	}
	return false
}
