package span

import "unicode"

// NonWhitespaceRuns segments context into maximal runs of non-whitespace
// codepoints, returned in position order.  The runs are disjoint and their
// union covers exactly the non-whitespace content of context; the gaps
// between consecutive runs are whitespace only.  An empty or all-whitespace
// context yields no runs.
func NonWhitespaceRuns(context string) []CodepointSpan {
	var runs []CodepointSpan
	start := InvalidIndex
	cp := 0
	for _, r := range context {
		if unicode.IsSpace(r) {
			if start != InvalidIndex {
				runs = append(runs, CodepointSpan{First: start, Last: cp})
				start = InvalidIndex
			}
		} else if start == InvalidIndex {
			start = cp
		}
		cp++
	}
	if start != InvalidIndex {
		runs = append(runs, CodepointSpan{First: start, Last: cp})
	}
	return runs
}

// RunContaining returns the non-whitespace run of context that contains
// codepoint index idx, or the sentinel when idx falls on whitespace or out
// of bounds.
func RunContaining(context string, idx int) CodepointSpan {
	for _, run := range NonWhitespaceRuns(context) {
		if run.First <= idx && idx < run.Last {
			return run
		}
		if run.First > idx {
			break
		}
	}
	return Invalid()
}
