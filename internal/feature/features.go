package feature

import (
	"hash/fnv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/textselect/pkg/types/span"
)

// FixedFeatureCount is the width of the fixed feature block.  The hashed
// trigram block of BucketCount entries follows it, so a network's input
// dimension must equal FixedFeatureCount + BucketCount.
const FixedFeatureCount = 12

// Indices into the fixed feature block.  The order is part of the model
// contract: networks are trained against this layout, and packaging tooling
// builds weight vectors against these indices.
const (
	FeatTokenCountFrac = iota
	FeatLengthRatio
	FeatDigitFrac
	FeatLetterFrac
	FeatPunctFrac
	FeatUpperFrac
	FeatStartsRunBoundary
	FeatEndsRunBoundary
	FeatCoversWholeRun
	FeatHasAtSign
	FeatHasScheme
	FeatClickOverlap
)

// FeatureDim returns the feature-vector width this processor produces.
func (p *Processor) FeatureDim() int {
	return FixedFeatureCount + p.opts.BucketCount
}

// Context is the per-call tokenization of one context string, computed once
// and shared across every candidate scored in that call.
type Context struct {
	Text   string
	CtxLen int
	Tokens []Token
	Runs   []span.CodepointSpan
}

// NewContext tokenizes and segments a context string.
func (p *Processor) NewContext(text string) *Context {
	return &Context{
		Text:   text,
		CtxLen: span.CodepointLength(text),
		Tokens: p.Tokenize(text),
		Runs:   span.NonWhitespaceRuns(text),
	}
}

// ExtractFeatures produces the feature vector for one candidate span.  The
// click span contributes only the overlap feature; for classification calls
// the caller passes the candidate itself as the click.  The output is fully
// deterministic: identical inputs produce bit-identical vectors.
func (p *Processor) ExtractFeatures(fc *Context, candidate, click span.CodepointSpan) []float32 {
	vec := make([]float32, p.FeatureDim())
	if !candidate.IsValid(fc.CtxLen) {
		return vec
	}

	text := span.Substring(fc.Text, candidate)
	runes := []rune(text)
	total := float32(len(runes))

	if first, last, ok := TokensInRange(fc.Tokens, candidate); ok && len(fc.Tokens) > 0 {
		vec[FeatTokenCountFrac] = float32(last-first+1) / float32(len(fc.Tokens))
	}
	if fc.CtxLen > 0 {
		vec[FeatLengthRatio] = float32(candidate.Length()) / float32(fc.CtxLen)
	}

	var digits, letters, puncts, uppers float32
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		case isPunctuation(r):
			puncts++
		}
	}
	if total > 0 {
		vec[FeatDigitFrac] = digits / total
		vec[FeatLetterFrac] = letters / total
		vec[FeatPunctFrac] = puncts / total
		vec[FeatUpperFrac] = uppers / total
	}

	starts, ends, covers := runAlignment(fc.Runs, candidate)
	vec[FeatStartsRunBoundary] = boolFeature(starts)
	vec[FeatEndsRunBoundary] = boolFeature(ends)
	vec[FeatCoversWholeRun] = boolFeature(covers)

	vec[FeatHasAtSign] = boolFeature(strings.ContainsRune(text, '@'))
	vec[FeatHasScheme] = boolFeature(strings.Contains(text, "://"))

	if overlap := candidate.Intersect(click); !overlap.IsSentinel() && candidate.Length() > 0 {
		vec[FeatClickOverlap] = float32(overlap.Length()) / float32(candidate.Length())
	}

	p.hashTrigrams(vec[FixedFeatureCount:], text)
	return vec
}

// runAlignment reports whether the candidate starts on a run boundary, ends
// on one, and covers exactly one whole run.
func runAlignment(runs []span.CodepointSpan, candidate span.CodepointSpan) (starts, ends, covers bool) {
	for _, run := range runs {
		if run.First == candidate.First {
			starts = true
		}
		if run.Last == candidate.Last {
			ends = true
		}
		if run == candidate {
			covers = true
		}
		if run.First > candidate.Last {
			break
		}
	}
	return starts, ends, covers
}

// hashTrigrams fills the hashed character-trigram block.  Token values are
// NFC-normalized (and optionally lowercased) before hashing so that
// visually identical text maps to the same buckets; span offsets are never
// affected because normalization happens on copies.
func (p *Processor) hashTrigrams(buckets []float32, text string) {
	if len(buckets) == 0 {
		return
	}
	normalized := norm.NFC.String(text)
	if p.opts.Lowercase {
		normalized = strings.ToLower(normalized)
	}

	runes := []rune("^" + normalized + "$")
	if len(runes) < 3 {
		return
	}
	count := float32(len(runes) - 2)
	for i := 0; i+3 <= len(runes); i++ {
		h := fnv.New32a()
		h.Write([]byte(string(runes[i : i+3])))
		buckets[int(h.Sum32())%len(buckets)] += 1 / count
	}
}

func boolFeature(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
