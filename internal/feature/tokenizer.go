// Package feature implements the data-driven feature processor shared by the
// selection and sharing sub-models: codepoint-indexed tokenization and
// feature-vector extraction.  A Processor is built once from the options
// embedded in the model image and is immutable afterwards.
package feature

import (
	"unicode"

	"github.com/turtacn/textselect/internal/model"
	"github.com/turtacn/textselect/pkg/types/span"
)

// Token is one tokenizer output unit: its value and codepoint span in the
// original context.  Whitespace never appears in the token stream; runs of
// whitespace act only as separators.
type Token struct {
	Value string
	Span  span.CodepointSpan
}

// Processor is an immutable feature processor configured from a sub-model's
// options section.
type Processor struct {
	opts model.FeatureProcessorOptions
}

// NewProcessor builds a Processor from validated options.
func NewProcessor(opts model.FeatureProcessorOptions) *Processor {
	return &Processor{opts: opts}
}

// Options returns the processor's configuration.
func (p *Processor) Options() model.FeatureProcessorOptions { return p.opts }

// DefaultClickWindow returns the configured token window used by the chunker
// when the caller supplies no explicit window.
func (p *Processor) DefaultClickWindow() span.TokenSpan {
	return span.TokenSpan{Left: p.opts.ClickWindowLeft, Right: p.opts.ClickWindowRight}
}

// Tokenize splits context into tokens with codepoint spans.  Words are
// maximal runs of non-whitespace, non-punctuation codepoints; each
// punctuation codepoint is its own token.  The token stream is capped at the
// configured MaxTokens, which bounds inference cost on pathological inputs.
// Tokenize never fails; empty input yields an empty stream.
func (p *Processor) Tokenize(context string) []Token {
	var tokens []Token
	runes := []rune(context)

	appendToken := func(first, last int) bool {
		if p.opts.MaxTokens > 0 && len(tokens) >= p.opts.MaxTokens {
			return false
		}
		tokens = append(tokens, Token{
			Value: string(runes[first:last]),
			Span:  span.CodepointSpan{First: first, Last: last},
		})
		return true
	}

	pos := 0
	for pos < len(runes) {
		r := runes[pos]

		if unicode.IsSpace(r) {
			pos++
			continue
		}

		if isPunctuation(r) {
			if !appendToken(pos, pos+1) {
				return tokens
			}
			pos++
			continue
		}

		start := pos
		for pos < len(runes) && !unicode.IsSpace(runes[pos]) && !isPunctuation(runes[pos]) {
			pos++
		}
		if !appendToken(start, pos) {
			return tokens
		}
	}
	return tokens
}

// TokensInRange returns the index range [first, last] of tokens that overlap
// the given codepoint span, or ok=false when none do (e.g. the span covers
// only whitespace).
func TokensInRange(tokens []Token, s span.CodepointSpan) (first, last int, ok bool) {
	first = -1
	for i, tok := range tokens {
		if tok.Span.First < s.Last && s.First < tok.Span.Last {
			if first == -1 {
				first = i
			}
			last = i
		} else if first != -1 {
			break
		}
	}
	if first == -1 {
		return 0, 0, false
	}
	return first, last, true
}

// isPunctuation mirrors the ASCII fast path plus the Unicode punctuation
// classes; keeping punctuation as single-codepoint tokens lets the chunker
// propose spans that include or exclude trailing punctuation.
func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
