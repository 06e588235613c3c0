// Package model owns the packed model image: the binary container format,
// per-sub-model options, network parameter blobs, and the scoped file region
// the image is read from.  Callers treat the image as an opaque versioned
// blob; all structural knowledge lives here.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/turtacn/textselect/pkg/errors"
)

// Sub-model tags recognized in a model image.
const (
	TagSelection = "selection"
	TagSharing   = "sharing"
)

// ─────────────────────────────────────────────────────────────────────────────
// FeatureProcessorOptions
// ─────────────────────────────────────────────────────────────────────────────

// FeatureProcessorOptions is the data-driven configuration of a sub-model's
// feature processor.  It is embedded in the model image rather than
// hardcoded so that selection and sharing models can ship different
// tokenization windows and embedding widths.
type FeatureProcessorOptions struct {
	// ClickWindowLeft / ClickWindowRight bound how many tokens around the
	// click token the chunker considers when no explicit window is given.
	ClickWindowLeft  int `json:"click_window_left"`
	ClickWindowRight int `json:"click_window_right"`

	// BucketCount is the number of hashed character-trigram buckets appended
	// to the fixed feature block.  Zero disables the hashed block.
	BucketCount int `json:"bucket_count"`

	// Lowercase folds token values before hashing.  Span offsets always
	// refer to the original context regardless of this flag.
	Lowercase bool `json:"lowercase"`

	// MaxTokens caps how many tokens of context are considered per call;
	// zero means unlimited.  Inference cost scales with token count, so
	// callers needing latency bounds set this in the model image.
	MaxTokens int `json:"max_tokens"`
}

// Validate returns a structured error for inconsistent options.
func (o *FeatureProcessorOptions) Validate() error {
	if o.ClickWindowLeft < 0 || o.ClickWindowRight < 0 {
		return errors.New(errors.CodeModelOptionsInvalid, "click window must be non-negative").
			WithDetail(fmt.Sprintf("left=%d right=%d", o.ClickWindowLeft, o.ClickWindowRight))
	}
	if o.BucketCount < 0 {
		return errors.New(errors.CodeModelOptionsInvalid, "bucket_count must be non-negative")
	}
	if o.MaxTokens < 0 {
		return errors.New(errors.CodeModelOptionsInvalid, "max_tokens must be non-negative")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RegexPattern
// ─────────────────────────────────────────────────────────────────────────────

// RegexPattern is a deterministic classification override shipped with the
// sharing sub-model.  Patterns are evaluated in declaration order; the first
// full match wins with score 1.0.
type RegexPattern struct {
	// Collection is the label emitted when the pattern matches.
	Collection string `json:"collection"`

	// Pattern is the RE2 source.  It is matched against the entire candidate
	// text (implicitly anchored at both ends).
	Pattern string `json:"pattern"`

	// MatchWholeContext matches the pattern against the full context string
	// instead of the selected text.
	MatchWholeContext bool `json:"match_whole_context,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// SubModelOptions
// ─────────────────────────────────────────────────────────────────────────────

// SubModelOptions is the JSON options section of one tagged sub-model.
type SubModelOptions struct {
	FeatureProcessor FeatureProcessorOptions `json:"feature_processor"`

	// Collections is the label table in declaration order.  For the sharing
	// model its length must equal the network's output dimension; the
	// selection model emits a single score and leaves this empty.
	Collections []string `json:"collections,omitempty"`

	// RegexPatterns are the sharing model's hint overrides, evaluated in
	// order.  Ignored for the selection model.
	RegexPatterns []RegexPattern `json:"regex_patterns,omitempty"`

	// EnableRegex toggles the regex override capability.  When false the
	// classification engine's regex step is an empty sequence.
	EnableRegex bool `json:"enable_regex,omitempty"`
}

// Validate checks structural consistency of the options for the given tag.
func (o *SubModelOptions) Validate(tag string) error {
	if err := o.FeatureProcessor.Validate(); err != nil {
		return err
	}
	if tag == TagSharing && len(o.Collections) == 0 {
		return errors.New(errors.CodeModelOptionsInvalid, "sharing model requires a label table")
	}
	for i, p := range o.RegexPatterns {
		if p.Collection == "" {
			return errors.New(errors.CodeModelOptionsInvalid, "regex pattern missing collection").
				WithDetail(fmt.Sprintf("index=%d", i))
		}
		if p.Pattern == "" {
			return errors.New(errors.CodeModelOptionsInvalid, "regex pattern missing source").
				WithDetail(fmt.Sprintf("index=%d collection=%s", i, p.Collection))
		}
	}
	return nil
}

// parseOptions decodes and validates an options JSON section.
func parseOptions(tag string, data []byte) (*SubModelOptions, error) {
	opts := &SubModelOptions{}
	if err := json.Unmarshal(data, opts); err != nil {
		return nil, errors.Wrap(err, errors.CodeModelOptionsInvalid, "failed to decode options JSON").
			WithDetail("tag=" + tag)
	}
	if err := opts.Validate(tag); err != nil {
		return nil, err
	}
	return opts, nil
}
