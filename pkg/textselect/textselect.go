// Package textselect is the public embedding surface of the smart text
// selection engine.  A Classifier wraps one immutable model container and
// exposes the three inference operations: selection smartening, span
// classification, and whole-string annotation.
//
// Construction never returns an error: a Classifier built from a missing or
// malformed model image simply reports IsInitialized() == false and degrades
// every operation to its documented no-op (echoed click indices for
// selection, empty results otherwise).  Host applications that must fail
// fast check IsInitialized after construction.
package textselect

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/turtacn/textselect/internal/engine"
	"github.com/turtacn/textselect/internal/monitoring/logging"
	"github.com/turtacn/textselect/internal/monitoring/metrics"
	"github.com/turtacn/textselect/pkg/types/span"
)

// Re-exported inference types, so embedders import one package.
type (
	CodepointSpan        = span.CodepointSpan
	ClassScore           = span.ClassScore
	ClassificationResult = span.ClassificationResult
	AnnotatedSpan        = span.AnnotatedSpan
	InputFlags           = span.InputFlags
)

// Input hint flags for ClassifyText.
const (
	InputFlagURL   = span.InputFlagURL
	InputFlagEmail = span.InputFlagEmail
)

// Well-known collection names.
const (
	CollectionOther = span.CollectionOther
	CollectionURL   = span.CollectionURL
	CollectionEmail = span.CollectionEmail
	CollectionPhone = span.CollectionPhone
)

// Option customizes Classifier construction.
type Option func(*settings)

type settings struct {
	logger    *zap.Logger
	registry  prometheus.Registerer
	cacheSize *int
}

// WithLogger attaches the host application's zap logger.  Without it the
// engine is silent.
func WithLogger(z *zap.Logger) Option {
	return func(s *settings) { s.logger = z }
}

// WithMetricsRegistry registers the engine's prometheus collectors with reg.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(s *settings) { s.registry = reg }
}

// WithCacheSize overrides the classification cache capacity.  Zero or
// negative disables caching.
func WithCacheSize(n int) Option {
	return func(s *settings) { s.cacheSize = &n }
}

func engineOptions(opts []Option) []engine.Option {
	var s settings
	for _, o := range opts {
		o(&s)
	}
	var out []engine.Option
	if s.logger != nil {
		out = append(out, engine.WithLogger(logging.FromZap(s.logger)))
	}
	if s.registry != nil {
		out = append(out, engine.WithMetrics(metrics.New(s.registry)))
	}
	if s.cacheSize != nil {
		out = append(out, engine.WithCacheSize(*s.cacheSize))
	}
	return out
}

// Classifier is a handle on one loaded model.  It is safe for concurrent
// use and never mutated after construction; reloading a model means
// building a new Classifier and closing the old one.
type Classifier struct {
	c *engine.Container
}

// NewFromBuffer builds a Classifier from an in-memory model image.  The
// caller keeps ownership of the buffer and must keep it alive for the
// Classifier's lifetime.
func NewFromBuffer(data []byte, opts ...Option) *Classifier {
	return &Classifier{c: engine.NewFromBuffer(data, engineOptions(opts)...)}
}

// NewFromPath builds a Classifier by reading the model image at path.
func NewFromPath(path string, opts ...Option) *Classifier {
	return &Classifier{c: engine.NewFromPath(path, engineOptions(opts)...)}
}

// NewFromFile builds a Classifier from a whole open file.
func NewFromFile(f *os.File, opts ...Option) *Classifier {
	return &Classifier{c: engine.NewFromFile(f, engineOptions(opts)...)}
}

// NewFromFileRange builds a Classifier from size bytes at offset within an
// open file, for model images embedded inside larger asset files.
func NewFromFileRange(f *os.File, offset, size int64, opts ...Option) *Classifier {
	return &Classifier{c: engine.NewFromFileRange(f, offset, size, engineOptions(opts)...)}
}

// IsInitialized reports whether the model loaded successfully.
func (t *Classifier) IsInitialized() bool { return t.c.IsInitialized() }

// InstanceID returns this Classifier's unique identifier.
func (t *Classifier) InstanceID() string { return t.c.InstanceID() }

// SuggestSelection expands the clicked span to the best selection candidate.
// Spans are half-open codepoint ranges into context.  On any degradation
// (uninitialized model, out-of-bounds click) the click indices are returned
// unchanged.
func (t *Classifier) SuggestSelection(context string, click CodepointSpan) CodepointSpan {
	return t.c.SuggestSelection(context, click)
}

// ClassifyText classifies the selected span of context into collections,
// best first.  Flags short-circuit classification for inputs the host
// already knows to be a URL or an e-mail address.  An empty result means
// the span could not be classified.
func (t *Classifier) ClassifyText(context string, selection CodepointSpan, flags InputFlags) ClassificationResult {
	return t.c.ClassifyText(context, selection, flags)
}

// Annotate detects all classifiable spans in context.  The returned spans
// are non-overlapping and ordered by start offset.
func (t *Classifier) Annotate(context string) []AnnotatedSpan {
	return t.c.Annotate(context)
}

// Close releases the resources backing the model image.  The Classifier
// must not be used afterwards.
func (t *Classifier) Close() { t.c.Close() }
