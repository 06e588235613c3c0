// Package engine is the inference orchestration core: the model container,
// the chunker, the selection and classification engines, and the annotation
// pipeline.  A Container is built once, is immutable afterwards, and is safe
// for unlimited concurrent reads.  Construction never fails loudly — every
// load problem is absorbed into the not-initialized state, and all public
// operations on a not-initialized container degrade to documented no-ops
// (echoed click indices for selection, empty results for classification and
// annotation).
package engine

import (
	"fmt"
	"os"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/google/uuid"

	"github.com/turtacn/textselect/internal/feature"
	"github.com/turtacn/textselect/internal/model"
	"github.com/turtacn/textselect/internal/monitoring/logging"
	"github.com/turtacn/textselect/internal/monitoring/metrics"
	"github.com/turtacn/textselect/internal/network"
	"github.com/turtacn/textselect/pkg/errors"
	"github.com/turtacn/textselect/pkg/types/span"
)

// defaultCacheSize is the classification LRU capacity when the caller does
// not override it.
const defaultCacheSize = 512

// SubModel bundles one sub-model's capability record: its options, feature
// processor, and network, stored under a named role ("selection" or
// "sharing") in the container.
type SubModel struct {
	Role      string
	Options   *model.SubModelOptions
	Processor *feature.Processor
	Network   *network.FeedForward
}

// compiledPattern is one sharing-model regex override, compiled at load
// time.  Declaration order is preserved; the first full match wins.
type compiledPattern struct {
	collection        string
	re                *regexp.Regexp
	matchWholeContext bool
}

// classifyKey identifies a cached classification result.
type classifyKey struct {
	context string
	first   int
	last    int
	flags   span.InputFlags
}

// Container owns both sub-models, the compiled regex list, and the byte
// region backing the model image.  After construction nothing mutates; the
// classification cache is internally synchronized.
type Container struct {
	initialized bool
	instanceID  string

	selection *SubModel
	sharing   *SubModel
	regexes   []compiledPattern

	region *model.Region
	cache  *lru.Cache[classifyKey, span.ClassificationResult]

	// cacheSize is consulted once during load; it is not mutated afterwards.
	cacheSize int

	log     logging.Logger
	metrics *metrics.Metrics
}

// Option customizes container construction.
type Option func(*Container)

// WithLogger injects a structured logger.  Defaults to a no-op logger.
func WithLogger(log logging.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics injects the prometheus instrumentation handle.  A nil handle
// records nothing.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Container) { c.metrics = m }
}

// WithCacheSize overrides the classification LRU capacity.  Zero or negative
// disables caching.
func WithCacheSize(n int) Option {
	return func(c *Container) { c.cacheSize = n }
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction forms — all converge on loadModels
// ─────────────────────────────────────────────────────────────────────────────

// NewFromBuffer builds a container from an in-memory model image.  The
// caller keeps ownership of the buffer and must keep it alive for the
// container's lifetime.
func NewFromBuffer(data []byte, opts ...Option) *Container {
	c := newContainer(opts)
	c.load(model.RegionFromBuffer(data), nil)
	return c
}

// NewFromPath builds a container by reading the model image at path.
func NewFromPath(path string, opts ...Option) *Container {
	c := newContainer(opts)
	region, err := model.RegionFromPath(path)
	c.load(region, err)
	return c
}

// NewFromFile builds a container from a whole open file, image at offset 0.
func NewFromFile(f *os.File, opts ...Option) *Container {
	c := newContainer(opts)
	region, err := model.RegionFromFile(f)
	c.load(region, err)
	return c
}

// NewFromFileRange builds a container from size bytes at offset within an
// open file, for images embedded inside larger asset files.
func NewFromFileRange(f *os.File, offset, size int64, opts ...Option) *Container {
	c := newContainer(opts)
	region, err := model.RegionFromFileRange(f, offset, size)
	c.load(region, err)
	return c
}

func newContainer(opts []Option) *Container {
	c := &Container{
		instanceID: uuid.NewString(),
		log:        logging.NewNop(),
		cacheSize:  defaultCacheSize,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.Named("engine").With(logging.String("instance_id", c.instanceID))
	return c
}

// load absorbs any region or parse failure into the not-initialized state.
func (c *Container) load(region *model.Region, err error) {
	if err != nil {
		c.log.Warn("model image unavailable, container not initialized", logging.Err(err))
		c.metrics.ObserveLoad(errors.GetCode(err).String())
		return
	}
	c.region = region
	if err := c.loadModels(region.Bytes()); err != nil {
		c.log.Warn("model load failed, container not initialized",
			logging.Err(err), logging.String("source", region.Source()))
		c.metrics.ObserveLoad(errors.GetCode(err).String())
		c.region.Close()
		c.region = nil
		return
	}
	c.initialized = true
	c.metrics.ObserveLoad("ok")
	c.log.Info("model container initialized",
		logging.String("source", region.Source()),
		logging.Int("image_bytes", region.Len()),
		logging.Int("regex_patterns", len(c.regexes)))
}

// loadModels parses the image and builds both sub-models.  Both the
// selection and the sharing sections must be present and consistent; on the
// first failure the container stays not-initialized.
func (c *Container) loadModels(data []byte) error {
	img, err := model.ParseImage(data)
	if err != nil {
		return err
	}

	sel, err := c.buildSubModel(img, model.TagSelection)
	if err != nil {
		return err
	}
	shr, err := c.buildSubModel(img, model.TagSharing)
	if err != nil {
		return err
	}
	if len(shr.Options.Collections) != shr.Network.OutputDim() {
		return errors.New(errors.CodeModelOptionsInvalid,
			"sharing label table does not match network output").
			WithDetail(fmt.Sprintf("labels=%d output_dim=%d",
				len(shr.Options.Collections), shr.Network.OutputDim()))
	}

	regexes, err := compileRegexPatterns(shr.Options)
	if err != nil {
		return err
	}

	cache, err := newClassificationCache(c.cacheSize)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to build classification cache")
	}

	c.selection = sel
	c.sharing = shr
	c.regexes = regexes
	c.cache = cache
	return nil
}

func (c *Container) buildSubModel(img *model.Image, tag string) (*SubModel, error) {
	sec := img.Section(tag)
	if sec == nil {
		return nil, errors.New(errors.CodeModelMissing, "image lacks required sub-model").
			WithDetail("tag=" + tag)
	}
	proc := feature.NewProcessor(sec.Options.FeatureProcessor)
	if sec.Params.InputDim != proc.FeatureDim() {
		return nil, errors.New(errors.CodeNetworkParams,
			"network input dimension does not match feature processor").
			WithDetail("tag=" + tag)
	}
	net, err := network.New(sec.Params)
	if err != nil {
		return nil, err
	}
	return &SubModel{Role: tag, Options: sec.Options, Processor: proc, Network: net}, nil
}

// compileRegexPatterns compiles the sharing model's hint patterns in
// declaration order.  Patterns are implicitly anchored: a hint matches only
// when the whole candidate text matches, mirroring full-region matching
// semantics.  When the regex capability is disabled the result is an empty
// sequence, never a skipped code path.
func compileRegexPatterns(opts *model.SubModelOptions) ([]compiledPattern, error) {
	if !opts.EnableRegex {
		return nil, nil
	}
	patterns := make([]compiledPattern, 0, len(opts.RegexPatterns))
	for _, p := range opts.RegexPatterns {
		re, err := regexp.Compile(`\A(?:` + p.Pattern + `)\z`)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeRegexCompile, "failed to compile hint pattern").
				WithDetail("collection=" + p.Collection)
		}
		patterns = append(patterns, compiledPattern{
			collection:        p.Collection,
			re:                re,
			matchWholeContext: p.MatchWholeContext,
		})
	}
	return patterns, nil
}

func newClassificationCache(size int) (*lru.Cache[classifyKey, span.ClassificationResult], error) {
	if size <= 0 {
		return nil, nil
	}
	return lru.New[classifyKey, span.ClassificationResult](size)
}

// ─────────────────────────────────────────────────────────────────────────────
// Introspection
// ─────────────────────────────────────────────────────────────────────────────

// IsInitialized reports whether the container loaded successfully and its
// inference operations are live.
func (c *Container) IsInitialized() bool { return c.initialized }

// InstanceID returns the container's unique identifier, assigned at
// construction and stable for its lifetime.
func (c *Container) InstanceID() string { return c.instanceID }

// Close releases the byte region backing the model image.  The container
// must not be used afterwards; reloading means constructing a new container,
// never mutating this one.
func (c *Container) Close() {
	c.initialized = false
	if c.region != nil {
		c.region.Close()
		c.region = nil
	}
}
