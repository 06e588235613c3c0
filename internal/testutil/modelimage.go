package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/textselect/internal/feature"
	"github.com/turtacn/textselect/internal/model"
)

// The fixture image carries two hand-built networks with weights chosen so
// that inference outcomes are fully predictable:
//
//   - The selection network is a single linear layer that strongly rewards
//     a candidate covering exactly one whitespace-separated run.  The best
//     candidate for any click is therefore the run containing it, which is
//     its own best candidate again — a fixed point.
//   - The sharing network is a softmax over {other, phone, url, email}
//     driven by the digit-fraction, scheme, and at-sign features, with
//     regex hints handling phone numbers and e-mail addresses.
const (
	selectionCoversRunWeight = 4.0
	selectionBoundaryWeight  = 1.0
	selectionTokenFracWeight = 0.25
	selectionClickWeight     = 0.5
)

// Label table of the fixture sharing model, in declaration order.
var SharingCollections = []string{"other", "phone", "url", "email"}

// Hint patterns of the fixture sharing model, in declaration order.
var SharingPatterns = []model.RegexPattern{
	{Collection: "phone", Pattern: `\+?\(?[0-9][0-9()\-. /]{4,}[0-9]`},
	{Collection: "email", Pattern: `[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`},
}

// BuildModelImage packs the deterministic fixture model into image bytes.
func BuildModelImage(t *testing.T) []byte {
	t.Helper()
	return model.WriteImage([]model.ImageSectionSource{
		selectionSection(t),
		sharingSection(t),
	})
}

// WriteModelFile writes the fixture image into a temp directory and returns
// its path.  The file is cleaned up with the test.
func WriteModelFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.tsmi")
	require.NoError(t, os.WriteFile(path, BuildModelImage(t), 0o600))
	return path
}

// SelectionOnlyImage packs an image missing the sharing section, for
// exercising the not-initialized degradation path.
func SelectionOnlyImage(t *testing.T) []byte {
	t.Helper()
	return model.WriteImage([]model.ImageSectionSource{selectionSection(t)})
}

// TruncatedImage returns the fixture image cut off mid-section.
func TruncatedImage(t *testing.T) []byte {
	t.Helper()
	img := BuildModelImage(t)
	return img[:len(img)-7]
}

// BadMagicImage returns bytes that fail the magic check.
func BadMagicImage() []byte {
	return []byte("XSMI\x01\x00\x00\x00")
}

func selectionSection(t *testing.T) model.ImageSectionSource {
	t.Helper()
	opts := model.SubModelOptions{
		FeatureProcessor: model.FeatureProcessorOptions{
			ClickWindowLeft:  6,
			ClickWindowRight: 6,
		},
	}
	weights := make([]float32, feature.FixedFeatureCount)
	weights[feature.FeatCoversWholeRun] = selectionCoversRunWeight
	weights[feature.FeatStartsRunBoundary] = selectionBoundaryWeight
	weights[feature.FeatEndsRunBoundary] = selectionBoundaryWeight
	weights[feature.FeatTokenCountFrac] = selectionTokenFracWeight
	weights[feature.FeatClickOverlap] = selectionClickWeight
	params := &model.NetworkParams{
		InputDim:   feature.FixedFeatureCount,
		LayerDims:  []int{1},
		Activation: model.ActivationLinear,
		Weights:    [][]float32{weights},
		Biases:     [][]float32{{0}},
	}
	return section(t, model.TagSelection, opts, params)
}

func sharingSection(t *testing.T) model.ImageSectionSource {
	t.Helper()
	opts := model.SubModelOptions{
		FeatureProcessor: model.FeatureProcessorOptions{
			ClickWindowLeft:  6,
			ClickWindowRight: 6,
			Lowercase:        true,
		},
		Collections:   SharingCollections,
		RegexPatterns: SharingPatterns,
		EnableRegex:   true,
	}

	// Row-major (out × in): one row per collection.
	in := feature.FixedFeatureCount
	weights := make([]float32, len(SharingCollections)*in)
	row := func(label int) []float32 { return weights[label*in : (label+1)*in] }
	row(1)[feature.FeatDigitFrac] = 3
	row(2)[feature.FeatHasScheme] = 6
	row(3)[feature.FeatHasAtSign] = 6
	biases := []float32{0.5, -1, -2, -2}

	params := &model.NetworkParams{
		InputDim:   in,
		LayerDims:  []int{len(SharingCollections)},
		Activation: model.ActivationSoftmax,
		Weights:    [][]float32{weights},
		Biases:     [][]float32{biases},
	}
	return section(t, model.TagSharing, opts, params)
}

func section(t *testing.T, tag string, opts model.SubModelOptions, params *model.NetworkParams) model.ImageSectionSource {
	t.Helper()
	optJSON, err := json.Marshal(&opts)
	require.NoError(t, err)
	return model.ImageSectionSource{Tag: tag, Options: optJSON, Params: params.Serialize()}
}
