// Package network implements the feed-forward embedding network used by both
// sub-models.  The forward pass is plain float32 matrix arithmetic with ReLU
// hidden layers and a configurable final activation; parameters come from
// the model image and are immutable, so a FeedForward value is safe for
// unlimited concurrent use.
package network

import (
	"math"

	"github.com/turtacn/textselect/internal/model"
	"github.com/turtacn/textselect/pkg/errors"
)

// FeedForward is an immutable multi-layer perceptron built from a parsed
// parameter blob.
type FeedForward struct {
	params *model.NetworkParams
}

// New wraps parsed parameters.  The topology was validated at parse time;
// New only rejects a nil blob.
func New(params *model.NetworkParams) (*FeedForward, error) {
	if params == nil {
		return nil, errors.New(errors.CodeNetworkParams, "nil network params")
	}
	return &FeedForward{params: params}, nil
}

// InputDim returns the expected feature-vector width.
func (n *FeedForward) InputDim() int { return n.params.InputDim }

// OutputDim returns the width of the final layer.
func (n *FeedForward) OutputDim() int { return n.params.OutputDim() }

// Forward runs the forward pass.  The input must be exactly InputDim wide;
// a mismatched input yields nil, which callers treat as "no score".
// Forward allocates its own activations and never retains input.
func (n *FeedForward) Forward(input []float32) []float32 {
	if len(input) != n.params.InputDim {
		return nil
	}

	activation := input
	last := len(n.params.LayerDims) - 1
	for layer, outDim := range n.params.LayerDims {
		weights := n.params.Weights[layer]
		biases := n.params.Biases[layer]
		inDim := len(activation)

		next := make([]float32, outDim)
		for row := 0; row < outDim; row++ {
			sum := biases[row]
			base := row * inDim
			for col := 0; col < inDim; col++ {
				sum += weights[base+col] * activation[col]
			}
			next[row] = sum
		}

		if layer != last {
			relu(next)
		}
		activation = next
	}

	if n.params.Activation == model.ActivationSoftmax {
		softmax(activation)
	}
	return activation
}

// Score runs the forward pass and returns the first output, for networks
// that emit a single scalar (the selection model).
func (n *FeedForward) Score(input []float32) (float32, bool) {
	out := n.Forward(input)
	if len(out) == 0 {
		return 0, false
	}
	return out[0], true
}

func relu(v []float32) {
	for i, x := range v {
		if x < 0 {
			v[i] = 0
		}
	}
}

// softmax normalizes in place with the max-subtraction trick for numeric
// stability.
func softmax(v []float32) {
	if len(v) == 0 {
		return
	}
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	var sum float64
	for i, x := range v {
		e := math.Exp(float64(x - max))
		v[i] = float32(e)
		sum += e
	}
	if sum == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / sum)
	}
}
