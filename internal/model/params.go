package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/turtacn/textselect/pkg/errors"
)

// Final-layer activation identifiers in a network parameter blob.
const (
	// ActivationLinear leaves the final layer output untouched.  Used by the
	// selection network, which emits one raw score per candidate.
	ActivationLinear byte = 0

	// ActivationSoftmax normalizes the final layer into a probability
	// distribution over the label table.  Used by the sharing network.
	ActivationSoftmax byte = 1
)

// NetworkParams is the parsed parameter blob of one feed-forward network:
// layer topology plus row-major float32 weight matrices and bias vectors.
// Hidden layers use ReLU; the final activation is part of the blob.
//
// Binary layout (little-endian):
//
//	layerCount uint16 (>= 1)
//	inputDim   uint16
//	outputDim  uint16 × layerCount
//	activation byte
//	per layer: weights float32 × (out × in), bias float32 × out
type NetworkParams struct {
	InputDim   int
	LayerDims  []int // output dimension of each layer, in order
	Activation byte
	Weights    [][]float32 // per layer, row-major (out × in)
	Biases     [][]float32 // per layer
}

// OutputDim returns the dimension of the final layer.
func (p *NetworkParams) OutputDim() int {
	if len(p.LayerDims) == 0 {
		return 0
	}
	return p.LayerDims[len(p.LayerDims)-1]
}

// ParseNetworkParams decodes a parameter blob, validating that the weight
// and bias payload exactly matches the declared topology.
func ParseNetworkParams(data []byte) (*NetworkParams, error) {
	r := &imageReader{data: data}

	layerCount, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if layerCount == 0 {
		return nil, errors.New(errors.CodeNetworkParams, "network must have at least one layer")
	}
	inputDim, err := r.uint16()
	if err != nil {
		return nil, err
	}
	if inputDim == 0 {
		return nil, errors.New(errors.CodeNetworkParams, "input dimension must be positive")
	}

	dims := make([]int, layerCount)
	for i := range dims {
		d, err := r.uint16()
		if err != nil {
			return nil, err
		}
		if d == 0 {
			return nil, errors.New(errors.CodeNetworkParams, "layer dimension must be positive").
				WithDetail(fmt.Sprintf("layer=%d", i))
		}
		dims[i] = int(d)
	}

	var activation [1]byte
	if err := r.read(activation[:]); err != nil {
		return nil, err
	}
	if activation[0] != ActivationLinear && activation[0] != ActivationSoftmax {
		return nil, errors.New(errors.CodeNetworkParams, "unknown activation").
			WithDetail(fmt.Sprintf("id=%d", activation[0]))
	}

	params := &NetworkParams{
		InputDim:   int(inputDim),
		LayerDims:  dims,
		Activation: activation[0],
	}

	in := int(inputDim)
	for i, out := range dims {
		weights, err := r.float32Slice(out * in)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeNetworkParams,
				fmt.Sprintf("layer %d: truncated weights", i))
		}
		biases, err := r.float32Slice(out)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeNetworkParams,
				fmt.Sprintf("layer %d: truncated biases", i))
		}
		params.Weights = append(params.Weights, weights)
		params.Biases = append(params.Biases, biases)
		in = out
	}

	if r.remaining() != 0 {
		return nil, errors.New(errors.CodeNetworkParams, "trailing bytes after last layer").
			WithDetail(fmt.Sprintf("%d bytes", r.remaining()))
	}
	return params, nil
}

// Serialize encodes the parameters back into the blob layout understood by
// ParseNetworkParams.
func (p *NetworkParams) Serialize() []byte {
	var buf bytes.Buffer
	writeUint16(&buf, uint16(len(p.LayerDims)))
	writeUint16(&buf, uint16(p.InputDim))
	for _, d := range p.LayerDims {
		writeUint16(&buf, uint16(d))
	}
	buf.WriteByte(p.Activation)
	for i := range p.LayerDims {
		writeFloat32Slice(&buf, p.Weights[i])
		writeFloat32Slice(&buf, p.Biases[i])
	}
	return buf.Bytes()
}

func writeFloat32Slice(buf *bytes.Buffer, vals []float32) {
	var b [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
		buf.Write(b[:])
	}
}

func (r *imageReader) float32Slice(n int) ([]float32, error) {
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits, err := r.uint32()
		if err != nil {
			return nil, err
		}
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}
