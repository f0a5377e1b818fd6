package network

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func newRewardMLP(t *testing.T, hidden []int) *RewardMLP {
	biases := make([]bool, len(hidden))
	activations := make([]*Activation, len(hidden))
	for i := range hidden {
		biases[i] = true
		activations[i] = TanH()
	}

	net, err := NewRewardMLP(3, 4, 8, hidden, biases, G.GlorotU(1.0),
		activations)
	require.NoError(t, err)
	return net
}

func observation(batch int) *tensor.Dense {
	data := make([]float64, batch*3)
	for i := range data {
		data[i] = float64(i%7)/7 - 0.5
	}
	return tensor.New(tensor.WithShape(batch, 3), tensor.WithBacking(data))
}

func TestRewardMLPCall(t *testing.T) {
	net := newRewardMLP(t, []int{5})
	defer net.Close()

	assert.Equal(t, 3, net.Features())
	assert.Equal(t, 4, net.NumActions())
	assert.Empty(t, net.StateSpec().Flatten())
	assert.Len(t, net.Variables(), 4)

	// Predictions do not depend on the batch the observation is in
	batch, state, err := net.Call(observation(5), nil, State{})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{5, 4}, batch.Shape())
	assert.Empty(t, state)

	single, _, err := net.Call(observation(1), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 4}, single.Shape())
	assert.InDeltaSlice(t, batch.Data().([]float64)[:4], single.Data(), 1e-12)

	// Same batch size as the training network
	_, _, err = net.Call(observation(8), nil, nil)
	assert.NoError(t, err)
}

func TestRewardMLPLinear(t *testing.T) {
	net, err := NewRewardMLP(2, 3, 4, []int{}, []bool{},
		G.Zeroes(), []*Activation{})
	require.NoError(t, err)
	defer net.Close()

	obs := tensor.New(tensor.WithShape(2, 2),
		tensor.WithBacking([]float64{1, 2, -1, 0.5}))

	zero, _, err := net.Call(obs, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 6), zero.Data())

	vars := net.Variables()
	require.Len(t, vars, 2)
	weights := tensor.New(tensor.WithShape(2, 3),
		tensor.WithBacking([]float64{1, 0, 2, 0, 1, -1}))
	bias := tensor.New(tensor.WithShape(1, 3),
		tensor.WithBacking([]float64{0.5, 0, 0}))
	require.NoError(t, G.Let(vars[0], weights))
	require.NoError(t, G.Let(vars[1], bias))

	pred, _, err := net.Call(obs, nil, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{
		1.5, 2, 0,
		-0.5, 0.5, -2.5,
	}, pred.Data(), 1e-12)
}

func TestRewardMLPCallErrors(t *testing.T) {
	net := newRewardMLP(t, []int{2})
	defer net.Close()

	wrongFeatures := tensor.New(tensor.WithShape(2, 4),
		tensor.WithBacking(make([]float64, 8)))
	_, _, err := net.Call(wrongFeatures, nil, nil)
	assert.Error(t, err)

	vector := tensor.New(tensor.WithShape(3),
		tensor.WithBacking(make([]float64, 3)))
	_, _, err = net.Call(vector, nil, nil)
	assert.Error(t, err)

	float32s := tensor.New(tensor.WithShape(1, 3),
		tensor.WithBacking(make([]float32, 3)))
	_, _, err = net.Call(float32s, nil, nil)
	assert.Error(t, err)

	_, _, err = net.Call(nil, nil, nil)
	assert.Error(t, err)
}

func TestNewRewardMLPInvalid(t *testing.T) {
	_, err := NewRewardMLP(3, 4, 8, []int{5}, []bool{}, G.Zeroes(),
		[]*Activation{ReLU()})
	assert.Error(t, err)

	_, err = NewRewardMLP(3, 4, 8, []int{5}, []bool{true}, G.Zeroes(),
		[]*Activation{})
	assert.Error(t, err)

	_, err = NewRewardMLP(3, 0, 8, []int{}, []bool{}, G.Zeroes(),
		[]*Activation{})
	assert.Error(t, err)
}

func TestRewardMLPGob(t *testing.T) {
	net := newRewardMLP(t, []int{6, 5})
	defer net.Close()

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(net))

	var decoded RewardMLP
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))
	defer decoded.Close()

	assert.Equal(t, net.Features(), decoded.Features())
	assert.Equal(t, net.NumActions(), decoded.NumActions())
	assert.Equal(t, net.TrainNet().BatchSize(), decoded.TrainNet().BatchSize())

	want := net.Variables()
	have := decoded.Variables()
	require.Len(t, have, len(want))
	for i := range want {
		assert.Equal(t, want[i].Name(), have[i].Name())
		assert.Equal(t, want[i].Value().Data(), have[i].Value().Data())
	}

	wantPred, _, err := net.Call(observation(3), nil, nil)
	require.NoError(t, err)
	havePred, _, err := decoded.Call(observation(3), nil, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, wantPred.Data(), havePred.Data(), 1e-12)
}

func TestRewardMLPGobDecodeInto(t *testing.T) {
	net := newRewardMLP(t, []int{4})
	defer net.Close()

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(net))

	target := newRewardMLP(t, []int{3})
	defer target.Close()
	_, _, err := target.Call(observation(2), nil, nil)
	require.NoError(t, err)
	old := target.decide
	require.Len(t, old, 1)

	require.NoError(t, gob.NewDecoder(&buf).Decode(target))
	assert.Empty(t, old)
	assert.Empty(t, target.decide)

	wantPred, _, err := net.Call(observation(2), nil, nil)
	require.NoError(t, err)
	havePred, _, err := target.Call(observation(2), nil, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, wantPred.Data(), havePred.Data(), 1e-12)
}

func TestActivationJSON(t *testing.T) {
	acts := []*Activation{ReLU(), TanH(), Sigmoid(), Identity()}

	data, err := json.Marshal(acts)
	require.NoError(t, err)
	assert.JSONEq(t, `["relu", "tanh", "sigmoid", "identity"]`, string(data))

	var decoded []*Activation
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, len(acts))
	for i := range acts {
		assert.Equal(t, acts[i].String(), decoded[i].String())
	}

	assert.Error(t, json.Unmarshal([]byte(`["swish"]`), &decoded))
	_, err = NewActivation("swish")
	assert.Error(t, err)
}
