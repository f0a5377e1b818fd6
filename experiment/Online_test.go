package experiment

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gobandit/agent"
	"github.com/samuelfneumann/gobandit/agent/bandit/greedy"
	"github.com/samuelfneumann/gobandit/agent/bandit/neuralegreedy"
	"github.com/samuelfneumann/gobandit/environment/envconfig"
	"github.com/samuelfneumann/gobandit/experiment/checkpointer"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"github.com/samuelfneumann/gobandit/initwfn"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/policy"
	"github.com/samuelfneumann/gobandit/solver"
	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gorgonia.org/tensor"
)

const (
	envBatch       = 4
	testTrainBatch = 8
)

func newConfig(t *testing.T, steps int) Config {
	s, err := solver.NewDefaultAdam(0.01, testTrainBatch)
	require.NoError(t, err)
	init, err := initwfn.NewGlorotU(1.0)
	require.NoError(t, err)

	agentConf := neuralegreedy.Config{
		Config: greedy.Config{
			Layers:      []int{16},
			Biases:      []bool{true},
			Activations: []*network.Activation{network.ReLU()},
			Solver:      s,
			InitWFn:     init,
			BatchSize:   testTrainBatch,
			Logger:      log.New(io.Discard, "", 0),
		},
		Epsilon: 0.1,
	}

	return Config{
		Type:     OnlineExp,
		MaxSteps: steps,
		EnvConf: envconfig.NewConfig(envconfig.LinearGaussian,
			envconfig.Uniform, 3, 4, 0, envBatch, 0.1),
		AgentConf: agent.NewTypedConfig(agentConf),
	}
}

func TestOnlineRun(t *testing.T) {
	const steps = 50
	dir := t.TempDir()

	rewards := tracker.NewReward(filepath.Join(dir, "reward.bin"))
	regret := tracker.NewRegret(filepath.Join(dir, "regret.bin"))
	losses := tracker.NewLoss(filepath.Join(dir, "loss.bin"))

	exp, err := newConfig(t, steps).CreateExp(1, rewards, regret)
	require.NoError(t, err)
	defer exp.Close()
	exp.Register(losses)

	require.NoError(t, exp.Run(context.Background()))

	// Each step collects envBatch interactions, and every full batch of
	// testTrainBatch interactions is trained on
	wantTrainSteps := steps * envBatch / testTrainBatch
	assert.Len(t, rewards.Data(), steps)
	assert.Len(t, regret.Data(), steps)
	assert.Len(t, losses.Data(), wantTrainSteps)
	assert.Equal(t, int64(wantTrainSteps), exp.Agent().TrainStep())

	for _, r := range regret.Data() {
		assert.GreaterOrEqual(t, r, 0.0)
	}
	assert.InDelta(t, floats.Sum(regret.Data()), regret.Cumulative(), 1e-9)

	require.NoError(t, exp.Save())
	saved, err := tracker.LoadData(filepath.Join(dir, "reward.bin"))
	require.NoError(t, err)
	assert.Equal(t, rewards.Data(), saved)

	// Running a finished experiment is a no-op
	require.NoError(t, exp.Run(context.Background()))
	assert.Len(t, rewards.Data(), steps)
}

func TestOnlineTrainInterval(t *testing.T) {
	const steps = 12
	c := newConfig(t, steps)
	c.TrainInterval = 6

	losses := tracker.NewLoss(filepath.Join(t.TempDir(), "loss.bin"))
	exp, err := c.CreateExp(2, losses)
	require.NoError(t, err)
	defer exp.Close()

	o := exp.(*Online)
	for i := 0; i < 5; i++ {
		require.NoError(t, o.Step())
	}
	assert.Equal(t, int64(0), o.Agent().TrainStep())

	// 6 steps of 4 interactions are 3 batches of 8
	require.NoError(t, o.Step())
	assert.Equal(t, int64(3), o.Agent().TrainStep())

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, steps, o.CurrentSteps())
	assert.Len(t, losses.Data(), 6)
}

func TestOnlineCancel(t *testing.T) {
	exp, err := newConfig(t, 100).CreateExp(3)
	require.NoError(t, err)
	defer exp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, exp.Run(ctx), context.Canceled)
	assert.Equal(t, 0, exp.(*Online).CurrentSteps())
}

func TestOnlineCheckpoint(t *testing.T) {
	const steps = 20
	dir := t.TempDir()

	c := newConfig(t, steps)
	c.CheckpointInterval = 5
	c.CheckpointFile = filepath.Join(dir, "net")

	exp, err := c.CreateExp(4)
	require.NoError(t, err)
	defer exp.Close()
	require.NoError(t, exp.Run(context.Background()))

	// 10 training steps, checkpointed at steps 5 and 10
	files, err := filepath.Glob(filepath.Join(dir, "net-*.bin"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "net-5.bin"),
		filepath.Join(dir, "net-10.bin"),
	}, files)

	// The last checkpoint holds the current weights
	var net network.RewardMLP
	require.NoError(t, checkpointer.Load(filepath.Join(dir, "net-10.bin"),
		&net))
	defer net.Close()

	trained := exp.Agent().(*neuralegreedy.NeuralEGreedy).Network()
	want := trained.Variables()
	have := net.Variables()
	require.Len(t, have, len(want))
	for i := range want {
		assert.Equal(t, want[i].Value().Data(), have[i].Value().Data())
	}

	obs := tensor.New(tensor.WithShape(2, 3),
		tensor.WithBacking([]float64{0.1, -0.2, 0.3, 0.5, 0.0, -0.9}))
	wantPred, _, err := trained.Call(obs, nil, nil)
	require.NoError(t, err)
	havePred, _, err := net.Call(obs, nil, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, wantPred.Data(), havePred.Data(), 1e-12)
}

// countingPolicy wraps a Policy and keeps a per-element count of the
// decisions it has made in its state
type countingPolicy struct {
	policy.Policy
	seen []float64
}

func (c *countingPolicy) StateSpec() spec.Nest {
	return spec.Tuple{spec.NewSpec("count", tensor.ScalarShape(),
		tensor.Float64)}
}

func (c *countingPolicy) Distribution(t ts.TimeStep,
	state network.State) (policy.Step, error) {
	step, err := c.Policy.Distribution(t, state)
	if err != nil {
		return step, err
	}

	count := state[0].Data().([]float64)
	c.seen = append(c.seen, count[0])
	next := make([]float64, len(count))
	for i := range count {
		next[i] = count[i] + 1
	}
	step.State = network.State{tensor.New(tensor.WithShape(len(next)),
		tensor.WithBacking(next))}
	return step, nil
}

type countingAgent struct {
	agent.Agent
	collect *countingPolicy
}

func (c *countingAgent) CollectPolicy() policy.Policy {
	return c.collect
}

func TestOnlinePolicyState(t *testing.T) {
	const steps = 5
	exp, err := newConfig(t, steps).CreateExp(6)
	require.NoError(t, err)
	defer exp.Close()

	o := exp.(*Online)
	collect := &countingPolicy{Policy: o.agent.CollectPolicy()}
	o.agent = &countingAgent{Agent: o.agent, collect: collect}

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, collect.seen)
	require.Len(t, o.state, 1)
	assert.Equal(t, tensor.Shape{envBatch}, o.state[0].Shape())
}

func TestConfigJSON(t *testing.T) {
	c := newConfig(t, 30)
	c.TrainInterval = 2

	data, err := json.Marshal(c)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, data, 0o600))

	loaded, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, c.MaxSteps, loaded.MaxSteps)
	assert.Equal(t, c.TrainInterval, loaded.TrainInterval)
	assert.Equal(t, c.EnvConf, loaded.EnvConf)
	assert.Equal(t, agent.NeuralEGreedyMLP, loaded.AgentConf.Type)

	rewards := tracker.NewReward(filepath.Join(t.TempDir(), "reward.bin"))
	exp, err := loaded.CreateExp(5, rewards)
	require.NoError(t, err)
	defer exp.Close()
	require.NoError(t, exp.Run(context.Background()))
	assert.Len(t, rewards.Data(), 30)
	assert.False(t, floats.HasNaN(rewards.Data()))
	assert.NotZero(t, stat.Variance(rewards.Data(), nil))
}

func TestConfigValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"type":       func(c *Config) { c.Type = "Offline" },
		"steps":      func(c *Config) { c.MaxSteps = 0 },
		"env":        func(c *Config) { c.EnvConf.Actions = 0 },
		"agent":      func(c *Config) { c.AgentConf = agent.TypedConfig{} },
		"checkpoint": func(c *Config) { c.CheckpointInterval = 3 },
	}

	require.NoError(t, newConfig(t, 1).Validate())
	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			c := newConfig(t, 1)
			modify(&c)
			assert.Error(t, c.Validate())

			_, err := c.CreateExp(0)
			assert.Error(t, err)
		})
	}
}
