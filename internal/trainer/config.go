package trainer

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/highcard/internal/qtable"
)

// Config aggregates the parameters that control a training run.
type Config struct {
	Epochs          int     // number of self-play episodes
	LearningRate    float64 // TD step size
	Discount        float64 // bootstrap discount factor
	Epsilon         float64 // initial exploration rate, decayed per episode
	RoundReward     float64 // reward magnitude for winning a round
	FinalReward     float64 // flat terminal shaping bonus per step
	Seed            int64   // 0 draws a seed from the clock
	HandSize        int
	CheckpointPath  string // optional: table snapshot destination
	CheckpointEvery int    // snapshot cadence in episodes; 0 disables
	ProgressEvery   int    // progress callback cadence; 0 picks ~1%
}

// DefaultConfig returns the parameters used by the stock training run.
func DefaultConfig() Config {
	return Config{
		Epochs:       10000,
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		RoundReward:  1,
		FinalReward:  0.1,
		HandSize:     qtable.HandSize,
	}
}

// Validate ensures the parameters are safe to train with.
func (c Config) Validate() error {
	if c.Epochs <= 0 {
		return errors.New("epochs must be > 0")
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return errors.New("learning rate must be in (0, 1]")
	}
	if c.Discount < 0 || c.Discount > 1 {
		return errors.New("discount factor must be in [0, 1]")
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return errors.New("epsilon must be in [0, 1]")
	}
	if c.RoundReward <= 0 {
		return errors.New("round reward must be > 0")
	}
	if c.FinalReward < 0 {
		return errors.New("final reward cannot be negative")
	}
	if c.HandSize < 2 {
		return errors.New("hand size must be >= 2")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}
	return nil
}

// fileConfig mirrors the optional HCL configuration file:
//
//	training {
//	  epochs        = 50000
//	  learning_rate = 0.1
//	  discount      = 0.9
//	  epsilon       = 0.1
//	  final_reward  = 0.1
//	  seed          = 1
//	}
type fileConfig struct {
	Training *trainingBlock `hcl:"training,block"`
}

type trainingBlock struct {
	Epochs          *int     `hcl:"epochs,optional"`
	LearningRate    *float64 `hcl:"learning_rate,optional"`
	Discount        *float64 `hcl:"discount,optional"`
	Epsilon         *float64 `hcl:"epsilon,optional"`
	RoundReward     *float64 `hcl:"round_reward,optional"`
	FinalReward     *float64 `hcl:"final_reward,optional"`
	Seed            *int64   `hcl:"seed,optional"`
	CheckpointEvery *int     `hcl:"checkpoint_every,optional"`
}

// LoadConfig overlays the HCL file at path onto DefaultConfig. A missing
// file returns the defaults unchanged, so a config file is never required.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("parse config %s: %s", path, diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return cfg, fmt.Errorf("decode config %s: %s", path, diags.Error())
	}
	if fc.Training == nil {
		return cfg, nil
	}

	b := fc.Training
	if b.Epochs != nil {
		cfg.Epochs = *b.Epochs
	}
	if b.LearningRate != nil {
		cfg.LearningRate = *b.LearningRate
	}
	if b.Discount != nil {
		cfg.Discount = *b.Discount
	}
	if b.Epsilon != nil {
		cfg.Epsilon = *b.Epsilon
	}
	if b.RoundReward != nil {
		cfg.RoundReward = *b.RoundReward
	}
	if b.FinalReward != nil {
		cfg.FinalReward = *b.FinalReward
	}
	if b.Seed != nil {
		cfg.Seed = *b.Seed
	}
	if b.CheckpointEvery != nil {
		cfg.CheckpointEvery = *b.CheckpointEvery
	}
	return cfg, nil
}
