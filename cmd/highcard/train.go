package main

import (
	"context"
	"os"

	"github.com/coder/quartz"

	"github.com/lox/highcard/internal/progress"
	"github.com/lox/highcard/internal/qtable"
	"github.com/lox/highcard/internal/trainer"
)

type TrainCmd struct {
	Config string `default:"highcard.hcl" help:"Optional HCL config file"`
	Input  string `short:"i" help:"Prior table to continue training from"`
	Output string `short:"o" default:"qtable.txt" help:"Where to write the trained table"`

	// Pointer flags so an explicit flag overrides the config file while an
	// omitted one falls through to it.
	Epochs          *int     `help:"Number of self-play episodes"`
	LearningRate    *float64 `name:"learning-rate" help:"TD step size"`
	Discount        *float64 `help:"Bootstrap discount factor"`
	Epsilon         *float64 `help:"Initial exploration rate"`
	FinalReward     *float64 `name:"final-reward" help:"Terminal shaping bonus"`
	Seed            *int64   `help:"RNG seed (0 draws from the clock)"`
	CheckpointEvery *int     `name:"checkpoint-every" help:"Write the table every N episodes"`

	Quiet   bool `short:"q" help:"Suppress the progress display"`
	Verbose bool `help:"Verbose logging"`
}

func (c *TrainCmd) Run() error {
	logger := newLogger(c.Verbose)

	cfg, err := trainer.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Epochs != nil {
		cfg.Epochs = *c.Epochs
	}
	if c.LearningRate != nil {
		cfg.LearningRate = *c.LearningRate
	}
	if c.Discount != nil {
		cfg.Discount = *c.Discount
	}
	if c.Epsilon != nil {
		cfg.Epsilon = *c.Epsilon
	}
	if c.FinalReward != nil {
		cfg.FinalReward = *c.FinalReward
	}
	if c.Seed != nil {
		cfg.Seed = *c.Seed
	}
	if c.CheckpointEvery != nil {
		cfg.CheckpointEvery = *c.CheckpointEvery
	}
	cfg.CheckpointPath = c.Output

	table := qtable.New(cfg.HandSize)
	if c.Input != "" {
		if err := table.ReadFile(c.Input, logger); err != nil {
			return err
		}
	} else {
		table.Init()
	}

	tr, err := trainer.New(cfg, table, logger)
	if err != nil {
		return err
	}
	logger.Info("training", "epochs", cfg.Epochs, "states", table.Len(), "seed", tr.Seed())

	var rep progress.Reporter
	if !c.Quiet {
		rep = progress.ForTerminal(os.Stdout, quartz.NewReal(), cfg.Epochs)
		rep.Start()
	}
	err = tr.Run(context.Background(), func(p trainer.Progress) {
		if rep != nil {
			rep.Episode(p.Episode, p.States)
		}
	})
	if rep != nil {
		rep.Finish()
	}
	if err != nil {
		return err
	}

	if err := table.WriteFile(c.Output); err != nil {
		return err
	}
	logger.Info("wrote table", "path", c.Output, "states", table.Len())
	return nil
}
