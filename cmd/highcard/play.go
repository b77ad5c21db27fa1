package main

import (
	"os"
	"time"

	"github.com/lox/highcard/internal/play"
	"github.com/lox/highcard/internal/qtable"
	"github.com/lox/highcard/internal/randutil"
)

type PlayCmd struct {
	Input   string `short:"i" default:"qtable.txt" help:"Trained table to play against"`
	Seed    int64  `help:"RNG seed (0 draws from the clock)"`
	Verbose bool   `help:"Verbose logging"`
}

func (c *PlayCmd) Run() error {
	logger := newLogger(c.Verbose)

	table := qtable.New(qtable.HandSize)
	if err := table.ReadFile(c.Input, logger); err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	game := play.New(table, os.Stdin, os.Stdout, randutil.New(seed))
	return game.Run()
}
