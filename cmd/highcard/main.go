package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Train    TrainCmd         `cmd:"" help:"Train the policy by self-play"`
	Play     PlayCmd          `cmd:"" help:"Play a hand against the trained policy"`
	Simulate SimulateCmd      `cmd:"" help:"Evaluate the trained policy against a random baseline"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("highcard"),
		kong.Description("Tabular Q-learning for the high-card duel"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: level})
}
