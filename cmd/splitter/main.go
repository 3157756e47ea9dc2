package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/splitter/internal/cli"
	"github.com/mmynk/splitter/pkg/logging"
)

var verbose = flag.Bool("v", false, "log debug output to stderr")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander)

	flag.Parse()
	if *verbose {
		logging.SetupWithLevel(slog.LevelDebug)
	} else {
		logging.Setup()
	}
	os.Exit(int(commander.Execute(context.Background())))
}
