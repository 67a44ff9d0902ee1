package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/example/hades-route-manager/internal/cli"
	"github.com/example/hades-route-manager/internal/routes"
	"github.com/example/hades-route-manager/internal/routes/config"
)

var exitFunc = os.Exit

func main() {
	if err := run(os.Args[1:], cli.NewPromptUI(), os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func run(args []string, prompter cli.Prompter, stdout, stderr io.Writer) error {
	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, config.DefaultPath())
	if err != nil {
		return err
	}

	configured, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	level := new(slog.LevelVar)
	level.Set(configured)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	mgr := routes.NewManager(fs, cfg, logger)
	root := cli.NewRootCommand(mgr, prompter, stdout, stderr)

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			level.Set(slog.LevelDebug)
		}
	}
	root.SetArgs(args)
	return root.Execute()
}
