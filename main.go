package main

import (
	"fmt"
	"os"

	"github.com/yukinote/yuki/internal/cli"
	"github.com/yukinote/yuki/internal/config"
	"github.com/yukinote/yuki/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "search":
		cmd = cli.NewSearchCommand(config.NewConfig())
	case "quiz-save":
		cmd = cli.NewQuizSaveCommand(config.NewConfig())
	case "quiz-list":
		cmd = cli.NewQuizListCommand(config.NewConfig())
	case "snapshot-export":
		cmd = cli.NewSnapshotExportCommand(config.NewConfig())
	case "snapshot-reset":
		cmd = cli.NewSnapshotResetCommand(config.NewConfig())
	case "version":
		fmt.Printf("yuki %s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve             Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  search            Search dictionary entries\n")
	fmt.Fprintf(os.Stderr, "  quiz-save         Save generated quiz questions from a JSON file\n")
	fmt.Fprintf(os.Stderr, "  quiz-list         List saved quiz questions\n")
	fmt.Fprintf(os.Stderr, "  snapshot-export   Write the current store to a SQLite file\n")
	fmt.Fprintf(os.Stderr, "  snapshot-reset    Discard the persisted store\n")
	fmt.Fprintf(os.Stderr, "  version           Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
