package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/storyshelf/internal/config"
	"github.com/mrlokans/storyshelf/internal/entrypoint"
)

// Set at build time via -ldflags "-X main.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
)

type command struct {
	name  string
	usage string
	run   func() error
}

var commands = []command{
	{"serve", "Start the HTTP server (default)", serve},
	{"seed", "Insert the demo author and stories into an empty database", seed},
	{"version", "Print version information", printVersion},
	{"help", "Show this message", func() error { printUsage(); return nil }},
}

func main() {
	name := "serve"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}
	if name == "-h" || name == "--help" {
		name = "help"
	}

	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		if err := cmd.run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	printUsage()
	os.Exit(2)
}

func serve() error {
	entrypoint.Run(config.NewConfig(), Version)
	return nil
}

func seed() error {
	return entrypoint.Seed(config.NewConfig())
}

func printVersion() error {
	fmt.Printf("storyshelf %s (%s)\n", Version, Commit)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [command]\n\nCommands:\n", os.Args[0])
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", cmd.name, cmd.usage)
	}
	fmt.Fprintln(os.Stderr, "\nSettings come from environment variables, e.g. PORT, DATABASE_PATH, TRANSLATION_API_KEY.")
}
