package main

import (
	"fmt"
	"os"

	"github.com/udb/authordirectory/internal/cli"
	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type subcommand interface {
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

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed-genres":
		runCommand(cli.NewSeedGenresCommand(config.NewConfig()), args)

	case "audit-cleanup":
		runCommand(cli.NewAuditCleanupCommand(config.NewConfig()), args)

	case "hash-password":
		runCommand(cli.NewHashPasswordCommand(config.NewConfig()), args)

	case "version":
		fmt.Printf("%s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCommand(cmd subcommand, args []string) {
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
	fmt.Fprintf(os.Stderr, "  serve          Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  seed-genres    Add missing genres from a YAML file or the built-in list\n")
	fmt.Fprintf(os.Stderr, "  audit-cleanup  Delete old audit events and expired sessions\n")
	fmt.Fprintf(os.Stderr, "  hash-password  Read the editor password from stdin and print its bcrypt hash\n")
	fmt.Fprintf(os.Stderr, "  version        Print the build version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
