package main

import (
	"fmt"
	"os"

	"github.com/benchgen/benchgen/internal/settings"
)

// runInit handles the `benchgen init` subcommand
func runInit(args []string) error {
	showHelp := false
	force := false

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--force", "-f":
			force = true
		default:
			return fmt.Errorf("unknown option: %s\nRun 'benchgen init --help' for usage", arg)
		}
	}

	if showHelp {
		printInitHelp()
		return nil
	}

	s, err := settings.Default()
	if err != nil {
		return fmt.Errorf("resolve benchgen directory: %w", err)
	}

	if _, err := os.Stat(s.ConfigPath()); err == nil && !force {
		return fmt.Errorf("settings file already exists at %s\nUse --force to overwrite it", s.ConfigPath())
	}

	content, err := settings.NewGenerator().Generate(s)
	if err != nil {
		return fmt.Errorf("render settings file: %w", err)
	}

	if err := os.MkdirAll(s.HomeDir, 0700); err != nil {
		return fmt.Errorf("create benchgen directory: %w", err)
	}
	if err := os.WriteFile(s.ConfigPath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	fmt.Printf("Created %s\n", s.ConfigPath())
	fmt.Println()
	fmt.Println("Edit it to change the manifest URL, install directory or")
	fmt.Println("prerelease channel, then run 'benchgen upgrade'.")
	return nil
}

// printInitHelp prints help for the init command
func printInitHelp() {
	fmt.Println("Usage: benchgen init [options]")
	fmt.Println()
	fmt.Println("Write a starter benchgen.lua settings file with the current")
	fmt.Println("defaults filled in.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help   Show this help message")
	fmt.Println("  -f, --force  Overwrite an existing settings file")
	fmt.Println()
	fmt.Println("The settings file is plain Lua; a read-only 'platform' table")
	fmt.Println("describing this machine is available for conditional values.")
	fmt.Println()
}
