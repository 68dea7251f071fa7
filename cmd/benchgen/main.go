package main

import (
	"context"
	"fmt"
	"os"

	"github.com/benchgen/benchgen/internal/platform"
	"github.com/benchgen/benchgen/internal/settings"
)

// Version will be set at build time via -ldflags
var Version = "2.0.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version":
			fmt.Printf("benchgen %s\n", Version)
			fmt.Println("Code generator manager for the embedded IoT workbench")
			return
		case "upgrade":
			if err := runUpgrade(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "status":
			if err := runStatus(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "init":
			if err := runInit(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "help", "--help", "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
			fmt.Fprintln(os.Stderr, "Run 'benchgen help' for usage")
			os.Exit(1)
		}
	}

	printUsage()
}

func printUsage() {
	fmt.Println("benchgen - code generator manager for the embedded IoT workbench")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  benchgen upgrade [options]  Check for and install code generator updates")
	fmt.Println("  benchgen status             Show installed version and environment")
	fmt.Println("  benchgen init [options]     Write a starter benchgen.lua settings file")
	fmt.Println("  benchgen version            Show version information")
	fmt.Println("  benchgen help               Show this help message")
	fmt.Println()
	fmt.Println("Run 'benchgen <command> --help' for command options.")
}

// loadSettings resolves the built-in defaults and applies the user's
// benchgen.lua overrides when the file exists.
func loadSettings(ctx context.Context, detector platform.Detector) (settings.Settings, error) {
	base, err := settings.Default()
	if err != nil {
		return settings.Settings{}, fmt.Errorf("resolve benchgen directory: %w", err)
	}
	return settings.NewLoader(detector).Load(ctx, base)
}
