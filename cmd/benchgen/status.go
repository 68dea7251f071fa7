package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benchgen/benchgen/internal/platform"
	"github.com/benchgen/benchgen/internal/state"
	"github.com/benchgen/benchgen/internal/upgrade"
)

// runStatus handles the `benchgen status` subcommand
func runStatus(args []string) error {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			printStatusHelp()
			return nil
		default:
			return fmt.Errorf("unknown option: %s\nRun 'benchgen status --help' for usage", arg)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	detector := platform.NewDetector()
	s, err := loadSettings(ctx, detector)
	if err != nil {
		return err
	}

	fmt.Printf("benchgen %s\n", Version)
	fmt.Println()

	if info, err := detector.Detect(ctx); err == nil {
		if d := info.GetDistro(); d != nil {
			fmt.Printf("Platform:          %s/%s (%s %s)\n", info.OS, info.Arch, d.ID, d.Version)
		} else {
			fmt.Printf("Platform:          %s/%s\n", info.OS, info.Arch)
		}
		fmt.Printf("Package column:    %s\n", info.Target())
	} else {
		fmt.Printf("Platform:          detection failed: %v\n", err)
	}

	installed, err := state.NewStore(s.StatePath()).Load()
	if err != nil {
		return fmt.Errorf("load installed state: %w", err)
	}
	if installed == nil {
		fmt.Println("Code generator:    not installed")
	} else {
		fmt.Printf("Code generator:    %s\n", installed.Version)
		fmt.Printf("Install path:      %s\n", installed.InstallPath)
	}

	if _, err := os.Stat(s.ConfigPath()); err == nil {
		fmt.Printf("Settings file:     %s\n", s.ConfigPath())
	} else {
		fmt.Println("Settings file:     none (defaults in effect)")
	}
	fmt.Printf("Release manifest:  %s\n", s.ManifestURL)
	if s.Prerelease {
		fmt.Println("Channel:           prerelease")
	}

	if held, age, err := upgrade.InspectLock(s.LockPath()); err == nil && held {
		if age > upgrade.StaleLockThreshold {
			fmt.Printf("Upgrade lock:      stale (untouched for %s); the next upgrade will break it\n", age.Round(time.Second))
		} else {
			fmt.Printf("Upgrade lock:      held (an upgrade started %s ago)\n", age.Round(time.Second))
		}
	}

	if j, err := upgrade.LatestJournal(s.JournalDir()); err == nil && j != nil {
		when := j.Timestamp.Local().Format("2006-01-02 15:04")
		switch j.State {
		case upgrade.JournalCompleted:
			fmt.Printf("Last upgrade:      installed %s on %s\n", j.ToVersion, when)
		case upgrade.JournalFailed:
			fmt.Printf("Last upgrade:      failed while %s on %s: %s\n", j.Step, when, j.LastError)
		default:
			fmt.Printf("Last upgrade:      %s to %s on %s\n", j.State, j.ToVersion, when)
		}
	}

	return nil
}

// printStatusHelp prints help for the status command
func printStatusHelp() {
	fmt.Println("Usage: benchgen status")
	fmt.Println()
	fmt.Println("Show the installed code generator version, the detected platform")
	fmt.Println("and the settings in effect. Never touches the network.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help  Show this help message")
	fmt.Println()
}
