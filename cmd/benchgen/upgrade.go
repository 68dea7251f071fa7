package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benchgen/benchgen/internal/platform"
	"github.com/benchgen/benchgen/internal/semver"
	"github.com/benchgen/benchgen/internal/upgrade"
)

// runUpgrade handles the `benchgen upgrade` subcommand
func runUpgrade(args []string) error {
	showHelp := false
	prerelease := false
	force := false
	manifestURL := ""
	targetName := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--prerelease":
			prerelease = true
		case "--force":
			force = true
		case "--manifest":
			if i+1 >= len(args) {
				return fmt.Errorf("--manifest requires a URL\nRun 'benchgen upgrade --help' for usage")
			}
			i++
			manifestURL = args[i]
		case "--target":
			if i+1 >= len(args) {
				return fmt.Errorf("--target requires a platform name\nRun 'benchgen upgrade --help' for usage")
			}
			i++
			targetName = args[i]
		default:
			return fmt.Errorf("unknown option: %s\nRun 'benchgen upgrade --help' for usage", arg)
		}
	}

	if showHelp {
		printUpgradeHelp()
		return nil
	}

	// Generous ceiling for the whole run; the HTTP client carries the
	// per-request timeout from settings.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	detector := platform.NewDetector()
	s, err := loadSettings(ctx, detector)
	if err != nil {
		return err
	}

	if manifestURL != "" {
		s = s.WithManifestURL(manifestURL)
	}
	if prerelease {
		s = s.WithPrerelease(true)
	}
	if err := s.Validate(); err != nil {
		return err
	}

	target := platform.CurrentTarget()
	if targetName != "" {
		// An explicit target skips detection and the distro warning.
		target, err = platform.ParseTarget(targetName)
		if err != nil {
			return err
		}
	} else if info, err := detector.Detect(ctx); err == nil {
		target = info.Target()
		if info.IsLinux() && !info.IsDebianFamily() {
			if d := info.GetDistro(); d != nil {
				fmt.Fprintf(os.Stderr, "Warning: code generator packages are built for Ubuntu; installing the Ubuntu build on %s\n", d.ID)
			} else {
				fmt.Fprintln(os.Stderr, "Warning: code generator packages are built for Ubuntu; installing the Ubuntu build on this distribution")
			}
		}
	}

	reporter := &consoleReporter{}
	up, err := upgrade.New(s, semver.Parse(Version),
		upgrade.WithTarget(target),
		upgrade.WithReporter(reporter),
		upgrade.WithProgress(reporter.bar.update),
		upgrade.WithForce(force),
	)
	if err != nil {
		return err
	}

	_, err = up.Run(ctx)
	return err
}

// printUpgradeHelp prints help for the upgrade command
func printUpgradeHelp() {
	fmt.Println("Usage: benchgen upgrade [options]")
	fmt.Println()
	fmt.Println("Check the release manifest and install the newest compatible")
	fmt.Println("code generator build for this machine.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help        Show this help message")
	fmt.Println("  --prerelease      Take the newest listed build even if it asks for a newer workbench")
	fmt.Println("  --manifest <url>  Override the release manifest URL")
	fmt.Println("  --target <name>   Install the win32, macOS or ubuntu package instead of auto-detecting")
	fmt.Println("  --force           Reinstall even when already on the newest version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  benchgen upgrade                Install the newest compatible build")
	fmt.Println("  benchgen upgrade --prerelease   Opt into prerelease builds")
	fmt.Println("  benchgen upgrade --force        Reinstall the current version")
	fmt.Println()
}
