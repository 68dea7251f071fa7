// Package upgrade orchestrates a code generator upgrade from check to
// installed: load the recorded install, fetch the release document,
// pick a target version, download and verify its package, extract it
// and swap it into place. The recorded install state is rewritten only
// after every one of those steps has succeeded; any failure leaves the
// previous installation and its record untouched.
package upgrade

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/benchgen/benchgen/internal/fetch"
	"github.com/benchgen/benchgen/internal/install"
	"github.com/benchgen/benchgen/internal/manifest"
	"github.com/benchgen/benchgen/internal/platform"
	"github.com/benchgen/benchgen/internal/semver"
	"github.com/benchgen/benchgen/internal/settings"
	"github.com/benchgen/benchgen/internal/state"
)

// Upgrader runs the upgrade flow for one platform target.
type Upgrader struct {
	settings    settings.Settings
	hostVersion semver.Triple
	target      platform.Target
	client      fetch.HTTPClient
	progress    fetch.ProgressFunc
	reporter    Reporter
	force       bool

	store     *state.Store
	fetcher   *fetch.Fetcher
	installer *install.Installer
	state     State
}

// Option configures an Upgrader.
type Option func(*Upgrader)

// WithReporter routes run narration to r.
func WithReporter(r Reporter) Option {
	return func(u *Upgrader) { u.reporter = r }
}

// WithHTTPClient replaces the HTTP client used for the release
// document and package downloads. The client owns the retry policy.
func WithHTTPClient(client fetch.HTTPClient) Option {
	return func(u *Upgrader) { u.client = client }
}

// WithTarget overrides the detected platform target.
func WithTarget(target platform.Target) Option {
	return func(u *Upgrader) { u.target = target }
}

// WithProgress receives download progress callbacks.
func WithProgress(fn fetch.ProgressFunc) Option {
	return func(u *Upgrader) { u.progress = fn }
}

// WithForce reinstalls the selected version even when it is already
// current.
func WithForce(force bool) Option {
	return func(u *Upgrader) { u.force = force }
}

// New creates an Upgrader for the given settings. hostVersion is the
// running workbench version, matched against each release's minimum
// workbench requirement.
func New(s settings.Settings, hostVersion semver.Triple, opts ...Option) (*Upgrader, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	u := &Upgrader{
		settings:    s,
		hostVersion: hostVersion,
		target:      platform.CurrentTarget(),
		reporter:    defaultReporter(),
		state:       StateCheckNeeded,
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.client == nil {
		u.client = fetch.NewRetryingClient(&http.Client{Timeout: s.HTTPTimeout}, s.HTTPRetries)
	}

	fetchOpts := []fetch.Option{fetch.WithHTTPClient(u.client)}
	if u.progress != nil {
		fetchOpts = append(fetchOpts, fetch.WithProgress(u.progress))
	}
	if fileExists(s.KeyringPath) {
		fetchOpts = append(fetchOpts, fetch.WithSignatureVerifier(fetch.NewSignatureVerifier(s.KeyringPath, u.client)))
	}

	u.store = state.NewStore(s.StatePath())
	u.fetcher = fetch.NewFetcher(s.ScratchDir(), fetchOpts...)
	u.installer = install.NewInstaller()
	return u, nil
}

// State returns where the last Run ended up.
func (u *Upgrader) State() State {
	return u.state
}

// Run performs one upgrade pass. It returns true when a new version
// was installed and false when the install is already current or no
// release qualifies. On error the previous installation and its
// recorded state are guaranteed untouched.
func (u *Upgrader) Run(ctx context.Context) (bool, error) {
	flowLock, err := acquireLock(u.settings.LockPath())
	if err != nil {
		return false, err
	}
	defer flowLock.release()

	u.state = StateCheckNeeded
	u.reporter.Step("checking for code generator updates")

	current, err := u.store.Load()
	if err != nil {
		return u.fail(fmt.Errorf("load installed state: %w", err))
	}

	var currentVersion *semver.Triple
	fromVersion := ""
	if current != nil {
		v := semver.Parse(current.Version)
		currentVersion = &v
		fromVersion = current.Version
		u.reporter.Detail(fmt.Sprintf("installed version %s", current.Version))
	} else {
		u.reporter.Detail("no code generator installed yet")
	}

	doc, err := manifest.Fetch(ctx, u.client, u.settings.ManifestURL)
	if err != nil {
		var formatErr *manifest.FormatError
		if errors.As(err, &formatErr) {
			// A broken release document must never take down a
			// working install; skip the upgrade and keep what we
			// have.
			u.reporter.Warn(fmt.Sprintf("release document unusable, keeping current install: %v", err))
		}
		return u.fail(err)
	}

	selectAgainst := currentVersion
	if u.force {
		selectAgainst = nil
	}
	pick := manifest.SelectTarget(selectAgainst, doc.Items, u.hostVersion, u.settings.Prerelease)
	if pick == nil {
		u.state = StateIdle
		u.reporter.Step("code generator is up to date")
		return false, nil
	}

	pkg, err := pick.PackageFor(u.target)
	if err != nil {
		return u.fail(err)
	}

	journal := newJournal(fromVersion, pick.Version, pkg.URL)
	if err := journal.Save(u.settings.JournalDir()); err != nil {
		return u.fail(fmt.Errorf("write journal: %w", err))
	}

	u.state = StateFetching
	u.reporter.Step(fmt.Sprintf("downloading code generator %s for %s", pick.Version, u.target))
	if err := u.journalStep(journal, JournalInProgress, "fetching"); err != nil {
		return u.fail(err)
	}

	archivePath, err := u.fetcher.FetchVerified(ctx, pick, u.target)
	if err != nil {
		return u.failJournal(journal, err)
	}

	u.state = StateVerifying
	u.reporter.Detail("checksum verified")

	u.state = StateExtracting
	u.reporter.Step(fmt.Sprintf("installing into %s", u.settings.InstallDir))
	if err := u.journalStep(journal, JournalInProgress, "extracting"); err != nil {
		return u.fail(err)
	}

	if err := u.installer.Install(archivePath, u.settings.InstallDir); err != nil {
		return u.failJournal(journal, err)
	}

	// Only now, with the new version fully in place, is the record
	// rewritten.
	newState := state.InstalledState{
		Version:     pick.Version,
		InstallPath: u.settings.InstallDir,
	}
	if err := u.store.Save(newState); err != nil {
		return u.failJournal(journal, fmt.Errorf("record installed version: %w", err))
	}

	os.Remove(archivePath)

	if err := u.journalStep(journal, JournalCompleted, "installed"); err != nil {
		u.reporter.Warn(fmt.Sprintf("journal update failed: %v", err))
	}

	u.state = StateInstalled
	u.reporter.Step(fmt.Sprintf("code generator %s installed", pick.Version))
	return true, nil
}

// fail settles the run in the Failed state.
func (u *Upgrader) fail(err error) (bool, error) {
	u.state = StateFailed
	return false, err
}

// failJournal records err in the journal, then settles the run.
func (u *Upgrader) failJournal(journal *Journal, err error) (bool, error) {
	journal.State = JournalFailed
	journal.LastError = err.Error()
	if saveErr := journal.Save(u.settings.JournalDir()); saveErr != nil {
		u.reporter.Warn(fmt.Sprintf("journal update failed: %v", saveErr))
	}
	return u.fail(err)
}

// journalStep advances the journal and persists it.
func (u *Upgrader) journalStep(journal *Journal, js JournalState, step string) error {
	journal.State = js
	journal.Step = step
	if err := journal.Save(u.settings.JournalDir()); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
