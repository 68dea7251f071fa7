package upgrade

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JournalState tracks how far an upgrade attempt got.
type JournalState string

const (
	JournalPending    JournalState = "pending"
	JournalInProgress JournalState = "in_progress"
	JournalCompleted  JournalState = "completed"
	JournalFailed     JournalState = "failed"
)

// Journal records a single upgrade attempt for post-mortem
// inspection. It is written atomically at every transition, so a
// crashed or failed run leaves an accurate record of how far it got.
type Journal struct {
	Version     int          `json:"version"`
	ID          string       `json:"id"`
	Timestamp   time.Time    `json:"timestamp"`
	FromVersion string       `json:"fromVersion,omitempty"`
	ToVersion   string       `json:"toVersion"`
	PackageURL  string       `json:"packageUrl"`
	State       JournalState `json:"state"`
	Step        string       `json:"step,omitempty"`
	LastError   string       `json:"lastError,omitempty"`
}

// newJournal starts a pending record for an upgrade from fromVersion
// (empty on first install) to toVersion.
func newJournal(fromVersion, toVersion, packageURL string) *Journal {
	return &Journal{
		Version:     1,
		ID:          uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		FromVersion: fromVersion,
		ToVersion:   toVersion,
		PackageURL:  packageURL,
		State:       JournalPending,
	}
}

// Save writes the journal to dir atomically via write-then-rename.
func (j *Journal) Save(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	finalPath := filepath.Join(dir, "journal-"+j.ID+".json")
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temporary journal file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename journal file: %w", err)
	}

	if df, err := os.Open(dir); err == nil {
		df.Sync()
		df.Close()
	}
	return nil
}

// LoadJournal reads one journal record from path.
func LoadJournal(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal file: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("unmarshal journal: %w", err)
	}
	return &j, nil
}

// LatestJournal returns the most recent journal record in dir, or
// (nil, nil) when none exist.
func LatestJournal(dir string) (*Journal, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal directory: %w", err)
	}

	var latestPath string
	var latestMod time.Time
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "journal-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latestPath == "" || info.ModTime().After(latestMod) {
			latestPath = filepath.Join(dir, name)
			latestMod = info.ModTime()
		}
	}

	if latestPath == "" {
		return nil, nil
	}
	return LoadJournal(latestPath)
}
