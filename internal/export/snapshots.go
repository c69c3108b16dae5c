package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"kalshi-portfolio-tracker/internal/kalshi"
)

const snapshotPrefix = "kalshi_data_"

// Manager owns a data directory of timestamped portfolio snapshots.
type Manager struct {
	dataDir string
	logger  *zap.Logger
}

// NewManager creates the data directory if needed.
func NewManager(dataDir string, logger *zap.Logger) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{dataDir: dataDir, logger: logger}, nil
}

// SaveSnapshot writes the snapshot as a timestamped JSON file and returns
// the file path.
func (m *Manager) SaveSnapshot(snap *kalshi.Snapshot) (string, error) {
	name := snapshotPrefix + snap.FetchedAt.Format("20060102_150405") + ".json"
	path := filepath.Join(m.dataDir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	m.logger.Info("snapshot saved",
		zap.String("path", path),
		zap.Int("fills", len(snap.Fills)),
		zap.Int("settlements", len(snap.Settlements)),
	)
	return path, nil
}

// ListSnapshots returns snapshot filenames sorted oldest first.
// The timestamp format sorts lexicographically.
func (m *Manager) ListSnapshots() ([]string, error) {
	entries, err := os.ReadDir(m.dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, snapshotPrefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadSnapshot reads one snapshot file by name.
func (m *Manager) LoadSnapshot(name string) (*kalshi.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(m.dataDir, name))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap kalshi.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// LoadLatestSnapshot loads the most recent snapshot, or an error if none exist.
func (m *Manager) LoadLatestSnapshot() (*kalshi.Snapshot, error) {
	names, err := m.ListSnapshots()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no snapshots in %s", m.dataDir)
	}
	return m.LoadSnapshot(names[len(names)-1])
}

// CleanupOldSnapshots deletes snapshot files older than keepDays.
// Returns the number of files removed.
func (m *Manager) CleanupOldSnapshots(keepDays int) (int, error) {
	names, err := m.ListSnapshots()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -keepDays)
	removed := 0
	for _, name := range names {
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, snapshotPrefix), ".json")
		ts, err := time.Parse("20060102_150405", stamp)
		if err != nil {
			continue // not one of ours
		}
		if ts.Before(cutoff) {
			if err := os.Remove(filepath.Join(m.dataDir, name)); err != nil {
				return removed, fmt.Errorf("removing %s: %w", name, err)
			}
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info("cleaned up old snapshots", zap.Int("removed", removed))
	}
	return removed, nil
}
