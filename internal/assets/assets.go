// Package assets resolves model paths across a stack of GRF archives.
package assets

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Faultbox/midgard-strip/pkg/grf"
)

// ErrNotFound is returned when no archive holds a path.
var ErrNotFound = errors.New("asset not found")

// Manager handles asset loading from GRF files.
type Manager struct {
	archives []*grf.Archive
	paths    []string
	mu       sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddArchive adds a GRF archive to the manager.
// Archives are searched in reverse order (last added = highest priority).
func (m *Manager) AddArchive(path string) error {
	archive, err := grf.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", path, err)
	}

	m.mu.Lock()
	m.archives = append(m.archives, archive)
	m.paths = append(m.paths, path)
	m.mu.Unlock()

	return nil
}

// Archives returns the paths of the opened archives in priority order,
// lowest first.
func (m *Manager) Archives() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.paths)
}

// Load loads a file from the highest priority archive that has it.
func (m *Manager) Load(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.archives) - 1; i >= 0; i-- {
		if !m.archives[i].Contains(path) {
			continue
		}
		data, err := m.archives[i].Read(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.paths[i], err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Glob returns the sorted union of matching paths across all archives.
func (m *Manager) Glob(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var result []string
	for _, a := range m.archives {
		matches, err := a.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, p := range matches {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				result = append(result, p)
			}
		}
	}
	slices.Sort(result)
	return result, nil
}

// Close closes all archives.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, archive := range m.archives {
		archive.Close()
	}
	m.archives = nil
	m.paths = nil
}
