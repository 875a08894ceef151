package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const exportExt = ".json"

// Export is the file format of an exported collection
type Export struct {
	Name       string      `json:"name"`
	ExportedAt time.Time   `json:"exported_at"`
	Data       interface{} `json:"data"`
}

// Manager handles export files and already-exported detection
type Manager struct {
	outputDir string
	exported  map[string]bool
	now       func() time.Time
	mu        sync.RWMutex
}

// NewManager creates outputDir if needed and indexes the exports in it
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir: outputDir,
		exported:  make(map[string]bool),
		now:       time.Now,
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == exportExt {
			m.exported[strings.TrimSuffix(entry.Name(), exportExt)] = true
		}
	}

	return nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.outputDir, name+exportExt)
}

// IsExported reports whether name was exported, by this manager or earlier
func (m *Manager) IsExported(name string) bool {
	m.mu.RLock()
	known := m.exported[name]
	m.mu.RUnlock()
	if known {
		return true
	}

	if _, err := os.Stat(m.path(name)); err == nil {
		m.mu.Lock()
		m.exported[name] = true
		m.mu.Unlock()
		return true
	}
	return false
}

// Export writes data to <name>.json, replacing an earlier export
func (m *Manager) Export(name string, data interface{}) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid export name %q", name)
	}

	content, err := json.MarshalIndent(Export{Name: name, ExportedAt: m.now().UTC(), Data: data}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}

	filename := m.path(name)
	tempFile := filename + ".tmp"
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write export: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.mu.Lock()
	m.exported[name] = true
	m.mu.Unlock()

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetExportedCount returns the number of known exports
func (m *Manager) GetExportedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exported)
}
