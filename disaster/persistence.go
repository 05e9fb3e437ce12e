package disaster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reliefwatch/models"
)

// FileStore persists custom disaster types to a JSON file. Built-in default
// types are never written; they are recreated by NewManager on startup.
type FileStore struct {
	path  string
	mutex sync.Mutex
}

// NewFileStore creates a file store for the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type customTypesFile struct {
	CustomTypes []*models.DisasterType `json:"custom_types"`
	LastUpdated time.Time              `json:"last_updated"`
}

// Save writes the manager's custom types to the file, overwriting it.
func (fs *FileStore) Save(m *Manager) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	payload := customTypesFile{
		CustomTypes: m.CustomTypes(),
		LastUpdated: time.Now(),
	}

	// Ensure the directory exists.
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create disaster types directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal disaster types: %w", err)
	}

	if err := os.WriteFile(fs.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write disaster types file: %w", err)
	}

	return nil
}

// Load registers every stored custom type with the manager. A missing file
// is not an error; there is simply nothing to load. Types whose name is
// already registered are skipped.
func (fs *FileStore) Load(m *Manager) error {
	fs.mutex.Lock()
	defer fs.mutex.Unlock()

	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read disaster types file: %w", err)
	}

	var payload customTypesFile
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to parse disaster types file: %w", err)
	}

	for _, d := range payload.CustomTypes {
		// Hand-edited files may carry unnormalized names or aliases; rebuild
		// each entry so lookups stay case-insensitive.
		if err := m.Add(models.NewDisasterType(d.Name, d.Aliases, false)); err != nil {
			continue
		}
	}
	return nil
}
