package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	stylesheet = "css/styles.css"
	appScript  = "js/app.js"
)

// Manifest maps source asset paths to their fingerprinted build output.
// Without a manifest (local development) paths are served unchanged.
type Manifest struct {
	mu        sync.RWMutex
	assets    map[string]string
	staticDir string
}

func NewManifest(staticDir string) *Manifest {
	return &Manifest{
		assets:    make(map[string]string),
		staticDir: staticDir,
	}
}

// Load reads dist/manifest.json under the static directory.
func (m *Manifest) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	manifestPath := filepath.Join(m.staticDir, "dist", "manifest.json")

	// #nosec G304 -- staticDir comes from configuration, not user input
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.assets = make(map[string]string)
			return nil
		}
		return fmt.Errorf("reading asset manifest: %w", err)
	}

	assets := make(map[string]string)
	if err := json.Unmarshal(data, &assets); err != nil {
		return fmt.Errorf("parsing asset manifest: %w", err)
	}
	m.assets = assets
	return nil
}

// Get returns the URL for an asset.
func (m *Manifest) Get(path string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if hashed, ok := m.assets[path]; ok {
		return "/static/" + hashed
	}
	return "/static/" + path
}

func (m *Manifest) GetCSS() string {
	return m.Get(stylesheet)
}

// GetAppJS returns the script carrying the ideas widget and parallax effect.
func (m *Manifest) GetAppJS() string {
	return m.Get(appScript)
}
