package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Settings is the JSON settings file. Unlike EnvConfig it can change at
// runtime: the file is watched and reloaded on write.
type Settings struct {
	// Video catalog API base URL
	CatalogBaseURL string `json:"catalogBaseUrl"`
	// Generative text API base URL
	GenAIBaseURL string `json:"genAiBaseUrl"`
	// Model candidates in failover order: primary, secondary, tertiary
	Models []string `json:"models"`
	// When true, never issue upstream calls; serve bundled mock data only
	MockOnly bool `json:"mockOnly,omitempty"`
	// Max videos fetched per related-videos lookup for recommendations
	RelatedFetchSize int `json:"relatedFetchSize,omitempty"`
}

// DefaultSettings returns the settings used when no file exists yet
func DefaultSettings() Settings {
	return Settings{
		CatalogBaseURL: "https://www.googleapis.com/youtube/v3",
		GenAIBaseURL:   "https://generativelanguage.googleapis.com/v1beta",
		Models: []string{
			"gemini-2.0-flash",
			"gemini-1.5-flash",
			"gemini-1.5-flash-8b",
		},
		RelatedFetchSize: 20,
	}
}

// SettingsManager loads the settings file and hot-reloads it on change
type SettingsManager struct {
	mu           sync.RWMutex
	settings     Settings
	settingsFile string
	watcher      *fsnotify.Watcher
}

// NewSettingsManager creates a settings manager backed by the given file
func NewSettingsManager(settingsFile string) (*SettingsManager, error) {
	sm := &SettingsManager{settingsFile: settingsFile}

	if err := sm.load(); err != nil {
		return nil, err
	}

	if err := sm.startWatcher(); err != nil {
		log.Printf("⚠️ Failed to start settings file watcher: %v", err)
	}

	return sm, nil
}

// load reads the settings file, creating it with defaults if missing
func (sm *SettingsManager) load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, err := os.Stat(sm.settingsFile); os.IsNotExist(err) {
		sm.settings = DefaultSettings()

		if err := os.MkdirAll(filepath.Dir(sm.settingsFile), 0755); err != nil {
			return err
		}
		return sm.saveLocked()
	}

	data, err := os.ReadFile(sm.settingsFile)
	if err != nil {
		return err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	// Fill gaps left by hand-edited files
	defaults := DefaultSettings()
	if s.CatalogBaseURL == "" {
		s.CatalogBaseURL = defaults.CatalogBaseURL
	}
	if s.GenAIBaseURL == "" {
		s.GenAIBaseURL = defaults.GenAIBaseURL
	}
	if len(s.Models) == 0 {
		s.Models = defaults.Models
	}
	if s.RelatedFetchSize <= 0 {
		s.RelatedFetchSize = defaults.RelatedFetchSize
	}

	sm.settings = s
	return nil
}

// saveLocked writes the settings file (caller holds the lock)
func (sm *SettingsManager) saveLocked() error {
	data, err := json.MarshalIndent(sm.settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sm.settingsFile, data, 0644)
}

// Get returns a copy of the current settings
func (sm *SettingsManager) Get() Settings {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s := sm.settings
	s.Models = append([]string(nil), sm.settings.Models...)
	return s
}

// Update replaces the settings and persists them
func (sm *SettingsManager) Update(s Settings) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.settings = s
	if err := sm.saveLocked(); err != nil {
		return err
	}

	log.Printf("✅ Settings updated")
	return nil
}

// startWatcher watches the settings file for external edits
func (sm *SettingsManager) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	sm.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					log.Printf("🔄 Settings file changed, reloading...")
					if err := sm.load(); err != nil {
						log.Printf("⚠️ Settings reload failed: %v", err)
					} else {
						log.Printf("✅ Settings reloaded")
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️ Settings watcher error: %v", err)
			}
		}
	}()

	return watcher.Add(sm.settingsFile)
}

// Close stops the settings file watcher
func (sm *SettingsManager) Close() error {
	if sm.watcher != nil {
		return sm.watcher.Close()
	}
	return nil
}

// MaskAPIKey hides the middle of a credential for log output
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}

	length := len(key)
	if length <= 10 {
		if length <= 5 {
			return "***"
		}
		return key[:3] + "***" + key[length-2:]
	}
	return key[:6] + "***" + key[length-4:]
}
