package client

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Language is a UI language code.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

// Valid reports whether the code is one the app supports.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageHindi
}

// AppState holds cross-screen client state. The language preference is
// explicit here rather than an ambient global so callers decide its scope.
type AppState struct {
	mu       sync.RWMutex
	language Language
	path     string
}

type appStateFile struct {
	Language Language `yaml:"language"`
}

// NewAppState returns an AppState persisting to the given file, defaulting
// to English until a saved preference is loaded.
func NewAppState(path string) *AppState {
	return &AppState{language: LanguageEnglish, path: path}
}

// Language returns the current preference.
func (s *AppState) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage changes the in-memory preference without persisting.
func (s *AppState) SetLanguage(lang Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q", lang)
	}
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	return nil
}

// LoadLanguage reads the saved preference from disk. A missing file keeps
// the current value; a saved but unsupported code falls back to English.
func (s *AppState) LoadLanguage() error {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading language preference: %w", err)
	}

	var state appStateFile
	if err := yaml.Unmarshal(raw, &state); err != nil {
		return fmt.Errorf("parsing language preference: %w", err)
	}
	if !state.Language.Valid() {
		state.Language = LanguageEnglish
	}

	s.mu.Lock()
	s.language = state.Language
	s.mu.Unlock()
	return nil
}

// SaveLanguage persists the preference, creating parent directories.
func (s *AppState) SaveLanguage(lang Language) error {
	if err := s.SetLanguage(lang); err != nil {
		return err
	}

	raw, err := yaml.Marshal(appStateFile{Language: lang})
	if err != nil {
		return fmt.Errorf("encoding language preference: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating preference dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing language preference: %w", err)
	}
	return nil
}
