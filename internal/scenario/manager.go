package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Manager loads and saves Scenario definitions.
type Manager struct {
	logger *zap.Logger
}

// ScenarioConfig represents the structure of the scenarios YAML file
type ScenarioConfig struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// NewManager returns a Manager logging through log.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{logger: log}
}

// Load reads scenarios from the YAML file. Invalid entries are skipped
// with a warning so one bad scenario cannot block the rest. A missing
// file is not an error, it just means nothing has been saved yet.
func (m *Manager) Load(path string) ([]*Scenario, error) {
	path = filepath.Clean(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Debug("No scenarios file yet", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("read scenarios file: %w", err)
	}

	var doc ScenarioConfig
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse scenarios yaml: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(doc.Scenarios))
	seen := make(map[string]bool, len(doc.Scenarios))
	for i := range doc.Scenarios {
		sc := doc.Scenarios[i]
		if sc.CreatedAt.IsZero() {
			sc.CreatedAt = time.Now()
		}

		if err := sc.Validate(); err != nil {
			m.logger.Warn("Skipping invalid scenario", zap.String("name", sc.Name), zap.Error(err))
			continue
		}
		if seen[sc.Name] {
			m.logger.Warn("Skipping duplicate scenario", zap.String("name", sc.Name))
			continue
		}
		seen[sc.Name] = true

		scenarios = append(scenarios, &sc)
	}

	m.logger.Info("Loaded scenarios", zap.Int("count", len(scenarios)))
	return scenarios, nil
}

// Save writes scenarios to the YAML file through a temp file and
// rename, so a crash mid-write cannot truncate the saved book.
func (m *Manager) Save(path string, scenarios []*Scenario) error {
	for _, sc := range scenarios {
		if err := sc.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}

	doc := ScenarioConfig{Scenarios: make([]Scenario, 0, len(scenarios))}
	for _, sc := range scenarios {
		doc.Scenarios = append(doc.Scenarios, *sc)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode scenarios yaml: %w", err)
	}

	path = filepath.Clean(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create scenarios directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scenarios-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace scenarios file: %w", err)
	}

	m.logger.Info("Saved scenarios", zap.String("path", path), zap.Int("count", len(scenarios)))
	return nil
}

// Add inserts or replaces a scenario by name and saves the file. It
// returns the updated list.
func (m *Manager) Add(path string, sc *Scenario) ([]*Scenario, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	scenarios, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i, existing := range scenarios {
		if existing.Name == sc.Name {
			scenarios[i] = sc
			replaced = true
			break
		}
	}
	if !replaced {
		scenarios = append(scenarios, sc)
	}

	if err := m.Save(path, scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// Remove deletes a scenario by name and saves the file. It returns the
// updated list.
func (m *Manager) Remove(path, name string) ([]*Scenario, error) {
	scenarios, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	kept := scenarios[:0]
	found := false
	for _, sc := range scenarios {
		if sc.Name == name {
			found = true
			continue
		}
		kept = append(kept, sc)
	}
	if !found {
		return nil, fmt.Errorf("scenario %q not found", name)
	}

	if err := m.Save(path, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Find returns the scenario with the given name, or nil.
func Find(scenarios []*Scenario, name string) *Scenario {
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc
		}
	}
	return nil
}
