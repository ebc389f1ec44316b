package manager

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Prefab is an authored event: a script plus the trigger that starts it
type Prefab struct {
	NID       string `yaml:"nid"`
	Trigger   string `yaml:"trigger"`
	Condition string `yaml:"condition"`
	Priority  int    `yaml:"priority"`
	OnlyOnce  bool   `yaml:"only_once"`
	Script    string `yaml:"script"`
}

// Project is the YAML file holding every prefab of a game
type Project struct {
	Events []*Prefab `yaml:"events"`
}

// LoadProject reads a project file
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", path, err)
	}
	p, err := ParseProject(data)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", path, err)
	}
	return p, nil
}

// ParseProject decodes a project and checks prefab ids are present and unique
func ParseProject(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	seen := make(map[string]bool, len(p.Events))
	for i, e := range p.Events {
		if e.NID == "" {
			return nil, fmt.Errorf("event %d has no nid", i)
		}
		if seen[e.NID] {
			return nil, fmt.Errorf("duplicate event %q", e.NID)
		}
		seen[e.NID] = true
	}
	return &p, nil
}
