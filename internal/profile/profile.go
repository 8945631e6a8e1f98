// Package profile loads the read-only Profile snapshot that names a user's
// search (keywords, locations, seniority preferences). Profile loading
// depth is explicitly out of scope (spec.md §1); this is a minimal typed
// loader for a YAML snapshot, using the teacher's config/format library
// (gopkg.in/yaml.v3) rather than hand-rolled parsing.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is treated as an immutable snapshot for the duration of one
// scrape or processing run (§3, §5).
type Profile struct {
	Name                 string   `yaml:"name"`
	Keywords             []string `yaml:"keywords"`
	DenyTitleTokens      []string `yaml:"deny_title_tokens"`
	Skills               []string `yaml:"skills"`
	PreferredLocations   []string `yaml:"preferred_locations"`
	AllowRemote          bool     `yaml:"allow_remote"`
	SeniorityPreferences []string `yaml:"seniority_preferences"`
	DocumentPaths        []string `yaml:"document_paths"`
}

// Load reads a profile snapshot from <profileRoot>/<name>/profile.yaml.
func Load(profileRoot, name string) (*Profile, error) {
	path := filepath.Join(profileRoot, name, "profile.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile %q not found: %w", name, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	return &p, nil
}

// Dir returns the per-profile directory used for the Store and run log.
func Dir(profileRoot, name string) string {
	return filepath.Join(profileRoot, name)
}
