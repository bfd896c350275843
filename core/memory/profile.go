package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	profileFileName = "profile.json"
	factsFileName   = "memory.json"

	// Older facts stay on disk but only the tail is surfaced to providers.
	maxContextFacts = 5
)

type Profile struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
	Study    string `json:"study"`
	Location string `json:"location"`
}

type facts struct {
	Facts []string `json:"facts"`
}

func (s *Store) profilePath() string { return filepath.Join(s.baseDir, profileFileName) }
func (s *Store) factsPath() string   { return filepath.Join(s.baseDir, factsFileName) }

// LoadProfile reads profile.json, creating a default one on first use.
func (s *Store) LoadProfile() (Profile, error) {
	data, err := os.ReadFile(s.profilePath())
	if os.IsNotExist(err) {
		profile := Profile{Name: "Manan", Timezone: "America/Regina"}
		if err := s.writeJSON(s.profilePath(), profile); err != nil {
			return profile, err
		}
		return profile, nil
	} else if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	return profile, nil
}

func (s *Store) UpdateProfile(update func(*Profile)) error {
	profile, err := s.LoadProfile()
	if err != nil {
		return err
	}
	update(&profile)
	return s.writeJSON(s.profilePath(), profile)
}

// RememberFact appends a fact to memory.json.
func (s *Store) RememberFact(fact string) error {
	stored, err := s.loadFacts()
	if err != nil {
		return err
	}
	stored.Facts = append(stored.Facts, fact)
	return s.writeJSON(s.factsPath(), stored)
}

func (s *Store) loadFacts() (facts, error) {
	data, err := os.ReadFile(s.factsPath())
	if os.IsNotExist(err) {
		return facts{Facts: []string{}}, nil
	} else if err != nil {
		return facts{}, fmt.Errorf("failed to read facts: %w", err)
	}

	var stored facts
	if err := json.Unmarshal(data, &stored); err != nil {
		return facts{}, fmt.Errorf("failed to parse facts: %w", err)
	}
	return stored, nil
}

// Context combines the profile and remembered facts into the context block
// prepended to every provider prompt. Kept deliberately subtle so providers
// do not echo it back.
func (s *Store) Context() string {
	var sections []string

	if profile, err := s.LoadProfile(); err == nil {
		var parts []string
		if profile.Name != "" {
			parts = append(parts, fmt.Sprintf("User's name: %s", profile.Name))
		}
		if profile.Location != "" {
			parts = append(parts, fmt.Sprintf("Location: %s", profile.Location))
		}
		if profile.Study != "" {
			parts = append(parts, fmt.Sprintf("Studies: %s", profile.Study))
		}
		if len(parts) > 0 {
			sections = append(sections, "Context: "+strings.Join(parts, ", ")+".")
		}
	}

	if stored, err := s.loadFacts(); err == nil && len(stored.Facts) > 0 {
		recent := stored.Facts
		if len(recent) > maxContextFacts {
			recent = recent[len(recent)-maxContextFacts:]
		}
		sections = append(sections, "Known facts: "+strings.Join(recent, "; "))
	}

	return strings.Join(sections, "\n")
}

func (s *Store) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
