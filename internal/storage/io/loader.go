package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/tracker"
)

// ProfilesYAMLRepository loads the progress driver profiles from YAML files.
type ProfilesYAMLRepository struct {
	fs fs.FS
}

// NewProfilesYAMLRepository creates a new YAML profiles repository.
func NewProfilesYAMLRepository(filesystem fs.FS) *ProfilesYAMLRepository {
	return &ProfilesYAMLRepository{fs: filesystem}
}

// GetProfiles loads the profiles from a YAML file. Kinds missing on the file keep
// their default profile, and so do the fields missing on a kind.
func (r *ProfilesYAMLRepository) GetProfiles(ctx context.Context, path string) (map[model.Kind]tracker.Profile, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var cfg ProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	profiles, err := cfg.toModel(tracker.DefaultProfiles())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return profiles, nil
}

// ProfilesConfig represents the YAML structure of the profiles file.
type ProfilesConfig struct {
	Profiles map[string]ProfileConfig `yaml:"profiles"`
}

// ProfileConfig represents the YAML structure of a single kind profile.
type ProfileConfig struct {
	TickInterval  string `yaml:"tick_interval"`
	MaxIncrement  *int   `yaml:"max_increment,omitempty"`
	FinalizeAfter string `yaml:"finalize_after"`
	Saturation    string `yaml:"saturation"`
}

func (c ProfilesConfig) toModel(defaults map[model.Kind]tracker.Profile) (map[model.Kind]tracker.Profile, error) {
	profiles := make(map[model.Kind]tracker.Profile, len(defaults))
	for k, p := range defaults {
		profiles[k] = p
	}

	for name, pc := range c.Profiles {
		kind, err := model.ParseKind(name)
		if err != nil {
			return nil, err
		}

		p, err := pc.apply(profiles[kind])
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", kind, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", kind, err)
		}
		profiles[kind] = p
	}

	return profiles, nil
}

func (c ProfileConfig) apply(p tracker.Profile) (tracker.Profile, error) {
	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			return p, fmt.Errorf("tick_interval: %w", err)
		}
		p.TickInterval = d
	}

	if c.MaxIncrement != nil {
		p.MaxIncrement = *c.MaxIncrement
	}

	if c.FinalizeAfter != "" {
		d, err := time.ParseDuration(c.FinalizeAfter)
		if err != nil {
			return p, fmt.Errorf("finalize_after: %w", err)
		}
		p.FinalizeAfter = d
	}

	if c.Saturation != "" {
		p.Saturation = tracker.SaturationMode(c.Saturation)
	}

	return p, nil
}
