package kinds

import (
	"context"
	"fmt"

	"github.com/slok/scanboard/internal/log"
	"github.com/slok/scanboard/internal/model"
	"github.com/slok/scanboard/internal/tracker"
)

// ProfilesRepository knows how to load kind profiles.
type ProfilesRepository interface {
	GetProfiles(ctx context.Context, path string) (map[model.Kind]tracker.Profile, error)
}

// ServiceConfig is the configuration for the kinds service.
type ServiceConfig struct {
	// ProfilesRepository is optional, without it only the default profiles are available.
	ProfilesRepository ProfilesRepository
	Logger             log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Kinds"})

	return nil
}

// Service describes the known operation kinds and their progress profiles.
type Service struct {
	repo   ProfilesRepository
	logger log.Logger
}

// NewService creates a new kinds service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.ProfilesRepository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the kinds request parameters.
type Request struct {
	// ProfilesPath is an optional profiles file overriding the defaults.
	ProfilesPath string
}

// Run returns the kinds sorted by name.
func (s *Service) Run(ctx context.Context, req Request) ([]model.KindInfo, error) {
	profiles, err := s.profiles(ctx, req.ProfilesPath)
	if err != nil {
		return nil, err
	}

	infos := make([]model.KindInfo, 0, len(profiles))
	for _, k := range model.Kinds() {
		p, ok := profiles[k]
		if !ok {
			continue
		}

		saturation := p.Saturation
		if saturation == "" {
			saturation = tracker.SaturationHold
		}

		infos = append(infos, model.KindInfo{
			Kind:          k,
			Title:         k.Title(),
			TickInterval:  p.TickInterval,
			MaxIncrement:  p.MaxIncrement,
			FinalizeAfter: p.FinalizeAfter,
			Saturation:    string(saturation),
		})
	}

	return infos, nil
}

func (s *Service) profiles(ctx context.Context, path string) (map[model.Kind]tracker.Profile, error) {
	if path == "" {
		return tracker.DefaultProfiles(), nil
	}

	if s.repo == nil {
		return nil, fmt.Errorf("profiles repository is required to load %q: %w", path, model.ErrNotValid)
	}

	s.logger.Debugf("Loading profiles from %s", path)
	profiles, err := s.repo.GetProfiles(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not load profiles: %w", err)
	}

	return profiles, nil
}
