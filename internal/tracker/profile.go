package tracker

import (
	"fmt"
	"time"

	"github.com/slok/scanboard/internal/model"
)

// SaturationMode decides what happens when ticking reaches the top of the progress range
// before the finalize timer fires.
type SaturationMode string

const (
	// SaturationHold stops ticking at 99 so 100 is only reached on completion.
	SaturationHold SaturationMode = "hold"
	// SaturationDisplay lets progress show 100 while the operation is still running.
	SaturationDisplay SaturationMode = "display"
	// SaturationFinalize completes the operation as soon as ticking reaches 100.
	SaturationFinalize SaturationMode = "finalize"
)

// Profile is the timing configuration of the progress driver for one kind.
type Profile struct {
	// TickInterval is the progress advance cadence, 0 disables ticking.
	TickInterval time.Duration
	// MaxIncrement is the exclusive upper bound of the random increment on every tick.
	MaxIncrement int
	// FinalizeAfter is the time after start when the operation completes regardless of its progress.
	FinalizeAfter time.Duration
	// Saturation is the saturation behavior, defaults to SaturationHold.
	Saturation SaturationMode
}

// Validate validates the profile.
func (p Profile) Validate() error {
	if p.FinalizeAfter <= 0 {
		return fmt.Errorf("finalize after must be positive: %w", model.ErrNotValid)
	}

	if p.TickInterval < 0 {
		return fmt.Errorf("tick interval can't be negative: %w", model.ErrNotValid)
	}

	if p.TickInterval > 0 && p.MaxIncrement <= 0 {
		return fmt.Errorf("max increment must be positive when ticking: %w", model.ErrNotValid)
	}

	switch p.Saturation {
	case "", SaturationHold, SaturationDisplay, SaturationFinalize:
	default:
		return fmt.Errorf("unknown saturation mode %q: %w", p.Saturation, model.ErrNotValid)
	}

	return nil
}

// progressCap is the highest progress ticking can reach.
func (p Profile) progressCap() int {
	if p.Saturation == SaturationDisplay || p.Saturation == SaturationFinalize {
		return model.MaxProgress
	}
	return model.MaxProgress - 1
}

const (
	defaultMaxIncrement  = 15
	defaultFinalizeAfter = 5 * time.Second
)

// DefaultProfiles returns the profiles of every known kind.
//
// Reports tick every 500ms, analysis and scans every 600ms, all of them complete after 5s.
// Repository scans don't report progress and complete after 2s, exports and
// repository connections don't report progress either and complete after 1.5s.
func DefaultProfiles() map[model.Kind]Profile {
	untracked := func(d time.Duration) Profile { return Profile{FinalizeAfter: d, Saturation: SaturationHold} }
	report := Profile{TickInterval: 500 * time.Millisecond, MaxIncrement: defaultMaxIncrement, FinalizeAfter: defaultFinalizeAfter, Saturation: SaturationHold}
	analysis := Profile{TickInterval: 600 * time.Millisecond, MaxIncrement: defaultMaxIncrement, FinalizeAfter: defaultFinalizeAfter, Saturation: SaturationHold}

	return map[model.Kind]Profile{
		model.KindCodeQuality:       report,
		model.KindVulnerability:     report,
		model.KindDependency:        report,
		model.KindAnalysis:          analysis,
		model.KindScan:              analysis,
		model.KindRepositoryScan:    untracked(2 * time.Second),
		model.KindExport:            untracked(1500 * time.Millisecond),
		model.KindRepositoryConnect: untracked(1500 * time.Millisecond),
	}
}
