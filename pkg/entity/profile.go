package entity

import (
	"sync"

	"github.com/opd-ai/go-cannon/pkg/physics"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

// CannonProfile describes the geometry and aim of a cannon. Angle is in
// radians measured from vertical, positive toward +x.
type CannonProfile interface {
	Angle() float64
	Height() float64
	BarrelLength() float64
	BarrelWidth() float64
	WheelRadius() float64
}

// Experiment cannon geometry in meters.
const (
	ExperimentBarrelLength = 0.1
	ExperimentBarrelWidth  = 0.05
	ExperimentWheelRadius  = 0.04
)

// ExperimentProfile is the small lab cannon with an adjustable angle and
// muzzle height. It is safe for concurrent use.
type ExperimentProfile struct {
	mu           sync.RWMutex
	angleDegrees float64
	height       float64
}

// NewExperimentProfile creates a profile aimed angleDegrees from vertical
func NewExperimentProfile(angleDegrees, height float64) (*ExperimentProfile, error) {
	p := &ExperimentProfile{}
	if err := p.SetAngleDegrees(angleDegrees); err != nil {
		return nil, err
	}
	if err := p.SetHeight(height); err != nil {
		return nil, err
	}
	return p, nil
}

// Angle returns the barrel angle in radians
func (p *ExperimentProfile) Angle() float64 {
	return physics.DegreesToRadians(p.AngleDegrees())
}

// AngleDegrees returns the barrel angle in degrees from vertical
func (p *ExperimentProfile) AngleDegrees() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.angleDegrees
}

// SetAngleDegrees aims the barrel
func (p *ExperimentProfile) SetAngleDegrees(deg float64) error {
	if err := validation.ValidateAngleDegrees(deg); err != nil {
		return err
	}
	p.mu.Lock()
	p.angleDegrees = deg
	p.mu.Unlock()
	return nil
}

// Height returns the muzzle height above the cannon position
func (p *ExperimentProfile) Height() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.height
}

// SetHeight raises or lowers the muzzle
func (p *ExperimentProfile) SetHeight(h float64) error {
	if err := validation.ValidateHeight(h); err != nil {
		return err
	}
	p.mu.Lock()
	p.height = h
	p.mu.Unlock()
	return nil
}

func (p *ExperimentProfile) BarrelLength() float64 { return ExperimentBarrelLength }
func (p *ExperimentProfile) BarrelWidth() float64  { return ExperimentBarrelWidth }
func (p *ExperimentProfile) WheelRadius() float64  { return ExperimentWheelRadius }
