package entity

import (
	"sync/atomic"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// AirResistance is the shared drag setting read by every cannonball on
// each update. Changing the mode affects balls already in flight.
type AirResistance struct {
	mode   atomic.Int32
	medium physics.Medium
}

// NewAirResistance creates a setting with the given mode and medium
func NewAirResistance(mode physics.DragMode, medium physics.Medium) *AirResistance {
	a := &AirResistance{medium: medium}
	a.mode.Store(int32(mode))
	return a
}

// Mode returns the current drag mode. A nil setting means no drag.
func (a *AirResistance) Mode() physics.DragMode {
	if a == nil {
		return physics.DragOff
	}
	return physics.DragMode(a.mode.Load())
}

// SetMode switches the drag mode and returns the previous one
func (a *AirResistance) SetMode(mode physics.DragMode) physics.DragMode {
	return physics.DragMode(a.mode.Swap(int32(mode)))
}

// Medium returns the fluid and gravity parameters. A nil setting yields
// the default medium.
func (a *AirResistance) Medium() physics.Medium {
	if a == nil {
		return physics.DefaultMedium()
	}
	return a.medium
}
