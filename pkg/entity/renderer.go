package entity

import "github.com/opd-ai/go-cannon/pkg/prediction"

// Renderer draws simulation objects. Implementations own the mapping from
// simulation meters to their output space.
type Renderer interface {
	Clear()
	RenderCannon(cannon *Cannon)
	RenderCannonball(ball *Cannonball)
	RenderPrediction(p prediction.Projection)
	Present()
}
