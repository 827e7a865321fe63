package entity

import "github.com/opd-ai/go-cannon/pkg/prediction"

// MockRenderer records every call made through the Renderer interface
type MockRenderer struct {
	Cannons      []*Cannon
	Cannonballs  []*Cannonball
	Predictions  []prediction.Projection
	ClearCount   int
	PresentCount int
}

// NewMockRenderer creates an empty recorder
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{}
}

func (m *MockRenderer) Clear() { m.ClearCount++ }

func (m *MockRenderer) RenderCannon(c *Cannon) { m.Cannons = append(m.Cannons, c) }

func (m *MockRenderer) RenderCannonball(b *Cannonball) {
	m.Cannonballs = append(m.Cannonballs, b)
}

func (m *MockRenderer) RenderPrediction(p prediction.Projection) {
	m.Predictions = append(m.Predictions, p)
}

func (m *MockRenderer) Present() { m.PresentCount++ }

var _ Renderer = (*MockRenderer)(nil)
