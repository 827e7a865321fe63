package physics

import (
	"fmt"
	"strings"
)

// DragMode selects how air resistance is applied to a projectile
type DragMode int

const (
	// DragOff disables air resistance entirely.
	DragOff DragMode = iota
	// DragRealistic uses the projectile's physical cross section.
	DragRealistic
	// DragExaggerated inflates the radius by ExaggeratedRadiusFactor so the
	// effect is easy to see.
	DragExaggerated
)

// ExaggeratedRadiusFactor scales the radius used for the drag area in
// DragExaggerated mode.
const ExaggeratedRadiusFactor = 10.0

var dragModeNames = map[DragMode]string{
	DragOff:         "off",
	DragRealistic:   "realistic",
	DragExaggerated: "exaggerated",
}

// String returns the lowercase name of the mode
func (m DragMode) String() string {
	if name, ok := dragModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DragMode(%d)", int(m))
}

// Next cycles off -> realistic -> exaggerated -> off
func (m DragMode) Next() DragMode {
	return (m + 1) % 3
}

// Valid reports whether m is one of the declared modes
func (m DragMode) Valid() bool {
	_, ok := dragModeNames[m]
	return ok
}

// ParseDragMode converts a mode name (case-insensitive) to a DragMode
func ParseDragMode(s string) (DragMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return DragOff, nil
	case "realistic":
		return DragRealistic, nil
	case "exaggerated":
		return DragExaggerated, nil
	default:
		return DragOff, fmt.Errorf("unknown drag mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so modes read naturally
// in JSON config files.
func (m DragMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid drag mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *DragMode) UnmarshalText(text []byte) error {
	mode, err := ParseDragMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// DragFor computes the drag force acting on a sphere of the given
// radius in standard air. DragOff always yields the zero vector.
func DragFor(mode DragMode, radius float64, velocity Vector2D) Vector2D {
	return DefaultMedium().Drag(mode, radius, velocity)
}
