package input

import (
	"github.com/cbodonnell/arena/pkg/kinematic"
)

// State is the input sampled for one presentation frame. Frontends (a
// keyboard, a gamepad, the headless bot) fill it in and hand it to the session.
type State struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	// Aim is the facing rotation in degrees, nil keeps the current rotation
	Aim *float64
	// Shoot is edge triggered: true only on the frame it was pressed
	Shoot bool
}

// Axis returns the unit movement direction, or the zero vector when no
// direction (or two opposing ones) is held.
func (s State) Axis() kinematic.Vector {
	v := kinematic.Vector{}
	if s.Right && !s.Left {
		v.X = 1
	} else if s.Left && !s.Right {
		v.X = -1
	}
	if s.Down && !s.Up {
		v.Y = 1
	} else if s.Up && !s.Down {
		v.Y = -1
	}
	return v.Normalize()
}

// IsMoving reports whether the state moves the player.
func (s State) IsMoving() bool {
	axis := s.Axis()
	return axis.X != 0 || axis.Y != 0
}

// WithAim returns a copy of s aiming at rotation.
func (s State) WithAim(rotation float64) State {
	s.Aim = &rotation
	return s
}
