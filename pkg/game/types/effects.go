package types

// TimedEffect is an effect that applies until a server timestamp.
// The zero value means the effect is not active.
type TimedEffect struct {
	Active bool  `json:"active"`
	Until  int64 `json:"until"`
}

// NewTimedEffect returns an effect lasting until the given timestamp.
func NewTimedEffect(until int64) TimedEffect {
	return TimedEffect{Active: true, Until: until}
}

// ActiveAt reports whether the effect still applies at now.
func (e TimedEffect) ActiveAt(now int64) bool {
	return e.Active && now < e.Until
}

// HitMarker records the last time a player took damage, for presentation feedback.
// The zero value means the player has never been hit.
type HitMarker struct {
	Hit bool  `json:"hit"`
	At  int64 `json:"at"`
}

// Effects groups the status effects carried by a player.
type Effects struct {
	Invisibility TimedEffect `json:"invisibility"`
	LastHit      HitMarker   `json:"lastHit"`
}
