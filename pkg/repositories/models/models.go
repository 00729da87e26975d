package models

// MatchEvent is one persisted gameplay event of a session.
type MatchEvent struct {
	ID          int64   `json:"id"`
	SessionCode string  `json:"sessionCode"`
	Type        string  `json:"type"`
	Timestamp   int64   `json:"timestamp"`
	PlayerID    string  `json:"playerId,omitempty"`
	SourceID    string  `json:"sourceId,omitempty"`
	EntityID    string  `json:"entityId,omitempty"`
	Cause       string  `json:"cause,omitempty"`
	Damage      int     `json:"damage,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}
