package game

import (
	"github.com/cbodonnell/arena/client/network"
	"github.com/cbodonnell/arena/client/objects"
	"github.com/cbodonnell/arena/pkg/messages"
)

// View is the read-only render model of a session for one frame.
type View struct {
	Code          string
	Player        messages.PlayerSnapshot
	Placed        bool
	Alive         bool
	Invisible     bool
	ShotCooldown  int64
	ShotPending   bool
	RemotePlayers []objects.Tracked
	Projectiles   []objects.Tracked
	Explosives    []objects.Tracked
	Pickups       []*messages.PickupSnapshot
	Obstacles     []*messages.ObstacleSnapshot
	Ping          float64
	Delivery      network.DeliveryStats
}

// View returns the current render model.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	serverNow := s.scheduler.ServerTime()
	return View{
		Code:          s.code,
		Player:        *s.player.State,
		Placed:        s.player.Placed(),
		Alive:         s.player.State.Health > 0,
		Invisible:     s.player.IsInvisible(serverNow),
		ShotCooldown:  s.player.ShotCooldownRemaining(serverNow),
		ShotPending:   s.scheduler.ShotPending(),
		RemotePlayers: s.remotePlayers.Entities(),
		Projectiles:   s.projectiles.Entities(),
		Explosives:    s.explosives.Entities(),
		Pickups:       s.world.Pickups,
		Obstacles:     s.world.Obstacles,
		Ping:          s.scheduler.Ping(),
		Delivery:      s.scheduler.Stats(),
	}
}
