package constants

import "time"

const (
	// WorldWidth is the width of the arena
	WorldWidth float64 = 800.0
	// WorldHeight is the height of the arena
	WorldHeight float64 = 600.0
	// WorldBoundsMargin is how far outside the arena a moving entity may travel before it is discarded
	WorldBoundsMargin float64 = 50.0

	// TickDelta is the fixed integration step applied once per processed request (120Hz)
	TickDelta float64 = 1.0 / 120.0

	// PlayerRadius is the collision radius of a player
	PlayerRadius float64 = 20.0
	// PlayerSpeed is how fast a client moves its player, in units per second
	PlayerSpeed float64 = 200.0
	// PlayerMaxHealth is the health a player joins with
	PlayerMaxHealth int = 3
	// PlayerMaxExplosives caps the explosive inventory
	PlayerMaxExplosives int = 3
	// PlayerStartingExplosives is the explosive inventory a player joins with
	PlayerStartingExplosives int = 1
	// PlayerShootCooldown is the minimum time between two shots
	PlayerShootCooldown int64 = 2000 // ms
	// PlayerThrowCooldown is the minimum time between two throws
	PlayerThrowCooldown int64 = 1000 // ms

	// ProjectileSpeed is the speed of a projectile in units per second
	ProjectileSpeed float64 = 300.0
	// ProjectileRadius is the collision radius of a projectile
	ProjectileRadius float64 = 5.0
	// ProjectileDamage is the damage a projectile deals
	ProjectileDamage int = 1
	// ProjectileLifetime is how long a projectile lives
	ProjectileLifetime int64 = 5000 // ms

	// ExplosiveSpeed is the speed of a thrown explosive in units per second
	ExplosiveSpeed float64 = 200.0
	// ExplosiveRadius is the collision radius of a thrown explosive
	ExplosiveRadius float64 = 8.0
	// ExplosiveFuse is the time between a throw and the detonation
	ExplosiveFuse int64 = 3000 // ms
	// ExplosionRadius is the area damage radius of a detonation
	ExplosionRadius float64 = 80.0
	// ExplosionDamage is the damage dealt to every player in the explosion radius
	ExplosionDamage int = 2

	// PickupRadius is the collection radius of a pickup
	PickupRadius float64 = 15.0
	// PickupSpawnInterval is the minimum time between two pickup spawns
	PickupSpawnInterval int64 = 15000 // ms
	// PickupSpawnMargin keeps pickups away from the arena edges
	PickupSpawnMargin float64 = 50.0
	// MaxPickups caps the number of concurrent pickups in a world
	MaxPickups int = 3
	// InvisibilityDuration is how long an invisibility pickup lasts
	InvisibilityDuration int64 = 8000 // ms

	// ObstacleCount is the number of obstacles generated for every world
	ObstacleCount int = 10
	// ObstacleMinSize is the smallest obstacle side
	ObstacleMinSize float64 = 40.0
	// ObstacleMaxSize is the largest obstacle side
	ObstacleMaxSize float64 = 100.0
	// ObstacleSpawnMargin keeps obstacles away from the arena edges
	ObstacleSpawnMargin float64 = 60.0

	// SessionCodeLength is the exact length of a session code
	SessionCodeLength int = 6
	// SessionIdleTimeout is how long a world may go without updates before it is evicted
	SessionIdleTimeout = 15 * time.Minute
	// SessionSweepInterval is how often idle worlds are evicted
	SessionSweepInterval = 60 * time.Second
	// PlayerIdleTimeout is how long a player may go without updates before it is pruned
	PlayerIdleTimeout = 30 * time.Second
)
