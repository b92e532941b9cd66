package config

// Constants holds the physical parameters of a simulation. A value is
// injected into the entity factory and the world at construction; nothing
// reads it from package state.
type Constants struct {
	SpeedOfLight float64 // Upper bound for every entity's max speed

	ShipMinRadius      float64
	ShipMinDensity     float64 // Mass per unit volume of a sphere
	ShipDefaultThrust  float64
	ShipInitialBullets int

	BulletMinRadius     float64
	BulletDensity       float64
	BulletInitialSpeed  float64
	BulletMaxBounces    int     // Boundary hits a bullet survives
	BulletRadiusDivisor float64 // Fresh bullets get shipRadius / divisor

	PlanetMinRadius  float64
	PlanetMinDensity float64

	// SpawnMargin is the gap left between a ship's hull and a freshly fired
	// bullet, as a fraction of the sum of both radii.
	SpawnMargin float64

	// SignificantOverlap is the fraction of the sum of radii below which two
	// entities count as interpenetrating rather than merely touching.
	SignificantOverlap float64
}

// Default returns the standard arena constants.
func Default() Constants {
	return Constants{
		SpeedOfLight: 300000,

		ShipMinRadius:      10,
		ShipMinDensity:     1.42e12,
		ShipDefaultThrust:  1.1e18,
		ShipInitialBullets: 0,

		BulletMinRadius:     1,
		BulletDensity:       7.8e12,
		BulletInitialSpeed:  250,
		BulletMaxBounces:    2,
		BulletRadiusDivisor: 5,

		PlanetMinRadius:  5,
		PlanetMinDensity: 2.65e12,

		SpawnMargin:        0.01,
		SignificantOverlap: 0.99,
	}
}
