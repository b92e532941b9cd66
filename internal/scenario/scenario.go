// Package scenario describes initial arena layouts in YAML and builds worlds
// from them.
package scenario

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomz197/arena/internal/object"
	"github.com/tomz197/arena/internal/physics"
	"github.com/tomz197/arena/internal/world"
)

// Scenario is a complete arena layout.
type Scenario struct {
	Name    string   `yaml:"name"`
	Width   float64  `yaml:"width"`
	Height  float64  `yaml:"height"`
	Ships   []Ship   `yaml:"ships"`
	Planets []Planet `yaml:"planets"`
	Bullets []Bullet `yaml:"bullets"`
}

// Vec is a YAML-friendly vector, written as [x, y].
type Vec [2]float64

func (v Vec) vector() physics.Vector2D { return physics.Vec(v[0], v[1]) }

// Ship describes a ship. Orientation is in degrees.
type Ship struct {
	Position    Vec     `yaml:"position"`
	Velocity    Vec     `yaml:"velocity"`
	Orientation float64 `yaml:"orientation"`
	Radius      float64 `yaml:"radius"`
	Mass        float64 `yaml:"mass,omitempty"`
	Thrust      float64 `yaml:"thrust,omitempty"`
	Thrusting   bool    `yaml:"thrusting,omitempty"`
	Bullets     int     `yaml:"bullets,omitempty"`
}

// Planet describes a minor planet.
type Planet struct {
	Position Vec     `yaml:"position"`
	Velocity Vec     `yaml:"velocity"`
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass,omitempty"`
}

// Bullet describes a free bullet.
type Bullet struct {
	Position Vec     `yaml:"position"`
	Velocity Vec     `yaml:"velocity"`
	Radius   float64 `yaml:"radius"`
}

// Load decodes a scenario from YAML.
func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &s, nil
}

// LoadFile reads a scenario file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Build creates a world populated with the scenario's entities. Entities
// are created ships first, then planets, then bullets, so their ids follow
// the file order.
func (s *Scenario) Build(f *object.Factory, opts ...world.Option) (*world.World, error) {
	w, err := world.New(s.Width, s.Height, f.Constants(), opts...)
	if err != nil {
		return nil, err
	}

	for i, sp := range s.Ships {
		ship, err := f.NewShip(object.ShipParams{
			Position:    sp.Position.vector(),
			Velocity:    sp.Velocity.vector(),
			Orientation: normalizeDegrees(sp.Orientation),
			Radius:      sp.Radius,
			Mass:        sp.Mass,
			Thrust:      sp.Thrust,
		})
		if err != nil {
			return nil, fmt.Errorf("ship %d: %w", i, err)
		}
		if err := ship.LoadNewBullets(sp.Bullets); err != nil {
			return nil, fmt.Errorf("ship %d: %w", i, err)
		}
		if sp.Thrusting {
			ship.ThrustOn()
		}
		if err := w.AddEntity(ship); err != nil {
			return nil, fmt.Errorf("ship %d: %w", i, err)
		}
	}
	for i, pp := range s.Planets {
		p, err := f.NewMinorPlanet(pp.Position.vector(), pp.Velocity.vector(), pp.Radius, pp.Mass)
		if err != nil {
			return nil, fmt.Errorf("planet %d: %w", i, err)
		}
		if err := w.AddEntity(p); err != nil {
			return nil, fmt.Errorf("planet %d: %w", i, err)
		}
	}
	for i, bp := range s.Bullets {
		b, err := f.NewBullet(bp.Position.vector(), bp.Velocity.vector(), bp.Radius)
		if err != nil {
			return nil, fmt.Errorf("bullet %d: %w", i, err)
		}
		if err := w.AddEntity(b); err != nil {
			return nil, fmt.Errorf("bullet %d: %w", i, err)
		}
	}
	return w, nil
}

func normalizeDegrees(deg float64) float64 {
	rad := math.Mod(deg*math.Pi/180, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	if rad >= 2*math.Pi {
		rad = 0
	}
	return rad
}

// Default returns the built-in demo layout: two ships on a collision course,
// a drifting planet and a ship with a loaded magazine.
func Default() *Scenario {
	return &Scenario{
		Name:   "duel",
		Width:  1000,
		Height: 800,
		Ships: []Ship{
			{Position: Vec{200, 400}, Velocity: Vec{40, 0}, Orientation: 0, Radius: 20, Bullets: 5},
			{Position: Vec{800, 400}, Velocity: Vec{-40, 0}, Orientation: 180, Radius: 20, Bullets: 5},
			{Position: Vec{500, 150}, Velocity: Vec{0, 25}, Orientation: 90, Radius: 15},
		},
		Planets: []Planet{
			{Position: Vec{500, 650}, Velocity: Vec{15, -10}, Radius: 40},
		},
		Bullets: []Bullet{
			{Position: Vec{100, 100}, Velocity: Vec{60, 45}, Radius: 3},
		},
	}
}
