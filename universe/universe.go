// Package universe owns the sector contents: charted bodies, raider
// patrols, the debris field, and live torpedoes. It runs on an ark ECS
// world and reports each tick's combat events back to the caller, which
// decides what they do to the ship.
package universe

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/lcrow/starhelm/config"
)

// hostileRadius is the raider hull's collision and render size.
const hostileRadius = 6

// Contact is a copied view of one object, safe to hold across ticks.
type Contact struct {
	ID       string
	Name     string
	Class    string
	Position rl.Vector3
	Radius   float32
	Report   string
	Hostile  bool
}

// Shot is one raider volley that reached the ship this tick.
type Shot struct {
	From   rl.Vector3
	Damage float32
}

// Detonation is one torpedo blast this tick.
type Detonation struct {
	Position  rl.Vector3
	TargetID  string
	Destroyed bool
}

// Events aggregates what the sector did during one tick.
type Events struct {
	Shots         []Shot
	Detonations   []Detonation
	DebrisStrikes int
}

// HostileView is a render snapshot of one raider.
type HostileView struct {
	ID       string
	Position rl.Vector3
	Velocity rl.Vector3
	Hull     float32
}

// TorpedoView is a render snapshot of one live torpedo.
type TorpedoView struct {
	Position rl.Vector3
	Velocity rl.Vector3
}

// Universe is the sector simulation.
type Universe struct {
	world *ecs.World
	rng   *rand.Rand

	bodyMapper    *ecs.Map2[Position, Body]
	bodyFilter    ecs.Filter2[Position, Body]
	hostileMapper *ecs.Map3[Position, Velocity, Hostile]
	hostileFilter ecs.Filter3[Position, Velocity, Hostile]
	debrisMapper  *ecs.Map3[Position, Velocity, Debris]
	debrisFilter  ecs.Filter3[Position, Velocity, Debris]
	torpedoMapper *ecs.Map3[Position, Velocity, Torpedo]
	torpedoFilter ecs.Filter3[Position, Velocity, Torpedo]

	nextHostileID uint32
}

// NewUniverse builds and populates a sector from configuration.
func NewUniverse(rng *rand.Rand) *Universe {
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	world := ecs.NewWorld()
	u := &Universe{
		world:         world,
		rng:           rng,
		bodyMapper:    ecs.NewMap2[Position, Body](world),
		bodyFilter:    *ecs.NewFilter2[Position, Body](world),
		hostileMapper: ecs.NewMap3[Position, Velocity, Hostile](world),
		hostileFilter: *ecs.NewFilter3[Position, Velocity, Hostile](world),
		debrisMapper:  ecs.NewMap3[Position, Velocity, Debris](world),
		debrisFilter:  *ecs.NewFilter3[Position, Velocity, Debris](world),
		torpedoMapper: ecs.NewMap3[Position, Velocity, Torpedo](world),
		torpedoFilter: *ecs.NewFilter3[Position, Velocity, Torpedo](world),
	}
	u.seedBodies()
	u.spawnHostiles()
	u.spawnDebrisField()
	return u
}

func (u *Universe) seedBodies() {
	for i, bc := range config.Cfg().Universe.Bodies {
		pos := Position{Vec: rl.Vector3{X: float32(bc.X), Y: float32(bc.Y), Z: float32(bc.Z)}}
		body := Body{
			Index:  i,
			Name:   bc.Name,
			Class:  bc.Class,
			Radius: float32(bc.Radius),
			Report: bc.Report,
		}
		u.bodyMapper.NewEntity(&pos, &body)
	}
}

func (u *Universe) spawnHostiles() {
	cfg := config.Cfg().Universe.Hostiles
	center := u.anchorOf(cfg.AnchorBody)
	for i := 0; i < cfg.Count; i++ {
		anchor := rl.Vector3Add(center, u.randInDisc(float32(cfg.SpawnRadius)))
		u.spawnHostile(Hostile{
			ID:       u.nextHostileID,
			Hull:     float32(cfg.Hull),
			Cooldown: u.rng.Float32() * float32(cfg.FireIntervalSec),
			Anchor:   anchor,
			Phase:    u.rng.Float32() * 2 * math.Pi,
		})
	}
}

func (u *Universe) spawnHostile(h Hostile) {
	if h.ID >= u.nextHostileID {
		u.nextHostileID = h.ID + 1
	}
	pos := Position{Vec: patrolPosition(h)}
	vel := Velocity{Vec: patrolVelocity(h)}
	u.hostileMapper.NewEntity(&pos, &vel, &h)
}

func (u *Universe) spawnDebrisField() {
	cfg := config.Cfg().Universe.Debris
	center := u.anchorOf(cfg.AnchorBody)
	for i := 0; i < cfg.Count; i++ {
		pos := Position{Vec: rl.Vector3Add(center, u.randInSphere(float32(cfg.FieldRadius)))}
		vel := Velocity{Vec: rl.Vector3Scale(u.randDirection(), float32(cfg.DriftSpeed))}
		deb := Debris{}
		u.debrisMapper.NewEntity(&pos, &vel, &deb)
	}
}

// SpawnTorpedo puts a live torpedo into the sector flying along dir.
func (u *Universe) SpawnTorpedo(from, dir rl.Vector3) {
	speed := float32(config.Cfg().Weapons.Torpedo.Speed)
	pos := Position{Vec: from}
	vel := Velocity{Vec: rl.Vector3Scale(rl.Vector3Normalize(dir), speed)}
	torp := Torpedo{}
	u.torpedoMapper.NewEntity(&pos, &vel, &torp)
}

// Update advances patrols, drift, and torpedo flight by dt seconds and
// reports what happened.
func (u *Universe) Update(ship rl.Vector3, dt float32) Events {
	var ev Events
	ev.Shots = u.updateHostiles(ship, dt)
	ev.DebrisStrikes = u.updateDebris(ship, dt)
	ev.Detonations = u.updateTorpedoes(dt)
	return ev
}

func (u *Universe) updateHostiles(ship rl.Vector3, dt float32) []Shot {
	cfg := config.Cfg().Universe.Hostiles
	var shots []Shot

	query := u.hostileFilter.Query()
	for query.Next() {
		pos, vel, h := query.Get()

		if cfg.PatrolRadius > 0 {
			h.Phase += float32(cfg.Speed/cfg.PatrolRadius) * dt
		}
		pos.Vec = patrolPosition(*h)
		vel.Vec = patrolVelocity(*h)

		h.Cooldown -= dt
		if h.Cooldown < 0 {
			h.Cooldown = 0
		}
		if h.Cooldown == 0 && rl.Vector3Distance(pos.Vec, ship) <= float32(cfg.FireRange) {
			h.Cooldown = float32(cfg.FireIntervalSec)
			shots = append(shots, Shot{From: pos.Vec, Damage: float32(cfg.Damage)})
		}
	}
	return shots
}

func (u *Universe) updateDebris(ship rl.Vector3, dt float32) int {
	cfg := config.Cfg().Universe.Debris
	center := u.anchorOf(cfg.AnchorBody)
	fieldRadius := float32(cfg.FieldRadius)
	hitRadius := float32(cfg.HitRadius)
	strikes := 0

	query := u.debrisFilter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()

		pos.Vec = rl.Vector3Add(pos.Vec, rl.Vector3Scale(vel.Vec, dt))

		// Fragments that wander off the field turn back toward its center
		if rl.Vector3Distance(pos.Vec, center) > fieldRadius {
			inward := rl.Vector3Normalize(rl.Vector3Subtract(center, pos.Vec))
			vel.Vec = rl.Vector3Scale(inward, float32(cfg.DriftSpeed))
		}

		if rl.Vector3Distance(pos.Vec, ship) <= hitRadius {
			strikes++
			// The fragment shatters; reseed it elsewhere in the field
			pos.Vec = rl.Vector3Add(center, u.randInSphere(fieldRadius))
			vel.Vec = rl.Vector3Scale(u.randDirection(), float32(cfg.DriftSpeed))
		}
	}
	return strikes
}

func (u *Universe) updateTorpedoes(dt float32) []Detonation {
	cfg := config.Cfg().Weapons.Torpedo
	speed := float32(cfg.Speed)
	blast := float32(cfg.BlastRadius)
	maxRange := float32(cfg.Range)

	type target struct {
		entity ecs.Entity
		id     uint32
		pos    rl.Vector3
	}
	var raiders []target
	hq := u.hostileFilter.Query()
	for hq.Next() {
		pos, _, h := hq.Get()
		raiders = append(raiders, target{entity: hq.Entity(), id: h.ID, pos: pos.Vec})
	}

	type hit struct {
		raider target
		at     rl.Vector3
	}
	var hits []hit
	var spent []ecs.Entity

	query := u.torpedoFilter.Query()
	for query.Next() {
		pos, vel, torp := query.Get()

		pos.Vec = rl.Vector3Add(pos.Vec, rl.Vector3Scale(vel.Vec, dt))
		torp.Travelled += speed * dt

		detonated := false
		for _, r := range raiders {
			if rl.Vector3Distance(pos.Vec, r.pos) <= blast+hostileRadius {
				hits = append(hits, hit{raider: r, at: pos.Vec})
				detonated = true
				break
			}
		}
		if detonated || torp.Travelled >= maxRange {
			spent = append(spent, query.Entity())
		}
	}

	for _, e := range spent {
		u.world.RemoveEntity(e)
	}

	var out []Detonation
	for _, h := range hits {
		det := Detonation{Position: h.at, TargetID: hostileID(h.raider.id)}
		if u.world.Alive(h.raider.entity) {
			_, _, raider := u.hostileMapper.Get(h.raider.entity)
			raider.Hull -= float32(cfg.Damage)
			if raider.Hull <= 0 {
				u.world.RemoveEntity(h.raider.entity)
				det.Destroyed = true
			}
		}
		out = append(out, det)
	}
	return out
}

// DamageHostile applies beam damage to a raider by id. It reports whether
// the raider was destroyed and whether it was found at all.
func (u *Universe) DamageHostile(id string, amount float32) (destroyed, ok bool) {
	var victim ecs.Entity
	found := false

	query := u.hostileFilter.Query()
	for query.Next() {
		_, _, h := query.Get()
		if hostileID(h.ID) != id {
			continue
		}
		found = true
		h.Hull -= amount
		if h.Hull <= 0 {
			victim = query.Entity()
			destroyed = true
		}
	}
	if destroyed {
		u.world.RemoveEntity(victim)
	}
	return destroyed, found
}

// Bodies returns all charted destinations in chart order.
func (u *Universe) Bodies() []Contact {
	var out []Contact
	var idx []int
	query := u.bodyFilter.Query()
	for query.Next() {
		pos, b := query.Get()
		out = append(out, Contact{
			ID:       bodyID(b.Index),
			Name:     b.Name,
			Class:    b.Class,
			Position: pos.Vec,
			Radius:   b.Radius,
			Report:   b.Report,
		})
		idx = append(idx, b.Index)
	}
	sort.Sort(&byKey{contacts: out, keys: idx})
	return out
}

// Hostiles returns all live raiders ordered by id.
func (u *Universe) Hostiles() []Contact {
	var out []Contact
	var idx []int
	query := u.hostileFilter.Query()
	for query.Next() {
		pos, _, h := query.Get()
		out = append(out, Contact{
			ID:       hostileID(h.ID),
			Name:     fmt.Sprintf("Raider %d", h.ID+1),
			Class:    "Hostile raider",
			Position: pos.Vec,
			Radius:   hostileRadius,
			Hostile:  true,
		})
		idx = append(idx, int(h.ID))
	}
	sort.Sort(&byKey{contacts: out, keys: idx})
	return out
}

// byKey sorts contacts by a parallel integer key slice.
type byKey struct {
	contacts []Contact
	keys     []int
}

func (b *byKey) Len() int           { return len(b.contacts) }
func (b *byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b *byKey) Swap(i, j int) {
	b.contacts[i], b.contacts[j] = b.contacts[j], b.contacts[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

// Contacts returns every targetable object: bodies first, then raiders.
func (u *Universe) Contacts() []Contact {
	return append(u.Bodies(), u.Hostiles()...)
}

// ByID resolves a contact id to its live view.
func (u *Universe) ByID(id string) (Contact, bool) {
	pool := u.Bodies()
	if strings.HasPrefix(id, "hostile:") {
		pool = u.Hostiles()
	}
	for _, c := range pool {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}

// HostileCount returns how many raiders remain.
func (u *Universe) HostileCount() int {
	n := 0
	query := u.hostileFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

// HostileViews returns render snapshots of all raiders.
func (u *Universe) HostileViews() []HostileView {
	var out []HostileView
	query := u.hostileFilter.Query()
	for query.Next() {
		pos, vel, h := query.Get()
		out = append(out, HostileView{
			ID:       hostileID(h.ID),
			Position: pos.Vec,
			Velocity: vel.Vec,
			Hull:     h.Hull,
		})
	}
	return out
}

// TorpedoViews returns render snapshots of live torpedoes.
func (u *Universe) TorpedoViews() []TorpedoView {
	var out []TorpedoView
	query := u.torpedoFilter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()
		out = append(out, TorpedoView{Position: pos.Vec, Velocity: vel.Vec})
	}
	return out
}

// DebrisViews returns the positions of all drifting fragments.
func (u *Universe) DebrisViews() []rl.Vector3 {
	var out []rl.Vector3
	query := u.debrisFilter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		out = append(out, pos.Vec)
	}
	return out
}

func (u *Universe) anchorOf(name string) rl.Vector3 {
	idx, ok := config.Cfg().Derived.BodyIndex[name]
	if !ok {
		return rl.Vector3{}
	}
	bc := config.Cfg().Universe.Bodies[idx]
	return rl.Vector3{X: float32(bc.X), Y: float32(bc.Y), Z: float32(bc.Z)}
}

func (u *Universe) randDirection() rl.Vector3 {
	for {
		v := rl.Vector3{
			X: u.rng.Float32()*2 - 1,
			Y: u.rng.Float32()*2 - 1,
			Z: u.rng.Float32()*2 - 1,
		}
		if l := rl.Vector3Length(v); l > 1e-3 && l <= 1 {
			return rl.Vector3Scale(v, 1/l)
		}
	}
}

func (u *Universe) randInSphere(radius float32) rl.Vector3 {
	return rl.Vector3Scale(u.randDirection(), u.rng.Float32()*radius)
}

// randInDisc scatters on the horizontal plane with a little vertical
// spread, keeping patrols near the chart plane.
func (u *Universe) randInDisc(radius float32) rl.Vector3 {
	angle := u.rng.Float32() * 2 * math.Pi
	r := u.rng.Float32() * radius
	return rl.Vector3{
		X: float32(math.Cos(float64(angle))) * r,
		Y: (u.rng.Float32()*2 - 1) * radius * 0.25,
		Z: float32(math.Sin(float64(angle))) * r,
	}
}

func patrolPosition(h Hostile) rl.Vector3 {
	r := float32(config.Cfg().Universe.Hostiles.PatrolRadius)
	return rl.Vector3{
		X: h.Anchor.X + float32(math.Cos(float64(h.Phase)))*r,
		Y: h.Anchor.Y,
		Z: h.Anchor.Z + float32(math.Sin(float64(h.Phase)))*r,
	}
}

func patrolVelocity(h Hostile) rl.Vector3 {
	speed := float32(config.Cfg().Universe.Hostiles.Speed)
	return rl.Vector3{
		X: -float32(math.Sin(float64(h.Phase))) * speed,
		Y: 0,
		Z: float32(math.Cos(float64(h.Phase))) * speed,
	}
}

func bodyID(index int) string { return fmt.Sprintf("body:%d", index) }

func hostileID(id uint32) string { return fmt.Sprintf("hostile:%d", id) }
