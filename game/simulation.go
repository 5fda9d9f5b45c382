package game

import (
	"log/slog"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/audio"
	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/flight"
	"github.com/lcrow/starhelm/renderer"
	"github.com/lcrow/starhelm/ship"
	"github.com/lcrow/starhelm/spatial"
	"github.com/lcrow/starhelm/telemetry"
	"github.com/lcrow/starhelm/universe"
	"github.com/lcrow/starhelm/weapons"
)

const (
	// muzzleOffset is how far ahead of the pose torpedoes and beams
	// originate, clear of the saucer.
	muzzleOffset = 10

	// repairTeamBoost is the power restored by one repair team dispatch.
	repairTeamBoost = 35

	// hullPatchAmount is the integrity restored per docked repair pulse.
	hullPatchAmount = 15

	// dockRange extends a station's radius to the volume that counts as
	// alongside. Warp arrival clearance leaves the ship inside it.
	dockRange = 120
)

// simulationStep advances the whole simulation by one fixed-dt tick.
// Ordering matters: the sector moves before damage is resolved, the
// ship resolves damage before weapons return fire, and telemetry sees
// the settled state.
func (g *Game) simulationStep() {
	cfg := config.Cfg()
	dt := cfg.Derived.DT32
	pc := g.perfCollector
	pc.StartTick()

	// 1. Input consequences: enforce offline units on running operations.
	pc.StartPhase(telemetry.PhaseInput)
	g.applyUnitGates()

	// 2. Impulse flight. Suppressed while the drive owns the pose.
	pc.StartPhase(telemetry.PhaseFlight)
	warping := g.drive.Warping()
	flight.Update(&g.pose, g.intent, warping, dt)

	// 3. Warp sequence.
	pc.StartPhase(telemetry.PhaseWarp)
	g.drive.Update(&g.pose, dt)

	// 4. Sector actors: patrols, debris, torpedo flight.
	pc.StartPhase(telemetry.PhaseUniverse)
	events := g.sector.Update(g.pose.Position, dt)

	// 5. Damage model.
	pc.StartPhase(telemetry.PhaseShip)
	g.applyEvents(events)
	g.updateUnitLoads()
	g.systems.Update(dt)
	g.checkDestroyed()

	// 6. Weapons: heat, reload, and beam damage against the lock.
	pc.StartPhase(telemetry.PhaseWeapons)
	g.updateWeapons(dt)

	// 7. Scanner sweep with live re-validation.
	pc.StartPhase(telemetry.PhaseScanner)
	g.updateScanner(dt)

	// 8. Telemetry: per-tick samples and the window flush.
	pc.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordSpeed(g.pose.Speed())
	g.recordFlightSample()
	g.flushTelemetry()

	// 9. Camera follows the settled pose.
	pc.StartPhase(telemetry.PhaseCamera)
	g.director.Update(g.pose, g.drive.Session(), dt)

	pc.EndTick()
	g.tick++
}

// applyUnitGates enforces offline subsystems on in-flight operations:
// dead engines revoke impulse authority, a dead core drops the ship out
// of warp, a dead array aborts the sweep, a dead bank closes the beam.
func (g *Game) applyUnitGates() {
	if !g.unitOnline(ship.UnitEngines) {
		g.intent.Enabled = false
	}
	if g.drive.Warping() && !g.unitOnline(ship.UnitWarpCore) {
		slog.Info("warp core offline, dropping out of warp")
		g.drive.Shutdown()
	}
	if g.sensors.Scanning() && !g.unitOnline(ship.UnitSensors) {
		g.sensors.Abort("sensor suite offline")
	}
	if g.battery.Firing() && !g.unitOnline(ship.UnitWeapons) {
		g.battery.SetFiring(false)
	}
}

// applyEvents resolves sector activity against the ship: raider shots
// hit the facing quadrant, debris grinds a random one, torpedo
// detonations are scored and drawn.
func (g *Game) applyEvents(ev universe.Events) {
	cfg := config.Cfg()
	for _, shot := range ev.Shots {
		travel, dist := spatial.Toward(shot.From, g.pose.Position)
		if dist == 0 {
			travel = g.pose.Forward()
		}
		q := ship.QuadrantFromBearing(g.pose.Rotation, travel)
		g.systems.DamageQuadrant(q, shot.Damage)
		g.collector.RecordShotTaken()
		g.collector.RecordDamageTaken(shot.Damage)
	}

	for i := 0; i < ev.DebrisStrikes; i++ {
		g.systems.DebrisHit()
		g.collector.RecordDebrisStrike()
		g.collector.RecordDamageTaken(float32(cfg.Universe.Debris.Damage))
	}

	for _, det := range ev.Detonations {
		g.collector.RecordTorpedoHit()
		g.collector.RecordDamageDealt(float32(cfg.Weapons.Torpedo.Damage))
		if g.scene != nil {
			g.scene.AddBlast(det.Position, det.Destroyed)
		}
		if det.Destroyed {
			g.collector.RecordKill()
			g.battery.DropTarget(det.TargetID)
			g.onCue(audio.CueTargetDestroyed)
		}
	}
}

// updateUnitLoads mirrors what the ship is doing onto subsystem duty
// flags so drain and recharge track real use.
func (g *Game) updateUnitLoads() {
	moving := g.intent.Enabled && (g.intent.Thrust != 0 || g.intent.Strafe != 0 || g.intent.Lift != 0)
	g.systems.SetActive(ship.UnitEngines, moving && !g.drive.Warping())
	g.systems.SetActive(ship.UnitWarpCore, g.drive.Warping())
	g.systems.SetActive(ship.UnitShields, g.systems.Shields().Online)
	g.systems.SetActive(ship.UnitWeapons, g.battery.Firing())
	g.systems.SetActive(ship.UnitSensors, g.sensors.Scanning())
	g.systems.SetActive(ship.UnitLifeSupport, true)
}

// updateWeapons advances heat and reload, keeps the lock honest about
// vanished contacts, and applies beam damage to a live hostile in
// range.
func (g *Game) updateWeapons(dt float32) {
	g.battery.Update(dt)
	g.beam = nil

	target, locked := g.battery.Target()
	if locked {
		if _, alive := g.sector.ByID(target.ID); !alive {
			g.battery.DropTarget(target.ID)
			locked = false
		}
	}
	if !locked {
		if g.battery.Firing() {
			g.battery.SetFiring(false)
		}
		return
	}
	if !g.battery.Firing() {
		return
	}

	c, _ := g.sector.ByID(target.ID)
	dist := rl.Vector3Distance(g.pose.Position, c.Position)
	if dist > g.battery.BeamRange() {
		return
	}

	g.beam = &renderer.BeamShot{From: g.muzzlePoint(), To: c.Position}
	g.collector.RecordPhaserFire(dt)
	if !c.Hostile {
		return
	}
	damage := g.battery.BeamDamage(dt)
	g.collector.RecordDamageDealt(damage)
	if destroyed, ok := g.sector.DamageHostile(target.ID, damage); ok && destroyed {
		g.collector.RecordKill()
		if g.scene != nil {
			g.scene.AddBlast(c.Position, true)
		}
		g.battery.DropTarget(target.ID)
		g.onCue(audio.CueTargetDestroyed)
	}
}

// launchTorpedo spawns a projectile aimed at the locked contact, or
// straight ahead without one. Inventory and reload rules live in the
// battery.
func (g *Game) launchTorpedo() {
	if !g.battery.LaunchTorpedo() {
		return
	}
	dir := g.pose.Forward()
	if t, ok := g.battery.Target(); ok {
		if c, alive := g.sector.ByID(t.ID); alive {
			if aim, dist := spatial.Toward(g.pose.Position, c.Position); dist > 0 {
				dir = aim
			}
		}
	}
	g.sector.SpawnTorpedo(g.muzzlePoint(), dir)
}

// updateScanner advances a running sweep against the subject's live
// state.
func (g *Game) updateScanner(dt float32) {
	if !g.sensors.Scanning() {
		return
	}
	subject, ok := g.sensors.Subject()
	if !ok {
		return
	}
	c, alive := g.sector.ByID(subject.ID)
	g.sensors.Update(g.pose.Position, c.Position, alive, dt)
}

func (g *Game) checkDestroyed() {
	if g.destroyed || g.systems.Hull() > 0 {
		return
	}
	g.destroyed = true
	slog.Info("hull integrity lost", "tick", g.tick)
	if !g.headless {
		g.paused = true
	}
}

func (g *Game) muzzlePoint() rl.Vector3 {
	return rl.Vector3Add(g.pose.Position, rl.Vector3Scale(g.pose.Forward(), muzzleOffset))
}

// dockedAt returns the station-class body the ship is alongside, if
// any.
func (g *Game) dockedAt() (universe.Contact, bool) {
	for _, c := range g.sector.Bodies() {
		if !containsFold(c.Class, "station") && !containsFold(c.Class, "outpost") {
			continue
		}
		if rl.Vector3Distance(g.pose.Position, c.Position) <= c.Radius+dockRange {
			return c, true
		}
	}
	return universe.Contact{}, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// weaponTarget resolves the lock to a live contact.
func (g *Game) weaponTarget() (weapons.Candidate, universe.Contact, bool) {
	t, ok := g.battery.Target()
	if !ok {
		return weapons.Candidate{}, universe.Contact{}, false
	}
	c, alive := g.sector.ByID(t.ID)
	if !alive {
		return weapons.Candidate{}, universe.Contact{}, false
	}
	return t, c, true
}
