package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/scanner"
	"github.com/lcrow/starhelm/ship"
	"github.com/lcrow/starhelm/warp"
	"github.com/lcrow/starhelm/weapons"
)

const (
	retreatHull      = 35
	recoveredHull    = 70
	recoveredShields = 75
	torpedoAutoRange = 1200
	repairPulseTicks = 180
	surveyRestTicks  = 300
)

type pilotMode int

const (
	pilotTransit pilotMode = iota
	pilotEngage
	pilotRetreat
)

// autopilot flies the ship during headless runs so warp, combat,
// scanning, and repair all see load without a player. It jumps out to
// the raider patrol, trades fire until the hull runs low, falls back to
// a harbor to patch up, and returns; with the sector cleared it surveys
// the catalog.
type autopilot struct {
	mode        pilotMode
	holdTicks   int32
	surveyIndex int
}

func newAutopilot() *autopilot { return &autopilot{} }

func (p *autopilot) step(g *Game) {
	if g.destroyed {
		return
	}
	p.holdTicks++
	switch p.mode {
	case pilotTransit:
		p.stepTransit(g)
	case pilotEngage:
		p.stepEngage(g)
	case pilotRetreat:
		p.stepRetreat(g)
	}
}

func (p *autopilot) stepTransit(g *Game) {
	if g.drive.Warping() {
		return
	}
	front, ok := p.battleground(g)
	if !ok {
		p.mode = pilotEngage
		return
	}
	reach := float32(config.Cfg().Universe.Hostiles.FireRange)
	if rl.Vector3Distance(g.pose.Position, front.Position) <= reach {
		p.mode = pilotEngage
		p.holdTicks = 0
		return
	}
	g.setWarpLevel(6)
	g.drive.Engage(&g.pose, front, 6)
}

func (p *autopilot) stepEngage(g *Game) {
	if g.systems.Hull() < retreatHull {
		p.mode = pilotRetreat
		p.holdTicks = 0
		g.battery.SetFiring(false)
		g.drive.Disengage()
		return
	}
	if g.sector.HostileCount() == 0 {
		g.battery.SetFiring(false)
		p.stepSurvey(g)
		return
	}

	target, locked := g.battery.Target()
	if !locked || target.Kind != weapons.KindHostile {
		p.lockNearestHostile(g)
		target, locked = g.battery.Target()
	}
	if !locked {
		return
	}
	c, alive := g.sector.ByID(target.ID)
	if !alive {
		return
	}
	dist := rl.Vector3Distance(g.pose.Position, c.Position)
	if dist <= g.battery.BeamRange() && g.unitOnline(ship.UnitWeapons) {
		g.battery.SetFiring(true)
	} else {
		g.battery.SetFiring(false)
	}
	if dist <= torpedoAutoRange && g.battery.TorpedoReady() && g.unitOnline(ship.UnitWeapons) {
		g.launchTorpedo()
	}
}

func (p *autopilot) stepRetreat(g *Game) {
	g.battery.SetFiring(false)
	harbor, ok := p.harbor(g)
	if !ok {
		p.mode = pilotEngage
		return
	}
	if g.drive.Warping() {
		return
	}
	if rl.Vector3Distance(g.pose.Position, harbor.Position) > harbor.Radius+dockRange {
		g.setWarpLevel(8)
		g.drive.Engage(&g.pose, harbor, 8)
		return
	}

	if p.holdTicks%repairPulseTicks == 0 {
		g.systems.RestoreShields(float32(config.Cfg().Shields.Max) / 4)
		g.systems.RepairHull(hullPatchAmount)
		p.repairWorstUnit(g)
	}
	if g.systems.Hull() >= recoveredHull && g.systems.Shields().Overall() >= recoveredShields {
		p.mode = pilotTransit
		p.holdTicks = 0
	}
}

// stepSurvey scans the catalog one body at a time once no raiders
// remain.
func (p *autopilot) stepSurvey(g *Game) {
	switch g.sensors.Phase() {
	case scanner.PhaseScanning:
		return
	case scanner.PhaseComplete, scanner.PhaseFailed:
		if p.holdTicks%surveyRestTicks == 0 {
			g.sensors.Reset()
		}
		return
	}
	if !g.unitOnline(ship.UnitSensors) {
		return
	}
	bodies := g.sector.Bodies()
	if len(bodies) == 0 {
		return
	}
	c := bodies[p.surveyIndex%len(bodies)]
	if rl.Vector3Distance(g.pose.Position, c.Position) > float32(config.Cfg().Scanner.MaxRange) {
		if !g.drive.Warping() {
			g.setWarpLevel(4)
			g.drive.Engage(&g.pose, warp.Target{ID: c.ID, Name: c.Name, Position: c.Position, Radius: c.Radius}, 4)
		}
		return
	}
	subject := scanner.Subject{ID: c.ID, Name: c.Name, Report: c.Report}
	if err := g.sensors.Start(g.pose.Position, subject, c.Position); err == nil {
		p.surveyIndex++
	}
}

// battleground is the warp target nearest the raider patrol: the
// configured anchor body, or the body closest to the first hostile.
func (p *autopilot) battleground(g *Game) (warp.Target, bool) {
	if g.sector.HostileCount() == 0 {
		return warp.Target{}, false
	}
	anchor := config.Cfg().Universe.Hostiles.AnchorBody
	var fallback rl.Vector3
	if hs := g.sector.Hostiles(); len(hs) > 0 {
		fallback = hs[0].Position
	}

	var best warp.Target
	bestDist := float32(-1)
	for _, c := range g.sector.Bodies() {
		if c.Name == anchor {
			return warp.Target{ID: c.ID, Name: c.Name, Position: c.Position, Radius: c.Radius}, true
		}
		d := rl.Vector3Distance(c.Position, fallback)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = warp.Target{ID: c.ID, Name: c.Name, Position: c.Position, Radius: c.Radius}
		}
	}
	return best, bestDist >= 0
}

// harbor is where the autopilot licks its wounds: a station-class body,
// or failing that any body away from the battleground.
func (p *autopilot) harbor(g *Game) (warp.Target, bool) {
	anchor := config.Cfg().Universe.Hostiles.AnchorBody
	var fallback warp.Target
	found := false
	for _, c := range g.sector.Bodies() {
		t := warp.Target{ID: c.ID, Name: c.Name, Position: c.Position, Radius: c.Radius}
		class := c.Class
		if containsFold(class, "station") || containsFold(class, "outpost") {
			return t, true
		}
		if !found && c.Name != anchor {
			fallback = t
			found = true
		}
	}
	return fallback, found
}

func (p *autopilot) lockNearestHostile(g *Game) {
	g.battery.ClearTarget()
	hostiles := g.sector.Hostiles()
	candidates := make([]weapons.Candidate, 0, len(hostiles))
	for _, c := range hostiles {
		candidates = append(candidates, weapons.Candidate{
			ID:       c.ID,
			Name:     c.Name,
			Kind:     weapons.KindHostile,
			Position: c.Position,
		})
	}
	g.battery.CycleTarget(g.pose.Position, candidates)
}

// repairWorstUnit dispatches a team to the unit with the least power,
// walking units in config order so same-seed runs stay reproducible.
func (p *autopilot) repairWorstUnit(g *Game) {
	worstID := ""
	worstFrac := float32(1)
	for _, uc := range config.Cfg().Subsystems.Units {
		u, ok := g.systems.Unit(uc.ID)
		if !ok || u.MaxPower <= 0 {
			continue
		}
		frac := u.Power / u.MaxPower
		if frac < worstFrac {
			worstFrac = frac
			worstID = u.ID
		}
	}
	if worstID != "" && worstFrac < 1 {
		g.repairUnit(worstID)
	}
}
