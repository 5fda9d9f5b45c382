package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/flight"
	"github.com/lcrow/starhelm/scanner"
	"github.com/lcrow/starhelm/ship"
	"github.com/lcrow/starhelm/warp"
	"github.com/lcrow/starhelm/weapons"
)

const (
	minSpeed = 1
	maxSpeed = 10
)

// handleInput reads the keyboard and mouse. Held keys feed flight
// intent and the beam trigger every frame; pressed keys fire one-shot
// commands.
func (g *Game) handleInput() {
	g.handleSimKeys()
	g.handleFlightKeys()
	g.handleCombatKeys()
	g.handleHelmKeys()
	g.handleCameraInput()
}

func (g *Game) handleSimKeys() {
	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
		slog.Info("pause toggled", "paused", g.paused)
	}
	if rl.IsKeyPressed(rl.KeyComma) && g.speed > minSpeed {
		g.speed--
		slog.Info("speed changed", "speed", g.speed)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.speed < maxSpeed {
		g.speed++
		slog.Info("speed changed", "speed", g.speed)
	}
	if rl.IsKeyPressed(rl.KeyF1) {
		g.showHelp = !g.showHelp
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.saveSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyF9) {
		g.loadSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
}

func (g *Game) handleFlightKeys() {
	in := flight.Intent{Enabled: true}
	if rl.IsKeyDown(rl.KeyW) {
		in.Thrust++
	}
	if rl.IsKeyDown(rl.KeyS) {
		in.Thrust--
	}
	if rl.IsKeyDown(rl.KeyD) {
		in.Strafe++
	}
	if rl.IsKeyDown(rl.KeyA) {
		in.Strafe--
	}
	if rl.IsKeyDown(rl.KeyR) {
		in.Lift++
	}
	if rl.IsKeyDown(rl.KeyF) {
		in.Lift--
	}
	if rl.IsKeyDown(rl.KeyUp) {
		in.Pitch++
	}
	if rl.IsKeyDown(rl.KeyDown) {
		in.Pitch--
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		in.Yaw--
	}
	if rl.IsKeyDown(rl.KeyRight) {
		in.Yaw++
	}
	if rl.IsKeyDown(rl.KeyQ) {
		in.Roll--
	}
	if rl.IsKeyDown(rl.KeyE) {
		in.Roll++
	}
	g.intent = in
}

func (g *Game) handleCombatKeys() {
	if rl.IsKeyDown(rl.KeySpace) {
		if _, locked := g.battery.Target(); locked && g.unitOnline(ship.UnitWeapons) {
			g.battery.SetFiring(true)
		}
	} else if g.battery.Firing() {
		g.battery.SetFiring(false)
	}

	if rl.IsKeyPressed(rl.KeyG) && g.unitOnline(ship.UnitWeapons) {
		g.launchTorpedo()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.cycleTarget()
	}
	if rl.IsKeyPressed(rl.KeyY) {
		g.battery.ClearTarget()
	}
	if rl.IsKeyPressed(rl.KeyV) {
		g.startScan()
	}
	if rl.IsKeyPressed(rl.KeyB) {
		g.sensors.Reset()
	}
	if rl.IsKeyPressed(rl.KeyU) && g.unitOnline(ship.UnitShields) {
		g.systems.RestoreShields(float32(config.Cfg().Shields.Max) / 4)
	}
	if rl.IsKeyPressed(rl.KeyO) {
		g.repairHullDocked()
	}
}

func (g *Game) handleHelmKeys() {
	if rl.IsKeyPressed(rl.KeyK) {
		g.setWarpLevel(g.pendingLevel + 1)
	}
	if rl.IsKeyPressed(rl.KeyJ) {
		g.setWarpLevel(g.pendingLevel - 1)
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		g.engageWarp()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		g.drive.Disengage()
	}
	if rl.IsKeyPressed(rl.KeyX) && g.drive.Phase() == warp.PhaseCruising {
		g.drive.SkipToDestination(&g.pose)
	}
}

func (g *Game) handleCameraInput() {
	if rl.IsKeyPressed(rl.KeyC) {
		g.director.CycleMode()
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.director.Drag(delta.X, delta.Y)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.director.Zoom(wheel)
	}
}

// setWarpLevel clamps and stores the armed warp level, and forwards it
// to a live session where it takes effect while cruising.
func (g *Game) setWarpLevel(level int) {
	max := config.Cfg().Warp.MaxLevel
	if level < 1 {
		level = 1
	}
	if level > max {
		level = max
	}
	g.pendingLevel = level
	g.drive.SetLevel(level)
}

// engageWarp starts a jump at the armed level. The destination is the
// locked contact when it is a body, otherwise the nearest body.
func (g *Game) engageWarp() {
	if g.drive.Warping() || !g.unitOnline(ship.UnitWarpCore) {
		return
	}
	target, ok := g.warpDestination()
	if !ok {
		return
	}
	if g.drive.Engage(&g.pose, target, g.pendingLevel) {
		slog.Info("warp engaged", "target", target.Name, "level", g.pendingLevel)
	}
}

func (g *Game) warpDestination() (warp.Target, bool) {
	if t, ok := g.battery.Target(); ok {
		if c, alive := g.sector.ByID(t.ID); alive && !c.Hostile {
			return warp.Target{ID: c.ID, Name: c.Name, Position: c.Position, Radius: c.Radius}, true
		}
	}
	var best warp.Target
	bestDist := float32(-1)
	for _, c := range g.sector.Bodies() {
		d := rl.Vector3Distance(g.pose.Position, c.Position)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = warp.Target{ID: c.ID, Name: c.Name, Position: c.Position, Radius: c.Radius}
		}
	}
	return best, bestDist >= 0
}

// cycleTarget advances the weapons lock through everything on scope.
func (g *Game) cycleTarget() {
	contacts := g.sector.Contacts()
	candidates := make([]weapons.Candidate, 0, len(contacts))
	for _, c := range contacts {
		kind := weapons.KindBody
		if c.Hostile {
			kind = weapons.KindHostile
		}
		candidates = append(candidates, weapons.Candidate{
			ID:       c.ID,
			Name:     c.Name,
			Kind:     kind,
			Position: c.Position,
		})
	}
	g.battery.CycleTarget(g.pose.Position, candidates)
}

// startScan sweeps the locked contact.
func (g *Game) startScan() {
	if !g.unitOnline(ship.UnitSensors) {
		return
	}
	t, ok := g.battery.Target()
	if !ok {
		return
	}
	c, alive := g.sector.ByID(t.ID)
	if !alive {
		return
	}
	subject := scanner.Subject{ID: c.ID, Name: c.Name, Report: c.Report}
	if err := g.sensors.Start(g.pose.Position, subject, c.Position); err != nil {
		slog.Info("scan refused", "subject", c.Name, "reason", err)
	}
}

// repairUnit sends a repair team to one subsystem.
func (g *Game) repairUnit(id string) {
	if g.systems.Repair(id, repairTeamBoost) {
		slog.Info("repair team dispatched", "unit", id)
	}
}

// repairHullDocked patches the hull, available only alongside a
// station-class body.
func (g *Game) repairHullDocked() {
	if _, ok := g.dockedAt(); !ok {
		return
	}
	g.systems.RepairHull(hullPatchAmount)
}
