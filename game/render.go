package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/config"
	"github.com/lcrow/starhelm/flight"
	"github.com/lcrow/starhelm/renderer"
	"github.com/lcrow/starhelm/ship"
	"github.com/lcrow/starhelm/ui"
)

const controlsLegend = "WASD/RF move | arrows pitch/yaw | QE roll | Space phaser | G torpedo | T/Y target | V/B scan | J/K/Enter warp | C camera | F5/F9 snapshot"

// Draw renders one frame: the 3D scene, the bridge HUD, the command
// panel, and the perf overlay when enabled.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 4, G: 5, B: 10, A: 255})

	g.scene.Draw(g.director.Camera(), g.buildFrame())
	g.hud.Draw(g.buildHUD())
	if g.showHelp {
		g.hud.DrawControls(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), controlsLegend)
	}
	g.applyPanel(g.panel.Draw(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()), g.panelState()))
	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	rl.EndDrawing()
	g.perfCollector.RecordFrame()
}

// buildFrame gathers everything the scene renderer draws this frame.
func (g *Game) buildFrame() renderer.Frame {
	return renderer.Frame{
		Pose:       g.pose,
		ImpulsePct: flight.ImpulsePercent(g.pose),
		Warp:       g.drive.Session(),
		Bodies:     g.sector.Bodies(),
		Hostiles:   g.sector.HostileViews(),
		Torpedoes:  g.sector.TorpedoViews(),
		Debris:     g.sector.DebrisViews(),
		Beam:       g.beam,
		Scan:       g.scanPulse(),
		Time:       float32(g.simTime()),
		DT:         config.Cfg().Derived.DT32,
	}
}

// scanPulse shapes the sweep indicator while a scan runs.
func (g *Game) scanPulse() *renderer.ScanPulse {
	if !g.sensors.Scanning() {
		return nil
	}
	subject, ok := g.sensors.Subject()
	if !ok {
		return nil
	}
	c, alive := g.sector.ByID(subject.ID)
	if !alive {
		return nil
	}
	return &renderer.ScanPulse{
		At:       c.Position,
		Radius:   c.Radius,
		Progress: g.sensors.Progress() / 100,
	}
}

// buildHUD flattens the simulation into one HUD frame.
func (g *Game) buildHUD() ui.HUDData {
	cfg := config.Cfg()
	data := ui.HUDData{
		Title:        "STARHELM",
		Tick:         g.tick,
		Speed:        g.speed,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),

		ImpulsePct: flight.ImpulsePercent(g.pose),
		SpeedUnits: g.pose.Speed(),
		Position:   g.pose.Position,
		CameraMode: string(g.director.Mode()),

		Warp:         g.drive.Session(),
		PendingLevel: g.pendingLevel,
		HostilesLeft: g.sector.HostileCount(),

		Alert:     g.systems.Alert(),
		Shields:   g.systems.Shields(),
		ShieldMax: float32(cfg.Shields.Max),
		Hull:      g.systems.Hull(),
		HullMax:   float32(cfg.Hull.Max),

		Heat:       g.battery.Heat(),
		HeatMax:    float32(cfg.Weapons.Phaser.MaxHeat),
		Overheated: g.battery.Overheated(),
		Torpedoes:  g.battery.TorpedoesLeft(),
		TorpedoCap: cfg.Weapons.Torpedo.Capacity,
		ReloadLeft: g.battery.ReloadLeft(),
		ReloadSec:  float32(cfg.Weapons.Torpedo.ReloadSec),

		ScanPhase:    g.sensors.Phase(),
		ScanProgress: g.sensors.Progress(),
		ScanReport:   g.sensors.Report(),
		ScanError:    g.sensors.Err(),
	}

	for _, uc := range cfg.Subsystems.Units {
		u, ok := g.systems.Unit(uc.ID)
		if !ok {
			continue
		}
		data.Units = append(data.Units, ui.UnitRow{
			Name:   u.Name,
			Power:  u.Power,
			Max:    u.MaxPower,
			Status: u.Status,
		})
	}

	if t, c, ok := g.weaponTarget(); ok {
		data.HasTarget = true
		data.TargetName = c.Name
		data.TargetClass = c.Class
		data.TargetRange = rl.Vector3Distance(g.pose.Position, c.Position)
		data.TargetIsHostile = c.Hostile
		if c.Hostile {
			data.TargetHull = g.hostileHull(t.ID)
		}
	}
	if subject, ok := g.sensors.Subject(); ok {
		data.ScanSubject = subject.Name
	}
	return data
}

func (g *Game) hostileHull(id string) float32 {
	for _, h := range g.sector.HostileViews() {
		if h.ID == id {
			return h.Hull
		}
	}
	return 0
}

// panelState feeds the command panel the ship state it renders against.
func (g *Game) panelState() ui.CommandState {
	cfg := config.Cfg()
	st := ui.CommandState{
		WarpLevel:    g.pendingLevel,
		MaxWarpLevel: cfg.Warp.MaxLevel,
		Warping:      g.drive.Warping(),
		Scanning:     g.sensors.Scanning(),
		CameraMode:   string(g.director.Mode()),
	}
	if t, ok := g.battery.Target(); ok {
		st.HasTarget = true
		st.TargetName = t.Name
	}
	for _, uc := range cfg.Subsystems.Units {
		u, ok := g.systems.Unit(uc.ID)
		if !ok || u.Status == ship.StatusOnline || u.Status == ship.StatusCharging {
			continue
		}
		st.DamagedUnits = append(st.DamagedUnits, ui.UnitRef{ID: u.ID, Name: u.Name})
	}
	return st
}

// applyPanel executes whatever the command panel reported clicked.
func (g *Game) applyPanel(a ui.CommandActions) {
	if a.WarpLevel != 0 && a.WarpLevel != g.pendingLevel {
		g.setWarpLevel(a.WarpLevel)
	}
	if a.Engage {
		g.engageWarp()
	}
	if a.Disengage {
		g.drive.Disengage()
	}
	if a.CycleTarget {
		g.cycleTarget()
	}
	if a.ClearTarget {
		g.battery.ClearTarget()
	}
	if a.Scan {
		g.startScan()
	}
	if a.CycleCamera {
		g.director.CycleMode()
	}
	if a.RepairID != "" {
		g.repairUnit(a.RepairID)
	}
}
