package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/lcrow/starhelm/scanner"
	"github.com/lcrow/starhelm/ship"
	"github.com/lcrow/starhelm/telemetry"
	"github.com/lcrow/starhelm/warp"
)

// UnitRow is one subsystem line on the status panel, in config order.
type UnitRow struct {
	Name   string
	Power  float32
	Max    float32
	Status ship.Status
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	Speed        int
	FPS          int32
	Paused       bool
	ScreenWidth  int32
	ScreenHeight int32

	ImpulsePct float32
	SpeedUnits float32
	Position   rl.Vector3
	CameraMode string

	Warp         *warp.Session
	PendingLevel int
	HostilesLeft int

	Alert   ship.Alert
	Shields ship.Shields
	Hull    float32
	HullMax float32
	Units   []UnitRow

	ShieldMax       float32
	Heat            float32
	HeatMax         float32
	Overheated      bool
	Torpedoes       int
	TorpedoCap      int
	ReloadLeft      float32
	ReloadSec       float32
	HasTarget       bool
	TargetName      string
	TargetClass     string
	TargetRange     float32
	TargetHull      float32
	TargetIsHostile bool

	ScanPhase    scanner.Phase
	ScanProgress float32
	ScanSubject  string
	ScanReport   string
	ScanError    string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	h.drawConditionBanner(data)
	h.drawStatusPanel(data)
	h.drawFlightPanel(data)
	h.drawTacticalPanel(data)
	h.drawSimLine(data)
}

// drawConditionBanner renders the alert state across the top center.
// Condition red blinks.
func (h *HUD) drawConditionBanner(data HUDData) {
	t := h.renderer.Theme

	var text string
	var tint rl.Color
	switch data.Alert {
	case ship.AlertRed:
		text, tint = "CONDITION RED", t.AlertRed
		if (data.Tick/24)%2 == 1 {
			tint.A = 110
		}
	case ship.AlertYellow:
		text, tint = "CONDITION YELLOW", t.AlertYellow
	default:
		text, tint = "CONDITION GREEN", t.AlertGreen
	}

	w := int32(220)
	x := data.ScreenWidth/2 - w/2
	rl.DrawRectangle(x, 10, w, 26, tint)
	rl.DrawRectangleLines(x, 10, w, 26, t.PanelBorder)
	textW := rl.MeasureText(text, 16)
	rl.DrawText(text, data.ScreenWidth/2-textW/2, 15, 16, rl.White)
}

// drawStatusPanel renders hull, shield quadrants, and subsystems on the
// left edge.
func (h *HUD) drawStatusPanel(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight
	width := int32(300)

	rows := int32(len(data.Units)) + 11
	height := rows*lh + pad*2 + 20
	r.DrawPanel(10, 10, width, height)

	x := int32(10) + pad
	y := int32(10) + pad
	inner := width - pad*2

	rl.DrawText(data.Title, x, y, 16, rl.White)
	y += lh + 4

	y = r.DrawEnergyBar(x, y, "Hull", data.Hull, data.HullMax, inner)
	y = r.DrawSpacer(y, 4)

	y = r.DrawSectionHeader(x, y, "Shields")
	if !data.Shields.Online {
		rl.DrawText("OFFLINE", x+80, y-lh, r.Theme.FontSize, r.Theme.AlertRed)
	}
	y = r.DrawEnergyBar(x, y, "Front", data.Shields.Front, data.ShieldMax, inner)
	y = r.DrawEnergyBar(x, y, "Rear", data.Shields.Rear, data.ShieldMax, inner)
	y = r.DrawEnergyBar(x, y, "Port", data.Shields.Port, data.ShieldMax, inner)
	y = r.DrawEnergyBar(x, y, "Stbd", data.Shields.Starboard, data.ShieldMax, inner)
	y = r.DrawLabelValue(x, y, "Overall", fmt.Sprintf("%.0f%%", safeRatio(data.Shields.Overall(), data.ShieldMax)*100))
	y = r.DrawSpacer(y, 4)

	y = r.DrawSectionHeader(x, y, "Subsystems")
	for _, u := range data.Units {
		rl.DrawRectangle(x, y+3, 8, 8, statusColor(r.Theme, u.Status))
		rl.DrawText(u.Name, x+14, y, r.Theme.FontSize, r.Theme.LabelColor)

		barX := x + 120
		barW := inner - 120 - 60
		rl.DrawRectangle(barX, y+2, barW, r.Theme.BarHeight, r.Theme.BarBg)
		ratio := safeRatio(u.Power, u.Max)
		rl.DrawRectangle(barX, y+2, int32(float32(barW)*ratio), r.Theme.BarHeight, statusColor(r.Theme, u.Status))
		rl.DrawText(string(u.Status), barX+barW+5, y, r.Theme.FontSize, statusColor(r.Theme, u.Status))
		y += lh
	}
}

// drawFlightPanel renders drive state in the bottom-left corner.
func (h *HUD) drawFlightPanel(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight
	width := int32(300)
	height := lh*7 + pad*2

	x := int32(10)
	y := data.ScreenHeight - height - 10
	r.DrawPanel(x, y, width, height)

	x += pad
	y += pad
	inner := width - pad*2

	y = r.DrawSectionHeader(x, y, "Flight")
	y = r.DrawLabelValue(x, y, "Impulse", fmt.Sprintf("%.0f%%", data.ImpulsePct))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.0f u/s", data.SpeedUnits))
	y = r.DrawLabelValue(x, y, "Pos", fmt.Sprintf("%.0f %.0f %.0f", data.Position.X, data.Position.Y, data.Position.Z))
	y = r.DrawLabelValue(x, y, "Camera", data.CameraMode)

	if data.Warp == nil {
		r.DrawLabelValue(x, y, "Warp", fmt.Sprintf("standby (level %d)", data.PendingLevel))
		return
	}

	s := data.Warp
	y = r.DrawLabelValue(x, y, "Warp", fmt.Sprintf("%d  %s  ETA %.1fs", s.Level, s.Phase, s.ETA()))
	r.DrawBar(x, y, s.Target.Name, s.Progress(), inner)
}

// drawTacticalPanel renders target, weapons, and scanner state on the
// right edge.
func (h *HUD) drawTacticalPanel(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	lh := r.Theme.LineHeight
	width := int32(310)
	height := lh*15 + pad*2

	x := data.ScreenWidth - width - 10
	y := int32(10)
	r.DrawPanel(x, y, width, height)

	x += pad
	y += pad
	inner := width - pad*2

	y = r.DrawSectionHeader(x, y, "Tactical")
	if data.HasTarget {
		y = r.DrawLabelValue(x, y, "Target", data.TargetName)
		y = r.DrawLabelValue(x, y, "Class", data.TargetClass)
		y = r.DrawLabelValue(x, y, "Range", fmt.Sprintf("%.0f u", data.TargetRange))
		if data.TargetIsHostile {
			y = r.DrawLabelValue(x, y, "Hull", fmt.Sprintf("%.0f", data.TargetHull))
		} else {
			y += lh
		}
	} else {
		y = r.DrawLabelValue(x, y, "Target", "none")
		rl.DrawText(fmt.Sprintf("%d hostiles on scope", data.HostilesLeft), x, y, r.Theme.FontSize, r.Theme.LabelColor)
		y += lh * 3
	}

	y = r.DrawHeatBar(x, y, "Phaser", data.Heat, data.HeatMax, inner)
	if data.Overheated {
		rl.DrawText("OVERHEATED", x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.AlertRed)
	}
	y += 4

	y = r.DrawLabelValue(x, y, "Torpedoes", fmt.Sprintf("%d/%d", data.Torpedoes, data.TorpedoCap))
	if data.ReloadLeft > 0 && data.ReloadSec > 0 {
		y = r.DrawBar(x, y, "Reload", 1-data.ReloadLeft/data.ReloadSec, inner)
	} else {
		y += lh
	}

	y = r.DrawSectionHeader(x, y, "Scanner")
	switch data.ScanPhase {
	case scanner.PhaseScanning:
		y = r.DrawBar(x, y, "Sweep", data.ScanProgress/100, inner)
		r.DrawLabel(x, y, data.ScanSubject)
	case scanner.PhaseComplete:
		y = r.DrawLabelValue(x, y, "Subject", data.ScanSubject)
		for i, line := range wrapText(data.ScanReport, r.Theme.FontSize, inner) {
			if i >= 3 {
				break
			}
			r.DrawLabel(x, y, line)
			y += lh
		}
	case scanner.PhaseFailed:
		rl.DrawText("SCAN FAILED", x, y, r.Theme.FontSize, r.Theme.AlertRed)
		y += lh
		for i, line := range wrapText(data.ScanError, r.Theme.FontSize, inner) {
			if i >= 2 {
				break
			}
			r.DrawLabel(x, y, line)
			y += lh
		}
	default:
		if data.ScanError != "" {
			for i, line := range wrapText(data.ScanError, r.Theme.FontSize, inner) {
				if i >= 2 {
					break
				}
				r.DrawLabel(x, y, line)
				y += lh
			}
		} else {
			r.DrawLabel(x, y, "ready")
		}
	}
}

// drawSimLine renders tick, speed, and FPS along the bottom center.
func (h *HUD) drawSimLine(data HUDData) {
	text := fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS)
	if data.Paused {
		text += " | PAUSED"
	}
	w := rl.MeasureText(text, 14)
	rl.DrawText(text, data.ScreenWidth/2-w/2, data.ScreenHeight-25, 14, rl.Gray)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

func statusColor(t Theme, s ship.Status) rl.Color {
	switch s {
	case ship.StatusOffline:
		return t.AlertRed
	case ship.StatusDamaged:
		return rl.Orange
	case ship.StatusCharging:
		return t.BarFill
	default:
		return t.BarFillHigh
	}
}

func safeRatio(v, max float32) float32 {
	if max <= 0 {
		return 0
	}
	r := v / max
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// PerfPanel renders the simulation performance panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// phaseOrder fixes the panel's row order to the simulation step order.
var phaseOrder = []string{
	telemetry.PhaseInput,
	telemetry.PhaseFlight,
	telemetry.PhaseWarp,
	telemetry.PhaseUniverse,
	telemetry.PhaseShip,
	telemetry.PhaseWeapons,
	telemetry.PhaseScanner,
	telemetry.PhaseTelemetry,
	telemetry.PhaseCamera,
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s [%s..%s]",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range phaseOrder {
		avg, ok := stats.PhaseAvg[phase]
		if !ok {
			continue
		}
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 20 {
			color = rl.Red
		} else if pct > 10 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
