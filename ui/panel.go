package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// UnitRef identifies one repairable subsystem on the command panel.
type UnitRef struct {
	ID   string
	Name string
}

// CommandState feeds the command panel one frame of ship state.
type CommandState struct {
	WarpLevel    int
	MaxWarpLevel int
	Warping      bool
	HasTarget    bool
	TargetName   string
	Scanning     bool
	CameraMode   string
	DamagedUnits []UnitRef
}

// CommandActions reports what the user clicked this frame. WarpLevel
// always carries the slider value.
type CommandActions struct {
	WarpLevel   int
	Engage      bool
	Disengage   bool
	CycleTarget bool
	ClearTarget bool
	Scan        bool
	CycleCamera bool
	RepairID    string
}

// CommandPanel renders the helm command panel with raygui controls.
type CommandPanel struct {
	renderer *Renderer
	visible  bool
}

// NewCommandPanel creates a new command panel, initially visible.
func NewCommandPanel() *CommandPanel {
	return &CommandPanel{renderer: NewRenderer(), visible: true}
}

// Toggle switches panel visibility.
func (p *CommandPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *CommandPanel) IsVisible() bool {
	return p.visible
}

// Draw renders the panel in the bottom-right corner and returns the
// actions clicked this frame.
func (p *CommandPanel) Draw(screenWidth, screenHeight int32, state CommandState) CommandActions {
	actions := CommandActions{WarpLevel: state.WarpLevel}
	if !p.visible {
		return actions
	}

	r := p.renderer
	pad := float32(r.Theme.Padding)
	width := float32(300)
	repairRows := len(state.DamagedUnits)
	if repairRows > 4 {
		repairRows = 4
	}
	height := float32(196)
	if repairRows > 0 {
		height += 22 + float32(repairRows)*30
	}

	px := float32(screenWidth) - width - 10
	py := float32(screenHeight) - height - 10
	r.DrawPanel(int32(px), int32(py), int32(width), int32(height))

	x := px + pad
	y := py + pad
	inner := width - pad*2

	rl.DrawText("Helm", int32(x), int32(y), 16, rl.White)
	y += 24

	// Warp level slider, locked while a session is running
	rl.DrawText(fmt.Sprintf("Warp level: %d", state.WarpLevel), int32(x), int32(y), 14, rl.Gray)
	y += 18
	if state.Warping {
		rl.DrawText("drive engaged", int32(x), int32(y+2), 12, rl.Gray)
	} else {
		level := gui.SliderBar(
			rl.Rectangle{X: x, Y: y, Width: inner - 30, Height: 20},
			"1", fmt.Sprintf("%d", state.MaxWarpLevel),
			float32(state.WarpLevel), 1, float32(state.MaxWarpLevel),
		)
		actions.WarpLevel = int(level + 0.5)
	}
	y += 30

	half := (inner - 10) / 2
	if state.Warping {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, "Disengage") {
			actions.Disengage = true
		}
	} else {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, "Engage") {
			actions.Engage = true
		}
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 26}, scanLabel(state.Scanning)) {
		actions.Scan = true
	}
	y += 32

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, "Next Target") {
		actions.CycleTarget = true
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 26}, "Clear Target") {
		actions.ClearTarget = true
	}
	y += 32

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: 26}, fmt.Sprintf("Camera: %s", state.CameraMode)) {
		actions.CycleCamera = true
	}
	y += 36

	if repairRows > 0 {
		rl.DrawText("Repair teams", int32(x), int32(y), 14, rl.Gray)
		y += 20
		for i := 0; i < repairRows; i++ {
			u := state.DamagedUnits[i]
			if gui.Button(rl.Rectangle{X: x, Y: y, Width: inner, Height: 24}, "Repair "+u.Name) {
				actions.RepairID = u.ID
			}
			y += 30
		}
	}

	return actions
}

func scanLabel(scanning bool) string {
	if scanning {
		return "Scanning..."
	}
	return "Scan Target"
}
