package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/trailnet/telemetry"
)

const agentColor = 0xe05a2a

// Draw renders the overlay, the agents and the control panel.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.surface.Begin()
	g.perfCollector.StartPhase(telemetry.PhaseCanvas)
	// The field is static per environment; Surface keeps the uploaded texture
	if !g.canvasOK {
		size := g.cfg.Render.CanvasSize
		g.surface.SetImage(g.overlay.Canvas(g.env), size, size)
		g.canvasOK = true
	} else {
		g.surface.Redraw()
	}

	g.perfCollector.StartPhase(telemetry.PhaseTrails)
	g.store.Render(g.surface, g.env, g.overlay.RenderOptions())
	g.surface.Agents(g.swarm.Positions(g.env), g.store.Scale(), 3, agentColor)
	g.perfCollector.EndTick()
	g.surface.End()

	g.drawPanel()
	rl.EndDrawing()
}

// drawPanel draws the controls above the canvas.
func (g *Game) drawPanel() {
	const bw, bh, pad = 110, 28, 8
	y := float32(pad)

	if gui.Button(rl.Rectangle{X: pad, Y: y, Width: bw, Height: bh}, "< Env") {
		g.SetEnv(g.env - 1)
	}
	if gui.Button(rl.Rectangle{X: pad + bw + pad, Y: y, Width: bw, Height: bh}, "Env >") {
		g.SetEnv(g.env + 1)
	}
	curves := "Curves"
	if g.overlay.RenderOptions().Curves {
		curves = "Chords"
	}
	if gui.Button(rl.Rectangle{X: pad + 2*(bw+pad), Y: y, Width: bw, Height: bh}, curves) {
		g.ToggleCurves()
	}
	pause := "Pause"
	if g.paused {
		pause = "Resume"
	}
	if gui.Button(rl.Rectangle{X: pad + 3*(bw+pad), Y: y, Width: bw, Height: bh}, pause) {
		g.paused = !g.paused
	}

	st := g.perfCollector.Stats()
	rl.DrawText(fmt.Sprintf("Env %d/%d | Tick %d | Agents %d | Legs %d",
		g.env, g.store.Dims().Envs, g.tick, g.swarm.Count(), g.swarm.Legs(g.env)),
		pad, int32(y)+bh+pad, 16, rl.LightGray)
	rl.DrawText(fmt.Sprintf("FPS %.0f | Speed %dx [</>] | [Space] pause [C] curves [ ] env, arrows/wheel view",
		st.FPS, g.stepsPerUpdate),
		pad, int32(y)+bh+pad+20, 14, rl.Gray)
}
