package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.ToggleCurves()
	}

	if rl.IsKeyPressed(rl.KeyRightBracket) {
		g.SetEnv(g.env + 1)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		g.SetEnv(g.env - 1)
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	g.handleCameraInput()
}

// handleCameraInput processes pan and zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	pan := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(pan, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-pan, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, pan)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -pan)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
