package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// HandleKeys applies keyboard shortcuts to c.
func HandleKeys(c Controls) {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		c.SetPaused(!c.Paused())
	}

	// Speed control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		c.SetSpeed(c.Speed() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		c.SetSpeed(c.Speed() + 1)
	}

	if rl.IsKeyPressed(rl.KeyA) {
		c.SetAutoclick(!c.Autoclick())
	}
}
