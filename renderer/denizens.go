package renderer

import (
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tank/denizen"
)

// fallback colors for denizens whose image cannot be loaded
var kindColors = map[denizen.Kind]rl.Color{
	denizen.KindFish:       rl.LightGray,
	denizen.KindSwitchFish: rl.SkyBlue,
	denizen.KindGoFish:     rl.Gold,
	denizen.KindBiteFish:   rl.Red,
	denizen.KindSeed:       rl.Green,
	denizen.KindStarter:    rl.Orange,
	denizen.KindEffect:     rl.Pink,
}

// DenizenRenderer draws render rules as textured boxes. Textures are loaded
// lazily and cached by image URI.
type DenizenRenderer struct {
	assetRoot string
	textures  map[string]rl.Texture2D
	missing   map[string]bool
}

// NewDenizenRenderer resolves image URIs against assetRoot. Must be used
// after the raylib window is created.
func NewDenizenRenderer(assetRoot string) *DenizenRenderer {
	return &DenizenRenderer{
		assetRoot: assetRoot,
		textures:  make(map[string]rl.Texture2D),
		missing:   make(map[string]bool),
	}
}

// Draw renders every rule in order; later rules are drawn on top.
func (r *DenizenRenderer) Draw(rules []denizen.RenderRules, vp Viewport) {
	for _, rule := range rules {
		dst := vp.Rect(rule)
		tex, ok := r.texture(rule.ImageURI)
		if !ok {
			color, found := kindColors[rule.Kind]
			if !found {
				color = rl.White
			}
			rl.DrawRectangleRec(dst, rl.Fade(color, 0.8))
			rl.DrawRectangleLinesEx(dst, 1, rl.Black)
			continue
		}
		src := rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
		rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
	}
}

// texture returns the cached texture for uri, loading it on first use.
func (r *DenizenRenderer) texture(uri string) (rl.Texture2D, bool) {
	if uri == "" || r.missing[uri] {
		return rl.Texture2D{}, false
	}
	if tex, ok := r.textures[uri]; ok {
		return tex, true
	}

	path := filepath.Join(r.assetRoot, filepath.FromSlash(uri))
	if _, err := os.Stat(path); err != nil {
		slog.Warn("denizen image unavailable", "uri", uri, "path", path, "error", err)
		r.missing[uri] = true
		return rl.Texture2D{}, false
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		slog.Warn("denizen image failed to load", "uri", uri, "path", path)
		r.missing[uri] = true
		return rl.Texture2D{}, false
	}
	r.textures[uri] = tex
	return tex, true
}

// Unload frees all cached textures.
func (r *DenizenRenderer) Unload() {
	for uri, tex := range r.textures {
		rl.UnloadTexture(tex)
		delete(r.textures, uri)
	}
}
