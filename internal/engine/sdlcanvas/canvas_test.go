package sdlcanvas

import (
	"image/color"
	"testing"

	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

func TestKeyFor(t *testing.T) {
	tex, err := sprite.NewIndexed(16, 16, 4)
	if err != nil {
		t.Fatal(err)
	}
	base := compositor.DrawCommand{
		Texture: tex,
		Source:  appearance.Rect{W: 16, H: 16},
		Swaps:   []sprite.Swap{{Index: 1, Color: color.NRGBA{255, 0, 0, 255}}},
		Tint:    appearance.White,
	}

	moved := base
	moved.Tint = appearance.RGB(10, 20, 30)
	moved.Scale = 3
	if keyFor(base) != keyFor(moved) {
		t.Error("tint and placement must not change the key")
	}

	recolored := base
	recolored.Swaps = []sprite.Swap{{Index: 1, Color: color.NRGBA{0, 255, 0, 255}}}
	if keyFor(base) == keyFor(recolored) {
		t.Error("different swaps must change the key")
	}

	otherFrame := base
	otherFrame.Source = base.Source.Offset(16, 0)
	if keyFor(base) == keyFor(otherFrame) {
		t.Error("different source rectangles must change the key")
	}
}
