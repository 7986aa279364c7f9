package raster

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

// twoPixel returns a 2x1 sprite: red on the left, green on the right.
func twoPixel(t *testing.T) *sprite.IndexedImage {
	t.Helper()
	img, err := sprite.NewIndexed(2, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	img.SetColor(1, red)
	img.SetColor(2, green)
	img.Set(0, 0, 1)
	img.Set(1, 0, 2)
	return img
}

func rgbaAt(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

func TestDrawScales(t *testing.T) {
	c := New(8, 4, nil)
	err := c.Draw(compositor.DrawCommand{
		Texture: twoPixel(t),
		Source:  appearance.Rect{W: 2, H: 1},
		Scale:   2,
		Tint:    appearance.White,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{255, 0, 0, 255}},
		{1, 1, color.RGBA{255, 0, 0, 255}},
		{2, 0, color.RGBA{0, 255, 0, 255}},
		{3, 1, color.RGBA{0, 255, 0, 255}},
		{4, 0, color.RGBA{}},
		{0, 2, color.RGBA{}},
	} {
		if got := rgbaAt(c, tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDrawFlipAndSwap(t *testing.T) {
	c := New(4, 1, nil)
	err := c.Draw(compositor.DrawCommand{
		Texture: twoPixel(t),
		Source:  appearance.Rect{W: 2, H: 1},
		Swaps:   []sprite.Swap{{Index: 2, Color: blue}},
		Scale:   1,
		FlipX:   true,
		Tint:    appearance.White,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(c, 0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("left pixel = %v, want swapped blue", got)
	}
	if got := rgbaAt(c, 1, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("right pixel = %v, want red", got)
	}
}

func TestDrawTintAndOutOfRangeSwap(t *testing.T) {
	c := New(2, 1, nil)
	err := c.Draw(compositor.DrawCommand{
		Texture: twoPixel(t),
		Source:  appearance.Rect{W: 2, H: 1},
		Swaps:   []sprite.Swap{{Index: 300, Color: blue}},
		Scale:   1,
		Tint:    appearance.RGB(0, 255, 0),
	})
	if err != nil {
		t.Fatalf("out-of-range swap should not fail the draw: %v", err)
	}
	if got := rgbaAt(c, 0, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("tinted red = %v, want black", got)
	}
	if got := rgbaAt(c, 1, 0); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("tinted green = %v, want green", got)
	}
}

func TestDrawFill(t *testing.T) {
	c := New(4, 4, nil)
	err := c.Draw(compositor.DrawCommand{
		Dest: math.Vec2{X: 1, Y: 1},
		Size: math.Vec2{X: 2, Y: 1},
		Tint: appearance.RGB(10, 20, 30),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := rgbaAt(c, 2, 1); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("fill pixel = %v", got)
	}
	if got := rgbaAt(c, 3, 1); got.A != 0 {
		t.Errorf("pixel outside fill = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	c := New(2, 2, nil)
	c.Clear(red)
	if err := c.WritePNG(filepath.Join(t.TempDir(), "out.png")); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
}
