package sprite

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func testImage(t *testing.T) *IndexedImage {
	t.Helper()
	img, err := NewIndexed(4, 2, 4)
	if err != nil {
		t.Fatalf("NewIndexed: %v", err)
	}
	img.SetColor(1, color.NRGBA{R: 200, A: 255})
	img.SetColor(2, color.NRGBA{G: 200, A: 255})
	img.FillRect(image.Rect(0, 0, 2, 2), 1)
	img.FillRect(image.Rect(2, 0, 3, 2), 2)
	return img
}

func TestNewIndexed_InvalidSize(t *testing.T) {
	_, err := NewIndexed(0, 4, 4)
	if !errors.Is(err, ErrInvalidImageSize) {
		t.Errorf("expected ErrInvalidImageSize, got %v", err)
	}
}

func TestRGBA_TransparentIndex(t *testing.T) {
	img := testImage(t)

	out, err := img.RGBA(img.Bounds(), nil)
	if err != nil {
		t.Fatalf("RGBA: %v", err)
	}
	if got := out.NRGBAAt(3, 0); got.A != 0 {
		t.Errorf("index 0 should be transparent, got %v", got)
	}
	if got := out.NRGBAAt(0, 0); got.R != 200 || got.A != 255 {
		t.Errorf("expected palette entry 1, got %v", got)
	}
}

func TestRGBA_SwapsDoNotMutatePalette(t *testing.T) {
	img := testImage(t)
	blue := color.NRGBA{B: 255, A: 255}

	out, err := img.RGBA(img.Bounds(), []Swap{{Index: 1, Color: blue}})
	if err != nil {
		t.Fatalf("RGBA: %v", err)
	}
	if got := out.NRGBAAt(1, 1); got != blue {
		t.Errorf("expected swapped color %v, got %v", blue, got)
	}
	if img.Palette[1].R != 200 {
		t.Errorf("source palette was mutated: %v", img.Palette[1])
	}
}

func TestRGBA_SubRect(t *testing.T) {
	img := testImage(t)

	out, _ := img.RGBA(image.Rect(2, 0, 4, 2), nil)
	if out.Bounds().Dx() != 2 || out.Bounds().Dy() != 2 {
		t.Fatalf("expected 2x2 output, got %v", out.Bounds())
	}
	if got := out.NRGBAAt(0, 0); got.G != 200 {
		t.Errorf("expected palette entry 2 at origin, got %v", got)
	}
}

func TestPaletteWith_OutOfRange(t *testing.T) {
	img := testImage(t)

	pal, err := img.PaletteWith([]Swap{
		{Index: 300, Color: color.NRGBA{A: 255}},
		{Index: 2, Color: color.NRGBA{R: 1, A: 255}},
	})
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
	if pal[2].R != 1 {
		t.Error("in-range swap should still apply")
	}
}

func TestSetColor_GrowsPalette(t *testing.T) {
	img := testImage(t)
	img.SetColor(271, color.NRGBA{R: 9, A: 255})
	if len(img.Palette) != 272 {
		t.Fatalf("expected palette length 272, got %d", len(img.Palette))
	}
	if img.Palette[271].R != 9 {
		t.Error("grown entry not set")
	}
}
