// Package sprite provides indexed (palette) sprite sheets and palette substitution.
package sprite

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Indexed image errors.
var (
	ErrInvalidImageSize = errors.New("invalid image dimensions")
	ErrIndexOutOfRange  = errors.New("palette index out of range")
)

// TransparentIndex is always drawn fully transparent.
const TransparentIndex = 0

// IndexedImage is a sprite sheet whose pixels reference a palette. Palette
// entries double as mask slots: recoloring a region means swapping the color
// of the palette entry its pixels point at.
type IndexedImage struct {
	Width   int
	Height  int
	Indices []uint16
	Palette []color.NRGBA
}

// Swap replaces one palette entry for the duration of a draw.
type Swap struct {
	Index uint16
	Color color.NRGBA
}

// NewIndexed creates a blank image with a palette of the given size.
func NewIndexed(width, height, paletteSize int) (*IndexedImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImageSize, width, height)
	}
	if paletteSize < 1 {
		paletteSize = 1
	}
	return &IndexedImage{
		Width:   width,
		Height:  height,
		Indices: make([]uint16, width*height),
		Palette: make([]color.NRGBA, paletteSize),
	}, nil
}

// Bounds returns the image rectangle.
func (img *IndexedImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, img.Height)
}

// Set writes a palette index at (x, y). Out-of-bounds writes are ignored.
func (img *IndexedImage) Set(x, y int, idx uint16) {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return
	}
	img.Indices[y*img.Width+x] = idx
}

// At returns the palette index at (x, y).
func (img *IndexedImage) At(x, y int) uint16 {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return TransparentIndex
	}
	return img.Indices[y*img.Width+x]
}

// SetColor assigns a palette entry, growing the palette if needed.
func (img *IndexedImage) SetColor(idx uint16, c color.NRGBA) {
	if int(idx) >= len(img.Palette) {
		grown := make([]color.NRGBA, int(idx)+1)
		copy(grown, img.Palette)
		img.Palette = grown
	}
	img.Palette[idx] = c
}

// PaletteWith returns a copy of the palette with swaps applied. Swaps that
// point past the end of the palette are reported but the rest still apply.
func (img *IndexedImage) PaletteWith(swaps []Swap) ([]color.NRGBA, error) {
	pal := make([]color.NRGBA, len(img.Palette))
	copy(pal, img.Palette)

	var err error
	for _, s := range swaps {
		if int(s.Index) >= len(pal) {
			err = fmt.Errorf("%w: %d (palette has %d)", ErrIndexOutOfRange, s.Index, len(pal))
			continue
		}
		pal[s.Index] = s.Color
	}
	return pal, err
}

// RGBA expands the region r into an RGBA image using the palette with swaps
// applied. Index 0 and indices past the palette are transparent.
func (img *IndexedImage) RGBA(r image.Rectangle, swaps []Swap) (*image.NRGBA, error) {
	r = r.Intersect(img.Bounds())
	pal, err := img.PaletteWith(swaps)

	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			idx := img.Indices[y*img.Width+x]
			if idx == TransparentIndex || int(idx) >= len(pal) {
				continue
			}
			off := out.PixOffset(x-r.Min.X, y-r.Min.Y)
			c := pal[idx]
			out.Pix[off] = c.R
			out.Pix[off+1] = c.G
			out.Pix[off+2] = c.B
			out.Pix[off+3] = c.A
		}
	}
	return out, err
}

// FillRect sets every pixel of r to idx.
func (img *IndexedImage) FillRect(r image.Rectangle, idx uint16) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Indices[y*img.Width+x] = idx
		}
	}
}
