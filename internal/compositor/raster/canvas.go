// Package raster implements a software compositor.Canvas over an RGBA image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	stdmath "math"
	"os"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/pkg/appearance"
)

// Canvas draws commands into an in-memory image with nearest-neighbor
// scaling, keeping sprite pixels crisp.
type Canvas struct {
	img *image.RGBA
	log *zap.Logger
}

// New creates a transparent canvas of the given size.
func New(width, height int, log *zap.Logger) *Canvas {
	return &Canvas{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
		log: logger.OrNop(log),
	}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Clear fills the canvas with col.
func (c *Canvas) Clear(col color.Color) {
	xdraw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Src)
}

// Draw implements compositor.Canvas.
func (c *Canvas) Draw(cmd compositor.DrawCommand) error {
	if cmd.IsFill() {
		c.fill(cmd)
		return nil
	}
	if cmd.Source.Empty() {
		return nil
	}

	src, err := cmd.Texture.RGBA(cmd.Source.Image(), cmd.Swaps)
	if err != nil {
		// out-of-range swaps are skipped; the rest of the sprite still draws
		c.log.Debug("Palette swap skipped", zap.String("layer", cmd.Name), zap.Error(err))
	}
	if cmd.Tint != appearance.White {
		tint(src, cmd.Tint)
	}

	xdraw.NearestNeighbor.Transform(c.img, transform(cmd, src.Bounds().Dx()), src, src.Bounds(), xdraw.Over, nil)
	return nil
}

func (c *Canvas) fill(cmd compositor.DrawCommand) {
	r := image.Rect(
		int(cmd.Dest.X), int(cmd.Dest.Y),
		int(cmd.Dest.X+cmd.Size.X), int(cmd.Dest.Y+cmd.Size.Y),
	)
	xdraw.Draw(c.img, r, image.NewUniform(cmd.Tint.NRGBA()), image.Point{}, xdraw.Over)
}

// transform maps source pixels to the canvas: optional horizontal flip
// within the sprite, then origin, scale, rotation and destination.
func transform(cmd compositor.DrawCommand, width int) f64.Aff3 {
	scale := float64(cmd.Scale)
	if scale <= 0 {
		scale = 1
	}
	fx, x0 := 1.0, 0.0
	if cmd.FlipX {
		fx, x0 = -1, float64(width)
	}
	sin, cos := stdmath.Sincos(float64(cmd.Rotation))

	u0 := scale * (x0 - float64(cmd.Origin.X))
	v0 := -scale * float64(cmd.Origin.Y)
	dx, dy := float64(cmd.Dest.X), float64(cmd.Dest.Y)

	return f64.Aff3{
		cos * scale * fx, -sin * scale, cos*u0 - sin*v0 + dx,
		sin * scale * fx, cos * scale, sin*u0 + cos*v0 + dy,
	}
}

// tint multiplies every pixel of img by t.
func tint(img *image.NRGBA, t appearance.Color) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		px := appearance.Color{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}.Multiply(t)
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = px.R, px.G, px.B, px.A
	}
}

// WritePNG encodes the canvas to path.
func (c *Canvas) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, c.img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
