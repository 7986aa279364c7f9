// Package sdlcanvas implements compositor.Canvas on an SDL2 renderer.
package sdlcanvas

import (
	"fmt"
	stdmath "math"
	"strconv"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

type cacheKey struct {
	tex   *sprite.IndexedImage
	src   appearance.Rect
	swaps string
}

type entry struct {
	tex  *sdl.Texture
	used uint64
}

// Canvas uploads each recolored sprite region once and reuses the texture
// for as long as it keeps being drawn.
type Canvas struct {
	r     *sdl.Renderer
	cache map[cacheKey]*entry
	frame uint64
	log   *zap.Logger
}

// New creates a canvas drawing through r.
func New(r *sdl.Renderer, log *zap.Logger) *Canvas {
	return &Canvas{
		r:     r,
		cache: make(map[cacheKey]*entry),
		log:   logger.OrNop(log).Named("sdlcanvas"),
	}
}

// BeginFrame starts a new frame.
func (c *Canvas) BeginFrame() {
	c.frame++
}

// EndFrame releases textures not drawn this frame.
func (c *Canvas) EndFrame() {
	for k, e := range c.cache {
		if e.used != c.frame {
			e.tex.Destroy()
			delete(c.cache, k)
		}
	}
}

// Close releases every cached texture.
func (c *Canvas) Close() {
	for k, e := range c.cache {
		e.tex.Destroy()
		delete(c.cache, k)
	}
}

// Draw implements compositor.Canvas.
func (c *Canvas) Draw(cmd compositor.DrawCommand) error {
	if cmd.IsFill() {
		return c.fill(cmd)
	}
	if cmd.Source.Empty() {
		return nil
	}

	tex, err := c.texture(cmd)
	if err != nil {
		return err
	}

	scale := cmd.Scale
	if scale <= 0 {
		scale = 1
	}
	if err := tex.SetColorMod(cmd.Tint.R, cmd.Tint.G, cmd.Tint.B); err != nil {
		return fmt.Errorf("color mod %s: %w", cmd.Name, err)
	}
	if err := tex.SetAlphaMod(cmd.Tint.A); err != nil {
		return fmt.Errorf("alpha mod %s: %w", cmd.Name, err)
	}

	ox, oy := cmd.Origin.X*scale, cmd.Origin.Y*scale
	dst := sdl.FRect{
		X: cmd.Dest.X - ox,
		Y: cmd.Dest.Y - oy,
		W: float32(cmd.Source.W) * scale,
		H: float32(cmd.Source.H) * scale,
	}
	var flip sdl.RendererFlip = sdl.FLIP_NONE
	if cmd.FlipX {
		flip = sdl.FLIP_HORIZONTAL
	}
	angle := float64(cmd.Rotation) * 180 / stdmath.Pi
	return c.r.CopyExF(tex, nil, &dst, angle, &sdl.FPoint{X: ox, Y: oy}, flip)
}

func (c *Canvas) fill(cmd compositor.DrawCommand) error {
	if err := c.r.SetDrawColor(cmd.Tint.R, cmd.Tint.G, cmd.Tint.B, cmd.Tint.A); err != nil {
		return err
	}
	return c.r.FillRectF(&sdl.FRect{X: cmd.Dest.X, Y: cmd.Dest.Y, W: cmd.Size.X, H: cmd.Size.Y})
}

func (c *Canvas) texture(cmd compositor.DrawCommand) (*sdl.Texture, error) {
	key := keyFor(cmd)
	if e, ok := c.cache[key]; ok {
		e.used = c.frame
		return e.tex, nil
	}

	img, err := cmd.Texture.RGBA(cmd.Source.Image(), cmd.Swaps)
	if err != nil {
		c.log.Debug("Palette swap skipped", zap.String("layer", cmd.Name), zap.Error(err))
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("layer %s: source %v outside texture", cmd.Name, cmd.Source)
	}

	surf, err := sdl.CreateRGBSurfaceWithFormat(0, int32(b.Dx()), int32(b.Dy()), 32, uint32(sdl.PIXELFORMAT_RGBA32))
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	defer surf.Free()

	if err := surf.Lock(); err != nil {
		return nil, fmt.Errorf("lock surface: %w", err)
	}
	pix := surf.Pixels()
	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		copy(pix[y*int(surf.Pitch):y*int(surf.Pitch)+row], img.Pix[y*img.Stride:y*img.Stride+row])
	}
	surf.Unlock()

	tex, err := c.r.CreateTextureFromSurface(surf)
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	if err := tex.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		tex.Destroy()
		return nil, fmt.Errorf("blend mode: %w", err)
	}
	c.cache[key] = &entry{tex: tex, used: c.frame}
	return tex, nil
}

// keyFor identifies the recolored pixels a command needs. Tint and
// placement are applied at draw time and are not part of the key.
func keyFor(cmd compositor.DrawCommand) cacheKey {
	var sb strings.Builder
	for _, s := range cmd.Swaps {
		sb.WriteString(strconv.Itoa(int(s.Index)))
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(appearance.FromNRGBA(s.Color).Packed()), 16))
		sb.WriteByte(';')
	}
	return cacheKey{tex: cmd.Texture, src: cmd.Source, swaps: sb.String()}
}
