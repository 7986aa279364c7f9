package compositor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/layer"
	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// Defaults for Options.
const (
	DefaultScale       = 4
	DefaultSwimOffsetY = 64
	// waterLineDepth lifts the swim overlay above every layer of the entity.
	waterLineDepth = 0.001
)

// waterLineTint is the host's 75% white overlay.
var waterLineTint = appearance.Color{R: 191, G: 191, B: 191, A: 191}

// Frame is the host's per-draw input for one entity.
type Frame struct {
	Position math.Vec2
	Origin   math.Vec2
	// PositionOffset is the host animation frame offset, in sprite pixels.
	PositionOffset math.Vec2
	Scale          float32
	Rotation       float32

	Facing appearance.Direction
	// HostFlip is the host animation frame's flip flag; it decides left or
	// right when facing sideways.
	HostFlip  bool
	HostFrame int

	Swimming     bool
	YOffset      float32
	DrawingForUI bool

	// BaseSource is the host base body source rectangle.
	BaseSource appearance.Rect
	LayerDepth float32
	// Tint is the host override color; zero means none.
	Tint appearance.Color
}

// EffectiveFacing returns the direction whose models are drawn. Sideways
// facings follow the host frame's flip flag.
func (f Frame) EffectiveFacing() appearance.Direction {
	return appearance.Effective(f.Facing, f.HostFlip)
}

// swimClip reports whether swim clipping applies to this draw.
func (f Frame) swimClip() bool {
	return f.Swimming && !f.DrawingForUI
}

// Part is the resolved texture region and colors of one layer.
type Part struct {
	Texture *sprite.IndexedImage
	Source  appearance.Rect
	// Offset shifts the layer, in sprite pixels.
	Offset math.Vec2
	Tint   appearance.Color
	Swaps  []sprite.Swap
	FlipX  bool
}

// PartFunc resolves a layer. It returns false to skip the layer.
type PartFunc func(l *layer.Data) (Part, bool)

// Options configures a Compositor.
type Options struct {
	Scale       float32
	SwimOffsetY float32
}

// Compositor builds draw plans. It is not safe for concurrent use.
type Compositor struct {
	opts  Options
	rects rectCache
	log   *zap.Logger
}

// New creates a compositor.
func New(opts Options, log *zap.Logger) *Compositor {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.SwimOffsetY == 0 {
		opts.SwimOffsetY = DefaultSwimOffsetY
	}
	return &Compositor{
		opts:  opts,
		rects: make(rectCache),
		log:   logger.OrNop(log),
	}
}

// SourceRect returns the source rectangle for frame of m, computing it at
// most once per Build.
func (c *Compositor) SourceRect(m *appearance.Model, frame int) appearance.Rect {
	return c.rects.get(m, frame)
}

// hidden collects the force-hide flags declared by the active models.
type hidden struct {
	sleeves, waterLine, legs, bald bool
}

func collectHidden(layers []layer.Data) (h hidden, models int) {
	for i := range layers {
		l := &layers[i]
		if l.IsBase() || l.Meta.Model == nil {
			continue
		}
		models++
		f := l.Meta.Model.Hide
		h.sleeves = h.sleeves || f.Sleeves
		h.waterLine = h.waterLine || f.WaterLine
		h.legs = h.legs || f.Legs
		h.bald = h.bald || f.UseBaldBase
	}
	return h, models
}

// Build composes the ordered layers of one entity. With no model layers it
// returns a fallback plan and no commands.
func (c *Compositor) Build(f Frame, layers []layer.Data, parts PartFunc) Plan {
	c.rects.reset()

	h, models := collectHidden(layers)
	if models == 0 {
		c.log.Debug("No active models, using host draw")
		return Plan{Fallback: true}
	}

	scale := f.Scale
	if scale <= 0 {
		scale = c.opts.Scale
	}
	pos := f.Position.Floor()
	swim := f.swimClip()
	if swim {
		pos.Y += c.opts.SwimOffsetY
	}
	frameOffset := f.PositionOffset.Scale(scale)

	plan := Plan{
		Commands:    make([]DrawCommand, 0, len(layers)),
		UseBaldBase: h.bald,
	}
	for i := range layers {
		l := &layers[i]
		if suppressed(l, h) {
			continue
		}
		part, ok := parts(l)
		if !ok || part.Texture == nil {
			continue
		}

		src := part.Source
		if swim {
			src = clipSwim(src, f.YOffset)
			if src.Empty() {
				continue
			}
		}
		tint := part.Tint
		if f.Tint != (appearance.Color{}) {
			tint = tint.Multiply(f.Tint)
		}

		plan.Commands = append(plan.Commands, DrawCommand{
			Name:     l.Name(),
			Kind:     l.Kind,
			Texture:  part.Texture,
			Source:   src,
			Swaps:    part.Swaps,
			Dest:     pos.Add(frameOffset).Add(part.Offset.Scale(scale)),
			Origin:   f.Origin,
			Scale:    scale,
			Rotation: f.Rotation,
			FlipX:    part.FlipX,
			Tint:     tint,
			Depth:    l.Depth,
		})
	}

	if swim && !h.waterLine {
		plan.WaterLine = c.waterLine(f, pos, scale)
	}
	return plan
}

func suppressed(l *layer.Data, h hidden) bool {
	if h.sleeves && l.Kind == appearance.KindSleeves {
		return true
	}
	if h.legs && l.IsBase() && l.Base.Legs {
		return true
	}
	return false
}

// clipSwim halves the visible height and trims the bob offset.
func clipSwim(src appearance.Rect, yOffset float32) appearance.Rect {
	src.H /= 2
	src.H -= int(yOffset) / 4
	if src.H < 0 {
		src.H = 0
	}
	return src
}

func (c *Compositor) waterLine(f Frame, pos math.Vec2, scale float32) *DrawCommand {
	base := f.BaseSource
	clipped := clipSwim(base, f.YOffset)
	y := pos.Y - float32(base.H)*scale + float32(clipped.H)*scale + f.Origin.Y - f.YOffset
	w := float32(base.W)*scale - f.YOffset*2 - 16
	if w <= 0 {
		return nil
	}
	return &DrawCommand{
		Name:  "waterline",
		Dest:  math.Vec2{X: pos.X + f.YOffset + 8, Y: y},
		Size:  math.Vec2{X: w, Y: scale},
		Scale: 1,
		Tint:  waterLineTint,
		Depth: f.LayerDepth + waterLineDepth,
	}
}

type rectKey struct {
	m     *appearance.Model
	frame int
}

type rectCache map[rectKey]appearance.Rect

func (rc rectCache) get(m *appearance.Model, frame int) appearance.Rect {
	k := rectKey{m, frame}
	if r, ok := rc[k]; ok {
		return r
	}
	r := m.FrameRect(frame)
	rc[k] = r
	return r
}

func (rc rectCache) reset() {
	clear(rc)
}
