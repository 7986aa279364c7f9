// Package render owns the per-session compositing pipeline and exposes the
// hook the host calls before its own character draw.
package render

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/animation"
	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/internal/layer"
	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/internal/palette"
	"github.com/Faultbox/wardrobe/internal/registry"
	"github.com/Faultbox/wardrobe/internal/state"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// ErrResolutionMiss marks an equipped id that is not registered. Misses are
// drawn as if nothing were equipped.
var ErrResolutionMiss = errors.New("equipped appearance not registered")

// HostLayer is a base layer the host contributes to every composite.
type HostLayer struct {
	layer.BaseLayer
	Texture *sprite.IndexedImage
	// Source overrides the frame's base source rectangle when non-empty.
	Source appearance.Rect
}

// Frame is the host's per-draw input.
type Frame struct {
	compositor.Frame
	// ClockMs is the global animation clock driving prismatic colors.
	ClockMs int64
	// Skin is the host skin tone index.
	Skin int
	Base []HostLayer
}

// TickInput is the per-world-tick input for one entity.
type TickInput struct {
	// TickID identifies the world tick. A second call with the same id is ignored.
	TickID  uint64
	DeltaMs int
	Facing  appearance.Direction
	// HostFlip is the host animation frame's flip flag, as passed to Compose.
	HostFlip bool
	Moving   bool
	// HostFrame is the host's current movement animation frame.
	HostFrame int
}

// Options configures a Context.
type Options struct {
	Skin palette.SkinTable
	// DefaultFrameDurationMs is stored by equip resets.
	DefaultFrameDurationMs int
}

// Context is the compositing pipeline for one session: registry, timing,
// colors, ordering and draw planning. It is not safe for concurrent Compose
// or Tick calls; Reload may run concurrently with them.
type Context struct {
	registry   *registry.Registry
	tracker    *animation.Tracker
	resolver   *palette.Resolver
	orderer    *layer.Orderer
	compositor *compositor.Compositor

	opts    Options
	metrics *metrics
	log     *zap.Logger
}

// New assembles a Context from its components.
func New(
	reg *registry.Registry,
	tracker *animation.Tracker,
	resolver *palette.Resolver,
	orderer *layer.Orderer,
	comp *compositor.Compositor,
	opts Options,
	log *zap.Logger,
) (*Context, error) {
	m, err := newMetrics(reg)
	if err != nil {
		return nil, err
	}
	if opts.DefaultFrameDurationMs <= 0 {
		opts.DefaultFrameDurationMs = animation.DefaultFrameDurationMs
	}
	return &Context{
		registry:   reg,
		tracker:    tracker,
		resolver:   resolver,
		orderer:    orderer,
		compositor: comp,
		opts:       opts,
		metrics:    m,
		log:        logger.OrNop(log),
	}, nil
}

// Registry returns the context's registry.
func (c *Context) Registry() *registry.Registry {
	return c.registry
}

// ActiveModels resolves every equipped id of s for facing against snap.
// Ids missing from snap are skipped and reported as ErrResolutionMiss.
func ActiveModels(snap *registry.Snapshot, s *state.EntityAppearanceState, facing appearance.Direction) ([]appearance.Metadata, []error) {
	var (
		out    []appearance.Metadata
		misses []error
	)
	add := func(kind appearance.Kind, id string, slot int) {
		if appearance.IsUnset(id) || (kind == appearance.KindShoes && id == palette.ShoeOverrideID) {
			return
		}
		p, err := snap.LookupKind(id, kind)
		if err != nil {
			misses = append(misses, fmt.Errorf("%s %s: %w", kind, id, ErrResolutionMiss))
			return
		}
		m := p.ModelFor(facing)
		if m == nil {
			return
		}
		out = append(out, appearance.Metadata{
			Model: m,
			Color: palette.BaseColor(s, kind, slot),
			Slot:  slot,
		})
	}

	for _, k := range appearance.Kinds() {
		if k == appearance.KindBody || k == appearance.KindAccessory {
			continue
		}
		add(k, s.EquippedID(k), 0)
	}
	for _, i := range s.ActiveAccessories() {
		add(appearance.KindAccessory, s.Accessories[i].ID, i)
	}
	return out, misses
}

// Compose is the render-override hook. It returns the entity's draw plan or
// a fallback plan telling the host to draw natively. It never mutates s and
// never fails.
func (c *Context) Compose(s *state.EntityAppearanceState, f Frame) compositor.Plan {
	ctx := context.Background()
	c.metrics.composed.Add(ctx, 1)

	facing := f.EffectiveFacing()
	snap := c.registry.Snapshot()
	models, misses := ActiveModels(snap, s, facing)
	for _, err := range misses {
		c.metrics.misses.Add(ctx, 1)
		c.log.Debug("Appearance missing, drawing without it",
			zap.String("entity", s.EntityID), zap.Error(err))
	}
	if len(models) == 0 {
		c.metrics.fallbacks.Add(ctx, 1)
		return compositor.Plan{Fallback: true}
	}

	base := make([]layer.BaseLayer, len(f.Base))
	hosts := make(map[string]*HostLayer, len(f.Base))
	for i := range f.Base {
		base[i] = f.Base[i].BaseLayer
		hosts[f.Base[i].Name] = &f.Base[i]
	}

	layers := c.orderer.Order(layer.Input{
		Models:    models,
		Base:      base,
		Direction: facing,
		BaseDepth: f.LayerDepth,
	})

	baseSwaps := c.baseSwaps(snap, s, f, models)
	parts := func(l *layer.Data) (compositor.Part, bool) {
		if l.IsBase() {
			h := hosts[l.Base.Name]
			if h == nil {
				return compositor.Part{}, false
			}
			src := h.Source
			if src.Empty() {
				src = f.BaseSource
			}
			return compositor.Part{
				Texture: h.Texture,
				Source:  src,
				Tint:    appearance.White,
				Swaps:   baseSwaps,
				FlipX:   f.Facing.Horizontal() && f.HostFlip,
			}, true
		}
		return c.modelPart(s, f, l.Meta), true
	}

	plan := c.compositor.Build(f.Frame, layers, parts)
	if plan.Fallback {
		c.metrics.fallbacks.Add(ctx, 1)
	}
	return plan
}

func (c *Context) modelPart(s *state.EntityAppearanceState, f Frame, md appearance.Metadata) compositor.Part {
	m := md.Model
	anim := s.Animation(m.Kind, md.Slot)
	frame := animation.Frame(anim, m)
	res := c.resolver.Resolve(m, md.Color, f.ClockMs)

	off := m.Offset.Add(m.Animation.Offset(frame))
	if m.Flipped {
		off = off.MirrorX()
	}
	return compositor.Part{
		Texture: m.Pack().Texture,
		Source:  c.compositor.SourceRect(m, frame),
		Offset:  off,
		Tint:    res.Tint,
		Swaps:   res.Swaps,
		FlipX:   m.Flipped,
	}
}

// baseSwaps recolors the host base texture's sleeve and shoe slots.
func (c *Context) baseSwaps(snap *registry.Snapshot, s *state.EntityAppearanceState, f Frame, models []appearance.Metadata) []sprite.Swap {
	var shirt *appearance.Model
	hideLegs := false
	for _, md := range models {
		if md.Model.Kind == appearance.KindShirt {
			shirt = md.Model
		}
		hideLegs = hideLegs || md.Model.Hide.Legs
	}

	skin := c.opts.Skin.Lookup(f.Skin, palette.IsSickFrame(f.HostFrame))
	swaps := c.resolver.SleeveSwaps(shirt, skin, s.OverrideColor(appearance.KindShirt), f.ClockMs)

	shoes := s.EquippedID(appearance.KindShoes)
	if shoes == palette.ShoeOverrideID || isRegistered(snap, shoes) {
		swaps = append(swaps, palette.ShoeSwaps(shoes, s.OverrideColor(appearance.KindShoes), hideLegs)...)
	}
	return swaps
}

func isRegistered(snap *registry.Snapshot, id string) bool {
	if appearance.IsUnset(id) {
		return false
	}
	_, err := snap.LookupKind(id, appearance.KindShoes)
	return err == nil
}

// Tick advances the animation counters of s once per world tick. Calls
// repeating the last tick id do nothing and return false. Tick id zero is
// never deduplicated.
func (c *Context) Tick(s *state.EntityAppearanceState, in TickInput) bool {
	if in.TickID != 0 && in.TickID == s.LastTick {
		return false
	}

	// advance the same directional models Compose draws
	facing := appearance.Effective(in.Facing, in.HostFlip)
	models, _ := ActiveModels(c.registry.Snapshot(), s, facing)
	ai := animation.Input{
		DeltaMs:   in.DeltaMs,
		Facing:    facing,
		Moving:    in.Moving,
		HostFrame: in.HostFrame,
	}
	for _, md := range models {
		if !md.Model.Kind.Policy().Animated {
			continue
		}
		c.tracker.Advance(s.Animation(md.Model.Kind, md.Slot), md.Model, ai)
	}

	s.Facing = facing
	s.LastTick = in.TickID
	return true
}

// Equip sets the id for a non-accessory kind and resets the entity's
// animations. NoneID or "" unequips. Unknown ids are refused.
func (c *Context) Equip(s *state.EntityAppearanceState, kind appearance.Kind, id string) error {
	if err := c.checkID(kind, id); err != nil {
		return err
	}
	if err := s.Equip(kind, id); err != nil {
		return err
	}
	c.resetAnimations(s)
	return nil
}

// EquipAccessory places an accessory in slot with its color and resets the
// entity's animations.
func (c *Context) EquipAccessory(s *state.EntityAppearanceState, slot int, id string, col appearance.Color) error {
	if err := c.checkID(appearance.KindAccessory, id); err != nil {
		return err
	}
	if err := s.EquipAccessory(slot, id, col); err != nil {
		return err
	}
	c.resetAnimations(s)
	return nil
}

func (c *Context) checkID(kind appearance.Kind, id string) error {
	if appearance.IsUnset(id) || (kind == appearance.KindShoes && id == palette.ShoeOverrideID) {
		return nil
	}
	if _, err := c.registry.LookupKind(id, kind); err != nil {
		return fmt.Errorf("equip %s: %w", kind, err)
	}
	return nil
}

func (c *Context) resetAnimations(s *state.EntityAppearanceState) {
	animation.ResetAll(s, c.opts.DefaultFrameDurationMs, state.TypeIdle, s.Facing, false)
}

// Reload atomically replaces the registered packs. Draws running during the
// reload see either the old set or the new one.
func (c *Context) Reload(packs []*appearance.Pack) registry.LoadReport {
	report := c.registry.Load(packs)
	if n := len(report.Rejected); n > 0 {
		c.metrics.rejected.Add(context.Background(), int64(n))
	}
	return report
}

// LoadState migrates a host bag into typed state, counting healed values.
func (c *Context) LoadState(entityID string, hair appearance.Color, bag map[string]string) *state.EntityAppearanceState {
	s, healed := state.FromModData(entityID, hair, bag)
	for _, err := range healed {
		var ce *state.CorruptionError
		key := ""
		if errors.As(err, &ce) {
			key = ce.Key
		}
		c.metrics.healed.Add(context.Background(), 1, keyAttr(key))
		c.log.Debug("Healed corrupt state value", zap.String("entity", entityID), zap.Error(err))
	}
	return s
}
