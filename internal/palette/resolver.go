// Package palette resolves the colors a layer is drawn with: a whole-sprite
// tint or a set of palette swaps for the model's mask slots.
package palette

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/internal/state"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// Resolution is the color treatment for one layer.
type Resolution struct {
	// Tint multiplies the whole sprite. White when Swaps carry the color.
	Tint  appearance.Color
	Swaps []sprite.Swap
}

// Resolver computes layer colors.
type Resolver struct {
	prismaticMs int
	log         *zap.Logger
}

// NewResolver creates a resolver. prismaticMs is the time between prism
// stops at speed 1; zero selects the default.
func NewResolver(prismaticMs int, log *zap.Logger) *Resolver {
	if prismaticMs <= 0 {
		prismaticMs = DefaultPrismaticIntervalMs
	}
	return &Resolver{prismaticMs: prismaticMs, log: logger.OrNop(log)}
}

// BaseColor returns the un-overridden color for a layer of kind, following
// the kind's color policy.
func BaseColor(s *state.EntityAppearanceState, kind appearance.Kind, slot int) appearance.Color {
	switch kind.Policy().Color {
	case appearance.ColorFromHair:
		return s.HairColor
	case appearance.ColorFromSlot:
		return s.AccessoryColor(slot)
	case appearance.ColorFromOverride:
		return s.OverrideColor(kind)
	}
	return appearance.White
}

// LayerColor applies the model's color flags to base: disabled grayscale
// draws white, prismatic models cycle with the clock.
func (r *Resolver) LayerColor(m *appearance.Model, base appearance.Color, clockMs int64) appearance.Color {
	switch {
	case m.DisableGrayscale:
		return appearance.White
	case m.IsPrismatic:
		return Prismatic(clockMs, m.PrismaticSpeed, r.prismaticMs)
	}
	return base
}

// Resolve returns the color treatment for m. Models without mask slots are
// tinted whole. Otherwise every mask slot becomes a palette swap: maskable
// slots take authored x color, the rest keep their authored color.
func (r *Resolver) Resolve(m *appearance.Model, base appearance.Color, clockMs int64) Resolution {
	c := r.LayerColor(m, base, clockMs)
	if !m.HasMasks() {
		return Resolution{Tint: c}
	}
	return Resolution{
		Tint:  appearance.White,
		Swaps: slotSwaps(m.ColorMasks, c),
	}
}

// SlotColor returns the output color of a single mask slot.
func SlotColor(slot appearance.MaskSlot, c appearance.Color) appearance.Color {
	if slot.Maskable {
		return slot.Color.Multiply(c)
	}
	return slot.Color
}

func slotSwaps(slots []appearance.MaskSlot, c appearance.Color) []sprite.Swap {
	swaps := make([]sprite.Swap, 0, len(slots))
	for _, s := range slots {
		swaps = append(swaps, sprite.Swap{Index: s.Index, Color: SlotColor(s, c).NRGBA()})
	}
	return swaps
}
