package palette

import (
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// Host base texture palette slots recolored by custom shirts and shoes.
// These follow the host renderer and cannot be moved.
const (
	SleeveDarkest  uint16 = 256
	SleeveMedium   uint16 = 257
	SleeveLightest uint16 = 258

	ShoeDarkest  uint16 = 268
	ShoeMedium   uint16 = 269
	ShoeLight    uint16 = 270
	ShoeLightest uint16 = 271
)

// ShoeOverrideID is the shoes id that recolors the host's own shoes instead
// of drawing a custom shoe layer.
const ShoeOverrideID = "wardrobe/Shoes/ColorOverride"

// Host sick animation frames, which draw with the sick skin tone.
const (
	sickFrameA = 104
	sickFrameB = 105
)

var shoeGrays = [4]appearance.Color{
	appearance.RGB(57, 57, 57),
	appearance.RGB(81, 81, 81),
	appearance.RGB(119, 119, 119),
	appearance.RGB(158, 158, 158),
}

// SkinTone is the three-shade skin ramp used by the host base texture.
type SkinTone struct {
	Darkest, Medium, Lightest appearance.Color
}

// SkinTable holds the host skin ramps plus the ramp used on sick frames.
type SkinTable struct {
	Tones []SkinTone
	Sick  SkinTone
}

// IsSickFrame reports whether the host animation frame is a sick frame.
func IsSickFrame(frame int) bool {
	return frame == sickFrameA || frame == sickFrameB
}

// Lookup returns the tone for a skin index. Negative indices select the
// last tone and indices past the end wrap to the first.
func (t SkinTable) Lookup(index int, sick bool) SkinTone {
	if sick {
		return t.Sick
	}
	if len(t.Tones) == 0 {
		return SkinTone{}
	}
	if index < 0 {
		index = len(t.Tones) - 1
	}
	if index >= len(t.Tones) {
		index = 0
	}
	return t.Tones[index]
}

// SleeveSwaps recolors the host arm slots for a custom shirt. Shirts without
// sleeve colors paint the arms in the skin tone. Nil when no shirt is worn.
func (r *Resolver) SleeveSwaps(shirt *appearance.Model, skin SkinTone, shirtColor appearance.Color, clockMs int64) []sprite.Swap {
	if shirt == nil {
		return nil
	}
	idx := [3]uint16{SleeveDarkest, SleeveMedium, SleeveLightest}

	if len(shirt.SleeveColors) == 0 {
		return []sprite.Swap{
			{Index: idx[0], Color: skin.Darkest.NRGBA()},
			{Index: idx[1], Color: skin.Medium.NRGBA()},
			{Index: idx[2], Color: skin.Lightest.NRGBA()},
		}
	}

	c := r.LayerColor(shirt, shirtColor, clockMs)
	swaps := make([]sprite.Swap, 0, len(idx))
	for i, at := range idx {
		slot := shirt.SleeveColors[min(i, len(shirt.SleeveColors)-1)]
		swaps = append(swaps, sprite.Swap{Index: at, Color: SlotColor(slot, c).NRGBA()})
	}
	return swaps
}

// ShoeSwaps recolors the host shoe slots. With the override id and visible
// legs the shoes take the gray ramp times shoeColor; any other custom shoes
// clear the host shoes. Nil when no shoes are equipped.
func ShoeSwaps(shoesID string, shoeColor appearance.Color, hideLegs bool) []sprite.Swap {
	if appearance.IsUnset(shoesID) {
		return nil
	}
	tint := appearance.Transparent
	if shoesID == ShoeOverrideID && !hideLegs {
		tint = shoeColor
	}
	idx := [4]uint16{ShoeDarkest, ShoeMedium, ShoeLight, ShoeLightest}
	swaps := make([]sprite.Swap, 0, len(idx))
	for i, at := range idx {
		swaps = append(swaps, sprite.Swap{Index: at, Color: shoeGrays[i].Multiply(tint).NRGBA()})
	}
	return swaps
}
