package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/wardrobe/pkg/appearance"
)

// DefaultPrismaticIntervalMs is the time spent moving between two prism
// stops at speed 1.
const DefaultPrismaticIntervalMs = 1500

// prismStops are the colors a prismatic layer cycles through.
var prismStops = []colorful.Color{
	mustColor(color.NRGBA{255, 0, 0, 255}),
	mustColor(color.NRGBA{255, 120, 0, 255}),
	mustColor(color.NRGBA{255, 217, 0, 255}),
	mustColor(color.NRGBA{0, 255, 0, 255}),
	mustColor(color.NRGBA{0, 255, 255, 255}),
	mustColor(color.NRGBA{238, 130, 238, 255}),
}

func mustColor(c color.NRGBA) colorful.Color {
	cc, _ := colorful.MakeColor(c)
	return cc
}

// Prismatic returns the cycling color at clockMs. speed scales the cycle;
// zero or negative means 1.
func Prismatic(clockMs int64, speed float64, intervalMs int) appearance.Color {
	if speed <= 0 {
		speed = 1
	}
	if intervalMs <= 0 {
		intervalMs = DefaultPrismaticIntervalMs
	}
	if clockMs < 0 {
		clockMs = 0
	}

	pos := float64(clockMs) * speed / float64(intervalMs)
	n := len(prismStops)
	i := int(pos) % n
	frac := float32(pos - float64(int(pos)))
	c := prismStops[i]
	if frac > 0 {
		t := float64(ease.InOutSine(frac, 0, 1, 1))
		c = c.BlendHcl(prismStops[(i+1)%n], t).Clamped()
	}
	r, g, b := c.RGB255()
	return appearance.RGB(r, g, b)
}
