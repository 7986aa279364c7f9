// Package compositor turns ordered layers into draw commands and executes
// them against a Canvas.
package compositor

import (
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// DrawCommand is one draw: a texture region placed at Dest, or a solid fill
// of Size when Texture is nil.
type DrawCommand struct {
	Name string
	Kind appearance.Kind

	Texture *sprite.IndexedImage
	Source  appearance.Rect
	Swaps   []sprite.Swap

	// Dest is the screen position of Origin.
	Dest     math.Vec2
	Origin   math.Vec2
	Size     math.Vec2
	Scale    float32
	Rotation float32
	FlipX    bool
	Tint     appearance.Color
	Depth    float32
}

// IsFill reports whether c draws a solid rectangle.
func (c *DrawCommand) IsFill() bool {
	return c.Texture == nil
}

// Plan is the result of composing one entity.
type Plan struct {
	// Fallback tells the host to run its own draw path unchanged.
	Fallback bool
	Commands []DrawCommand
	// UseBaldBase asks the host to swap in its bald base texture.
	UseBaldBase bool
	// WaterLine is the swim overlay, or nil when hidden or not swimming.
	WaterLine *DrawCommand
}

// Canvas executes draw commands.
type Canvas interface {
	Draw(cmd DrawCommand) error
}

// Execute draws every command of p in order, then the water line. It stops
// at the first canvas error. A fallback plan draws nothing.
func Execute(c Canvas, p Plan) error {
	if p.Fallback {
		return nil
	}
	for i := range p.Commands {
		if err := c.Draw(p.Commands[i]); err != nil {
			return err
		}
	}
	if p.WaterLine != nil {
		return c.Draw(*p.WaterLine)
	}
	return nil
}
