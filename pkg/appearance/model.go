package appearance

import (
	"image"

	"github.com/Faultbox/wardrobe/pkg/math"
)

// NoneID is the explicit "nothing equipped" sentinel stored in entity state.
const NoneID = "None"

// IsUnset reports whether id names no appearance.
func IsUnset(id string) bool {
	return id == "" || id == NoneID
}

// Rect is a source or destination rectangle in pixels.
type Rect struct {
	X, Y, W, H int
}

// Offset returns r moved by (dx, dy).
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// AnimationMode is the animation behavior a model declares.
type AnimationMode uint8

const (
	// AnimStatic draws a single frame chosen by direction only.
	AnimStatic AnimationMode = iota
	// AnimLooping advances frames on a fixed-duration timer and wraps.
	AnimLooping
	// AnimSyncedToMovement derives the frame from the host's movement frame.
	AnimSyncedToMovement
)

func (m AnimationMode) String() string {
	switch m {
	case AnimLooping:
		return "Looping"
	case AnimSyncedToMovement:
		return "SyncedToMovement"
	default:
		return "Static"
	}
}

// LoopCondition gates a looping animation on the entity's movement.
type LoopCondition uint8

const (
	LoopAlways LoopCondition = iota
	LoopWhenMoving
	LoopWhenStill
)

// AnimationSpec describes a model's frames. Frame n is the source template
// shifted right by n template widths.
type AnimationSpec struct {
	Mode            AnimationMode
	LoopWhen        LoopCondition
	FrameCount      int
	FrameDurationMs int
	StartingIndex   int
	// Offsets holds an optional per-frame draw offset in sprite pixels.
	Offsets []math.Vec2
	// SyncAcrossDirections keeps the frame iterator when facing changes.
	SyncAcrossDirections bool
}

// Frames returns the frame count, never less than one.
func (a AnimationSpec) Frames() int {
	if a.FrameCount < 1 {
		return 1
	}
	return a.FrameCount
}

// Start returns the starting index clamped into the frame range.
func (a AnimationSpec) Start() int {
	n := a.Frames()
	s := a.StartingIndex % n
	if s < 0 {
		s += n
	}
	return s
}

// Offset returns the declared offset for frame, or zero.
func (a AnimationSpec) Offset(frame int) math.Vec2 {
	if frame < 0 || frame >= len(a.Offsets) {
		return math.Vec2{}
	}
	return a.Offsets[frame]
}

// MaskSlot is one recolorable palette entry of a pack texture.
type MaskSlot struct {
	Index uint16
	Color Color
	// Maskable slots are multiplied by the resolved override color; others
	// draw their authored color unchanged.
	Maskable bool
}

// Layering carries a model's draw-order hints.
type Layering struct {
	// Depth, when set, replaces the kind precedence outright.
	Depth *int
	// DirectionDepth is added to the effective precedence for one direction.
	DirectionDepth map[Direction]int

	DrawBehindBody bool
	DrawBehindHair bool
	DrawAboveHat   bool
	// SubOrder orders layers of the same kind, e.g. accessory slots.
	SubOrder int
}

// Hide collects the force-hidden flags a model can declare.
type Hide struct {
	Sleeves   bool
	WaterLine bool
	Legs      bool
	// UseBaldBase asks the host to switch to its bald base texture.
	UseBaldBase bool
}

// Model is one directional variant of one body-part appearance. Models are
// immutable once registered.
type Model struct {
	Kind      Kind
	Direction Direction
	Source    Rect
	Animation AnimationSpec

	ColorMasks   []MaskSlot
	SleeveColors []MaskSlot

	DisableGrayscale bool
	IsPrismatic      bool
	PrismaticSpeed   float64

	Layering Layering
	Hide     Hide
	// Flipped mirrors the sprite horizontally, letting a pack reuse one sheet
	// row for both left and right.
	Flipped bool
	// Offset shifts the whole layer, in sprite pixels.
	Offset math.Vec2

	pack *Pack
}

// Pack returns the pack that owns m, or nil for a detached model.
func (m *Model) Pack() *Pack {
	if m == nil {
		return nil
	}
	return m.pack
}

// HasMasks reports whether m declares explicit mask slots.
func (m *Model) HasMasks() bool {
	return len(m.ColorMasks) > 0
}

// FrameRect returns the source rectangle for frame.
func (m *Model) FrameRect(frame int) Rect {
	n := m.Animation.Frames()
	frame %= n
	if frame < 0 {
		frame += n
	}
	return m.Source.Offset(frame*m.Source.W, 0)
}

// Metadata is a resolved (model, color) pair, rebuilt every frame.
type Metadata struct {
	Model *Model
	Color Color
	// Slot is the accessory slot index; zero for other kinds.
	Slot int
}
