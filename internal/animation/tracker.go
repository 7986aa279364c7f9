// Package animation advances the per-entity, per-body-part frame counters.
package animation

import (
	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/internal/state"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
)

// MaxTrackedMillis caps the elapsed counter at one hour.
const MaxTrackedMillis = 3_600_000

// DefaultFrameDurationMs is used for looping models that declare no duration.
const DefaultFrameDurationMs = 200

// Input is the per-tick movement context of an entity.
type Input struct {
	DeltaMs int
	Facing  appearance.Direction
	Moving  bool
	// HostFrame is the host's current movement animation frame.
	HostFrame int
}

// Tracker owns the animation timing rules.
type Tracker struct {
	ceiling         int
	defaultDuration int
	log             *zap.Logger
}

// Options configures a Tracker. Zero values select the defaults.
type Options struct {
	MaxTrackedMs           int
	DefaultFrameDurationMs int
}

// NewTracker creates a tracker.
func NewTracker(opts Options, log *zap.Logger) *Tracker {
	t := &Tracker{
		ceiling:         opts.MaxTrackedMs,
		defaultDuration: opts.DefaultFrameDurationMs,
		log:             logger.OrNop(log),
	}
	if t.ceiling <= 0 {
		t.ceiling = MaxTrackedMillis
	}
	if t.defaultDuration <= 0 {
		t.defaultDuration = DefaultFrameDurationMs
	}
	return t
}

// Ceiling returns the elapsed counter cap.
func (t *Tracker) Ceiling() int {
	return t.ceiling
}

// Accumulate adds deltaMs to the elapsed counter, saturating at ceiling.
// Negative deltas are ignored.
func Accumulate(a *state.AnimationState, deltaMs, ceiling int) {
	if deltaMs <= 0 {
		if a.ElapsedMs > ceiling {
			a.ElapsedMs = ceiling
		}
		return
	}
	if a.ElapsedMs >= ceiling-deltaMs {
		a.ElapsedMs = ceiling
		return
	}
	a.ElapsedMs += deltaMs
}

// Reset zeroes the iterator, starting index and elapsed counter and stores
// the frame duration and direction. The animation type is recorded unless
// ignoreType is set.
func Reset(a *state.AnimationState, durationMs int, typ state.AnimationType, facing appearance.Direction, ignoreType bool) {
	a.Iterator = 0
	a.StartingIndex = 0
	a.ElapsedMs = 0
	a.FrameDurationMs = durationMs
	a.Direction = facing
	if !ignoreType {
		a.Type = typ
	}
}

// ResetAll resets every animated layer of an entity, used on equip and on
// context changes such as entering a new location.
func ResetAll(s *state.EntityAppearanceState, durationMs int, typ state.AnimationType, facing appearance.Direction, ignoreType bool) {
	for k := appearance.Kind(0); k < appearance.KindCount; k++ {
		if k == appearance.KindAccessory || !k.Policy().Animated {
			continue
		}
		Reset(&s.Animations[k], durationMs, typ, facing, ignoreType)
	}
	for i := range s.Accessories {
		Reset(&s.Accessories[i].Animation, durationMs, typ, facing, ignoreType)
	}
	s.Facing = facing
}

// TypeFor returns the animation type m should be in for the given input.
func TypeFor(m *appearance.Model, in Input) state.AnimationType {
	switch m.Animation.Mode {
	case appearance.AnimStatic:
		return state.TypeStatic
	case appearance.AnimSyncedToMovement:
		return state.TypeSyncedToMovement
	}
	switch m.Animation.LoopWhen {
	case appearance.LoopWhenMoving:
		if !in.Moving {
			return state.TypeIdle
		}
	case appearance.LoopWhenStill:
		if in.Moving {
			return state.TypeIdle
		}
	}
	return state.TypeLooping
}

func (t *Tracker) duration(m *appearance.Model) int {
	if m.Animation.FrameDurationMs > 0 {
		return m.Animation.FrameDurationMs
	}
	return t.defaultDuration
}

// Advance applies one tick to a. It must run at most once per entity per
// world tick; drawing never calls it.
func (t *Tracker) Advance(a *state.AnimationState, m *appearance.Model, in Input) {
	if a == nil || m == nil {
		return
	}
	spec := m.Animation
	frames := spec.Frames()
	duration := t.duration(m)
	typ := TypeFor(m, in)

	switch {
	case a.Type != typ:
		t.log.Debug("Animation type changed",
			zap.Stringer("from", a.Type), zap.Stringer("to", typ))
		t.restart(a, m, duration, typ, in.Facing, false)
	case a.Direction != in.Facing:
		if spec.SyncAcrossDirections {
			a.Direction = in.Facing
		} else {
			t.restart(a, m, duration, typ, in.Facing, true)
		}
	case a.FrameDurationMs != duration:
		// keep the frame, restart only the timer
		a.FrameDurationMs = duration
		a.ElapsedMs = 0
	}

	Accumulate(a, in.DeltaMs, t.ceiling)

	switch typ {
	case state.TypeIdle, state.TypeStatic:
		a.Iterator = a.StartingIndex
		a.ElapsedMs = 0
	case state.TypeSyncedToMovement:
		a.Iterator = in.HostFrame
		a.ElapsedMs = 0
	case state.TypeLooping:
		// One frame per tick at most. After a stall the saturated backlog
		// drains a frame per tick until it falls below one duration.
		if a.ElapsedMs >= duration {
			a.ElapsedMs -= duration
			a.Iterator++
		}
	}

	a.Iterator = wrap(a.Iterator, frames)
}

func (t *Tracker) restart(a *state.AnimationState, m *appearance.Model, duration int, typ state.AnimationType, facing appearance.Direction, ignoreType bool) {
	Reset(a, duration, typ, facing, ignoreType)
	a.StartingIndex = m.Animation.Start()
	a.Iterator = a.StartingIndex
}

// Frame returns the frame index to draw for a on m without mutating a.
func Frame(a *state.AnimationState, m *appearance.Model) int {
	if a == nil || m == nil {
		return 0
	}
	if m.Animation.Mode == appearance.AnimStatic {
		return m.Animation.Start()
	}
	return wrap(a.Iterator, m.Animation.Frames())
}

// SourceRect returns the source rectangle for the current frame.
func SourceRect(a *state.AnimationState, m *appearance.Model) appearance.Rect {
	return m.FrameRect(Frame(a, m))
}

// FrameOffset returns the declared draw offset for the current frame.
func FrameOffset(a *state.AnimationState, m *appearance.Model) math.Vec2 {
	return m.Animation.Offset(Frame(a, m))
}

func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
