package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/compositor"
	"github.com/Faultbox/wardrobe/internal/demo"
	"github.com/Faultbox/wardrobe/internal/engine/input"
	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/internal/render"
	"github.com/Faultbox/wardrobe/internal/state"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
)

const (
	// walkFrameMs is how long the host shows one walk frame.
	walkFrameMs = 150
	walkFrames  = 4
	// bobDepth is the swim bob amplitude in sprite pixels.
	bobDepth   = 6
	bobSeconds = 1.2
)

var shirtColors = []appearance.Color{
	appearance.RGB(70, 140, 200),
	appearance.RGB(200, 70, 70),
	appearance.RGB(80, 170, 90),
	appearance.RGB(230, 200, 80),
	appearance.RGB(240, 240, 240),
}

// viewer is the interactive session around one entity.
type viewer struct {
	ctx   *render.Context
	s     *state.EntityAppearanceState
	scale float32
	log   *zap.Logger

	facing   appearance.Direction
	moving   bool
	swimming bool

	tick      uint64
	clockMs   int64
	walkMs    int
	hostFrame int
	colorIdx  int

	bob     *gween.Tween
	bobUp   bool
	yOffset float32

	// save persists the entity; nil when no store is configured.
	save func(*state.EntityAppearanceState) error
}

func newViewer(ctx *render.Context, s *state.EntityAppearanceState, scale float32, log *zap.Logger) *viewer {
	v := &viewer{
		ctx:    ctx,
		s:      s,
		scale:  scale,
		log:    logger.OrNop(log),
		facing: s.Facing,
	}
	v.resetBob()
	return v
}

func (v *viewer) resetBob() {
	from, to := float32(0), float32(bobDepth)
	if v.bobUp {
		from, to = to, from
	}
	v.bob = gween.New(from, to, bobSeconds, ease.InOutSine)
}

// apply handles one key action.
func (v *viewer) apply(a input.Action) {
	switch a {
	case input.ActionFaceBack:
		v.facing = appearance.Back
	case input.ActionFaceRight:
		v.facing = appearance.Right
	case input.ActionFaceFront:
		v.facing = appearance.Front
	case input.ActionFaceLeft:
		v.facing = appearance.Left
	case input.ActionToggleWalk:
		v.moving = !v.moving
		v.hostFrame = 0
	case input.ActionToggleSwim:
		v.swimming = !v.swimming
		v.yOffset = 0
		v.bobUp = false
		v.resetBob()
	case input.ActionReload:
		report := v.ctx.Reload(demo.Packs())
		v.log.Info("Reloaded packs",
			zap.Int("loaded", report.Loaded),
			zap.Int("rejected", len(report.Rejected)))
	case input.ActionNextHair:
		next := demo.ID(appearance.KindHair, "Bob")
		if v.s.EquippedID(appearance.KindHair) == next {
			next = appearance.NoneID
		}
		if err := v.ctx.Equip(v.s, appearance.KindHair, next); err != nil {
			v.log.Warn("Equip failed", zap.Error(err))
		}
	case input.ActionCycleColor:
		v.colorIdx = (v.colorIdx + 1) % len(shirtColors)
		v.s.SetOverrideColor(appearance.KindShirt, shirtColors[v.colorIdx])
	case input.ActionSave:
		if v.save == nil {
			v.log.Info("No state store configured")
			return
		}
		if err := v.save(v.s); err != nil {
			v.log.Error("Save failed", zap.Error(err))
			return
		}
		v.log.Info("Saved entity", zap.String("entity", v.s.EntityID))
	}
}

// update advances the session by dtMs of wall time.
func (v *viewer) update(dtMs int) {
	v.clockMs += int64(dtMs)

	if v.moving {
		v.walkMs += dtMs
		for v.walkMs >= walkFrameMs {
			v.walkMs -= walkFrameMs
			v.hostFrame = (v.hostFrame + 1) % walkFrames
		}
	}

	if v.swimming {
		val, done := v.bob.Update(float32(dtMs) / 1000)
		v.yOffset = val
		if done {
			v.bobUp = !v.bobUp
			v.resetBob()
		}
	}

	v.tick++
	v.ctx.Tick(v.s, render.TickInput{
		TickID:    v.tick,
		DeltaMs:   dtMs,
		Facing:    v.facing,
		HostFlip:  v.facing == appearance.Left,
		Moving:    v.moving,
		HostFrame: v.hostFrame,
	})
}

// frame builds the host frame input centered in a w by h window.
func (v *viewer) frame(w, h int) render.Frame {
	f := render.Frame{
		Frame: compositor.Frame{
			Position: math.Vec2{
				X: float32(w)/2 - demo.FrameW*v.scale/2,
				Y: float32(h)/2 - demo.FrameH*v.scale/2,
			},
			Scale:      v.scale,
			Facing:     v.facing,
			HostFlip:   v.facing == appearance.Left,
			HostFrame:  v.hostFrame,
			Swimming:   v.swimming,
			YOffset:    v.yOffset,
			BaseSource: demo.BaseSource(),
		},
		ClockMs: v.clockMs,
		Base:    demo.HostLayers(),
	}
	f.PositionOffset = math.Vec2{Y: -v.yOffset}
	return f
}
