package main

import (
	"testing"

	"github.com/Faultbox/wardrobe/internal/config"
	"github.com/Faultbox/wardrobe/internal/demo"
	"github.com/Faultbox/wardrobe/internal/engine/input"
	"github.com/Faultbox/wardrobe/internal/render"
	"github.com/Faultbox/wardrobe/pkg/appearance"
)

func newTestViewer(t *testing.T) *viewer {
	t.Helper()
	ctx, err := render.NewFromConfig(config.Default().Render, demo.Skin(), nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	ctx.Reload(demo.Packs())
	return newViewer(ctx, demo.Entity("t"), 2, nil)
}

func TestViewerFacing(t *testing.T) {
	v := newTestViewer(t)
	v.apply(input.ActionFaceLeft)
	v.update(16)

	if v.s.Facing != appearance.Left {
		t.Errorf("expected facing Left, got %s", v.s.Facing)
	}
	f := v.frame(640, 480)
	if !f.HostFlip || f.EffectiveFacing() != appearance.Left {
		t.Error("left facing should set the host flip")
	}
}

func TestViewerWalkAdvancesHostFrame(t *testing.T) {
	v := newTestViewer(t)
	v.apply(input.ActionToggleWalk)
	for i := 0; i < 10; i++ {
		v.update(50)
	}
	// 500ms at 150ms per frame
	if v.hostFrame != 3 {
		t.Errorf("expected host frame 3, got %d", v.hostFrame)
	}
}

func TestViewerSwimBob(t *testing.T) {
	v := newTestViewer(t)
	v.apply(input.ActionToggleSwim)
	v.update(600)

	if v.yOffset <= 0 || v.yOffset >= bobDepth {
		t.Errorf("expected mid-bob offset, got %v", v.yOffset)
	}
	if !v.frame(640, 480).Swimming {
		t.Error("frame should be swimming")
	}
}

func TestViewerToggleHair(t *testing.T) {
	v := newTestViewer(t)
	v.apply(input.ActionNextHair)
	if got := v.s.EquippedID(appearance.KindHair); got != appearance.NoneID {
		t.Errorf("expected hair removed, got %q", got)
	}
	v.apply(input.ActionNextHair)
	if got := v.s.EquippedID(appearance.KindHair); got != demo.ID(appearance.KindHair, "Bob") {
		t.Errorf("expected hair restored, got %q", got)
	}
}
