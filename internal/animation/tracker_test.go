package animation

import (
	"math/rand"
	"testing"

	"github.com/Faultbox/wardrobe/internal/state"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
)

func loopingModel(frames, durationMs int) *appearance.Model {
	return &appearance.Model{
		Kind:   appearance.KindHair,
		Source: appearance.Rect{W: 16, H: 32},
		Animation: appearance.AnimationSpec{
			Mode:            appearance.AnimLooping,
			FrameCount:      frames,
			FrameDurationMs: durationMs,
		},
	}
}

func TestAdvanceHairScenario(t *testing.T) {
	tr := NewTracker(Options{}, nil)
	m := loopingModel(4, 200)
	var a state.AnimationState

	for i := 0; i < 3; i++ {
		tr.Advance(&a, m, Input{DeltaMs: 150, Facing: appearance.Front})
	}

	if a.Iterator != 2 {
		t.Errorf("Iterator = %d, want 2", a.Iterator)
	}
	if a.ElapsedMs != 50 {
		t.Errorf("ElapsedMs = %d, want 50", a.ElapsedMs)
	}
	if a.Type != state.TypeLooping {
		t.Errorf("Type = %v, want Looping", a.Type)
	}
}

func TestAccumulateSaturates(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		delta   int
		ceiling int
		want    int
	}{
		{"below", 0, 100, 1000, 100},
		{"exact", 900, 100, 1000, 1000},
		{"over", 900, 500, 1000, 1000},
		{"huge delta", 10, 1 << 62, 1000, 1000},
		{"negative delta", 10, -50, 1000, 10},
		{"already over", 5000, 0, 1000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := state.AnimationState{ElapsedMs: tt.start}
			Accumulate(&a, tt.delta, tt.ceiling)
			if a.ElapsedMs != tt.want {
				t.Errorf("ElapsedMs = %d, want %d", a.ElapsedMs, tt.want)
			}
		})
	}
}

func TestAdvanceProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewTracker(Options{MaxTrackedMs: 5000}, nil)

	for trial := 0; trial < 50; trial++ {
		frames := 1 + rng.Intn(8)
		duration := 1 + rng.Intn(300)
		m := loopingModel(frames, duration)
		var a state.AnimationState
		tr.Advance(&a, m, Input{Facing: appearance.Front})

		for tick := 0; tick < 200; tick++ {
			delta := rng.Intn(2 * duration)
			if rng.Intn(20) == 0 {
				delta = 1 << 40
			}
			before := a
			tr.Advance(&a, m, Input{DeltaMs: delta, Facing: appearance.Front})

			if a.ElapsedMs > tr.Ceiling() {
				t.Fatalf("elapsed %d over ceiling", a.ElapsedMs)
			}
			if a.Iterator < 0 || a.Iterator >= frames {
				t.Fatalf("iterator %d out of [0,%d)", a.Iterator, frames)
			}

			total := before.ElapsedMs + delta
			if total > tr.Ceiling() {
				total = tr.Ceiling()
			}
			wantIter := before.Iterator
			wantElapsed := total
			if total >= duration {
				wantIter = (before.Iterator + 1) % frames
				wantElapsed = total - duration
			}
			if a.Iterator != wantIter || a.ElapsedMs != wantElapsed {
				t.Fatalf("from %+v delta %d: got iter %d elapsed %d, want %d/%d",
					before, delta, a.Iterator, a.ElapsedMs, wantIter, wantElapsed)
			}
		}
	}
}

func TestAdvanceDrainsBacklogOneFramePerTick(t *testing.T) {
	tr := NewTracker(Options{MaxTrackedMs: 1000}, nil)
	m := loopingModel(4, 200)
	var a state.AnimationState

	tr.Advance(&a, m, Input{DeltaMs: 1 << 40, Facing: appearance.Front})
	wantIter := []int{1, 2, 3, 0, 1, 1}
	wantElapsed := []int{800, 600, 400, 200, 0, 0}
	for i := range wantIter {
		if i > 0 {
			tr.Advance(&a, m, Input{Facing: appearance.Front})
		}
		if a.Iterator != wantIter[i] || a.ElapsedMs != wantElapsed[i] {
			t.Fatalf("tick %d: iterator %d elapsed %d, want %d and %d",
				i, a.Iterator, a.ElapsedMs, wantIter[i], wantElapsed[i])
		}
	}
}

func TestAdvanceDirectionChange(t *testing.T) {
	tr := NewTracker(Options{}, nil)

	m := loopingModel(4, 100)
	m.Animation.StartingIndex = 1
	var a state.AnimationState
	tr.Advance(&a, m, Input{DeltaMs: 0, Facing: appearance.Front})
	tr.Advance(&a, m, Input{DeltaMs: 100, Facing: appearance.Front})
	tr.Advance(&a, m, Input{DeltaMs: 100, Facing: appearance.Front})
	if a.Iterator != 3 {
		t.Fatalf("Iterator = %d, want 3", a.Iterator)
	}

	tr.Advance(&a, m, Input{DeltaMs: 50, Facing: appearance.Left})
	if a.Iterator != 1 || a.ElapsedMs != 50 || a.Direction != appearance.Left {
		t.Errorf("after turn: %+v, want iterator 1 elapsed 50 facing left", a)
	}

	synced := loopingModel(4, 100)
	synced.Animation.SyncAcrossDirections = true
	var b state.AnimationState
	tr.Advance(&b, synced, Input{Facing: appearance.Front})
	tr.Advance(&b, synced, Input{DeltaMs: 100, Facing: appearance.Front})
	tr.Advance(&b, synced, Input{DeltaMs: 100, Facing: appearance.Right})
	if b.Iterator != 2 || b.Direction != appearance.Right {
		t.Errorf("synced turn: %+v, want iterator 2 facing right", b)
	}
}

func TestAdvanceLoopConditions(t *testing.T) {
	tr := NewTracker(Options{}, nil)
	m := loopingModel(4, 100)
	m.Animation.LoopWhen = appearance.LoopWhenMoving

	var a state.AnimationState
	tr.Advance(&a, m, Input{DeltaMs: 500, Facing: appearance.Front})
	if a.Type != state.TypeIdle || a.Iterator != 0 || a.ElapsedMs != 0 {
		t.Fatalf("still entity should idle: %+v", a)
	}

	tr.Advance(&a, m, Input{DeltaMs: 100, Facing: appearance.Front, Moving: true})
	if a.Type != state.TypeLooping || a.Iterator != 1 {
		t.Fatalf("moving entity should loop: %+v", a)
	}

	tr.Advance(&a, m, Input{DeltaMs: 100, Facing: appearance.Front})
	if a.Type != state.TypeIdle || a.Iterator != 0 {
		t.Errorf("stopping should return to idle: %+v", a)
	}
}

func TestAdvanceStaticAndSynced(t *testing.T) {
	tr := NewTracker(Options{}, nil)

	static := loopingModel(3, 100)
	static.Animation.Mode = appearance.AnimStatic
	static.Animation.StartingIndex = 2
	var a state.AnimationState
	for i := 0; i < 5; i++ {
		tr.Advance(&a, static, Input{DeltaMs: 250, Facing: appearance.Back})
	}
	if a.Iterator != 2 || a.Type != state.TypeStatic {
		t.Errorf("static: %+v, want iterator 2", a)
	}

	synced := loopingModel(4, 100)
	synced.Animation.Mode = appearance.AnimSyncedToMovement
	var b state.AnimationState
	tr.Advance(&b, synced, Input{DeltaMs: 16, Facing: appearance.Back, HostFrame: 6})
	if b.Iterator != 2 || b.Type != state.TypeSyncedToMovement {
		t.Errorf("synced: %+v, want iterator 2", b)
	}
}

func TestAdvanceDurationChangeKeepsFrame(t *testing.T) {
	tr := NewTracker(Options{}, nil)
	m := loopingModel(4, 100)
	var a state.AnimationState
	tr.Advance(&a, m, Input{Facing: appearance.Front})
	tr.Advance(&a, m, Input{DeltaMs: 100, Facing: appearance.Front})
	tr.Advance(&a, m, Input{DeltaMs: 30, Facing: appearance.Front})

	faster := loopingModel(4, 50)
	tr.Advance(&a, faster, Input{DeltaMs: 20, Facing: appearance.Front})
	if a.Iterator != 1 || a.ElapsedMs != 20 || a.FrameDurationMs != 50 {
		t.Errorf("duration change: %+v", a)
	}
}

func TestAdvanceHealsOutOfRangeIterator(t *testing.T) {
	tr := NewTracker(Options{}, nil)
	m := loopingModel(4, 100)
	a := state.AnimationState{Iterator: 17, FrameDurationMs: 100, Type: state.TypeLooping, Direction: appearance.Front}
	tr.Advance(&a, m, Input{DeltaMs: 10, Facing: appearance.Front})
	if a.Iterator != 1 {
		t.Errorf("Iterator = %d, want 1", a.Iterator)
	}
}

func TestResetIgnoreType(t *testing.T) {
	a := state.AnimationState{Iterator: 3, StartingIndex: 2, ElapsedMs: 90, Type: state.TypeLooping}
	Reset(&a, 150, state.TypeIdle, appearance.Right, true)
	if a.Iterator != 0 || a.StartingIndex != 0 || a.ElapsedMs != 0 || a.FrameDurationMs != 150 {
		t.Errorf("counters not reset: %+v", a)
	}
	if a.Type != state.TypeLooping {
		t.Errorf("Type = %v, want Looping kept", a.Type)
	}

	Reset(&a, 150, state.TypeIdle, appearance.Right, false)
	if a.Type != state.TypeIdle {
		t.Errorf("Type = %v, want Idle", a.Type)
	}
}

func TestResetAll(t *testing.T) {
	s := state.New("farmer", appearance.White)
	s.Animations[appearance.KindHair].Iterator = 3
	s.Animations[appearance.KindHat].ElapsedMs = 40
	s.EquipAccessory(0, "a/Accessory/b", appearance.White)
	s.Accessories[0].Animation.Iterator = 2

	ResetAll(s, 200, state.TypeIdle, appearance.Left, false)

	for _, k := range []appearance.Kind{appearance.KindHair, appearance.KindHat} {
		if a := s.Animations[k]; a.Iterator != 0 || a.ElapsedMs != 0 || a.Type != state.TypeIdle {
			t.Errorf("%v not reset: %+v", k, a)
		}
	}
	if s.Accessories[0].Animation.Iterator != 0 {
		t.Errorf("accessory not reset")
	}
	if s.Facing != appearance.Left {
		t.Errorf("Facing = %v, want Left", s.Facing)
	}
}

func TestFrameIsReadOnly(t *testing.T) {
	m := loopingModel(4, 100)
	m.Animation.Offsets = []math.Vec2{{}, {X: 1, Y: -2}}
	a := state.AnimationState{Iterator: 5, ElapsedMs: 70}
	before := a

	if got := Frame(&a, m); got != 1 {
		t.Errorf("Frame = %d, want 1", got)
	}
	if r := SourceRect(&a, m); r.X != 16 {
		t.Errorf("SourceRect.X = %d, want 16", r.X)
	}
	if o := FrameOffset(&a, m); o.X != 1 || o.Y != -2 {
		t.Errorf("FrameOffset = %v", o)
	}
	if a != before {
		t.Errorf("Frame mutated state: %+v", a)
	}
}
