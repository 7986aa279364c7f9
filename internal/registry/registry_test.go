package registry

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// mockPack creates a minimal valid pack for testing.
func mockPack(t *testing.T, owner, name string, kind appearance.Kind) *appearance.Pack {
	t.Helper()
	tex, err := sprite.NewIndexed(16, 16, 4)
	if err != nil {
		t.Fatalf("NewIndexed: %v", err)
	}
	p := &appearance.Pack{Owner: owner, PackName: owner + " pack", Name: name, Kind: kind, Texture: tex}
	p.Models[appearance.Front] = &appearance.Model{Source: appearance.Rect{W: 16, H: 16}}
	return p
}

func TestRegisterLookup(t *testing.T) {
	r := New(nil)
	p := mockPack(t, "alice", "Braids", appearance.KindHair)

	if err := r.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := r.Lookup("alice/Hair/Braids")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != p {
		t.Error("Lookup should return the registered pack")
	}
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		if got.ModelFor(d) != p.Models[d] {
			t.Errorf("model set mismatch for %s", d)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*appearance.Pack)
	}{
		{"missing name", func(p *appearance.Pack) { p.Name = "" }},
		{"missing texture", func(p *appearance.Pack) { p.Texture = nil }},
		{"no models", func(p *appearance.Pack) { p.Models = [appearance.DirectionCount]*appearance.Model{} }},
		{"bad kind", func(p *appearance.Pack) { p.Kind = appearance.KindCount }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(nil)
			if err := r.Register(mockPack(t, "bob", "Existing", appearance.KindHat)); err != nil {
				t.Fatalf("Register: %v", err)
			}
			before := r.Snapshot()

			p := mockPack(t, "bob", "Broken", appearance.KindHat)
			tt.mutate(p)

			err := r.Register(p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if r.Snapshot() != before || r.Len() != 1 {
				t.Error("registry changed after rejected register")
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := New(nil)
	first := mockPack(t, "carol", "Cap", appearance.KindHat)
	second := mockPack(t, "carol", "Cap", appearance.KindHat)

	if err := r.Register(first); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := r.Register(second)
	var dup *DuplicateIDError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateIDError, got %v", err)
	}
	got, _ := r.Lookup(first.ID())
	if got != first {
		t.Error("first registration should win")
	}

	// Same name under another kind or owner is a different id.
	if err := r.Register(mockPack(t, "carol", "Cap", appearance.KindAccessory)); err != nil {
		t.Errorf("same name, other kind: %v", err)
	}
	if err := r.Register(mockPack(t, "dave", "Cap", appearance.KindHat)); err != nil {
		t.Errorf("same name, other owner: %v", err)
	}
}

func TestLookupMiss(t *testing.T) {
	r := New(nil)
	if _, err := r.Lookup("nobody/Hair/none"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	p := mockPack(t, "erin", "Boots", appearance.KindShoes)
	r.Register(p)
	if _, err := r.LookupKind(p.ID(), appearance.KindPants); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for wrong kind, got %v", err)
	}
	if _, err := r.LookupKind(p.ID(), appearance.KindShoes); err != nil {
		t.Errorf("LookupKind: %v", err)
	}
}

func TestReset(t *testing.T) {
	r := New(nil)
	r.Register(mockPack(t, "f", "A", appearance.KindHair))
	r.Register(mockPack(t, "f", "B", appearance.KindHair))

	held := r.Snapshot()
	r.Reset()

	if r.Len() != 0 {
		t.Errorf("expected empty registry after Reset, got %d", r.Len())
	}
	if held.Len() != 2 {
		t.Error("a held snapshot must not change after Reset")
	}
}

func TestLoadSkipsOffendingPacks(t *testing.T) {
	r := New(nil)

	noTexture := mockPack(t, "g", "NoTex", appearance.KindShirt)
	noTexture.Texture = nil

	report := r.Load([]*appearance.Pack{
		mockPack(t, "g", "Tee", appearance.KindShirt),
		noTexture,
		mockPack(t, "g", "Tee", appearance.KindShirt),
		mockPack(t, "g", "Jeans", appearance.KindPants),
	})

	if report.Loaded != 2 {
		t.Errorf("expected 2 loaded, got %d", report.Loaded)
	}
	if len(report.Rejected) != 2 {
		t.Fatalf("expected 2 rejected, got %d", len(report.Rejected))
	}
	var verr *ValidationError
	var dup *DuplicateIDError
	if !errors.As(report.Rejected[0], &verr) || !errors.As(report.Rejected[1], &dup) {
		t.Errorf("unexpected rejection errors: %v", report.Rejected)
	}
}

func TestLoadReplacesPreviousSet(t *testing.T) {
	r := New(nil)
	r.Load([]*appearance.Pack{mockPack(t, "old", "A", appearance.KindHair)})
	r.Load([]*appearance.Pack{mockPack(t, "new", "B", appearance.KindHair)})

	if _, err := r.Lookup("old/Hair/A"); !errors.Is(err, ErrNotFound) {
		t.Error("old pack should be gone after reload")
	}
	if _, err := r.Lookup("new/Hair/B"); err != nil {
		t.Errorf("new pack missing: %v", err)
	}
}

func TestLoadNeverExposesEmptyRegistry(t *testing.T) {
	r := New(nil)
	setA := []*appearance.Pack{mockPack(t, "a", "1", appearance.KindHair), mockPack(t, "a", "2", appearance.KindHat)}
	setB := []*appearance.Pack{mockPack(t, "b", "1", appearance.KindHair), mockPack(t, "b", "2", appearance.KindHat)}
	r.Load(setA)

	var sawEmpty atomic.Bool
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if r.Snapshot().Len() == 0 {
					sawEmpty.Store(true)
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			r.Load(setB)
		} else {
			r.Load(setA)
		}
	}
	close(stop)
	wg.Wait()

	if sawEmpty.Load() {
		t.Error("a reader observed an empty registry during reload")
	}
}

func TestIDsSorted(t *testing.T) {
	r := New(nil)
	r.Register(mockPack(t, "z", "Hat", appearance.KindHat))
	r.Register(mockPack(t, "a", "Hair", appearance.KindHair))
	r.Register(mockPack(t, "m", "Hair", appearance.KindHair))

	got := r.Snapshot().IDs(appearance.KindHair)
	if len(got) != 2 || got[0] != "a/Hair/Hair" || got[1] != "m/Hair/Hair" {
		t.Errorf("unexpected hair ids %v", got)
	}
	if all := r.Snapshot().IDs(appearance.KindCount); len(all) != 3 {
		t.Errorf("expected 3 ids overall, got %d", len(all))
	}
}
