package layer

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/Faultbox/wardrobe/pkg/appearance"
)

func model(name string, kind appearance.Kind) *appearance.Model {
	p := &appearance.Pack{Owner: "test", Name: name, Kind: kind}
	p.Models[appearance.Front] = &appearance.Model{Source: appearance.Rect{W: 16, H: 32}}
	p.Bind()
	return p.Models[appearance.Front]
}

func hostLayers() []BaseLayer {
	return []BaseLayer{
		{Name: "skin", Kind: appearance.KindBody},
		{Name: "eyes", Kind: appearance.KindBody, SubOrder: 1},
		{Name: "legs", Kind: appearance.KindPants, Legs: true},
		{Name: "arms", Kind: appearance.KindSleeves},
	}
}

func names(layers []Data) []string {
	out := make([]string, len(layers))
	for i := range layers {
		out[i] = layers[i].Name()
	}
	return out
}

func TestOrderCategoryPrecedence(t *testing.T) {
	o := NewOrderer(0)
	in := Input{
		Models: []appearance.Metadata{
			{Model: model("cap", appearance.KindHat)},
			{Model: model("bob", appearance.KindHair)},
			{Model: model("scarf", appearance.KindAccessory), Slot: 0},
			{Model: model("boots", appearance.KindShoes)},
			{Model: model("tee", appearance.KindShirt)},
			{Model: model("jeans", appearance.KindPants)},
		},
		Base:      hostLayers(),
		Direction: appearance.Front,
	}

	want := []string{
		"skin", "eyes",
		"legs", "test/Pants/jeans",
		"test/Shirt/tee",
		"arms",
		"test/Shoes/boots",
		"test/Accessory/scarf",
		"test/Hair/bob",
		"test/Hat/cap",
	}
	if got := names(o.Order(in)); !reflect.DeepEqual(got, want) {
		t.Errorf("order:\n got %v\nwant %v", got, want)
	}
}

func TestOrderDeterministicUnderShuffle(t *testing.T) {
	o := NewOrderer(0)
	models := []appearance.Metadata{
		{Model: model("a", appearance.KindAccessory), Slot: 2},
		{Model: model("b", appearance.KindAccessory), Slot: 0},
		{Model: model("c", appearance.KindAccessory), Slot: 1},
		{Model: model("bob", appearance.KindHair)},
		{Model: model("tee", appearance.KindShirt)},
		{Model: model("vest", appearance.KindShirt)},
	}
	base := hostLayers()
	want := names(o.Order(Input{Models: models, Base: base}))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		m := append([]appearance.Metadata(nil), models...)
		b := append([]BaseLayer(nil), base...)
		rng.Shuffle(len(m), func(i, j int) { m[i], m[j] = m[j], m[i] })
		rng.Shuffle(len(b), func(i, j int) { b[i], b[j] = b[j], b[i] })
		if got := names(o.Order(Input{Models: m, Base: b})); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d:\n got %v\nwant %v", i, got, want)
		}
	}
}

func TestOrderNoGapWithoutPants(t *testing.T) {
	o := NewOrderer(0.5)
	hair := model("bob", appearance.KindHair)
	shirt := model("tee", appearance.KindShirt)

	never := o.Order(Input{
		Models:    []appearance.Metadata{{Model: hair}, {Model: shirt}},
		BaseDepth: 1,
	})
	unequipped := o.Order(Input{
		Models:    []appearance.Metadata{{Model: hair}, {Model: nil}, {Model: shirt}},
		BaseDepth: 1,
	})

	if len(unequipped) != 2 {
		t.Fatalf("got %d layers, want 2", len(unequipped))
	}
	for i := range never {
		if never[i].Depth != unequipped[i].Depth || never[i].Name() != unequipped[i].Name() {
			t.Errorf("layer %d: %s@%v vs %s@%v", i, never[i].Name(), never[i].Depth, unequipped[i].Name(), unequipped[i].Depth)
		}
		if want := 1 + float32(i)*0.5; never[i].Depth != want {
			t.Errorf("layer %d depth = %v, want %v", i, never[i].Depth, want)
		}
	}
}

func TestOrderHints(t *testing.T) {
	o := NewOrderer(0)

	behindBody := model("cape", appearance.KindAccessory)
	behindBody.Layering.DrawBehindBody = true
	aboveHat := model("halo", appearance.KindAccessory)
	aboveHat.Layering.DrawAboveHat = true
	behindHair := model("bow", appearance.KindHat)
	behindHair.Layering.DrawBehindHair = true
	pinned := model("wings", appearance.KindAccessory)
	depth := -50
	pinned.Layering.Depth = &depth

	got := names(o.Order(Input{
		Models: []appearance.Metadata{
			{Model: aboveHat}, {Model: behindBody}, {Model: behindHair}, {Model: pinned},
			{Model: model("bob", appearance.KindHair)},
			{Model: model("cap", appearance.KindHat)},
		},
		Base: []BaseLayer{{Name: "skin", Kind: appearance.KindBody}},
	}))
	want := []string{
		"test/Accessory/wings",
		"test/Accessory/cape",
		"skin",
		"test/Hat/bow",
		"test/Hair/bob",
		"test/Hat/cap",
		"test/Accessory/halo",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order:\n got %v\nwant %v", got, want)
	}
}

func TestOrderDirectionDepth(t *testing.T) {
	o := NewOrderer(0)
	hair := model("ponytail", appearance.KindHair)
	hair.Layering.DirectionDepth = map[appearance.Direction]int{appearance.Back: 200}
	hat := model("cap", appearance.KindHat)
	in := Input{Models: []appearance.Metadata{{Model: hat}, {Model: hair}}}

	in.Direction = appearance.Front
	if got := names(o.Order(in)); got[0] != "test/Hair/ponytail" {
		t.Errorf("front: %v", got)
	}
	in.Direction = appearance.Back
	if got := names(o.Order(in)); got[0] != "test/Hat/cap" {
		t.Errorf("back: %v", got)
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := NewOrderer(0).Order(Input{}); len(got) != 0 {
		t.Errorf("got %d layers, want 0", len(got))
	}
}
