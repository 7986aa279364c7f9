// Package demo builds a small procedural wardrobe: packs, a host base body
// and skin tones, for previews and the viewer.
package demo

import (
	"image"
	"image/color"

	"github.com/Faultbox/wardrobe/internal/layer"
	"github.com/Faultbox/wardrobe/internal/palette"
	"github.com/Faultbox/wardrobe/internal/render"
	"github.com/Faultbox/wardrobe/internal/state"
	"github.com/Faultbox/wardrobe/pkg/appearance"
	"github.com/Faultbox/wardrobe/pkg/math"
	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// Owner is the owner id of every demo pack.
const Owner = "demo"

// Sprite frame size, in sprite pixels.
const (
	FrameW = 16
	FrameH = 32
)

// Host base texture palette entries.
const (
	skinDark  uint16 = 1
	skinMid   uint16 = 2
	skinLight uint16 = 3
	eyeIndex  uint16 = 4
	baseSize         = 272
)

// HairColor is the native hair color of the demo entity.
var HairColor = appearance.RGB(156, 92, 44)

func gray(v uint8) color.NRGBA {
	return color.NRGBA{v, v, v, 255}
}

// sheet allocates a texture holding frames columns and one row per direction.
func sheet(frames int, pal ...color.NRGBA) *sprite.IndexedImage {
	img, _ := sprite.NewIndexed(FrameW*frames, FrameH*int(appearance.DirectionCount), len(pal)+1)
	for i, c := range pal {
		img.SetColor(uint16(i+1), c)
	}
	return img
}

// cell returns the rectangle of (frame, dir) offset by r.
func cell(frame int, dir appearance.Direction, r image.Rectangle) image.Rectangle {
	return r.Add(image.Pt(frame*FrameW, int(dir)*FrameH))
}

func directional(p *appearance.Pack, build func(d appearance.Direction) *appearance.Model) *appearance.Pack {
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		m := build(d)
		m.Source = appearance.Rect{X: 0, Y: int(d) * FrameH, W: FrameW, H: FrameH}
		p.Models[d] = m
	}
	return p
}

func newPack(name string, kind appearance.Kind, tex *sprite.IndexedImage) *appearance.Pack {
	return &appearance.Pack{
		Owner:    Owner,
		Author:   "wardrobe",
		PackName: "Demo Wardrobe",
		Name:     name,
		Kind:     kind,
		Texture:  tex,
	}
}

// Hair is a four-frame swaying bob drawn in grays and tinted whole.
func Hair() *appearance.Pack {
	tex := sheet(4, gray(220), gray(170))
	sway := []int{0, 1, 0, -1}
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		for f, dx := range sway {
			tex.FillRect(cell(f, d, image.Rect(3, 1, 13, 6)), 1)
			if d != appearance.Back {
				tex.FillRect(cell(f, d, image.Rect(3+dx, 6, 5+dx, 12)), 2)
				tex.FillRect(cell(f, d, image.Rect(11+dx, 6, 13+dx, 12)), 2)
			} else {
				tex.FillRect(cell(f, d, image.Rect(3+dx, 6, 13+dx, 12)), 2)
			}
		}
	}
	return directional(newPack("Bob", appearance.KindHair, tex), func(d appearance.Direction) *appearance.Model {
		return &appearance.Model{
			Animation: appearance.AnimationSpec{
				Mode:            appearance.AnimLooping,
				FrameCount:      4,
				FrameDurationMs: 200,
			},
		}
	})
}

// Shirt has a dyeable body, fixed-ink buttons and dyeable sleeves.
func Shirt() *appearance.Pack {
	tex := sheet(1, gray(235), color.NRGBA{40, 40, 110, 255})
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		tex.FillRect(cell(0, d, image.Rect(4, 13, 12, 21)), 1)
		if d == appearance.Front {
			tex.FillRect(cell(0, d, image.Rect(7, 14, 9, 15)), 2)
			tex.FillRect(cell(0, d, image.Rect(7, 17, 9, 18)), 2)
		}
	}
	return directional(newPack("Tee", appearance.KindShirt, tex), func(d appearance.Direction) *appearance.Model {
		return &appearance.Model{
			Animation: appearance.AnimationSpec{Mode: appearance.AnimStatic},
			ColorMasks: []appearance.MaskSlot{
				{Index: 1, Color: appearance.FromNRGBA(gray(235)), Maskable: true},
				{Index: 2, Color: appearance.RGB(40, 40, 110)},
			},
			SleeveColors: []appearance.MaskSlot{
				{Color: appearance.FromNRGBA(gray(150)), Maskable: true},
				{Color: appearance.FromNRGBA(gray(200)), Maskable: true},
				{Color: appearance.FromNRGBA(gray(235)), Maskable: true},
			},
		}
	})
}

// Pants are dyeable and replace the host legs.
func Pants() *appearance.Pack {
	tex := sheet(1, gray(200))
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		tex.FillRect(cell(0, d, image.Rect(4, 20, 12, 24)), 1)
		tex.FillRect(cell(0, d, image.Rect(4, 24, 7, 29)), 1)
		tex.FillRect(cell(0, d, image.Rect(9, 24, 12, 29)), 1)
	}
	return directional(newPack("Slacks", appearance.KindPants, tex), func(d appearance.Direction) *appearance.Model {
		return &appearance.Model{
			Animation:  appearance.AnimationSpec{Mode: appearance.AnimStatic},
			ColorMasks: []appearance.MaskSlot{{Index: 1, Color: appearance.FromNRGBA(gray(200)), Maskable: true}},
			Hide:       appearance.Hide{Legs: true},
		}
	})
}

// Hat is a prismatic cap.
func Hat() *appearance.Pack {
	tex := sheet(1, gray(255), gray(60))
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		tex.FillRect(cell(0, d, image.Rect(3, 0, 13, 3)), 1)
		if d == appearance.Front || d == appearance.Right {
			tex.FillRect(cell(0, d, image.Rect(3, 3, 15, 4)), 2)
		}
	}
	return directional(newPack("Prism Cap", appearance.KindHat, tex), func(d appearance.Direction) *appearance.Model {
		return &appearance.Model{
			Animation:      appearance.AnimationSpec{Mode: appearance.AnimStatic},
			IsPrismatic:    true,
			PrismaticSpeed: 1.5,
			ColorMasks: []appearance.MaskSlot{
				{Index: 1, Color: appearance.FromNRGBA(gray(255)), Maskable: true},
				{Index: 2, Color: appearance.FromNRGBA(gray(60))},
			},
			Offset: math.Vec2{Y: -1},
		}
	})
}

// Scarf is an accessory that flutters while walking and covers the arms.
func Scarf() *appearance.Pack {
	tex := sheet(2, gray(210))
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		for f := 0; f < 2; f++ {
			tex.FillRect(cell(f, d, image.Rect(4, 12, 12, 14)), 1)
			tex.FillRect(cell(f, d, image.Rect(9+f, 14, 11+f, 18)), 1)
		}
	}
	return directional(newPack("Scarf", appearance.KindAccessory, tex), func(d appearance.Direction) *appearance.Model {
		return &appearance.Model{
			Animation: appearance.AnimationSpec{
				Mode:            appearance.AnimLooping,
				LoopWhen:        appearance.LoopWhenMoving,
				FrameCount:      2,
				FrameDurationMs: 150,
			},
			ColorMasks: []appearance.MaskSlot{{Index: 1, Color: appearance.FromNRGBA(gray(210)), Maskable: true}},
			Layering:   appearance.Layering{DirectionDepth: map[appearance.Direction]int{appearance.Back: -300}},
		}
	})
}

// Boots is a custom shoe layer.
func Boots() *appearance.Pack {
	tex := sheet(1, color.NRGBA{90, 60, 30, 255})
	for d := appearance.Direction(0); d < appearance.DirectionCount; d++ {
		tex.FillRect(cell(0, d, image.Rect(4, 29, 7, 32)), 1)
		tex.FillRect(cell(0, d, image.Rect(9, 29, 12, 32)), 1)
	}
	return directional(newPack("Boots", appearance.KindShoes, tex), func(d appearance.Direction) *appearance.Model {
		return &appearance.Model{Animation: appearance.AnimationSpec{Mode: appearance.AnimStatic}}
	})
}

// Packs returns every demo pack.
func Packs() []*appearance.Pack {
	return []*appearance.Pack{Hair(), Shirt(), Pants(), Hat(), Scarf(), Boots()}
}

// Skin returns the demo skin tone table.
func Skin() palette.SkinTable {
	return palette.SkinTable{
		Tones: []palette.SkinTone{
			{Darkest: appearance.RGB(158, 92, 60), Medium: appearance.RGB(224, 145, 100), Lightest: appearance.RGB(249, 174, 137)},
			{Darkest: appearance.RGB(107, 58, 38), Medium: appearance.RGB(150, 87, 56), Lightest: appearance.RGB(187, 114, 78)},
			{Darkest: appearance.RGB(72, 39, 26), Medium: appearance.RGB(107, 61, 40), Lightest: appearance.RGB(135, 80, 54)},
		},
		Sick: palette.SkinTone{Darkest: appearance.RGB(107, 117, 60), Medium: appearance.RGB(150, 170, 90), Lightest: appearance.RGB(180, 200, 120)},
	}
}

// BaseTexture draws the host body. Arms use the sleeve slots and feet the
// shoe slots so custom shirts and shoes can recolor them.
func BaseTexture() *sprite.IndexedImage {
	img, _ := sprite.NewIndexed(FrameW, FrameH, baseSize)
	tone := Skin().Tones[0]
	img.SetColor(skinDark, tone.Darkest.NRGBA())
	img.SetColor(skinMid, tone.Medium.NRGBA())
	img.SetColor(skinLight, tone.Lightest.NRGBA())
	img.SetColor(eyeIndex, color.NRGBA{30, 30, 60, 255})
	img.SetColor(palette.SleeveDarkest, tone.Darkest.NRGBA())
	img.SetColor(palette.SleeveMedium, tone.Medium.NRGBA())
	img.SetColor(palette.SleeveLightest, tone.Lightest.NRGBA())
	for i, v := range []uint8{57, 81, 119, 158} {
		img.SetColor(palette.ShoeDarkest+uint16(i), gray(v))
	}

	img.FillRect(image.Rect(4, 2, 12, 12), skinMid)
	img.FillRect(image.Rect(5, 3, 11, 11), skinLight)
	img.Set(6, 7, eyeIndex)
	img.Set(9, 7, eyeIndex)
	img.FillRect(image.Rect(4, 12, 12, 20), skinMid)
	img.FillRect(image.Rect(5, 24, 7, 29), skinDark)
	img.FillRect(image.Rect(9, 24, 11, 29), skinDark)
	img.FillRect(image.Rect(4, 29, 7, 32), palette.ShoeDarkest)
	img.FillRect(image.Rect(9, 29, 12, 32), palette.ShoeMedium)
	return img
}

// ArmsTexture draws the host arms in the sleeve slots.
func ArmsTexture() *sprite.IndexedImage {
	img := BaseTexture()
	img.FillRect(img.Bounds(), sprite.TransparentIndex)
	img.FillRect(image.Rect(2, 13, 4, 20), palette.SleeveMedium)
	img.FillRect(image.Rect(12, 13, 14, 20), palette.SleeveMedium)
	img.FillRect(image.Rect(2, 18, 4, 20), palette.SleeveLightest)
	img.FillRect(image.Rect(12, 18, 14, 20), palette.SleeveDarkest)
	return img
}

// LegsTexture draws the host legs.
func LegsTexture() *sprite.IndexedImage {
	img := BaseTexture()
	img.FillRect(img.Bounds(), sprite.TransparentIndex)
	img.FillRect(image.Rect(4, 20, 12, 24), skinDark)
	return img
}

// HostLayers returns the host base layers the demo body is drawn with.
func HostLayers() []render.HostLayer {
	return []render.HostLayer{
		{BaseLayer: layer.BaseLayer{Name: "body", Kind: appearance.KindBody}, Texture: BaseTexture()},
		{BaseLayer: layer.BaseLayer{Name: "legs", Kind: appearance.KindPants, Legs: true}, Texture: LegsTexture()},
		{BaseLayer: layer.BaseLayer{Name: "arms", Kind: appearance.KindSleeves}, Texture: ArmsTexture()},
	}
}

// ID returns the registry id of a demo pack.
func ID(kind appearance.Kind, name string) string {
	return appearance.MakeID(Owner, kind, name)
}

// Entity returns a freshly dressed demo entity.
func Entity(id string) *state.EntityAppearanceState {
	s := state.New(id, HairColor)
	s.Equipped[appearance.KindHair] = ID(appearance.KindHair, "Bob")
	s.Equipped[appearance.KindShirt] = ID(appearance.KindShirt, "Tee")
	s.Equipped[appearance.KindPants] = ID(appearance.KindPants, "Slacks")
	s.Equipped[appearance.KindHat] = ID(appearance.KindHat, "Prism Cap")
	s.Equipped[appearance.KindShoes] = palette.ShoeOverrideID
	s.SetOverrideColor(appearance.KindShirt, appearance.RGB(70, 140, 200))
	s.SetOverrideColor(appearance.KindPants, appearance.RGB(60, 60, 80))
	s.SetOverrideColor(appearance.KindShoes, appearance.RGB(120, 40, 40))
	s.EquipAccessory(0, ID(appearance.KindAccessory, "Scarf"), appearance.RGB(200, 50, 50))
	s.NormalizeDayStart()
	return s
}

// BaseSource is the host base body source rectangle.
func BaseSource() appearance.Rect {
	return appearance.Rect{W: FrameW, H: FrameH}
}
