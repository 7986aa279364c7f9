// Package appearance defines the data model shared by the compositing layers:
// body-part kinds, facing directions, colors, directional models and packs.
package appearance

import (
	"fmt"
	"strings"
)

// Kind is the body-part category a model or layer belongs to.
type Kind uint8

const (
	KindBody Kind = iota
	KindPants
	KindShirt
	KindSleeves
	KindShoes
	KindAccessory
	KindHair
	KindHat

	KindCount // always last
)

// ColorSource selects where a kind's base (un-overridden) color comes from.
type ColorSource uint8

const (
	// ColorFromOverride reads the persisted per-kind override color and falls
	// back to the entity's hair color when none is stored.
	ColorFromOverride ColorSource = iota
	// ColorFromHair always uses the entity's native hair color.
	ColorFromHair
	// ColorFromSlot uses the color stored with the equipped accessory slot.
	ColorFromSlot
	// ColorNone draws without tint.
	ColorNone
)

// Policy is the per-kind behavior table entry.
type Policy struct {
	Name string
	// Precedence orders kinds when no layering hint applies. Lower draws first.
	Precedence int
	Color      ColorSource
	// Animated kinds keep persisted animation counters.
	Animated bool
}

// precedenceStep leaves room for hints that slot a layer between two kinds.
const precedenceStep = 100

var policies = [KindCount]Policy{
	KindBody:      {Name: "Body", Precedence: 0 * precedenceStep, Color: ColorNone},
	KindPants:     {Name: "Pants", Precedence: 1 * precedenceStep, Color: ColorFromOverride, Animated: true},
	KindShirt:     {Name: "Shirt", Precedence: 2 * precedenceStep, Color: ColorFromOverride, Animated: true},
	KindSleeves:   {Name: "Sleeves", Precedence: 2*precedenceStep + precedenceStep/2, Color: ColorFromOverride, Animated: true},
	KindShoes:     {Name: "Shoes", Precedence: 3 * precedenceStep, Color: ColorFromOverride, Animated: true},
	KindAccessory: {Name: "Accessory", Precedence: 4 * precedenceStep, Color: ColorFromSlot, Animated: true},
	KindHair:      {Name: "Hair", Precedence: 5 * precedenceStep, Color: ColorFromHair, Animated: true},
	KindHat:       {Name: "Hat", Precedence: 6 * precedenceStep, Color: ColorFromOverride, Animated: true},
}

// Policy returns the behavior table entry for k.
func (k Kind) Policy() Policy {
	if k >= KindCount {
		return Policy{Name: "Unknown", Precedence: 7 * precedenceStep, Color: ColorNone}
	}
	return policies[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k < KindCount
}

// String returns the kind name used in pack ids.
func (k Kind) String() string {
	return k.Policy().Name
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for k := Kind(0); k < KindCount; k++ {
		if strings.EqualFold(policies[k].Name, s) {
			return k, nil
		}
	}
	return KindCount, fmt.Errorf("unknown appearance kind %q", s)
}

// Kinds returns all declared kinds in precedence order.
func Kinds() []Kind {
	out := make([]Kind, 0, KindCount)
	for k := Kind(0); k < KindCount; k++ {
		out = append(out, k)
	}
	return out
}
