// Package state models the per-entity appearance state the host persists:
// equipped ids, override colors and animation counters.
package state

import (
	"fmt"

	"github.com/Faultbox/wardrobe/pkg/appearance"
)

// DefaultAccessorySlots is the number of accessory slots every entity carries
// after normalization.
const DefaultAccessorySlots = 3

// MaxAccessorySlots bounds the accessory slot list, both when equipping and
// when reading a persisted slot count.
const MaxAccessorySlots = 64

// AnimationType is the governing animation state recorded with the counters.
// A change of type resets the counters.
type AnimationType uint8

const (
	TypeUnknown AnimationType = iota
	TypeIdle
	TypeLooping
	TypeStatic
	TypeSyncedToMovement
)

var animationTypeNames = [...]string{"Unknown", "Idle", "Looping", "Static", "SyncedToMovement"}

func (t AnimationType) String() string {
	if int(t) < len(animationTypeNames) {
		return animationTypeNames[t]
	}
	return fmt.Sprintf("AnimationType(%d)", uint8(t))
}

// ParseAnimationType parses a name written by String.
func ParseAnimationType(s string) (AnimationType, bool) {
	for i, name := range animationTypeNames {
		if name == s {
			return AnimationType(i), true
		}
	}
	return TypeUnknown, false
}

// AnimationState is the persisted frame counter for one body part.
type AnimationState struct {
	Iterator        int
	StartingIndex   int
	FrameDurationMs int
	ElapsedMs       int
	Direction       appearance.Direction
	Type            AnimationType
}

// ColorOverride is a persisted color that may be absent.
type ColorOverride struct {
	Color appearance.Color
	Set   bool
}

// AccessorySlot is one equipped accessory.
type AccessorySlot struct {
	ID        string
	Color     ColorOverride
	Animation AnimationState
}

// EntityAppearanceState is everything the compositor reads and writes for a
// single entity.
type EntityAppearanceState struct {
	EntityID string
	// HairColor is the host's native hairstyle color, the default for every
	// unset override.
	HairColor appearance.Color
	Facing    appearance.Direction

	// Equipped and Colors are indexed by kind. The accessory entries are
	// unused; accessories live in Accessories.
	Equipped    [appearance.KindCount]string
	Colors      [appearance.KindCount]ColorOverride
	Animations  [appearance.KindCount]AnimationState
	Accessories []AccessorySlot

	// LastTick is the id of the last world tick that advanced animations.
	LastTick uint64
}

// New creates a state with nothing equipped.
func New(entityID string, hairColor appearance.Color) *EntityAppearanceState {
	return &EntityAppearanceState{
		EntityID:  entityID,
		HairColor: hairColor,
		Facing:    appearance.Front,
	}
}

// EquippedID returns the id equipped for a non-accessory kind.
func (s *EntityAppearanceState) EquippedID(kind appearance.Kind) string {
	if !kind.Valid() || kind == appearance.KindAccessory {
		return ""
	}
	return s.Equipped[kind]
}

// Equip sets the id for a non-accessory kind. Use EquipAccessory for accessories.
func (s *EntityAppearanceState) Equip(kind appearance.Kind, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("equip: invalid kind %d", kind)
	}
	if kind == appearance.KindAccessory {
		return fmt.Errorf("equip: accessories are equipped by slot")
	}
	s.Equipped[kind] = id
	return nil
}

// EquipAccessory places id in slot, growing the slot list as needed.
func (s *EntityAppearanceState) EquipAccessory(slot int, id string, c appearance.Color) error {
	if slot < 0 || slot >= MaxAccessorySlots {
		return fmt.Errorf("equip accessory: slot %d outside 0-%d", slot, MaxAccessorySlots-1)
	}
	for len(s.Accessories) <= slot {
		s.Accessories = append(s.Accessories, AccessorySlot{ID: appearance.NoneID})
	}
	s.Accessories[slot].ID = id
	s.Accessories[slot].Color = ColorOverride{Color: c, Set: true}
	return nil
}

// ActiveAccessories returns the indices of slots holding an accessory.
func (s *EntityAppearanceState) ActiveAccessories() []int {
	var out []int
	for i, a := range s.Accessories {
		if !appearance.IsUnset(a.ID) {
			out = append(out, i)
		}
	}
	return out
}

// OverrideColor returns the stored override for kind, defaulting to the hair color.
func (s *EntityAppearanceState) OverrideColor(kind appearance.Kind) appearance.Color {
	if kind.Valid() && s.Colors[kind].Set {
		return s.Colors[kind].Color
	}
	return s.HairColor
}

// SetOverrideColor stores an override color for kind.
func (s *EntityAppearanceState) SetOverrideColor(kind appearance.Kind, c appearance.Color) {
	if kind.Valid() {
		s.Colors[kind] = ColorOverride{Color: c, Set: true}
	}
}

// AccessoryColor returns the color of an accessory slot, defaulting to the hair color.
func (s *EntityAppearanceState) AccessoryColor(slot int) appearance.Color {
	if slot >= 0 && slot < len(s.Accessories) && s.Accessories[slot].Color.Set {
		return s.Accessories[slot].Color.Color
	}
	return s.HairColor
}

// Animation returns the counters for kind, or for the accessory in slot.
func (s *EntityAppearanceState) Animation(kind appearance.Kind, slot int) *AnimationState {
	if kind == appearance.KindAccessory {
		if slot < 0 || slot >= len(s.Accessories) {
			return nil
		}
		return &s.Accessories[slot].Animation
	}
	if !kind.Valid() {
		return nil
	}
	return &s.Animations[kind]
}

// NormalizeDayStart replaces every absent id with the explicit NoneID
// sentinel and pads accessory slots to DefaultAccessorySlots.
func (s *EntityAppearanceState) NormalizeDayStart() {
	for k := appearance.Kind(0); k < appearance.KindCount; k++ {
		if k == appearance.KindAccessory || k == appearance.KindBody {
			continue
		}
		if s.Equipped[k] == "" {
			s.Equipped[k] = appearance.NoneID
		}
	}
	for len(s.Accessories) < DefaultAccessorySlots {
		s.Accessories = append(s.Accessories, AccessorySlot{})
	}
	for i := range s.Accessories {
		if s.Accessories[i].ID == "" {
			s.Accessories[i].ID = appearance.NoneID
		}
	}
}

// OnSaveLoaded seeds the accessory and hat colors from the hair color when a
// save carries none.
func (s *EntityAppearanceState) OnSaveLoaded() {
	if !s.Colors[appearance.KindHat].Set {
		s.SetOverrideColor(appearance.KindHat, s.HairColor)
	}
	for i := range s.Accessories {
		if !s.Accessories[i].Color.Set {
			s.Accessories[i].Color = ColorOverride{Color: s.HairColor, Set: true}
		}
	}
}

// Clone returns a deep copy.
func (s *EntityAppearanceState) Clone() *EntityAppearanceState {
	c := *s
	c.Accessories = append([]AccessorySlot(nil), s.Accessories...)
	return &c
}
