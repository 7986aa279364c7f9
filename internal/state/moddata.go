package state

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/wardrobe/pkg/appearance"
)

// Key prefix for every value this package writes into the host bag.
const keyPrefix = "wardrobe/"

// Host key/value bag key for the shared facing direction.
const keyFacing = keyPrefix + "facing"

// Host key/value bag key for the last advanced tick id.
const keyLastTick = keyPrefix + "last_tick"

// CorruptionError reports a persisted value that could not be parsed and was
// replaced with its default.
type CorruptionError struct {
	Key   string
	Value string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corrupt state value %q for key %s", e.Value, e.Key)
}

func kindKey(k appearance.Kind, field string) string {
	return keyPrefix + strings.ToLower(k.String()) + "/" + field
}

func accessoryKey(slot int, field string) string {
	return fmt.Sprintf("%saccessory/%d/%s", keyPrefix, slot, field)
}

// FromModData builds a typed state from the host bag. Absent keys take their
// defaults. Unparsable values are healed to defaults and reported; the
// returned state is always usable.
func FromModData(entityID string, hairColor appearance.Color, bag map[string]string) (*EntityAppearanceState, []error) {
	s := New(entityID, hairColor)
	r := bagReader{bag: bag}

	if v, ok := r.int(keyFacing); ok {
		s.Facing = appearance.DirectionFromInt(v)
		if int(s.Facing) != v {
			r.fail(keyFacing)
		}
	}
	if v, ok := bag[keyLastTick]; ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			r.fail(keyLastTick)
		} else {
			s.LastTick = n
		}
	}

	for k := appearance.Kind(0); k < appearance.KindCount; k++ {
		if k == appearance.KindAccessory {
			continue
		}
		if id, ok := bag[kindKey(k, "id")]; ok {
			s.Equipped[k] = id
		}
		s.Colors[k] = r.color(kindKey(k, "color"))
		if k.Policy().Animated {
			s.Animations[k] = r.animation(func(f string) string { return kindKey(k, "anim/"+f) })
		}
	}

	count, _ := r.int(keyPrefix + "accessory/count")
	switch {
	case count < 0:
		count = 0
		r.fail(keyPrefix + "accessory/count")
	case count > MaxAccessorySlots:
		count = MaxAccessorySlots
		r.fail(keyPrefix + "accessory/count")
	}
	for i := 0; i < count; i++ {
		slot := AccessorySlot{ID: bag[accessoryKey(i, "id")]}
		slot.Color = r.color(accessoryKey(i, "color"))
		slot.Animation = r.animation(func(f string) string { return accessoryKey(i, "anim/"+f) })
		s.Accessories = append(s.Accessories, slot)
	}

	return s, r.errs
}

// ToModData writes s back into the host bag format.
func (s *EntityAppearanceState) ToModData() map[string]string {
	bag := make(map[string]string)
	bag[keyFacing] = strconv.Itoa(int(s.Facing))
	bag[keyLastTick] = strconv.FormatUint(s.LastTick, 10)

	for k := appearance.Kind(0); k < appearance.KindCount; k++ {
		if k == appearance.KindAccessory {
			continue
		}
		if s.Equipped[k] != "" {
			bag[kindKey(k, "id")] = s.Equipped[k]
		}
		if s.Colors[k].Set {
			bag[kindKey(k, "color")] = strconv.FormatUint(uint64(s.Colors[k].Color.Packed()), 10)
		}
		if k.Policy().Animated {
			writeAnimation(bag, s.Animations[k], func(f string) string { return kindKey(k, "anim/"+f) })
		}
	}

	bag[keyPrefix+"accessory/count"] = strconv.Itoa(len(s.Accessories))
	for i, a := range s.Accessories {
		bag[accessoryKey(i, "id")] = a.ID
		if a.Color.Set {
			bag[accessoryKey(i, "color")] = strconv.FormatUint(uint64(a.Color.Color.Packed()), 10)
		}
		writeAnimation(bag, a.Animation, func(f string) string { return accessoryKey(i, "anim/"+f) })
	}
	return bag
}

func writeAnimation(bag map[string]string, a AnimationState, key func(string) string) {
	bag[key("iterator")] = strconv.Itoa(a.Iterator)
	bag[key("starting_index")] = strconv.Itoa(a.StartingIndex)
	bag[key("frame_duration")] = strconv.Itoa(a.FrameDurationMs)
	bag[key("elapsed")] = strconv.Itoa(a.ElapsedMs)
	bag[key("direction")] = strconv.Itoa(int(a.Direction))
	bag[key("type")] = a.Type.String()
}

type bagReader struct {
	bag  map[string]string
	errs []error
}

func (r *bagReader) fail(key string) {
	r.errs = append(r.errs, &CorruptionError{Key: key, Value: r.bag[key]})
}

// int returns the parsed value and whether the key was present and valid.
func (r *bagReader) int(key string) (int, bool) {
	v, ok := r.bag[key]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		r.fail(key)
		return 0, false
	}
	return n, true
}

// counter reads a non-negative counter, healing negatives to zero.
func (r *bagReader) counter(key string) int {
	n, ok := r.int(key)
	if !ok {
		return 0
	}
	if n < 0 {
		r.fail(key)
		return 0
	}
	return n
}

func (r *bagReader) color(key string) ColorOverride {
	v, ok := r.bag[key]
	if !ok {
		return ColorOverride{}
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		r.fail(key)
		return ColorOverride{}
	}
	return ColorOverride{Color: appearance.FromPacked(uint32(n)), Set: true}
}

func (r *bagReader) animation(key func(string) string) AnimationState {
	a := AnimationState{
		Iterator:        r.counter(key("iterator")),
		StartingIndex:   r.counter(key("starting_index")),
		FrameDurationMs: r.counter(key("frame_duration")),
		ElapsedMs:       r.counter(key("elapsed")),
	}
	if d, ok := r.int(key("direction")); ok {
		a.Direction = appearance.DirectionFromInt(d)
	}
	if v, ok := r.bag[key("type")]; ok {
		t, ok := ParseAnimationType(v)
		if !ok {
			r.fail(key("type"))
		}
		a.Type = t
	}
	return a
}
