// Package layer turns the active models and the host's base layers into a
// total draw order with normalized depths.
package layer

import (
	"sort"

	"github.com/Faultbox/wardrobe/pkg/appearance"
)

// DefaultDepthStep is the depth distance between consecutive layers.
const DefaultDepthStep = 1e-5

// BaseLayer is a layer the host draws itself, such as skin or eyes.
type BaseLayer struct {
	Name     string
	Kind     appearance.Kind
	SubOrder int
	// Legs marks layers hidden when a model hides the legs.
	Legs bool
}

// Data is one ordered layer: either a host base layer or a model layer.
type Data struct {
	Base *BaseLayer
	Meta appearance.Metadata

	Kind     appearance.Kind
	Priority int
	Rank     int
	Depth    float32
}

// IsBase reports whether d is a host base layer.
func (d *Data) IsBase() bool {
	return d.Base != nil
}

// Name returns the base layer name or the model's pack id.
func (d *Data) Name() string {
	if d.Base != nil {
		return d.Base.Name
	}
	if p := d.Meta.Model.Pack(); p != nil {
		return p.ID()
	}
	return d.Kind.String()
}

// Input is everything the orderer needs for one entity draw.
type Input struct {
	Models    []appearance.Metadata
	Base      []BaseLayer
	Direction appearance.Direction
	BaseDepth float32
}

// Orderer assigns draw order and depth.
type Orderer struct {
	step float32
}

// NewOrderer creates an orderer. A non-positive step selects DefaultDepthStep.
func NewOrderer(step float32) *Orderer {
	if step <= 0 {
		step = DefaultDepthStep
	}
	return &Orderer{step: step}
}

// Priority returns the effective precedence of a model facing dir. An
// explicit depth replaces the kind precedence; placement hints move the
// layer next to the body, hair or hat; per-direction adjustments add on top.
func Priority(m *appearance.Model, dir appearance.Direction) int {
	h := m.Layering
	var p int
	switch {
	case h.Depth != nil:
		p = *h.Depth
	case h.DrawBehindBody:
		p = appearance.KindBody.Policy().Precedence - 1
	case h.DrawBehindHair:
		p = appearance.KindHair.Policy().Precedence - 1
	case h.DrawAboveHat:
		p = appearance.KindHat.Policy().Precedence + 1
	default:
		p = m.Kind.Policy().Precedence
	}
	return p + h.DirectionDepth[dir]
}

// Order returns the layers back to front. The result depends only on the
// input contents, never on their order. Nil models contribute nothing and
// leave no gap in depth.
func (o *Orderer) Order(in Input) []Data {
	out := make([]Data, 0, len(in.Models)+len(in.Base))
	for i := range in.Base {
		b := &in.Base[i]
		out = append(out, Data{
			Base:     b,
			Kind:     b.Kind,
			Priority: b.Kind.Policy().Precedence,
		})
	}
	for _, md := range in.Models {
		if md.Model == nil {
			continue
		}
		out = append(out, Data{
			Meta:     md,
			Kind:     md.Model.Kind,
			Priority: Priority(md.Model, in.Direction),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})

	for i := range out {
		out[i].Rank = i
		out[i].Depth = in.BaseDepth + float32(i)*o.step
	}
	return out
}

func less(a, b *Data) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if pa, pb := a.Kind.Policy().Precedence, b.Kind.Policy().Precedence; pa != pb {
		return pa < pb
	}
	// host layers under models of the same kind
	if a.IsBase() != b.IsBase() {
		return a.IsBase()
	}
	if sa, sb := subOrder(a), subOrder(b); sa != sb {
		return sa < sb
	}
	if a.Meta.Slot != b.Meta.Slot {
		return a.Meta.Slot < b.Meta.Slot
	}
	return a.Name() < b.Name()
}

func subOrder(d *Data) int {
	if d.Base != nil {
		return d.Base.SubOrder
	}
	return d.Meta.Model.Layering.SubOrder
}
