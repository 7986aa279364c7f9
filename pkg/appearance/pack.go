package appearance

import (
	"fmt"
	"strings"

	"github.com/Faultbox/wardrobe/pkg/sprite"
)

// Pack is a user-authored appearance for one body part, with up to four
// directional models sharing a texture.
type Pack struct {
	Owner    string
	Author   string
	PackName string
	Name     string
	Kind     Kind

	// Models is indexed by Direction.
	Models  [DirectionCount]*Model
	Texture *sprite.IndexedImage
}

// MakeID builds the composite owner/kind/name id.
func MakeID(owner string, kind Kind, name string) string {
	return strings.Join([]string{owner, kind.String(), name}, "/")
}

// ID returns the pack's composite id.
func (p *Pack) ID() string {
	return MakeID(p.Owner, p.Kind, p.Name)
}

// ModelFor returns the model for a facing direction, or nil.
func (p *Pack) ModelFor(d Direction) *Model {
	if p == nil || !d.Valid() {
		return nil
	}
	return p.Models[d]
}

// HasModels reports whether at least one directional model is set.
func (p *Pack) HasModels() bool {
	for _, m := range p.Models {
		if m != nil {
			return true
		}
	}
	return false
}

// Bind stamps each model with its owning pack, kind and direction. The
// registry calls it on insert; callers building packs by hand may call it too.
func (p *Pack) Bind() {
	for d, m := range p.Models {
		if m == nil {
			continue
		}
		m.pack = p
		m.Kind = p.Kind
		m.Direction = Direction(d)
	}
}

// String returns a one-line description for logs.
func (p *Pack) String() string {
	dirs := make([]string, 0, DirectionCount)
	for d, m := range p.Models {
		if m != nil {
			dirs = append(dirs, Direction(d).String())
		}
	}
	return fmt.Sprintf("%s [%s] by %s (%s)", p.ID(), p.PackName, p.Author, strings.Join(dirs, ","))
}
