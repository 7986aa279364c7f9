// Package registry holds the loaded appearance packs, keyed by composite id.
//
// Readers work against immutable snapshots; every mutation builds a new
// snapshot and publishes it with a single atomic store, so a frame never
// observes a half-populated registry.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/wardrobe/internal/logger"
	"github.com/Faultbox/wardrobe/pkg/appearance"
)

// Snapshot is an immutable view of the registry.
type Snapshot struct {
	packs map[string]*appearance.Pack
}

var emptySnapshot = &Snapshot{packs: map[string]*appearance.Pack{}}

// Lookup returns the pack registered under id.
func (s *Snapshot) Lookup(id string) (*appearance.Pack, error) {
	if p, ok := s.packs[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// LookupKind returns the pack registered under id if it is of the given kind.
func (s *Snapshot) LookupKind(id string, kind appearance.Kind) (*appearance.Pack, error) {
	p, err := s.Lookup(id)
	if err != nil {
		return nil, err
	}
	if p.Kind != kind {
		return nil, fmt.Errorf("%w: %s is a %s, not a %s", ErrNotFound, id, p.Kind, kind)
	}
	return p, nil
}

// Len returns the number of registered packs.
func (s *Snapshot) Len() int {
	return len(s.packs)
}

// IDs returns the sorted ids of every pack of kind. Pass appearance.KindCount
// to list all kinds.
func (s *Snapshot) IDs(kind appearance.Kind) []string {
	ids := make([]string, 0, len(s.packs))
	for id, p := range s.packs {
		if kind == appearance.KindCount || p.Kind == kind {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Registry is the appearance model registry.
type Registry struct {
	mu  sync.Mutex // serialises writers
	cur atomic.Pointer[Snapshot]
	log *zap.Logger
}

// New creates an empty registry.
func New(log *zap.Logger) *Registry {
	r := &Registry{log: logger.OrNop(log).Named("registry")}
	r.cur.Store(emptySnapshot)
	return r
}

// Snapshot returns the current view. Hold on to it for the duration of a
// frame to get consistent lookups.
func (r *Registry) Snapshot() *Snapshot {
	return r.cur.Load()
}

// Lookup returns the pack registered under id in the current snapshot.
func (r *Registry) Lookup(id string) (*appearance.Pack, error) {
	return r.Snapshot().Lookup(id)
}

// LookupKind returns the pack registered under id if it is of kind.
func (r *Registry) LookupKind(id string, kind appearance.Kind) (*appearance.Pack, error) {
	return r.Snapshot().LookupKind(id, kind)
}

// Len returns the number of registered packs.
func (r *Registry) Len() int {
	return r.Snapshot().Len()
}

// Validate checks that a pack is complete enough to register.
func Validate(p *appearance.Pack) error {
	if p == nil {
		return &ValidationError{Reason: "nil pack"}
	}
	id := p.ID()
	switch {
	case p.Name == "":
		return &ValidationError{ID: id, Reason: "missing the Name property"}
	case !p.Kind.Valid():
		return &ValidationError{ID: id, Reason: "unknown appearance kind"}
	case !p.HasModels():
		return &ValidationError{ID: id, Reason: "no directional models given (Back, Right, Front, Left)"}
	case p.Texture == nil:
		return &ValidationError{ID: id, Reason: "no associated texture"}
	}
	return nil
}

// Register adds one pack. It fails with a *ValidationError or a
// *DuplicateIDError and leaves the registry unchanged on failure.
func (r *Registry) Register(p *appearance.Pack) error {
	if err := Validate(p); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.cur.Load()
	id := p.ID()
	if _, exists := cur.packs[id]; exists {
		return &DuplicateIDError{ID: id}
	}

	next := make(map[string]*appearance.Pack, len(cur.packs)+1)
	for k, v := range cur.packs {
		next[k] = v
	}
	p.Bind()
	next[id] = p
	r.cur.Store(&Snapshot{packs: next})

	r.log.Debug("registered appearance pack", zap.String("pack", p.String()))
	return nil
}

// Reset discards every entry in one step.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cur.Store(emptySnapshot)
}

// LoadReport summarises a batch load.
type LoadReport struct {
	Loaded   int
	Rejected []error
}

// Load replaces the whole registry with packs. Offending packs are logged and
// skipped; the rest are published together once the new set is complete.
func (r *Registry) Load(packs []*appearance.Pack) LoadReport {
	var report LoadReport
	next := make(map[string]*appearance.Pack, len(packs))

	for _, p := range packs {
		if err := Validate(p); err != nil {
			r.reject(p, err, &report)
			continue
		}
		id := p.ID()
		if _, exists := next[id]; exists {
			r.reject(p, &DuplicateIDError{ID: id}, &report)
			continue
		}
		p.Bind()
		next[id] = p
		report.Loaded++
	}

	r.mu.Lock()
	r.cur.Store(&Snapshot{packs: next})
	r.mu.Unlock()

	r.log.Info("appearance packs loaded",
		zap.Int("loaded", report.Loaded),
		zap.Int("rejected", len(report.Rejected)))
	return report
}

func (r *Registry) reject(p *appearance.Pack, err error, report *LoadReport) {
	report.Rejected = append(report.Rejected, err)
	fields := []zap.Field{zap.Error(err)}
	if p != nil {
		fields = append(fields, zap.String("owner", p.Owner), zap.String("pack", p.PackName))
	}
	r.log.Warn("unable to add appearance pack", fields...)
}
