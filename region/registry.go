package region

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/cursor"
	"github.com/wippyai/burst/errors"
)

// Registry is a fixed table of burst.RegionMax region slots. A slot is either
// unbound or bound to a region by Init. Binding is meant to happen once at
// startup by a single writer; rebinding a slot replaces its region silently.
type Registry struct {
	slots  [burst.RegionMax]*Region
	logger *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used for binding events.
func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(g *Registry) {
		g.logger = l
	}
}

// NewRegistry returns a registry with every slot unbound.
func NewRegistry(opts ...RegistryOption) *Registry {
	g := &Registry{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process registry used by allocators that do not carry a
// region of their own.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Init binds slot index of the default registry.
func Init(mem burst.Bus, capacity uint64, index burst.RegionID, opts ...Option) error {
	return Default().Init(mem, capacity, index, opts...)
}

// SlotName returns the label of a registry slot.
func SlotName(index burst.RegionID) string {
	return fmt.Sprintf("region %d", index)
}

// Init binds slot index to capacity units of mem, replacing any previous binding.
func (g *Registry) Init(mem burst.Bus, capacity uint64, index burst.RegionID, opts ...Option) error {
	if index >= burst.RegionMax {
		return errors.InvalidInput(errors.PhaseBind,
			fmt.Sprintf("region index %d out of range (max %d)", index, burst.RegionMax-1))
	}
	if mem == nil || capacity == 0 {
		return errors.InvalidRegion(SlotName(index), "slot requires storage and a non-zero capacity")
	}

	opts = append([]Option{WithName(SlotName(index))}, opts...)
	r, err := New(mem, capacity, opts...)
	if err != nil {
		return err
	}

	if g.slots[index] != nil {
		g.log().Debug("rebinding region slot",
			zap.Uint8("index", uint8(index)),
			zap.Uint64("previous_id", g.slots[index].ID()))
	}
	g.slots[index] = r
	g.log().Debug("region slot bound",
		zap.Uint8("index", uint8(index)),
		zap.Uint64("capacity", capacity),
		zap.Uint64("unit", r.Unit()))
	return nil
}

// Put places r in slot index as is, replacing any binding. A nil r unbinds
// the slot. It is used to restore a slot saved with Region.
func (g *Registry) Put(index burst.RegionID, r *Region) error {
	if index >= burst.RegionMax {
		return errors.InvalidInput(errors.PhaseBind,
			fmt.Sprintf("region index %d out of range (max %d)", index, burst.RegionMax-1))
	}
	if r == nil {
		g.Unbind(index)
		return nil
	}
	g.slots[index] = r
	g.log().Debug("region slot restored",
		zap.Uint8("index", uint8(index)),
		zap.Uint64("id", r.ID()))
	return nil
}

// Unbind returns slot index to the unbound state.
func (g *Registry) Unbind(index burst.RegionID) {
	if index >= burst.RegionMax {
		return
	}
	if g.slots[index] != nil {
		g.log().Debug("region slot unbound", zap.Uint8("index", uint8(index)))
	}
	g.slots[index] = nil
}

// Bound reports whether slot index holds a region.
func (g *Registry) Bound(index burst.RegionID) bool {
	return index < burst.RegionMax && g.slots[index] != nil
}

// Region returns the region bound to slot index.
func (g *Registry) Region(index burst.RegionID) (*Region, error) {
	if index >= burst.RegionMax {
		return nil, errors.InvalidInput(errors.PhaseAllocate,
			fmt.Sprintf("region index %d out of range (max %d)", index, burst.RegionMax-1))
	}
	r := g.slots[index]
	if r == nil {
		return nil, errors.Unbound(errors.PhaseAllocate, SlotName(index))
	}
	return r, nil
}

// Each calls fn for every bound slot in index order.
func (g *Registry) Each(fn func(burst.RegionID, *Region) bool) {
	for i, r := range g.slots {
		if r == nil {
			continue
		}
		if !fn(burst.RegionID(i), r) {
			return
		}
	}
}

func (g *Registry) log() *zap.Logger {
	if g.logger != nil {
		return g.logger
	}
	return Logger()
}

// AllocateIn allocates n elements of T from slot index.
func AllocateIn[T burst.Integer](g *Registry, n int, index burst.RegionID) (cursor.Cursor[T], error) {
	r, err := g.Region(index)
	if err != nil {
		return cursor.Cursor[T]{}, err
	}
	return Allocate[T](r, n)
}

// DeallocateIn releases a cursor obtained from slot index.
func DeallocateIn[T burst.Integer](g *Registry, c cursor.Cursor[T], index burst.RegionID) error {
	r, err := g.Region(index)
	if err != nil {
		return err
	}
	Deallocate(r, c)
	return nil
}
