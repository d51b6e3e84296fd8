package layout

import (
	"context"
	stderrors "errors"
	"fmt"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/bus"
	"github.com/wippyai/burst/errors"
	"github.com/wippyai/burst/region"
)

// Binding holds the buses created by Bind. Close releases them; the registry
// slots stay bound and must not be used afterwards.
type Binding struct {
	closers []func(context.Context) error
	buses   map[burst.RegionID]burst.Bus
}

// Bus returns the bus bound to slot index, or nil.
func (b *Binding) Bus(index burst.RegionID) burst.Bus {
	return b.buses[index]
}

// Close releases every bus, joining any errors.
func (b *Binding) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return stderrors.Join(errs...)
}

// Bind creates a bus for every region and binds it to the matching slot of g.
// On failure, slots touched so far get their previous binding back and buses
// created so far are released.
func (l *Layout) Bind(ctx context.Context, g *region.Registry, opts ...region.Option) (_ *Binding, err error) {
	type saved struct {
		prev  *region.Region
		index burst.RegionID
	}

	b := &Binding{buses: make(map[burst.RegionID]burst.Bus, len(l.Regions))}
	shared := make(map[string]burst.Bus)
	var restore []saved

	defer func() {
		if err == nil {
			return
		}
		for i := len(restore) - 1; i >= 0; i-- {
			_ = g.Put(restore[i].index, restore[i].prev)
		}
		_ = b.Close(ctx)
	}()

	for _, r := range l.Regions {
		var mem burst.Bus
		mem, err = b.open(ctx, l, r, shared)
		if err != nil {
			return nil, err
		}

		index := burst.RegionID(r.Index)
		prev, _ := g.Region(index)
		restore = append(restore, saved{prev: prev, index: index})

		ropts := append([]region.Option{region.WithUnit(r.Unit)}, opts...)
		ropts = append(ropts, region.WithName(r.Name))
		if err = g.Init(mem, r.Capacity(), index, ropts...); err != nil {
			return nil, err
		}
		b.buses[index] = mem
	}
	return b, nil
}

// open returns the bus for r. Members of a shared backing get a window onto a
// bus created on first use.
func (b *Binding) open(ctx context.Context, l *Layout, r Region, shared map[string]burst.Bus) (burst.Bus, error) {
	if r.Shared == "" {
		mem, closer, err := openBacking(ctx, r)
		if err != nil {
			return nil, err
		}
		b.track(closer)
		return mem, nil
	}

	mem, ok := shared[r.Shared]
	if !ok {
		whole := r
		whole.Name = r.Shared
		whole.Size = Size(l.extent(r))
		var closer func(context.Context) error
		var err error
		mem, closer, err = openBacking(ctx, whole)
		if err != nil {
			return nil, err
		}
		b.track(closer)
		shared[r.Shared] = mem
	}

	w, err := bus.NewWindow(mem, uint64(r.Offset), uint64(r.Size))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBind, errors.KindInvalidRegion, err,
			fmt.Sprintf("%s: window on %s", r.Name, r.Shared))
	}
	return w, nil
}

func (b *Binding) track(closer func(context.Context) error) {
	if closer != nil {
		b.closers = append(b.closers, closer)
	}
}

func openBacking(ctx context.Context, r Region) (burst.Bus, func(context.Context) error, error) {
	switch r.Backing {
	case BackingBytes:
		return bus.NewBytes(int(r.Size)), nil, nil

	case BackingMmap:
		mf, err := bus.Map(r.Path, int64(r.Size))
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseBind, errors.KindInvalidRegion, err,
				fmt.Sprintf("%s: map %s", r.Name, r.Path))
		}
		return mf, func(context.Context) error { return mf.Close() }, nil

	case BackingWasm:
		pages := (uint64(r.Size) + bus.PageSize - 1) / bus.PageSize
		if pages > bus.MaxPages {
			return nil, nil, errors.Config(fmt.Sprintf("%s: %s exceeds wasm linear memory", r.Name, r.Size), nil)
		}
		wm, err := bus.NewWasmMemory(ctx, uint32(pages))
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseBind, errors.KindInvalidRegion, err,
				fmt.Sprintf("%s: create wasm memory", r.Name))
		}
		return wm, wm.Close, nil
	}
	return nil, nil, errors.Config(fmt.Sprintf("%s: unknown backing %q", r.Name, r.Backing), nil)
}
