// Package scenario holds the simulation programs run by burstsim. Each one
// drives a registry slot the way a hardware test kernel would and reports the
// resulting element values.
package scenario

import (
	"sort"

	"go.uber.org/zap"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/alloc"
	"github.com/wippyai/burst/cursor"
	"github.com/wippyai/burst/region"
	"github.com/wippyai/burst/vector"
)

// Env is the state a scenario runs against.
type Env struct {
	Registry *region.Registry
	Logger   *zap.Logger
	Index    burst.RegionID
}

// Result is what a scenario leaves behind.
type Result struct {
	// Values are the elements the scenario produced, in storage order.
	Values []int32
	// Used is the slot's bump offset in units after the run.
	Used uint64
}

// Scenario is a named simulation program.
type Scenario struct {
	Run         func(Env) (Result, error)
	Name        string
	Description string
}

var scenarios = map[string]Scenario{
	"heap-sort": {
		Name:        "heap-sort",
		Description: "fill, copy, heap sort, swap, fill and rotate eight ints",
		Run:         runHeapSort,
	},
	"two-ranges": {
		Name:        "two-ranges",
		Description: "heap-sort followed by a second four-int allocation",
		Run:         runTwoRanges,
	},
	"vector": {
		Name:        "vector",
		Description: "edit a vector built from 0..7 and grow it",
		Run:         runVector,
	},
}

// Lookup returns the scenario with the given name.
func Lookup(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

// Names returns all scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e Env) log() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return zap.NewNop()
}

var heapSortInput = []int32{5, 2, 4, 9, 1, -1, 0, 12}

// sortRange runs the shared kernel over [first, first+8).
func sortRange(first cursor.Cursor[int32]) {
	last := first.Add(8)

	cursor.Fill(first, last, 24)
	cursor.CopyFrom(heapSortInput, first)

	cursor.MakeHeap(first, last)
	cursor.SortHeap(first, last)
	cursor.Swap(first.At(0), first.At(1))
	cursor.Fill(first.Add(2), first.Add(6), 23)
	cursor.Rotate(first, first.Add(2), last)
}

func runHeapSort(env Env) (Result, error) {
	r, err := env.Registry.Region(env.Index)
	if err != nil {
		return Result{}, err
	}
	a := alloc.ForRegion[int32](r)

	first, err := a.Allocate(8)
	if err != nil {
		return Result{}, err
	}
	sortRange(first)
	values := cursor.CopyTo(first, first.Add(8))
	a.Deallocate(first, 8)

	env.log().Debug("heap-sort done", zap.Int32s("values", values))
	return Result{Values: values, Used: r.Used()}, nil
}

func runTwoRanges(env Env) (Result, error) {
	a := alloc.ForSlot[int32](env.Registry, env.Index)

	first, err := a.Allocate(8)
	if err != nil {
		return Result{}, err
	}
	sortRange(first)

	second, err := a.Allocate(4)
	if err != nil {
		return Result{}, err
	}
	values := cursor.CopyTo(first, first.Add(8))
	values = append(values, cursor.CopyTo(second, second.Add(4))...)

	a.Deallocate(first, 8)
	a.Deallocate(second, 4)

	r, _ := env.Registry.Region(env.Index)
	env.log().Debug("two-ranges done", zap.Int32s("values", values))
	return Result{Values: values, Used: r.Used()}, nil
}

func runVector(env Env) (Result, error) {
	v, err := vector.From[int32](alloc.ForSlot[int32](env.Registry, env.Index),
		[]int32{0, 1, 2, 3, 4, 5, 6, 7})
	if err != nil {
		return Result{}, err
	}

	p, err := v.At(1)
	if err != nil {
		return Result{}, err
	}
	p.Set(2)
	v.Index(2).Set(v.Index(1).Get() + 1)
	v.Front().Set(1)
	v.Back().Set(8)

	if err := v.PushBack(9); err != nil {
		return Result{}, err
	}
	if err := v.ShrinkToFit(); err != nil {
		return Result{}, err
	}

	r, _ := env.Registry.Region(env.Index)
	values := v.Values()
	env.log().Debug("vector done",
		zap.Int32s("values", values),
		zap.Int("cap", v.Cap()))
	return Result{Values: values, Used: r.Used()}, nil
}
