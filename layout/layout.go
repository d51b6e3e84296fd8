// Package layout describes region bindings in YAML and applies them to a
// registry.
//
//	regions:
//	  - index: 0
//	    name: main
//	    size: 1KiB
//	    unit: 4
//	    backing: bytes
//	  - index: 1
//	    size: 64KiB
//	    backing: wasm
//	  - index: 2
//	    size: 4KiB
//	    backing: mmap
//	    path: /dev/shm/burst-region2
//	  - index: 3
//	    size: 32KiB
//	    backing: wasm
//	    shared: guest
//	  - index: 4
//	    size: 32KiB
//	    offset: 32KiB
//	    backing: wasm
//	    shared: guest
//
// Sizes accept any unit understood by go-humanize ("4096", "4KiB", "1MB").
//
// Regions naming the same shared backing split one bus: it is created once,
// large enough for every member, and each region sees only its
// [offset, offset+size) window. Members must agree on backing and path and
// must not overlap.
package layout

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/errors"
)

// Backing selects the storage behind a region.
type Backing string

const (
	BackingBytes Backing = "bytes"
	BackingMmap  Backing = "mmap"
	BackingWasm  Backing = "wasm"
)

// Layout is a set of region bindings.
type Layout struct {
	Regions []Region `yaml:"regions"`
}

// Region describes one registry slot.
type Region struct {
	Name    string  `yaml:"name"`
	Size    Size    `yaml:"size"`
	Backing Backing `yaml:"backing"`
	Path    string  `yaml:"path"`
	Shared  string  `yaml:"shared,omitempty"`
	Offset  Size    `yaml:"offset,omitempty"`
	Index   uint8   `yaml:"index"`
	Unit    uint64  `yaml:"unit"`
}

// Size is a byte count written in human-readable form.
type Size uint64

// UnmarshalYAML accepts integers and humanized strings.
func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	n, err := humanize.ParseBytes(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid size %q: %w", node.Line, node.Value, err)
	}
	*s = Size(n)
	return nil
}

// MarshalYAML writes the size in IEC units.
func (s Size) MarshalYAML() (any, error) {
	return humanize.IBytes(uint64(s)), nil
}

// String formats the size in IEC units.
func (s Size) String() string {
	return humanize.IBytes(uint64(s))
}

// Default returns a layout with a single 1 KiB byte-slice region in slot 0.
func Default() *Layout {
	return &Layout{Regions: []Region{{
		Index:   uint8(burst.Region0),
		Name:    "main",
		Size:    1024,
		Unit:    1,
		Backing: BackingBytes,
	}}}
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, errors.Config("parse layout", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load reads and parses the layout file at path.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("read layout "+path, err)
	}
	return Parse(data)
}

// Marshal encodes the layout as YAML.
func (l *Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}

// Validate fills defaults and checks every region.
func (l *Layout) Validate() error {
	if len(l.Regions) == 0 {
		return errors.Config("layout has no regions", nil)
	}
	seen := make(map[uint8]bool, len(l.Regions))
	for i := range l.Regions {
		r := &l.Regions[i]
		if r.Unit == 0 {
			r.Unit = 1
		}
		if r.Backing == "" {
			r.Backing = BackingBytes
		}
		if r.Name == "" {
			r.Name = fmt.Sprintf("region%d", r.Index)
		}

		switch {
		case burst.RegionID(r.Index) >= burst.RegionMax:
			return errors.Config(fmt.Sprintf("%s: index %d out of range (max %d)", r.Name, r.Index, burst.RegionMax-1), nil)
		case seen[r.Index]:
			return errors.Config(fmt.Sprintf("%s: duplicate index %d", r.Name, r.Index), nil)
		case r.Size == 0:
			return errors.Config(fmt.Sprintf("%s: size must be positive", r.Name), nil)
		case uint64(r.Size)%r.Unit != 0:
			return errors.Config(fmt.Sprintf("%s: size %s is not a multiple of unit %d", r.Name, r.Size, r.Unit), nil)
		}
		seen[r.Index] = true

		if r.Shared == "" && r.Offset != 0 {
			return errors.Config(fmt.Sprintf("%s: offset requires a shared backing", r.Name), nil)
		}
		if uint64(r.Offset) > math.MaxUint64-uint64(r.Size) {
			return errors.Config(fmt.Sprintf("%s: offset %s plus size overflows", r.Name, r.Offset), nil)
		}

		switch r.Backing {
		case BackingBytes, BackingWasm:
		case BackingMmap:
			if r.Path == "" {
				return errors.Config(fmt.Sprintf("%s: mmap backing requires a path", r.Name), nil)
			}
		default:
			return errors.Config(fmt.Sprintf("%s: unknown backing %q", r.Name, r.Backing), nil)
		}
	}
	if err := l.validateShared(); err != nil {
		return err
	}
	for _, r := range l.Regions {
		if r.Backing == BackingBytes && l.extent(r) > math.MaxInt {
			return errors.Config(fmt.Sprintf("%s: %s does not fit a byte slice", r.Name, Size(l.extent(r))), nil)
		}
	}
	sort.Slice(l.Regions, func(i, j int) bool { return l.Regions[i].Index < l.Regions[j].Index })
	return nil
}

// validateShared checks that members of each shared backing agree on the
// storage and occupy disjoint spans.
func (l *Layout) validateShared() error {
	groups := make(map[string][]Region)
	for _, r := range l.Regions {
		if r.Shared != "" {
			groups[r.Shared] = append(groups[r.Shared], r)
		}
	}
	for name, members := range groups {
		first := members[0]
		for _, r := range members[1:] {
			if r.Backing != first.Backing || r.Path != first.Path {
				return errors.Config(fmt.Sprintf("shared backing %q: %s and %s use different storage", name, first.Name, r.Name), nil)
			}
		}
		sort.Slice(members, func(i, j int) bool { return members[i].Offset < members[j].Offset })
		for i := 1; i < len(members); i++ {
			prev, cur := members[i-1], members[i]
			if uint64(prev.Offset)+uint64(prev.Size) > uint64(cur.Offset) {
				return errors.Config(fmt.Sprintf("shared backing %q: %s overlaps %s", name, prev.Name, cur.Name), nil)
			}
		}
	}
	return nil
}

// extent returns the size of the bus backing r: its own size, or the end of
// the furthest member of its shared backing.
func (l *Layout) extent(r Region) uint64 {
	if r.Shared == "" {
		return uint64(r.Size)
	}
	var end uint64
	for _, m := range l.Regions {
		if m.Shared == r.Shared {
			end = max(end, uint64(m.Offset)+uint64(m.Size))
		}
	}
	return end
}

// Capacity returns the region's capacity in units.
func (r Region) Capacity() uint64 {
	return uint64(r.Size) / r.Unit
}
