package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
	"golang.org/x/term"

	burst "github.com/wippyai/burst"
	"github.com/wippyai/burst/internal/scenario"
	"github.com/wippyai/burst/layout"
	"github.com/wippyai/burst/region"
)

func main() {
	var (
		layoutFile  = flag.String("layout", "", "Path to region layout YAML (default: one 1KiB region)")
		scenarioArg = flag.String("scenario", "heap-sort", "Scenario to run ("+strings.Join(scenario.Names(), ", ")+")")
		slot        = flag.Uint("region", 0, "Registry slot the scenario runs against")
		dump        = flag.Bool("dump", false, "Print a hex dump of every bound region")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if *slot >= uint(burst.RegionMax) {
		fmt.Fprintf(os.Stderr, "Usage: burstsim [-layout file.yaml] [-scenario name] [-region 0..%d] [-dump] [-i] [-v]\n", burst.RegionMax-1)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer logger.Sync() //nolint:errcheck
	region.SetLogger(logger)

	cfg := options{
		layoutFile: *layoutFile,
		scenario:   *scenarioArg,
		index:      burst.RegionID(*slot),
		dump:       *dump,
		logger:     logger,
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	logger     *zap.Logger
	layoutFile string
	scenario   string
	index      burst.RegionID
	dump       bool
}

// session is a bound registry plus the layout that produced it.
type session struct {
	registry *region.Registry
	close    func(context.Context) error
	layout   *layout.Layout
}

func openSession(ctx context.Context, cfg options) (*session, error) {
	l := layout.Default()
	if cfg.layoutFile != "" {
		var err error
		l, err = layout.Load(cfg.layoutFile)
		if err != nil {
			return nil, err
		}
	}

	g := region.NewRegistry(region.WithRegistryLogger(cfg.logger))
	b, err := l.Bind(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("bind layout: %w", err)
	}
	return &session{registry: g, close: b.Close, layout: l}, nil
}

// backing returns the storage kind bound to slot index.
func (s *session) backing(index burst.RegionID) layout.Backing {
	for _, r := range s.layout.Regions {
		if burst.RegionID(r.Index) == index {
			return r.Backing
		}
	}
	return ""
}

func (s *session) Close(ctx context.Context) error {
	return s.close(ctx)
}

// release closes the session and folds a close failure into err.
func (s *session) release(ctx context.Context, err error) error {
	if cerr := s.Close(ctx); cerr != nil {
		return stderrors.Join(err, fmt.Errorf("release regions: %w", cerr))
	}
	return err
}

func (s *session) runScenario(cfg options) (scenario.Result, error) {
	sc, ok := scenario.Lookup(cfg.scenario)
	if !ok {
		return scenario.Result{}, fmt.Errorf("unknown scenario %q (have %s)", cfg.scenario, strings.Join(scenario.Names(), ", "))
	}
	return sc.Run(scenario.Env{
		Registry: s.registry,
		Index:    cfg.index,
		Logger:   cfg.logger,
	})
}

func run(cfg options) (err error) {
	ctx := context.Background()

	s, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { err = s.release(ctx, err) }()

	res, err := s.runScenario(cfg)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", cfg.scenario, err)
	}

	fmt.Printf("Scenario: %s\n", cfg.scenario)
	fmt.Printf("Values:")
	for _, v := range res.Values {
		fmt.Printf(" %d", v)
	}
	fmt.Println()

	fmt.Printf("\nRegions:\n")
	var failed error
	s.registry.Each(func(index burst.RegionID, r *region.Region) bool {
		digest, err := r.Digest()
		if err != nil {
			failed = err
			return false
		}
		st := r.Stats()
		fmt.Printf("  [%d] %s  backing=%s  unit=%d  peak=%s  allocs=%d  digest=%016x\n",
			index, r, s.backing(index), r.Unit(), humanize.IBytes(st.HighWater*r.Unit()), st.Allocations, digest)
		if cfg.dump {
			fmt.Print(indent(hexDump(r, 0, r.Bytes()), "      "))
		}
		return true
	})
	return failed
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
	}
	return b.String()
}
