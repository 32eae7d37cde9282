// Package scenario loads gardens from YAML descriptions or binary snapshots.
//
// A YAML scenario either draws the garden with layout runes:
//
//	name: detour
//	layout: |
//	  H....
//	  .A#..
//	  ..#B.
//
// or asks for a random one:
//
//	name: noisy
//	random: {rows: 20, cols: 30, seed: 7, obstacle_percent: 25}
//
// Optional start and target entries override the waypoint cells.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lawnmower/garden"
	"github.com/katalvlaran/lawnmower/render"
	"github.com/katalvlaran/lawnmower/snapshot"
)

var (
	// ErrNoGarden indicates neither layout nor random was given.
	ErrNoGarden = errors.New("scenario: layout or random is required")
	// ErrAmbiguous indicates both layout and random were given.
	ErrAmbiguous = errors.New("scenario: layout and random are mutually exclusive")
	// ErrBadRune indicates a layout character with no cell kind.
	ErrBadRune = errors.New("scenario: unknown layout rune")
	// ErrDuplicateMarker indicates more than one Home, start or end cell.
	ErrDuplicateMarker = errors.New("scenario: duplicate marker")
)

// Scenario is a ready-to-run garden.
type Scenario struct {
	Name   string
	Grid   *garden.Grid
	Home   *garden.Position
	Start  *garden.Position
	Target *garden.Position
}

// Random describes a generated garden.
type Random struct {
	Rows            int   `yaml:"rows"`
	Cols            int   `yaml:"cols"`
	Seed            int64 `yaml:"seed"`
	ObstaclePercent *int  `yaml:"obstacle_percent"`
}

// File is the YAML document shape.
type File struct {
	Name   string           `yaml:"name,omitempty"`
	Layout string           `yaml:"layout,omitempty"`
	Random *Random          `yaml:"random,omitempty"`
	Start  *garden.Position `yaml:"start,omitempty"`
	Target *garden.Position `yaml:"target,omitempty"`
}

// markers may appear at most once in a garden.
var markers = []garden.CellKind{garden.Home, garden.WaypointStart, garden.WaypointEnd, garden.AgentHere}

// Parse builds a Scenario from a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoGarden
		}
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}

	return f.Build()
}

// Build materialises f.
func (f File) Build() (*Scenario, error) {
	hasLayout := strings.TrimSpace(f.Layout) != ""
	switch {
	case hasLayout && f.Random != nil:
		return nil, ErrAmbiguous
	case !hasLayout && f.Random == nil:
		return nil, ErrNoGarden
	}

	var (
		g   *garden.Grid
		err error
	)
	if hasLayout {
		g, err = ParseLayout(f.Layout)
	} else {
		g, err = f.Random.generate()
	}
	if err != nil {
		return nil, err
	}

	sc, err := FromGrid(f.Name, g)
	if err != nil {
		return nil, err
	}
	if f.Start != nil {
		if !g.InBounds(f.Start.Row, f.Start.Col) {
			return nil, fmt.Errorf("scenario: start %v: %w", *f.Start, garden.ErrOutOfBounds)
		}
		sc.Start = clonePos(f.Start)
	}
	if f.Target != nil {
		if !g.InBounds(f.Target.Row, f.Target.Col) {
			return nil, fmt.Errorf("scenario: target %v: %w", *f.Target, garden.ErrOutOfBounds)
		}
		sc.Target = clonePos(f.Target)
	}

	return sc, nil
}

// ParseLayout converts layout runes into a grid. Blank lines and
// surrounding whitespace are ignored.
func ParseLayout(layout string) (*garden.Grid, error) {
	var kinds [][]garden.CellKind
	for i, line := range strings.Split(layout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]garden.CellKind, 0, len(line))
		for j, r := range line {
			k, ok := garden.ParseRune(r)
			if !ok {
				return nil, fmt.Errorf("%w %q at line %d col %d", ErrBadRune, r, i+1, j+1)
			}
			row = append(row, k)
		}
		kinds = append(kinds, row)
	}

	g, err := garden.FromKinds(kinds)
	if err != nil {
		return nil, fmt.Errorf("scenario: layout: %w", err)
	}
	return g, nil
}

// FromGrid wraps g, locating its Home and waypoint cells.
func FromGrid(name string, g *garden.Grid) (*Scenario, error) {
	for _, k := range markers {
		if n := g.Count(k); n > 1 {
			return nil, fmt.Errorf("%w: %d %s cells", ErrDuplicateMarker, n, k)
		}
	}
	sc := &Scenario{Name: name, Grid: g}
	sc.Home = find(g, garden.Home)
	sc.Start = find(g, garden.WaypointStart)
	sc.Target = find(g, garden.WaypointEnd)

	return sc, nil
}

// Load reads a scenario from path. Files ending in snapshot.Extension are
// decoded as binary snapshots; anything else is parsed as YAML. A missing
// name defaults to the file's base name.
func Load(path string) (*Scenario, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if filepath.Ext(path) == snapshot.Extension {
		snap, err := snapshot.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sc, err := FromGrid(base, snap.Grid)
		if err != nil {
			return nil, err
		}
		sc.Start, sc.Target = snap.Start, snap.End
		return sc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = base
	}
	return sc, nil
}

// Marshal encodes sc as a layout scenario. Start and target are written
// only when they differ from the waypoint cells drawn in the layout.
func Marshal(sc *Scenario) ([]byte, error) {
	f := File{Name: sc.Name, Layout: render.Plain(sc.Grid)}
	if sc.Start != nil && find(sc.Grid, garden.WaypointStart) == nil {
		f.Start = clonePos(sc.Start)
	}
	if sc.Target != nil && find(sc.Grid, garden.WaypointEnd) == nil {
		f.Target = clonePos(sc.Target)
	}
	out, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("scenario: encode: %w", err)
	}
	return out, nil
}

// Snapshot returns the persistable form of sc.
func (sc *Scenario) Snapshot() snapshot.Snapshot {
	return snapshot.Snapshot{Grid: sc.Grid, Start: sc.Start, End: sc.Target}
}

func (r *Random) generate() (*garden.Grid, error) {
	g, err := garden.New(r.Rows, r.Cols)
	if err != nil {
		return nil, fmt.Errorf("scenario: random: %w", err)
	}
	percent := garden.DefaultObstaclePercent
	if r.ObstaclePercent != nil {
		percent = *r.ObstaclePercent
	}
	if _, _, err = garden.Randomize(g, garden.NewRNG(r.Seed), percent); err != nil {
		return nil, fmt.Errorf("scenario: random: %w", err)
	}
	return g, nil
}

func find(g *garden.Grid, k garden.CellKind) *garden.Position {
	if p, ok := g.Find(k); ok {
		return &p
	}
	return nil
}

func clonePos(p *garden.Position) *garden.Position {
	c := *p
	return &c
}
