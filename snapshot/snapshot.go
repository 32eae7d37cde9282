// Package snapshot reads and writes binary garden files.
//
// Layout (little-endian int32 throughout):
//
//	rows, cols
//	rows×cols cell kinds, row-major
//	start col, start row, end col, end row   (-1 when absent)
//
// Only the editor state is persisted: visited marks and the mower marker
// are cleared before writing.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/lawnmower/garden"
)

// Dimension limits accepted by Decode and Encode.
const (
	MinDimension = 5
	MaxDimension = 150
)

// Extension is the conventional file suffix.
const Extension = ".garden"

var (
	// ErrDimensions indicates rows or cols outside [MinDimension, MaxDimension].
	ErrDimensions = errors.New("snapshot: dimensions out of range")
	// ErrBadKind indicates an unknown cell kind in the stream.
	ErrBadKind = errors.New("snapshot: unknown cell kind")
	// ErrTruncated indicates the stream ended early.
	ErrTruncated = errors.New("snapshot: truncated data")
	// ErrNilGrid indicates Encode was given no grid.
	ErrNilGrid = errors.New("snapshot: grid is nil")
)

var order = binary.LittleEndian

// Snapshot is a persisted garden and its optional waypoints.
type Snapshot struct {
	Grid  *garden.Grid
	Start *garden.Position
	End   *garden.Position
}

// Encode writes s to w.
func Encode(w io.Writer, s Snapshot) error {
	if s.Grid == nil {
		return ErrNilGrid
	}
	g := s.Grid.Clone()
	g.Reset()
	rows, cols := g.Rows(), g.Cols()
	if err := checkDims(rows, cols); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	buf := make([]int32, 0, 2+rows*cols+4)
	buf = append(buf, int32(rows), int32(cols))
	for _, row := range g.Kinds() {
		for _, k := range row {
			buf = append(buf, int32(k))
		}
	}
	buf = append(buf, coords(s.Start)...)
	buf = append(buf, coords(s.End)...)
	if err := binary.Write(bw, order, buf); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}

	return bw.Flush()
}

// Decode reads a snapshot from r. Waypoint cells are re-stamped with their
// kinds so the grid matches what the editor showed.
func Decode(r io.Reader) (Snapshot, error) {
	br := bufio.NewReader(r)
	var dims [2]int32
	if err := read(br, &dims); err != nil {
		return Snapshot{}, err
	}
	rows, cols := int(dims[0]), int(dims[1])
	if err := checkDims(rows, cols); err != nil {
		return Snapshot{}, err
	}

	raw := make([]int32, rows*cols)
	if err := read(br, raw); err != nil {
		return Snapshot{}, err
	}
	kinds := make([][]garden.CellKind, rows)
	for i := range kinds {
		kinds[i] = make([]garden.CellKind, cols)
		for j := range kinds[i] {
			v := raw[i*cols+j]
			if v < 0 || v > math.MaxUint8 || !garden.CellKind(v).Valid() {
				return Snapshot{}, fmt.Errorf("%w: %d at (%d,%d)", ErrBadKind, v, i, j)
			}
			kinds[i][j] = garden.CellKind(v)
		}
	}
	g, err := garden.FromKinds(kinds)
	if err != nil {
		return Snapshot{}, err
	}

	var wp [4]int32
	if err = read(br, &wp); err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{Grid: g}
	if s.Start, err = stamp(g, wp[0], wp[1], garden.WaypointStart); err != nil {
		return Snapshot{}, err
	}
	if s.End, err = stamp(g, wp[2], wp[3], garden.WaypointEnd); err != nil {
		return Snapshot{}, err
	}

	return s, nil
}

// WriteFile encodes s into path.
func WriteFile(path string, s Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(f, s)
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

func read(r io.Reader, data any) error {
	if err := binary.Read(r, order, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrTruncated
		}
		return fmt.Errorf("snapshot: read: %w", err)
	}
	return nil
}

func checkDims(rows, cols int) error {
	if rows < MinDimension || rows > MaxDimension || cols < MinDimension || cols > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, rows, cols)
	}
	return nil
}

// coords encodes p as (col, row), or (-1, -1) when absent.
func coords(p *garden.Position) []int32 {
	if p == nil {
		return []int32{-1, -1}
	}
	return []int32{int32(p.Col), int32(p.Row)}
}

// stamp marks a waypoint read as (col, row). A negative column means absent.
func stamp(g *garden.Grid, col, row int32, kind garden.CellKind) (*garden.Position, error) {
	if col < 0 {
		return nil, nil
	}
	p := garden.Position{Row: int(row), Col: int(col)}
	if err := g.SetKind(p.Row, p.Col, kind); err != nil {
		return nil, fmt.Errorf("snapshot: waypoint %v: %w", p, err)
	}
	return &p, nil
}
