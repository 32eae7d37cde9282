package snapshot

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lawnmower/garden"
)

func sampleGrid(t *testing.T) *garden.Grid {
	t.Helper()
	g, err := garden.New(5, 6)
	require.NoError(t, err)
	_ = g.SetKind(0, 0, garden.Home)
	_ = g.SetKind(2, 3, garden.Obstacle)
	_ = g.SetKind(4, 5, garden.Obstacle)
	return g
}

func TestRoundTrip(t *testing.T) {
	g := sampleGrid(t)
	start := garden.Position{Row: 1, Col: 4}
	end := garden.Position{Row: 3, Col: 0}
	_ = g.SetKind(start.Row, start.Col, garden.WaypointStart)
	_ = g.SetKind(end.Row, end.Col, garden.WaypointEnd)
	// transient marks are not persisted
	_ = g.SetKind(1, 1, garden.Visited)
	_ = g.SetKind(1, 2, garden.AgentHere)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Snapshot{Grid: g, Start: &start, End: &end}))
	assert.Equal(t, 4*(2+5*6+4), buf.Len())

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.Start)
	require.NotNil(t, got.End)
	assert.Equal(t, start, *got.Start)
	assert.Equal(t, end, *got.End)

	want := g.Clone()
	want.Reset()
	assert.Equal(t, want.Kinds(), got.Grid.Kinds())
}

func TestRoundTrip_NoWaypoints(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Snapshot{Grid: sampleGrid(t)}))
	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Nil(t, got.Start)
	assert.Nil(t, got.End)
}

func TestEncode_Rejects(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, Snapshot{}), ErrNilGrid)

	small, _ := garden.New(3, 3)
	assert.ErrorIs(t, Encode(&buf, Snapshot{Grid: small}), ErrDimensions)
}

func TestDecode_Corrupt(t *testing.T) {
	write := func(vals ...int32) *bytes.Buffer {
		var b bytes.Buffer
		_ = binary.Write(&b, binary.LittleEndian, vals)
		return &b
	}

	_, err := Decode(write(200, 5))
	assert.ErrorIs(t, err, ErrDimensions)

	_, err = Decode(write(5))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Decode(write(5, 5, 0, 0, 0))
	assert.ErrorIs(t, err, ErrTruncated)

	cells := make([]int32, 2+25+4)
	cells[0], cells[1] = 5, 5
	cells[2+7] = 9
	_, err = Decode(write(cells...))
	assert.ErrorIs(t, err, ErrBadKind)

	cells[2+7] = 257 // would wrap to a valid uint8
	_, err = Decode(write(cells...))
	assert.ErrorIs(t, err, ErrBadKind)

	cells[2+7] = 0
	cells[2+25], cells[2+25+1] = 7, 0 // start col 7 is off the grid
	cells[2+25+2] = -1
	_, err = Decode(write(cells...))
	assert.ErrorIs(t, err, garden.ErrOutOfBounds)
}

func TestFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lawn"+Extension)
	g := sampleGrid(t)
	require.NoError(t, WriteFile(path, Snapshot{Grid: g}))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, g.Kinds(), got.Grid.Kinds())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing"+Extension))
	assert.Error(t, err)
}
