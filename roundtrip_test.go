package gdsii

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAndRead(t *testing.T, lib *Library) *Library {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, lib, nil))
	got, err := Read(context.Background(), &buf)
	require.NoError(t, err)
	return got
}

func TestRoundTripEmptyLibrary(t *testing.T) {
	lib := NewLibrary("EMPTY", Micrometer(), 1e-6)
	lib.AddStructure(NewStructure("A"))

	got := writeAndRead(t, lib)
	require.Len(t, got.Structures, 1)
	assert.Equal(t, "A", got.Structures[0].Name)
	assert.Empty(t, got.Structures[0].Boundaries)
}

func TestRoundTripPolygonClosure(t *testing.T) {
	lib := NewLibrary("POLY", Micrometer(), 1e-6)
	s := NewStructure("A")
	s.AddBoundary(NewBoundary(1, 0, []Point{{0, 0}, {1000, 0}, {1000, 1000}, {0, 1000}}))
	lib.AddStructure(s)

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, lib, nil))

	// 4 distinct vertices + 1 closing duplicate = 5 pairs * 8 bytes/pair = 40 bytes.
	rr := newRecordReader(bytes.NewReader(buf.Bytes()))
	var sawXY bool
	for {
		tok, payload, err := rr.next()
		if err != nil {
			break
		}
		if tok == XY {
			assert.Equal(t, 40, len(payload))
			sawXY = true
		}
	}
	require.True(t, sawXY)

	got := writeAndRead(t, lib)
	assert.Equal(t, s.Boundaries[0].Polygon.Vertices, got.Structures[0].Boundaries[0].Polygon.Vertices)
}

func TestRoundTripSRefTransform(t *testing.T) {
	lib := NewLibrary("REFS", Micrometer(), 1e-6)
	child := NewStructure("CHILD")
	child.AddBoundary(NewBoundary(1, 0, []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}))
	lib.AddStructure(child)

	parent := NewStructure("PARENT")
	parent.AddReference(NewSRef("CHILD", Point{100, 200}, Transform{Reflect: true, Mag: 1, Rotation: 90}))
	lib.AddStructure(parent)

	got := writeAndRead(t, lib)
	p, ok := got.ByName("PARENT")
	require.True(t, ok)
	require.Len(t, p.References, 1)
	ref := p.References[0]
	assert.Equal(t, "CHILD", ref.StructureName)
	require.NotNil(t, ref.Structure)
	assert.Equal(t, "CHILD", ref.Structure.Name)
	assert.True(t, ref.Transform.Reflect)
	assert.Equal(t, float64(90), ref.Transform.Rotation)
	assert.InDelta(t, 100, ref.Origin.X, 1.0)
	assert.InDelta(t, 200, ref.Origin.Y, 1.0)
}

func TestRoundTripARefDeltas(t *testing.T) {
	lib := NewLibrary("ARRAY", Micrometer(), 1e-6)
	child := NewStructure("CELL")
	child.AddBoundary(NewBoundary(1, 0, []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}))
	lib.AddStructure(child)

	parent := NewStructure("TOP")
	deltaCol := Point{X: 50, Y: 0}
	deltaRow := Point{X: 0, Y: 75}
	parent.AddReference(NewARef("CELL", Point{0, 0}, 3, 2, deltaCol, deltaRow, IdentityTransform()))
	lib.AddStructure(parent)

	got := writeAndRead(t, lib)
	top, ok := got.ByName("TOP")
	require.True(t, ok)
	require.Len(t, top.References, 1)
	ref := top.References[0]
	assert.Equal(t, ARefKind, ref.Kind)
	assert.Equal(t, 3, ref.Cols)
	assert.Equal(t, 2, ref.Rows)
	assert.InDelta(t, deltaCol.X, ref.DeltaCol.X, 1.0)
	assert.InDelta(t, deltaRow.Y, ref.DeltaRow.Y, 1.0)
}

func TestRoundTripTextWidthAndPresentation(t *testing.T) {
	// 1 nm database unit, so the 2.5 um width lies on the grid
	lib := NewLibrary("LABELS", Nanometer(), 1e-6)
	s := NewStructure("A")
	s.AddText(NewText(1, 0, Point{5, 5}, 2.5, false, RightEdge, BottomEdge, "hello"))
	lib.AddStructure(s)

	got := writeAndRead(t, lib)
	require.Len(t, got.Structures[0].Texts, 1)
	text := got.Structures[0].Texts[0]
	assert.Equal(t, "hello", text.String)
	assert.False(t, text.CanScale)
	assert.InDelta(t, 2.5, text.Width, 0.01)
	assert.Equal(t, RightEdge, text.HAlign)
	assert.Equal(t, BottomEdge, text.VAlign)
}

func TestDuplicateStructureNameWarnsButStillWrites(t *testing.T) {
	lib := NewLibrary("DUP", Micrometer(), 1e-6)
	lib.AddStructure(NewStructure("cell"))
	lib.AddStructure(NewStructure("CELL"))

	got := writeAndRead(t, lib)
	require.Len(t, got.Structures, 2)
	assert.Equal(t, "cell", got.Structures[0].Name)
	assert.Equal(t, "CELL", got.Structures[1].Name)
}

func TestUnresolvedReferenceRejectedOnRead(t *testing.T) {
	lib := NewLibrary("DANGLING", Micrometer(), 1e-6)
	s := NewStructure("A")
	s.AddReference(NewSRef("MISSING", Point{0, 0}, IdentityTransform()))
	lib.AddStructure(s)

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, lib, nil))
	_, err := Read(context.Background(), &buf)
	assert.Error(t, err)
}

func TestTopologicalCycleRejectedOnWrite(t *testing.T) {
	lib := NewLibrary("CYCLE", Micrometer(), 1e-6)
	a := NewStructure("A")
	b := NewStructure("B")
	a.AddReference(NewSRef("B", Point{0, 0}, IdentityTransform()))
	b.AddReference(NewSRef("A", Point{0, 0}, IdentityTransform()))
	lib.AddStructure(a)
	lib.AddStructure(b)

	var buf bytes.Buffer
	err := Write(context.Background(), &buf, lib, nil)
	assert.Error(t, err)
}
