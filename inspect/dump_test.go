package inspect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h00gs/gdsii"
)

func testLibrary() *gdsii.Library {
	lib := gdsii.NewLibrary("DUMPME", gdsii.Micrometer(), 1e-6)
	s := gdsii.NewStructure("A")
	s.AddBoundary(gdsii.NewBoundary(1, 0, []gdsii.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}))
	s.AddText(gdsii.NewText(1, 0, gdsii.Point{X: 0, Y: 0}, 0, true, gdsii.LeftEdge, gdsii.TopEdge, "label"))
	lib.AddStructure(s)
	return lib
}

func TestDumpJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DumpJSON(&buf, testLibrary()))
	assert.Contains(t, buf.String(), `"name": "DUMPME"`)
	assert.Contains(t, buf.String(), `"label"`)
}

func TestDumpText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DumpText(&buf, testLibrary()))
	assert.Contains(t, buf.String(), "library \"DUMPME\"")
	assert.Contains(t, buf.String(), "A: 1 boundaries, 1 texts, 0 references")
}
