/*
	Stream encoding (spec.md §4.4, §4.6).  Orchestration mirrors the
	teacher's logbase.go Save: resolve configuration (here, the
	database scale), then hand off to record-level emission.  The
	dependency ordering step has no teacher counterpart -- nothing in
	the retrieval pack implements a topological sort -- so it is built
	directly from Kahn's algorithm against the reference graph.
*/
package gdsii

import (
	"context"
	"io"
	"math"
	"time"
)

// Write encodes lib as a GDSII stream onto w.  scale, if non-nil, is
// one more candidate alongside the library's DBUnit and any
// structure's PreferredScale: at least one candidate must be set, and
// every set candidate must agree, or Write fails (spec.md §4.6, §7
// "no agreed database scale").
func Write(ctx context.Context, w io.Writer, lib *Library, scale *Scale) error {
	logger := LoggerFromContext(ctx)

	resolvedScale, err := resolveScale(lib, scale)
	if err != nil {
		return err
	}

	order, err := topologicalOrder(lib)
	if err != nil {
		return err
	}

	rw := newRecordWriter(w)
	if err := writeLibraryHeader(rw, lib, resolvedScale); err != nil {
		return err
	}

	// Duplicate-name detection (spec.md §4.4): a name colliding with a
	// different structure already emitted is a warning, not an error,
	// and the colliding structure is still written; re-emitting the
	// exact same structure object under a name already seen is
	// silently dropped instead.
	names := newNameTable()
	emitted := make(map[string]*Structure, len(order))
	for _, s := range order {
		checkName(logger, s.Name)
		key := normalizedName(s.Name)
		if existing, dup := emitted[key]; dup {
			if existing == s {
				continue
			}
			logger.Warn("duplicate structure name", "name", s.Name, "collides_with", existing.Name)
		}
		emitted[key] = s
		names.add(s.Name)

		if err := writeStructure(rw, resolvedScale, logger, s); err != nil {
			return err
		}
	}
	_, err = rw.WriteEmpty(ENDLIB)
	return err
}

// resolveScale picks the single database scale every candidate source
// agrees on: an explicit override, the library's own DBUnit, and any
// structure's PreferredScale.
func resolveScale(lib *Library, override *Scale) (Scale, error) {
	var candidate *Scale
	consider := func(s Scale) error {
		if s.MetersPerUnit == 0 {
			return nil
		}
		if candidate == nil {
			c := s
			candidate = &c
			return nil
		}
		if !scalesAgree(*candidate, s) {
			return errNoAgreedScale()
		}
		return nil
	}

	if override != nil {
		if err := consider(*override); err != nil {
			return Scale{}, err
		}
	}
	if err := consider(lib.DBUnit); err != nil {
		return Scale{}, err
	}
	for _, s := range lib.Structures {
		if s.PreferredScale != nil {
			if err := consider(*s.PreferredScale); err != nil {
				return Scale{}, err
			}
		}
	}
	if candidate == nil {
		return Scale{}, errNoAgreedScale()
	}
	return *candidate, nil
}

func scalesAgree(a, b Scale) bool {
	return math.Abs(a.MetersPerUnit-b.MetersPerUnit) <= scaleSnapTolerance*b.MetersPerUnit
}

// topologicalOrder returns lib's structures ordered leaves-first: a
// structure referencing nothing comes before anything that references
// it (spec.md §4.4 "every cell appears before any cell that
// references it").  Kahn's algorithm; a cycle leaves structures
// unprocessed and is reported as errTopologicalCycle.  A reference to
// a name that no structure in lib carries places no ordering
// constraint; such names are reported on read, not here.
func topologicalOrder(lib *Library) ([]*Structure, error) {
	refSets := make(map[string]map[string]bool, len(lib.Structures))
	for _, s := range lib.Structures {
		refs := make(map[string]bool, len(s.References))
		for _, r := range s.References {
			refs[r.StructureName] = true
		}
		refSets[s.Name] = refs
	}

	inDegree := make(map[string]int, len(lib.Structures))
	dependents := make(map[string][]*Structure)
	for _, s := range lib.Structures {
		inDegree[s.Name] = 0
	}
	for _, s := range lib.Structures {
		for target := range refSets[s.Name] {
			if _, inLibrary := refSets[target]; !inLibrary {
				continue
			}
			inDegree[s.Name]++
			dependents[target] = append(dependents[target], s)
		}
	}

	var queue []*Structure
	for _, s := range lib.Structures {
		if inDegree[s.Name] == 0 {
			queue = append(queue, s)
		}
	}

	var order []*Structure
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		order = append(order, s)
		for _, dep := range dependents[s.Name] {
			inDegree[dep.Name]--
			if inDegree[dep.Name] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(lib.Structures) {
		for _, s := range lib.Structures {
			if inDegree[s.Name] > 0 {
				return nil, errTopologicalCycle(s.Name)
			}
		}
	}
	return order, nil
}

func writeLibraryHeader(rw *recordWriter, lib *Library, scale Scale) error {
	if _, err := rw.WriteInt16(HEADER, []int16{streamVersion}); err != nil {
		return err
	}
	bgn := append(timeToShorts(lib.Created), timeToShorts(lib.Accessed)...)
	if _, err := rw.WriteInt16(BGNLIB, bgn); err != nil {
		return err
	}
	if _, err := rw.WriteASCII(LIBNAME, lib.Name); err != nil {
		return err
	}
	_, err := rw.WriteReal64(UNITS, unitsPayload(scale, lib.UserUnit))
	return err
}

// writeStructure emits one structure.  Its modification timestamp is
// always "now" on write, regardless of what the Structure value
// carries; the creation timestamp is preserved verbatim (spec.md §4.4,
// §9 Open Question).
func writeStructure(rw *recordWriter, scale Scale, logger Logger, s *Structure) error {
	bgn := append(timeToShorts(s.Created), timeToShorts(time.Now())...)
	if _, err := rw.WriteInt16(BGNSTR, bgn); err != nil {
		return err
	}
	if _, err := rw.WriteASCII(STRNAME, s.Name); err != nil {
		return err
	}
	for _, b := range s.Boundaries {
		if err := writeBoundary(rw, scale, logger, b); err != nil {
			return err
		}
	}
	for _, r := range s.References {
		if err := writeReference(rw, scale, logger, r); err != nil {
			return err
		}
	}
	for _, t := range s.Texts {
		if err := writeText(rw, scale, logger, t); err != nil {
			return err
		}
	}
	_, err := rw.WriteEmpty(ENDSTR)
	return err
}

func writeBoundary(rw *recordWriter, scale Scale, logger Logger, b Boundary) error {
	if len(b.Polygon.Vertices) < 3 {
		return errPolygonTooFewVertices(len(b.Polygon.Vertices))
	}
	checkLayerDatatype(logger, b.Layer, b.Datatype)

	if _, err := rw.WriteEmpty(BOUNDARY); err != nil {
		return err
	}
	if _, err := rw.WriteInt16(LAYER, []int16{b.Layer}); err != nil {
		return err
	}
	if _, err := rw.WriteInt16(DATATYPE, []int16{b.Datatype}); err != nil {
		return err
	}
	xy, err := encodePolygonXY(scale, b.Polygon)
	if err != nil {
		return err
	}
	if _, err := rw.WriteInt32(XY, xy); err != nil {
		return err
	}
	_, err = rw.WriteEmpty(ENDEL)
	return err
}

// encodePolygonXY appends the on-disk closing duplicate of the first
// vertex (spec.md §4.4 "the last XY pair emitted equals the first").
func encodePolygonXY(scale Scale, poly Polygon) ([]int32, error) {
	n := len(poly.Vertices)
	out := make([]int32, 0, (n+1)*2)
	for _, v := range poly.Vertices {
		x, err := scale.Encode(v.X)
		if err != nil {
			return nil, err
		}
		y, err := scale.Encode(v.Y)
		if err != nil {
			return nil, err
		}
		out = append(out, x, y)
	}
	if n > 0 {
		out = append(out, out[0], out[1])
	}
	return out, nil
}

func writeReference(rw *recordWriter, scale Scale, logger Logger, r Reference) error {
	tok := SREF
	if r.Kind == ARefKind {
		tok = AREF
		checkColRow(logger, r.Cols, r.Rows)
	}
	if _, err := rw.WriteEmpty(tok); err != nil {
		return err
	}
	if _, err := rw.WriteASCII(SNAME, r.StructureName); err != nil {
		return err
	}
	if err := writeTransform(rw, r.Transform); err != nil {
		return err
	}
	if r.Kind == ARefKind {
		if _, err := rw.WriteInt16(COLROW, []int16{int16(r.Cols), int16(r.Rows)}); err != nil {
			return err
		}
	}

	ox, err := scale.Encode(r.Origin.X)
	if err != nil {
		return err
	}
	oy, err := scale.Encode(r.Origin.Y)
	if err != nil {
		return err
	}
	xy := []int32{ox, oy}

	if r.Kind == ARefKind {
		// AREF's three XY points are the origin and the far corners of
		// the column and row displacement vectors (spec.md §4.4).
		p2x, err := scale.Encode(r.Origin.X + float64(r.Cols)*r.DeltaCol.X)
		if err != nil {
			return err
		}
		p2y, err := scale.Encode(r.Origin.Y + float64(r.Cols)*r.DeltaCol.Y)
		if err != nil {
			return err
		}
		p3x, err := scale.Encode(r.Origin.X + float64(r.Rows)*r.DeltaRow.X)
		if err != nil {
			return err
		}
		p3y, err := scale.Encode(r.Origin.Y + float64(r.Rows)*r.DeltaRow.Y)
		if err != nil {
			return err
		}
		xy = append(xy, p2x, p2y, p3x, p3y)
	}

	if _, err := rw.WriteInt32(XY, xy); err != nil {
		return err
	}
	_, err = rw.WriteEmpty(ENDEL)
	return err
}

func writeText(rw *recordWriter, scale Scale, logger Logger, t Text) error {
	checkLayerDatatype(logger, t.Layer, 0)

	if _, err := rw.WriteEmpty(TEXT); err != nil {
		return err
	}
	if _, err := rw.WriteInt16(LAYER, []int16{t.Layer}); err != nil {
		return err
	}
	if _, err := rw.WriteInt16(TEXTTYPE, []int16{t.TextType}); err != nil {
		return err
	}
	bits := uint16(t.HAlign) | uint16(t.VAlign)<<2
	if _, err := rw.WriteBitArray(PRESENTATION, bits); err != nil {
		return err
	}
	if t.Width != 0 {
		width, err := scale.Encode(t.Width)
		if err != nil {
			return err
		}
		if !t.CanScale {
			width = -width
		}
		if _, err := rw.WriteInt32(WIDTH, []int32{width}); err != nil {
			return err
		}
	}
	if err := writeTransform(rw, t.Transform); err != nil {
		return err
	}
	x, err := scale.Encode(t.Anchor.X)
	if err != nil {
		return err
	}
	y, err := scale.Encode(t.Anchor.Y)
	if err != nil {
		return err
	}
	if _, err := rw.WriteInt32(XY, []int32{x, y}); err != nil {
		return err
	}
	if _, err := rw.WriteASCII(STRING, t.String); err != nil {
		return err
	}
	_, err = rw.WriteEmpty(ENDEL)
	return err
}
