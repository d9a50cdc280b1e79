/*
	The in-memory library/structure/element model: spec.md §6's
	"collaborator interface" implemented directly, since spec.md §1
	places the richer geometry library (paths, rectangles, boolean
	ops) out of scope but the codec still needs concrete types to
	read and write.  Generalizes the teacher's doclayer.go Node
	(a type tag plus a field bag) to the tagged-variant shape spec.md's
	Design Notes call for: a struct with a Kind discriminant, not an
	interface hierarchy.
*/
package gdsii

import "time"

// Point is a length pair in micrometers (spec.md §6 "a point type
// with accessible x, y length fields").
type Point struct {
	X, Y float64
}

// Polygon is the distinct-vertex sequence of a boundary element, not
// including the on-disk closing duplicate of the first vertex (that
// duplicate is an encoding detail, added by the writer and stripped
// by the reader -- spec.md §4.5 "discard the final (closing) pair").
type Polygon struct {
	Vertices []Point
}

// cellID indexes into a Library's structure arena (spec.md's Design
// Notes "arena-with-indices" recommendation); AddStructure assigns it.
// The writer's dependency sort keys structures by name, not by this
// id.  References themselves hold a resolved
// *Structure pointer: Go's garbage collector has no trouble with
// reference cycles, so there is no ownership reason to route every
// access through an index once resolution is done.
type cellID int

// Boundary is a (layer, datatype) polygon (spec.md §3).
type Boundary struct {
	Layer, Datatype int16
	Polygon         Polygon
}

// Text is a single anchor-point label (spec.md §3).
type Text struct {
	Layer, TextType int16
	Anchor          Point
	Width           float64 // micrometers; sign carried separately in CanScale
	CanScale        bool    // spec.md §3: positive width scales with transforms
	HAlign          HAlign
	VAlign          VAlign
	Transform       Transform
	String          string
}

// ReferenceKind discriminates SREF from AREF.
type ReferenceKind uint8

const (
	SRefKind ReferenceKind = iota
	ARefKind
)

// Reference is a structure reference: SREF, or AREF when Kind is
// ARefKind and Cols/Rows/DeltaCol/DeltaRow are populated (spec.md §3).
type Reference struct {
	Kind          ReferenceKind
	StructureName string
	Structure     *Structure // resolved by the two-pass reference resolver; nil until then
	Origin        Point
	Transform     Transform

	Cols, Rows         int   // AREF only
	DeltaCol, DeltaRow Point // AREF only
}

// Structure is a named container of geometry and references that may
// itself be referenced from other structures (spec.md §3 "Structure").
type Structure struct {
	id cellID

	Name     string
	Created  time.Time
	Modified time.Time

	Boundaries []Boundary
	Texts      []Text
	References []Reference

	// PreferredScale is this cell's own preferred database scale, if
	// it expresses one; spec.md §4.6 "each cell may carry its own
	// preferred scale".
	PreferredScale *Scale
}

// NewStructure returns an empty, named Structure.
func NewStructure(name string) *Structure {
	now := time.Now()
	return &Structure{Name: name, Created: now, Modified: now}
}

// NewBoundary constructs a boundary element from parsed attributes
// (spec.md §6 "factory operations... from parsed attributes").
func NewBoundary(layer, datatype int16, vertices []Point) Boundary {
	return Boundary{Layer: layer, Datatype: datatype, Polygon: Polygon{Vertices: vertices}}
}

// NewText constructs a text element from parsed attributes.
func NewText(layer, textType int16, anchor Point, widthMicrometers float64, canScale bool, h HAlign, v VAlign, s string) Text {
	return Text{
		Layer: layer, TextType: textType, Anchor: anchor,
		Width: widthMicrometers, CanScale: canScale,
		HAlign: h, VAlign: v, String: s, Transform: IdentityTransform(),
	}
}

// NewSRef constructs a single structure reference from parsed
// attributes.
func NewSRef(structureName string, origin Point, t Transform) Reference {
	return Reference{Kind: SRefKind, StructureName: structureName, Origin: origin, Transform: t}
}

// NewARef constructs a rectangular array reference from parsed
// attributes.
func NewARef(structureName string, origin Point, cols, rows int, deltaCol, deltaRow Point, t Transform) Reference {
	return Reference{
		Kind: ARefKind, StructureName: structureName, Origin: origin, Transform: t,
		Cols: cols, Rows: rows, DeltaCol: deltaCol, DeltaRow: deltaRow,
	}
}

// AddBoundary appends a boundary element to the structure.
func (s *Structure) AddBoundary(b Boundary) { s.Boundaries = append(s.Boundaries, b) }

// AddText appends a text element to the structure.
func (s *Structure) AddText(t Text) { s.Texts = append(s.Texts, t) }

// AddReference appends a reference to the structure.
func (s *Structure) AddReference(r Reference) { s.References = append(s.References, r) }

// Library is the top-level document: a named, unit-scaled collection
// of structures (spec.md §3 "Library").
type Library struct {
	Name     string
	DBUnit   Scale
	UserUnit float64 // meters per user unit
	Created  time.Time
	Accessed time.Time

	// Structures holds every structure in on-disk order, the arena
	// spec.md's Design Notes describe.
	Structures []*Structure
}

// NewLibrary returns an empty library with the given name and units.
func NewLibrary(name string, dbUnit Scale, userUnitMeters float64) *Library {
	now := time.Now()
	return &Library{Name: name, DBUnit: dbUnit, UserUnit: userUnitMeters, Created: now, Accessed: now}
}

// AddStructure appends a structure to the library, assigning it its
// arena id.
func (lib *Library) AddStructure(s *Structure) {
	s.id = cellID(len(lib.Structures))
	lib.Structures = append(lib.Structures, s)
}

// ByName performs an exact, case-sensitive lookup by structure name
// (spec.md §4.5 "look up the target by exact name").
func (lib *Library) ByName(name string) (*Structure, bool) {
	for _, s := range lib.Structures {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// TopLevel returns the structures not reachable as a reference target
// from any other structure in the library, in on-disk order (spec.md
// §6 "Exit behavior of the reader").
func (lib *Library) TopLevel() []*Structure {
	referenced := make(map[string]bool, len(lib.Structures))
	for _, s := range lib.Structures {
		for _, r := range s.References {
			referenced[r.StructureName] = true
		}
	}
	var top []*Structure
	for _, s := range lib.Structures {
		if !referenced[s.Name] {
			top = append(top, s)
		}
	}
	return top
}

// TopLevelMap is TopLevel rendered as a name-keyed map, the shape
// spec.md §6 describes the reader's result as ("a name→cell mapping
// of top-level cells").
func (lib *Library) TopLevelMap() map[string]*Structure {
	m := make(map[string]*Structure)
	for _, s := range lib.TopLevel() {
		m[s.Name] = s
	}
	return m
}
