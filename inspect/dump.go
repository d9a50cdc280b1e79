/*
	Read-only rendering of a decoded library, for tooling that wants a
	human- or machine-readable view without linking against a full
	geometry stack.  Adapts the teacher's inspect/inspect.go, dropping
	its jessevdk/go-flags CLI surface (spec.md §1 excludes a
	command-line tool) down to two library functions a caller's own
	CLI, test, or service can call directly.  JSON encoding uses
	goccy/go-json, the drop-in encoder the rest of the retrieval pack
	(mantle) reaches for over encoding/json.
*/
package inspect

import (
	"fmt"
	"io"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/h00gs/gdsii"
)

// libraryView and its nested types are the JSON-facing projection of
// a gdsii.Library: plain data, no methods, no cycles (references are
// rendered by name, not by embedding the target structure).
type libraryView struct {
	Name       string           `json:"name"`
	DBUnit     float64          `json:"db_unit_meters_per_unit"`
	UserUnit   float64          `json:"user_unit_meters"`
	Structures []structureView  `json:"structures"`
	TopLevel   []string         `json:"top_level"`
}

type structureView struct {
	Name       string          `json:"name"`
	Boundaries int             `json:"boundary_count"`
	Texts      []textView      `json:"texts"`
	References []referenceView `json:"references"`
}

type textView struct {
	Layer  int16  `json:"layer"`
	String string `json:"string"`
}

type referenceView struct {
	Kind          string `json:"kind"`
	StructureName string `json:"structure_name"`
}

func toView(lib *gdsii.Library) libraryView {
	v := libraryView{
		Name:     lib.Name,
		DBUnit:   lib.DBUnit.MetersPerUnit,
		UserUnit: lib.UserUnit,
	}
	for _, s := range lib.Structures {
		sv := structureView{Name: s.Name, Boundaries: len(s.Boundaries)}
		for _, t := range s.Texts {
			sv.Texts = append(sv.Texts, textView{Layer: t.Layer, String: t.String})
		}
		for _, r := range s.References {
			kind := "sref"
			if r.Kind == gdsii.ARefKind {
				kind = "aref"
			}
			sv.References = append(sv.References, referenceView{Kind: kind, StructureName: r.StructureName})
		}
		v.Structures = append(v.Structures, sv)
	}
	for _, s := range lib.TopLevel() {
		v.TopLevel = append(v.TopLevel, s.Name)
	}
	return v
}

// DumpJSON writes lib as indented JSON to w.
func DumpJSON(w io.Writer, lib *gdsii.Library) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toView(lib))
}

// DumpText writes a short human-readable summary of lib to w, one
// line per structure.
func DumpText(w io.Writer, lib *gdsii.Library) error {
	var b strings.Builder
	fmt.Fprintf(&b, "library %q (db unit %g m, user unit %g m)\n", lib.Name, lib.DBUnit.MetersPerUnit, lib.UserUnit)
	for _, s := range lib.Structures {
		fmt.Fprintf(&b, "  %s: %d boundaries, %d texts, %d references\n",
			s.Name, len(s.Boundaries), len(s.Texts), len(s.References))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
